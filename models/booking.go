package models

import (
	"fmt"
	"strings"
	"time"
)

// BookingType tags which payload a booking carries.
type BookingType string

const (
	BookingTypeTour       BookingType = "tour"
	BookingTypeAttraction BookingType = "attraction"
)

// MaxPartySize caps numberOfPeople on a single booking.
const MaxPartySize = 100

// TourReservation is the payload of a tour booking.
type TourReservation struct {
	TourID     string `bson:"tourId" json:"tourId"`
	ScheduleID string `bson:"scheduleId" json:"scheduleId"`
}

// AttractionItem is the payload of a standalone attraction booking.
type AttractionItem struct {
	Name      string `bson:"name" json:"name"`
	Location  string `bson:"location,omitempty" json:"location,omitempty"`
	VisitDate string `bson:"visitDate,omitempty" json:"visitDate,omitempty"` // "YYYY-MM-DD"
	Details   string `bson:"details,omitempty" json:"details,omitempty"`
}

// Booking is a reservation of seats against a schedule, or a standalone attraction purchase.
// Exactly one of Tour or Attraction is set, matching Type.
type Booking struct {
	ID               string           `bson:"id" json:"id"`
	UserID           string           `bson:"userId" json:"userId"`
	Type             BookingType      `bson:"type" json:"type"`
	Tour             *TourReservation `bson:"tour,omitempty" json:"tour,omitempty"`
	Attraction       *AttractionItem  `bson:"attraction,omitempty" json:"attraction,omitempty"`
	NumberOfPeople   int              `bson:"numberOfPeople" json:"numberOfPeople"`
	TotalPrice       float64          `bson:"totalPrice" json:"totalPrice"`
	Status           BookingStatus    `bson:"status" json:"status"`
	PaymentStatus    PaymentStatus    `bson:"paymentStatus" json:"paymentStatus"`
	PaymentSessionID string           `bson:"paymentSessionId,omitempty" json:"paymentSessionId,omitempty"` // checkout session at the provider
	PaymentIntentID  string           `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	SpecialRequests  string           `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	CreatedAt        time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// ScheduleID returns the schedule the booking consumes capacity from, or "" for attraction bookings.
func (b *Booking) ScheduleID() string {
	if b.Type == BookingTypeTour && b.Tour != nil {
		return b.Tour.ScheduleID
	}
	return ""
}

// HoldsCapacity reports whether the booking currently counts against its schedule's ledger.
func (b *Booking) HoldsCapacity() bool {
	return b.ScheduleID() != "" && b.Status != BookingStatusCancelled
}

// CreateBookingRequest is the caller-supplied part of a new booking.
type CreateBookingRequest struct {
	Type            BookingType      `json:"type"`
	Tour            *TourReservation `json:"tour,omitempty"`
	Attraction      *AttractionItem  `json:"attraction,omitempty"`
	NumberOfPeople  int              `json:"numberOfPeople"`
	TotalPrice      *float64         `json:"totalPrice"`
	SpecialRequests string           `json:"specialRequests,omitempty"`
}

// Validate checks the request shape. The payload must match the type tag exactly.
func (r *CreateBookingRequest) Validate() error {
	if r.TotalPrice == nil {
		return NewValidationError("totalPrice", "missing required field")
	}
	if *r.TotalPrice < 0 {
		return NewValidationError("totalPrice", "must not be negative")
	}
	if r.NumberOfPeople < 1 {
		return NewValidationError("numberOfPeople", "must be at least 1")
	}
	if r.NumberOfPeople > MaxPartySize {
		return NewValidationError("numberOfPeople", fmt.Sprintf("must be at most %d", MaxPartySize))
	}

	switch r.Type {
	case BookingTypeTour:
		if r.Tour == nil || strings.TrimSpace(r.Tour.TourID) == "" {
			return NewValidationError("tour.tourId", "missing required field")
		}
		if strings.TrimSpace(r.Tour.ScheduleID) == "" {
			return NewValidationError("tour.scheduleId", "missing required field")
		}
		if r.Attraction != nil {
			return NewValidationError("attraction", "not allowed for tour bookings")
		}
	case BookingTypeAttraction:
		if r.Attraction == nil || strings.TrimSpace(r.Attraction.Name) == "" {
			return NewValidationError("attraction.name", "missing required field")
		}
		if r.Tour != nil {
			return NewValidationError("tour", "not allowed for attraction bookings")
		}
	case "":
		return NewValidationError("type", "missing required field")
	default:
		return NewValidationError("type", "must be one of tour, attraction")
	}
	return nil
}
