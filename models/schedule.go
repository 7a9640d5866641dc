package models

import "time"

type ScheduleStatus string

const (
	ScheduleStatusAvailable ScheduleStatus = "available"
	ScheduleStatusFull      ScheduleStatus = "full"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// DefaultMaxCapacity is used by the availability calculator when a schedule has no maxCapacity.
const DefaultMaxCapacity = 20

// Schedule is one dated departure of a tour.
type Schedule struct {
	ID             string         `bson:"id" json:"id"`
	TourID         string         `bson:"tourId" json:"tourId"`
	StartDate      time.Time      `bson:"startDate" json:"startDate"`
	EndDate        time.Time      `bson:"endDate" json:"endDate"`
	AvailableSlots int            `bson:"availableSlots" json:"availableSlots"` // total capacity in seats
	BookedSlots    int            `bson:"bookedSlots" json:"bookedSlots"`       // seats held by non-cancelled bookings
	MaxCapacity    int            `bson:"maxCapacity,omitempty" json:"maxCapacity,omitempty"`
	Status         ScheduleStatus `bson:"status" json:"status"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// EffectiveMaxCapacity returns MaxCapacity or DefaultMaxCapacity when unset.
func (s *Schedule) EffectiveMaxCapacity() int {
	if s.MaxCapacity <= 0 {
		return DefaultMaxCapacity
	}
	return s.MaxCapacity
}

// LedgerStatus derives available/full from the seat counters. Cancelled schedules stay cancelled.
func LedgerStatus(current ScheduleStatus, booked, total int) ScheduleStatus {
	if current == ScheduleStatusCancelled {
		return current
	}
	if booked >= total {
		return ScheduleStatusFull
	}
	return ScheduleStatusAvailable
}

// ReleasedSlots floors a decrement of the consumed-capacity counter at zero.
func ReleasedSlots(booked, partySize int) int {
	if partySize >= booked {
		return 0
	}
	return booked - partySize
}

// Availability is the result of the recount-based availability check.
type Availability struct {
	Available      bool `json:"available"`
	RemainingSpots int  `json:"remainingSpots"`
	MaxCapacity    int  `json:"maxCapacity"`
	BookedCount    int  `json:"bookedCount"`
}

// ComputeAvailability derives remaining spots from a count of active bookings.
func ComputeAvailability(maxCapacity, bookedCount int) Availability {
	remaining := maxCapacity - bookedCount
	if remaining < 0 {
		remaining = 0
	}
	return Availability{
		Available:      remaining > 0,
		RemainingSpots: remaining,
		MaxCapacity:    maxCapacity,
		BookedCount:    bookedCount,
	}
}

type CreateScheduleRequest struct {
	TourID         string    `json:"tourId"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	AvailableSlots int       `json:"availableSlots"`
	MaxCapacity    int       `json:"maxCapacity,omitempty"`
}

// UpdateScheduleRequest replaces the dates and capacity of an existing schedule.
type UpdateScheduleRequest struct {
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	AvailableSlots int       `json:"availableSlots"`
	MaxCapacity    int       `json:"maxCapacity,omitempty"`
}

func (r *UpdateScheduleRequest) Validate() error {
	if r.StartDate.IsZero() {
		return NewValidationError("startDate", "missing required field")
	}
	if r.EndDate.IsZero() {
		return NewValidationError("endDate", "missing required field")
	}
	if r.EndDate.Before(r.StartDate) {
		return NewValidationError("endDate", "must not be before startDate")
	}
	if r.AvailableSlots < 1 {
		return NewValidationError("availableSlots", "must be at least 1")
	}
	if r.MaxCapacity < 0 {
		return NewValidationError("maxCapacity", "must not be negative")
	}
	return nil
}

func (r *CreateScheduleRequest) Validate() error {
	if r.TourID == "" {
		return NewValidationError("tourId", "missing required field")
	}
	if r.StartDate.IsZero() {
		return NewValidationError("startDate", "missing required field")
	}
	if r.EndDate.IsZero() {
		return NewValidationError("endDate", "missing required field")
	}
	if r.EndDate.Before(r.StartDate) {
		return NewValidationError("endDate", "must not be before startDate")
	}
	if r.AvailableSlots < 0 {
		return NewValidationError("availableSlots", "must not be negative")
	}
	if r.MaxCapacity < 0 {
		return NewValidationError("maxCapacity", "must not be negative")
	}
	return nil
}
