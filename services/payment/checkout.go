package payment

import (
	"context"
	"errors"
	"fmt"

	"wayfarer/database/repository"
	"wayfarer/models"

	"go.uber.org/zap"
)

// CreateCheckout opens a provider checkout for the caller's own unpaid booking.
func (s *DefaultPaymentService) CreateCheckout(ctx context.Context, caller models.Caller, bookingID string) (*models.CheckoutSession, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	if booking.UserID != caller.UserID {
		return nil, ErrForbidden
	}
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		return nil, ErrAlreadyPaid
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}

	description, err := s.describe(ctx, booking)
	if err != nil {
		return nil, err
	}

	email := caller.Email
	if email == "" {
		if user, err := s.Users.GetByID(ctx, booking.UserID); err == nil {
			email = user.Email
		}
	}

	session, err := s.Gateway.CreateSession(ctx, models.CheckoutRequest{
		BookingID:   booking.ID,
		UserEmail:   email,
		Description: description,
		UnitAmount:  models.MinorUnits(booking.TotalPrice),
		Currency:    s.Options.Currency,
		SuccessURL:  s.Options.SuccessURL,
		CancelURL:   s.Options.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	if err := s.Bookings.SetPaymentSession(ctx, booking.ID, session.SessionID); err != nil {
		return nil, fmt.Errorf("store checkout session on booking %s: %w", booking.ID, err)
	}

	s.Logger.Info("checkout session created",
		zap.String("bookingID", booking.ID),
		zap.String("sessionID", session.SessionID),
	)
	return session, nil
}

// describe builds the line item label: "<tour title> (N people)" or the attraction name.
func (s *DefaultPaymentService) describe(ctx context.Context, booking *models.Booking) (string, error) {
	switch booking.Type {
	case models.BookingTypeTour:
		tour, err := s.Catalog.GetTour(ctx, booking.Tour.TourID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Sprintf("Tour booking (%d people)", booking.NumberOfPeople), nil
			}
			return "", fmt.Errorf("load tour %s: %w", booking.Tour.TourID, err)
		}
		return fmt.Sprintf("%s (%d people)", tour.Title, booking.NumberOfPeople), nil
	case models.BookingTypeAttraction:
		return booking.Attraction.Name, nil
	default:
		return "", models.NewValidationError("type", "unknown booking type")
	}
}
