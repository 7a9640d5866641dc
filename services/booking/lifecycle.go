package booking

import (
	"context"
	"errors"
	"fmt"

	"wayfarer/database/repository"
	bookingRepo "wayfarer/database/repository/booking"
	scheduleRepo "wayfarer/database/repository/schedule"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request, reserves seats on the schedule and stores the
// booking in one transaction. New bookings are confirmed with payment pending.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, caller models.Caller, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, caller)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		Type:            req.Type,
		Tour:            req.Tour,
		Attraction:      req.Attraction,
		NumberOfPeople:  req.NumberOfPeople,
		TotalPrice:      *req.TotalPrice,
		Status:          models.BookingStatusConfirmed,
		PaymentStatus:   models.PaymentStatusPending,
		SpecialRequests: req.SpecialRequests,
	}

	if booking.Type == models.BookingTypeTour {
		if err := s.checkTourSchedule(ctx, req.Tour); err != nil {
			return nil, err
		}
	}

	err = s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if scheduleID := booking.ScheduleID(); scheduleID != "" {
			if _, err := s.Schedules.Reserve(ctx, scheduleID, booking.NumberOfPeople); err != nil {
				return mapScheduleError(err)
			}
		}
		return s.Bookings.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientCapacity) {
			utils.CapacityRejections.Inc()
		}
		utils.BookingEvents.WithLabelValues("create", "failed").Inc()
		return nil, err
	}

	utils.BookingEvents.WithLabelValues("create", "ok").Inc()
	s.Logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("userID", booking.UserID),
		zap.String("type", string(booking.Type)),
		zap.String("scheduleID", booking.ScheduleID()),
		zap.Int("people", booking.NumberOfPeople),
	)
	return booking, nil
}

// resolveUser finds the caller's user record by ID, then by email.
func (s *DefaultBookingService) resolveUser(ctx context.Context, caller models.Caller) (*models.User, error) {
	if caller.UserID != "" {
		user, err := s.Users.GetByID(ctx, caller.UserID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("resolve user %s: %w", caller.UserID, err)
		}
	}
	if caller.Email != "" {
		user, err := s.Users.GetByEmail(ctx, caller.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("resolve user %s: %w", caller.Email, err)
		}
	}
	return nil, ErrUserNotFound
}

func (s *DefaultBookingService) checkTourSchedule(ctx context.Context, tour *models.TourReservation) error {
	if _, err := s.Catalog.GetTour(ctx, tour.TourID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTourNotFound
		}
		return fmt.Errorf("load tour %s: %w", tour.TourID, err)
	}
	schedule, err := s.Schedules.GetByID(ctx, tour.ScheduleID)
	if err != nil {
		return mapScheduleError(err)
	}
	if schedule.TourID != tour.TourID {
		return models.NewValidationError("tour.scheduleId", "schedule does not belong to tour")
	}
	if schedule.Status == models.ScheduleStatusCancelled {
		return ErrScheduleCancelled
	}
	return nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, caller models.Caller, bookingID string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(booking.UserID) {
		return nil, ErrForbidden
	}
	return booking, nil
}

// ListBookings returns the caller's bookings. Admins may list any user's bookings.
func (s *DefaultBookingService) ListBookings(ctx context.Context, caller models.Caller, filter bookingRepo.BookingFilter) ([]models.Booking, error) {
	if !caller.IsAdmin() {
		filter.UserID = caller.UserID
	}
	bookings, err := s.Bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// TransitionStatus is the administrative status change.
func (s *DefaultBookingService) TransitionStatus(ctx context.Context, caller models.Caller, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if !to.IsValid() {
		return nil, models.NewValidationError("status", "must be one of pending, confirmed, cancelled, completed")
	}
	return s.transition(ctx, bookingID, to)
}

// CancelBooking lets the owner (or an admin) cancel a booking.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, caller models.Caller, bookingID string) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(booking.UserID) {
		return nil, ErrForbidden
	}
	return s.transition(ctx, bookingID, models.BookingStatusCancelled)
}

// transition applies one FSM step. Entering cancelled releases the party's seats in the
// same transaction as the status write. Requesting the current status is a no-op.
func (s *DefaultBookingService) transition(ctx context.Context, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	var result *models.Booking
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if current.Status == to {
			result = current
			return nil
		}
		if !current.Status.CanTransitionTo(to) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, to)
		}

		updated, err := s.Bookings.CompareAndSetStatus(ctx, bookingID, current.Status, to)
		if err != nil {
			return mapBookingError(err)
		}
		if to == models.BookingStatusCancelled && current.HoldsCapacity() {
			if err := s.releaseSeats(ctx, current); err != nil {
				return err
			}
		}
		result = updated
		return nil
	})
	if err != nil {
		utils.BookingEvents.WithLabelValues(string(to), "failed").Inc()
		return nil, err
	}

	utils.BookingEvents.WithLabelValues(string(to), "ok").Inc()
	s.Logger.Info("booking status changed",
		zap.String("bookingID", bookingID),
		zap.String("status", string(result.Status)),
	)
	return result, nil
}

// DeleteBooking removes a booking permanently, releasing its seats first when it still holds them.
func (s *DefaultBookingService) DeleteBooking(ctx context.Context, caller models.Caller, bookingID string) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}

	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.loadBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := s.Bookings.DeleteIfStatus(ctx, bookingID, current.Status); err != nil {
			return mapBookingError(err)
		}
		if current.HoldsCapacity() {
			return s.releaseSeats(ctx, current)
		}
		return nil
	})
	if err != nil {
		utils.BookingEvents.WithLabelValues("delete", "failed").Inc()
		return err
	}

	utils.BookingEvents.WithLabelValues("delete", "ok").Inc()
	s.Logger.Info("booking deleted", zap.String("bookingID", bookingID))
	return nil
}

// releaseSeats returns a booking's party size to its schedule. A schedule that no longer
// exists has nothing to release into.
func (s *DefaultBookingService) releaseSeats(ctx context.Context, booking *models.Booking) error {
	scheduleID := booking.ScheduleID()
	_, err := s.Schedules.Release(ctx, scheduleID, booking.NumberOfPeople)
	if errors.Is(err, repository.ErrNotFound) {
		s.Logger.Warn("release skipped: schedule missing",
			zap.String("bookingID", booking.ID),
			zap.String("scheduleID", scheduleID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("release seats for booking %s: %w", booking.ID, err)
	}
	return nil
}

func (s *DefaultBookingService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return booking, nil
}

func mapBookingError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		return ErrConcurrentUpdate
	default:
		return err
	}
}

func mapScheduleError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrScheduleNotFound
	case errors.Is(err, scheduleRepo.ErrInsufficientCapacity):
		return ErrInsufficientCapacity
	case errors.Is(err, scheduleRepo.ErrScheduleCancelled):
		return ErrScheduleCancelled
	default:
		return err
	}
}
