package booking

import (
	"context"
	"fmt"

	"wayfarer/models"
)

// CheckAvailability recounts active bookings on a schedule. It does not trust the
// schedule's ledger counters.
func (s *DefaultBookingService) CheckAvailability(ctx context.Context, scheduleID string) (*models.Availability, error) {
	schedule, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, mapScheduleError(err)
	}

	bookedCount, err := s.Bookings.CountBySchedule(ctx, scheduleID, models.ActiveBookingStatuses)
	if err != nil {
		return nil, fmt.Errorf("count bookings on schedule %s: %w", scheduleID, err)
	}

	availability := models.ComputeAvailability(schedule.EffectiveMaxCapacity(), bookedCount)
	return &availability, nil
}

// CanAccommodate answers from the seat ledger whether partySize more people fit.
func (s *DefaultBookingService) CanAccommodate(ctx context.Context, scheduleID string, partySize int) (bool, error) {
	if partySize < 1 {
		return false, models.NewValidationError("numberOfPeople", "must be at least 1")
	}
	schedule, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return false, mapScheduleError(err)
	}
	if schedule.Status == models.ScheduleStatusCancelled {
		return false, nil
	}
	return partySize <= schedule.AvailableSlots-schedule.BookedSlots, nil
}
