package booking

import (
	"context"
	"fmt"

	bookingRepo "wayfarer/database/repository/booking"
	"wayfarer/models"

	"go.uber.org/zap"
)

// ReconcileSchedule rewrites a schedule's consumed capacity from the bookings that hold seats.
func (s *DefaultBookingService) ReconcileSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error) {
	var reconciled *models.Schedule
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seats, err := s.Bookings.SumPartySize(ctx, scheduleID, models.SeatHoldingStatuses)
		if err != nil {
			return fmt.Errorf("sum seats on schedule %s: %w", scheduleID, err)
		}
		reconciled, err = s.Schedules.Overwrite(ctx, scheduleID, seats)
		if err != nil {
			return mapScheduleError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reconciled, nil
}

// ReconcileAll reconciles every schedule that is not cancelled and reports how many drifted.
func (s *DefaultBookingService) ReconcileAll(ctx context.Context) (int, error) {
	schedules, err := s.Schedules.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open schedules: %w", err)
	}

	drifted := 0
	for _, sched := range schedules {
		reconciled, err := s.ReconcileSchedule(ctx, sched.ID)
		if err != nil {
			s.Logger.Error("reconcile failed", zap.String("scheduleID", sched.ID), zap.Error(err))
			continue
		}
		if reconciled.BookedSlots != sched.BookedSlots {
			drifted++
			s.Logger.Warn("ledger drift repaired",
				zap.String("scheduleID", sched.ID),
				zap.Int("was", sched.BookedSlots),
				zap.Int("now", reconciled.BookedSlots),
			)
		}
	}
	return drifted, nil
}

// CompletePastBookings marks confirmed bookings on schedules that have ended as completed.
func (s *DefaultBookingService) CompletePastBookings(ctx context.Context) (int, error) {
	schedules, err := s.Schedules.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open schedules: %w", err)
	}

	now := s.now()
	completed := 0
	for _, sched := range schedules {
		if sched.EndDate.IsZero() || !sched.EndDate.Before(now) {
			continue
		}
		bookings, err := s.Bookings.List(ctx, bookingRepo.BookingFilter{
			ScheduleID: sched.ID,
			Statuses:   []models.BookingStatus{models.BookingStatusConfirmed},
		})
		if err != nil {
			return completed, fmt.Errorf("list confirmed bookings on schedule %s: %w", sched.ID, err)
		}
		for _, b := range bookings {
			if _, err := s.transition(ctx, b.ID, models.BookingStatusCompleted); err != nil {
				s.Logger.Warn("completion skipped", zap.String("bookingID", b.ID), zap.Error(err))
				continue
			}
			completed++
		}
	}
	return completed, nil
}
