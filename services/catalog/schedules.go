package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer/database/repository"
	scheduleRepo "wayfarer/database/repository/schedule"
	"wayfarer/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateSchedule adds a departure to a tour. Zero availableSlots falls back to the tour's
// maxGroupSize, then to the configured default capacity.
func (s *DefaultCatalogService) CreateSchedule(ctx context.Context, req models.CreateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tour, err := s.GetTour(ctx, req.TourID)
	if err != nil {
		return nil, err
	}

	slots := req.AvailableSlots
	if slots == 0 {
		slots = tour.MaxGroupSize
	}
	if slots == 0 {
		slots = s.DefaultCapacity
	}
	if slots <= 0 {
		return nil, models.NewValidationError("availableSlots", "must be at least 1")
	}

	now := time.Now().UTC()
	schedule := &models.Schedule{
		ID:             uuid.New().String(),
		TourID:         tour.ID,
		StartDate:      req.StartDate.UTC(),
		EndDate:        req.EndDate.UTC(),
		AvailableSlots: slots,
		MaxCapacity:    req.MaxCapacity,
		Status:         models.ScheduleStatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.Logger.Info("schedule created",
		zap.String("scheduleID", schedule.ID),
		zap.String("tourID", tour.ID),
		zap.Int("availableSlots", slots),
	)
	return schedule, nil
}

func (s *DefaultCatalogService) GetSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error) {
	schedule, err := s.Schedules.GetByID(ctx, scheduleID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrScheduleNotFound
	}
	return schedule, err
}

func (s *DefaultCatalogService) ListSchedules(ctx context.Context, tourID string) ([]models.Schedule, error) {
	if _, err := s.GetTour(ctx, tourID); err != nil {
		return nil, err
	}
	return s.Schedules.ListByTour(ctx, tourID)
}

// UpdateSchedule changes dates and capacity. Booked seats stay and the status follows
// the new capacity, so raising it reopens a full schedule.
func (s *DefaultCatalogService) UpdateSchedule(ctx context.Context, scheduleID string, req models.UpdateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.Schedules.Update(ctx, &models.Schedule{
		ID:             scheduleID,
		StartDate:      req.StartDate.UTC(),
		EndDate:        req.EndDate.UTC(),
		AvailableSlots: req.AvailableSlots,
		MaxCapacity:    req.MaxCapacity,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrScheduleNotFound
	case errors.Is(err, scheduleRepo.ErrCapacityBelowBooked):
		return nil, ErrCapacityTooLow
	case err != nil:
		return nil, fmt.Errorf("update schedule %s: %w", scheduleID, err)
	}

	s.Logger.Info("schedule updated",
		zap.String("scheduleID", scheduleID),
		zap.Int("availableSlots", updated.AvailableSlots),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// CancelSchedule stops new reservations. Existing bookings keep their seats.
func (s *DefaultCatalogService) CancelSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error) {
	err := s.Schedules.SetStatus(ctx, scheduleID, models.ScheduleStatusCancelled)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cancel schedule %s: %w", scheduleID, err)
	}
	s.Logger.Info("schedule cancelled", zap.String("scheduleID", scheduleID))
	return s.GetSchedule(ctx, scheduleID)
}

// DeleteSchedule refuses while any booking still holds seats on the schedule.
func (s *DefaultCatalogService) DeleteSchedule(ctx context.Context, scheduleID string) error {
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return err
	}
	held, err := s.Bookings.CountBySchedule(ctx, scheduleID, models.ActiveBookingStatuses)
	if err != nil {
		return fmt.Errorf("count bookings on schedule %s: %w", scheduleID, err)
	}
	if held > 0 {
		return ErrScheduleInUse
	}
	return s.Schedules.Delete(ctx, scheduleID)
}
