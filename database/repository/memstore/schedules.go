package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wayfarer/database/repository"
	scheduleRepo "wayfarer/database/repository/schedule"
	"wayfarer/models"

	"github.com/google/uuid"
)

type ScheduleRepo struct {
	s *Store
}

func (r *ScheduleRepo) Create(_ context.Context, schedule *models.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusAvailable
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	r.s.schedules[schedule.ID] = *schedule
	return nil
}

func (r *ScheduleRepo) GetByID(_ context.Context, scheduleID string) (*models.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sched, ok := r.s.schedules[scheduleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sched, nil
}

func (r *ScheduleRepo) ListByTour(_ context.Context, tourID string) ([]models.Schedule, error) {
	return r.filter(func(s models.Schedule) bool { return s.TourID == tourID }), nil
}

func (r *ScheduleRepo) ListOpen(_ context.Context) ([]models.Schedule, error) {
	return r.filter(func(s models.Schedule) bool { return s.Status != models.ScheduleStatusCancelled }), nil
}

func (r *ScheduleRepo) filter(keep func(models.Schedule) bool) []models.Schedule {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Schedule{}
	for _, sched := range r.s.schedules {
		if keep(sched) {
			out = append(out, sched)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

// Update copies only dates and capacity; bookedSlots and a cancelled status survive.
func (r *ScheduleRepo) Update(_ context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	return r.mutate(schedule.ID, func(sched *models.Schedule) error {
		if sched.BookedSlots > schedule.AvailableSlots {
			return scheduleRepo.ErrCapacityBelowBooked
		}
		sched.StartDate = schedule.StartDate
		sched.EndDate = schedule.EndDate
		sched.AvailableSlots = schedule.AvailableSlots
		sched.MaxCapacity = schedule.MaxCapacity
		return nil
	})
}

func (r *ScheduleRepo) SetStatus(_ context.Context, scheduleID string, status models.ScheduleStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sched, ok := r.s.schedules[scheduleID]
	if !ok {
		return repository.ErrNotFound
	}
	sched.Status = status
	sched.UpdatedAt = time.Now().UTC()
	r.s.schedules[scheduleID] = sched
	return nil
}

func (r *ScheduleRepo) Delete(_ context.Context, scheduleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.schedules[scheduleID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.schedules, scheduleID)
	return nil
}

func (r *ScheduleRepo) Reserve(_ context.Context, scheduleID string, seats int) (*models.Schedule, error) {
	if seats < 1 {
		return nil, fmt.Errorf("reserve: seats must be positive, got %d", seats)
	}
	return r.mutate(scheduleID, func(sched *models.Schedule) error {
		if sched.Status == models.ScheduleStatusCancelled {
			return scheduleRepo.ErrScheduleCancelled
		}
		if seats > sched.AvailableSlots-sched.BookedSlots {
			return scheduleRepo.ErrInsufficientCapacity
		}
		sched.BookedSlots += seats
		return nil
	})
}

func (r *ScheduleRepo) Release(_ context.Context, scheduleID string, seats int) (*models.Schedule, error) {
	return r.mutate(scheduleID, func(sched *models.Schedule) error {
		sched.BookedSlots = models.ReleasedSlots(sched.BookedSlots, seats)
		return nil
	})
}

func (r *ScheduleRepo) Overwrite(_ context.Context, scheduleID string, bookedSlots int) (*models.Schedule, error) {
	return r.mutate(scheduleID, func(sched *models.Schedule) error {
		sched.BookedSlots = bookedSlots
		return nil
	})
}

// mutate applies fn and recomputes the ledger status, all under the store lock.
func (r *ScheduleRepo) mutate(scheduleID string, fn func(*models.Schedule) error) (*models.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sched, ok := r.s.schedules[scheduleID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(&sched); err != nil {
		return nil, err
	}
	sched.Status = models.LedgerStatus(sched.Status, sched.BookedSlots, sched.AvailableSlots)
	sched.UpdatedAt = time.Now().UTC()
	r.s.schedules[scheduleID] = sched
	return &sched, nil
}

func (r *ScheduleRepo) EnsureIndexes(context.Context) error { return nil }
