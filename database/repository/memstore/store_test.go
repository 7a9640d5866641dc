package memstore

import (
	"context"
	"errors"
	"math"
	"testing"

	"wayfarer/database"
	bookingRepo "wayfarer/database/repository/booking"
	catalogRepo "wayfarer/database/repository/catalog"
	reviewRepo "wayfarer/database/repository/review"
	scheduleRepo "wayfarer/database/repository/schedule"
	userRepo "wayfarer/database/repository/user"
	"wayfarer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ bookingRepo.BookingRepository   = (*BookingRepo)(nil)
	_ scheduleRepo.ScheduleRepository = (*ScheduleRepo)(nil)
	_ catalogRepo.CatalogRepository   = (*CatalogRepo)(nil)
	_ reviewRepo.ReviewRepository     = (*ReviewRepo)(nil)
	_ userRepo.UserRepository         = (*UserRepo)(nil)
	_ database.Transactor             = (*Store)(nil)
)

func TestReserveAndReleaseKeepLedgerBounds(t *testing.T) {
	ctx := context.Background()
	s := New()
	sched := &models.Schedule{ID: "s1", AvailableSlots: 4}
	require.NoError(t, s.Schedules().Create(ctx, sched))

	got, err := s.Schedules().Reserve(ctx, "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, got.BookedSlots)
	assert.Equal(t, models.ScheduleStatusFull, got.Status)

	_, err = s.Schedules().Reserve(ctx, "s1", 1)
	assert.ErrorIs(t, err, scheduleRepo.ErrInsufficientCapacity)

	_, err = s.Schedules().Reserve(ctx, "s1", math.MaxInt)
	assert.ErrorIs(t, err, scheduleRepo.ErrInsufficientCapacity)

	got, err = s.Schedules().Release(ctx, "s1", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got.BookedSlots)
	assert.Equal(t, models.ScheduleStatusAvailable, got.Status)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Schedules().Create(ctx, &models.Schedule{ID: "s1", AvailableSlots: 4}))

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Schedules().Reserve(ctx, "s1", 2); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	sched, err := s.Schedules().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, sched.BookedSlots)
}

func TestUpdateKeepsLedgerCounters(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Schedules().Create(ctx, &models.Schedule{ID: "s1", AvailableSlots: 4}))
	_, err := s.Schedules().Reserve(ctx, "s1", 4)
	require.NoError(t, err)

	// BookedSlots in the argument is ignored.
	got, err := s.Schedules().Update(ctx, &models.Schedule{ID: "s1", AvailableSlots: 6, BookedSlots: 0})
	require.NoError(t, err)
	assert.Equal(t, 4, got.BookedSlots)
	assert.Equal(t, models.ScheduleStatusAvailable, got.Status)

	_, err = s.Schedules().Update(ctx, &models.Schedule{ID: "s1", AvailableSlots: 3})
	assert.ErrorIs(t, err, scheduleRepo.ErrCapacityBelowBooked)

	_, err = s.Schedules().Update(ctx, &models.Schedule{ID: "nope", AvailableSlots: 3})
	assert.Error(t, err)
}
