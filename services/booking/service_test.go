package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"wayfarer/database/repository/memstore"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	traveller = models.Caller{UserID: "u1", Email: "ann@example.com", Role: models.RoleUser}
	stranger  = models.Caller{UserID: "u2", Email: "bob@example.com", Role: models.RoleUser}
	admin     = models.Caller{UserID: "a1", Email: "ops@example.com", Role: models.RoleAdmin}
)

type fixture struct {
	store *memstore.Store
	svc   *DefaultBookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	for _, c := range []models.Caller{traveller, stranger, admin} {
		store.PutUser(models.User{ID: c.UserID, Email: c.Email, Role: c.Role})
	}
	require.NoError(t, store.Catalog().CreateTour(ctx, &models.Tour{ID: "t1", Title: "Old Town Walk", Price: 25, DurationDays: 1, MaxGroupSize: 12}))
	require.NoError(t, store.Schedules().Create(ctx, &models.Schedule{
		ID:             "s1",
		TourID:         "t1",
		StartDate:      time.Now().Add(48 * time.Hour),
		EndDate:        time.Now().Add(72 * time.Hour),
		AvailableSlots: 12,
	}))

	svc := NewBookingService(store.Bookings(), store.Schedules(), store.Catalog(), store.Users(), store, zap.NewNop())
	return &fixture{store: store, svc: svc}
}

func tourRequest(scheduleID string, people int) models.CreateBookingRequest {
	price := 100.0
	return models.CreateBookingRequest{
		Type:           models.BookingTypeTour,
		Tour:           &models.TourReservation{TourID: "t1", ScheduleID: scheduleID},
		NumberOfPeople: people,
		TotalPrice:     &price,
	}
}

func (f *fixture) schedule(t *testing.T, id string) *models.Schedule {
	t.Helper()
	s, err := f.store.Schedules().GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestCreateBookingReservesSeats(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), traveller, tourRequest("s1", 4))
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, "u1", b.UserID)
	assert.Equal(t, 4, f.schedule(t, "s1").BookedSlots)
}

func TestCreateBookingResolvesUserByEmail(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), models.Caller{Email: traveller.Email}, tourRequest("s1", 1))
	require.NoError(t, err)
	assert.Equal(t, traveller.UserID, b.UserID)
}

func TestCreateBookingRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		caller models.Caller
		req    func() models.CreateBookingRequest
		status int
	}{
		{
			name:   "missing price",
			caller: traveller,
			req: func() models.CreateBookingRequest {
				r := tourRequest("s1", 1)
				r.TotalPrice = nil
				return r
			},
			status: 400,
		},
		{
			name:   "unknown user",
			caller: models.Caller{UserID: "ghost"},
			req:    func() models.CreateBookingRequest { return tourRequest("s1", 1) },
			status: 404,
		},
		{
			name:   "unknown schedule",
			caller: traveller,
			req:    func() models.CreateBookingRequest { return tourRequest("nope", 1) },
			status: 404,
		},
		{
			name:   "party larger than capacity",
			caller: traveller,
			req:    func() models.CreateBookingRequest { return tourRequest("s1", 13) },
			status: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateBooking(ctx, tt.caller, tt.req())
			require.Error(t, err)
			assert.Equal(t, tt.status, utils.StatusFromError(err))
			assert.Equal(t, 0, f.schedule(t, "s1").BookedSlots)
		})
	}
}

func TestCreateBookingRejectsCancelledSchedule(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Schedules().SetStatus(context.Background(), "s1", models.ScheduleStatusCancelled))

	_, err := f.svc.CreateBooking(context.Background(), traveller, tourRequest("s1", 1))
	assert.ErrorIs(t, err, ErrScheduleCancelled)
}

func TestCreateAttractionBookingLeavesLedgerAlone(t *testing.T) {
	f := newFixture(t)
	price := 30.0

	b, err := f.svc.CreateBooking(context.Background(), traveller, models.CreateBookingRequest{
		Type:           models.BookingTypeAttraction,
		Attraction:     &models.AttractionItem{Name: "Castle Museum", VisitDate: "2026-11-02"},
		NumberOfPeople: 2,
		TotalPrice:     &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "", b.ScheduleID())
	assert.Equal(t, 0, f.schedule(t, "s1").BookedSlots)
}

func TestConcurrentCreatesNeverOverbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 3)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, succeeded)
	sched := f.schedule(t, "s1")
	assert.Equal(t, 12, sched.BookedSlots)
	assert.Equal(t, models.ScheduleStatusFull, sched.Status)
}

func TestCancelReleasesSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 4))
	require.NoError(t, err)
	require.Equal(t, 4, f.schedule(t, "s1").BookedSlots)

	cancelled, err := f.svc.TransitionStatus(ctx, admin, b.ID, models.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	sched := f.schedule(t, "s1")
	assert.Equal(t, 0, sched.BookedSlots)
	assert.Equal(t, models.ScheduleStatusAvailable, sched.Status)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep, err := f.svc.CreateBooking(ctx, stranger, tourRequest("s1", 3))
	require.NoError(t, err)
	b, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 4))
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, traveller, b.ID)
	require.NoError(t, err)
	again, err := f.svc.CancelBooking(ctx, traveller, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, again.Status)

	// Only the first cancel releases; the other party keeps its seats.
	assert.Equal(t, keep.NumberOfPeople, f.schedule(t, "s1").BookedSlots)
}

func TestCancelRequiresOwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 2))
	require.NoError(t, err)

	_, err = f.svc.CancelBooking(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CancelBooking(ctx, admin, b.ID)
	assert.NoError(t, err)
}

func TestTransitionStatusFollowsStateMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 2))
	require.NoError(t, err)

	_, err = f.svc.TransitionStatus(ctx, traveller, b.ID, models.BookingStatusCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.TransitionStatus(ctx, admin, b.ID, models.BookingStatusPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	done, err := f.svc.TransitionStatus(ctx, admin, b.ID, models.BookingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, done.Status)

	_, err = f.svc.TransitionStatus(ctx, admin, b.ID, models.BookingStatusCancelled)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// Completed bookings keep their seats.
	assert.Equal(t, 2, f.schedule(t, "s1").BookedSlots)
}

func TestTransitionStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TransitionStatus(context.Background(), admin, "whatever", models.BookingStatus("lost"))
	assert.Equal(t, 400, utils.StatusFromError(err))
}

func TestDeleteBookingReleasesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	active, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 4))
	require.NoError(t, err)
	cancelled, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 3))
	require.NoError(t, err)
	_, err = f.svc.CancelBooking(ctx, traveller, cancelled.ID)
	require.NoError(t, err)
	require.Equal(t, 4, f.schedule(t, "s1").BookedSlots)

	require.NoError(t, f.svc.DeleteBooking(ctx, admin, cancelled.ID))
	assert.Equal(t, 4, f.schedule(t, "s1").BookedSlots)

	require.NoError(t, f.svc.DeleteBooking(ctx, admin, active.ID))
	assert.Equal(t, 0, f.schedule(t, "s1").BookedSlots)

	err = f.svc.DeleteBooking(ctx, admin, active.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	err = f.svc.DeleteBooking(ctx, traveller, cancelled.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelWithMissingScheduleStillSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 2))
	require.NoError(t, err)
	require.NoError(t, f.store.Schedules().Delete(ctx, "s1"))

	cancelled, err := f.svc.CancelBooking(ctx, traveller, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
}

func TestGetAndListBookingsScopeToCaller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.svc.CreateBooking(ctx, traveller, tourRequest("s1", 1))
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, stranger, tourRequest("s1", 1))
	require.NoError(t, err)

	_, err = f.svc.GetBooking(ctx, stranger, mine.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := f.svc.GetBooking(ctx, traveller, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	list, err := f.svc.ListBookings(ctx, traveller, bookingFilter("u2"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	all, err := f.svc.ListBookings(ctx, admin, bookingFilter(""))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
