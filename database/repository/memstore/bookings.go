package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"wayfarer/database/repository"
	bookingRepo "wayfarer/database/repository/booking"
	"wayfarer/models"

	"github.com/google/uuid"
)

type BookingRepo struct {
	s *Store
}

func (r *BookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if _, exists := r.s.bookings[booking.ID]; exists {
		return fmt.Errorf("duplicate booking id %s", booking.ID)
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, bookingID string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepo) GetByPaymentSession(_ context.Context, sessionID string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.PaymentSessionID == sessionID {
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *BookingRepo) List(_ context.Context, f bookingRepo.BookingFilter) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Booking{}
	for _, b := range r.s.bookings {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.ScheduleID != "" && b.ScheduleID() != f.ScheduleID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BookingRepo) CompareAndSetStatus(_ context.Context, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[bookingID] = b
	return &b, nil
}

func (r *BookingRepo) DeleteIfStatus(_ context.Context, bookingID string, status models.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != status {
		return bookingRepo.ErrStatusConflict
	}
	delete(r.s.bookings, bookingID)
	return nil
}

func (r *BookingRepo) SetPaymentSession(_ context.Context, bookingID, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	b.PaymentSessionID = sessionID
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[bookingID] = b
	return nil
}

func (r *BookingRepo) UpdatePaymentStatus(_ context.Context, bookingID string, from []models.PaymentStatus, to models.PaymentStatus, paymentIntentID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok || !slices.Contains(from, b.PaymentStatus) {
		return false, nil
	}
	b.PaymentStatus = to
	if paymentIntentID != "" {
		b.PaymentIntentID = paymentIntentID
	}
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[bookingID] = b
	return true, nil
}

func (r *BookingRepo) CountBySchedule(_ context.Context, scheduleID string, statuses []models.BookingStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, b := range r.s.bookings {
		if b.ScheduleID() == scheduleID && slices.Contains(statuses, b.Status) {
			n++
		}
	}
	return n, nil
}

func (r *BookingRepo) SumPartySize(_ context.Context, scheduleID string, statuses []models.BookingStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sum := 0
	for _, b := range r.s.bookings {
		if b.ScheduleID() == scheduleID && slices.Contains(statuses, b.Status) {
			sum += b.NumberOfPeople
		}
	}
	return sum, nil
}

func (r *BookingRepo) EnsureIndexes(context.Context) error { return nil }

// Put stores a booking as-is, bypassing the ledger. Used to seed fixtures.
func (r *BookingRepo) Put(b models.Booking) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	r.s.bookings[b.ID] = b
}
