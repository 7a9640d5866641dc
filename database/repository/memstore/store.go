// Package memstore holds in-memory repositories with the same conditional-write
// semantics as the MongoDB ones. Transactions are serialized and rolled back by
// snapshot.
package memstore

import (
	"context"
	"sync"

	"wayfarer/models"
)

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	bookings  map[string]models.Booking
	schedules map[string]models.Schedule
	tours     map[string]models.Tour
	cities    map[string]models.City
	reviews   map[string]models.Review
	users     map[string]models.User
}

func New() *Store {
	return &Store{
		bookings:  map[string]models.Booking{},
		schedules: map[string]models.Schedule{},
		tours:     map[string]models.Tour{},
		cities:    map[string]models.City{},
		reviews:   map[string]models.Review{},
		users:     map[string]models.User{},
	}
}

type snapshot struct {
	bookings  map[string]models.Booking
	schedules map[string]models.Schedule
	tours     map[string]models.Tour
	cities    map[string]models.City
	reviews   map[string]models.Review
}

func clone[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		bookings:  clone(s.bookings),
		schedules: clone(s.schedules),
		tours:     clone(s.tours),
		cities:    clone(s.cities),
		reviews:   clone(s.reviews),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = snap.bookings
	s.schedules = snap.schedules
	s.tours = snap.tours
	s.cities = snap.cities
	s.reviews = snap.reviews
}

// WithinTransaction runs fn exclusively and undoes its writes when it fails.
// Transactions must not nest.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// PutUser seeds a user record.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Bookings, Schedules, Catalog, Reviews and Users return repository views over the store.
func (s *Store) Bookings() *BookingRepo   { return &BookingRepo{s: s} }
func (s *Store) Schedules() *ScheduleRepo { return &ScheduleRepo{s: s} }
func (s *Store) Catalog() *CatalogRepo    { return &CatalogRepo{s: s} }
func (s *Store) Reviews() *ReviewRepo     { return &ReviewRepo{s: s} }
func (s *Store) Users() *UserRepo         { return &UserRepo{s: s} }
