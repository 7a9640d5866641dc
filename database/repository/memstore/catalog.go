package memstore

import (
	"context"
	"sort"
	"time"

	"wayfarer/database/repository"
	"wayfarer/models"

	"github.com/google/uuid"
)

type CatalogRepo struct {
	s *Store
}

func (r *CatalogRepo) CreateTour(_ context.Context, tour *models.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if tour.ID == "" {
		tour.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	tour.CreatedAt, tour.UpdatedAt = now, now
	r.s.tours[tour.ID] = *tour
	return nil
}

func (r *CatalogRepo) GetTour(_ context.Context, tourID string) (*models.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tours[tourID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *CatalogRepo) ListTours(_ context.Context, cityID string) ([]models.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Tour{}
	for _, t := range r.s.tours {
		if cityID == "" || t.CityID == cityID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *CatalogRepo) UpdateTour(_ context.Context, tour *models.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tours[tour.ID]
	if !ok {
		return repository.ErrNotFound
	}
	tour.AverageRating, tour.ReviewCount = existing.AverageRating, existing.ReviewCount
	tour.UpdatedAt = time.Now().UTC()
	r.s.tours[tour.ID] = *tour
	return nil
}

func (r *CatalogRepo) DeleteTour(_ context.Context, tourID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tours[tourID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tours, tourID)
	return nil
}

func (r *CatalogRepo) CreateCity(_ context.Context, city *models.City) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if city.ID == "" {
		city.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	city.CreatedAt, city.UpdatedAt = now, now
	r.s.cities[city.ID] = *city
	return nil
}

func (r *CatalogRepo) GetCity(_ context.Context, cityID string) (*models.City, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.cities[cityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *CatalogRepo) ListCities(_ context.Context) ([]models.City, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.City{}
	for _, c := range r.s.cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) UpdateCity(_ context.Context, city *models.City) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.cities[city.ID]
	if !ok {
		return repository.ErrNotFound
	}
	city.AverageRating, city.ReviewCount = existing.AverageRating, existing.ReviewCount
	city.UpdatedAt = time.Now().UTC()
	r.s.cities[city.ID] = *city
	return nil
}

func (r *CatalogRepo) DeleteCity(_ context.Context, cityID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cities[cityID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.cities, cityID)
	return nil
}

func (r *CatalogRepo) SetRating(_ context.Context, target models.ReviewTarget, targetID string, agg models.RatingAggregate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	switch target {
	case models.ReviewTargetTour:
		t, ok := r.s.tours[targetID]
		if !ok {
			return repository.ErrNotFound
		}
		t.AverageRating, t.ReviewCount, t.UpdatedAt = agg.AverageRating, agg.ReviewCount, now
		r.s.tours[targetID] = t
	case models.ReviewTargetCity:
		c, ok := r.s.cities[targetID]
		if !ok {
			return repository.ErrNotFound
		}
		c.AverageRating, c.ReviewCount, c.UpdatedAt = agg.AverageRating, agg.ReviewCount, now
		r.s.cities[targetID] = c
	default:
		return repository.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) EnsureIndexes(context.Context) error { return nil }
