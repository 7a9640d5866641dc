package memstore

import (
	"context"
	"sort"
	"time"

	"wayfarer/database/repository"
	"wayfarer/models"

	"github.com/google/uuid"
)

type ReviewRepo struct {
	s *Store
}

func (r *ReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	review.CreatedAt, review.UpdatedAt = now, now
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, reviewID string) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rv, ok := r.s.reviews[reviewID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepo) Update(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.reviews[review.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Rating = review.Rating
	existing.Comment = review.Comment
	existing.UpdatedAt = time.Now().UTC()
	r.s.reviews[review.ID] = existing
	return nil
}

func (r *ReviewRepo) Delete(_ context.Context, reviewID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reviews[reviewID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, reviewID)
	return nil
}

func (r *ReviewRepo) ListByTarget(_ context.Context, target models.ReviewTarget, targetID string) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Review{}
	for _, rv := range r.s.reviews {
		if rv.TargetType == target && rv.TargetID == targetID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ReviewRepo) Aggregate(_ context.Context, target models.ReviewTarget, targetID string) (models.RatingAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var agg models.RatingAggregate
	sum := 0
	for _, rv := range r.s.reviews {
		if rv.TargetType == target && rv.TargetID == targetID {
			sum += rv.Rating
			agg.ReviewCount++
		}
	}
	if agg.ReviewCount > 0 {
		agg.AverageRating = float64(sum) / float64(agg.ReviewCount)
	}
	return agg, nil
}

func (r *ReviewRepo) EnsureIndexes(context.Context) error { return nil }
