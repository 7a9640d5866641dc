package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer/database"
	"wayfarer/database/repository"
	catalogRepo "wayfarer/database/repository/catalog"
	reviewRepo "wayfarer/database/repository/review"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrReviewNotFound = utils.NotFoundError("review not found")
	ErrTargetNotFound = utils.NotFoundError("review target not found")
	ErrForbidden      = utils.ForbiddenError("not allowed to modify this review")
)

type ReviewService interface {
	CreateReview(ctx context.Context, caller models.Caller, req CreateReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, caller models.Caller, reviewID string, req UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, caller models.Caller, reviewID string) error
	ListReviews(ctx context.Context, target models.ReviewTarget, targetID string) ([]models.Review, error)
}

type CreateReviewRequest struct {
	TargetType models.ReviewTarget `json:"targetType"`
	TargetID   string              `json:"targetId"`
	Rating     int                 `json:"rating"`
	Comment    string              `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// DefaultReviewService keeps each target's denormalized rating in step with its reviews.
type DefaultReviewService struct {
	Reviews reviewRepo.ReviewRepository
	Catalog catalogRepo.CatalogRepository
	Tx      database.Transactor
	Logger  *zap.Logger
}

func NewReviewService(reviews reviewRepo.ReviewRepository, catalog catalogRepo.CatalogRepository, tx database.Transactor, logger *zap.Logger) *DefaultReviewService {
	return &DefaultReviewService{Reviews: reviews, Catalog: catalog, Tx: tx, Logger: logger}
}

func (s *DefaultReviewService) CreateReview(ctx context.Context, caller models.Caller, req CreateReviewRequest) (*models.Review, error) {
	now := time.Now().UTC()
	review := &models.Review{
		ID:         uuid.New().String(),
		UserID:     caller.UserID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureTarget(ctx, review.TargetType, review.TargetID); err != nil {
		return nil, err
	}

	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.Reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
		return s.refreshRating(ctx, review.TargetType, review.TargetID)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("review created",
		zap.String("reviewID", review.ID),
		zap.String("targetType", string(review.TargetType)),
		zap.String("targetID", review.TargetID),
	)
	return review, nil
}

func (s *DefaultReviewService) UpdateReview(ctx context.Context, caller models.Caller, reviewID string, req UpdateReviewRequest) (*models.Review, error) {
	if req.Rating != nil {
		if err := models.ValidateRating(*req.Rating); err != nil {
			return nil, err
		}
	}

	var updated *models.Review
	err := s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		review, err := s.load(ctx, caller, reviewID)
		if err != nil {
			return err
		}
		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = *req.Comment
		}
		review.UpdatedAt = time.Now().UTC()
		if err := s.Reviews.Update(ctx, review); err != nil {
			return fmt.Errorf("update review: %w", err)
		}
		updated = review
		return s.refreshRating(ctx, review.TargetType, review.TargetID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *DefaultReviewService) DeleteReview(ctx context.Context, caller models.Caller, reviewID string) error {
	return s.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		review, err := s.load(ctx, caller, reviewID)
		if err != nil {
			return err
		}
		if err := s.Reviews.Delete(ctx, review.ID); err != nil {
			return fmt.Errorf("delete review: %w", err)
		}
		return s.refreshRating(ctx, review.TargetType, review.TargetID)
	})
}

func (s *DefaultReviewService) ListReviews(ctx context.Context, target models.ReviewTarget, targetID string) ([]models.Review, error) {
	sample := models.Review{TargetType: target, TargetID: targetID, Rating: models.MinRating}
	if err := sample.Validate(); err != nil {
		return nil, err
	}
	return s.Reviews.ListByTarget(ctx, target, targetID)
}

// refreshRating recounts the target's reviews and writes the mean and count onto it.
func (s *DefaultReviewService) refreshRating(ctx context.Context, target models.ReviewTarget, targetID string) error {
	agg, err := s.Reviews.Aggregate(ctx, target, targetID)
	if err != nil {
		return fmt.Errorf("aggregate ratings: %w", err)
	}
	if err := s.Catalog.SetRating(ctx, target, targetID, agg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTargetNotFound
		}
		return fmt.Errorf("write rating: %w", err)
	}
	return nil
}

func (s *DefaultReviewService) ensureTarget(ctx context.Context, target models.ReviewTarget, targetID string) error {
	var err error
	switch target {
	case models.ReviewTargetTour:
		_, err = s.Catalog.GetTour(ctx, targetID)
	case models.ReviewTargetCity:
		_, err = s.Catalog.GetCity(ctx, targetID)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTargetNotFound
	}
	return err
}

func (s *DefaultReviewService) load(ctx context.Context, caller models.Caller, reviewID string) (*models.Review, error) {
	review, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if !caller.CanAccess(review.UserID) {
		return nil, ErrForbidden
	}
	return review, nil
}
