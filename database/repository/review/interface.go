package reviewRepo

import (
	"context"

	"wayfarer/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, reviewID string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, reviewID string) error
	ListByTarget(ctx context.Context, target models.ReviewTarget, targetID string) ([]models.Review, error)
	// Aggregate recounts the mean rating and review count for one target.
	Aggregate(ctx context.Context, target models.ReviewTarget, targetID string) (models.RatingAggregate, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepo{coll: db.Collection("reviews")}
}
