package reviewRepo

import (
	"context"
	"fmt"
	"time"

	"wayfarer/database/repository"
	"wayfarer/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

func (r *mongoReviewRepo) GetByID(ctx context.Context, reviewID string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": reviewID}).Decode(&review); err != nil {
		return nil, repository.TranslateNotFound(err)
	}
	return &review, nil
}

// Update writes the rating and comment of an existing review.
func (r *mongoReviewRepo) Update(ctx context.Context, review *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	review.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"rating":    review.Rating,
		"comment":   review.Comment,
		"updatedAt": review.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": review.ID}, update)
	if err != nil {
		return fmt.Errorf("error updating review %s: %w", review.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoReviewRepo) Delete(ctx context.Context, reviewID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": reviewID})
	if err != nil {
		return fmt.Errorf("error deleting review %s: %w", reviewID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoReviewRepo) ListByTarget(ctx context.Context, target models.ReviewTarget, targetID string) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"targetType": target, "targetId": targetID}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("error decoding reviews: %w", err)
	}
	return reviews, nil
}

func (r *mongoReviewRepo) Aggregate(ctx context.Context, target models.ReviewTarget, targetID string) (models.RatingAggregate, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"targetType": target, "targetId": targetID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"averageRating": bson.M{"$avg": "$rating"},
			"reviewCount":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingAggregate{}, fmt.Errorf("error aggregating ratings for %s %s: %w", target, targetID, err)
	}
	defer cursor.Close(ctx)

	var results []models.RatingAggregate
	if err := cursor.All(ctx, &results); err != nil {
		return models.RatingAggregate{}, fmt.Errorf("error decoding rating aggregate: %w", err)
	}
	if len(results) == 0 {
		return models.RatingAggregate{}, nil
	}
	return results[0], nil
}

func (r *mongoReviewRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "targetType", Value: 1}, {Key: "targetId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create review indexes: %w", err)
	}
	return nil
}
