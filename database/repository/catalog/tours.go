package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"wayfarer/database/repository"
	"wayfarer/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCatalogRepo) CreateTour(ctx context.Context, tour *models.Tour) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if tour.ID == "" {
		tour.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	tour.CreatedAt = now
	tour.UpdatedAt = now

	if _, err := r.tours.InsertOne(ctx, tour); err != nil {
		return fmt.Errorf("error creating tour: %w", err)
	}
	return nil
}

func (r *mongoCatalogRepo) GetTour(ctx context.Context, tourID string) (*models.Tour, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var tour models.Tour
	if err := r.tours.FindOne(ctx, bson.M{"id": tourID}).Decode(&tour); err != nil {
		return nil, repository.TranslateNotFound(err)
	}
	return &tour, nil
}

// ListTours returns all tours, or only those of cityID when it is set.
func (r *mongoCatalogRepo) ListTours(ctx context.Context, cityID string) ([]models.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if cityID != "" {
		filter["cityId"] = cityID
	}
	cursor, err := r.tours.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing tours: %w", err)
	}
	defer cursor.Close(ctx)

	tours := []models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, fmt.Errorf("error decoding tours: %w", err)
	}
	return tours, nil
}

// UpdateTour writes the editable fields. Rating aggregates are owned by SetRating.
func (r *mongoCatalogRepo) UpdateTour(ctx context.Context, tour *models.Tour) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	tour.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"cityId":       tour.CityID,
		"title":        tour.Title,
		"description":  tour.Description,
		"price":        tour.Price,
		"durationDays": tour.DurationDays,
		"maxGroupSize": tour.MaxGroupSize,
		"updatedAt":    tour.UpdatedAt,
	}}
	res, err := r.tours.UpdateOne(ctx, bson.M{"id": tour.ID}, update)
	if err != nil {
		return fmt.Errorf("error updating tour %s: %w", tour.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCatalogRepo) DeleteTour(ctx context.Context, tourID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.tours.DeleteOne(ctx, bson.M{"id": tourID})
	if err != nil {
		return fmt.Errorf("error deleting tour %s: %w", tourID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCatalogRepo) SetRating(ctx context.Context, target models.ReviewTarget, targetID string, agg models.RatingAggregate) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	coll := r.tours
	if target == models.ReviewTargetCity {
		coll = r.cities
	}
	update := bson.M{"$set": bson.M{
		"averageRating": agg.AverageRating,
		"reviewCount":   agg.ReviewCount,
		"updatedAt":     time.Now().UTC(),
	}}
	res, err := coll.UpdateOne(ctx, bson.M{"id": targetID}, update)
	if err != nil {
		return fmt.Errorf("error writing rating for %s %s: %w", target, targetID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
