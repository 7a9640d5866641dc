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

func (r *mongoCatalogRepo) CreateCity(ctx context.Context, city *models.City) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if city.ID == "" {
		city.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	city.CreatedAt = now
	city.UpdatedAt = now

	if _, err := r.cities.InsertOne(ctx, city); err != nil {
		return fmt.Errorf("error creating city: %w", err)
	}
	return nil
}

func (r *mongoCatalogRepo) GetCity(ctx context.Context, cityID string) (*models.City, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var city models.City
	if err := r.cities.FindOne(ctx, bson.M{"id": cityID}).Decode(&city); err != nil {
		return nil, repository.TranslateNotFound(err)
	}
	return &city, nil
}

func (r *mongoCatalogRepo) ListCities(ctx context.Context) ([]models.City, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.cities.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing cities: %w", err)
	}
	defer cursor.Close(ctx)

	cities := []models.City{}
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("error decoding cities: %w", err)
	}
	return cities, nil
}

func (r *mongoCatalogRepo) UpdateCity(ctx context.Context, city *models.City) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	city.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":        city.Name,
		"country":     city.Country,
		"description": city.Description,
		"updatedAt":   city.UpdatedAt,
	}}
	res, err := r.cities.UpdateOne(ctx, bson.M{"id": city.ID}, update)
	if err != nil {
		return fmt.Errorf("error updating city %s: %w", city.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoCatalogRepo) DeleteCity(ctx context.Context, cityID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.cities.DeleteOne(ctx, bson.M{"id": cityID})
	if err != nil {
		return fmt.Errorf("error deleting city %s: %w", cityID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
