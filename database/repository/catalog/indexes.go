package catalogRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCatalogRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tourIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "cityId", Value: 1}}},
	}
	if _, err := r.tours.Indexes().CreateMany(ctx, tourIndexes); err != nil {
		return fmt.Errorf("failed to create tour indexes: %w", err)
	}

	cityIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := r.cities.Indexes().CreateMany(ctx, cityIndexes); err != nil {
		return fmt.Errorf("failed to create city indexes: %w", err)
	}
	return nil
}
