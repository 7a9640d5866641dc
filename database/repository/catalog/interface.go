package catalogRepo

import (
	"context"

	"wayfarer/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository stores the read-mostly catalog: cities and tours.
type CatalogRepository interface {
	CreateTour(ctx context.Context, tour *models.Tour) error
	GetTour(ctx context.Context, tourID string) (*models.Tour, error)
	ListTours(ctx context.Context, cityID string) ([]models.Tour, error)
	UpdateTour(ctx context.Context, tour *models.Tour) error
	DeleteTour(ctx context.Context, tourID string) error

	CreateCity(ctx context.Context, city *models.City) error
	GetCity(ctx context.Context, cityID string) (*models.City, error)
	ListCities(ctx context.Context) ([]models.City, error)
	UpdateCity(ctx context.Context, city *models.City) error
	DeleteCity(ctx context.Context, cityID string) error

	// SetRating writes the denormalized rating pair onto a tour or city.
	SetRating(ctx context.Context, target models.ReviewTarget, targetID string, agg models.RatingAggregate) error

	EnsureIndexes(ctx context.Context) error
}

type mongoCatalogRepo struct {
	tours  *mongo.Collection
	cities *mongo.Collection
}

func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	return &mongoCatalogRepo{
		tours:  db.Collection("tours"),
		cities: db.Collection("cities"),
	}
}
