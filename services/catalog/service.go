package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer/database/repository"
	bookingRepo "wayfarer/database/repository/booking"
	catalogRepo "wayfarer/database/repository/catalog"
	scheduleRepo "wayfarer/database/repository/schedule"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTourNotFound     = utils.NotFoundError("tour not found")
	ErrCityNotFound     = utils.NotFoundError("city not found")
	ErrScheduleNotFound = utils.NotFoundError("schedule not found")
	ErrScheduleInUse    = utils.ConflictError("schedule has active bookings")
	ErrTourInUse        = utils.ConflictError("tour has schedules")
	ErrCapacityTooLow   = utils.ConflictError("capacity below booked seats")
)

// CatalogService manages cities, tours and their schedules.
type CatalogService interface {
	CreateCity(ctx context.Context, city *models.City) (*models.City, error)
	GetCity(ctx context.Context, cityID string) (*models.City, error)
	ListCities(ctx context.Context) ([]models.City, error)
	UpdateCity(ctx context.Context, cityID string, city *models.City) (*models.City, error)
	DeleteCity(ctx context.Context, cityID string) error

	CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error)
	GetTour(ctx context.Context, tourID string) (*models.Tour, error)
	ListTours(ctx context.Context, cityID string) ([]models.Tour, error)
	UpdateTour(ctx context.Context, tourID string, tour *models.Tour) (*models.Tour, error)
	DeleteTour(ctx context.Context, tourID string) error

	CreateSchedule(ctx context.Context, req models.CreateScheduleRequest) (*models.Schedule, error)
	GetSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error)
	ListSchedules(ctx context.Context, tourID string) ([]models.Schedule, error)
	UpdateSchedule(ctx context.Context, scheduleID string, req models.UpdateScheduleRequest) (*models.Schedule, error)
	CancelSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
}

type DefaultCatalogService struct {
	Catalog         catalogRepo.CatalogRepository
	Schedules       scheduleRepo.ScheduleRepository
	Bookings        bookingRepo.BookingRepository
	DefaultCapacity int
	Logger          *zap.Logger
}

func NewCatalogService(
	catalog catalogRepo.CatalogRepository,
	schedules scheduleRepo.ScheduleRepository,
	bookings bookingRepo.BookingRepository,
	defaultCapacity int,
	logger *zap.Logger,
) *DefaultCatalogService {
	return &DefaultCatalogService{
		Catalog:         catalog,
		Schedules:       schedules,
		Bookings:        bookings,
		DefaultCapacity: defaultCapacity,
		Logger:          logger,
	}
}

func (s *DefaultCatalogService) CreateCity(ctx context.Context, city *models.City) (*models.City, error) {
	if err := city.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	city.ID = uuid.New().String()
	city.AverageRating, city.ReviewCount = 0, 0
	city.CreatedAt, city.UpdatedAt = now, now
	if err := s.Catalog.CreateCity(ctx, city); err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}
	return city, nil
}

func (s *DefaultCatalogService) GetCity(ctx context.Context, cityID string) (*models.City, error) {
	city, err := s.Catalog.GetCity(ctx, cityID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCityNotFound
	}
	return city, err
}

func (s *DefaultCatalogService) ListCities(ctx context.Context) ([]models.City, error) {
	return s.Catalog.ListCities(ctx)
}

// UpdateCity replaces the editable fields. Ratings are owned by review aggregation.
func (s *DefaultCatalogService) UpdateCity(ctx context.Context, cityID string, city *models.City) (*models.City, error) {
	existing, err := s.GetCity(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if err := city.Validate(); err != nil {
		return nil, err
	}
	existing.Name = city.Name
	existing.Country = city.Country
	existing.Description = city.Description
	existing.UpdatedAt = time.Now().UTC()
	if err := s.Catalog.UpdateCity(ctx, existing); err != nil {
		return nil, fmt.Errorf("update city: %w", err)
	}
	return existing, nil
}

func (s *DefaultCatalogService) DeleteCity(ctx context.Context, cityID string) error {
	err := s.Catalog.DeleteCity(ctx, cityID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCityNotFound
	}
	return err
}

func (s *DefaultCatalogService) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	if err := tour.Validate(); err != nil {
		return nil, err
	}
	if tour.CityID != "" {
		if _, err := s.GetCity(ctx, tour.CityID); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	tour.ID = uuid.New().String()
	tour.AverageRating, tour.ReviewCount = 0, 0
	tour.CreatedAt, tour.UpdatedAt = now, now
	if err := s.Catalog.CreateTour(ctx, tour); err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}
	s.Logger.Info("tour created", zap.String("tourID", tour.ID), zap.String("title", tour.Title))
	return tour, nil
}

func (s *DefaultCatalogService) GetTour(ctx context.Context, tourID string) (*models.Tour, error) {
	tour, err := s.Catalog.GetTour(ctx, tourID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTourNotFound
	}
	return tour, err
}

func (s *DefaultCatalogService) ListTours(ctx context.Context, cityID string) ([]models.Tour, error) {
	return s.Catalog.ListTours(ctx, cityID)
}

func (s *DefaultCatalogService) UpdateTour(ctx context.Context, tourID string, tour *models.Tour) (*models.Tour, error) {
	existing, err := s.GetTour(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if err := tour.Validate(); err != nil {
		return nil, err
	}
	existing.CityID = tour.CityID
	existing.Title = tour.Title
	existing.Description = tour.Description
	existing.Price = tour.Price
	existing.DurationDays = tour.DurationDays
	existing.MaxGroupSize = tour.MaxGroupSize
	existing.UpdatedAt = time.Now().UTC()
	if err := s.Catalog.UpdateTour(ctx, existing); err != nil {
		return nil, fmt.Errorf("update tour: %w", err)
	}
	return existing, nil
}

// DeleteTour refuses while schedules still reference the tour.
func (s *DefaultCatalogService) DeleteTour(ctx context.Context, tourID string) error {
	schedules, err := s.Schedules.ListByTour(ctx, tourID)
	if err != nil {
		return fmt.Errorf("list schedules of tour %s: %w", tourID, err)
	}
	if len(schedules) > 0 {
		return ErrTourInUse
	}
	err = s.Catalog.DeleteTour(ctx, tourID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTourNotFound
	}
	return err
}
