package scheduleRepo

import (
	"context"
	"errors"

	"wayfarer/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInsufficientCapacity is returned by Reserve when the schedule cannot hold the party.
var ErrInsufficientCapacity = errors.New("insufficient capacity on schedule")

// ErrCapacityBelowBooked is returned by Update when availableSlots would drop under bookedSlots.
var ErrCapacityBelowBooked = errors.New("capacity below booked seats")

// ErrScheduleCancelled is returned by Reserve when the schedule no longer accepts bookings.
var ErrScheduleCancelled = errors.New("schedule is cancelled")

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, scheduleID string) (*models.Schedule, error)
	ListByTour(ctx context.Context, tourID string) ([]models.Schedule, error)
	ListOpen(ctx context.Context) ([]models.Schedule, error)
	// Update replaces dates and capacity, keeps bookedSlots and recomputes status.
	Update(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	SetStatus(ctx context.Context, scheduleID string, status models.ScheduleStatus) error
	Delete(ctx context.Context, scheduleID string) error

	// Reserve atomically adds seats to bookedSlots when capacity allows.
	Reserve(ctx context.Context, scheduleID string, seats int) (*models.Schedule, error)
	// Release atomically removes seats from bookedSlots, floored at zero.
	Release(ctx context.Context, scheduleID string, seats int) (*models.Schedule, error)
	// Overwrite replaces bookedSlots with a recounted value and recomputes status.
	Overwrite(ctx context.Context, scheduleID string, bookedSlots int) (*models.Schedule, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a ScheduleRepository over the "schedules" collection.
func NewMongoScheduleRepo(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{coll: db.Collection("schedules")}
}
