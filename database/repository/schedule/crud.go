package scheduleRepo

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

func (r *mongoScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) GetByID(ctx context.Context, scheduleID string) (*models.Schedule, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var schedule models.Schedule
	if err := r.coll.FindOne(ctx, bson.M{"id": scheduleID}).Decode(&schedule); err != nil {
		return nil, repository.TranslateNotFound(err)
	}
	return &schedule, nil
}

func (r *mongoScheduleRepo) ListByTour(ctx context.Context, tourID string) ([]models.Schedule, error) {
	return r.find(ctx, bson.M{"tourId": tourID})
}

// ListOpen returns every schedule that is not cancelled.
func (r *mongoScheduleRepo) ListOpen(ctx context.Context) ([]models.Schedule, error) {
	return r.find(ctx, bson.M{"status": bson.M{"$ne": models.ScheduleStatusCancelled}})
}

func (r *mongoScheduleRepo) find(ctx context.Context, filter bson.M) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding schedules: %w", err)
	}
	defer cursor.Close(ctx)

	schedules := []models.Schedule{}
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoScheduleRepo) SetStatus(ctx context.Context, scheduleID string, status models.ScheduleStatus) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": scheduleID}, update)
	if err != nil {
		return fmt.Errorf("error setting schedule %s status: %w", scheduleID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoScheduleRepo) Delete(ctx context.Context, scheduleID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": scheduleID})
	if err != nil {
		return fmt.Errorf("error deleting schedule %s: %w", scheduleID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
