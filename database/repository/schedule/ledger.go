package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer/database/repository"
	"wayfarer/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// statusStage recomputes status from the counters written by the previous stage.
// A cancelled schedule keeps its status.
func statusStage() bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{"$status", models.ScheduleStatusCancelled}}}},
			{Key: "then", Value: "$status"},
			{Key: "else", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$gte", Value: bson.A{"$bookedSlots", "$availableSlots"}}},
				models.ScheduleStatusFull,
				models.ScheduleStatusAvailable,
			}}}},
		}}}},
	}}}
}

func reserveFilter(scheduleID string, seats int) bson.M {
	return bson.M{
		"id":     scheduleID,
		"status": bson.M{"$ne": models.ScheduleStatusCancelled},
		"$expr": bson.M{"$gte": bson.A{
			bson.M{"$subtract": bson.A{"$availableSlots", "$bookedSlots"}},
			seats,
		}},
	}
}

func reservePipeline(seats int, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookedSlots", Value: bson.D{{Key: "$add", Value: bson.A{"$bookedSlots", seats}}}},
			{Key: "updatedAt", Value: now},
		}}},
		statusStage(),
	}
}

func releasePipeline(seats int, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookedSlots", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$subtract", Value: bson.A{"$bookedSlots", seats}}},
			}}}},
			{Key: "updatedAt", Value: now},
		}}},
		statusStage(),
	}
}

func overwritePipeline(bookedSlots int, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookedSlots", Value: bookedSlots},
			{Key: "updatedAt", Value: now},
		}}},
		statusStage(),
	}
}

func (r *mongoScheduleRepo) Reserve(ctx context.Context, scheduleID string, seats int) (*models.Schedule, error) {
	if seats < 1 {
		return nil, fmt.Errorf("reserve: seats must be positive, got %d", seats)
	}
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	updated, err := r.applyPipeline(ctx, reserveFilter(scheduleID, seats), reservePipeline(seats, time.Now().UTC()))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("error reserving %d seats on schedule %s: %w", seats, scheduleID, err)
	}

	// The guarded update matched nothing; find out why.
	current, getErr := r.GetByID(ctx, scheduleID)
	if getErr != nil {
		return nil, getErr
	}
	if current.Status == models.ScheduleStatusCancelled {
		return nil, ErrScheduleCancelled
	}
	return nil, ErrInsufficientCapacity
}

func (r *mongoScheduleRepo) Release(ctx context.Context, scheduleID string, seats int) (*models.Schedule, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	updated, err := r.applyPipeline(ctx, bson.M{"id": scheduleID}, releasePipeline(seats, time.Now().UTC()))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("error releasing %d seats on schedule %s: %w", seats, scheduleID, err)
	}
	return updated, err
}

func (r *mongoScheduleRepo) Overwrite(ctx context.Context, scheduleID string, bookedSlots int) (*models.Schedule, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	updated, err := r.applyPipeline(ctx, bson.M{"id": scheduleID}, overwritePipeline(bookedSlots, time.Now().UTC()))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("error overwriting ledger of schedule %s: %w", scheduleID, err)
	}
	return updated, err
}

func updatePipeline(schedule *models.Schedule, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "startDate", Value: schedule.StartDate},
			{Key: "endDate", Value: schedule.EndDate},
			{Key: "availableSlots", Value: schedule.AvailableSlots},
			{Key: "maxCapacity", Value: schedule.MaxCapacity},
			{Key: "updatedAt", Value: now},
		}}},
		statusStage(),
	}
}

// Update rewrites the administrative fields unless the new capacity is below the
// seats already booked. Ledger counters are left alone.
func (r *mongoScheduleRepo) Update(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"id":    schedule.ID,
		"$expr": bson.M{"$lte": bson.A{"$bookedSlots", schedule.AvailableSlots}},
	}
	updated, err := r.applyPipeline(ctx, filter, updatePipeline(schedule, time.Now().UTC()))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("error updating schedule %s: %w", schedule.ID, err)
	}
	if _, getErr := r.GetByID(ctx, schedule.ID); getErr != nil {
		return nil, getErr
	}
	return nil, ErrCapacityBelowBooked
}

func (r *mongoScheduleRepo) applyPipeline(ctx context.Context, filter bson.M, pipeline mongo.Pipeline) (*models.Schedule, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var schedule models.Schedule
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&schedule); err != nil {
		return nil, repository.TranslateNotFound(err)
	}
	return &schedule, nil
}
