package bookingRepo

import (
	"context"
	"fmt"

	"wayfarer/database/repository"
	"wayfarer/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CountBySchedule counts bookings on a schedule in the given statuses.
func (r *mongoBookingRepo) CountBySchedule(ctx context.Context, scheduleID string, statuses []models.BookingStatus) (int, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"tour.scheduleId": scheduleID,
		"status":          bson.M{"$in": statuses},
	}
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting bookings on schedule %s: %w", scheduleID, err)
	}
	return int(n), nil
}

// SumPartySize totals numberOfPeople over bookings on a schedule in the given statuses.
func (r *mongoBookingRepo) SumPartySize(ctx context.Context, scheduleID string, statuses []models.BookingStatus) (int, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"tour.scheduleId": scheduleID,
			"status":          bson.M{"$in": statuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"seats": bson.M{"$sum": "$numberOfPeople"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error summing party sizes on schedule %s: %w", scheduleID, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Seats int `bson:"seats"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error decoding party size sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Seats, nil
}
