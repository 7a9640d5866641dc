package bookingRepo

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

// Create inserts a new booking document.
func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": bookingID})
}

func (r *mongoBookingRepo) GetByPaymentSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"paymentSessionId": sessionID})
}

func (r *mongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		return nil, repository.TranslateNotFound(err)
	}
	return &booking, nil
}

func (r *mongoBookingRepo) List(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.ScheduleID != "" {
		filter["tour.scheduleId"] = f.ScheduleID
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) CompareAndSetStatus(ctx context.Context, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": bookingID, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if err = repository.TranslateNotFound(err); err != repository.ErrNotFound {
		return nil, fmt.Errorf("error updating booking %s status: %w", bookingID, err)
	}
	return nil, r.conflictOrMissing(ctx, bookingID)
}

func (r *mongoBookingRepo) DeleteIfStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": bookingID, "status": status})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", bookingID, err)
	}
	if res.DeletedCount == 0 {
		return r.conflictOrMissing(ctx, bookingID)
	}
	return nil
}

// conflictOrMissing distinguishes a vanished booking from one whose status moved.
func (r *mongoBookingRepo) conflictOrMissing(ctx context.Context, bookingID string) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": bookingID})
	if err != nil {
		return fmt.Errorf("error checking booking %s: %w", bookingID, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return ErrStatusConflict
}
