package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"wayfarer/database/repository"
	"wayfarer/models"

	"go.mongodb.org/mongo-driver/bson"
)

func (r *mongoBookingRepo) SetPaymentSession(ctx context.Context, bookingID, sessionID string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"paymentSessionId": sessionID, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, update)
	if err != nil {
		return fmt.Errorf("error saving payment session on booking %s: %w", bookingID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepo) UpdatePaymentStatus(
	ctx context.Context,
	bookingID string,
	from []models.PaymentStatus,
	to models.PaymentStatus,
	paymentIntentID string,
) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	set := bson.M{"paymentStatus": to, "updatedAt": time.Now().UTC()}
	if paymentIntentID != "" {
		set["paymentIntentId"] = paymentIntentID
	}
	filter := bson.M{"id": bookingID, "paymentStatus": bson.M{"$in": from}}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("error updating payment status of booking %s: %w", bookingID, err)
	}
	return res.ModifiedCount > 0, nil
}
