package bookingRepo

import (
	"context"
	"errors"

	"wayfarer/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrStatusConflict is returned by conditional writes when the booking's status
// no longer matches the expected value.
var ErrStatusConflict = errors.New("booking status changed concurrently")

// BookingFilter narrows List. Zero fields are ignored.
type BookingFilter struct {
	UserID     string
	ScheduleID string
	Statuses   []models.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetByPaymentSession(ctx context.Context, sessionID string) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)

	// CompareAndSetStatus moves a booking from one status to another only if it is still in from.
	CompareAndSetStatus(ctx context.Context, bookingID string, from, to models.BookingStatus) (*models.Booking, error)
	// DeleteIfStatus removes the booking only if it is still in status.
	DeleteIfStatus(ctx context.Context, bookingID string, status models.BookingStatus) error

	SetPaymentSession(ctx context.Context, bookingID, sessionID string) error
	// UpdatePaymentStatus applies to only when the current payment status is one of from.
	// It reports whether a document was modified.
	UpdatePaymentStatus(ctx context.Context, bookingID string, from []models.PaymentStatus, to models.PaymentStatus, paymentIntentID string) (bool, error)

	CountBySchedule(ctx context.Context, scheduleID string, statuses []models.BookingStatus) (int, error)
	SumPartySize(ctx context.Context, scheduleID string, statuses []models.BookingStatus) (int, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a BookingRepository over the "bookings" collection.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
