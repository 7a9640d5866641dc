package booking

import (
	"context"
	"time"

	"wayfarer/database"
	bookingRepo "wayfarer/database/repository/booking"
	catalogRepo "wayfarer/database/repository/catalog"
	scheduleRepo "wayfarer/database/repository/schedule"
	userRepo "wayfarer/database/repository/user"
	"wayfarer/models"

	"go.uber.org/zap"
)

// BookingService is the lifecycle controller and availability calculator.
type BookingService interface {
	CreateBooking(ctx context.Context, caller models.Caller, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, caller models.Caller, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, caller models.Caller, filter bookingRepo.BookingFilter) ([]models.Booking, error)
	TransitionStatus(ctx context.Context, caller models.Caller, bookingID string, to models.BookingStatus) (*models.Booking, error)
	CancelBooking(ctx context.Context, caller models.Caller, bookingID string) (*models.Booking, error)
	DeleteBooking(ctx context.Context, caller models.Caller, bookingID string) error

	CheckAvailability(ctx context.Context, scheduleID string) (*models.Availability, error)
	CanAccommodate(ctx context.Context, scheduleID string, partySize int) (bool, error)

	ReconcileSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error)
	ReconcileAll(ctx context.Context) (int, error)
	CompletePastBookings(ctx context.Context) (int, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Schedules scheduleRepo.ScheduleRepository
	Catalog   catalogRepo.CatalogRepository
	Users     userRepo.UserRepository
	Tx        database.Transactor
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewBookingService(
	bookings bookingRepo.BookingRepository,
	schedules scheduleRepo.ScheduleRepository,
	catalog catalogRepo.CatalogRepository,
	users userRepo.UserRepository,
	tx database.Transactor,
	logger *zap.Logger,
) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:  bookings,
		Schedules: schedules,
		Catalog:   catalog,
		Users:     users,
		Tx:        tx,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
