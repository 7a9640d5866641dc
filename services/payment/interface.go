package payment

import (
	"context"

	bookingRepo "wayfarer/database/repository/booking"
	catalogRepo "wayfarer/database/repository/catalog"
	userRepo "wayfarer/database/repository/user"
	"wayfarer/models"
	"wayfarer/utils"

	"go.uber.org/zap"
)

var (
	ErrBookingNotFound  = utils.NotFoundError("booking not found")
	ErrForbidden        = utils.ForbiddenError("not allowed to pay for this booking")
	ErrAlreadyPaid      = utils.ConflictError("booking is already paid")
	ErrBookingCancelled = utils.ConflictError("booking is cancelled")
	ErrInvalidSignature = utils.BadRequestError("invalid webhook signature")
)

// CheckoutGateway opens a hosted checkout with the payment provider.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
}

// EventVerifier authenticates a raw webhook delivery and decodes it.
type EventVerifier interface {
	Verify(payload []byte, signature string) (*models.PaymentEvent, error)
}

// EventDeduper remembers provider event ids that have already been applied.
type EventDeduper interface {
	// MarkProcessed records eventID and reports whether it was seen for the first time.
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// WebhookOutcome describes what HandleWebhook did with a verified event.
type WebhookOutcome string

const (
	OutcomeApplied   WebhookOutcome = "applied"
	OutcomeNoop      WebhookOutcome = "noop"
	OutcomeDuplicate WebhookOutcome = "duplicate"
	OutcomeIgnored   WebhookOutcome = "ignored"
)

type PaymentService interface {
	CreateCheckout(ctx context.Context, caller models.Caller, bookingID string) (*models.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error)
}

// CheckoutOptions are the provider-facing settings of a checkout.
type CheckoutOptions struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

type DefaultPaymentService struct {
	Bookings bookingRepo.BookingRepository
	Catalog  catalogRepo.CatalogRepository
	Users    userRepo.UserRepository
	Gateway  CheckoutGateway
	Verifier EventVerifier
	Deduper  EventDeduper
	Options  CheckoutOptions
	Logger   *zap.Logger
}

func NewPaymentService(
	bookings bookingRepo.BookingRepository,
	catalog catalogRepo.CatalogRepository,
	users userRepo.UserRepository,
	gateway CheckoutGateway,
	verifier EventVerifier,
	deduper EventDeduper,
	opts CheckoutOptions,
	logger *zap.Logger,
) *DefaultPaymentService {
	return &DefaultPaymentService{
		Bookings: bookings,
		Catalog:  catalog,
		Users:    users,
		Gateway:  gateway,
		Verifier: verifier,
		Deduper:  deduper,
		Options:  opts,
		Logger:   logger,
	}
}
