package payment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"wayfarer/database/repository/memstore"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

var owner = models.Caller{UserID: "u1", Email: "ann@example.com", Role: models.RoleUser}

type memDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDeduper) MarkProcessed(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[eventID] {
		return false, nil
	}
	d.seen[eventID] = true
	return true, nil
}

func (d *memDeduper) Forget(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, eventID)
	return nil
}

type recordingGateway struct {
	last models.CheckoutRequest
	err  error
}

func (g *recordingGateway) CreateSession(_ context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return &models.CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.example/cs_test_1"}, nil
}

type fixture struct {
	store   *memstore.Store
	gateway *recordingGateway
	svc     *DefaultPaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	store.PutUser(models.User{ID: owner.UserID, Email: owner.Email})
	require.NoError(t, store.Catalog().CreateTour(context.Background(), &models.Tour{ID: "t1", Title: "Harbour Cruise", DurationDays: 1}))

	gw := &recordingGateway{}
	svc := NewPaymentService(
		store.Bookings(),
		store.Catalog(),
		store.Users(),
		gw,
		NewStripeVerifier(testSecret),
		&memDeduper{seen: map[string]bool{}},
		CheckoutOptions{Currency: "usd", SuccessURL: "https://app.example/ok", CancelURL: "https://app.example/cancel"},
		zap.NewNop(),
	)
	return &fixture{store: store, gateway: gw, svc: svc}
}

func (f *fixture) putBooking(id string, status models.BookingStatus, payment models.PaymentStatus) {
	f.store.Bookings().Put(models.Booking{
		ID:             id,
		UserID:         owner.UserID,
		Type:           models.BookingTypeTour,
		Tour:           &models.TourReservation{TourID: "t1", ScheduleID: "s1"},
		NumberOfPeople: 3,
		TotalPrice:     149.99,
		Status:         status,
		PaymentStatus:  payment,
	})
}

func (f *fixture) booking(t *testing.T, id string) *models.Booking {
	t.Helper()
	b, err := f.store.Bookings().GetByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func signedEvent(t *testing.T, id, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":     id,
		"object": "event",
		"type":   eventType,
		"data":   map[string]any{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestCreateCheckout(t *testing.T) {
	f := newFixture(t)
	f.putBooking("b1", models.BookingStatusConfirmed, models.PaymentStatusPending)

	session, err := f.svc.CreateCheckout(context.Background(), owner, "b1")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.SessionID)

	assert.Equal(t, "Harbour Cruise (3 people)", f.gateway.last.Description)
	assert.Equal(t, int64(14999), f.gateway.last.UnitAmount)
	assert.Equal(t, "usd", f.gateway.last.Currency)
	assert.Equal(t, owner.Email, f.gateway.last.UserEmail)
	assert.Equal(t, "cs_test_1", f.booking(t, "b1").PaymentSessionID)
}

func TestCreateCheckoutRejections(t *testing.T) {
	f := newFixture(t)
	f.putBooking("paid", models.BookingStatusConfirmed, models.PaymentStatusCompleted)
	f.putBooking("gone", models.BookingStatusCancelled, models.PaymentStatusPending)
	f.putBooking("open", models.BookingStatusConfirmed, models.PaymentStatusPending)
	ctx := context.Background()

	_, err := f.svc.CreateCheckout(ctx, owner, "paid")
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = f.svc.CreateCheckout(ctx, owner, "gone")
	assert.ErrorIs(t, err, ErrBookingCancelled)

	_, err = f.svc.CreateCheckout(ctx, models.Caller{UserID: "u2"}, "open")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CreateCheckout(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	f.gateway.err = errors.New("provider down")
	_, err = f.svc.CreateCheckout(ctx, owner, "open")
	assert.Equal(t, 500, utils.StatusFromError(err))
	assert.Empty(t, f.booking(t, "open").PaymentSessionID)
}

func TestWebhookCompletesPayment(t *testing.T) {
	f := newFixture(t)
	f.putBooking("b1", models.BookingStatusConfirmed, models.PaymentStatusPending)

	payload, sig := signedEvent(t, "evt_1", "checkout.session.completed", map[string]any{
		"id":             "cs_test_1",
		"object":         "checkout.session",
		"metadata":       map[string]string{"bookingId": "b1"},
		"payment_intent": "pi_123",
	})

	outcome, err := f.svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	b := f.booking(t, "b1")
	assert.Equal(t, models.PaymentStatusCompleted, b.PaymentStatus)
	assert.Equal(t, "pi_123", b.PaymentIntentID)
}

func TestWebhookReplayIsNoop(t *testing.T) {
	f := newFixture(t)
	f.putBooking("b1", models.BookingStatusConfirmed, models.PaymentStatusPending)
	ctx := context.Background()

	object := map[string]any{"id": "cs_test_1", "object": "checkout.session", "client_reference_id": "b1"}
	payload, sig := signedEvent(t, "evt_1", "checkout.session.completed", object)

	_, err := f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)

	outcome, err := f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)

	// A distinct event for an already-paid booking changes nothing either.
	payload, sig = signedEvent(t, "evt_2", "checkout.session.completed", object)
	outcome, err = f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, models.PaymentStatusCompleted, f.booking(t, "b1").PaymentStatus)
}

func TestWebhookExpiredOnlyFailsPendingPayments(t *testing.T) {
	f := newFixture(t)
	f.putBooking("pending", models.BookingStatusConfirmed, models.PaymentStatusPending)
	f.putBooking("paid", models.BookingStatusConfirmed, models.PaymentStatusCompleted)
	ctx := context.Background()

	payload, sig := signedEvent(t, "evt_exp_1", "checkout.session.expired", map[string]any{
		"id": "cs_a", "object": "checkout.session", "metadata": map[string]string{"bookingId": "pending"},
	})
	outcome, err := f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, models.PaymentStatusFailed, f.booking(t, "pending").PaymentStatus)

	payload, sig = signedEvent(t, "evt_exp_2", "checkout.session.expired", map[string]any{
		"id": "cs_b", "object": "checkout.session", "metadata": map[string]string{"bookingId": "paid"},
	})
	outcome, err = f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, models.PaymentStatusCompleted, f.booking(t, "paid").PaymentStatus)
}

func TestWebhookFallsBackToStoredSession(t *testing.T) {
	f := newFixture(t)
	f.putBooking("b1", models.BookingStatusConfirmed, models.PaymentStatusPending)
	require.NoError(t, f.store.Bookings().SetPaymentSession(context.Background(), "b1", "cs_known"))

	payload, sig := signedEvent(t, "evt_1", "checkout.session.completed", map[string]any{
		"id": "cs_known", "object": "checkout.session",
	})
	outcome, err := f.svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, models.PaymentStatusCompleted, f.booking(t, "b1").PaymentStatus)
}

func TestWebhookIgnoresUnknownTypesAndBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload, sig := signedEvent(t, "evt_1", "customer.created", map[string]any{"id": "cus_1", "object": "customer"})
	outcome, err := f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)

	payload, sig = signedEvent(t, "evt_2", "checkout.session.completed", map[string]any{
		"id": "cs_orphan", "object": "checkout.session",
	})
	outcome, err = f.svc.HandleWebhook(ctx, payload, sig)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	f.putBooking("b1", models.BookingStatusConfirmed, models.PaymentStatusPending)

	payload, _ := signedEvent(t, "evt_1", "checkout.session.completed", map[string]any{
		"id": "cs_1", "object": "checkout.session", "metadata": map[string]string{"bookingId": "b1"},
	})
	forged := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_wrong",
		Timestamp: time.Now(),
	})

	_, err := f.svc.HandleWebhook(context.Background(), payload, forged.Header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 400, utils.StatusFromError(err))
	assert.Equal(t, models.PaymentStatusPending, f.booking(t, "b1").PaymentStatus)
}
