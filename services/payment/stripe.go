package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"wayfarer/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway creates Stripe Checkout sessions.
type StripeGateway struct {
	client *session.Client
}

func NewStripeGateway(apiKey string) *StripeGateway {
	return &StripeGateway{
		client: &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: apiKey},
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.BookingID),
	}
	if req.UserEmail != "" {
		params.CustomerEmail = stripe.String(req.UserEmail)
	}
	params.AddMetadata("bookingId", req.BookingID)
	params.Context = ctx

	s, err := g.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return &models.CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}

// StripeVerifier checks the Stripe-Signature header against the endpoint secret.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(payload []byte, signature string) (*models.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &models.PaymentEvent{
		ID:   event.ID,
		Type: models.PaymentEventType(event.Type),
	}
	switch out.Type {
	case models.PaymentEventCheckoutCompleted, models.PaymentEventCheckoutExpired:
	default:
		return out, nil
	}
	if event.Data == nil {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.SessionID = cs.ID
	out.BookingID = cs.Metadata["bookingId"]
	if out.BookingID == "" {
		out.BookingID = cs.ClientReferenceID
	}
	if cs.PaymentIntent != nil {
		out.PaymentIntentID = cs.PaymentIntent.ID
	}
	return out, nil
}
