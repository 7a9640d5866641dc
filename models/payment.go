package models

import "math"

// CheckoutRequest describes the single line item sent to the payment provider.
type CheckoutRequest struct {
	BookingID   string
	UserEmail   string
	Description string
	UnitAmount  int64 // minor currency units
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is what the provider returns for a new checkout.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PaymentEventType is the dispatch key of an inbound provider event.
type PaymentEventType string

const (
	PaymentEventCheckoutCompleted PaymentEventType = "checkout.session.completed"
	PaymentEventCheckoutExpired   PaymentEventType = "checkout.session.expired"
)

// PaymentEvent is a verified provider event reduced to the fields reconciliation needs.
type PaymentEvent struct {
	ID              string
	Type            PaymentEventType
	SessionID       string
	BookingID       string
	PaymentIntentID string
}

// MinorUnits converts a decimal amount to integer minor currency units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
