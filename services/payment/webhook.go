package payment

import (
	"context"
	"errors"
	"fmt"

	"wayfarer/database/repository"
	"wayfarer/models"
	"wayfarer/utils"

	"go.uber.org/zap"
)

// HandleWebhook verifies and applies one provider delivery. Nothing is written unless
// the signature checks out.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error) {
	event, err := s.Verifier.Verify(payload, signature)
	if err != nil {
		utils.PaymentWebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		s.Logger.Warn("webhook signature rejected", zap.Error(err))
		return "", ErrInvalidSignature
	}

	first, err := s.Deduper.MarkProcessed(ctx, event.ID)
	if err != nil {
		return "", fmt.Errorf("record event %s: %w", event.ID, err)
	}
	if !first {
		s.record(event, OutcomeDuplicate)
		return OutcomeDuplicate, nil
	}

	outcome, err := s.apply(ctx, event)
	if err != nil {
		if ferr := s.Deduper.Forget(ctx, event.ID); ferr != nil {
			s.Logger.Warn("could not forget failed event", zap.String("eventID", event.ID), zap.Error(ferr))
		}
		utils.PaymentWebhookEvents.WithLabelValues(string(event.Type), "failed").Inc()
		return "", err
	}
	s.record(event, outcome)
	return outcome, nil
}

func (s *DefaultPaymentService) apply(ctx context.Context, event *models.PaymentEvent) (WebhookOutcome, error) {
	var (
		from []models.PaymentStatus
		to   models.PaymentStatus
	)
	switch event.Type {
	case models.PaymentEventCheckoutCompleted:
		from = []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusFailed}
		to = models.PaymentStatusCompleted
	case models.PaymentEventCheckoutExpired:
		from = []models.PaymentStatus{models.PaymentStatusPending}
		to = models.PaymentStatusFailed
	default:
		return OutcomeIgnored, nil
	}

	bookingID, err := s.resolveBooking(ctx, event)
	if err != nil {
		return "", err
	}
	if bookingID == "" {
		s.Logger.Warn("webhook event has no matching booking",
			zap.String("eventID", event.ID),
			zap.String("sessionID", event.SessionID),
		)
		return OutcomeIgnored, nil
	}

	intentID := ""
	if to == models.PaymentStatusCompleted {
		intentID = event.PaymentIntentID
	}
	modified, err := s.Bookings.UpdatePaymentStatus(ctx, bookingID, from, to, intentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return OutcomeIgnored, nil
		}
		return "", fmt.Errorf("update payment status of booking %s: %w", bookingID, err)
	}
	if !modified {
		return OutcomeNoop, nil
	}

	s.Logger.Info("payment status updated",
		zap.String("bookingID", bookingID),
		zap.String("paymentStatus", string(to)),
		zap.String("eventID", event.ID),
	)
	return OutcomeApplied, nil
}

// resolveBooking prefers the booking id carried in the event and falls back to the
// booking that stored the session id. An empty result means no booking matches.
func (s *DefaultPaymentService) resolveBooking(ctx context.Context, event *models.PaymentEvent) (string, error) {
	if event.BookingID != "" {
		return event.BookingID, nil
	}
	if event.SessionID == "" {
		return "", nil
	}
	booking, err := s.Bookings.GetByPaymentSession(ctx, event.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find booking by session %s: %w", event.SessionID, err)
	}
	return booking.ID, nil
}

func (s *DefaultPaymentService) record(event *models.PaymentEvent, outcome WebhookOutcome) {
	utils.PaymentWebhookEvents.WithLabelValues(string(event.Type), string(outcome)).Inc()
	s.Logger.Debug("webhook handled",
		zap.String("eventID", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("outcome", string(outcome)),
	)
}
