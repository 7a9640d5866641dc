package handlers

import (
	"errors"
	"io"
	"net/http"

	"wayfarer/services/payment"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the raw body read for signature verification.
const maxWebhookBody = int64(65536)

type PaymentHandler struct {
	Service payment.PaymentService
	Logger  *zap.Logger
}

func NewPaymentHandler(svc payment.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Logger: logger}
}

// CheckoutHandler handles POST /api/bookings/:id/checkout.
func (h *PaymentHandler) CheckoutHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	session, err := h.Service.CreateCheckout(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, "create checkout", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, session)
}

// WebhookHandler handles POST /api/payments/webhook. The body must be read raw so the
// signature can be checked against the exact bytes sent.
func (h *PaymentHandler) WebhookHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		logger.Warn("webhook body over limit", zap.Int64("limit", tooLarge.Limit))
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "request body too large")
		return
	case err != nil:
		utils.JSONError(c, http.StatusServiceUnavailable, "could not read request body")
		return
	}

	outcome, err := h.Service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		utils.RespondError(c, logger, "payment webhook", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"received": true, "outcome": outcome})
}
