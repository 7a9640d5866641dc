package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wayfarer/database/repository/memstore"
	"wayfarer/handlers"
	"wayfarer/services/catalog"
	"wayfarer/services/payment"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRouter(perMin int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	logger := zap.NewNop()

	paymentSvc := payment.NewPaymentService(store.Bookings(), store.Catalog(), store.Users(), nil,
		payment.NewStripeVerifier("whsec_test"), nil, payment.CheckoutOptions{}, logger)
	hb := &handlers.HandlerBundle{
		UserRepo:      store.Users(),
		Issuer:        utils.NewTokenIssuer("routes-secret"),
		MaxReqsPerMin: perMin,
		Payment:       handlers.NewPaymentHandler(paymentSvc, logger),
		Catalog:       handlers.NewCatalogHandler(catalog.NewCatalogService(store.Catalog(), store.Schedules(), store.Bookings(), 20, logger), logger),
	}

	r := gin.New()
	RegisterRoutes(r, hb)
	return r
}

func serve(r *gin.Engine, method, path, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:4242"
	if method == http.MethodPost {
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestWebhookBypassesRateLimit(t *testing.T) {
	r := newRouter(1)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/catalog/cities", ""))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/catalog/cities", ""))

	for i := 0; i < 3; i++ {
		// Signature check runs, so the bad signature is what fails.
		assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPost, "/api/payments/webhook", `{"id":"evt_1"}`))
	}
}
