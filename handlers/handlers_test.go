package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"wayfarer/database/repository/memstore"
	"wayfarer/models"
	"wayfarer/services/booking"
	"wayfarer/services/catalog"
	"wayfarer/services/payment"
	"wayfarer/services/review"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const jwtSecret = "test-secret"

var (
	traveller = models.Caller{UserID: "u1", Email: "ann@example.com", Role: models.RoleUser}
	operator  = models.Caller{UserID: "a1", Email: "ops@example.com", Role: models.RoleAdmin}
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type stubEnqueuer struct {
	scheduleIDs []string
}

func (e *stubEnqueuer) EnqueueReconcile(_ context.Context, scheduleID string) (string, error) {
	e.scheduleIDs = append(e.scheduleIDs, scheduleID)
	return "task-1", nil
}

type testServer struct {
	router   *gin.Engine
	store    *memstore.Store
	issuer   *utils.TokenIssuer
	enqueuer *stubEnqueuer
}

func newTestServer(t *testing.T, register func(*gin.Engine, *HandlerBundle)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	store.PutUser(models.User{ID: traveller.UserID, Email: traveller.Email, Role: models.RoleUser})
	store.PutUser(models.User{ID: operator.UserID, Email: operator.Email, Role: models.RoleAdmin})

	ctx := context.Background()
	require.NoError(t, store.Catalog().CreateTour(ctx, &models.Tour{ID: "t1", Title: "Old Town Walk", Price: 20, DurationDays: 1, MaxGroupSize: 10}))
	require.NoError(t, store.Schedules().Create(ctx, &models.Schedule{
		ID:             "s1",
		TourID:         "t1",
		StartDate:      time.Now().Add(24 * time.Hour),
		EndDate:        time.Now().Add(30 * time.Hour),
		AvailableSlots: 10,
	}))

	logger := zap.NewNop()
	bookingSvc := booking.NewBookingService(store.Bookings(), store.Schedules(), store.Catalog(), store.Users(), store, logger)
	paymentSvc := payment.NewPaymentService(store.Bookings(), store.Catalog(), store.Users(), nil,
		payment.NewStripeVerifier("whsec_test"), nil, payment.CheckoutOptions{}, logger)
	enqueuer := &stubEnqueuer{}

	issuer := utils.NewTokenIssuer(jwtSecret)
	hb := &HandlerBundle{
		UserRepo:      store.Users(),
		Issuer:        issuer,
		MaxReqsPerMin: 1000,
		Booking:       NewBookingHandler(bookingSvc, enqueuer, logger),
		Payment:       NewPaymentHandler(paymentSvc, logger),
		Review:        NewReviewHandler(review.NewReviewService(store.Reviews(), store.Catalog(), store, logger), logger),
		Catalog:       NewCatalogHandler(catalog.NewCatalogService(store.Catalog(), store.Schedules(), store.Bookings(), 20, logger), logger),
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	register(router, hb)
	return &testServer{router: router, store: store, issuer: issuer, enqueuer: enqueuer}
}

func (s *testServer) do(t *testing.T, method, path string, caller *models.Caller, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		token, err := s.issuer.GenerateToken(*caller, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}
