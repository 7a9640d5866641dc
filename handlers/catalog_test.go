package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"wayfarer/middleware"
	"wayfarer/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerCatalogRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/catalog/tours/:id/schedules", hb.Catalog.ListSchedulesHandler)
	r.GET("/api/reviews", hb.Review.ListReviewsHandler)

	auth := middleware.JWTAuthUserMiddleware(hb.Issuer, hb.UserRepo, nil)
	r.POST("/api/reviews", auth, hb.Review.CreateReviewHandler)
	admin := r.Group("/api/admin", auth, middleware.RequireAdmin())
	admin.POST("/schedules", hb.Catalog.CreateScheduleHandler)
	admin.PUT("/schedules/:id", hb.Catalog.UpdateScheduleHandler)
}

func TestScheduleAndReviewEndpoints(t *testing.T) {
	srv := newTestServer(t, registerCatalogRoutes)

	w, env := srv.do(t, http.MethodPost, "/api/admin/schedules", &operator, map[string]any{
		"tourId":    "t1",
		"startDate": "2026-12-01T09:00:00Z",
		"endDate":   "2026-12-01T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sched models.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &sched))
	assert.Equal(t, 10, sched.AvailableSlots)

	w, env = srv.do(t, http.MethodGet, "/api/catalog/tours/t1/schedules", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var schedules []models.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &schedules))
	assert.Len(t, schedules, 2)

	w, _ = srv.do(t, http.MethodPost, "/api/reviews", &traveller, map[string]any{"targetType": "tour", "targetId": "t1", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = srv.do(t, http.MethodPost, "/api/reviews", &traveller, map[string]any{"targetType": "tour", "targetId": "t1", "rating": 4})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = srv.do(t, http.MethodGet, "/api/reviews?targetType=tour&targetId=t1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(env.Data, &reviews))
	assert.Len(t, reviews, 1)

	w, _ = srv.do(t, http.MethodGet, "/api/reviews?targetType=planet&targetId=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateScheduleEndpoint(t *testing.T) {
	srv := newTestServer(t, registerCatalogRoutes)
	body := map[string]any{
		"startDate":      "2026-12-02T09:00:00Z",
		"endDate":        "2026-12-02T17:00:00Z",
		"availableSlots": 12,
	}

	w, _ := srv.do(t, http.MethodPut, "/api/admin/schedules/s1", &traveller, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := srv.do(t, http.MethodPut, "/api/admin/schedules/s1", &operator, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sched models.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &sched))
	assert.Equal(t, 12, sched.AvailableSlots)
	assert.Equal(t, "t1", sched.TourID)

	w, _ = srv.do(t, http.MethodPut, "/api/admin/schedules/missing", &operator, body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body["availableSlots"] = 0
	w, _ = srv.do(t, http.MethodPut, "/api/admin/schedules/s1", &operator, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
