package handlers

import (
	"net/http"
	"strconv"

	bookingRepo "wayfarer/database/repository/booking"
	"wayfarer/models"
	"wayfarer/services/booking"
	"wayfarer/services/tasks"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service  booking.BookingService
	Enqueuer tasks.Enqueuer
	Logger   *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, enqueuer tasks.Enqueuer, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Enqueuer: enqueuer, Logger: logger}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), caller, req)
	if err != nil {
		utils.RespondError(c, logger, "create booking", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, b)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, "get booking", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// ListBookingsHandler handles GET /api/bookings and GET /api/admin/bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	filter := bookingRepo.BookingFilter{
		UserID:     c.Query("userId"),
		ScheduleID: c.Query("scheduleId"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseBookingStatus(raw)
		if err != nil {
			utils.RespondError(c, logger, "list bookings", err)
			return
		}
		filter.Statuses = []models.BookingStatus{status}
	}

	bookings, err := h.Service.ListBookings(c.Request.Context(), caller, filter)
	if err != nil {
		utils.RespondError(c, logger, "list bookings", err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	b, err := h.Service.CancelBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		utils.RespondError(c, logger, "cancel booking", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// UpdateStatusHandler handles PATCH /api/admin/bookings/:id/status.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := models.ParseBookingStatus(input.Status)
	if err != nil {
		utils.RespondError(c, logger, "update booking status", err)
		return
	}

	b, err := h.Service.TransitionStatus(c.Request.Context(), caller, c.Param("id"), status)
	if err != nil {
		utils.RespondError(c, logger, "update booking status", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// DeleteBookingHandler handles DELETE /api/admin/bookings/:id.
func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteBooking(c.Request.Context(), caller, c.Param("id")); err != nil {
		utils.RespondError(c, logger, "delete booking", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// availabilityResponse adds the seat-ledger answer when the caller names a party size.
type availabilityResponse struct {
	*models.Availability
	People         int   `json:"people,omitempty"`
	CanAccommodate *bool `json:"canAccommodate,omitempty"`
}

// AvailabilityHandler handles GET /api/schedules/:id/availability[?people=N].
func (h *BookingHandler) AvailabilityHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	ctx := c.Request.Context()
	scheduleID := c.Param("id")

	availability, err := h.Service.CheckAvailability(ctx, scheduleID)
	if err != nil {
		utils.RespondError(c, logger, "check availability", err)
		return
	}
	resp := availabilityResponse{Availability: availability}

	if raw := c.Query("people"); raw != "" {
		people, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, logger, "check availability", models.NewValidationError("people", "must be an integer"))
			return
		}
		fits, err := h.Service.CanAccommodate(ctx, scheduleID, people)
		if err != nil {
			utils.RespondError(c, logger, "check availability", err)
			return
		}
		resp.People = people
		resp.CanAccommodate = &fits
	}
	utils.JSONSuccess(c, http.StatusOK, resp)
}

// ReconcileScheduleHandler handles POST /api/admin/schedules/:id/reconcile.
// With ?sync=true the ledger is rewritten inline instead of queued.
func (h *BookingHandler) ReconcileScheduleHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	scheduleID := c.Param("id")

	if c.Query("sync") == "true" || h.Enqueuer == nil {
		schedule, err := h.Service.ReconcileSchedule(c.Request.Context(), scheduleID)
		if err != nil {
			utils.RespondError(c, logger, "reconcile schedule", err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, schedule)
		return
	}

	taskID, err := h.Enqueuer.EnqueueReconcile(c.Request.Context(), scheduleID)
	if err != nil {
		utils.RespondError(c, logger, "enqueue reconcile", err)
		return
	}
	utils.JSONSuccess(c, http.StatusAccepted, gin.H{"scheduleId": scheduleID, "taskId": taskID})
}
