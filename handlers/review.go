package handlers

import (
	"net/http"

	"wayfarer/models"
	"wayfarer/services/review"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	Service review.ReviewService
	Logger  *zap.Logger
}

func NewReviewHandler(svc review.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{Service: svc, Logger: logger}
}

func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.Service.CreateReview(c.Request.Context(), caller, req)
	if err != nil {
		utils.RespondError(c, logger, "create review", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, r)
}

func (h *ReviewHandler) UpdateReviewHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req review.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	r, err := h.Service.UpdateReview(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, logger, "update review", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteReview(c.Request.Context(), caller, c.Param("id")); err != nil {
		utils.RespondError(c, logger, "delete review", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// ListReviewsHandler handles GET /api/reviews?targetType=&targetId=.
func (h *ReviewHandler) ListReviewsHandler(c *gin.Context) {
	logger := requestLogger(c, h.Logger)

	reviews, err := h.Service.ListReviews(c.Request.Context(), models.ReviewTarget(c.Query("targetType")), c.Query("targetId"))
	if err != nil {
		utils.RespondError(c, logger, "list reviews", err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}
