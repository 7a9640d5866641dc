package handlers

import (
	"net/http"

	"wayfarer/models"
	"wayfarer/services/catalog"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	Service catalog.CatalogService
	Logger  *zap.Logger
}

func NewCatalogHandler(svc catalog.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Service: svc, Logger: logger}
}

func (h *CatalogHandler) ListCitiesHandler(c *gin.Context) {
	cities, err := h.Service.ListCities(c.Request.Context())
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "list cities", err)
		return
	}
	if cities == nil {
		cities = []models.City{}
	}
	utils.JSONSuccess(c, http.StatusOK, cities)
}

func (h *CatalogHandler) GetCityHandler(c *gin.Context) {
	city, err := h.Service.GetCity(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "get city", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, city)
}

func (h *CatalogHandler) CreateCityHandler(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.Service.CreateCity(c.Request.Context(), &city)
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "create city", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

func (h *CatalogHandler) UpdateCityHandler(c *gin.Context) {
	var city models.City
	if err := c.ShouldBindJSON(&city); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Service.UpdateCity(c.Request.Context(), c.Param("id"), &city)
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "update city", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteCityHandler(c *gin.Context) {
	if err := h.Service.DeleteCity(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "delete city", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// ListToursHandler handles GET /api/catalog/tours, optionally filtered by ?cityId=.
func (h *CatalogHandler) ListToursHandler(c *gin.Context) {
	tours, err := h.Service.ListTours(c.Request.Context(), c.Query("cityId"))
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "list tours", err)
		return
	}
	if tours == nil {
		tours = []models.Tour{}
	}
	utils.JSONSuccess(c, http.StatusOK, tours)
}

func (h *CatalogHandler) GetTourHandler(c *gin.Context) {
	tour, err := h.Service.GetTour(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "get tour", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tour)
}

func (h *CatalogHandler) CreateTourHandler(c *gin.Context) {
	var tour models.Tour
	if err := c.ShouldBindJSON(&tour); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.Service.CreateTour(c.Request.Context(), &tour)
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "create tour", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

func (h *CatalogHandler) UpdateTourHandler(c *gin.Context) {
	var tour models.Tour
	if err := c.ShouldBindJSON(&tour); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Service.UpdateTour(c.Request.Context(), c.Param("id"), &tour)
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "update tour", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteTourHandler(c *gin.Context) {
	if err := h.Service.DeleteTour(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "delete tour", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}

// ListSchedulesHandler handles GET /api/catalog/tours/:id/schedules.
func (h *CatalogHandler) ListSchedulesHandler(c *gin.Context) {
	schedules, err := h.Service.ListSchedules(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "list schedules", err)
		return
	}
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	utils.JSONSuccess(c, http.StatusOK, schedules)
}

func (h *CatalogHandler) GetScheduleHandler(c *gin.Context) {
	schedule, err := h.Service.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "get schedule", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, schedule)
}

func (h *CatalogHandler) CreateScheduleHandler(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	schedule, err := h.Service.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "create schedule", err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, schedule)
}

// UpdateScheduleHandler handles PUT /api/admin/schedules/:id.
func (h *CatalogHandler) UpdateScheduleHandler(c *gin.Context) {
	var req models.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	schedule, err := h.Service.UpdateSchedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "update schedule", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, schedule)
}

func (h *CatalogHandler) CancelScheduleHandler(c *gin.Context) {
	schedule, err := h.Service.CancelSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "cancel schedule", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, schedule)
}

func (h *CatalogHandler) DeleteScheduleHandler(c *gin.Context) {
	if err := h.Service.DeleteSchedule(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, requestLogger(c, h.Logger), "delete schedule", err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": c.Param("id"), "deleted": true})
}
