package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfarer/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.NewValidationError("type", "missing required field"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", models.NewValidationError("x", "y")), http.StatusBadRequest},
		{"unauthorized", UnauthorizedError("no"), http.StatusUnauthorized},
		{"forbidden", ForbiddenError("no"), http.StatusForbidden},
		{"not found", fmt.Errorf("load: %w", NotFoundError("booking not found")), http.StatusNotFound},
		{"conflict", ConflictError("insufficient capacity"), http.StatusConflict},
		{"bad request", BadRequestError("invalid webhook signature"), http.StatusBadRequest},
		{"plain", errors.New("mongo down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, zap.NewNop(), "op", errors.New("connection refused to 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	RespondError(c, zap.NewNop(), "op", ConflictError("insufficient capacity on schedule"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"insufficient capacity on schedule"}`, w.Body.String())
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
