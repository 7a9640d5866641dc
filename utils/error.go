package utils

import (
	"errors"
	"net/http"

	"wayfarer/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies failures for the transport layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindBadRequest
)

// AppError is a failure with a fixed kind and a human-readable message.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFoundError(msg string) error     { return &AppError{Kind: KindNotFound, Message: msg} }
func ForbiddenError(msg string) error    { return &AppError{Kind: KindForbidden, Message: msg} }
func ConflictError(msg string) error     { return &AppError{Kind: KindConflict, Message: msg} }
func UnauthorizedError(msg string) error { return &AppError{Kind: KindUnauthorized, Message: msg} }
func BadRequestError(msg string) error   { return &AppError{Kind: KindBadRequest, Message: msg} }

// StatusFromError maps an error chain onto an HTTP status code.
func StatusFromError(err error) int {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Success: false,
					Error:   "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: message})
}

// RespondError logs err and writes it with the status its kind maps to.
// Internal errors are not echoed to the caller.
func RespondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
		JSONError(c, status, "internal server error")
		return
	}
	logger.Warn(op+" rejected", zap.Int("status", status), zap.Error(err))
	JSONError(c, status, err.Error())
}

func JSONSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}
