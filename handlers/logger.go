package handlers

import (
	"net/http"

	"wayfarer/middleware"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLogger scopes the handler's logger to the current route.
func requestLogger(c *gin.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = utils.GetLogger()
	}
	return base.With(zap.String("method", c.Request.Method), zap.String("route", c.FullPath()))
}

// requireCaller aborts with 401 when the auth middleware did not run.
func requireCaller(c *gin.Context) (models.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
	}
	return caller, ok
}
