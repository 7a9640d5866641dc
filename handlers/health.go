package handlers

import (
	"net/http"

	"wayfarer/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check. A nil monitor reports ok.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			utils.JSONSuccess(c, http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := monitor.Status()
		if status.CheckedAt.IsZero() {
			status = monitor.Check(c.Request.Context())
		}
		if !status.Healthy() {
			c.JSON(http.StatusServiceUnavailable, utils.SuccessResponse{Success: false, Data: status})
			return
		}
		utils.JSONSuccess(c, http.StatusOK, status)
	}
}
