package middleware

import (
	"strconv"

	"wayfarer/utils"

	"github.com/gin-gonic/gin"
)

// RequestMetrics counts requests by route template and final status.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		utils.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
