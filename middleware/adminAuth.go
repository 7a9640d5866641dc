package middleware

import (
	"net/http"

	"wayfarer/utils"

	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after JWTAuthUserMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFromContext(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}
		if !caller.IsAdmin() {
			utils.JSONError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
