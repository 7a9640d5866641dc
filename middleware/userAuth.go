package middleware

import (
	"net/http"
	"strings"

	userRepo "wayfarer/database/repository/user"
	"wayfarer/models"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const callerKey = "caller"

// JWTAuthUserMiddleware resolves the bearer token into a Caller. The user must exist
// locally; the stored role and email win over the token's claims. Lookups are cached in
// authCache when it is non-nil.
func JWTAuthUserMiddleware(issuer *utils.TokenIssuer, users userRepo.UserRepository, authCache AuthCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}

		caller, err := issuer.ExtractCaller(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}

		if authCache != nil {
			identity, hit, err := authCache.Get(ctx, caller.UserID)
			if err != nil {
				logger.Warn("Auth cache lookup failed, falling back to DB", zap.Error(err))
			}
			if hit {
				caller.Role = identity.Role
				caller.Email = identity.Email
				c.Set(callerKey, caller)
				c.Next()
				return
			}
		}

		usr, err := users.GetByIDWithProjection(ctx, caller.UserID, bson.M{"id": 1, "email": 1, "role": 1})
		if err != nil || usr == nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication error")
			return
		}
		if usr.Role != "" {
			caller.Role = usr.Role
		}
		if usr.Email != "" {
			caller.Email = usr.Email
		}

		if authCache != nil {
			if err := authCache.Set(ctx, caller.UserID, CachedIdentity{Role: caller.Role, Email: caller.Email}); err != nil {
				logger.Warn("Auth cache write failed", zap.Error(err))
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFromContext returns the identity set by JWTAuthUserMiddleware.
func CallerFromContext(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}
