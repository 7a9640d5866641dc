package handlers

import (
	userRepoPkg "wayfarer/database/repository/user"
	"wayfarer/middleware"
	"wayfarer/utils"
)

// HandlerBundle groups the endpoint handlers and what the auth middleware needs.
type HandlerBundle struct {
	UserRepo      userRepoPkg.UserRepository
	Issuer        *utils.TokenIssuer
	AuthCache     middleware.AuthCache
	Health        *utils.HealthMonitor
	MaxReqsPerMin int

	Booking *BookingHandler
	Payment *PaymentHandler
	Review  *ReviewHandler
	Catalog *CatalogHandler
}
