package routes

import (
	"time"

	"wayfarer/handlers"
	"wayfarer/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterPublicRoutes registers catalog reads and availability.
func RegisterPublicRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	catalog := r.Group("/api/catalog")
	{
		catalog.GET("/cities", hb.Catalog.ListCitiesHandler)
		catalog.GET("/cities/:id", hb.Catalog.GetCityHandler)
		catalog.GET("/tours", hb.Catalog.ListToursHandler)
		catalog.GET("/tours/:id", hb.Catalog.GetTourHandler)
		catalog.GET("/tours/:id/schedules", hb.Catalog.ListSchedulesHandler)
	}

	r.GET("/api/schedules/:id", hb.Catalog.GetScheduleHandler)
	r.GET("/api/schedules/:id/availability", hb.Booking.AvailabilityHandler)
	r.GET("/api/reviews", hb.Review.ListReviewsHandler)
}

// RegisterWebhookRoute registers the payment webhook. It is authenticated by signature
// and sits outside the per-IP rate limiter.
func RegisterWebhookRoute(r gin.IRouter, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.Payment.WebhookHandler)
}

// RegisterUserRoutes registers endpoints for authenticated travellers.
func RegisterUserRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.JWTAuthUserMiddleware(hb.Issuer, hb.UserRepo, hb.AuthCache))
	{
		api.POST("/bookings", hb.Booking.CreateBookingHandler)
		api.GET("/bookings", hb.Booking.ListBookingsHandler)
		api.GET("/bookings/:id", hb.Booking.GetBookingHandler)
		api.POST("/bookings/:id/cancel", hb.Booking.CancelBookingHandler)
		api.POST("/bookings/:id/checkout", hb.Payment.CheckoutHandler)

		api.POST("/reviews", hb.Review.CreateReviewHandler)
		api.PUT("/reviews/:id", hb.Review.UpdateReviewHandler)
		api.DELETE("/reviews/:id", hb.Review.DeleteReviewHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r gin.IRouter, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.JWTAuthUserMiddleware(hb.Issuer, hb.UserRepo, hb.AuthCache), middleware.RequireAdmin())
	{
		admin.POST("/cities", hb.Catalog.CreateCityHandler)
		admin.PUT("/cities/:id", hb.Catalog.UpdateCityHandler)
		admin.DELETE("/cities/:id", hb.Catalog.DeleteCityHandler)

		admin.POST("/tours", hb.Catalog.CreateTourHandler)
		admin.PUT("/tours/:id", hb.Catalog.UpdateTourHandler)
		admin.DELETE("/tours/:id", hb.Catalog.DeleteTourHandler)

		admin.POST("/schedules", hb.Catalog.CreateScheduleHandler)
		admin.PUT("/schedules/:id", hb.Catalog.UpdateScheduleHandler)
		admin.POST("/schedules/:id/cancel", hb.Catalog.CancelScheduleHandler)
		admin.DELETE("/schedules/:id", hb.Catalog.DeleteScheduleHandler)
		admin.POST("/schedules/:id/reconcile", hb.Booking.ReconcileScheduleHandler)

		admin.GET("/bookings", hb.Booking.ListBookingsHandler)
		admin.PATCH("/bookings/:id/status", hb.Booking.UpdateStatusHandler)
		admin.DELETE("/bookings/:id", hb.Booking.DeleteBookingHandler)
	}
}

// RegisterHealthRoute registers the health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.HealthHandler(hb.Health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RequestMetrics())

	RegisterHealthRoute(r, hb)
	RegisterWebhookRoute(r, hb)

	limited := r.Group("")
	limited.Use(middleware.RateLimitMiddleware(hb.MaxReqsPerMin))
	RegisterPublicRoutes(limited, hb)
	RegisterUserRoutes(limited, hb)
	RegisterAdminRoutes(limited, hb)
}
