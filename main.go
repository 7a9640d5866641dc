package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfarer/config"
	"wayfarer/cron"
	"wayfarer/database"
	bookingRepo "wayfarer/database/repository/booking"
	catalogRepo "wayfarer/database/repository/catalog"
	reviewRepo "wayfarer/database/repository/review"
	scheduleRepo "wayfarer/database/repository/schedule"
	userRepoPkg "wayfarer/database/repository/user"
	"wayfarer/handlers"
	"wayfarer/middleware"
	"wayfarer/routes"
	"wayfarer/services/booking"
	"wayfarer/services/catalog"
	"wayfarer/services/payment"
	"wayfarer/services/review"
	"wayfarer/services/tasks"
	"wayfarer/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB(logger)
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	schedules := scheduleRepo.NewMongoScheduleRepo(db)
	catalogStore := catalogRepo.NewMongoCatalogRepo(db)
	reviews := reviewRepo.NewMongoReviewRepo(db)

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	for _, repo := range []indexer{userRepo, bookings, schedules, catalogStore, reviews} {
		if err := repo.EnsureIndexes(idxCtx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.Error(err))
		}
	}
	idxCancel()

	tx := database.NewMongoTransactor(database.MongoClient)

	// services.
	bookingService := booking.NewBookingService(bookings, schedules, catalogStore, userRepo, tx, logger.Named("booking"))
	catalogService := catalog.NewCatalogService(catalogStore, schedules, bookings, config.AppConfig.DefaultScheduleCapacity, logger.Named("catalog"))
	reviewService := review.NewReviewService(reviews, catalogStore, tx, logger.Named("review"))
	paymentService := payment.NewPaymentService(
		bookings,
		catalogStore,
		userRepo,
		payment.NewStripeGateway(config.AppConfig.StripeKey),
		payment.NewStripeVerifier(config.AppConfig.StripeWebhookSecret),
		payment.NewRedisDeduper(utils.GetCacheClient()),
		payment.CheckoutOptions{
			Currency:   config.AppConfig.PaymentCurrency,
			SuccessURL: config.AppConfig.CheckoutSuccessURL,
			CancelURL:  config.AppConfig.CheckoutCancelURL,
		},
		logger.Named("payment"),
	)

	// background ledger maintenance.
	redisOpt := cron.RedisOpt()
	worker := cron.NewWorker(redisOpt, bookingService, logger.Named("worker"))
	if err := worker.Start(config.AppConfig.ReconcileCron, config.AppConfig.CompletionCron); err != nil {
		logger.Fatal("main: failed to start worker", zap.Error(err))
	}
	enqueuer := tasks.NewAsynqEnqueuer(asynq.NewClient(redisOpt))

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	health := utils.NewHealthMonitor(database.MongoClient, utils.GetCacheClient(), utils.GetAuthCacheClient())
	health.Start(monitorCtx, 30*time.Second)

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:      userRepo,
		Issuer:        utils.NewTokenIssuer(config.AppConfig.JWTSecret),
		AuthCache:     middleware.NewRedisAuthCache(utils.GetAuthCacheClient()),
		Health:        health,
		MaxReqsPerMin: config.AppConfig.MaxRequestsPerMin,

		Booking: handlers.NewBookingHandler(bookingService, enqueuer, logger.Named("http")),
		Payment: handlers.NewPaymentHandler(paymentService, logger.Named("http")),
		Review:  handlers.NewReviewHandler(reviewService, logger.Named("http")),
		Catalog: handlers.NewCatalogHandler(catalogService, logger.Named("http")),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	stopMonitor()
	worker.Shutdown()
	if err := enqueuer.Close(); err != nil {
		logger.Warn("main: closing task client", zap.Error(err))
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: disconnecting mongo", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
