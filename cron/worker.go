package cron

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wayfarer/config"
	"wayfarer/models"
	"wayfarer/services/tasks"
	"wayfarer/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// LedgerMaintainer is the booking-side work the worker runs.
type LedgerMaintainer interface {
	ReconcileSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error)
	ReconcileAll(ctx context.Context) (int, error)
	CompletePastBookings(ctx context.Context) (int, error)
}

// Worker processes ledger tasks and registers the periodic ones.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

func NewWorker(redisOpt asynq.RedisConnOpt, svc LedgerMaintainer, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	return &Worker{
		server:    srv,
		scheduler: asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC}),
		mux:       NewMux(svc, logger),
		logger:    logger,
	}
}

// NewMux routes each task type to its handler.
func NewMux(svc LedgerMaintainer, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReconcileSchedule, handleReconcileSchedule(svc, logger))
	mux.HandleFunc(tasks.TypeReconcileAll, handleReconcileAll(svc, logger))
	mux.HandleFunc(tasks.TypeCompletePast, handleCompletePast(svc, logger))
	return mux
}

// Start registers periodic tasks and runs the worker in the background.
func (w *Worker) Start(reconcileSpec, completionSpec string) error {
	if _, err := w.scheduler.Register(reconcileSpec, tasks.NewReconcileAllTask()); err != nil {
		return fmt.Errorf("register reconcile schedule %q: %w", reconcileSpec, err)
	}
	if _, err := w.scheduler.Register(completionSpec, tasks.NewCompletePastTask()); err != nil {
		return fmt.Errorf("register completion schedule %q: %w", completionSpec, err)
	}
	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	go func() {
		w.logger.Info("Starting ledger worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.server.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Ledger worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				w.logger.Fatal("Max retry attempts reached for ledger worker")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func handleReconcileSchedule(svc LedgerMaintainer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseReconcilePayload(task)
		if err != nil {
			logger.Error("Invalid reconcile task", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		schedule, err := svc.ReconcileSchedule(ctx, p.ScheduleID)
		if err != nil {
			if utils.StatusFromError(err) == http.StatusNotFound {
				logger.Warn("Reconcile skipped: schedule missing", zap.String("scheduleID", p.ScheduleID))
				return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
			}
			return err
		}
		logger.Info("Schedule reconciled",
			zap.String("scheduleID", schedule.ID),
			zap.Int("bookedSlots", schedule.BookedSlots),
			zap.String("status", string(schedule.Status)),
		)
		return nil
	}
}

func handleReconcileAll(svc LedgerMaintainer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		drifted, err := svc.ReconcileAll(ctx)
		if err != nil {
			return err
		}
		logger.Info("Ledger reconciliation finished", zap.Int("drifted", drifted))
		return nil
	}
}

func handleCompletePast(svc LedgerMaintainer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		completed, err := svc.CompletePastBookings(ctx)
		if err != nil {
			return err
		}
		logger.Info("Completion sweep finished", zap.Int("completed", completed))
		return nil
	}
}
