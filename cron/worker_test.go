package cron

import (
	"context"
	"errors"
	"testing"

	"wayfarer/models"
	"wayfarer/services/tasks"
	"wayfarer/utils"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMaintainer struct {
	reconciled []string
	sweeps     int
	fullRuns   int
}

func (f *fakeMaintainer) ReconcileSchedule(_ context.Context, scheduleID string) (*models.Schedule, error) {
	if scheduleID == "missing" {
		return nil, utils.NotFoundError("schedule not found")
	}
	f.reconciled = append(f.reconciled, scheduleID)
	return &models.Schedule{ID: scheduleID, Status: models.ScheduleStatusAvailable}, nil
}

func (f *fakeMaintainer) ReconcileAll(context.Context) (int, error) {
	f.fullRuns++
	return 0, nil
}

func (f *fakeMaintainer) CompletePastBookings(context.Context) (int, error) {
	f.sweeps++
	return 2, nil
}

func TestMuxDispatch(t *testing.T) {
	svc := &fakeMaintainer{}
	mux := NewMux(svc, zap.NewNop())
	ctx := context.Background()

	task, err := tasks.NewReconcileScheduleTask("s1")
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(ctx, task))
	require.NoError(t, mux.ProcessTask(ctx, tasks.NewReconcileAllTask()))
	require.NoError(t, mux.ProcessTask(ctx, tasks.NewCompletePastTask()))

	assert.Equal(t, []string{"s1"}, svc.reconciled)
	assert.Equal(t, 1, svc.fullRuns)
	assert.Equal(t, 1, svc.sweeps)
}

func TestReconcileSkipsRetry(t *testing.T) {
	mux := NewMux(&fakeMaintainer{}, zap.NewNop())
	ctx := context.Background()

	missing, err := tasks.NewReconcileScheduleTask("missing")
	require.NoError(t, err)
	assert.True(t, errors.Is(mux.ProcessTask(ctx, missing), asynq.SkipRetry))

	malformed := asynq.NewTask(tasks.TypeReconcileSchedule, []byte(`{}`))
	assert.True(t, errors.Is(mux.ProcessTask(ctx, malformed), asynq.SkipRetry))
}
