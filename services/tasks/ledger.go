package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeReconcileSchedule = "ledger:reconcile"
	TypeReconcileAll      = "ledger:reconcile_all"
	TypeCompletePast      = "booking:complete_past"
)

type ReconcilePayload struct {
	ScheduleID string `json:"scheduleId"`
}

func NewReconcileScheduleTask(scheduleID string) (*asynq.Task, error) {
	b, err := json.Marshal(ReconcilePayload{ScheduleID: scheduleID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReconcileSchedule, b, asynq.MaxRetry(3), asynq.Timeout(time.Minute)), nil
}

func NewReconcileAllTask() *asynq.Task {
	return asynq.NewTask(TypeReconcileAll, nil, asynq.MaxRetry(1), asynq.Timeout(10*time.Minute))
}

func NewCompletePastTask() *asynq.Task {
	return asynq.NewTask(TypeCompletePast, nil, asynq.MaxRetry(1), asynq.Timeout(10*time.Minute))
}

func ParseReconcilePayload(t *asynq.Task) (ReconcilePayload, error) {
	var p ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	if p.ScheduleID == "" {
		return p, fmt.Errorf("invalid %s payload: missing scheduleId", t.Type())
	}
	return p, nil
}

// Enqueuer hands ledger work to the background worker.
type Enqueuer interface {
	EnqueueReconcile(ctx context.Context, scheduleID string) (string, error)
}

type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

// EnqueueReconcile returns the id of the queued task.
func (e *AsynqEnqueuer) EnqueueReconcile(ctx context.Context, scheduleID string) (string, error) {
	task, err := NewReconcileScheduleTask(scheduleID)
	if err != nil {
		return "", err
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("enqueue reconcile for schedule %s: %w", scheduleID, err)
	}
	return info.ID, nil
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
