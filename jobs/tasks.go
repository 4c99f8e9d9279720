package jobs

import (
	"context"
	"encoding/json"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPrune removes expired session records.
	TaskSessionPrune = "sessions:prune"
	// TaskAuditPrune drops audit entries past the retention window.
	TaskAuditPrune = "audit:prune"
)

// SessionPruner removes expired session rows.
type SessionPruner interface {
	PruneSessions(ctx context.Context) (int64, error)
}

// AuditPruner drops audit entries older than the retention window.
type AuditPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// AuditPrunePayload configures an audit retention run.
type AuditPrunePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewSessionPruneTask constructs the session prune task.
func NewSessionPruneTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPrune, nil)
}

// NewAuditPruneTask constructs the audit retention task.
func NewAuditPruneTask(payload AuditPrunePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPrune, data), nil
}

// SessionPruneHandler returns an asynq handler bound to the pruner.
func SessionPruneHandler(pruner SessionPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		removed, err := pruner.PruneSessions(ctx)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("pruned expired sessions", slog.Int64("removed", removed))
		}
		return nil
	}
}

// AuditPruneHandler returns an asynq handler bound to the audit pruner.
func AuditPruneHandler(pruner AuditPruner, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload AuditPrunePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.Retention <= 0 {
			return asynq.SkipRetry
		}
		dropped, err := pruner.Prune(ctx, payload.Retention)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("pruned audit entries", slog.Int64("dropped", dropped))
		}
		return nil
	}
}
