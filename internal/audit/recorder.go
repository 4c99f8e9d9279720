package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Recorder writes records into audit_logs. The record is intent only;
// authorization decisions themselves never depend on it.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record persists the log entry.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if r == nil {
		return errors.New("audit recorder not initialised")
	}
	if entry.Action == "" || entry.Entity == "" || entry.EntityID == "" {
		return errors.New("audit entry requires action/entity/entity_id")
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}
	var at any
	if !entry.At.IsZero() {
		at = entry.At
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`,
		entry.ActorID, entry.Action, entry.Entity, entry.EntityID, metaJSON, at)
	return err
}
