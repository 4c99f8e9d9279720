package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// TimelineWindow returns a window of entries ordered newest first.
func (r *PGRepository) TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error) {
	query, args := buildTimelineQuery(filters)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.scanEntries(ctx, query, args)
}

// TimelineAll returns every matching entry ordered newest first.
func (r *PGRepository) TimelineAll(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	query, args := buildTimelineQuery(filters)
	query += " ORDER BY occurred_at DESC"
	return r.scanEntries(ctx, query, args)
}

// PruneOlderThan deletes entries recorded before the cutoff.
func (r *PGRepository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audit_logs WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func buildTimelineQuery(filters TimelineFilters) (string, []any) {
	query := `SELECT id, actor_id, action, entity, entity_id, meta, occurred_at FROM audit_logs`
	var clauses []string
	var args []any
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if !filters.From.IsZero() {
		add("occurred_at >= $%d", filters.From)
	}
	if !filters.To.IsZero() {
		add("occurred_at <= $%d", filters.To)
	}
	if filters.ActorID != 0 {
		add("actor_id = $%d", filters.ActorID)
	}
	if entity := strings.TrimSpace(filters.Entity); entity != "" {
		add("entity = $%d", entity)
	}
	if action := strings.TrimSpace(filters.Action); action != "" {
		add("action = $%d", action)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	return query, args
}

func (r *PGRepository) scanEntries(ctx context.Context, query string, args []any) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var meta []byte
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.Entity, &entry.EntityID, &meta, &entry.At); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Meta); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ Repository = (*PGRepository)(nil)
