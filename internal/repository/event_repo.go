package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tasker/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

const (
	insertEventSQL  = `INSERT INTO task_events (id, user_id, task_id, occurred_at, type, message) VALUES (?, ?, ?, ?, ?, ?)`
	selectEventsSQL = `SELECT id, user_id, task_id, occurred_at, type, message FROM task_events`
)

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.TaskEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.UserID,
		e.TaskID,
		formatTimestamp(e.OccurredAt),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("insert task event for user %d: %w", e.UserID, err)
	}
	return nil
}

// List returns the user's events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, userID int, from, to time.Time, typ string) ([]models.TaskEvent, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatTimestamp(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatTimestamp(to))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectEventsSQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY occurred_at ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list task events for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.TaskEvent, 0, 64)
	for rows.Next() {
		var ev models.TaskEvent
		if err := rows.Scan(&ev.EventID, &ev.UserID, &ev.TaskID, dbTime{dst: &ev.OccurredAt}, &ev.Type, &ev.Description); err != nil {
			return nil, fmt.Errorf("scan task event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task events: %w", err)
	}
	return out, nil
}
