package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tasker/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskRepo persists tasks. Every method is scoped to ownerID; rows owned by
// anyone else behave as if they did not exist.
type TaskRepo interface {
	ListByOwner(ctx context.Context, ownerID int, completed bool) ([]models.Task, error)
	Create(ctx context.Context, t models.Task) (models.Task, error)
	Update(ctx context.Context, ownerID, taskID int, name string, deadline time.Time) (models.Task, error)
	Complete(ctx context.Context, ownerID, taskID int) (models.Task, error)
	Delete(ctx context.Context, ownerID, taskID int) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.TaskEvent) error
	List(ctx context.Context, userID int, from, to time.Time, typ string) ([]models.TaskEvent, error)
}

type Repository struct {
	Auth      Authorization
	TaskRepo  TaskRepo
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:      NewUserRepository(db),
		TaskRepo:  NewTaskSQLite(db),
		EventRepo: NewEventSQLite(db),
	}
}

// timestampLayout is how timestamps are stored: UTC text that sorts chronologically.
const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// dbTime scans a TIMESTAMP column whether the driver hands back a
// time.Time or the raw stored text.
type dbTime struct {
	dst *time.Time
}

func (d dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d.dst = time.Time{}
	case time.Time:
		*d.dst = v.UTC()
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (d dbTime) parse(s string) error {
	for _, layout := range []string{timestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}
