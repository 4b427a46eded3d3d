package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tasker/internal/models"
)

type TaskSQLite struct {
	db *sql.DB
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{db: db}
}

var _ TaskRepo = (*TaskSQLite)(nil)

const (
	taskColumns = `id, name, deadline, owner_id, is_completed`

	listTasksSQL = `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = ? AND is_completed = ?
		ORDER BY deadline ASC, id ASC`

	selectTaskSQL = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND owner_id = ?`

	insertTaskSQL   = `INSERT INTO tasks (name, deadline, owner_id, is_completed) VALUES (?, ?, ?, ?)`
	updateTaskSQL   = `UPDATE tasks SET name = ?, deadline = ? WHERE id = ? AND owner_id = ?`
	completeTaskSQL = `UPDATE tasks SET is_completed = 1 WHERE id = ? AND owner_id = ?`
	deleteTaskSQL   = `DELETE FROM tasks WHERE id = ? AND owner_id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.Name, dbTime{dst: &t.Deadline}, &t.OwnerID, &t.IsCompleted); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListByOwner returns the owner's tasks with the given completion flag,
// earliest deadline first. Equal deadlines keep insertion order.
func (r *TaskSQLite) ListByOwner(ctx context.Context, ownerID int, completed bool) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, listTasksSQL, ownerID, completed)
	if err != nil {
		return nil, fmt.Errorf("list tasks for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

// Create inserts t and returns it with the generated ID.
func (r *TaskSQLite) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.Deadline = t.Deadline.UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, insertTaskSQL, t.Name, formatTimestamp(t.Deadline), t.OwnerID, t.IsCompleted)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task for owner %d: %w", t.OwnerID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("get last insert id for task: %w", err)
	}
	t.ID = int(id)
	return t, nil
}

// Update overwrites name and deadline of an owned task.
func (r *TaskSQLite) Update(ctx context.Context, ownerID, taskID int, name string, deadline time.Time) (models.Task, error) {
	return r.mutate(ctx, ownerID, taskID, updateTaskSQL, name, formatTimestamp(deadline), taskID, ownerID)
}

// Complete marks an owned task as completed. Completing twice is not an error.
func (r *TaskSQLite) Complete(ctx context.Context, ownerID, taskID int) (models.Task, error) {
	return r.mutate(ctx, ownerID, taskID, completeTaskSQL, taskID, ownerID)
}

// Delete removes an owned task.
func (r *TaskSQLite) Delete(ctx context.Context, ownerID, taskID int) error {
	res, err := r.db.ExecContext(ctx, deleteTaskSQL, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for task %d: %w", taskID, err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// mutate runs an owner-scoped UPDATE and reads the row back in the same transaction.
func (r *TaskSQLite) mutate(ctx context.Context, ownerID, taskID int, stmt string, args ...any) (models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("begin task transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, fmt.Errorf("rows affected for task %d: %w", taskID, err)
	}
	if n == 0 {
		return models.Task{}, ErrTaskNotFound
	}

	t, err := scanTask(tx.QueryRowContext(ctx, selectTaskSQL, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("reload task %d: %w", taskID, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("commit task %d: %w", taskID, err)
	}
	return t, nil
}
