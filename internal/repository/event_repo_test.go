package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"tasker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMockEventRepo(t *testing.T) (*EventSQLite, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewEventSQLite(db), mock
}

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	// generated id and timestamp are unknown; type must be normalized
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), 4, 12, sqlmock.AnyArg(), "CREATED", "created task").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.TaskEvent{
		UserID:      4,
		TaskID:      12,
		Type:        "  created ",
		Description: "created task",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_KeepsProvidedIDAndTime(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.FixedZone("X", -3600))

	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs("ev-1", 1, 2, "2025-01-01 11:00:00", "DELETED", "gone").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(ctx(t), models.TaskEvent{
		EventID: "ev-1", UserID: 1, TaskID: 2, OccurredAt: at, Type: "DELETED", Description: "gone",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	mock.ExpectExec("INSERT INTO task_events").
		WillReturnError(errors.New("down"))

	err := repo.Append(ctx(t), models.TaskEvent{UserID: 1, Type: "updated", Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

var eventCols = []string{"id", "user_id", "task_id", "occurred_at", "type", "message"}

func TestList_NoFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(eventCols).
		AddRow("1", 5, 1, now, "CREATED", "m1").
		AddRow("2", 5, 1, now.Add(time.Hour), "COMPLETED", "m2")

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + ` WHERE user_id = ? ORDER BY occurred_at ASC, rowid ASC`)).
		WithArgs(5).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 5, time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "1" || got[1].EventID != "2" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	typ := " completed " // will be normalized to COMPLETED

	query := selectEventsSQL + ` WHERE user_id = ? AND occurred_at >= ? AND occurred_at <= ? AND type = ? ORDER BY occurred_at ASC, rowid ASC`

	rows := sqlmock.NewRows(eventCols).
		AddRow("2", 9, 3, from, "COMPLETED", "b").
		AddRow("3", 9, 4, to, "COMPLETED", "c")

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(9, "2025-01-01 11:00:00", "2025-01-01 12:00:00", "COMPLETED").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), 9, from, to, typ)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockEventRepo(t)

	rows := sqlmock.NewRows(eventCols).
		// occurred_at of the wrong type forces a scan error
		AddRow("x", 1, 1, 123, "CREATED", "msg")

	mock.ExpectQuery("SELECT id, user_id, task_id, occurred_at").
		WillReturnRows(rows)

	if _, err := repo.List(ctx(t), 1, time.Time{}, time.Time{}, ""); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestDBTime_Scan(t *testing.T) {
	want := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	for _, src := range []any{want, "2025-06-01 08:30:00", []byte("2025-06-01T08:30:00Z"), "2025-06-01 10:30:00+02:00"} {
		var got time.Time
		if err := (dbTime{dst: &got}).Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if !got.Equal(want) {
			t.Fatalf("Scan(%v) = %v, want %v", src, got, want)
		}
	}

	var got time.Time
	if err := (dbTime{dst: &got}).Scan(nil); err != nil || !got.IsZero() {
		t.Fatalf("Scan(nil) = %v, %v", got, err)
	}
	if err := (dbTime{dst: &got}).Scan(3.14); err == nil {
		t.Fatalf("expected error for float source")
	}
	var _ sql.Scanner = dbTime{}
}
