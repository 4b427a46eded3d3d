package repository

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrTaskNotFound is returned when a task does not exist or belongs to
	// another user. Callers cannot tell the two cases apart.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUsernameTaken is returned when the users.username UNIQUE index rejects an insert.
	ErrUsernameTaken = errors.New("username already taken")
)

// isUniqueViolation reports whether err is SQLite rejecting a row on a UNIQUE index.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
