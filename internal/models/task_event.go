package models

import "time"

// Task activity types.
const (
	EventCreated   = "CREATED"
	EventUpdated   = "UPDATED"
	EventCompleted = "COMPLETED"
	EventDeleted   = "DELETED"
)

// TaskEvent is a single entry of a user's task activity log.
type TaskEvent struct {
	EventID     string    `json:"event_id"`
	UserID      int       `json:"user_id"`
	TaskID      int       `json:"task_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // CREATED | UPDATED | COMPLETED | DELETED
	Description string    `json:"description"` // human-readable
}
