package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Task is a single deadline-bearing to-do owned by one user.
type Task struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Deadline    time.Time `json:"deadline"`
	OwnerID     int       `json:"owner_id"`
	IsCompleted bool      `json:"is_completed"`
}

// TaskCreate is the payload accepted when creating or updating a task.
type TaskCreate struct {
	Name     string     `json:"name" validate:"required,max=255"`
	Deadline *Timestamp `json:"deadline" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// UnmarshalJSON matches keys exactly. encoding/json would otherwise fold
// "Name"/"Deadline" onto the lower-case fields.
func (in *TaskCreate) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var out TaskCreate
	for key, val := range raw {
		switch {
		case key == "name":
			if err := json.Unmarshal(val, &out.Name); err != nil {
				return fmt.Errorf("name must be a string: %w", err)
			}
		case key == "deadline":
			if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
				continue
			}
			var ts Timestamp
			if err := json.Unmarshal(val, &ts); err != nil {
				return err
			}
			out.Deadline = &ts
		case strings.EqualFold(key, "name"), strings.EqualFold(key, "deadline"):
			return fmt.Errorf("unknown field %q, use %q", key, strings.ToLower(key))
		}
	}
	*in = out
	return nil
}

// Validate normalizes the payload in place and checks required fields.
func (in *TaskCreate) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &FieldError{Field: strings.ToLower(verrs[0].Field()), Rule: verrs[0].Tag()}
		}
		return err
	}
	if in.Deadline.IsZero() {
		return &FieldError{Field: "deadline", Rule: "required"}
	}
	return nil
}

// DeadlineTime returns the parsed deadline, or the zero time when unset.
func (in TaskCreate) DeadlineTime() time.Time {
	if in.Deadline == nil {
		return time.Time{}
	}
	return in.Deadline.Time
}

// FieldError describes the first field of a payload that failed validation.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return "field '" + e.Field + "' failed on '" + e.Rule + "'"
}
