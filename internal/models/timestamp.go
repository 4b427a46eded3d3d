package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Accepted deadline layouts. Layouts without a zone are read as UTC.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04", // <input type="datetime-local">
	"2006-01-02 15:04:05",
}

// Timestamp is a deadline decoded from the lenient formats browsers send.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using the accepted deadline layouts and
// normalizes the result to UTC, truncated to whole seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC().Truncate(time.Second)}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q, expected RFC3339 or YYYY-MM-DDTHH:MM[:SS]", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}
