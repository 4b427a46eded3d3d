package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tasker/internal/models"
	"tasker/internal/repository"
)

// LogFilter narrows an activity log listing.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CREATED", "UPDATED", "COMPLETED", "DELETED"
}

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From: normalizeToUTC(f.From),
		To:   normalizeToUTC(f.To),
		Type: strings.ToUpper(strings.TrimSpace(f.Type)),
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, errInvalidTimeRange
	}
	return out, nil
}

func (s *EventLogService) ListEvents(ctx context.Context, userID int, f LogFilter) ([]models.TaskEvent, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, errors.Join(ErrValidation, err)
	}
	return s.eventRepo.List(ctx, userID, nf.From, nf.To, nf.Type)
}
