package service

import (
	"context"
	"time"

	"tasker/internal/logger"
	"tasker/internal/models"
	"tasker/internal/repository"
)

// Authorization covers accounts and the session cookie.
type Authorization interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.Session, error)
	IssueSession(s models.Session) (string, error)
	ParseSession(value string) (models.Session, error)
	RequireLogin(s models.Session) (int, error)
}

// Tasks is the per-user task CRUD contract. Tasks owned by another user are
// reported as ErrNotFound.
type Tasks interface {
	ListActive(ctx context.Context, userID int) ([]models.Task, error)
	ListCompleted(ctx context.Context, userID int) ([]models.Task, error)
	CreateTask(ctx context.Context, userID int, in models.TaskCreate) (models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID int, in models.TaskCreate) (models.Task, error)
	CompleteTask(ctx context.Context, userID, taskID int) (models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int) error
}

// ActivityLog exposes a user's task history with filtering.
type ActivityLog interface {
	ListEvents(ctx context.Context, userID int, f LogFilter) ([]models.TaskEvent, error)
}

type Service struct {
	Authorization
	Tasks
	ActivityLog
}

// Config carries the settings services need from the process configuration.
type Config struct {
	SessionSecret string
	SessionTTL    time.Duration
}

func NewService(repos *repository.Repository, cfg Config, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.SessionSecret, cfg.SessionTTL),
		Tasks:         NewTaskService(repos.TaskRepo, repos.EventRepo, log),
		ActivityLog:   NewEventLogService(repos.EventRepo),
	}
}
