package service

import (
	"context"
	"errors"
	"fmt"

	"tasker/internal/logger"
	"tasker/internal/models"
	"tasker/internal/repository"
)

type TaskService struct {
	taskRepo  repository.TaskRepo
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewTaskService(taskRepo repository.TaskRepo, eventRepo repository.EventRepo, log *logger.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, eventRepo: eventRepo, log: log}
}

func (s *TaskService) ListActive(ctx context.Context, userID int) ([]models.Task, error) {
	return s.taskRepo.ListByOwner(ctx, userID, false)
}

func (s *TaskService) ListCompleted(ctx context.Context, userID int) ([]models.Task, error) {
	return s.taskRepo.ListByOwner(ctx, userID, true)
}

func (s *TaskService) CreateTask(ctx context.Context, userID int, in models.TaskCreate) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t, err := s.taskRepo.Create(ctx, models.Task{
		Name:     in.Name,
		Deadline: in.DeadlineTime(),
		OwnerID:  userID,
	})
	if err != nil {
		return models.Task{}, err
	}
	s.record(ctx, userID, t.ID, models.EventCreated, fmt.Sprintf("created %q due %s", t.Name, t.Deadline.Format("2006-01-02 15:04")))
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID int, in models.TaskCreate) (models.Task, error) {
	if err := in.Validate(); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	t, err := s.taskRepo.Update(ctx, userID, taskID, in.Name, in.DeadlineTime())
	if err != nil {
		return models.Task{}, mapTaskErr(err)
	}
	s.record(ctx, userID, t.ID, models.EventUpdated, fmt.Sprintf("renamed to %q due %s", t.Name, t.Deadline.Format("2006-01-02 15:04")))
	return t, nil
}

func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID int) (models.Task, error) {
	t, err := s.taskRepo.Complete(ctx, userID, taskID)
	if err != nil {
		return models.Task{}, mapTaskErr(err)
	}
	s.record(ctx, userID, t.ID, models.EventCompleted, fmt.Sprintf("completed %q", t.Name))
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID int) error {
	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		return mapTaskErr(err)
	}
	s.record(ctx, userID, taskID, models.EventDeleted, fmt.Sprintf("deleted task %d", taskID))
	return nil
}

// record appends to the activity log. The task change has already been
// committed, so a failure here is logged and not returned.
func (s *TaskService) record(ctx context.Context, userID, taskID int, typ, desc string) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.Append(ctx, models.TaskEvent{
		UserID:      userID,
		TaskID:      taskID,
		Type:        typ,
		Description: desc,
	})
	if err != nil && s.log != nil {
		s.log.Warnw("task_event_append_failed", "err", err, "user_id", userID, "task_id", taskID, "type", typ)
	}
}

func mapTaskErr(err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return ErrNotFound
	}
	return err
}
