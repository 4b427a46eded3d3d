package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasker/internal/models"
	"tasker/internal/repository"
)

// memTaskRepo is an in-memory repository.TaskRepo honoring owner scoping and ordering.
type memTaskRepo struct {
	nextID int
	tasks  []models.Task
	err    error
}

func (m *memTaskRepo) ListByOwner(_ context.Context, ownerID int, completed bool) ([]models.Task, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Task
	for _, t := range m.tasks {
		if t.OwnerID == ownerID && t.IsCompleted == completed {
			out = append(out, t)
		}
	}
	// stable insertion sort by deadline keeps ties in insertion order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Deadline.Before(out[j-1].Deadline); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (m *memTaskRepo) Create(_ context.Context, t models.Task) (models.Task, error) {
	if m.err != nil {
		return models.Task{}, m.err
	}
	m.nextID++
	t.ID = m.nextID
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *memTaskRepo) find(ownerID, taskID int) (int, error) {
	for i, t := range m.tasks {
		if t.ID == taskID && t.OwnerID == ownerID {
			return i, nil
		}
	}
	return -1, repository.ErrTaskNotFound
}

func (m *memTaskRepo) Update(_ context.Context, ownerID, taskID int, name string, deadline time.Time) (models.Task, error) {
	i, err := m.find(ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	m.tasks[i].Name = name
	m.tasks[i].Deadline = deadline
	return m.tasks[i], nil
}

func (m *memTaskRepo) Complete(_ context.Context, ownerID, taskID int) (models.Task, error) {
	i, err := m.find(ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	m.tasks[i].IsCompleted = true
	return m.tasks[i], nil
}

func (m *memTaskRepo) Delete(_ context.Context, ownerID, taskID int) error {
	i, err := m.find(ownerID, taskID)
	if err != nil {
		return err
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

// fakeEventRepo records appended events.
type fakeEventRepo struct {
	appended  []models.TaskEvent
	appendErr error

	gotUserID int
	gotFrom   time.Time
	gotTo     time.Time
	gotType   string
	events    []models.TaskEvent
	listErr   error
	listCalls int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.TaskEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(_ context.Context, userID int, from, to time.Time, typ string) ([]models.TaskEvent, error) {
	f.listCalls++
	f.gotUserID, f.gotFrom, f.gotTo, f.gotType = userID, from, to, typ
	return f.events, f.listErr
}

func input(name string, deadline time.Time) models.TaskCreate {
	return models.TaskCreate{Name: name, Deadline: &models.Timestamp{Time: deadline}}
}

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTaskService_ListActiveOrdersByDeadline(t *testing.T) {
	svc := NewTaskService(&memTaskRepo{}, &fakeEventRepo{}, nil)
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		off  time.Duration
	}{{"T3", 3 * time.Hour}, {"T1", time.Hour}, {"T2", 2 * time.Hour}} {
		if _, err := svc.CreateTask(ctx, 1, input(tc.name, base.Add(tc.off))); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	got, err := svc.ListActive(ctx, 1)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 3 || got[0].Name != "T1" || got[1].Name != "T2" || got[2].Name != "T3" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestTaskService_CreateCompleteMovesBetweenLists(t *testing.T) {
	events := &fakeEventRepo{}
	svc := NewTaskService(&memTaskRepo{}, events, nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, 1, input("  Buy milk  ", base))
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == 0 || created.Name != "Buy milk" || created.OwnerID != 1 || created.IsCompleted {
		t.Fatalf("unexpected created task: %+v", created)
	}

	done, err := svc.CompleteTask(ctx, 1, created.ID)
	if err != nil || !done.IsCompleted {
		t.Fatalf("CompleteTask: %+v, %v", done, err)
	}

	active, _ := svc.ListActive(ctx, 1)
	completed, _ := svc.ListCompleted(ctx, 1)
	if len(active) != 0 || len(completed) != 1 || completed[0].ID != created.ID {
		t.Fatalf("active=%+v completed=%+v", active, completed)
	}

	if len(events.appended) != 2 ||
		events.appended[0].Type != models.EventCreated ||
		events.appended[1].Type != models.EventCompleted {
		t.Fatalf("unexpected activity: %+v", events.appended)
	}
}

func TestTaskService_CreateDeleteRemovesFromBothLists(t *testing.T) {
	svc := NewTaskService(&memTaskRepo{}, &fakeEventRepo{}, nil)
	ctx := context.Background()

	a, _ := svc.CreateTask(ctx, 1, input("a", base))
	b, _ := svc.CreateTask(ctx, 1, input("b", base))
	if _, err := svc.CompleteTask(ctx, 1, b.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	if err := svc.DeleteTask(ctx, 1, a.ID); err != nil {
		t.Fatalf("DeleteTask a: %v", err)
	}
	if err := svc.DeleteTask(ctx, 1, b.ID); err != nil {
		t.Fatalf("DeleteTask b: %v", err)
	}
	active, _ := svc.ListActive(ctx, 1)
	completed, _ := svc.ListCompleted(ctx, 1)
	if len(active)+len(completed) != 0 {
		t.Fatalf("tasks survived delete: %+v %+v", active, completed)
	}
}

func TestTaskService_OtherUsersTasksAreNotFound(t *testing.T) {
	svc := NewTaskService(&memTaskRepo{}, &fakeEventRepo{}, nil)
	ctx := context.Background()
	const alice, bob = 1, 2

	task, _ := svc.CreateTask(ctx, alice, input("secret", base))

	if got, _ := svc.ListActive(ctx, bob); len(got) != 0 {
		t.Fatalf("bob sees alice's tasks: %+v", got)
	}
	if _, err := svc.UpdateTask(ctx, bob, task.ID, input("x", base)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, bob, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteTask: %v", err)
	}
	if err := svc.DeleteTask(ctx, bob, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTask: %v", err)
	}
	// absent ids look exactly the same
	if err := svc.DeleteTask(ctx, bob, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteTask absent: %v", err)
	}

	still, _ := svc.ListActive(ctx, alice)
	if len(still) != 1 || still[0].Name != "secret" {
		t.Fatalf("alice's task was modified: %+v", still)
	}
}

func TestTaskService_UpdateOverwritesNameAndDeadline(t *testing.T) {
	svc := NewTaskService(&memTaskRepo{}, &fakeEventRepo{}, nil)
	ctx := context.Background()

	task, _ := svc.CreateTask(ctx, 1, input("old", base))
	later := base.Add(48 * time.Hour)

	got, err := svc.UpdateTask(ctx, 1, task.ID, input("new", later))
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Name != "new" || !got.Deadline.Equal(later) {
		t.Fatalf("unexpected update: %+v", got)
	}
}

func TestTaskService_ValidationErrors(t *testing.T) {
	repo := &memTaskRepo{}
	svc := NewTaskService(repo, &fakeEventRepo{}, nil)
	ctx := context.Background()

	for _, in := range []models.TaskCreate{
		{Name: "", Deadline: &models.Timestamp{Time: base}},
		{Name: "   ", Deadline: &models.Timestamp{Time: base}},
		{Name: "no deadline"},
	} {
		if _, err := svc.CreateTask(ctx, 1, in); !errors.Is(err, ErrValidation) {
			t.Fatalf("CreateTask(%+v): expected ErrValidation, got %v", in, err)
		}
		if _, err := svc.UpdateTask(ctx, 1, 1, in); !errors.Is(err, ErrValidation) {
			t.Fatalf("UpdateTask(%+v): expected ErrValidation, got %v", in, err)
		}
	}
	if len(repo.tasks) != 0 {
		t.Fatalf("invalid input reached the repository")
	}
}

func TestTaskService_EventFailureDoesNotFailMutation(t *testing.T) {
	svc := NewTaskService(&memTaskRepo{}, &fakeEventRepo{appendErr: errors.New("log down")}, nil)

	if _, err := svc.CreateTask(context.Background(), 1, input("x", base)); err != nil {
		t.Fatalf("CreateTask should succeed despite activity log failure: %v", err)
	}
}

func TestTaskService_RepoErrorsPassThrough(t *testing.T) {
	boom := errors.New("db down")
	svc := NewTaskService(&memTaskRepo{err: boom}, nil, nil)

	if _, err := svc.ListActive(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if _, err := svc.CreateTask(context.Background(), 1, input("x", base)); !errors.Is(err, boom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
