package handlers

import (
	"context"
	"net/http"

	"tasker/internal/models"
	"tasker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginSession models.Session
	loginErr     error
	issueValue   string
	issueErr     error
	parsed       models.Session
	parseErr     error

	lastRegisterUsername string
	lastLoginUsername    string
	lastLoginPassword    string
	lastParsed           string
}

func (m *mockAuth) Register(_ context.Context, username, password string) (models.User, error) {
	m.lastRegisterUsername = username
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (models.Session, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginSession, m.loginErr
}

func (m *mockAuth) IssueSession(models.Session) (string, error) {
	return m.issueValue, m.issueErr
}

func (m *mockAuth) ParseSession(value string) (models.Session, error) {
	m.lastParsed = value
	return m.parsed, m.parseErr
}

func (m *mockAuth) RequireLogin(s models.Session) (int, error) {
	if !s.Authenticated() {
		return 0, service.ErrUnauthenticated
	}
	return s.UserID, nil
}

type mockTasks struct {
	active    []models.Task
	completed []models.Task
	task      models.Task
	err       error

	lastUserID int
	lastTaskID int
	lastInput  models.TaskCreate
	calls      int
}

func (m *mockTasks) ListActive(_ context.Context, userID int) ([]models.Task, error) {
	m.lastUserID = userID
	m.calls++
	return m.active, m.err
}

func (m *mockTasks) ListCompleted(_ context.Context, userID int) ([]models.Task, error) {
	m.lastUserID = userID
	m.calls++
	return m.completed, m.err
}

func (m *mockTasks) CreateTask(_ context.Context, userID int, in models.TaskCreate) (models.Task, error) {
	m.lastUserID, m.lastInput = userID, in
	m.calls++
	return m.task, m.err
}

func (m *mockTasks) UpdateTask(_ context.Context, userID, taskID int, in models.TaskCreate) (models.Task, error) {
	m.lastUserID, m.lastTaskID, m.lastInput = userID, taskID, in
	m.calls++
	return m.task, m.err
}

func (m *mockTasks) CompleteTask(_ context.Context, userID, taskID int) (models.Task, error) {
	m.lastUserID, m.lastTaskID = userID, taskID
	m.calls++
	return m.task, m.err
}

func (m *mockTasks) DeleteTask(_ context.Context, userID, taskID int) error {
	m.lastUserID, m.lastTaskID = userID, taskID
	m.calls++
	return m.err
}

type mockActivity struct {
	resp     []models.TaskEvent
	err      error
	lastUser int
	lastF    service.LogFilter
}

func (m *mockActivity) ListEvents(_ context.Context, userID int, f service.LogFilter) ([]models.TaskEvent, error) {
	m.lastUser = userID
	m.lastF = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

// loggedIn returns an auth mock whose every cookie decodes to the given user.
func loggedIn(userID int, username string) *mockAuth {
	return &mockAuth{parsed: models.Session{UserID: userID, Username: username}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, Options{})
	return h.InitRoutes()
}

func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: value}
}
