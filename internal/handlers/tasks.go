package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tasker/internal/models"
	"tasker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errTaskNotFound  = "task not found"
	errInvalidTaskID = "invalid task id"
	errInvalidBody   = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(ctxRequestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps service errors onto HTTP statuses. Absent and
// foreign tasks produce the same 404 body.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternalServer, logKey, err, kv...)
	}
}

// taskIDParam parses :id, writing a 422 when it is not an integer.
func taskIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errInvalidTaskID})
		return 0, false
	}
	return id, true
}

// bindTask decodes a TaskCreate body, writing a 422 on failure. Field rules
// are checked by the task service.
func bindTask(c *gin.Context) (models.TaskCreate, bool) {
	var in models.TaskCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errInvalidBody + err.Error()})
		return models.TaskCreate{}, false
	}
	return in, true
}

func nonNil(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	return tasks
}

// @Summary      List active tasks
// @Description  Tasks not yet completed, earliest deadline first.
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      401  {object}  map[string]string
// @Router       /tasks [get]
func (h *Handler) listActiveTasks(c *gin.Context) {
	uid := userIDFrom(c)
	tasks, err := h.services.ListActive(c.Request.Context(), uid)
	if err != nil {
		h.respondServiceError(c, "tasks_list_active_failed", err, "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

// @Summary      List completed tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      401  {object}  map[string]string
// @Router       /tasks/completed [get]
func (h *Handler) listCompletedTasks(c *gin.Context) {
	uid := userIDFrom(c)
	tasks, err := h.services.ListCompleted(c.Request.Context(), uid)
	if err != nil {
		h.respondServiceError(c, "tasks_list_completed_failed", err, "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, nonNil(tasks))
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      models.TaskCreate  true  "Task payload"
// @Success      200   {object}  models.Task
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /tasks [post]
func (h *Handler) createTask(c *gin.Context) {
	in, ok := bindTask(c)
	if !ok {
		return
	}
	uid := userIDFrom(c)
	task, err := h.services.CreateTask(c.Request.Context(), uid, in)
	if err != nil {
		h.respondServiceError(c, "task_create_failed", err, "user_id", uid)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Task ID"
// @Param        body  body      models.TaskCreate  true  "Task payload"
// @Success      200   {object}  models.Task
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *Handler) updateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	in, ok := bindTask(c)
	if !ok {
		return
	}
	uid := userIDFrom(c)
	task, err := h.services.UpdateTask(c.Request.Context(), uid, id, in)
	if err != nil {
		h.respondServiceError(c, "task_update_failed", err, "user_id", uid, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Complete task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id}/complete [put]
func (h *Handler) completeTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	uid := userIDFrom(c)
	task, err := h.services.CompleteTask(c.Request.Context(), uid, id)
	if err != nil {
		h.respondServiceError(c, "task_complete_failed", err, "user_id", uid, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete task
// @Tags         tasks
// @Param        id   path      int  true  "Task ID"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	uid := userIDFrom(c)
	if err := h.services.DeleteTask(c.Request.Context(), uid, id); err != nil {
		h.respondServiceError(c, "task_delete_failed", err, "user_id", uid, "task_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}
