package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// TaskHandler handles task requests. Every operation is scoped to the
// authenticated user.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created",
		slog.String("user_id", user.ID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /tasks?completed=&limit=&skip=&sortBy=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	query := domain.ParseTaskQuery(r.URL.Query())
	tasks, err := h.taskService.ListTasks(r.Context(), user.ID, query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, taskID, ok := handleUserAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), user.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PATCH /tasks/{id}. The allowlist is checked before the
// task is looked up.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var upd domain.TaskUpdate
	if err := shared.DecodeUpdate(r, domain.TaskUpdatableFields, &upd); err != nil {
		if errors.Is(err, domain.ErrInvalidUpdates) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), user.ID, taskID, upd)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id} and returns the deleted task.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, taskID, ok := handleUserAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.DeleteTask(r.Context(), user.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	log.Debug("task deleted",
		slog.String("user_id", user.ID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}
