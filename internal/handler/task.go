package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskpad/taskpad/internal/handler/dto"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
//
// Every route it serves is mounted behind the Auth and RequireOwner
// middleware, so by the time a method runs the user_id route parameter has
// already been proven equal to the token identity. The handlers still scope
// every service call by that owner; no call addresses a task by id alone.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/{user_id}/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user_id")
	query := r.URL.Query()

	input := service.ListTasksInput{}

	if s := query.Get("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			input.Skip = parsed
		}
	}
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			input.Limit = parsed
		}
	}
	if c := query.Get("completed"); c != "" {
		if parsed, err := strconv.ParseBool(c); err == nil {
			input.Completed = &parsed
		}
	}

	tasks, err := h.svc.ListTasks(r.Context(), owner, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(tasks))
}

// Create handles POST /api/{user_id}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user_id")

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.svc.CreateTask(r.Context(), owner, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_created",
		"task_id", task.ID,
		"user_id", owner,
	)

	writeJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// Get handles GET /api/{user_id}/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user_id")
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.svc.GetTask(r.Context(), owner, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// Update handles PUT /api/{user_id}/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user_id")
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.svc.UpdateTask(r.Context(), owner, id, req.Patch())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_updated",
		"task_id", task.ID,
		"user_id", owner,
	)

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// Delete handles DELETE /api/{user_id}/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user_id")
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteTask(r.Context(), owner, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_deleted",
		"task_id", id,
		"user_id", owner,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// ToggleComplete handles PATCH /api/{user_id}/tasks/{id}/complete.
func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "user_id")
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.svc.ToggleTask(r.Context(), owner, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToggleResponse{Completed: task.Completed})
}

// taskID parses the numeric id route parameter. Writes the error response
// and returns false when the parameter is not a positive integer.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Task ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *TaskHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	case errors.Is(err, model.ErrTitleRequired),
		errors.Is(err, model.ErrTitleTooLong),
		errors.Is(err, model.ErrDescriptionTooLong):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
