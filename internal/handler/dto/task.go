// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/taskpad/taskpad/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

// UpdateTaskRequest represents a partial update. Absent fields stay untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Patch converts the request into a domain patch.
func (r UpdateTaskRequest) Patch() model.TaskPatch {
	return model.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToggleResponse carries the completed flag after a toggle.
type ToggleResponse struct {
	Completed bool `json:"completed"`
}

// MessageResponse is a plain informational response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task *model.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of Task models to response DTOs.
func ToTaskListResponse(tasks []*model.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *ToTaskResponse(task)
	}
	return responses
}
