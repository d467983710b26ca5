// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskpad/taskpad/internal/metrics"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/repository"
)

// ErrTaskNotFound is returned when no task matches both owner and id.
var ErrTaskNotFound = errors.New("task not found")

// List pagination bounds.
const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// TaskService handles task business logic. Every operation is parameterized
// by the owner identity; there is no path that addresses a task by id alone.
type TaskService struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *repository.Repository, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Completed   bool
}

// CreateTask validates the input and persists a new task for the owner.
// Validation runs before any repository access.
func (s *TaskService) CreateTask(ctx context.Context, ownerID string, input CreateTaskInput) (*model.Task, error) {
	if err := model.ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := model.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.metrics.IncTaskCreated()

	return task, nil
}

// ListTasksInput defines input for listing tasks.
type ListTasksInput struct {
	Completed *bool
	Skip      int
	Limit     int
}

// ListTasks returns the owner's tasks in creation order.
// Skip is floored at 0 and Limit clamped to [1, MaxListLimit].
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, input ListTasksInput) ([]*model.Task, error) {
	if input.Skip < 0 {
		input.Skip = 0
	}
	if input.Limit <= 0 {
		input.Limit = DefaultListLimit
	}
	if input.Limit > MaxListLimit {
		input.Limit = MaxListLimit
	}

	tasks, err := s.repo.ListTasks(ctx, ownerID, repository.TaskFilter{
		Completed: input.Completed,
		Skip:      input.Skip,
		Limit:     input.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask retrieves a single task by (owner, id).
func (s *TaskService) GetTask(ctx context.Context, ownerID string, id int64) (*model.Task, error) {
	task, err := s.repo.GetTaskForOwner(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

// UpdateTask applies a partial update to a task owned by ownerID.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID string, id int64, patch model.TaskPatch) (*model.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	task, err := s.repo.UpdateTask(ctx, ownerID, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.metrics.IncTaskUpdated()

	return task, nil
}

// DeleteTask permanently removes a task owned by ownerID.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID string, id int64) error {
	if err := s.repo.DeleteTask(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	s.metrics.IncTaskDeleted()

	return nil
}

// ToggleTask flips a task's completed flag and returns the updated record.
func (s *TaskService) ToggleTask(ctx context.Context, ownerID string, id int64) (*model.Task, error) {
	task, err := s.repo.ToggleTaskCompleted(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	s.metrics.IncTaskToggled()

	return task, nil
}
