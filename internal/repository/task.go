package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taskpad/taskpad/internal/model"
)

// ErrTaskNotFound is returned when no task matches both id and owner.
// A task that exists under a different owner is indistinguishable from a
// missing one at this layer; that is what keeps other users' tasks from
// leaking through probe requests.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter defines filters for listing tasks.
type TaskFilter struct {
	Completed *bool
	Skip      int
	Limit     int
}

// CreateTask inserts a new task and returns it with the assigned id.
// The owner is fixed at creation and never updated afterwards.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// ListTasks retrieves tasks for one owner in creation order (id ascending).
// The owner predicate is applied first, then the optional completed filter,
// then skip/limit.
func (r *Repository) ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*model.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
	`
	args := []any{ownerID}
	argIndex := 2

	if filter.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", argIndex)
		args = append(args, *filter.Completed)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY id ASC OFFSET $%d LIMIT $%d", argIndex, argIndex+1)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// GetTaskForOwner retrieves a task by (owner, id).
func (r *Repository) GetTaskForOwner(ctx context.Context, ownerID string, id int64) (*model.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to a task owned by ownerID and returns
// the updated record. Only fields present in the patch are written; updated_at
// is re-stamped regardless. The whole operation is a single UPDATE, so a
// concurrent mutation of the same row cannot interleave.
func (r *Repository) UpdateTask(ctx context.Context, ownerID string, id int64, patch model.TaskPatch) (*model.Task, error) {
	query := `UPDATE tasks SET updated_at = $1`
	args := []any{time.Now().UTC()}
	argIndex := 2

	if patch.Title != nil {
		query += fmt.Sprintf(", title = $%d", argIndex)
		args = append(args, *patch.Title)
		argIndex++
	}
	if patch.Description != nil {
		query += fmt.Sprintf(", description = $%d", argIndex)
		args = append(args, *patch.Description)
		argIndex++
	}
	if patch.Completed != nil {
		query += fmt.Sprintf(", completed = $%d", argIndex)
		args = append(args, *patch.Completed)
		argIndex++
	}

	query += fmt.Sprintf(
		" WHERE id = $%d AND user_id = $%d RETURNING id, user_id, title, description, completed, created_at, updated_at",
		argIndex, argIndex+1,
	)
	args = append(args, id, ownerID)

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ToggleTaskCompleted flips the completed flag of a task owned by ownerID and
// returns the updated record. Flip and re-stamp happen in one statement.
func (r *Repository) ToggleTaskCompleted(ctx context.Context, ownerID string, id int64) (*model.Task, error) {
	query := `
		UPDATE tasks
		SET completed = NOT completed, updated_at = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, completed, created_at, updated_at
	`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerID, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently removes a task owned by ownerID. No tombstone.
func (r *Repository) DeleteTask(ctx context.Context, ownerID string, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanTask scans a single row into a Task model.
func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	return &task, err
}
