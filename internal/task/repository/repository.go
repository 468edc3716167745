package repository

import (
	"context"

	"taskflow-backend/internal/state"
	"taskflow-backend/internal/task/domain"
)

// Check inspects the state inside a write and may adjust the task before it
// is stored. Returning an error aborts the write.
type Check func(snap *state.Snapshot, task *domain.Task) error

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create prepends a new task so the newest comes first
	Create(ctx context.Context, task *domain.Task, check Check) error

	// FindByWorkspace returns the tasks of one workspace, newest first
	FindByWorkspace(ctx context.Context, workspaceID string) ([]domain.Task, error)

	// FindAll returns every task, newest first
	FindAll(ctx context.Context) ([]domain.Task, error)

	// Update applies mutate to the stored task and returns the result
	Update(ctx context.Context, id string, mutate Check) (*domain.Task, error)

	// Delete removes a task by ID
	Delete(ctx context.Context, id string, check Check) error

	// Snapshot returns the current state for actor and session checks
	Snapshot(ctx context.Context) state.Snapshot
}
