package repository

import (
	"context"

	"taskflow-backend/internal/state"
	"taskflow-backend/internal/workspace/domain"
)

// Check inspects the state inside a write before anything is changed.
// Returning an error aborts the write.
type Check func(snap *state.Snapshot) error

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// Create appends a workspace and makes it the active one
	Create(ctx context.Context, ws *domain.Workspace, check Check) error

	// FindByID returns nil, nil when the workspace does not exist
	FindByID(ctx context.Context, id string) (*domain.Workspace, error)

	// Update applies mutate to the stored workspace and returns the result
	Update(ctx context.Context, id string, mutate func(snap *state.Snapshot, ws *domain.Workspace) error) (*domain.Workspace, error)

	// Delete removes the workspace with all its tasks and notes in one write
	Delete(ctx context.Context, id string, check func(snap *state.Snapshot, ws *domain.Workspace) error) error

	// Snapshot returns the current state for read models
	Snapshot(ctx context.Context) state.Snapshot
}

// SessionRepository holds the view state of the signed-in actor
type SessionRepository interface {
	Session(ctx context.Context) state.Session
	SetActive(ctx context.Context, id string, check Check) error
	SetFilter(ctx context.Context, filter state.FilterMode) error
}
