package repository

import (
	"context"

	"taskflow-backend/internal/note/domain"
	"taskflow-backend/internal/state"
)

// Check inspects the state inside a write. Returning an error aborts the write.
type Check func(snap *state.Snapshot, note *domain.Note) error

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note, check Check) error
	FindByWorkspace(ctx context.Context, workspaceID string) ([]domain.Note, error)
	Delete(ctx context.Context, id string, check Check) error
	Snapshot(ctx context.Context) state.Snapshot
}
