package usecase

import (
	"context"

	"taskflow-backend/internal/note/domain"
)

// NoteUsecase defines the interface for note business logic
type NoteUsecase interface {
	// AddNote creates a note in the active workspace
	AddNote(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error)

	// DeleteNote removes a note from a visible workspace
	DeleteNote(ctx context.Context, userID, noteID string) error

	// ListNotes returns the filtered notes of a visible workspace.
	// An empty workspaceID uses the active workspace.
	ListNotes(ctx context.Context, userID, workspaceID string) ([]domain.Note, error)
}

type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}
