package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskflow-backend/internal/note/domain"
	"taskflow-backend/internal/note/repository"
	"taskflow-backend/internal/state"
	taskdomain "taskflow-backend/internal/task/domain"
	"taskflow-backend/internal/view"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

type noteUsecase struct {
	noteRepo repository.NoteRepository
	now      func() time.Time
}

func NewNoteUsecase(noteRepo repository.NoteRepository) NoteUsecase {
	return &noteUsecase{
		noteRepo: noteRepo,
		now:      time.Now,
	}
}

func (u *noteUsecase) AddNote(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	note := &domain.Note{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   strings.TrimSpace(req.Content),
		Items:     []domain.NoteItem{},
		Completed: false,
		Status:    taskdomain.TaskStatusTodo,
		CreatedAt: taskdomain.NewTimestamp(u.now()),
	}

	err := u.noteRepo.Create(ctx, note, func(s *state.Snapshot, n *domain.Note) error {
		if _, err := s.Actor(userID); err != nil {
			return err
		}
		active := view.ResolveActive(*s)
		if active == nil {
			return workspacedomain.ErrNoActiveWorkspace
		}
		n.WorkspaceID = active.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (u *noteUsecase) DeleteNote(ctx context.Context, userID, noteID string) error {
	return u.noteRepo.Delete(ctx, noteID, func(s *state.Snapshot, n *domain.Note) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		_, ws := s.FindWorkspace(n.WorkspaceID)
		if ws == nil || !ws.VisibleTo(actor.Email) {
			return domain.ErrNoteNotFound
		}
		return nil
	})
}

func (u *noteUsecase) ListNotes(ctx context.Context, userID, workspaceID string) ([]domain.Note, error) {
	snap := u.noteRepo.Snapshot(ctx)
	actor, err := snap.Actor(userID)
	if err != nil {
		return nil, err
	}
	if workspaceID == "" {
		workspaceID = snap.Session.ActiveWorkspaceID
		if workspaceID == state.NoWorkspace {
			return nil, workspacedomain.ErrNoActiveWorkspace
		}
	}
	if view.ActiveWorkspace(view.VisibleWorkspaces(actor, snap.Workspaces), workspaceID) == nil {
		return nil, workspacedomain.ErrWorkspaceNotFound
	}
	notes, err := u.noteRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	_, notes = view.FilterItems(nil, notes, workspaceID, snap.Session.Filter)
	return notes, nil
}
