package repository

import (
	"context"

	"taskflow-backend/internal/note/domain"
	"taskflow-backend/internal/state"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

type noteRepository struct {
	state *state.Container
}

func NewNoteRepository(container *state.Container) NoteRepository {
	return &noteRepository{state: container}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note, check Check) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		if check != nil {
			if err := check(s, note); err != nil {
				return err
			}
		}
		if _, ws := s.FindWorkspace(note.WorkspaceID); ws == nil {
			return workspacedomain.ErrWorkspaceNotFound
		}
		s.Notes = append([]domain.Note{note.Clone()}, s.Notes...)
		return nil
	})
}

func (r *noteRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]domain.Note, error) {
	out := []domain.Note{}
	for _, n := range r.state.Current().Notes {
		if n.WorkspaceID == workspaceID {
			out = append(out, n.Clone())
		}
	}
	return out, nil
}

func (r *noteRepository) Delete(ctx context.Context, id string, check Check) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		idx, n := s.FindNote(id)
		if n == nil {
			return domain.ErrNoteNotFound
		}
		if check != nil {
			if err := check(s, n); err != nil {
				return err
			}
		}
		s.Notes = append(s.Notes[:idx], s.Notes[idx+1:]...)
		return nil
	})
}

func (r *noteRepository) Snapshot(ctx context.Context) state.Snapshot {
	return r.state.Current()
}
