package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"taskflow-backend/internal/state"
	"taskflow-backend/internal/workspace/domain"
)

// workspaceRepository implements WorkspaceRepository and SessionRepository
type workspaceRepository struct {
	state *state.Container
}

// NewWorkspaceRepository creates a new instance of workspaceRepository
func NewWorkspaceRepository(container *state.Container) WorkspaceRepository {
	return &workspaceRepository{state: container}
}

// NewSessionRepository creates a SessionRepository over the same container
func NewSessionRepository(container *state.Container) SessionRepository {
	return &workspaceRepository{state: container}
}

func (r *workspaceRepository) Create(ctx context.Context, ws *domain.Workspace, check Check) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		if check != nil {
			if err := check(s); err != nil {
				return err
			}
		}
		s.Workspaces = append(s.Workspaces, ws.Clone())
		s.Session.ActiveWorkspaceID = ws.ID
		return nil
	})
}

func (r *workspaceRepository) FindByID(ctx context.Context, id string) (*domain.Workspace, error) {
	_, ws := r.state.Current().FindWorkspace(id)
	if ws == nil {
		return nil, nil
	}
	out := ws.Clone()
	return &out, nil
}

func (r *workspaceRepository) Update(ctx context.Context, id string, mutate func(snap *state.Snapshot, ws *domain.Workspace) error) (*domain.Workspace, error) {
	var updated domain.Workspace
	err := r.state.Update(ctx, func(s *state.Snapshot) error {
		_, ws := s.FindWorkspace(id)
		if ws == nil {
			return domain.ErrWorkspaceNotFound
		}
		if err := mutate(s, ws); err != nil {
			return err
		}
		updated = ws.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *workspaceRepository) Delete(ctx context.Context, id string, check func(snap *state.Snapshot, ws *domain.Workspace) error) error {
	var removedTasks, removedNotes int
	err := r.state.Update(ctx, func(s *state.Snapshot) error {
		idx, ws := s.FindWorkspace(id)
		if ws == nil {
			return domain.ErrWorkspaceNotFound
		}
		if check != nil {
			if err := check(s, ws); err != nil {
				return err
			}
		}

		s.Workspaces = append(s.Workspaces[:idx], s.Workspaces[idx+1:]...)

		tasks := s.Tasks[:0]
		for _, t := range s.Tasks {
			if t.WorkspaceID != id {
				tasks = append(tasks, t)
			}
		}
		removedTasks = len(s.Tasks) - len(tasks)
		s.Tasks = tasks

		notes := s.Notes[:0]
		for _, n := range s.Notes {
			if n.WorkspaceID != id {
				notes = append(notes, n)
			}
		}
		removedNotes = len(s.Notes) - len(notes)
		s.Notes = notes

		if s.Session.ActiveWorkspaceID == id {
			s.Session.ActiveWorkspaceID = state.NoWorkspace
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete workspace %s: %w", id, err)
	}
	log.Info().Msgf("[Workspace] Deleted %s with %d tasks and %d notes", id, removedTasks, removedNotes)
	return nil
}

func (r *workspaceRepository) Snapshot(ctx context.Context) state.Snapshot {
	return r.state.Current()
}

func (r *workspaceRepository) Session(ctx context.Context) state.Session {
	return r.state.Current().Session
}

func (r *workspaceRepository) SetActive(ctx context.Context, id string, check Check) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		if check != nil {
			if err := check(s); err != nil {
				return err
			}
		}
		s.Session.ActiveWorkspaceID = id
		return nil
	})
}

func (r *workspaceRepository) SetFilter(ctx context.Context, filter state.FilterMode) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		s.Session.Filter = filter
		return nil
	})
}
