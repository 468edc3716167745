package repository

import (
	"context"

	"taskflow-backend/internal/state"
	"taskflow-backend/internal/task/domain"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

// taskRepository implements TaskRepository on top of the state container
type taskRepository struct {
	state *state.Container
}

// NewTaskRepository creates a new instance of taskRepository
func NewTaskRepository(container *state.Container) TaskRepository {
	return &taskRepository{state: container}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task, check Check) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		if check != nil {
			if err := check(s, task); err != nil {
				return err
			}
		}
		if _, ws := s.FindWorkspace(task.WorkspaceID); ws == nil {
			return workspacedomain.ErrWorkspaceNotFound
		}
		s.Tasks = append([]domain.Task{task.Clone()}, s.Tasks...)
		return nil
	})
}

func (r *taskRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]domain.Task, error) {
	snap := r.state.Current()
	out := []domain.Task{}
	for _, t := range snap.Tasks {
		if t.WorkspaceID == workspaceID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

func (r *taskRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	snap := r.state.Current()
	out := make([]domain.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, mutate Check) (*domain.Task, error) {
	var updated domain.Task
	err := r.state.Update(ctx, func(s *state.Snapshot) error {
		_, t := s.FindTask(id)
		if t == nil {
			return domain.ErrTaskNotFound
		}
		if err := mutate(s, t); err != nil {
			return err
		}
		updated = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string, check Check) error {
	return r.state.Update(ctx, func(s *state.Snapshot) error {
		idx, t := s.FindTask(id)
		if t == nil {
			return domain.ErrTaskNotFound
		}
		if check != nil {
			if err := check(s, t); err != nil {
				return err
			}
		}
		s.Tasks = append(s.Tasks[:idx], s.Tasks[idx+1:]...)
		return nil
	})
}

func (r *taskRepository) Snapshot(ctx context.Context) state.Snapshot {
	return r.state.Current()
}
