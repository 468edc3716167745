package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"taskflow-backend/internal/state"
	"taskflow-backend/internal/task/domain"
	"taskflow-backend/internal/task/repository"
	"taskflow-backend/internal/view"
	workspacedomain "taskflow-backend/internal/workspace/domain"
	"taskflow-backend/pkg/ai"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	advisor  ai.Advisor
	location *time.Location
	now      func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase. Date-only deadlines
// are read as the start of that day in loc.
func NewTaskUsecase(taskRepo repository.TaskRepository, loc *time.Location) TaskUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &taskUsecase{
		taskRepo: taskRepo,
		advisor:  ai.NewFallbackAdvisor(nil, 0),
		location: loc,
		now:      time.Now,
	}
}

func (u *taskUsecase) SetAdvisor(advisor ai.Advisor) {
	if advisor != nil {
		u.advisor = advisor
	}
}

func (u *taskUsecase) withCountdown(t *domain.Task) *view.TaskView {
	return &view.TaskView{Task: *t, Countdown: t.Countdown(u.now())}
}

// visibleTask rejects tasks whose workspace the actor cannot see, reporting
// them as missing.
func visibleTask(userID string) repository.Check {
	return func(s *state.Snapshot, t *domain.Task) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		_, ws := s.FindWorkspace(t.WorkspaceID)
		if ws == nil || !ws.VisibleTo(actor.Email) {
			return domain.ErrTaskNotFound
		}
		return nil
	}
}

func (u *taskUsecase) AddTask(ctx context.Context, userID string, req CreateTaskRequest) (*view.TaskView, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	status := domain.TaskStatusTodo
	if strings.TrimSpace(req.Status) != "" {
		parsed, err := domain.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	deadline, err := domain.ParseDeadline(req.Deadline, u.location)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:         uuid.New().String(),
		Text:       text,
		CreatedAt:  domain.NewTimestamp(u.now()),
		Deadline:   deadline,
		AssignedTo: strings.TrimSpace(req.AssignedTo),
	}
	task.SetStatus(status)

	err = u.taskRepo.Create(ctx, task, func(s *state.Snapshot, t *domain.Task) error {
		if _, err := s.Actor(userID); err != nil {
			return err
		}
		active := view.ResolveActive(*s)
		if active == nil {
			return workspacedomain.ErrNoActiveWorkspace
		}
		t.WorkspaceID = active.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("[Task] Added %s to workspace %s", task.ID, task.WorkspaceID)
	return u.withCountdown(task), nil
}

func (u *taskUsecase) ToggleTask(ctx context.Context, userID, taskID string) (*view.TaskView, error) {
	check := visibleTask(userID)
	task, err := u.taskRepo.Update(ctx, taskID, func(s *state.Snapshot, t *domain.Task) error {
		if err := check(s, t); err != nil {
			return err
		}
		t.Toggle()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.withCountdown(task), nil
}

func (u *taskUsecase) ChangeStatus(ctx context.Context, userID, taskID, status string) (*view.TaskView, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	check := visibleTask(userID)
	task, err := u.taskRepo.Update(ctx, taskID, func(s *state.Snapshot, t *domain.Task) error {
		if err := check(s, t); err != nil {
			return err
		}
		t.SetStatus(parsed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u.withCountdown(task), nil
}

func (u *taskUsecase) DeleteTask(ctx context.Context, userID, taskID string) error {
	return u.taskRepo.Delete(ctx, taskID, visibleTask(userID))
}

// scope resolves the workspace a read refers to: explicit, or the active one.
func scope(snap state.Snapshot, userID, workspaceID string) (*workspacedomain.Workspace, error) {
	actor, err := snap.Actor(userID)
	if err != nil {
		return nil, err
	}
	visible := view.VisibleWorkspaces(actor, snap.Workspaces)
	if workspaceID == "" {
		workspaceID = snap.Session.ActiveWorkspaceID
		if workspaceID == state.NoWorkspace {
			return nil, workspacedomain.ErrNoActiveWorkspace
		}
	}
	ws := view.ActiveWorkspace(visible, workspaceID)
	if ws == nil {
		return nil, workspacedomain.ErrWorkspaceNotFound
	}
	return ws, nil
}

func (u *taskUsecase) ListTasks(ctx context.Context, userID, workspaceID string) ([]view.TaskView, error) {
	snap := u.taskRepo.Snapshot(ctx)
	ws, err := scope(snap, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	tasks, err := u.taskRepo.FindByWorkspace(ctx, ws.ID)
	if err != nil {
		return nil, err
	}
	tasks, _ = view.FilterItems(tasks, nil, ws.ID, snap.Session.Filter)
	return view.WithCountdown(tasks, u.now()), nil
}

func (u *taskUsecase) SuggestTasks(ctx context.Context, userID string, texts []string) ([]string, error) {
	snap := u.taskRepo.Snapshot(ctx)
	if len(texts) == 0 {
		ws, err := scope(snap, userID, "")
		if err != nil {
			return nil, err
		}
		tasks, err := u.taskRepo.FindByWorkspace(ctx, ws.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			texts = append(texts, t.Text)
		}
	} else if _, err := snap.Actor(userID); err != nil {
		return nil, err
	}

	return u.advisor.SuggestTasks(ctx, texts)
}

// Advice counts incomplete tasks in the active workspace, or across all
// visible workspaces while the dashboard is shown.
func (u *taskUsecase) Advice(ctx context.Context, userID string) (ai.Advice, error) {
	snap := u.taskRepo.Snapshot(ctx)
	actor, err := snap.Actor(userID)
	if err != nil {
		return ai.Advice{}, err
	}
	tasks, err := u.taskRepo.FindAll(ctx)
	if err != nil {
		return ai.Advice{}, err
	}

	inScope := make(map[string]bool)
	if active := view.ResolveActive(snap); active != nil {
		inScope[active.ID] = true
	} else {
		for _, ws := range view.VisibleWorkspaces(actor, snap.Workspaces) {
			inScope[ws.ID] = true
		}
	}

	remaining := 0
	for _, t := range tasks {
		if inScope[t.WorkspaceID] && !t.Completed {
			remaining++
		}
	}

	return u.advisor.GetAdvice(ctx, remaining)
}
