package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authdomain "taskflow-backend/internal/auth/domain"
	"taskflow-backend/internal/state"
	"taskflow-backend/internal/view"
	"taskflow-backend/internal/workspace/domain"
	"taskflow-backend/internal/workspace/repository"
	"taskflow-backend/pkg/ai"
	"taskflow-backend/pkg/fuzzy"
)

// workspaceUsecase implements WorkspaceUsecase interface
type workspaceUsecase struct {
	workspaceRepo repository.WorkspaceRepository
	sessionRepo   repository.SessionRepository
	advisor       ai.Advisor
	now           func() time.Time
}

// NewWorkspaceUsecase creates a new instance of workspaceUsecase
func NewWorkspaceUsecase(workspaceRepo repository.WorkspaceRepository, sessionRepo repository.SessionRepository) WorkspaceUsecase {
	return &workspaceUsecase{
		workspaceRepo: workspaceRepo,
		sessionRepo:   sessionRepo,
		advisor:       ai.NewFallbackAdvisor(nil, 0),
		now:           time.Now,
	}
}

func (u *workspaceUsecase) SetAdvisor(advisor ai.Advisor) {
	if advisor != nil {
		u.advisor = advisor
	}
}

func (u *workspaceUsecase) CreateWorkspace(ctx context.Context, userID string, req CreateWorkspaceRequest) (*domain.Workspace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	ws := &domain.Workspace{
		ID:      uuid.New().String(),
		Name:    name,
		Color:   domain.ParseColor(req.Color),
		Members: []string{},
	}

	err := u.workspaceRepo.Create(ctx, ws, func(s *state.Snapshot) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		ws.OwnerEmail = actor.Email
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("[Workspace] %s created %q", ws.OwnerEmail, ws.Name)
	return ws, nil
}

func (u *workspaceUsecase) DeleteWorkspace(ctx context.Context, userID, workspaceID string) error {
	return u.workspaceRepo.Delete(ctx, workspaceID, func(s *state.Snapshot, ws *domain.Workspace) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		if !ws.IsOwner(actor.Email) {
			return domain.ErrNotOwner
		}
		return nil
	})
}

func (u *workspaceUsecase) ListWorkspaces(ctx context.Context, userID string) ([]domain.Stats, error) {
	snap := u.workspaceRepo.Snapshot(ctx)
	actor, err := snap.Actor(userID)
	if err != nil {
		return nil, err
	}
	visible := view.VisibleWorkspaces(actor, snap.Workspaces)
	return view.WorkspaceStats(visible, snap.Tasks, snap.Notes, actor), nil
}

func (u *workspaceUsecase) GetWorkspace(ctx context.Context, userID, workspaceID string) (*domain.Stats, error) {
	stats, err := u.ListWorkspaces(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		if stats[i].Workspace.ID == workspaceID {
			return &stats[i], nil
		}
	}
	return nil, domain.ErrWorkspaceNotFound
}

// resolveTarget picks the explicit workspace id or, when empty, the active one.
func resolveTarget(s *state.Snapshot, workspaceID string) (string, error) {
	if workspaceID != "" {
		return workspaceID, nil
	}
	active := view.ResolveActive(*s)
	if active == nil {
		return "", domain.ErrNoActiveWorkspace
	}
	return active.ID, nil
}

func (u *workspaceUsecase) targetID(ctx context.Context, workspaceID string) (string, error) {
	snap := u.workspaceRepo.Snapshot(ctx)
	return resolveTarget(&snap, workspaceID)
}

func (u *workspaceUsecase) AddMember(ctx context.Context, userID, workspaceID, email string) (*MemberResult, error) {
	targetID, err := u.targetID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var member string
	updated, err := u.workspaceRepo.Update(ctx, targetID, func(s *state.Snapshot, ws *domain.Workspace) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		if !ws.VisibleTo(actor.Email) {
			return domain.ErrWorkspaceNotFound
		}
		if !ws.IsOwner(actor.Email) {
			return domain.ErrNotOwner
		}
		member, err = authdomain.NormalizeEmail(email)
		if err != nil {
			return err
		}
		if ws.IsOwner(member) || ws.HasMember(member) {
			return domain.ErrAlreadyMember
		}
		ws.Members = append(ws.Members, member)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("[Workspace] Added %s to %q", member, updated.Name)

	// Not under the state lock.
	role, _ := u.advisor.GenerateMemberRole(ctx, member)

	return &MemberResult{Workspace: updated, Email: member, Role: role}, nil
}

func (u *workspaceUsecase) RemoveMember(ctx context.Context, userID, workspaceID, email string) (*domain.Workspace, error) {
	targetID, err := u.targetID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	member := strings.ToLower(strings.TrimSpace(email))
	return u.workspaceRepo.Update(ctx, targetID, func(s *state.Snapshot, ws *domain.Workspace) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		if !ws.VisibleTo(actor.Email) {
			return domain.ErrWorkspaceNotFound
		}
		if !ws.IsOwner(actor.Email) {
			return domain.ErrNotOwner
		}
		members := ws.Members[:0]
		for _, m := range ws.Members {
			if m != member {
				members = append(members, m)
			}
		}
		ws.Members = members
		return nil
	})
}

func (u *workspaceUsecase) MemberRole(ctx context.Context, email string) (ai.MemberRole, error) {
	member, err := authdomain.NormalizeEmail(email)
	if err != nil {
		return ai.MemberRole{}, err
	}
	return u.advisor.GenerateMemberRole(ctx, member)
}

func (u *workspaceUsecase) SetActive(ctx context.Context, userID, workspaceID string) (state.Session, error) {
	err := u.sessionRepo.SetActive(ctx, workspaceID, func(s *state.Snapshot) error {
		actor, err := s.Actor(userID)
		if err != nil {
			return err
		}
		if workspaceID == state.NoWorkspace {
			return nil
		}
		if view.ActiveWorkspace(view.VisibleWorkspaces(actor, s.Workspaces), workspaceID) == nil {
			return domain.ErrWorkspaceNotFound
		}
		return nil
	})
	if err != nil {
		return state.Session{}, err
	}
	return u.sessionRepo.Session(ctx), nil
}

func (u *workspaceUsecase) SetFilter(ctx context.Context, filter string) (state.Session, error) {
	mode := state.FilterMode(strings.ToLower(strings.TrimSpace(filter)))
	if !mode.Valid() {
		return state.Session{}, fmt.Errorf("%w: %q", domain.ErrInvalidFilter, filter)
	}
	if err := u.sessionRepo.SetFilter(ctx, mode); err != nil {
		return state.Session{}, err
	}
	return u.sessionRepo.Session(ctx), nil
}

func (u *workspaceUsecase) Dashboard(ctx context.Context, userID string) (*view.Dashboard, error) {
	snap := u.workspaceRepo.Snapshot(ctx)
	if _, err := snap.Actor(userID); err != nil {
		return nil, err
	}
	dashboard := view.BuildDashboard(snap, u.now())
	return &dashboard, nil
}

func (u *workspaceUsecase) Search(ctx context.Context, userID, workspaceID, query string) ([]SearchResult, error) {
	snap := u.workspaceRepo.Snapshot(ctx)
	actor, err := snap.Actor(userID)
	if err != nil {
		return nil, err
	}
	if view.ActiveWorkspace(view.VisibleWorkspaces(actor, snap.Workspaces), workspaceID) == nil {
		return nil, domain.ErrWorkspaceNotFound
	}

	query = strings.TrimSpace(query)
	results := []SearchResult{}
	if query == "" {
		return results, nil
	}

	for _, t := range snap.Tasks {
		if t.WorkspaceID != workspaceID {
			continue
		}
		score := fuzzy.Score(query,
			fuzzy.Field{Text: t.Text, Weight: 1},
			fuzzy.Field{Text: t.AssignedTo, Weight: 0.6},
		)
		if score > 0 {
			results = append(results, SearchResult{Kind: "task", ID: t.ID, Title: t.Text, WorkspaceID: t.WorkspaceID, Completed: t.Completed, Score: score})
		}
	}
	for _, n := range snap.Notes {
		if n.WorkspaceID != workspaceID {
			continue
		}
		score := fuzzy.Score(query,
			fuzzy.Field{Text: n.Title, Weight: 1},
			fuzzy.Field{Text: n.Content, Weight: 0.5},
		)
		if score > 0 {
			results = append(results, SearchResult{Kind: "note", ID: n.ID, Title: n.Title, WorkspaceID: n.WorkspaceID, Completed: n.Completed, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
