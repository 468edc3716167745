package usecase

import (
	"context"

	"taskflow-backend/internal/state"
	"taskflow-backend/internal/view"
	"taskflow-backend/internal/workspace/domain"
	"taskflow-backend/pkg/ai"
)

// WorkspaceUsecase defines the interface for workspace business logic.
// userID is the id of the signed-in actor making the request.
type WorkspaceUsecase interface {
	// CreateWorkspace adds a workspace owned by the actor and selects it
	CreateWorkspace(ctx context.Context, userID string, req CreateWorkspaceRequest) (*domain.Workspace, error)

	// DeleteWorkspace removes an owned workspace with all its tasks and notes
	DeleteWorkspace(ctx context.Context, userID, workspaceID string) error

	// ListWorkspaces returns completion stats for every visible workspace
	ListWorkspaces(ctx context.Context, userID string) ([]domain.Stats, error)

	// GetWorkspace returns one visible workspace with its stats
	GetWorkspace(ctx context.Context, userID, workspaceID string) (*domain.Stats, error)

	// AddMember grants access to an email. An empty workspaceID targets the active workspace.
	AddMember(ctx context.Context, userID, workspaceID, email string) (*MemberResult, error)

	// RemoveMember revokes access. An empty workspaceID targets the active workspace.
	RemoveMember(ctx context.Context, userID, workspaceID, email string) (*domain.Workspace, error)

	// MemberRole asks the advisor for a role suggestion
	MemberRole(ctx context.Context, email string) (ai.MemberRole, error)

	// SetActive selects a visible workspace, or the dashboard with state.NoWorkspace
	SetActive(ctx context.Context, userID, workspaceID string) (state.Session, error)

	// SetFilter changes the completion filter
	SetFilter(ctx context.Context, filter string) (state.Session, error)

	// Dashboard composes the main screen
	Dashboard(ctx context.Context, userID string) (*view.Dashboard, error)

	// Search finds tasks and notes of a visible workspace by fuzzy text match
	Search(ctx context.Context, userID, workspaceID, query string) ([]SearchResult, error)

	// SetAdvisor sets the AI advisor used for member roles
	SetAdvisor(advisor ai.Advisor)
}

type CreateWorkspaceRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type MemberResult struct {
	Workspace *domain.Workspace `json:"workspace"`
	Email     string            `json:"email"`
	Role      ai.MemberRole     `json:"role"`
}

type SearchResult struct {
	Kind        string  `json:"kind"` // "task" or "note"
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	WorkspaceID string  `json:"workspaceId"`
	Completed   bool    `json:"completed"`
	Score       float64 `json:"score"`
}
