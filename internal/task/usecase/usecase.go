package usecase

import (
	"context"

	"taskflow-backend/internal/view"
	"taskflow-backend/pkg/ai"
)

// TaskUsecase defines the interface for task business logic.
// userID is the id of the signed-in actor making the request.
type TaskUsecase interface {
	// AddTask creates a task in the active workspace
	AddTask(ctx context.Context, userID string, req CreateTaskRequest) (*view.TaskView, error)

	// ToggleTask flips completion, moving the task to done or back to todo
	ToggleTask(ctx context.Context, userID, taskID string) (*view.TaskView, error)

	// ChangeStatus sets the workflow status and recomputes completion
	ChangeStatus(ctx context.Context, userID, taskID, status string) (*view.TaskView, error)

	// DeleteTask deletes a task
	DeleteTask(ctx context.Context, userID, taskID string) error

	// ListTasks returns the filtered tasks of a visible workspace.
	// An empty workspaceID uses the active workspace.
	ListTasks(ctx context.Context, userID, workspaceID string) ([]view.TaskView, error)

	// SuggestTasks asks the advisor for next steps. When texts is empty the
	// active workspace's task texts are used.
	SuggestTasks(ctx context.Context, userID string, texts []string) ([]string, error)

	// Advice asks the advisor for a tip based on the remaining task count
	Advice(ctx context.Context, userID string) (ai.Advice, error)

	// SetAdvisor sets the AI advisor
	SetAdvisor(advisor ai.Advisor)
}

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Text       string `json:"text" binding:"required"`
	Status     string `json:"status"`
	Deadline   string `json:"deadline"` // YYYY-MM-DD or RFC3339
	AssignedTo string `json:"assignedTo"`
}
