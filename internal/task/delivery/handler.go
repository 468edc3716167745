package delivery

import (
	"net/http"

	"taskflow-backend/internal/httperr"
	"taskflow-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
	}
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SuggestRequest optionally carries the task texts to analyse
type SuggestRequest struct {
	Tasks []string `json:"tasks"`
}

// GetTasks returns the filtered tasks of a workspace
// GET /api/tasks?workspaceId=
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskUsecase.ListTasks(c.Request.Context(), c.GetString("userID"), c.Query("workspaceId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// CreateTask adds a task to the active workspace
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req usecase.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.AddTask(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ToggleTask flips a task between done and todo
// POST /api/tasks/:id/toggle
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	task, err := h.taskUsecase.ToggleTask(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus updates only the status of a task
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.ChangeStatus(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskUsecase.DeleteTask(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SuggestTasks returns AI-suggested next steps
// POST /api/tasks/suggestions
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	var req SuggestRequest
	// An empty body means "use the active workspace"
	_ = c.ShouldBindJSON(&req)

	suggestions, err := h.taskUsecase.SuggestTasks(c.Request.Context(), c.GetString("userID"), req.Tasks)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// GetAdvice returns a short productivity tip
// GET /api/advice
func (h *TaskHandler) GetAdvice(c *gin.Context) {
	advice, err := h.taskUsecase.Advice(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, advice)
}
