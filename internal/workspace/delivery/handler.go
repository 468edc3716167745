package delivery

import (
	"net/http"

	"taskflow-backend/internal/httperr"
	"taskflow-backend/internal/workspace/usecase"

	"github.com/gin-gonic/gin"
)

// WorkspaceHandler handles workspace, membership and session requests
type WorkspaceHandler struct {
	workspaceUsecase usecase.WorkspaceUsecase
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceUsecase usecase.WorkspaceUsecase) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceUsecase: workspaceUsecase,
	}
}

type memberRequest struct {
	Email string `json:"email" binding:"required"`
}

type activeRequest struct {
	WorkspaceID string `json:"workspaceId"`
}

type filterRequest struct {
	Filter string `json:"filter" binding:"required"`
}

// GetDashboard returns everything the main screen shows
// GET /api/dashboard
func (h *WorkspaceHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.workspaceUsecase.Dashboard(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetWorkspaces returns visible workspaces with completion stats
// GET /api/workspaces
func (h *WorkspaceHandler) GetWorkspaces(c *gin.Context) {
	stats, err := h.workspaceUsecase.ListWorkspaces(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": stats})
}

// GetWorkspace returns a single visible workspace
// GET /api/workspaces/:id
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	stats, err := h.workspaceUsecase.GetWorkspace(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CreateWorkspace creates a workspace owned by the caller and selects it
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req usecase.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := h.workspaceUsecase.CreateWorkspace(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ws)
}

// DeleteWorkspace deletes an owned workspace with its tasks and notes
// DELETE /api/workspaces/:id
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	if err := h.workspaceUsecase.DeleteWorkspace(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted"})
}

// AddMember grants an email access to the workspace
// POST /api/workspaces/:id/members
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.workspaceUsecase.AddMember(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Email)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveMember revokes an email's access
// DELETE /api/workspaces/:id/members/:email
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	ws, err := h.workspaceUsecase.RemoveMember(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Param("email"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ws)
}

// GetMemberRole suggests a role for an email
// GET /api/workspaces/:id/members/role?email=
func (h *WorkspaceHandler) GetMemberRole(c *gin.Context) {
	role, err := h.workspaceUsecase.MemberRole(c.Request.Context(), c.Query("email"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// Search finds tasks and notes by fuzzy text match
// GET /api/workspaces/:id/search?q=
func (h *WorkspaceHandler) Search(c *gin.Context) {
	results, err := h.workspaceUsecase.Search(c.Request.Context(), c.GetString("userID"), c.Param("id"), c.Query("q"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

// SetActive selects a workspace, or the dashboard with an empty id
// PUT /api/session/active
func (h *WorkspaceHandler) SetActive(c *gin.Context) {
	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.workspaceUsecase.SetActive(c.Request.Context(), c.GetString("userID"), req.WorkspaceID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SetFilter changes the completion filter
// PUT /api/session/filter
func (h *WorkspaceHandler) SetFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.workspaceUsecase.SetFilter(c.Request.Context(), req.Filter)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
