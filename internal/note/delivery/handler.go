package delivery

import (
	"net/http"

	"taskflow-backend/internal/httperr"
	"taskflow-backend/internal/note/usecase"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteUsecase usecase.NoteUsecase
}

func NewNoteHandler(noteUsecase usecase.NoteUsecase) *NoteHandler {
	return &NoteHandler{
		noteUsecase: noteUsecase,
	}
}

// GetNotes returns the filtered notes of a workspace
// GET /api/notes?workspaceId=
func (h *NoteHandler) GetNotes(c *gin.Context) {
	notes, err := h.noteUsecase.ListNotes(c.Request.Context(), c.GetString("userID"), c.Query("workspaceId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes, "total": len(notes)})
}

// CreateNote adds a note to the active workspace
// POST /api/notes
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req usecase.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteUsecase.AddNote(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// DeleteNote deletes a note
// DELETE /api/notes/:id
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.noteUsecase.DeleteNote(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
