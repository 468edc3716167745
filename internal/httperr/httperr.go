// Package httperr maps domain errors onto HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	authdomain "taskflow-backend/internal/auth/domain"
	notedomain "taskflow-backend/internal/note/domain"
	taskdomain "taskflow-backend/internal/task/domain"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

// Status returns the HTTP status for err. Unknown errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, authdomain.ErrNotSignedIn),
		errors.Is(err, authdomain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, workspacedomain.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, workspacedomain.ErrWorkspaceNotFound),
		errors.Is(err, taskdomain.ErrTaskNotFound),
		errors.Is(err, notedomain.ErrNoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspacedomain.ErrAlreadyMember):
		return http.StatusConflict
	case errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, workspacedomain.ErrEmptyName),
		errors.Is(err, workspacedomain.ErrNoActiveWorkspace),
		errors.Is(err, workspacedomain.ErrInvalidFilter),
		errors.Is(err, taskdomain.ErrInvalidStatus),
		errors.Is(err, taskdomain.ErrEmptyText),
		errors.Is(err, taskdomain.ErrInvalidDeadline),
		errors.Is(err, notedomain.ErrEmptyTitle):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes {"error": "..."} with the mapped status.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msgf("[API] %s %s failed", c.Request.Method, c.FullPath())
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
