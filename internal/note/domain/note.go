package domain

import (
	"errors"

	taskdomain "taskflow-backend/internal/task/domain"
)

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrEmptyTitle   = errors.New("note title is required")
)

// NoteItem is kept for storage compatibility. Notes are always created with an empty list.
type NoteItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Note struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	Items       []NoteItem            `json:"items"`
	WorkspaceID string                `json:"workspaceId"`
	Completed   bool                  `json:"completed"`
	Status      taskdomain.TaskStatus `json:"status"`
	CreatedAt   taskdomain.Timestamp  `json:"createdAt"`
	Deadline    *taskdomain.Timestamp `json:"deadline,omitempty"`
	AssignedTo  string                `json:"assignedTo,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with n.
func (n Note) Clone() Note {
	n.Items = append([]NoteItem{}, n.Items...)
	if n.Deadline != nil {
		d := *n.Deadline
		n.Deadline = &d
	}
	return n
}
