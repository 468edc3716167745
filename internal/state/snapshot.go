package state

import (
	authdomain "taskflow-backend/internal/auth/domain"
	notedomain "taskflow-backend/internal/note/domain"
	taskdomain "taskflow-backend/internal/task/domain"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

// Storage keys, shared with data written by earlier versions of the app.
const (
	KeyWorkspaces = "flow-v17-global-workspaces"
	KeyTasks      = "flow-v17-global-todos"
	KeyNotes      = "flow-v17-global-notes"
	KeyUser       = "flow-v17-user"
	KeyFCMTokens  = "flow-v17-fcm-tokens"
)

// NoWorkspace is the active workspace id meaning "nothing selected" (the dashboard).
const NoWorkspace = ""

type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

func (f FilterMode) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Session is view state. It is never persisted and resets on login, logout
// and deletion of the active workspace.
type Session struct {
	ActiveWorkspaceID string     `json:"activeWorkspaceId"`
	Filter            FilterMode `json:"filter"`
}

func DefaultSession() Session {
	return Session{ActiveWorkspaceID: NoWorkspace, Filter: FilterAll}
}

// Snapshot is one consistent version of everything the app knows.
type Snapshot struct {
	Workspaces []workspacedomain.Workspace
	Tasks      []taskdomain.Task
	Notes      []notedomain.Note
	User       *authdomain.User
	Session    Session
}

// Clone deep-copies the snapshot so a mutation never leaks into the current version.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Workspaces: make([]workspacedomain.Workspace, len(s.Workspaces)),
		Tasks:      make([]taskdomain.Task, len(s.Tasks)),
		Notes:      make([]notedomain.Note, len(s.Notes)),
		Session:    s.Session,
	}
	for i, w := range s.Workspaces {
		out.Workspaces[i] = w.Clone()
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	for i, n := range s.Notes {
		out.Notes[i] = n.Clone()
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// UserEmail returns the signed-in email, or "" when signed out.
func (s Snapshot) UserEmail() string {
	if s.User == nil {
		return ""
	}
	return s.User.Email
}

func (s Snapshot) FindWorkspace(id string) (int, *workspacedomain.Workspace) {
	for i := range s.Workspaces {
		if s.Workspaces[i].ID == id {
			return i, &s.Workspaces[i]
		}
	}
	return -1, nil
}

func (s Snapshot) FindTask(id string) (int, *taskdomain.Task) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i, &s.Tasks[i]
		}
	}
	return -1, nil
}

func (s Snapshot) FindNote(id string) (int, *notedomain.Note) {
	for i := range s.Notes {
		if s.Notes[i].ID == id {
			return i, &s.Notes[i]
		}
	}
	return -1, nil
}

// Actor returns the signed-in user when its id is userID.
func (s Snapshot) Actor(userID string) (*authdomain.User, error) {
	if s.User == nil {
		return nil, authdomain.ErrNotSignedIn
	}
	if s.User.ID != userID {
		return nil, authdomain.ErrUnauthorized
	}
	return s.User, nil
}
