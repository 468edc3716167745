// Package view derives read models from a state snapshot. Everything here is
// pure and recomputed per request.
package view

import (
	"math"
	"time"

	authdomain "taskflow-backend/internal/auth/domain"
	notedomain "taskflow-backend/internal/note/domain"
	"taskflow-backend/internal/state"
	taskdomain "taskflow-backend/internal/task/domain"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

// VisibleWorkspaces keeps the workspaces the user owns or belongs to, in stored order.
func VisibleWorkspaces(user *authdomain.User, all []workspacedomain.Workspace) []workspacedomain.Workspace {
	visible := []workspacedomain.Workspace{}
	if user == nil {
		return visible
	}
	for _, w := range all {
		if w.VisibleTo(user.Email) {
			visible = append(visible, w)
		}
	}
	return visible
}

// ActiveWorkspace returns nil for the sentinel id or an id not among visible.
func ActiveWorkspace(visible []workspacedomain.Workspace, activeID string) *workspacedomain.Workspace {
	if activeID == state.NoWorkspace {
		return nil
	}
	for i := range visible {
		if visible[i].ID == activeID {
			w := visible[i]
			return &w
		}
	}
	return nil
}

// ResolveActive is ActiveWorkspace computed straight from a snapshot.
func ResolveActive(snap state.Snapshot) *workspacedomain.Workspace {
	return ActiveWorkspace(VisibleWorkspaces(snap.User, snap.Workspaces), snap.Session.ActiveWorkspaceID)
}

// FilterItems selects the tasks and notes of one workspace that pass filter.
// The sentinel id yields empty lists and unknown filters behave as "all".
func FilterItems(tasks []taskdomain.Task, notes []notedomain.Note, activeID string, filter state.FilterMode) ([]taskdomain.Task, []notedomain.Note) {
	outTasks := []taskdomain.Task{}
	outNotes := []notedomain.Note{}
	if activeID == state.NoWorkspace {
		return outTasks, outNotes
	}
	for _, t := range tasks {
		if t.WorkspaceID == activeID && passes(t.Completed, filter) {
			outTasks = append(outTasks, t)
		}
	}
	for _, n := range notes {
		if n.WorkspaceID == activeID && passes(n.Completed, filter) {
			outNotes = append(outNotes, n)
		}
	}
	return outTasks, outNotes
}

func passes(completed bool, filter state.FilterMode) bool {
	switch filter {
	case state.FilterActive:
		return !completed
	case state.FilterCompleted:
		return completed
	default:
		return true
	}
}

// WorkspaceStats counts tasks and notes per visible workspace.
func WorkspaceStats(visible []workspacedomain.Workspace, tasks []taskdomain.Task, notes []notedomain.Note, user *authdomain.User) []workspacedomain.Stats {
	type counts struct{ total, done int }
	byID := make(map[string]*counts, len(visible))
	for _, w := range visible {
		byID[w.ID] = &counts{}
	}
	for _, t := range tasks {
		if c, ok := byID[t.WorkspaceID]; ok {
			c.total++
			if t.Completed {
				c.done++
			}
		}
	}
	for _, n := range notes {
		if c, ok := byID[n.WorkspaceID]; ok {
			c.total++
			if n.Completed {
				c.done++
			}
		}
	}

	email := ""
	if user != nil {
		email = user.Email
	}

	stats := make([]workspacedomain.Stats, 0, len(visible))
	for _, w := range visible {
		c := byID[w.ID]
		stats = append(stats, workspacedomain.Stats{
			Workspace: w,
			Total:     c.total,
			Done:      c.done,
			Percent:   Percent(c.done, c.total),
			IsOwner:   w.IsOwner(email),
			Access:    AccessLabel(w, email),
		})
	}
	return stats
}

// Percent is round(100*done/total), and 0 for an empty workspace.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

func AccessLabel(w workspacedomain.Workspace, email string) string {
	if w.IsOwner(email) {
		return "Owned"
	}
	return "Guest of " + authdomain.LocalPart(w.OwnerEmail)
}

// TaskView is a task plus its countdown at response time.
type TaskView struct {
	taskdomain.Task
	Countdown *taskdomain.Countdown `json:"countdown,omitempty"`
}

func WithCountdown(tasks []taskdomain.Task, now time.Time) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskView{Task: t, Countdown: t.Countdown(now)})
	}
	return out
}

type Dashboard struct {
	User            *authdomain.User           `json:"user"`
	Workspaces      []workspacedomain.Stats    `json:"workspaces"`
	ActiveWorkspace *workspacedomain.Workspace `json:"activeWorkspace"`
	Filter          state.FilterMode           `json:"filter"`
	Tasks           []TaskView                 `json:"tasks"`
	Notes           []notedomain.Note          `json:"notes"`
}

// BuildDashboard composes everything the main screen shows. Lists stay empty
// while no visible workspace is active.
func BuildDashboard(snap state.Snapshot, now time.Time) Dashboard {
	visible := VisibleWorkspaces(snap.User, snap.Workspaces)
	active := ActiveWorkspace(visible, snap.Session.ActiveWorkspaceID)

	activeID := state.NoWorkspace
	if active != nil {
		activeID = active.ID
	}
	tasks, notes := FilterItems(snap.Tasks, snap.Notes, activeID, snap.Session.Filter)

	filter := snap.Session.Filter
	if !filter.Valid() {
		filter = state.FilterAll
	}

	return Dashboard{
		User:            snap.User,
		Workspaces:      WorkspaceStats(visible, snap.Tasks, snap.Notes, snap.User),
		ActiveWorkspace: active,
		Filter:          filter,
		Tasks:           WithCountdown(tasks, now),
		Notes:           notes,
	}
}
