package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	authdomain "taskflow-backend/internal/auth/domain"
	notedomain "taskflow-backend/internal/note/domain"
	"taskflow-backend/internal/state"
	taskdomain "taskflow-backend/internal/task/domain"
	workspacedomain "taskflow-backend/internal/workspace/domain"
)

var emails = []string{"a@x.com", "b@x.com", "c@x.com"}

func workspaceGen() *rapid.Generator[workspacedomain.Workspace] {
	return rapid.Custom(func(t *rapid.T) workspacedomain.Workspace {
		return workspacedomain.Workspace{
			ID:         rapid.StringMatching(`w[0-9]{1,3}`).Draw(t, "id"),
			Name:       rapid.StringMatching(`[A-Za-z ]{1,12}`).Draw(t, "name"),
			Color:      rapid.SampledFrom(workspacedomain.Colors).Draw(t, "color"),
			OwnerEmail: rapid.SampledFrom(emails).Draw(t, "owner"),
			Members:    rapid.SliceOfDistinct(rapid.SampledFrom(emails), func(s string) string { return s }).Draw(t, "members"),
		}
	})
}

func TestVisibleWorkspaces_OwnerOrMemberOnly(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := rapid.SliceOf(workspaceGen()).Draw(t, "workspaces")
		email := rapid.SampledFrom(emails).Draw(t, "email")
		user := &authdomain.User{ID: "u", Email: email}

		visible := VisibleWorkspaces(user, all)

		want := 0
		for _, w := range all {
			isMember := false
			for _, m := range w.Members {
				if m == email {
					isMember = true
				}
			}
			if w.OwnerEmail == email || isMember {
				want++
			}
		}
		if len(visible) != want {
			t.Fatalf("got %d visible workspaces, want %d", len(visible), want)
		}
		for _, w := range visible {
			if !w.VisibleTo(email) {
				t.Fatalf("workspace %s is not visible to %s", w.ID, email)
			}
		}
	})
}

func TestVisibleWorkspaces_SignedOut(t *testing.T) {
	all := []workspacedomain.Workspace{{ID: "w1", OwnerEmail: "a@x.com"}}
	assert.Empty(t, VisibleWorkspaces(nil, all))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 100, Percent(1, 1))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 50, Percent(1, 2))
}

func TestPercent_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 500).Draw(t, "total")
		done := rapid.IntRange(0, total).Draw(t, "done")
		p := Percent(done, total)
		if p < 0 || p > 100 {
			t.Fatalf("Percent(%d, %d) = %d", done, total, p)
		}
		if total > 0 && done == total && p != 100 {
			t.Fatalf("Percent(%d, %d) = %d, want 100", done, total, p)
		}
	})
}

func TestFilterItems(t *testing.T) {
	tasks := []taskdomain.Task{
		{ID: "t1", WorkspaceID: "w1", Completed: true},
		{ID: "t2", WorkspaceID: "w1"},
		{ID: "t3", WorkspaceID: "w2"},
	}
	notes := []notedomain.Note{
		{ID: "n1", WorkspaceID: "w1"},
		{ID: "n2", WorkspaceID: "w2", Completed: true},
	}

	tests := []struct {
		name      string
		activeID  string
		filter    state.FilterMode
		wantTasks []string
		wantNotes []string
	}{
		{"all in w1", "w1", state.FilterAll, []string{"t1", "t2"}, []string{"n1"}},
		{"active in w1", "w1", state.FilterActive, []string{"t2"}, []string{"n1"}},
		{"completed in w1", "w1", state.FilterCompleted, []string{"t1"}, []string{}},
		{"completed in w2", "w2", state.FilterCompleted, []string{}, []string{"n2"}},
		{"unknown filter acts as all", "w2", state.FilterMode("bogus"), []string{"t3"}, []string{"n2"}},
		{"sentinel yields nothing", state.NoWorkspace, state.FilterAll, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTasks, gotNotes := FilterItems(tasks, notes, tt.activeID, tt.filter)
			assert.Equal(t, tt.wantTasks, taskIDs(gotTasks))
			assert.Equal(t, tt.wantNotes, noteIDs(gotNotes))
		})
	}
}

func TestAccessLabel(t *testing.T) {
	w := workspacedomain.Workspace{ID: "w1", OwnerEmail: "alice@x.com", Members: []string{"bob@x.com"}}
	assert.Equal(t, "Owned", AccessLabel(w, "alice@x.com"))
	assert.Equal(t, "Guest of alice", AccessLabel(w, "bob@x.com"))
}

func TestWorkspaceStats(t *testing.T) {
	user := &authdomain.User{Email: "b@x.com"}
	visible := []workspacedomain.Workspace{
		{ID: "w1", Name: "Launch", OwnerEmail: "a@x.com", Members: []string{"b@x.com"}},
		{ID: "w2", Name: "Empty", OwnerEmail: "b@x.com"},
	}
	tasks := []taskdomain.Task{
		{ID: "t1", WorkspaceID: "w1", Completed: true},
		{ID: "t2", WorkspaceID: "w1"},
		{ID: "t3", WorkspaceID: "elsewhere", Completed: true},
	}
	notes := []notedomain.Note{{ID: "n1", WorkspaceID: "w1", Completed: true}}

	stats := WorkspaceStats(visible, tasks, notes, user)
	require.Len(t, stats, 2)

	assert.Equal(t, 3, stats[0].Total)
	assert.Equal(t, 2, stats[0].Done)
	assert.Equal(t, 67, stats[0].Percent)
	assert.False(t, stats[0].IsOwner)
	assert.Equal(t, "Guest of a", stats[0].Access)

	assert.Equal(t, 0, stats[1].Total)
	assert.Equal(t, 0, stats[1].Percent)
	assert.True(t, stats[1].IsOwner)
	assert.Equal(t, "Owned", stats[1].Access)
}

func TestBuildDashboard_NoActiveWorkspace(t *testing.T) {
	snap := state.Snapshot{
		User:       &authdomain.User{ID: "u1", Email: "a@x.com"},
		Workspaces: []workspacedomain.Workspace{{ID: "w1", OwnerEmail: "a@x.com"}},
		Tasks:      []taskdomain.Task{{ID: "t1", WorkspaceID: "w1"}},
		Session:    state.DefaultSession(),
	}

	d := BuildDashboard(snap, time.Now())
	assert.Nil(t, d.ActiveWorkspace)
	assert.Empty(t, d.Tasks)
	assert.Empty(t, d.Notes)
	assert.Len(t, d.Workspaces, 1)
}

func TestBuildDashboard_InvisibleActiveIsIgnored(t *testing.T) {
	snap := state.Snapshot{
		User:       &authdomain.User{ID: "u1", Email: "c@x.com"},
		Workspaces: []workspacedomain.Workspace{{ID: "w1", OwnerEmail: "a@x.com"}},
		Tasks:      []taskdomain.Task{{ID: "t1", WorkspaceID: "w1"}},
		Session:    state.Session{ActiveWorkspaceID: "w1", Filter: state.FilterAll},
	}

	d := BuildDashboard(snap, time.Now())
	assert.Nil(t, d.ActiveWorkspace)
	assert.Empty(t, d.Tasks)
	assert.Empty(t, d.Workspaces)
}

func TestBuildDashboard_AttachesCountdown(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	deadline := taskdomain.NewTimestamp(now.Add(2 * time.Hour))
	snap := state.Snapshot{
		User:       &authdomain.User{ID: "u1", Email: "a@x.com"},
		Workspaces: []workspacedomain.Workspace{{ID: "w1", OwnerEmail: "a@x.com"}},
		Tasks: []taskdomain.Task{
			{ID: "t1", WorkspaceID: "w1", Deadline: &deadline},
			{ID: "t2", WorkspaceID: "w1"},
		},
		Session: state.Session{ActiveWorkspaceID: "w1", Filter: state.FilterAll},
	}

	d := BuildDashboard(snap, now)
	require.NotNil(t, d.ActiveWorkspace)
	require.Len(t, d.Tasks, 2)
	require.NotNil(t, d.Tasks[0].Countdown)
	assert.Equal(t, "2h left", d.Tasks[0].Countdown.Label)
	assert.Nil(t, d.Tasks[1].Countdown)
}

func taskIDs(tasks []taskdomain.Task) []string {
	ids := []string{}
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func noteIDs(notes []notedomain.Note) []string {
	ids := []string{}
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids
}
