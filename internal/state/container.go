package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	notedomain "taskflow-backend/internal/note/domain"
	taskdomain "taskflow-backend/internal/task/domain"
	workspacedomain "taskflow-backend/internal/workspace/domain"
	"taskflow-backend/pkg/kvstore"
)

// Container owns the app state. Reads see an immutable snapshot; writes are
// serialised and persisted before they become visible.
type Container struct {
	store kvstore.Store

	mu      sync.RWMutex
	current Snapshot
	encoded map[string][]byte
}

// Open loads every collection from the store. Missing or unreadable keys start empty.
func Open(ctx context.Context, store kvstore.Store) (*Container, error) {
	if store == nil {
		return nil, errors.New("state: store is required")
	}

	snap := Snapshot{
		Workspaces: []workspacedomain.Workspace{},
		Tasks:      []taskdomain.Task{},
		Notes:      []notedomain.Note{},
		Session:    DefaultSession(),
	}
	load(ctx, store, KeyWorkspaces, &snap.Workspaces)
	load(ctx, store, KeyTasks, &snap.Tasks)
	load(ctx, store, KeyNotes, &snap.Notes)
	load(ctx, store, KeyUser, &snap.User)
	normalize(&snap)

	c := &Container{store: store, current: snap}
	encoded, err := encode(snap)
	if err != nil {
		return nil, err
	}
	c.encoded = encoded

	log.Info().Msgf("[State] Loaded %d workspaces, %d tasks, %d notes", len(snap.Workspaces), len(snap.Tasks), len(snap.Notes))
	return c, nil
}

func load[T any](ctx context.Context, store kvstore.Store, key string, dst *T) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Msgf("[State] Failed to read %s, starting empty", key)
		return
	}
	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Warn().Err(err).Msgf("[State] Corrupt value under %s, starting empty", key)
		return
	}
	*dst = decoded
}

// normalize repairs values that older data may carry: nil slices, unknown colors,
// and completion flags that disagree with status.
func normalize(s *Snapshot) {
	if s.Workspaces == nil {
		s.Workspaces = []workspacedomain.Workspace{}
	}
	if s.Tasks == nil {
		s.Tasks = []taskdomain.Task{}
	}
	if s.Notes == nil {
		s.Notes = []notedomain.Note{}
	}
	for i := range s.Workspaces {
		w := &s.Workspaces[i]
		w.Color = workspacedomain.ParseColor(string(w.Color))
		if w.Members == nil {
			w.Members = []string{}
		}
	}
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if !t.Status.Valid() {
			if t.Completed {
				t.Status = taskdomain.TaskStatusDone
			} else {
				t.Status = taskdomain.TaskStatusTodo
			}
		}
		t.SetStatus(t.Status)
	}
	for i := range s.Notes {
		if s.Notes[i].Items == nil {
			s.Notes[i].Items = []notedomain.NoteItem{}
		}
	}
	if s.User != nil && s.User.Email == "" {
		s.User = nil
	}
}

func encode(s Snapshot) (map[string][]byte, error) {
	values := map[string]any{
		KeyWorkspaces: s.Workspaces,
		KeyTasks:      s.Tasks,
		KeyNotes:      s.Notes,
		KeyUser:       s.User,
	}
	out := make(map[string][]byte, len(values))
	for key, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = raw
	}
	return out, nil
}

// Current returns the latest snapshot. Callers must not mutate it.
func (c *Container) Current() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Update applies fn to a private copy of the state. If fn fails, or the changed
// collections cannot be written in one PutMany, nothing changes.
func (c *Container) Update(ctx context.Context, fn func(*Snapshot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	encoded, err := encode(next)
	if err != nil {
		return err
	}

	changed := make(map[string][]byte)
	for key, raw := range encoded {
		if !bytes.Equal(c.encoded[key], raw) {
			changed[key] = raw
		}
	}
	if len(changed) > 0 {
		if err := c.store.PutMany(ctx, changed); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
	}

	c.current = next
	c.encoded = encoded
	return nil
}
