package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrEmptyText       = errors.New("task text is required")
	ErrInvalidDeadline = errors.New("invalid deadline")
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

var Statuses = []TaskStatus{TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone}

func (s TaskStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Timestamp is a point in time stored as epoch milliseconds.
type Timestamp int64

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// Task is a to-do item inside a workspace. Completed always equals Status == done.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	WorkspaceID string     `json:"workspaceId"`
	Completed   bool       `json:"completed"`
	Status      TaskStatus `json:"status"`
	CreatedAt   Timestamp  `json:"createdAt"`
	Deadline    *Timestamp `json:"deadline,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
}

func (t *Task) SetStatus(s TaskStatus) {
	t.Status = s
	t.Completed = s == TaskStatusDone
}

// Toggle flips completion, moving the task to done or back to todo.
func (t *Task) Toggle() {
	if t.Completed {
		t.SetStatus(TaskStatusTodo)
		return
	}
	t.SetStatus(TaskStatusDone)
}

// Countdown returns nil when the task has no deadline.
func (t *Task) Countdown(now time.Time) *Countdown {
	if t.Deadline == nil {
		return nil
	}
	c := NewCountdown(t.Deadline.Time(), now)
	return &c
}

type UrgencyLevel string

const (
	UrgencyOverdue UrgencyLevel = "overdue"
	UrgencyToday   UrgencyLevel = "today"
	UrgencySoon    UrgencyLevel = "soon"
	UrgencyRoutine UrgencyLevel = "routine"
)

type Countdown struct {
	Label  string       `json:"label"`
	Urgent bool         `json:"urgent"`
	Level  UrgencyLevel `json:"level"`
}

const day = 24 * time.Hour

func NewCountdown(deadline, now time.Time) Countdown {
	diff := deadline.Sub(now)
	if diff < 0 {
		return Countdown{Label: "OVERDUE", Urgent: true, Level: UrgencyOverdue}
	}

	days := int64(math.Floor(float64(diff) / float64(day)))
	if days == 0 {
		hours := int64((diff % day) / time.Hour)
		return Countdown{Label: fmt.Sprintf("%dh left", hours), Urgent: true, Level: UrgencyToday}
	}

	level := UrgencyRoutine
	if days <= 2 {
		level = UrgencySoon
	}
	return Countdown{Label: fmt.Sprintf("%dd left", days), Urgent: false, Level: level}
}

// ParseDeadline accepts a calendar date (start of that day in loc) or an RFC3339 timestamp.
// Blank input means no deadline.
func ParseDeadline(raw string, loc *time.Location) (*Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	if d, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		ts := NewTimestamp(d)
		return &ts, nil
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		ts := NewTimestamp(d)
		return &ts, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDeadline, raw)
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.Deadline != nil {
		d := *t.Deadline
		t.Deadline = &d
	}
	return t
}
