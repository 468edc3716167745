package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"taskflow-backend/internal/task/repository"
	workspacedomain "taskflow-backend/internal/workspace/domain"
	workspacerepo "taskflow-backend/internal/workspace/repository"
)

// TaskReminderScheduler notifies people about incomplete tasks whose deadline
// is today or already past. Each task and deadline pair is reminded once per
// process lifetime.
type TaskReminderScheduler struct {
	tasks      repository.TaskRepository
	workspaces workspacerepo.WorkspaceRepository
	notifier   Notifier
	interval   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	sent     map[string]struct{}
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTaskReminderScheduler creates a new scheduler
func NewTaskReminderScheduler(tasks repository.TaskRepository, workspaces workspacerepo.WorkspaceRepository, notifier Notifier, interval time.Duration) *TaskReminderScheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &TaskReminderScheduler{
		tasks:      tasks,
		workspaces: workspaces,
		notifier:   notifier,
		interval:   interval,
		now:        time.Now,
		sent:       make(map[string]struct{}),
		stopChan:   make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *TaskReminderScheduler) Start(ctx context.Context) {
	log.Info().Msgf("[TaskScheduler] Starting task reminder scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.CheckAndSendReminders(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.CheckAndSendReminders(ctx)
			case <-ctx.Done():
				log.Info().Msg("[TaskScheduler] Scheduler stopped")
				return
			case <-s.stopChan:
				log.Info().Msg("[TaskScheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TaskReminderScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// CheckAndSendReminders runs one pass and returns how many reminders were delivered.
func (s *TaskReminderScheduler) CheckAndSendReminders(ctx context.Context) int {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("[TaskScheduler] Error loading tasks")
		return 0
	}
	now := s.now()

	// Per-pass cache; nil marks a workspace that no longer exists.
	workspaces := make(map[string]*workspacedomain.Workspace)
	lookup := func(id string) *workspacedomain.Workspace {
		if ws, ok := workspaces[id]; ok {
			return ws
		}
		ws, err := s.workspaces.FindByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Msgf("[TaskScheduler] Error loading workspace %s", id)
		}
		workspaces[id] = ws
		return ws
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]struct{})
	delivered := 0

	for _, task := range tasks {
		if task.Completed || task.Deadline == nil {
			continue
		}
		countdown := task.Countdown(now)
		if countdown == nil || !countdown.Urgent {
			continue
		}
		ws := lookup(task.WorkspaceID)
		if ws == nil {
			continue
		}

		key := fmt.Sprintf("%s:%d", task.ID, *task.Deadline)
		live[key] = struct{}{}
		if _, done := s.sent[key]; done {
			continue
		}

		recipient := ws.OwnerEmail
		if strings.Contains(task.AssignedTo, "@") {
			recipient = strings.ToLower(strings.TrimSpace(task.AssignedTo))
		}

		err := s.notifier.Notify(ctx, Reminder{
			Email:         recipient,
			Task:          task,
			WorkspaceName: ws.Name,
			Countdown:     *countdown,
		})
		if err != nil {
			log.Error().Err(err).Msgf("[TaskScheduler] Error sending reminder for task %s", task.ID)
		} else {
			delivered++
		}

		// Marked as sent regardless of success to avoid spamming
		s.sent[key] = struct{}{}
	}

	// Forget tasks that were completed, deleted or rescheduled
	for key := range s.sent {
		if _, ok := live[key]; !ok {
			delete(s.sent, key)
		}
	}

	if delivered > 0 {
		log.Info().Msgf("[TaskScheduler] Delivered %d reminders", delivered)
	}
	return delivered
}
