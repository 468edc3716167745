package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	authrepo "taskflow-backend/internal/auth/repository"
	"taskflow-backend/internal/task/domain"
	"taskflow-backend/pkg/fcm"
)

// Reminder is one urgent task addressed to one person.
type Reminder struct {
	Email         string
	Task          domain.Task
	WorkspaceName string
	Countdown     domain.Countdown
}

// Notifier delivers reminders
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// PushSender is satisfied by *fcm.Client
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) ([]string, error)
}

// FCMNotifier pushes reminders to every registered device of the recipient
type FCMNotifier struct {
	fcmRepo authrepo.FCMTokenRepository
	sender  PushSender
}

func NewFCMNotifier(fcmRepo authrepo.FCMTokenRepository, sender PushSender) *FCMNotifier {
	return &FCMNotifier{fcmRepo: fcmRepo, sender: sender}
}

func (n *FCMNotifier) Notify(ctx context.Context, r Reminder) error {
	tokens, err := n.fcmRepo.GetTokensByEmail(ctx, r.Email)
	if err != nil {
		return fmt.Errorf("get FCM tokens for %s: %w", r.Email, err)
	}
	if len(tokens) == 0 {
		log.Debug().Msgf("[TaskScheduler] No FCM tokens for %s", r.Email)
		return nil
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	failedTokens, err := n.sender.SendToDevices(ctx, tokenStrings, buildNotification(r))
	if err != nil {
		return err
	}

	// Cleanup failed tokens
	for _, token := range failedTokens {
		if err := n.fcmRepo.DeleteToken(ctx, token); err != nil {
			log.Warn().Err(err).Msg("[TaskScheduler] Failed to delete stale FCM token")
		}
	}

	log.Info().Msgf("[TaskScheduler] Sent reminder for task '%s' to %d devices", r.Task.Text, len(tokenStrings)-len(failedTokens))
	return nil
}

func buildNotification(r Reminder) fcm.NotificationData {
	title := "Due soon: " + r.Task.Text
	if r.Countdown.Level == domain.UrgencyOverdue {
		title = "Overdue: " + r.Task.Text
	}
	return fcm.NotificationData{
		Title: title,
		Body:  fmt.Sprintf("%s · %s", r.WorkspaceName, r.Countdown.Label),
		Data: map[string]string{
			"type":         "task_reminder",
			"task_id":      r.Task.ID,
			"workspace_id": r.Task.WorkspaceID,
			"status":       string(r.Task.Status),
		},
		Link: "/",
	}
}

// LogNotifier only logs reminders. It is used when push delivery is not configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, r Reminder) error {
	log.Info().
		Str("email", r.Email).
		Str("task_id", r.Task.ID).
		Str("countdown", r.Countdown.Label).
		Msgf("[TaskScheduler] Reminder: %s", r.Task.Text)
	return nil
}
