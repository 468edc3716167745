package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	api "taskflow-backend/cmd/api"
	authRepo "taskflow-backend/internal/auth/repository"
	authUsecase "taskflow-backend/internal/auth/usecase"
	noteRepo "taskflow-backend/internal/note/repository"
	noteUsecase "taskflow-backend/internal/note/usecase"
	"taskflow-backend/internal/state"
	taskRepo "taskflow-backend/internal/task/repository"
	"taskflow-backend/internal/task/scheduler"
	taskUsecase "taskflow-backend/internal/task/usecase"
	workspaceRepo "taskflow-backend/internal/workspace/repository"
	workspaceUsecase "taskflow-backend/internal/workspace/usecase"
	"taskflow-backend/pkg/fcm"
	"taskflow-backend/pkg/kvstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, err := kvstore.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	container, err := state.Open(ctx, store)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(container)
	fcmTokenRepository := authRepo.NewFCMTokenRepository(store)
	workspaceRepository := workspaceRepo.NewWorkspaceRepository(container)
	sessionRepository := workspaceRepo.NewSessionRepository(container)
	taskRepository := taskRepo.NewTaskRepository(container)
	noteRepository := noteRepo.NewNoteRepository(container)

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepository, fcmTokenRepository, cfg)
	workspaceUc := workspaceUsecase.NewWorkspaceUsecase(workspaceRepository, sessionRepository)
	taskUc := taskUsecase.NewTaskUsecase(taskRepository, cfg.Location())
	noteUc := noteUsecase.NewNoteUsecase(noteRepository)

	settings := api.NewRuntimeSettings(cfg.OllamaBaseURL, cfg.OllamaModel)
	advisor, closeAdvisor := api.NewAdvisor(ctx, cfg, settings)
	defer closeAdvisor()

	// Deadline reminders: push when Firebase is configured, log otherwise
	var notifier scheduler.Notifier = scheduler.LogNotifier{}
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Warn().Err(err).Msg("[FCM] Failed to initialize FCM client, reminders will only be logged")
		} else {
			notifier = scheduler.NewFCMNotifier(fcmTokenRepository, fcmClient)
		}
	} else {
		log.Info().Msg("[FCM] No Firebase credentials configured, reminders will only be logged")
	}
	reminders := scheduler.NewTaskReminderScheduler(taskRepository, workspaceRepository, notifier, cfg.ReminderInterval)
	reminders.Start(ctx)
	defer reminders.Stop()

	handler := api.NewHandler(authUc, workspaceUc, taskUc, noteUc, advisor, settings, cfg)
	return handler.Start(ctx, ":"+cfg.Port)
}
