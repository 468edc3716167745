package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	authUsecase "taskflow-backend/internal/auth/usecase"
	noteDelivery "taskflow-backend/internal/note/delivery"
	noteUsecase "taskflow-backend/internal/note/usecase"
	taskDelivery "taskflow-backend/internal/task/delivery"
	taskUsecase "taskflow-backend/internal/task/usecase"
	workspaceDelivery "taskflow-backend/internal/workspace/delivery"
	workspaceUsecase "taskflow-backend/internal/workspace/usecase"
	"taskflow-backend/pkg/ai"
	"taskflow-backend/pkg/config"
)

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	workspaceHandler *workspaceDelivery.WorkspaceHandler
	taskHandler      *taskDelivery.TaskHandler
	noteHandler      *noteDelivery.NoteHandler
	settingsHandler  *SettingsHandler
	config           *config.Config
}

// NewHandler wires the usecases to their HTTP handlers and hands the advisor
// to the usecases that need it.
func NewHandler(
	authUc authUsecase.AuthUsecase,
	workspaceUc workspaceUsecase.WorkspaceUsecase,
	taskUc taskUsecase.TaskUsecase,
	noteUc noteUsecase.NoteUsecase,
	advisor ai.Advisor,
	settings *RuntimeSettings,
	cfg *config.Config,
) *Handler {
	if advisor != nil {
		workspaceUc.SetAdvisor(advisor)
		taskUc.SetAdvisor(advisor)
	}

	return &Handler{
		authUsecase:      authUc,
		workspaceHandler: workspaceDelivery.NewWorkspaceHandler(workspaceUc),
		taskHandler:      taskDelivery.NewTaskHandler(taskUc),
		noteHandler:      noteDelivery.NewNoteHandler(noteUc),
		settingsHandler:  NewSettingsHandler(settings),
		config:           cfg,
	}
}

// Engine builds the gin engine with CORS and every route.
func (h *Handler) Engine() *gin.Engine {
	if h.config != nil {
		switch h.config.GinMode {
		case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
			gin.SetMode(h.config.GinMode)
		}
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.workspaceHandler, h.taskHandler, h.noteHandler, h.settingsHandler)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("[API] request")
	}
}
