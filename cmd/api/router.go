package api

import (
	"net/http"

	"taskflow-backend/internal/auth/delivery"
	authUsecase "taskflow-backend/internal/auth/usecase"
	noteDelivery "taskflow-backend/internal/note/delivery"
	taskDelivery "taskflow-backend/internal/task/delivery"
	workspaceDelivery "taskflow-backend/internal/workspace/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUsecase authUsecase.AuthUsecase,
	workspaceHandler *workspaceDelivery.WorkspaceHandler,
	taskHandler *taskDelivery.TaskHandler,
	noteHandler *noteDelivery.NoteHandler,
	settingsHandler *SettingsHandler,
) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	requireAuth := delivery.AuthMiddleware(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(requireAuth)
		{
			fcm.POST("/register", authHandler.RegisterFCMToken)
			fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
		}

		api.GET("/dashboard", requireAuth, workspaceHandler.GetDashboard)

		// Session view state (protected)
		session := api.Group("/session")
		session.Use(requireAuth)
		{
			session.PUT("/active", workspaceHandler.SetActive)
			session.PUT("/filter", workspaceHandler.SetFilter)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(requireAuth)
		{
			workspaces.GET("", workspaceHandler.GetWorkspaces)
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("/:id", workspaceHandler.GetWorkspace)
			workspaces.DELETE("/:id", workspaceHandler.DeleteWorkspace)
			workspaces.GET("/:id/search", workspaceHandler.Search)
			workspaces.POST("/:id/members", workspaceHandler.AddMember)
			workspaces.GET("/:id/members/role", workspaceHandler.GetMemberRole)
			workspaces.DELETE("/:id/members/:email", workspaceHandler.RemoveMember)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggestions", taskHandler.SuggestTasks)
			tasks.POST("/:id/toggle", taskHandler.ToggleTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		api.GET("/advice", requireAuth, taskHandler.GetAdvice)

		// Note routes (protected)
		notes := api.Group("/notes")
		notes.Use(requireAuth)
		{
			notes.GET("", noteHandler.GetNotes)
			notes.POST("", noteHandler.CreateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		// Settings routes (protected)
		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/ollama", settingsHandler.GetOllamaSettings)
			settings.PUT("/ollama", settingsHandler.UpdateOllamaSettings)
			settings.POST("/ollama/test", settingsHandler.TestOllamaConnection)
		}
	}
}
