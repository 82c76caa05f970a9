package routes

import (
	"fyp-management-api/controllers"
	"fyp-management-api/middleware"
	"fyp-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	officerOnly := middleware.RequireRole(models.RoleProjectOfficer)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "FYP Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile", controllers.UpdateProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Account administration
			protected.GET("/users", officerOnly, controllers.ListUsers)
			protected.PUT("/users/:id/role", officerOnly, controllers.ChangeUserRole)

			// Projects
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.ListProjects)
				projects.POST("", officerOnly, controllers.CreateProject)
				projects.GET("/:id", controllers.GetProject)
				projects.PUT("/:id", controllers.UpdateProject)

				projects.GET("/:id/members", controllers.ListMembers)
				projects.POST("/:id/members", officerOnly, controllers.AddMember)
				projects.DELETE("/:id/members/:user_id", officerOnly, controllers.RemoveMember)

				// Phase deadlines
				projects.GET("/:id/deadlines", controllers.ListDeadlines)
				projects.PUT("/:id/deadlines/:phase", controllers.UpsertDeadline)
				projects.DELETE("/:id/deadlines/:phase", controllers.DeleteDeadline)

				// Document submission happens project-scoped
				projects.POST("/:id/documents", studentOnly, controllers.UploadDocument)
				projects.GET("/:id/documents", controllers.ListProjectDocuments)

				// Project-level comments
				projects.GET("/:id/comments", controllers.ListProjectComments)
				projects.POST("/:id/comments", controllers.CreateProjectComment)

				// Phase chat
				projects.GET("/:id/chat/:phase", controllers.ListChatMessages)
				projects.POST("/:id/chat/:phase", controllers.PostChatMessage)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.GET("/:id", controllers.GetDocument)
				documents.PUT("/:id", controllers.UpdateDocument)
				documents.GET("/:id/download", controllers.DownloadDocument)

				// Review is gated by the policy evaluator (advisor of the
				// project or officer role), not a route-level role check.
				documents.POST("/:id/review", controllers.ReviewDocument)

				documents.GET("/:id/comments", controllers.ListDocumentComments)
				documents.POST("/:id/comments", controllers.CreateDocumentComment)
			}

			// Comment mutation (author only, checked in handler)
			comments := protected.Group("/comments")
			{
				comments.PUT("/document/:id", controllers.UpdateDocumentComment)
				comments.DELETE("/document/:id", controllers.DeleteDocumentComment)
				comments.PUT("/project/:id", controllers.UpdateProjectComment)
				comments.DELETE("/project/:id", controllers.DeleteProjectComment)
			}

			// Chat message mutation (author only, checked in handler)
			chat := protected.Group("/chat")
			{
				chat.PUT("/:id", controllers.UpdateChatMessage)
				chat.DELETE("/:id", controllers.DeleteChatMessage)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadCount)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
				notifications.POST("/broadcast", officerOnly, controllers.BroadcastToRole)
			}

			// Resources
			resources := protected.Group("/resources")
			{
				resources.GET("", controllers.ListResources)
				resources.GET("/:id/download", controllers.DownloadResource)
				resources.POST("", officerOnly, controllers.CreateResource)
				resources.PUT("/:id", officerOnly, controllers.UpdateResource)
				resources.DELETE("/:id", officerOnly, controllers.DeleteResource)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Realtime feed
			protected.GET("/ws", controllers.ConnectFeed)
		}
	}
}
