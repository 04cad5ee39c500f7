package routes

import (
	"drone-permit-api/controllers"
	"drone-permit-api/middleware"
	"drone-permit-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Drone Permit API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User account
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Pilot profile (registration application)
			pilot := protected.Group("/pilot")
			{
				pilot.POST("/profile", middleware.RequireRole(models.RolePilot), controllers.CreatePilotProfile)
				pilot.GET("/profile", middleware.RequireRole(models.RolePilot), controllers.GetMyPilotProfile)
				pilot.PUT("/profile", middleware.RequireRole(models.RolePilot), controllers.UpdatePilotProfile)
				pilot.POST("/reapply", middleware.RequireRole(models.RolePilot), controllers.ReapplyPilotProfile)
			}

			// Drones
			drones := protected.Group("/drones")
			drones.Use(middleware.RequireRole(models.RolePilot))
			{
				drones.GET("", controllers.GetDrones)
				drones.POST("", controllers.CreateDrone)
				drones.GET("/:id", controllers.GetDrone)
				drones.PUT("/:id", controllers.UpdateDrone)
				drones.POST("/:id/reapply", controllers.ReapplyDrone)
			}

			// Flights
			flights := protected.Group("/flights")
			flights.Use(middleware.RequireRole(models.RolePilot))
			{
				flights.GET("", controllers.GetFlights)
				flights.POST("", controllers.CreateFlight)
				flights.GET("/:id", controllers.GetFlight)
				flights.POST("/:id/start", controllers.StartFlight)
				flights.POST("/:id/end", controllers.EndFlight)
				flights.POST("/:id/location", controllers.UpdateFlightLocation)
				flights.POST("/:id/reapply", controllers.ReapplyFlight)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("/upload", controllers.UploadDocument)
				documents.GET("", controllers.GetDocuments)
				documents.GET("/download/:id", controllers.DownloadDocument)
			}

			// Payments (stub gateway)
			payments := protected.Group("/payments")
			{
				payments.POST("", middleware.RequireRole(models.RolePilot), controllers.CreatePayment)
				payments.GET("", controllers.GetPayments)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Department review
			review := protected.Group("/review")
			review.Use(middleware.RequireReviewer())
			{
				review.GET("/profiles", controllers.GetReviewProfiles)
				review.POST("/profiles/:id", controllers.ReviewProfile)
				review.GET("/drones", controllers.GetReviewDrones)
				review.POST("/drones/:id", controllers.ReviewDrone)
				review.GET("/flights", controllers.GetReviewFlights)
				review.POST("/flights/:id", controllers.ReviewFlight)
				review.GET("/active-flights", controllers.GetActiveFlights)
				review.POST("/documents/:id/verify", controllers.VerifyDocument)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Admin
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.GetAdminUsers)
				admin.PATCH("/users/:id/role", controllers.UpdateUserRole)
				admin.POST("/users/reviewer", controllers.RegisterReviewer)
				admin.GET("/stats", controllers.GetAdminStats)
				admin.GET("/audit-logs", controllers.GetAuditLogs)
			}
		}

	}

	// Catch-all for unknown routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
