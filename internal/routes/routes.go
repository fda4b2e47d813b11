package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telemed-app-server/internal/config"
	"telemed-app-server/internal/handlers"
	"telemed-app-server/internal/middleware"
	"telemed-app-server/internal/models"
	"telemed-app-server/internal/services"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	clock := services.NewSessionClock(cfg)
	sessionService := services.NewSessionService(db, clock)
	signalService := services.NewSignalService(db)
	consentService := services.NewConsentService(db)
	recordingService := services.NewRecordingService(db, services.NewDiskFileStore(cfg.RecordingUploadDir))

	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	signalHandler := handlers.NewSignalHandler(signalService)
	consentHandler := handlers.NewConsentHandler(consentService)
	recordingHandler := handlers.NewRecordingHandler(recordingService)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		private.GET("/auth/profile", authHandler.GetProfile)

		// Appointment booking surface; the session core acts on confirmed rows
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		}

		// Live consultation session routes
		sessionRoutes := private.Group("/sessions")
		{
			sessionRoutes.GET("/available", middleware.RoleAuthMiddleware(models.RoleDoctor), sessionHandler.GetAvailableSessions)

			sessionRoutes.POST("/:appointmentId/start", middleware.RoleAuthMiddleware(models.RoleDoctor), sessionHandler.StartSession)
			sessionRoutes.POST("/:appointmentId/extend", middleware.RoleAuthMiddleware(models.RoleDoctor), sessionHandler.ExtendSession)
			sessionRoutes.POST("/:appointmentId/end", sessionHandler.EndSession)
			sessionRoutes.GET("/:appointmentId", sessionHandler.GetSessionStatus)

			sessionRoutes.POST("/:appointmentId/signals", signalHandler.SendSignal)
			sessionRoutes.GET("/:appointmentId/signals", signalHandler.PollSignals)

			sessionRoutes.POST("/:appointmentId/consent", middleware.RoleAuthMiddleware(models.RolePatient), consentHandler.GiveConsent)
			sessionRoutes.GET("/:appointmentId/consent", middleware.RoleAuthMiddleware(models.RolePatient), consentHandler.GetConsentStatus)

			sessionRoutes.POST("/:appointmentId/recording-file", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), recordingHandler.UploadRecordingFile)
			sessionRoutes.GET("/:appointmentId/recording", recordingHandler.GetRecording)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
