package main

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"

	"telemed-app-server/internal/config"
	"telemed-app-server/internal/jobs"
	"telemed-app-server/internal/models"
	"telemed-app-server/internal/routes"
)

func main() {
	// Load environment variables; a missing .env is fine in production
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Error loading config")
	}

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db, err := models.InitDB(mysql.Open(cfg.Database.DSN))
	if err != nil {
		log.WithError(err).Fatal("Error connecting to database")
	}

	// Daily appointment reminders
	if _, err := jobs.StartReminderScheduler(db, jobs.LogNotifier{}, cfg.ReminderCronSpec); err != nil {
		log.WithError(err).Fatal("Error starting reminder scheduler")
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes - passing DB and config to let routes.go create the handlers
	routes.SetupRoutes(router, db, cfg)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.WithField("port", cfg.Port).Info("Server running")
	if err := router.Run(serverAddr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}
