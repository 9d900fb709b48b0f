package main

import (
	"context"

	"github.com/dancedesk/dancedesk/internal/config"
	"github.com/dancedesk/dancedesk/internal/handlers"
	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/internal/utils"
	"github.com/dancedesk/dancedesk/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	jwtCfg              *config.JWTConfig
	emailService        *services.EmailService
	notificationService *services.NotificationService
	reminderService     *services.ReminderService
	taskQueue           services.TaskQueue
	worker              *services.Worker
	authHandler         *handlers.AuthHandler
	notificationHandler *handlers.NotificationHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default settings
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize audit logger
	services.InitSystemLogger(models.GetDB())

	// Start audit log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB())

	// Mail pipeline: templater, SMTP transport, dispatch queue
	emailService := services.NewEmailService(&cfg.SMTP)
	notificationService := services.NewNotificationService(models.GetDB(), emailService)

	taskQueue := services.InitTaskQueue(cfg)
	deliver := func(ctx context.Context, task *services.EmailTask) error {
		return emailService.Send(task.Recipient, task.Subject, task.HTMLBody, task.TextBody)
	}
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(deliver)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(deliver)
			worker.Start()
		}
	}

	// Start the daily lesson reminder scheduler
	reminderService := services.NewReminderService(models.GetDB(), notificationService)
	reminderService.StartScheduler()

	// Create default admin user
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		jwtCfg:              &cfg.JWT,
		emailService:        emailService,
		notificationService: notificationService,
		reminderService:     reminderService,
		taskQueue:           taskQueue,
		worker:              worker,
		authHandler:         handlers.NewAuthHandler(models.GetDB(), &cfg.JWT),
		notificationHandler: handlers.NewNotificationHandler(notificationService, reminderService),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.reminderService.StopScheduler()
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
