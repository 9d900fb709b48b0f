package main

import (
	"github.com/dancedesk/dancedesk/internal/handlers"
	"github.com/dancedesk/dancedesk/internal/middleware"
	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	db := models.GetDB()
	dashboardHandler := handlers.NewDashboardHandler(db)
	studentHandler := handlers.NewStudentHandler(db)
	teacherHandler := handlers.NewTeacherHandler(db)
	lessonHandler := handlers.NewLessonHandler(db)
	enrollmentHandler := handlers.NewEnrollmentHandler(db)
	calendarHandler := handlers.NewCalendarHandler(db)
	settingHandler := handlers.NewSettingHandler(db)
	userHandler := handlers.NewUserHandler(db)
	systemLogHandler := handlers.NewSystemLogHandler(db)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			// Open only until the first account exists; after that the
			// handler requires an admin token.
			auth.POST("/register", svc.authHandler.Register)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Students
			protected.GET("/students", studentHandler.List)
			protected.GET("/students/:id", studentHandler.GetByID)
			protected.GET("/students/:id/lesson-credits", studentHandler.GetLessonCredits)
			protected.POST("/students", studentHandler.Create)
			protected.PUT("/students/:id", studentHandler.Update)

			// Teachers
			protected.GET("/teachers", teacherHandler.List)
			protected.GET("/teachers/:id", teacherHandler.GetByID)
			protected.POST("/teachers", teacherHandler.Create)
			protected.PUT("/teachers/:id", teacherHandler.Update)

			// Lessons
			protected.GET("/lessons", lessonHandler.List)
			protected.GET("/lessons/:id", lessonHandler.GetByID)
			protected.POST("/lessons", lessonHandler.Create)
			protected.PUT("/lessons/:id", lessonHandler.Update)
			protected.POST("/lessons/:id/attend", lessonHandler.MarkAttended)
			protected.POST("/lessons/:id/cancel", lessonHandler.Cancel)

			// Enrollments
			protected.GET("/enrollments", enrollmentHandler.List)
			protected.GET("/enrollments/:id", enrollmentHandler.GetByID)
			protected.POST("/enrollments", enrollmentHandler.Create)
			protected.PUT("/enrollments/:id", enrollmentHandler.Update)

			// Calendar
			protected.GET("/calendar/weekly", calendarHandler.Weekly)
			protected.GET("/calendar/countries", calendarHandler.Countries)

			// Settings (read for all users)
			protected.GET("/settings", settingHandler.GetAll)
			protected.GET("/settings/:category", settingHandler.GetCategory)
			protected.GET("/settings/:category/:key", settingHandler.GetKey)

			// Notifications (test send is open to staff)
			protected.POST("/notifications/test", svc.notificationHandler.SendTest)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Destructive CRM operations
			admin.DELETE("/students/:id", studentHandler.Delete)
			admin.DELETE("/teachers/:id", teacherHandler.Delete)
			admin.DELETE("/lessons/:id", lessonHandler.Delete)
			admin.DELETE("/enrollments/:id", enrollmentHandler.Delete)

			// Settings (write operations)
			admin.PUT("/settings", settingHandler.UpdateAll)
			admin.PUT("/settings/:category", settingHandler.UpdateCategory)
			admin.PUT("/settings/:category/:key", settingHandler.UpdateKey)

			// Users
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.POST("/users/:id/reset-password", userHandler.ResetPassword)
			admin.DELETE("/users/:id", userHandler.Delete)

			// Notifications
			admin.POST("/notifications/send", svc.notificationHandler.Send)
			admin.POST("/notifications/reminders/run", svc.notificationHandler.RunReminders)

			// System Logs
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
