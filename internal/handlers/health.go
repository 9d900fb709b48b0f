package handlers

import (
	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler provides the health check endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	// Upcoming scheduled lessons
	var scheduledCount int64
	models.GetDB().Model(&models.Lesson{}).
		Where("status = ?", models.LessonStatusScheduled).
		Count(&scheduledCount)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "dancedesk",
		"components": gin.H{
			"database":          dbStatus,
			"queue_mode":        queueMode,
			"scheduled_lessons": scheduledCount,
		},
	})
}
