package handlers

import (
	"github.com/dancedesk/dancedesk/internal/services"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	reminderService     *services.ReminderService
}

func NewNotificationHandler(notifications *services.NotificationService, reminders *services.ReminderService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notifications,
		reminderService:     reminders,
	}
}

type sendTestRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
}

// SendTest renders and dispatches a test notification so admins can
// verify the SMTP setup. With SMTP unconfigured the outcome reports
// would_send instead of failing.
// POST /api/notifications/test
func (h *NotificationHandler) SendTest(c *gin.Context) {
	var req sendTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.notificationService.Send(services.TemplateTest, req.Recipient, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, outcome)
}

type sendNotificationRequest struct {
	Template  string                    `json:"template" binding:"required"`
	Recipient string                    `json:"recipient" binding:"required,email"`
	Data      services.NotificationData `json:"data"`
}

// Send dispatches a one-off notification with caller-supplied data
// POST /api/notifications/send
func (h *NotificationHandler) Send(c *gin.Context) {
	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.notificationService.Send(req.Template, req.Recipient, &req.Data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, outcome)
}

// RunReminders triggers the next-day lesson reminder job on demand
// POST /api/notifications/reminders/run
func (h *NotificationHandler) RunReminders(c *gin.Context) {
	count, err := h.reminderService.SendLessonReminders()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"reminders": count})
}
