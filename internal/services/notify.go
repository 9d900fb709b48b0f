package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"gorm.io/gorm"
)

// Notification template names accepted by the notification endpoints.
const (
	TemplateLessonReminder  = "lesson_reminder"
	TemplatePaymentReminder = "payment_reminder"
	TemplateClassUpdate     = "class_update"
	TemplateTest            = "test"
)

// NotificationService renders notification emails and hands them to the
// mail queue. Rendering always succeeds for a valid template; whether
// anything is actually delivered depends on the SMTP configuration.
type NotificationService struct {
	db       *gorm.DB
	settings *SettingService
	email    *EmailService
}

func NewNotificationService(db *gorm.DB, email *EmailService) *NotificationService {
	return &NotificationService{
		db:       db,
		settings: NewSettingService(db),
		email:    email,
	}
}

// NotificationData carries the fields the templates interpolate. Unused
// fields are ignored by templates that do not need them.
type NotificationData struct {
	StudentName     string    `json:"student_name"`
	TeacherNames    []string  `json:"teacher_names"`
	LessonTime      time.Time `json:"lesson_time"`
	DurationMins    int       `json:"duration_mins"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	ProgramName     string    `json:"program_name"`
	AmountDue       float64   `json:"amount_due"`
	DueDate         time.Time `json:"due_date"`
	UpdateMessage   string    `json:"update_message"`
	RemainingCredit int       `json:"remaining_credit"`
}

// RenderedNotification is a fully built message ready for dispatch.
type RenderedNotification struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

// SendOutcome reports what happened to a notification. When SMTP is not
// configured the message is rendered but not sent, and WouldSend is set
// so callers can tell a skipped send from a delivered one.
type SendOutcome struct {
	Sent      bool   `json:"sent"`
	WouldSend bool   `json:"would_send"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Error     string `json:"error,omitempty"`
}

func (s *NotificationService) studioName() string {
	return s.settings.GetString(models.CategoryBusiness, "studio_name", "DanceDesk Studio")
}

// Render builds the subject and both bodies for the named template.
// Unknown template names are a validation error.
func (s *NotificationService) Render(template string, data *NotificationData) (*RenderedNotification, error) {
	studio := s.studioName()

	switch template {
	case TemplateLessonReminder:
		return s.renderLessonReminder(studio, data), nil
	case TemplatePaymentReminder:
		return s.renderPaymentReminder(studio, data), nil
	case TemplateClassUpdate:
		return s.renderClassUpdate(studio, data), nil
	case TemplateTest:
		return s.renderTest(studio), nil
	}
	return nil, response.NewBadRequest("unknown notification template: " + template)
}

func (s *NotificationService) renderLessonReminder(studio string, data *NotificationData) *RenderedNotification {
	subject := fmt.Sprintf("[%s] Lesson reminder for %s", studio, data.LessonTime.Format("Mon, Jan 2"))

	var html strings.Builder
	html.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	html.WriteString(fmt.Sprintf("<h2>Upcoming lesson at %s</h2>", studio))
	html.WriteString("<table style=\"border-collapse: collapse; margin-bottom: 20px;\">")

	rows := []struct{ label, value string }{
		{"Student", data.StudentName},
		{"When", data.LessonTime.Format("Monday, January 2 at 3:04 PM")},
		{"Duration", fmt.Sprintf("%d minutes", data.DurationMins)},
	}
	if len(data.TeacherNames) > 0 {
		rows = append(rows, struct{ label, value string }{"Teacher", strings.Join(data.TeacherNames, ", ")})
	}
	if data.Location != "" {
		rows = append(rows, struct{ label, value string }{"Location", data.Location})
	}

	for _, r := range rows {
		html.WriteString(fmt.Sprintf("<tr><td style=\"padding: 8px; border: 1px solid #ddd; font-weight: bold;\">%s</td><td style=\"padding: 8px; border: 1px solid #ddd;\">%s</td></tr>", r.label, r.value))
	}
	html.WriteString("</table>")

	if data.Notes != "" {
		html.WriteString(fmt.Sprintf("<p style=\"background: #f5f5f5; padding: 12px; border-radius: 4px;\">%s</p>", data.Notes))
	}
	if data.RemainingCredit > 0 {
		html.WriteString(fmt.Sprintf("<p>You have %d lesson(s) remaining in your current block.</p>", data.RemainingCredit))
	}
	html.WriteString(fmt.Sprintf("<hr><p style=\"color: #888; font-size: 12px;\">%s</p>", studio))
	html.WriteString("</body></html>")

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Upcoming lesson at %s\n\n", studio))
	text.WriteString(fmt.Sprintf("Student: %s\n", data.StudentName))
	text.WriteString(fmt.Sprintf("When: %s\n", data.LessonTime.Format("Monday, January 2 at 3:04 PM")))
	text.WriteString(fmt.Sprintf("Duration: %d minutes\n", data.DurationMins))
	if len(data.TeacherNames) > 0 {
		text.WriteString(fmt.Sprintf("Teacher: %s\n", strings.Join(data.TeacherNames, ", ")))
	}
	if data.Location != "" {
		text.WriteString(fmt.Sprintf("Location: %s\n", data.Location))
	}
	if data.Notes != "" {
		text.WriteString(fmt.Sprintf("\n%s\n", data.Notes))
	}

	return &RenderedNotification{
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}
}

func (s *NotificationService) renderPaymentReminder(studio string, data *NotificationData) *RenderedNotification {
	currency := s.settings.GetString(models.CategoryDisplay, "currency_symbol", "$")
	subject := fmt.Sprintf("[%s] Payment reminder: %s", studio, data.ProgramName)

	var html strings.Builder
	html.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	html.WriteString("<h2>Payment reminder</h2>")
	html.WriteString(fmt.Sprintf("<p>Dear %s,</p>", data.StudentName))
	html.WriteString(fmt.Sprintf("<p>A payment of <strong>%s%.2f</strong> for <strong>%s</strong> is due on %s.</p>",
		currency, data.AmountDue, data.ProgramName, data.DueDate.Format("January 2, 2006")))
	html.WriteString(fmt.Sprintf("<hr><p style=\"color: #888; font-size: 12px;\">%s</p>", studio))
	html.WriteString("</body></html>")

	text := fmt.Sprintf("Dear %s,\n\nA payment of %s%.2f for %s is due on %s.\n\n%s\n",
		data.StudentName, currency, data.AmountDue, data.ProgramName,
		data.DueDate.Format("January 2, 2006"), studio)

	return &RenderedNotification{
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: text,
	}
}

func (s *NotificationService) renderClassUpdate(studio string, data *NotificationData) *RenderedNotification {
	subject := fmt.Sprintf("[%s] Class update", studio)

	var html strings.Builder
	html.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	html.WriteString("<h2>Class update</h2>")
	html.WriteString(fmt.Sprintf("<p>Dear %s,</p>", data.StudentName))
	html.WriteString(fmt.Sprintf("<div style=\"background: #f9f9f9; padding: 16px; border-radius: 4px; white-space: pre-wrap;\">%s</div>", data.UpdateMessage))
	html.WriteString(fmt.Sprintf("<hr><p style=\"color: #888; font-size: 12px;\">%s</p>", studio))
	html.WriteString("</body></html>")

	text := fmt.Sprintf("Dear %s,\n\n%s\n\n%s\n", data.StudentName, data.UpdateMessage, studio)

	return &RenderedNotification{
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: text,
	}
}

func (s *NotificationService) renderTest(studio string) *RenderedNotification {
	return &RenderedNotification{
		Subject:  fmt.Sprintf("[%s] Test notification", studio),
		HTMLBody: fmt.Sprintf("<html><body><p>This is a test notification from %s. Email delivery is working.</p></body></html>", studio),
		TextBody: fmt.Sprintf("This is a test notification from %s. Email delivery is working.\n", studio),
	}
}

// Send renders the template and dispatches it through the mail queue.
// Notification opt-out and missing SMTP configuration both short out
// with WouldSend set; only real transport failures carry an error, and
// even those never fail the caller's request.
func (s *NotificationService) Send(template, recipient string, data *NotificationData) (*SendOutcome, error) {
	if recipient == "" {
		return nil, response.NewBadRequest("recipient email is required")
	}

	rendered, err := s.Render(template, data)
	if err != nil {
		return nil, err
	}

	outcome := &SendOutcome{Recipient: recipient, Subject: rendered.Subject}

	if !s.settings.GetBool(models.CategoryNotification, "email_notifications_enabled", true) {
		outcome.WouldSend = true
		LogInfo("notification", "skip", "email notifications disabled, would have sent "+template, nil, "", "", nil)
		return outcome, nil
	}

	if !s.email.Configured() {
		outcome.WouldSend = true
		LogInfo("notification", "skip", "smtp not configured, would have sent "+template+" to "+recipient, nil, "", "", nil)
		return outcome, nil
	}

	task := &EmailTask{
		Template:  template,
		Recipient: recipient,
		Subject:   rendered.Subject,
		HTMLBody:  rendered.HTMLBody,
		TextBody:  rendered.TextBody,
	}
	if err := GetTaskQueue().Enqueue(task); err != nil {
		outcome.Error = err.Error()
		LogError("notification", "enqueue", "failed to enqueue "+template+": "+err.Error(), nil, "", "", nil)
		return outcome, nil
	}

	outcome.Sent = true
	return outcome, nil
}
