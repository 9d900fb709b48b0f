package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReminderService sends next-day lesson reminders on a daily schedule.
// The send time comes from the notification settings and the whole job
// is a no-op while email notifications are switched off.
type ReminderService struct {
	db             *gorm.DB
	settings       *SettingService
	notifications  *NotificationService
	cronScheduler  *cron.Cron
	currentEntryID cron.EntryID
}

func NewReminderService(db *gorm.DB, notifications *NotificationService) *ReminderService {
	return &ReminderService{
		db:            db,
		settings:      NewSettingService(db),
		notifications: notifications,
	}
}

func (s *ReminderService) StartScheduler() {
	s.cronScheduler = cron.New()

	s.updateSchedule()

	s.cronScheduler.Start()
	logger.Info().Msg("[Reminders] Scheduler started")
}

func (s *ReminderService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

func (s *ReminderService) updateSchedule() {
	if s.currentEntryID != 0 {
		s.cronScheduler.Remove(s.currentEntryID)
	}

	sendTime := s.settings.GetString(models.CategoryNotification, "reminder_send_time", "08:00")
	parts := strings.Split(sendTime, ":")
	hour := "8"
	minute := "0"
	if len(parts) == 2 {
		hour = parts[0]
		minute = parts[1]
	}

	cronExpr := fmt.Sprintf("%s %s * * *", minute, hour)

	entryID, err := s.cronScheduler.AddFunc(cronExpr, func() {
		if _, err := s.SendLessonReminders(); err != nil {
			logger.Error().Err(err).Msg("[Reminders] Reminder run failed")
		}
	})
	if err != nil {
		logger.Errorf("[Reminders] Failed to add cron job: %v", err)
		return
	}

	s.currentEntryID = entryID
	logger.Infof("[Reminders] Scheduled at %s (cron: %s)", sendTime, cronExpr)
}

// SendLessonReminders notifies every student with a scheduled lesson
// tomorrow. Returns the number of reminders handed to the mail queue
// (or counted as would-send in dry-run mode).
func (s *ReminderService) SendLessonReminders() (int, error) {
	if !s.settings.GetBool(models.CategoryNotification, "email_notifications_enabled", true) {
		logger.Info().Msg("[Reminders] Email notifications disabled, skipping run")
		return 0, nil
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var lessons []models.Lesson
	err := s.db.Preload("Student").Preload("Teachers").
		Where("status = ? AND start_time >= ? AND start_time < ?", models.LessonStatusScheduled, dayStart, dayEnd).
		Order("start_time").
		Find(&lessons).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range lessons {
		lesson := &lessons[i]
		if lesson.Student.Email == "" {
			continue
		}

		teacherNames := make([]string, 0, len(lesson.Teachers))
		for _, t := range lesson.Teachers {
			teacherNames = append(teacherNames, t.FullName())
		}

		data := &NotificationData{
			StudentName:  lesson.Student.FullName(),
			TeacherNames: teacherNames,
			LessonTime:   lesson.StartTime,
			DurationMins: lesson.DurationMinutes,
			Location:     lesson.Location,
			Notes:        lesson.Notes,
		}
		if lesson.EnrollmentID != nil {
			var enrollment models.Enrollment
			if err := s.db.First(&enrollment, *lesson.EnrollmentID).Error; err == nil {
				data.RemainingCredit = enrollment.RemainingLessons
			}
		}

		outcome, err := s.notifications.Send(TemplateLessonReminder, lesson.Student.Email, data)
		if err != nil {
			logger.Errorf("[Reminders] Failed to send reminder for lesson %d: %v", lesson.ID, err)
			continue
		}
		if outcome.Sent || outcome.WouldSend {
			sent++
		}
	}

	logger.Infof("[Reminders] Run complete: %d reminder(s) for %s", sent, dayStart.Format("2006-01-02"))
	return sent, nil
}
