package services

import (
	"time"

	"github.com/dancedesk/dancedesk/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	ActiveStudents     int64   `json:"active_students"`
	ActiveTeachers     int64   `json:"active_teachers"`
	LessonsThisWeek    int64   `json:"lessons_this_week"`
	LessonsToday       int64   `json:"lessons_today"`
	AttendanceRate     float64 `json:"attendance_rate"`
	OutstandingCredits int64   `json:"outstanding_credits"`
	TotalRevenue       float64 `json:"total_revenue"`
}

// GetStats assembles the landing-page numbers. The attendance rate
// covers finished lessons from the last 30 days; scheduled lessons do
// not count against it.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Student{}).Where("is_active = ?", true).Count(&stats.ActiveStudents).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Teacher{}).Where("is_active = ?", true).Count(&stats.ActiveTeachers).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Week starts on Monday
	offset := int(today.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	weekStart := today.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 7)

	if err := s.db.Model(&models.Lesson{}).
		Where("start_time >= ? AND start_time < ?", weekStart, weekEnd).
		Count(&stats.LessonsThisWeek).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Lesson{}).
		Where("start_time >= ? AND start_time < ?", today, today.AddDate(0, 0, 1)).
		Count(&stats.LessonsToday).Error; err != nil {
		return nil, err
	}

	since := now.AddDate(0, 0, -30)
	var finished, attended int64
	if err := s.db.Model(&models.Lesson{}).
		Where("start_time >= ? AND status IN ?", since,
			[]string{models.LessonStatusAttended, models.LessonStatusNoShow, models.LessonStatusCancelled}).
		Count(&finished).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Lesson{}).
		Where("start_time >= ? AND status = ?", since, models.LessonStatusAttended).
		Count(&attended).Error; err != nil {
		return nil, err
	}
	if finished > 0 {
		stats.AttendanceRate = float64(attended) / float64(finished) * 100
	}

	var remaining *int64
	if err := s.db.Model(&models.Enrollment{}).
		Select("SUM(remaining_lessons)").Scan(&remaining).Error; err != nil {
		return nil, err
	}
	if remaining != nil {
		stats.OutstandingCredits = *remaining
	}

	var revenue *float64
	if err := s.db.Model(&models.Enrollment{}).
		Select("SUM(total_paid)").Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}

	return stats, nil
}
