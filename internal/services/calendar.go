package services

import (
	"time"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"gorm.io/gorm"
)

// CalendarService assembles the weekly schedule view: seven day buckets
// of lessons with holiday annotations from the configured country.
type CalendarService struct {
	db       *gorm.DB
	settings *SettingService
	holidays *HolidayService
}

func NewCalendarService(db *gorm.DB, holidays *HolidayService) *CalendarService {
	return &CalendarService{
		db:       db,
		settings: NewSettingService(db),
		holidays: holidays,
	}
}

type CalendarDay struct {
	Date        string          `json:"date"`
	Weekday     string          `json:"weekday"`
	IsWorkday   bool            `json:"is_workday"`
	IsHoliday   bool            `json:"is_holiday"`
	HolidayName string          `json:"holiday_name,omitempty"`
	Lessons     []models.Lesson `json:"lessons"`
}

type WeeklyCalendar struct {
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	HolidayCountry string        `json:"holiday_country"`
	Days           []CalendarDay `json:"days"`
}

// Weekly builds the seven-day view starting at startDate (YYYY-MM-DD).
func (s *CalendarService) Weekly(startDate string) (*WeeklyCalendar, error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return nil, response.NewBadRequest("invalid start_date, expected YYYY-MM-DD: " + startDate)
	}
	end := start.AddDate(0, 0, 7)

	var lessons []models.Lesson
	if err := s.db.Preload("Student").Preload("Teachers").
		Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time").
		Find(&lessons).Error; err != nil {
		return nil, err
	}

	country := s.settings.GetString(models.CategoryCalendar, "holiday_country", "US")

	week := &WeeklyCalendar{
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.AddDate(0, 0, -1).Format("2006-01-02"),
		HolidayCountry: country,
		Days:           make([]CalendarDay, 0, 7),
	}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		next := day.AddDate(0, 0, 1)

		bucket := CalendarDay{
			Date:      day.Format("2006-01-02"),
			Weekday:   day.Weekday().String(),
			IsWorkday: s.holidays.IsWorkday(day, country),
			IsHoliday: s.holidays.IsHoliday(day, country),
			Lessons:   []models.Lesson{},
		}
		if bucket.IsHoliday {
			bucket.HolidayName = s.holidays.HolidayName(day, country)
		}

		for _, lesson := range lessons {
			if !lesson.StartTime.Before(day) && lesson.StartTime.Before(next) {
				bucket.Lessons = append(bucket.Lessons, lesson)
			}
		}

		week.Days = append(week.Days, bucket)
	}

	return week, nil
}
