package services

import (
	"testing"
	"time"

	"github.com/dancedesk/dancedesk/internal/models"
)

func TestHolidayService_IsWorkday(t *testing.T) {
	svc := NewHolidayService()

	tests := []struct {
		name    string
		date    time.Time
		country string
		want    bool
	}{
		{name: "US Christmas", date: time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local), country: "US", want: false},
		{name: "US regular Tuesday", date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local), country: "US", want: true},
		{name: "US Saturday", date: time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local), country: "US", want: false},
		{name: "NONE skips only weekends", date: time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local), country: "NONE", want: true},
		{name: "NONE Sunday", date: time.Date(2026, 9, 13, 0, 0, 0, 0, time.Local), country: "NONE", want: false},
		{name: "unknown code falls back to weekends", date: time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local), country: "XX", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsWorkday(tt.date, tt.country); got != tt.want {
				t.Errorf("IsWorkday(%s, %s) = %v, expected %v", tt.date.Format("2006-01-02"), tt.country, got, tt.want)
			}
		})
	}
}

func TestHolidayService_IsHoliday(t *testing.T) {
	svc := NewHolidayService()

	christmas := time.Date(2026, 12, 25, 0, 0, 0, 0, time.Local)
	if !svc.IsHoliday(christmas, "US") {
		t.Error("Dec 25 should be a US holiday")
	}
	if name := svc.HolidayName(christmas, "US"); name == "" {
		t.Error("US Christmas should have a holiday name")
	}

	ordinary := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	if svc.IsHoliday(ordinary, "US") {
		t.Error("an ordinary Tuesday should not be a holiday")
	}
	if svc.IsHoliday(christmas, "XX") {
		t.Error("unknown country codes have no holidays")
	}
}

func TestCalendarService_Weekly(t *testing.T) {
	db := newTestDB(t)
	lessons := NewLessonService(db)
	calendar := NewCalendarService(db, NewHolidayService())
	student := createTestStudent(t, db)

	// Week of Monday 2026-09-14
	monday := time.Date(2026, 9, 14, 10, 0, 0, 0, time.Local)
	wednesday := time.Date(2026, 9, 16, 18, 30, 0, 0, time.Local)
	nextMonday := time.Date(2026, 9, 21, 10, 0, 0, 0, time.Local)

	for _, start := range []time.Time{monday, wednesday, nextMonday} {
		if _, err := lessons.Create(&CreateLessonRequest{
			StudentID:       student.ID,
			StartTime:       start,
			DurationMinutes: 60,
		}); err != nil {
			t.Fatalf("failed to create lesson: %v", err)
		}
	}

	week, err := calendar.Weekly("2026-09-14")
	if err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}

	if len(week.Days) != 7 {
		t.Fatalf("days = %d, expected 7", len(week.Days))
	}
	if week.StartDate != "2026-09-14" || week.EndDate != "2026-09-20" {
		t.Errorf("range = %s..%s, expected 2026-09-14..2026-09-20", week.StartDate, week.EndDate)
	}
	if week.HolidayCountry != "US" {
		t.Errorf("holiday_country = %q, expected the seeded default US", week.HolidayCountry)
	}

	if len(week.Days[0].Lessons) != 1 {
		t.Errorf("Monday bucket has %d lessons, expected 1", len(week.Days[0].Lessons))
	}
	if len(week.Days[2].Lessons) != 1 {
		t.Errorf("Wednesday bucket has %d lessons, expected 1", len(week.Days[2].Lessons))
	}

	// The lesson on the following Monday is outside this week
	total := 0
	for _, day := range week.Days {
		total += len(day.Lessons)
	}
	if total != 2 {
		t.Errorf("week contains %d lessons, expected 2", total)
	}

	// Weekend days are not workdays
	if week.Days[5].IsWorkday || week.Days[6].IsWorkday {
		t.Error("Saturday and Sunday should not be workdays")
	}
	if week.Days[5].Weekday != "Saturday" {
		t.Errorf("day 5 weekday = %q, expected Saturday", week.Days[5].Weekday)
	}
}

func TestCalendarService_WeeklyBadDate(t *testing.T) {
	db := newTestDB(t)
	calendar := NewCalendarService(db, NewHolidayService())

	if _, err := calendar.Weekly("14-09-2026"); err == nil {
		t.Error("Weekly with a malformed date should fail")
	}
}

func TestCalendarService_HolidayCountrySetting(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingService(db)
	calendar := NewCalendarService(db, NewHolidayService())

	if _, err := settings.Update(models.CategoryCalendar, "holiday_country", "NONE", "admin"); err != nil {
		t.Fatalf("failed to update holiday_country: %v", err)
	}

	// Week containing Christmas Friday 2026-12-25; with NONE it stays a workday
	week, err := calendar.Weekly("2026-12-21")
	if err != nil {
		t.Fatalf("Weekly failed: %v", err)
	}
	if week.HolidayCountry != "NONE" {
		t.Errorf("holiday_country = %q, expected NONE", week.HolidayCountry)
	}
	friday := week.Days[4]
	if friday.Date != "2026-12-25" {
		t.Fatalf("day 4 = %s, expected 2026-12-25", friday.Date)
	}
	if !friday.IsWorkday || friday.IsHoliday {
		t.Error("with holiday_country NONE, Christmas Friday stays an ordinary workday")
	}
}
