package models

import (
	"fmt"

	"github.com/dancedesk/dancedesk/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Student{},
		&Teacher{},
		&Lesson{},
		&Enrollment{},
		&Setting{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// DefaultSettings returns the seeded configuration entries. Every
// category has at least one key so category listing is never empty on
// a fresh install.
func DefaultSettings() []Setting {
	return []Setting{
		{Category: CategoryBusiness, Key: "studio_name", Value: "DanceDesk Studio", DataType: SettingTypeString, Description: "Display name of the studio"},
		{Category: CategoryBusiness, Key: "contact_email", Value: "", DataType: SettingTypeString, Description: "Public contact email"},
		{Category: CategoryBusiness, Key: "contact_phone", Value: "", DataType: SettingTypeString, Description: "Public contact phone"},
		{Category: CategoryBusiness, Key: "timezone", Value: "America/New_York", DataType: SettingTypeString, Description: "Studio timezone (IANA name)"},

		{Category: CategorySystem, Key: "maintenance_mode", Value: "false", DataType: SettingTypeBoolean, Description: "Reject non-admin requests while enabled"},
		{Category: CategorySystem, Key: "log_retention_days", Value: "30", DataType: SettingTypeNumber, Description: "Days to keep audit logs"},

		{Category: CategoryTheme, Key: "selected_theme", Value: "default", DataType: SettingTypeString, Description: "Active UI theme"},
		{Category: CategoryTheme, Key: "dark_mode", Value: "false", DataType: SettingTypeBoolean, Description: "Dark mode enabled"},

		{Category: CategoryBooking, Key: "allow_online_booking", Value: "true", DataType: SettingTypeBoolean, Description: "Students may book lessons online"},
		{Category: CategoryBooking, Key: "cancellation_window_hours", Value: "24", DataType: SettingTypeNumber, Description: "Minimum notice before cancelling"},
		{Category: CategoryBooking, Key: "default_lesson_duration", Value: "60", DataType: SettingTypeNumber, Description: "Default lesson length in minutes"},

		{Category: CategoryCalendar, Key: "week_starts_on", Value: "monday", DataType: SettingTypeString, Description: "First day of the calendar week"},
		{Category: CategoryCalendar, Key: "holiday_country", Value: "US", DataType: SettingTypeString, Description: "Country code for holiday calendar (NONE = weekends only)"},
		{Category: CategoryCalendar, Key: "day_start_hour", Value: "9", DataType: SettingTypeNumber, Description: "First bookable hour of the day"},
		{Category: CategoryCalendar, Key: "day_end_hour", Value: "21", DataType: SettingTypeNumber, Description: "Last bookable hour of the day"},

		{Category: CategoryDisplay, Key: "date_format", Value: "2006-01-02", DataType: SettingTypeString, Description: "Date display format"},
		{Category: CategoryDisplay, Key: "currency_symbol", Value: "$", DataType: SettingTypeString, Description: "Currency symbol for amounts"},

		{Category: CategoryBusinessRules, Key: "credit_restore_on_cancel", Value: "false", DataType: SettingTypeBoolean, Description: "Restore a credit when an attended lesson is deleted (kept off: consumed credit stays consumed)"},
		{Category: CategoryBusinessRules, Key: "max_lessons_per_day", Value: "3", DataType: SettingTypeNumber, Description: "Max lessons a student may book per day"},

		{Category: CategoryProgram, Key: "default_program_length", Value: "10", DataType: SettingTypeNumber, Description: "Default number of lessons per program"},

		{Category: CategoryNotification, Key: "email_notifications_enabled", Value: "true", DataType: SettingTypeBoolean, Description: "Send email notifications"},
		{Category: CategoryNotification, Key: "reminder_send_time", Value: "08:00", DataType: SettingTypeString, Description: "Time of day lesson reminders go out (HH:MM)"},
		{Category: CategoryNotification, Key: "payment_reminder_days", Value: "3", DataType: SettingTypeNumber, Description: "Days before due date to send payment reminders"},
	}
}

// SeedDefaultData creates default settings if not exists
func SeedDefaultData() error {
	for _, s := range DefaultSettings() {
		var count int64
		DB.Model(&Setting{}).Where("category = ? AND `key` = ?", s.Category, s.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&s).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
