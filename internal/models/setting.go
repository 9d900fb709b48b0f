package models

import "time"

// Setting data types
const (
	SettingTypeString  = "string"
	SettingTypeBoolean = "boolean"
	SettingTypeNumber  = "number"
)

// Setting categories. The set is extensible; these are the ones seeded.
const (
	CategoryBusiness      = "business"
	CategorySystem        = "system"
	CategoryTheme         = "theme"
	CategoryBooking       = "booking"
	CategoryCalendar      = "calendar"
	CategoryDisplay       = "display"
	CategoryBusinessRules = "business_rules"
	CategoryProgram       = "program"
	CategoryNotification  = "notification"
)

// Setting is a typed configuration entry (stored in database).
// Value always holds the canonical string form of a value that parses
// as DataType; the settings service enforces this at the write boundary.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Category    string    `gorm:"size:50;not null;index;uniqueIndex:idx_settings_category_key" json:"category"`
	Key         string    `gorm:"size:100;not null;uniqueIndex:idx_settings_category_key" json:"key"`
	Value       string    `gorm:"type:text" json:"-"`
	DataType    string    `gorm:"size:20;default:string" json:"data_type"` // string, boolean, number
	Description string    `gorm:"size:500" json:"description"`
	UpdatedBy   string    `gorm:"size:100" json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
