package models

import (
	"time"

	"gorm.io/gorm"
)

// Teacher is an instructor who can be assigned to lessons
type Teacher struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"size:100;not null" json:"first_name"`
	LastName    string         `gorm:"size:100;not null" json:"last_name"`
	Email       string         `gorm:"size:255;index" json:"email"`
	Phone       string         `gorm:"size:50" json:"phone"`
	Specialties string         `gorm:"size:500" json:"specialties"` // comma-separated: salsa,bachata,tango
	HourlyRate  float64        `json:"hourly_rate"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Teacher) TableName() string { return "teachers" }

// FullName returns the teacher's display name.
func (t *Teacher) FullName() string {
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}
