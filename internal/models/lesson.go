package models

import (
	"time"

	"gorm.io/gorm"
)

// Lesson statuses
const (
	LessonStatusScheduled = "scheduled"
	LessonStatusAttended  = "attended"
	LessonStatusCancelled = "cancelled"
	LessonStatusNoShow    = "no_show"
)

// Booking types
const (
	BookingTypePrivate  = "private"
	BookingTypeGroup    = "group"
	BookingTypeWorkshop = "workshop"
)

// Lesson is a scheduled session for a student with one or more teachers.
// When EnrollmentID is set, marking the lesson attended consumes one
// credit from that enrollment. Deleting a lesson never restores credit
// already consumed.
type Lesson struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Reference       string         `gorm:"uniqueIndex;size:36;not null" json:"reference"` // uuid, used in booking confirmations
	StudentID       uint           `gorm:"index;not null" json:"student_id"`
	Student         *Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Teachers        []Teacher      `gorm:"many2many:lesson_teachers" json:"teachers,omitempty"`
	StartTime       time.Time      `gorm:"index;not null" json:"start_time"`
	DurationMinutes int            `gorm:"default:60" json:"duration_minutes"`
	BookingType     string         `gorm:"size:20;default:private" json:"booking_type"` // private, group, workshop
	Status          string         `gorm:"size:20;default:scheduled;index" json:"status"`
	EnrollmentID    *uint          `gorm:"index" json:"enrollment_id"`
	Location        string         `gorm:"size:200" json:"location"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lesson) TableName() string { return "lessons" }

// EndTime returns the lesson's scheduled end.
func (l *Lesson) EndTime() time.Time {
	return l.StartTime.Add(time.Duration(l.DurationMinutes) * time.Minute)
}
