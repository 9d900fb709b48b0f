package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is a purchased block of lessons for a student.
// Invariant: 0 <= RemainingLessons <= TotalLessons. RemainingLessons
// only decreases through the attendance transaction in the lesson
// service, one credit per attended lesson.
type Enrollment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Reference        string         `gorm:"uniqueIndex;size:36;not null" json:"reference"` // uuid shown on invoices
	StudentID        uint           `gorm:"index;not null" json:"student_id"`
	Student          *Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ProgramName      string         `gorm:"size:200;not null" json:"program_name"`
	TotalLessons     int            `gorm:"not null" json:"total_lessons"`
	RemainingLessons int            `gorm:"not null" json:"remaining_lessons"`
	TotalPaid        float64        `json:"total_paid"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Enrollment) TableName() string { return "enrollments" }
