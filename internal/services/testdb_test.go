package services

import (
	"testing"

	"github.com/dancedesk/dancedesk/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema
// migrated and default settings seeded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Student{},
		&models.Teacher{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.Setting{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	for _, s := range models.DefaultSettings() {
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("failed to seed settings: %v", err)
		}
	}

	return db
}

func createTestStudent(t *testing.T, db *gorm.DB) *models.Student {
	t.Helper()
	student := &models.Student{
		FirstName: "Maria",
		LastName:  "Lopez",
		Email:     "maria@example.com",
		IsActive:  true,
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("failed to create test student: %v", err)
	}
	return student
}

func createTestTeacher(t *testing.T, db *gorm.DB) *models.Teacher {
	t.Helper()
	teacher := &models.Teacher{
		FirstName:  "Ivan",
		LastName:   "Petrov",
		Email:      "ivan@example.com",
		HourlyRate: 45,
		IsActive:   true,
	}
	if err := db.Create(teacher).Error; err != nil {
		t.Fatalf("failed to create test teacher: %v", err)
	}
	return teacher
}
