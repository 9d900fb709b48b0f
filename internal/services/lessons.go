package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonService struct {
	db *gorm.DB
}

func NewLessonService(db *gorm.DB) *LessonService {
	return &LessonService{db: db}
}

type CreateLessonRequest struct {
	StudentID       uint      `json:"student_id" binding:"required"`
	TeacherIDs      []uint    `json:"teacher_ids"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1"`
	BookingType     string    `json:"booking_type"`
	EnrollmentID    *uint     `json:"enrollment_id"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
}

type UpdateLessonRequest struct {
	TeacherIDs      []uint     `json:"teacher_ids"`
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	BookingType     *string    `json:"booking_type"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`
}

type LessonListRequest struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	StudentID uint   `form:"student_id"`
	TeacherID uint   `form:"teacher_id"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type LessonListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Items    []models.Lesson `json:"items"`
}

func validBookingType(t string) bool {
	switch t {
	case models.BookingTypePrivate, models.BookingTypeGroup, models.BookingTypeWorkshop:
		return true
	}
	return false
}

func (s *LessonService) List(req *LessonListRequest) (*LessonListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var lessons []models.Lesson
	var total int64

	query := s.db.Model(&models.Lesson{})

	if req.StudentID != 0 {
		query = query.Where("student_id = ?", req.StudentID)
	}
	if req.TeacherID != 0 {
		query = query.Where("id IN (SELECT lesson_id FROM lesson_teachers WHERE teacher_id = ?)", req.TeacherID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.StartDate != "" {
		query = query.Where("start_time >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("start_time <= ?", req.EndDate+" 23:59:59")
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Student").Preload("Teachers").
		Offset(offset).Limit(req.PageSize).Order("start_time").Find(&lessons).Error; err != nil {
		return nil, err
	}

	return &LessonListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    lessons,
	}, nil
}

func (s *LessonService) GetByID(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.Preload("Student").Preload("Teachers").First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("lesson %d not found", id))
		}
		return nil, err
	}
	return &lesson, nil
}

func (s *LessonService) Create(req *CreateLessonRequest) (*models.Lesson, error) {
	var student models.Student
	if err := s.db.First(&student, req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("student %d not found", req.StudentID))
		}
		return nil, err
	}

	bookingType := req.BookingType
	if bookingType == "" {
		bookingType = models.BookingTypePrivate
	}
	if !validBookingType(bookingType) {
		return nil, response.NewBadRequest("invalid booking_type: " + bookingType)
	}

	var teachers []models.Teacher
	if len(req.TeacherIDs) > 0 {
		if err := s.db.Find(&teachers, req.TeacherIDs).Error; err != nil {
			return nil, err
		}
		if len(teachers) != len(req.TeacherIDs) {
			return nil, response.NewNotFound("one or more teachers not found")
		}
	}

	if req.EnrollmentID != nil {
		var enrollment models.Enrollment
		if err := s.db.First(&enrollment, *req.EnrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound(fmt.Sprintf("enrollment %d not found", *req.EnrollmentID))
			}
			return nil, err
		}
		if enrollment.StudentID != req.StudentID {
			return nil, response.NewBadRequest("enrollment belongs to a different student")
		}
	}

	lesson := models.Lesson{
		Reference:       uuid.NewString(),
		StudentID:       req.StudentID,
		Teachers:        teachers,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		BookingType:     bookingType,
		Status:          models.LessonStatusScheduled,
		EnrollmentID:    req.EnrollmentID,
		Location:        req.Location,
		Notes:           req.Notes,
	}
	if err := s.db.Create(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *LessonService) Update(id uint, req *UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if lesson.Status != models.LessonStatusScheduled {
		return nil, response.NewConflict("only scheduled lessons can be modified")
	}

	updates := map[string]interface{}{}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 1 {
			return nil, response.NewBadRequest("duration_minutes must be positive")
		}
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.BookingType != nil {
		if !validBookingType(*req.BookingType) {
			return nil, response.NewBadRequest("invalid booking_type: " + *req.BookingType)
		}
		updates["booking_type"] = *req.BookingType
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(lesson).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TeacherIDs != nil {
			var teachers []models.Teacher
			if len(req.TeacherIDs) > 0 {
				if err := tx.Find(&teachers, req.TeacherIDs).Error; err != nil {
					return err
				}
				if len(teachers) != len(req.TeacherIDs) {
					return response.NewNotFound("one or more teachers not found")
				}
			}
			if err := tx.Model(lesson).Association("Teachers").Replace(teachers); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*response.AppError); ok {
			return nil, appErr
		}
		return nil, err
	}
	return s.GetByID(id)
}

// MarkAttended transitions a scheduled lesson to attended and, when the
// lesson is linked to an enrollment, consumes exactly one lesson credit.
// The decrement is a conditional update guarded on remaining_lessons > 0
// so two racing calls cannot both deduct from the last credit. Marking
// an already-attended lesson is a conflict, not a second deduction.
func (s *LessonService) MarkAttended(id uint) (*models.Lesson, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound(fmt.Sprintf("lesson %d not found", id))
			}
			return err
		}

		switch lesson.Status {
		case models.LessonStatusAttended:
			return response.NewConflict("lesson already attended")
		case models.LessonStatusCancelled, models.LessonStatusNoShow:
			return response.NewConflict("cannot attend a " + lesson.Status + " lesson")
		}

		if lesson.EnrollmentID != nil {
			res := tx.Model(&models.Enrollment{}).
				Where("id = ? AND remaining_lessons > 0", *lesson.EnrollmentID).
				Update("remaining_lessons", gorm.Expr("remaining_lessons - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var enrollment models.Enrollment
				if err := tx.First(&enrollment, *lesson.EnrollmentID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return response.NewNotFound(fmt.Sprintf("enrollment %d not found", *lesson.EnrollmentID))
					}
					return err
				}
				return response.NewConflict("insufficient lesson credit")
			}
		}

		return tx.Model(&lesson).Update("status", models.LessonStatusAttended).Error
	})
	if err != nil {
		if appErr, ok := err.(*response.AppError); ok {
			return nil, appErr
		}
		return nil, err
	}
	return s.GetByID(id)
}

// Cancel marks a scheduled lesson cancelled. No credit is consumed and
// none is restored.
func (s *LessonService) Cancel(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("lesson %d not found", id))
		}
		return nil, err
	}

	if lesson.Status != models.LessonStatusScheduled {
		return nil, response.NewConflict("only scheduled lessons can be cancelled")
	}

	if err := s.db.Model(&lesson).Update("status", models.LessonStatusCancelled).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes a lesson. Credit already consumed by an attended
// lesson stays consumed.
func (s *LessonService) Delete(id uint) error {
	var lesson models.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound(fmt.Sprintf("lesson %d not found", id))
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM lesson_teachers WHERE lesson_id = ?", lesson.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&lesson).Error
	})
}
