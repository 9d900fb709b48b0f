package services

import (
	"errors"
	"fmt"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

type CreateEnrollmentRequest struct {
	StudentID    uint    `json:"student_id" binding:"required"`
	ProgramName  string  `json:"program_name" binding:"required"`
	TotalLessons int     `json:"total_lessons" binding:"required,min=1"`
	TotalPaid    float64 `json:"total_paid"`
}

// UpdateEnrollmentRequest carries a partial update; nil fields keep
// their current value.
type UpdateEnrollmentRequest struct {
	ProgramName  *string  `json:"program_name"`
	TotalLessons *int     `json:"total_lessons"`
	TotalPaid    *float64 `json:"total_paid"`
}

type EnrollmentListRequest struct {
	Page      int  `form:"page"`
	PageSize  int  `form:"page_size"`
	StudentID uint `form:"student_id"`
}

type EnrollmentListResponse struct {
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Items    []models.Enrollment `json:"items"`
}

// CreditSummary is the per-student lesson-credit overview.
type CreditSummary struct {
	StudentID        uint                `json:"student_id"`
	TotalLessons     int                 `json:"total_lessons"`
	RemainingLessons int                 `json:"remaining_lessons"`
	AttendedLessons  int64               `json:"attended_lessons"`
	Enrollments      []models.Enrollment `json:"enrollments"`
}

// DeleteEnrollmentResult reports how many lessons were unlinked.
type DeleteEnrollmentResult struct {
	EnrollmentID    uint  `json:"enrollment_id"`
	LessonsDetached int64 `json:"lessons_detached"`
}

func (s *EnrollmentService) List(req *EnrollmentListRequest) (*EnrollmentListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var enrollments []models.Enrollment
	var total int64

	query := s.db.Model(&models.Enrollment{})
	if req.StudentID != 0 {
		query = query.Where("student_id = ?", req.StudentID)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Student").Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return &EnrollmentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    enrollments,
	}, nil
}

func (s *EnrollmentService) GetByID(id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.Preload("Student").First(&enrollment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("enrollment %d not found", id))
		}
		return nil, err
	}
	return &enrollment, nil
}

// Create opens a new lesson block. The remaining balance starts equal
// to the purchased total.
func (s *EnrollmentService) Create(req *CreateEnrollmentRequest) (*models.Enrollment, error) {
	var student models.Student
	if err := s.db.First(&student, req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("student %d not found", req.StudentID))
		}
		return nil, err
	}

	if req.TotalLessons < 1 {
		return nil, response.NewBadRequest("total_lessons must be at least 1")
	}
	if req.TotalPaid < 0 {
		return nil, response.NewBadRequest("total_paid cannot be negative")
	}

	enrollment := models.Enrollment{
		Reference:        uuid.NewString(),
		StudentID:        req.StudentID,
		ProgramName:      req.ProgramName,
		TotalLessons:     req.TotalLessons,
		RemainingLessons: req.TotalLessons,
		TotalPaid:        req.TotalPaid,
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Update amends an enrollment's program name, purchase amount, or size.
// Resizing total_lessons keeps the already-consumed credits: the
// remaining balance moves by the same delta, and a total below what the
// student has consumed is rejected.
func (s *EnrollmentService) Update(id uint, req *UpdateEnrollmentRequest) (*models.Enrollment, error) {
	enrollment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.ProgramName != nil {
		if *req.ProgramName == "" {
			return nil, response.NewBadRequest("program_name cannot be empty")
		}
		updates["program_name"] = *req.ProgramName
	}
	if req.TotalPaid != nil {
		if *req.TotalPaid < 0 {
			return nil, response.NewBadRequest("total_paid cannot be negative")
		}
		updates["total_paid"] = *req.TotalPaid
	}
	if req.TotalLessons != nil {
		newTotal := *req.TotalLessons
		consumed := enrollment.TotalLessons - enrollment.RemainingLessons
		if newTotal < 1 {
			return nil, response.NewBadRequest("total_lessons must be at least 1")
		}
		if newTotal < consumed {
			return nil, response.NewBadRequest(fmt.Sprintf(
				"total_lessons cannot drop below the %d lessons already attended", consumed))
		}
		updates["total_lessons"] = newTotal
		updates["remaining_lessons"] = newTotal - consumed
	}

	if len(updates) == 0 {
		return enrollment, nil
	}
	if err := s.db.Model(enrollment).Updates(updates).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetCreditSummary aggregates a student's balances across all of their
// enrollments.
func (s *EnrollmentService) GetCreditSummary(studentID uint) (*CreditSummary, error) {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("student %d not found", studentID))
		}
		return nil, err
	}

	var enrollments []models.Enrollment
	if err := s.db.Where("student_id = ?", studentID).Order("created_at").Find(&enrollments).Error; err != nil {
		return nil, err
	}

	summary := &CreditSummary{
		StudentID:   studentID,
		Enrollments: enrollments,
	}
	for _, e := range enrollments {
		summary.TotalLessons += e.TotalLessons
		summary.RemainingLessons += e.RemainingLessons
	}

	if err := s.db.Model(&models.Lesson{}).
		Where("student_id = ? AND status = ?", studentID, models.LessonStatusAttended).
		Count(&summary.AttendedLessons).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// Delete removes an enrollment. Linked lessons stay on the schedule but
// lose their enrollment link; any credit they consumed is gone with the
// enrollment.
func (s *EnrollmentService) Delete(id uint) (*DeleteEnrollmentResult, error) {
	enrollment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	result := &DeleteEnrollmentResult{EnrollmentID: enrollment.ID}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Lesson{}).
			Where("enrollment_id = ?", enrollment.ID).
			Update("enrollment_id", nil)
		if res.Error != nil {
			return res.Error
		}
		result.LessonsDetached = res.RowsAffected

		return tx.Delete(enrollment).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
