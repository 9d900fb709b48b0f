package services

import (
	"errors"
	"fmt"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"gorm.io/gorm"
)

type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

type CreateStudentRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type UpdateStudentRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Notes     *string `json:"notes"`
	IsActive  *bool   `json:"is_active"`
}

type StudentListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Active   string `form:"active"`
}

type StudentListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Student `json:"items"`
}

// DeleteStudentResult reports what a cascade removal touched.
type DeleteStudentResult struct {
	StudentID          uint  `json:"student_id"`
	LessonsRemoved     int64 `json:"lessons_removed"`
	EnrollmentsRemoved int64 `json:"enrollments_removed"`
}

func (s *StudentService) List(req *StudentListRequest) (*StudentListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var students []models.Student
	var total int64

	query := s.db.Model(&models.Student{})

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}
	if req.Active == "true" {
		query = query.Where("is_active = ?", true)
	} else if req.Active == "false" {
		query = query.Where("is_active = ?", false)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("last_name, first_name").Find(&students).Error; err != nil {
		return nil, err
	}

	return &StudentListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    students,
	}, nil
}

func (s *StudentService) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("student %d not found", id))
		}
		return nil, err
	}
	return &student, nil
}

func (s *StudentService) Create(req *CreateStudentRequest) (*models.Student, error) {
	student := models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		IsActive:  true,
	}
	if err := s.db.Create(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentService) Update(id uint, req *UpdateStudentRequest) (*models.Student, error) {
	student, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(student).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return student, nil
}

// Delete removes a student and everything hanging off them: lessons
// (with their teacher links) and enrollments. Remaining lesson credit
// on the enrollments is forfeited, never refunded. Deleting the same
// student twice is a not-found error on the second call.
func (s *StudentService) Delete(id uint) (*DeleteStudentResult, error) {
	student, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	result := &DeleteStudentResult{StudentID: student.ID}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&models.Lesson{}).Where("student_id = ?", student.ID).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Exec("DELETE FROM lesson_teachers WHERE lesson_id IN ?", lessonIDs).Error; err != nil {
				return err
			}
			res := tx.Where("student_id = ?", student.ID).Delete(&models.Lesson{})
			if res.Error != nil {
				return res.Error
			}
			result.LessonsRemoved = res.RowsAffected
		}

		res := tx.Where("student_id = ?", student.ID).Delete(&models.Enrollment{})
		if res.Error != nil {
			return res.Error
		}
		result.EnrollmentsRemoved = res.RowsAffected

		return tx.Delete(student).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
