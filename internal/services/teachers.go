package services

import (
	"errors"
	"fmt"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"gorm.io/gorm"
)

type TeacherService struct {
	db *gorm.DB
}

func NewTeacherService(db *gorm.DB) *TeacherService {
	return &TeacherService{db: db}
}

type CreateTeacherRequest struct {
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Specialties string  `json:"specialties"`
	HourlyRate  float64 `json:"hourly_rate"`
}

type UpdateTeacherRequest struct {
	FirstName   *string  `json:"first_name"`
	LastName    *string  `json:"last_name"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Specialties *string  `json:"specialties"`
	HourlyRate  *float64 `json:"hourly_rate"`
	IsActive    *bool    `json:"is_active"`
}

type TeacherListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
	Active   string `form:"active"`
}

type TeacherListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Teacher `json:"items"`
}

// DeleteTeacherResult reports how many lesson assignments were detached.
type DeleteTeacherResult struct {
	TeacherID       uint  `json:"teacher_id"`
	LessonsDetached int64 `json:"lessons_detached"`
}

func (s *TeacherService) List(req *TeacherListRequest) (*TeacherListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var teachers []models.Teacher
	var total int64

	query := s.db.Model(&models.Teacher{})

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR specialties LIKE ?", like, like, like)
	}
	if req.Active == "true" {
		query = query.Where("is_active = ?", true)
	} else if req.Active == "false" {
		query = query.Where("is_active = ?", false)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("last_name, first_name").Find(&teachers).Error; err != nil {
		return nil, err
	}

	return &TeacherListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    teachers,
	}, nil
}

func (s *TeacherService) GetByID(id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := s.db.First(&teacher, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("teacher %d not found", id))
		}
		return nil, err
	}
	return &teacher, nil
}

func (s *TeacherService) Create(req *CreateTeacherRequest) (*models.Teacher, error) {
	teacher := models.Teacher{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Specialties: req.Specialties,
		HourlyRate:  req.HourlyRate,
		IsActive:    true,
	}
	if err := s.db.Create(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (s *TeacherService) Update(id uint, req *UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.GetByID(id)
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
	if req.Specialties != nil {
		updates["specialties"] = *req.Specialties
	}
	if req.HourlyRate != nil {
		updates["hourly_rate"] = *req.HourlyRate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(teacher).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return teacher, nil
}

// Delete removes a teacher and detaches them from any lessons they were
// assigned to. The lessons themselves stay on the schedule.
func (s *TeacherService) Delete(id uint) (*DeleteTeacherResult, error) {
	teacher, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	result := &DeleteTeacherResult{TeacherID: teacher.ID}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM lesson_teachers WHERE teacher_id = ?", teacher.ID)
		if res.Error != nil {
			return res.Error
		}
		result.LessonsDetached = res.RowsAffected

		return tx.Delete(teacher).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
