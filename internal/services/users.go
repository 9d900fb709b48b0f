package services

import (
	"errors"
	"fmt"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/internal/utils"
	"github.com/dancedesk/dancedesk/pkg/response"
	"gorm.io/gorm"
)

// UserService covers admin-side account management.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

type UserListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []models.User `json:"items"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Nickname *string `json:"nickname"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (s *UserService) List(req *UserListRequest) (*UserListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("username LIKE ? OR nickname LIKE ? OR email LIKE ?", like, like, like)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return &UserListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    users,
	}, nil
}

func (s *UserService) Update(id uint, req *UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("user %d not found", id))
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Role != nil {
		if *req.Role != "admin" && *req.Role != "staff" {
			return nil, response.NewBadRequest("role must be admin or staff")
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// ResetPassword sets a new password without requiring the old one.
// Admin-only operation.
func (s *UserService) ResetPassword(id uint, newPassword string) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound(fmt.Sprintf("user %d not found", id))
		}
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("password", hashed).Error
}

// Delete removes a user account. The last remaining admin cannot be
// deleted.
func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound(fmt.Sprintf("user %d not found", id))
		}
		return err
	}

	if user.Role == "admin" {
		var admins int64
		s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&admins)
		if admins <= 1 {
			return response.NewConflict("cannot delete the last admin")
		}
	}

	return s.db.Delete(&user).Error
}
