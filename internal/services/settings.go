package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
	"gorm.io/gorm"
)

// SettingService reads and writes typed configuration entries. All
// writes pass through the coercion table: a value that does not match
// the entry's declared data_type is rejected, never stored as a
// stringly-typed surrogate.
type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

// SettingView is a Setting with its value rendered in the runtime type
// declared by data_type (bool, float64, or string).
type SettingView struct {
	ID          uint        `json:"id"`
	Category    string      `json:"category"`
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	DataType    string      `json:"data_type"`
	Description string      `json:"description,omitempty"`
	UpdatedBy   string      `json:"updated_by,omitempty"`
	UpdatedAt   string      `json:"updated_at"`
}

func toView(s *models.Setting) SettingView {
	return SettingView{
		ID:          s.ID,
		Category:    s.Category,
		Key:         s.Key,
		Value:       decodeValue(s.Value, s.DataType),
		DataType:    s.DataType,
		Description: s.Description,
		UpdatedBy:   s.UpdatedBy,
		UpdatedAt:   s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// decodeValue turns the canonical stored string back into the runtime
// type declared by dataType.
func decodeValue(value, dataType string) interface{} {
	switch dataType {
	case models.SettingTypeBoolean:
		return value == "true"
	case models.SettingTypeNumber:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return float64(0)
		}
		return f
	default:
		return value
	}
}

// coerceValue validates raw against the declared data type and returns
// the canonical string form to persist. The coercion table is closed:
//
//	boolean: bool, or the strings "true"/"false" (case-insensitive)
//	number:  JSON numbers only (no numeric strings)
//	string:  strings only
//
// Anything else is a validation error.
func coerceValue(raw interface{}, dataType string) (string, error) {
	switch dataType {
	case models.SettingTypeBoolean:
		switch v := raw.(type) {
		case bool:
			return strconv.FormatBool(v), nil
		case string:
			switch strings.ToLower(v) {
			case "true":
				return "true", nil
			case "false":
				return "false", nil
			}
		}
		return "", response.NewBadRequest(fmt.Sprintf("value %v is not a boolean (accepted: true, false, \"true\", \"false\")", raw))

	case models.SettingTypeNumber:
		switch v := raw.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case json.Number:
			if _, err := v.Float64(); err != nil {
				return "", response.NewBadRequest(fmt.Sprintf("value %v is not a number", raw))
			}
			return v.String(), nil
		}
		return "", response.NewBadRequest(fmt.Sprintf("value %v is not a number", raw))

	case models.SettingTypeString:
		if v, ok := raw.(string); ok {
			return v, nil
		}
		return "", response.NewBadRequest(fmt.Sprintf("value %v is not a string", raw))
	}

	return "", response.NewBadRequest("unknown setting data type: " + dataType)
}

// GetAll returns every setting ordered by category then key.
func (s *SettingService) GetAll() ([]SettingView, error) {
	var settings []models.Setting
	if err := s.db.Order("category, `key`").Find(&settings).Error; err != nil {
		return nil, err
	}

	views := make([]SettingView, 0, len(settings))
	for i := range settings {
		views = append(views, toView(&settings[i]))
	}
	return views, nil
}

// GetByCategory returns all settings in a category. An unknown category
// is a not-found error.
func (s *SettingService) GetByCategory(category string) ([]SettingView, error) {
	var settings []models.Setting
	if err := s.db.Where("category = ?", category).Order("`key`").Find(&settings).Error; err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, response.NewNotFound("unknown settings category: " + category)
	}

	views := make([]SettingView, 0, len(settings))
	for i := range settings {
		views = append(views, toView(&settings[i]))
	}
	return views, nil
}

// GetByKey returns a single setting.
func (s *SettingService) GetByKey(category, key string) (*SettingView, error) {
	var setting models.Setting
	err := s.db.Where("category = ? AND `key` = ?", category, key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("setting %s/%s not found", category, key))
		}
		return nil, err
	}
	view := toView(&setting)
	return &view, nil
}

// Update coerces raw into the existing entry's declared data type and
// persists it. updated_at refreshes on every successful write and
// updated_by is recorded when supplied.
func (s *SettingService) Update(category, key string, raw interface{}, updatedBy string) (*SettingView, error) {
	var setting models.Setting
	err := s.db.Where("category = ? AND `key` = ?", category, key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("setting %s/%s not found", category, key))
		}
		return nil, err
	}

	canonical, err := coerceValue(raw, setting.DataType)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"value": canonical}
	if updatedBy != "" {
		updates["updated_by"] = updatedBy
	}
	if err := s.db.Model(&setting).Updates(updates).Error; err != nil {
		return nil, err
	}

	view := toView(&setting)
	return &view, nil
}

// applyUpdate coerces and persists one key inside an open transaction.
func applyUpdate(tx *gorm.DB, category, key string, raw interface{}, updatedBy string) (*SettingView, error) {
	var setting models.Setting
	err := tx.Where("category = ? AND `key` = ?", category, key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("setting %s/%s not found", category, key))
		}
		return nil, err
	}

	canonical, err := coerceValue(raw, setting.DataType)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"value": canonical}
	if updatedBy != "" {
		updates["updated_by"] = updatedBy
	}
	if err := tx.Model(&setting).Updates(updates).Error; err != nil {
		return nil, err
	}
	view := toView(&setting)
	return &view, nil
}

// UpdateCategory applies a batch of key/value updates within one
// category as a single transaction; one bad value rejects the batch.
func (s *SettingService) UpdateCategory(category string, values map[string]interface{}, updatedBy string) ([]SettingView, error) {
	var views []SettingView

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for key, raw := range values {
			view, err := applyUpdate(tx, category, key, raw, updatedBy)
			if err != nil {
				return err
			}
			views = append(views, *view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// UpdateAll applies updates spanning several categories, shaped as
// {category: {key: value}}, in one transaction. A single bad value or
// unknown key rejects the whole batch.
func (s *SettingService) UpdateAll(values map[string]map[string]interface{}, updatedBy string) ([]SettingView, error) {
	var views []SettingView

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for category, keys := range values {
			for key, raw := range keys {
				view, err := applyUpdate(tx, category, key, raw, updatedBy)
				if err != nil {
					return err
				}
				views = append(views, *view)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// --- Typed accessors used by other services ---

// GetString returns a string setting or defaultValue when absent.
func (s *SettingService) GetString(category, key, defaultValue string) string {
	var setting models.Setting
	if err := s.db.Where("category = ? AND `key` = ?", category, key).First(&setting).Error; err != nil {
		return defaultValue
	}
	return setting.Value
}

// GetBool returns a boolean setting or defaultValue when absent.
func (s *SettingService) GetBool(category, key string, defaultValue bool) bool {
	var setting models.Setting
	if err := s.db.Where("category = ? AND `key` = ?", category, key).First(&setting).Error; err != nil {
		return defaultValue
	}
	return setting.Value == "true"
}

// GetNumber returns a numeric setting or defaultValue when absent or unparsable.
func (s *SettingService) GetNumber(category, key string, defaultValue float64) float64 {
	var setting models.Setting
	if err := s.db.Where("category = ? AND `key` = ?", category, key).First(&setting).Error; err != nil {
		return defaultValue
	}
	f, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}
