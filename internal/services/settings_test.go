package services

import (
	"testing"

	"github.com/dancedesk/dancedesk/internal/models"
	"github.com/dancedesk/dancedesk/pkg/response"
)

func TestCoerceValue_Boolean(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    string
		wantErr bool
	}{
		{name: "native true", raw: true, want: "true"},
		{name: "native false", raw: false, want: "false"},
		{name: "string true", raw: "true", want: "true"},
		{name: "string false", raw: "false", want: "false"},
		{name: "string TRUE uppercase", raw: "TRUE", want: "true"},
		{name: "string False mixed case", raw: "False", want: "false"},
		{name: "number rejected", raw: float64(1), wantErr: true},
		{name: "zero rejected", raw: float64(0), wantErr: true},
		{name: "yes rejected", raw: "yes", wantErr: true},
		{name: "empty string rejected", raw: "", wantErr: true},
		{name: "arbitrary string rejected", raw: "enabled", wantErr: true},
		{name: "nil rejected", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceValue(tt.raw, models.SettingTypeBoolean)
			if tt.wantErr {
				if err == nil {
					t.Errorf("coerceValue(%v, boolean) should fail, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceValue(%v, boolean) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("coerceValue(%v, boolean) = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceValue_Number(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    string
		wantErr bool
	}{
		{name: "integer", raw: float64(30), want: "30"},
		{name: "float", raw: 12.5, want: "12.5"},
		{name: "zero", raw: float64(0), want: "0"},
		{name: "negative", raw: -4.25, want: "-4.25"},
		{name: "numeric string rejected", raw: "30", wantErr: true},
		{name: "float string rejected", raw: "12.5", wantErr: true},
		{name: "boolean rejected", raw: true, wantErr: true},
		{name: "word rejected", raw: "thirty", wantErr: true},
		{name: "nil rejected", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceValue(tt.raw, models.SettingTypeNumber)
			if tt.wantErr {
				if err == nil {
					t.Errorf("coerceValue(%v, number) should fail, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceValue(%v, number) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("coerceValue(%v, number) = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceValue_String(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    string
		wantErr bool
	}{
		{name: "plain string", raw: "ocean", want: "ocean"},
		{name: "empty string allowed", raw: "", want: ""},
		{name: "looks like bool stays literal", raw: "false", want: "false"},
		{name: "looks like number stays literal", raw: "42", want: "42"},
		{name: "number rejected", raw: float64(42), wantErr: true},
		{name: "boolean rejected", raw: true, wantErr: true},
		{name: "nil rejected", raw: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceValue(tt.raw, models.SettingTypeString)
			if tt.wantErr {
				if err == nil {
					t.Errorf("coerceValue(%v, string) should fail, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceValue(%v, string) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("coerceValue(%v, string) = %q, expected %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeValue(t *testing.T) {
	if v := decodeValue("true", models.SettingTypeBoolean); v != true {
		t.Errorf("decodeValue(true, boolean) = %v, expected true", v)
	}
	if v := decodeValue("false", models.SettingTypeBoolean); v != false {
		t.Errorf("decodeValue(false, boolean) = %v, expected false", v)
	}
	if v := decodeValue("12.5", models.SettingTypeNumber); v != 12.5 {
		t.Errorf("decodeValue(12.5, number) = %v, expected 12.5", v)
	}
	if v := decodeValue("ocean", models.SettingTypeString); v != "ocean" {
		t.Errorf("decodeValue(ocean, string) = %v, expected ocean", v)
	}
}

func TestSettingService_UpdateStringRoundTrip(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	updated, err := service.Update(models.CategoryTheme, "selected_theme", "ocean", "admin")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Value != "ocean" {
		t.Errorf("updated value = %v, expected ocean", updated.Value)
	}

	view, err := service.GetByKey(models.CategoryTheme, "selected_theme")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if view.Value != "ocean" {
		t.Errorf("read-back value = %v, expected ocean", view.Value)
	}
	if view.DataType != models.SettingTypeString {
		t.Errorf("data_type = %q, expected string", view.DataType)
	}
	if view.UpdatedBy != "admin" {
		t.Errorf("updated_by = %q, expected admin", view.UpdatedBy)
	}
}

func TestSettingService_BooleanRoundTrip(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	// Native boolean write reads back as a real boolean
	if _, err := service.Update(models.CategoryNotification, "email_notifications_enabled", false, ""); err != nil {
		t.Fatalf("Update(false) failed: %v", err)
	}
	view, err := service.GetByKey(models.CategoryNotification, "email_notifications_enabled")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if view.Value != false {
		t.Errorf("value = %v (%T), expected false (bool)", view.Value, view.Value)
	}

	// The string "false" coerces to the real boolean false, not a truthy string
	if _, err := service.Update(models.CategoryNotification, "email_notifications_enabled", "true", ""); err != nil {
		t.Fatalf("Update(\"true\") failed: %v", err)
	}
	if _, err := service.Update(models.CategoryNotification, "email_notifications_enabled", "false", ""); err != nil {
		t.Fatalf("Update(\"false\") failed: %v", err)
	}
	view, err = service.GetByKey(models.CategoryNotification, "email_notifications_enabled")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if view.Value != false {
		t.Errorf("string \"false\" should decode to boolean false, got %v (%T)", view.Value, view.Value)
	}
}

func TestSettingService_UpdateRejectsWrongType(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	tests := []struct {
		name     string
		category string
		key      string
		raw      interface{}
	}{
		{name: "number for boolean", category: models.CategoryNotification, key: "email_notifications_enabled", raw: float64(1)},
		{name: "word for boolean", category: models.CategoryNotification, key: "email_notifications_enabled", raw: "on"},
		{name: "numeric string for number", category: models.CategorySystem, key: "log_retention_days", raw: "45"},
		{name: "bool for number", category: models.CategorySystem, key: "log_retention_days", raw: true},
		{name: "number for string", category: models.CategoryTheme, key: "selected_theme", raw: float64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := service.GetByKey(tt.category, tt.key)
			if err != nil {
				t.Fatalf("GetByKey failed: %v", err)
			}

			_, err = service.Update(tt.category, tt.key, tt.raw, "admin")
			if err == nil {
				t.Fatal("Update should reject mismatched value")
			}
			appErr, ok := err.(*response.AppError)
			if !ok {
				t.Fatalf("expected *response.AppError, got %T", err)
			}
			if appErr.Code != 400 {
				t.Errorf("error code = %d, expected 400", appErr.Code)
			}

			// Stored value unchanged after rejection
			after, err := service.GetByKey(tt.category, tt.key)
			if err != nil {
				t.Fatalf("GetByKey failed: %v", err)
			}
			if after.Value != before.Value {
				t.Errorf("value changed after rejected update: %v -> %v", before.Value, after.Value)
			}
		})
	}
}

func TestSettingService_UpdateUnknownKey(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	_, err := service.Update(models.CategoryTheme, "no_such_key", "x", "")
	if err == nil {
		t.Fatal("Update on unknown key should fail")
	}
	appErr, ok := err.(*response.AppError)
	if !ok {
		t.Fatalf("expected *response.AppError, got %T", err)
	}
	if appErr.Code != 404 {
		t.Errorf("error code = %d, expected 404", appErr.Code)
	}
}

func TestSettingService_GetByCategoryUnknown(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	_, err := service.GetByCategory("nonexistent")
	if err == nil {
		t.Fatal("GetByCategory on unknown category should fail")
	}
	appErr, ok := err.(*response.AppError)
	if !ok {
		t.Fatalf("expected *response.AppError, got %T", err)
	}
	if appErr.Code != 404 {
		t.Errorf("error code = %d, expected 404", appErr.Code)
	}
}

func TestSettingService_UpdateCategoryAtomic(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	before, err := service.GetByKey(models.CategoryNotification, "email_notifications_enabled")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}

	// One bad value rejects the whole batch
	_, err = service.UpdateCategory(models.CategoryNotification, map[string]interface{}{
		"email_notifications_enabled": !before.Value.(bool),
		"reminder_send_time":          float64(8),
	}, "admin")
	if err == nil {
		t.Fatal("UpdateCategory with a mismatched value should fail")
	}

	after, err := service.GetByKey(models.CategoryNotification, "email_notifications_enabled")
	if err != nil {
		t.Fatalf("GetByKey failed: %v", err)
	}
	if after.Value != before.Value {
		t.Errorf("batch was partially applied: %v -> %v", before.Value, after.Value)
	}
}

func TestSettingService_TypedAccessors(t *testing.T) {
	db := newTestDB(t)
	service := NewSettingService(db)

	if got := service.GetString(models.CategoryTheme, "selected_theme", "fallback"); got != "default" {
		t.Errorf("GetString = %q, expected default", got)
	}
	if got := service.GetString("missing", "missing", "fallback"); got != "fallback" {
		t.Errorf("GetString for missing key = %q, expected fallback", got)
	}
	if got := service.GetBool(models.CategoryNotification, "email_notifications_enabled", false); got != true {
		t.Errorf("GetBool = %v, expected true", got)
	}
	if got := service.GetNumber(models.CategorySystem, "log_retention_days", 7); got != 30 {
		t.Errorf("GetNumber = %v, expected 30", got)
	}
	if got := service.GetNumber("missing", "missing", 7); got != 7 {
		t.Errorf("GetNumber for missing key = %v, expected 7", got)
	}
}
