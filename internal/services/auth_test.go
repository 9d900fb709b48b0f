package services

import (
	"testing"

	"github.com/dancedesk/dancedesk/internal/config"
	"github.com/dancedesk/dancedesk/internal/utils"
	"github.com/dancedesk/dancedesk/pkg/response"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	utils.SetJWTSecret("test-secret")
	db := newTestDB(t)
	return NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireHour: 24})
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	svc := newTestAuthService(t)

	first, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if first.Role != "admin" {
		t.Errorf("first user role = %q, expected admin", first.Role)
	}

	second, err := svc.Register(&RegisterRequest{Username: "frontdesk", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if second.Role != "staff" {
		t.Errorf("second user role = %q, expected staff", second.Role)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Register(&RegisterRequest{Username: "owner", Password: "other456"})
	if err == nil {
		t.Fatal("duplicate username should fail")
	}
	appErr, ok := err.(*response.AppError)
	if !ok {
		t.Fatalf("expected *response.AppError, got %T", err)
	}
	if appErr.Code != 409 {
		t.Errorf("error code = %d, expected 409", appErr.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(&LoginRequest{Username: "owner", Password: "secret123"}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("access token should not be empty")
	}
	if result.RefreshToken == "" {
		t.Error("refresh token should not be empty")
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Username != "owner" {
		t.Errorf("claims username = %q, expected owner", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("claims role = %q, expected admin", claims.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, tc := range []LoginRequest{
		{Username: "owner", Password: "wrong"},
		{Username: "nobody", Password: "secret123"},
	} {
		_, err := svc.Login(&tc, "127.0.0.1", "test-agent")
		if err == nil {
			t.Fatalf("Login(%s) should fail", tc.Username)
		}
		appErr, ok := err.(*response.AppError)
		if !ok {
			t.Fatalf("expected *response.AppError, got %T", err)
		}
		if appErr.Code != 401 {
			t.Errorf("error code = %d, expected 401 for %s", appErr.Code, tc.Username)
		}
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	login, err := svc.Login(&LoginRequest{Username: "owner", Password: "secret123"}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	refreshed, err := svc.Refresh(login.RefreshToken, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh should rotate the token")
	}

	// The old token is revoked by rotation
	if _, err := svc.Refresh(login.RefreshToken, "127.0.0.1", "test-agent"); err == nil {
		t.Error("reusing a rotated refresh token should fail")
	}

	// The new token still works
	if _, err := svc.Refresh(refreshed.RefreshToken, "127.0.0.1", "test-agent"); err != nil {
		t.Errorf("refreshing with the rotated token failed: %v", err)
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	login, err := svc.Login(&LoginRequest{Username: "owner", Password: "secret123"}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.RevokeRefreshToken(login.RefreshToken); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}
	if _, err := svc.Refresh(login.RefreshToken, "127.0.0.1", "test-agent"); err == nil {
		t.Error("refreshing with a revoked token should fail")
	}
}

func TestChangePassword(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(&RegisterRequest{Username: "owner", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpass1"}); err == nil {
		t.Error("ChangePassword with wrong old password should fail")
	}

	if err := svc.ChangePassword(user.ID, &ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newpass1"}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Login(&LoginRequest{Username: "owner", Password: "secret123"}, "", ""); err == nil {
		t.Error("old password should no longer work")
	}
	if _, err := svc.Login(&LoginRequest{Username: "owner", Password: "newpass1"}, "", ""); err != nil {
		t.Errorf("new password should work: %v", err)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc := newTestAuthService(t)

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists failed: %v", err)
	}
	if !svc.HasUsers() {
		t.Fatal("default admin should exist")
	}

	// Idempotent on a second call
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("second CreateAdminIfNotExists failed: %v", err)
	}

	result, err := svc.Login(&LoginRequest{Username: "admin", Password: "admin"}, "", "")
	if err != nil {
		t.Fatalf("default admin login failed: %v", err)
	}
	if result.User.Role != "admin" {
		t.Errorf("role = %q, expected admin", result.User.Role)
	}
}
