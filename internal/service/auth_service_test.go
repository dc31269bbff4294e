package service

import (
	"context"
	"errors"
	"medprep_backend/internal/config"
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), nil, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Email: "doc@example.com", Password: "hunter2boardexam"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "hunter2boardexam" {
		t.Error("password stored in the clear")
	}

	dup := &model.User{Email: "doc@example.com", Password: "whatever1234"}
	if err := svc.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("expected ErrEmailRegistered, got %v", err)
	}

	token, logged, err := svc.Login("doc@example.com", "hunter2boardexam")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if logged.LastLogin == nil {
		var reloaded model.User
		db.First(&reloaded, logged.ID)
		if reloaded.LastLogin == nil {
			t.Error("login should stamp last_login")
		}
	}

	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user = %d, want %d", claims.UserID, user.ID)
	}
	if claims.ID == "" {
		t.Error("token should carry a jti for revocation")
	}

	if _, _, err := svc.Login("doc@example.com", "wrong-password"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "hunter2boardexam"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Email: "gone@example.com", Password: "hunter2boardexam"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, _, err := svc.Login("gone@example.com", "hunter2boardexam"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("inactive account must not log in, got %v", err)
	}
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	claims := &util.Claims{}
	claims.ID = "some-token-id"

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("logout without redis: %v", err)
	}
	if svc.IsTokenRevoked(context.Background(), "some-token-id") {
		t.Error("without redis nothing is revoked")
	}
}
