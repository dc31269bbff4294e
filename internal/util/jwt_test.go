package util

import (
	"medprep_backend/internal/model"
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Email: "doc@example.com", IsStaff: true}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", "jti-123", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "doc@example.com" || !claims.IsStaff {
		t.Errorf("claims round trip: %+v", claims)
	}
	if claims.ID != "jti-123" {
		t.Errorf("jti = %q", claims.ID)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("wrong secret must not verify")
	}
}

func TestParseExpiredJWT(t *testing.T) {
	user := &model.User{Email: "doc@example.com"}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", "jti-1", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Error("expired token must not verify")
	}
}
