package service

import (
	"errors"
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db), nil)
}

func createUser(t *testing.T, db *gorm.DB, email, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &model.User{Email: email, Password: string(hashed), IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUpdateProfilePartial(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createUser(t, db, "p@example.com", "secret-pass")

	first := "Sara"
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileRequest{FirstName: &first})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Sara" {
		t.Errorf("first name = %q", updated.FirstName)
	}

	phone := "+989121234567"
	updated, err = svc.UpdateProfile(user.ID, UpdateProfileRequest{Phone: &phone})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.FirstName != "Sara" {
		t.Error("omitted fields must keep their value")
	}
	if updated.Phone != phone {
		t.Errorf("phone = %q", updated.Phone)
	}
}

func TestUpdatePreferencesValidatesReferences(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createUser(t, db, "pref@example.com", "secret-pass")

	specialty := model.Specialty{Slug: "medicine", NameFa: "پزشکی", IsActive: true}
	if err := db.Create(&specialty).Error; err != nil {
		t.Fatalf("create specialty: %v", err)
	}

	updated, err := svc.UpdatePreferences(user.ID, UpdatePreferencesRequest{PrimarySpecialtyID: &specialty.ID})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if updated.PrimarySpecialtyID == nil || *updated.PrimarySpecialtyID != specialty.ID {
		t.Error("preference not stored")
	}

	missing := uint(9999)
	if _, err := svc.UpdatePreferences(user.ID, UpdatePreferencesRequest{PrimaryExamLevelID: &missing}); err == nil {
		t.Error("dangling preference id should be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createUser(t, db, "pw@example.com", "old-password-1")

	err := svc.ChangePassword(user.ID, ChangePasswordRequest{
		CurrentPassword: "wrong-guess-99",
		NewPassword:     "new-password-22",
	})
	if !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("wrong current password must fail, got %v", err)
	}

	err = svc.ChangePassword(user.ID, ChangePasswordRequest{
		CurrentPassword: "old-password-1",
		NewPassword:     "new-password-22",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	var reloaded model.User
	db.First(&reloaded, user.ID)
	if bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("new-password-22")) != nil {
		t.Error("new password does not verify")
	}
}
