package service

import (
	"context"
	"fmt"
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"mime/multipart"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  StorageProvider
}

func NewUserService(userRepo *repository.UserRepository, storage StorageProvider) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

type UpdatePreferencesRequest struct {
	PrimarySpecialtyID    *uint `json:"primarySpecialtyId"`
	PrimaryExamLevelID    *uint `json:"primaryExamLevelId"`
	PrimarySubspecialtyID *uint `json:"primarySubspecialtyId"`
}

// UpdatePreferences sets the user's default position in the specialty
// hierarchy, used by clients to pre-filter the catalog.
func (s *UserService) UpdatePreferences(userID uint, req UpdatePreferencesRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.PrimarySpecialtyID != nil {
		if err := s.checkExists(&model.Specialty{}, *req.PrimarySpecialtyID); err != nil {
			return nil, err
		}
		user.PrimarySpecialtyID = req.PrimarySpecialtyID
	}
	if req.PrimaryExamLevelID != nil {
		if err := s.checkExists(&model.ExamLevel{}, *req.PrimaryExamLevelID); err != nil {
			return nil, err
		}
		user.PrimaryExamLevelID = req.PrimaryExamLevelID
	}
	if req.PrimarySubspecialtyID != nil {
		if err := s.checkExists(&model.Subspecialty{}, *req.PrimarySubspecialtyID); err != nil {
			return nil, err
		}
		user.PrimarySubspecialtyID = req.PrimarySubspecialtyID
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) checkExists(dest interface{}, id uint) error {
	err := s.UserRepo.DB.First(dest, id).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("referenced record %d not found", id)
	}
	return err
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func (s *UserService) ChangePassword(userID uint, req ChangePasswordRequest) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Update(user)
}

// UploadAvatar stores the file through the configured storage backend
// and records the resulting URL on the profile.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, header *multipart.FileHeader) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%d_%d%s", userID, time.Now().Unix(), filepath.Ext(header.Filename))
	url, err := s.Storage.Upload(ctx, filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
