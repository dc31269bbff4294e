package repository

import (
	"medprep_backend/internal/model"

	"gorm.io/gorm"
)

type StudyRepository struct {
	DB *gorm.DB
}

func NewStudyRepository(db *gorm.DB) *StudyRepository {
	return &StudyRepository{DB: db}
}

func (r *StudyRepository) FindProgress(userID, topicID uint) (*model.UserStudyProgress, error) {
	var progress model.UserStudyProgress
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *StudyRepository) SaveProgress(progress *model.UserStudyProgress) error {
	return r.DB.Save(progress).Error
}

func (r *StudyRepository) CreateProgress(progress *model.UserStudyProgress) error {
	return r.DB.Create(progress).Error
}

// LastAttemptNumber returns 0 when the user has never tried the
// question in this topic.
func (r *StudyRepository) LastAttemptNumber(tx *gorm.DB, userID, topicID, questionID uint) (int, error) {
	var last int
	err := tx.Model(&model.UserTopicQuestionAttempt{}).
		Where("user_id = ? AND topic_id = ? AND question_id = ?", userID, topicID, questionID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&last).Error
	return last, err
}

func (r *StudyRepository) CreateQuestionAttempt(tx *gorm.DB, attempt *model.UserTopicQuestionAttempt) error {
	return tx.Create(attempt).Error
}

func (r *StudyRepository) ListQuestionAttempts(userID, topicID uint) ([]model.UserTopicQuestionAttempt, error) {
	var attempts []model.UserTopicQuestionAttempt
	err := r.DB.Where("user_id = ? AND topic_id = ?", userID, topicID).
		Order("answered_at DESC").
		Find(&attempts).Error
	return attempts, err
}
