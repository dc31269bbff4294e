package repository

import (
	"medprep_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("is_active = ?", true).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_number")
		}).
		First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// FindOption resolves an option strictly within the given question's
// own option set. An option id that belongs to another question does
// not resolve.
func (r *QuestionRepository) FindOption(questionID, optionID uint) (*model.QuestionOption, error) {
	var opt model.QuestionOption
	err := r.DB.Where("id = ? AND question_id = ?", optionID, questionID).First(&opt).Error
	if err != nil {
		return nil, err
	}
	return &opt, nil
}

func (r *QuestionRepository) FindExplanation(questionID uint) (*model.QuestionExplanation, error) {
	var expl model.QuestionExplanation
	err := r.DB.Where("question_id = ?", questionID).First(&expl).Error
	if err != nil {
		return nil, err
	}
	return &expl, nil
}

func (r *QuestionRepository) ListByTopic(topicID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("topic_id = ? AND is_active = ?", topicID, true).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_number")
		}).
		Preload("Explanation").
		Find(&questions).Error
	return questions, err
}
