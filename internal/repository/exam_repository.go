package repository

import (
	"medprep_backend/internal/model"

	"gorm.io/gorm"
)

type ExamFilter struct {
	SpecialtyID    uint
	ExamLevelID    uint
	SubspecialtyID uint
}

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) ListPublished(filter ExamFilter) ([]model.Exam, error) {
	query := r.DB.Where("is_active = ? AND is_published = ?", true, true)
	if filter.SpecialtyID != 0 {
		query = query.Where("specialty_id = ?", filter.SpecialtyID)
	}
	if filter.ExamLevelID != 0 {
		query = query.Where("exam_level_id = ?", filter.ExamLevelID)
	}
	if filter.SubspecialtyID != 0 {
		query = query.Where("subspecialty_id = ?", filter.SubspecialtyID)
	}

	var exams []model.Exam
	err := query.
		Preload("ExamTypeClassification").
		Order("created_at DESC").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) FindPublishedByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Where("is_active = ? AND is_published = ?", true, true).
		Preload("ExamTypeClassification").
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindByID resolves regardless of publication state; attempts keep
// working against exams that were unpublished after they started.
func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.Preload("ExamTypeClassification").First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) UpdatePublished(id uint, published bool) error {
	return r.DB.Model(&model.Exam{}).Where("id = ?", id).Update("is_published", published).Error
}

func (r *ExamRepository) CountQuestions(tx *gorm.DB, examID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.ExamQuestion{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

// ListQuestions returns the exam's questions in presentation order with
// options preloaded.
func (r *ExamRepository) ListQuestions(examID uint) ([]model.ExamQuestion, error) {
	var questions []model.ExamQuestion
	err := r.DB.Where("exam_id = ?", examID).
		Preload("Question").
		Preload("Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_number")
		}).
		Order("question_order").
		Find(&questions).Error
	return questions, err
}
