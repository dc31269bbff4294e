package repository

import (
	"medprep_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(tx *gorm.DB, attempt *model.UserExamAttempt) error {
	return tx.Create(attempt).Error
}

func (r *AttemptRepository) Save(tx *gorm.DB, attempt *model.UserExamAttempt) error {
	return tx.Save(attempt).Error
}

// FindInProgressForUpdate locks the single in-progress row for
// (user, exam) so concurrent starts serialize instead of both
// inserting. Must run inside a transaction. SQLite serializes writers
// on its own and rejects FOR UPDATE, so the clause is mysql-only.
func (r *AttemptRepository) FindInProgressForUpdate(tx *gorm.DB, userID, examID uint) (*model.UserExamAttempt, error) {
	query := tx
	if tx.Dialector.Name() == "mysql" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var attempt model.UserExamAttempt
	err := query.
		Where("user_id = ? AND exam_id = ? AND status = ?", userID, examID, model.AttemptInProgress).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindByIDForUser filters by owner; a foreign attempt id behaves like a
// missing one.
func (r *AttemptRepository) FindByIDForUser(id, userID uint) (*model.UserExamAttempt, error) {
	var attempt model.UserExamAttempt
	err := r.DB.Where("user_id = ?", userID).First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) FindCompletedByIDForUser(id, userID uint) (*model.UserExamAttempt, error) {
	var attempt model.UserExamAttempt
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.AttemptCompleted).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// UpsertAnswer enforces the one-row-per-(attempt, question) rule:
// resubmission overwrites instead of appending.
func (r *AttemptRepository) UpsertAnswer(tx *gorm.DB, answer *model.UserAnswer) error {
	var existing model.UserAnswer
	err := tx.Where("attempt_id = ? AND question_id = ?", answer.AttemptID, answer.QuestionID).
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if existing.ID != 0 {
		answer.ID = existing.ID
		answer.CreatedAt = existing.CreatedAt
		return tx.Save(answer).Error
	}
	return tx.Create(answer).Error
}

func (r *AttemptRepository) ListAnswers(tx *gorm.DB, attemptID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := tx.Where("attempt_id = ?", attemptID).Order("answered_at").Find(&answers).Error
	return answers, err
}

func (r *AttemptRepository) AnsweredQuestionIDs(tx *gorm.DB, attemptID uint) (map[uint]bool, error) {
	var ids []uint
	err := tx.Model(&model.UserAnswer{}).Where("attempt_id = ?", attemptID).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}
	answered := make(map[uint]bool, len(ids))
	for _, id := range ids {
		answered[id] = true
	}
	return answered, nil
}

func (r *AttemptRepository) CountCorrect(tx *gorm.DB, attemptID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.UserAnswer{}).
		Where("attempt_id = ? AND is_correct = ?", attemptID, true).
		Count(&count).Error
	return count, err
}
