package model

import (
	"fmt"
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
	AttemptTimedOut   AttemptStatus = "timeout"
)

// attemptTransitions holds the only legal status edges. Terminal
// states have no outgoing edges.
var attemptTransitions = map[AttemptStatus][]AttemptStatus{
	AttemptInProgress: {AttemptCompleted, AttemptAbandoned, AttemptTimedOut},
}

var ErrInvalidTransition = fmt.Errorf("invalid attempt status transition")

func (s AttemptStatus) CanTransitionTo(target AttemptStatus) bool {
	for _, next := range attemptTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s AttemptStatus) IsTerminal() bool {
	return len(attemptTransitions[s]) == 0
}

// swagger:model UserExamAttempt
type UserExamAttempt struct {
	BaseModel
	UserID uint `gorm:"index:idx_attempts_user_exam;not null" json:"userId"`
	ExamID uint `gorm:"index:idx_attempts_user_exam;not null" json:"examId"`
	Exam   Exam `gorm:"foreignKey:ExamID" json:"-"`

	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Status      AttemptStatus `gorm:"size:20;default:'in_progress';index" json:"status"`

	// Snapshotted at creation; later exam edits do not change it.
	TotalQuestions int `gorm:"not null" json:"totalQuestions"`

	CorrectAnswers   int      `gorm:"default:0" json:"correctAnswers"`
	WrongAnswers     int      `gorm:"default:0" json:"wrongAnswers"`
	Unanswered       int      `gorm:"default:0" json:"unanswered"`
	Score            *float64 `gorm:"type:decimal(5,2)" json:"score,omitempty"`
	Percentage       *float64 `gorm:"type:decimal(5,2)" json:"percentage,omitempty"`
	TimeSpentSeconds int      `gorm:"default:0" json:"timeSpentSeconds"`

	Answers []UserAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserExamAttempt) TableName() string {
	return "user_exam_attempts"
}

// Transition moves the attempt to target or fails without mutating it.
func (a *UserExamAttempt) Transition(target AttemptStatus) error {
	if !a.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}
	a.Status = target
	return nil
}

// IsTimedOut reports whether the exam's time limit has elapsed.
// Untimed exams and exams without a duration never time out.
func (a *UserExamAttempt) IsTimedOut(exam *Exam, now time.Time) bool {
	if !exam.IsTimed || exam.DurationMinutes == nil {
		return false
	}
	return now.Sub(a.StartedAt) > time.Duration(*exam.DurationMinutes)*time.Minute
}

// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	AttemptID  uint `gorm:"index:idx_user_answers_pair,unique;not null" json:"attemptId"`
	QuestionID uint `gorm:"index:idx_user_answers_pair,unique;not null" json:"questionId"`

	// Nil when the user submitted without picking an option.
	SelectedOptionID *uint `json:"selectedOptionId,omitempty"`

	IsCorrect        bool      `gorm:"default:false" json:"isCorrect"`
	TimeSpentSeconds int       `gorm:"default:0" json:"timeSpentSeconds"`
	AnsweredAt       time.Time `gorm:"not null" json:"answeredAt"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
