package model

import "time"

type StudyStatus string

const (
	StudyNotStarted StudyStatus = "not_started"
	StudyInProgress StudyStatus = "in_progress"
	StudyCompleted  StudyStatus = "completed"
	StudyReviewing  StudyStatus = "reviewing"
)

// UserStudyProgress is the coarse per-topic summary the client updates
// directly; it is observational only and never finalized or scored.
// swagger:model UserStudyProgress
type UserStudyProgress struct {
	BaseModel
	UserID  uint `gorm:"index:idx_study_progress_pair,unique;not null" json:"userId"`
	TopicID uint `gorm:"index:idx_study_progress_pair,unique;not null" json:"topicId"`

	Status               StudyStatus `gorm:"size:20;default:'not_started'" json:"status"`
	CompletionPercentage int         `gorm:"default:0" json:"completionPercentage"`
	StudyTimeMinutes     int         `gorm:"default:0" json:"studyTimeMinutes"`

	LastStudiedAt *time.Time `json:"lastStudiedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func (UserStudyProgress) TableName() string {
	return "user_study_progress"
}

// UserTopicQuestionAttempt logs every individual try in study mode.
// Unlike exam answers there is no uniqueness per question: each call
// appends a new row with the next AttemptNumber.
// swagger:model UserTopicQuestionAttempt
type UserTopicQuestionAttempt struct {
	BaseModel
	UserID     uint `gorm:"index:idx_topic_attempts_user_topic;not null" json:"userId"`
	TopicID    uint `gorm:"index:idx_topic_attempts_user_topic;not null" json:"topicId"`
	QuestionID uint `gorm:"index:idx_topic_attempts_user_question;not null" json:"questionId"`

	SelectedOptionID *uint `json:"selectedOptionId,omitempty"`

	IsCorrect     bool      `gorm:"default:false" json:"isCorrect"`
	AttemptNumber int       `gorm:"default:1" json:"attemptNumber"`
	AnsweredAt    time.Time `gorm:"not null" json:"answeredAt"`
}

func (UserTopicQuestionAttempt) TableName() string {
	return "user_topic_question_attempts"
}
