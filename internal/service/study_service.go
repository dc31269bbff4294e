package service

import (
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// StudyService covers the untimed learning flow: per-topic progress
// summaries and the append-only log of question tries.
type StudyService struct {
	CourseRepo   *repository.CourseRepository
	QuestionRepo *repository.QuestionRepository
	StudyRepo    *repository.StudyRepository
	DB           *gorm.DB
}

func NewStudyService(
	courseRepo *repository.CourseRepository,
	questionRepo *repository.QuestionRepository,
	studyRepo *repository.StudyRepository,
	db *gorm.DB,
) *StudyService {
	return &StudyService{
		CourseRepo:   courseRepo,
		QuestionRepo: questionRepo,
		StudyRepo:    studyRepo,
		DB:           db,
	}
}

type TopicDetail struct {
	Topic        *model.Topic             `json:"topic"`
	Questions    []model.Question         `json:"questions"`
	UserProgress *model.UserStudyProgress `json:"userProgress"`
}

// TopicDetail bundles a topic with its practice questions and, when a
// user is known, that user's progress record. UserProgress stays nil
// for anonymous callers and for users who never opened the topic.
func (s *StudyService) TopicDetail(topicID uint, userID *uint) (*TopicDetail, error) {
	topic, err := s.CourseRepo.FindTopicByID(topicID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	questions, err := s.QuestionRepo.ListByTopic(topicID)
	if err != nil {
		return nil, err
	}

	detail := &TopicDetail{
		Topic:     topic,
		Questions: questions,
	}

	if userID != nil {
		if progress, err := s.StudyRepo.FindProgress(*userID, topicID); err == nil {
			detail.UserProgress = progress
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	return detail, nil
}

type UpdateProgressRequest struct {
	Status               *model.StudyStatus `json:"status"`
	CompletionPercentage *int               `json:"completionPercentage" binding:"omitempty,min=0,max=100"`
	StudyTimeMinutes     *int               `json:"studyTimeMinutes" binding:"omitempty,min=0"`
}

// UpdateProgress upserts the per-user per-topic summary. Study time is
// additive; the other fields overwrite when present.
func (s *StudyService) UpdateProgress(userID, topicID uint, req UpdateProgressRequest) (*model.UserStudyProgress, error) {
	if _, err := s.CourseRepo.FindTopicByID(topicID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	now := time.Now()

	progress, err := s.StudyRepo.FindProgress(userID, topicID)
	if err == gorm.ErrRecordNotFound {
		progress = &model.UserStudyProgress{
			UserID:  userID,
			TopicID: topicID,
			Status:  model.StudyNotStarted,
		}
		if err := s.StudyRepo.CreateProgress(progress); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if req.Status != nil {
		progress.Status = *req.Status
		if *req.Status == model.StudyCompleted && progress.CompletedAt == nil {
			progress.CompletedAt = &now
		}
	}
	if req.CompletionPercentage != nil {
		progress.CompletionPercentage = *req.CompletionPercentage
	}
	if req.StudyTimeMinutes != nil {
		progress.StudyTimeMinutes += *req.StudyTimeMinutes
	}
	progress.LastStudiedAt = &now

	if err := s.StudyRepo.SaveProgress(progress); err != nil {
		return nil, err
	}
	return progress, nil
}

type RecordAttemptRequest struct {
	QuestionID       uint  `json:"questionId" binding:"required"`
	SelectedOptionID *uint `json:"selectedOptionId"`
}

type RecordAttemptResult struct {
	Attempt   *model.UserTopicQuestionAttempt `json:"attempt"`
	IsCorrect bool                            `json:"isCorrect"`
}

// RecordAttempt appends one study-mode try for a question. Retries are
// expected; each one gets the next attempt number for that user,
// topic, and question.
func (s *StudyService) RecordAttempt(userID, topicID uint, req RecordAttemptRequest) (*RecordAttemptResult, error) {
	if _, err := s.CourseRepo.FindTopicByID(topicID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}

	question, err := s.QuestionRepo.FindByID(req.QuestionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotInTopic
		}
		return nil, err
	}
	if question.TopicID == nil || *question.TopicID != topicID {
		return nil, util.ErrQuestionNotInTopic
	}

	isCorrect := false
	if req.SelectedOptionID != nil {
		option, err := s.QuestionRepo.FindOption(req.QuestionID, *req.SelectedOptionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, util.ErrOptionMismatch
			}
			return nil, err
		}
		isCorrect = option.IsCorrect
	}

	var attempt *model.UserTopicQuestionAttempt

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		last, err := s.StudyRepo.LastAttemptNumber(tx, userID, topicID, req.QuestionID)
		if err != nil {
			return err
		}

		attempt = &model.UserTopicQuestionAttempt{
			UserID:           userID,
			TopicID:          topicID,
			QuestionID:       req.QuestionID,
			SelectedOptionID: req.SelectedOptionID,
			IsCorrect:        isCorrect,
			AttemptNumber:    last + 1,
			AnsweredAt:       time.Now(),
		}
		return s.StudyRepo.CreateQuestionAttempt(tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	return &RecordAttemptResult{Attempt: attempt, IsCorrect: isCorrect}, nil
}

func (s *StudyService) AttemptHistory(userID, topicID uint) ([]model.UserTopicQuestionAttempt, error) {
	if _, err := s.CourseRepo.FindTopicByID(topicID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	return s.StudyRepo.ListQuestionAttempts(userID, topicID)
}
