package service

import (
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"medprep_backend/pkg/logger"
	"medprep_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttemptService owns the exam-attempt lifecycle: starting or resuming
// an attempt, the answer submission pipeline, and score finalization.
type AttemptService struct {
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository
	AttemptRepo  *repository.AttemptRepository
	Exams        *ExamService
	DB           *gorm.DB
}

func NewAttemptService(
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	exams *ExamService,
	db *gorm.DB,
) *AttemptService {
	return &AttemptService{
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		AttemptRepo:  attemptRepo,
		Exams:        exams,
		DB:           db,
	}
}

type StartAttemptResult struct {
	AttemptID       uint                 `json:"attemptId"`
	Resumed         bool                 `json:"resumed"`
	Exam            *ExamDetail          `json:"exam"`
	CurrentQuestion *ExamQuestionPayload `json:"currentQuestion,omitempty"`
}

type SubmitAnswerRequest struct {
	QuestionID       uint  `json:"questionId" binding:"required"`
	SelectedOptionID *uint `json:"selectedOptionId"`
	TimeSpentSeconds int   `json:"timeSpentSeconds"`
}

type AttemptProgress struct {
	Answered   int `json:"answered"`
	Correct    int `json:"correct"`
	Wrong      int `json:"wrong"`
	Unanswered int `json:"unanswered"`
}

type SubmitAnswerResult struct {
	Submitted    bool                 `json:"submitted"`
	IsCorrect    bool                 `json:"isCorrect"`
	Progress     AttemptProgress      `json:"progress"`
	NextQuestion *ExamQuestionPayload `json:"nextQuestion,omitempty"`
}

type AttemptSummary struct {
	TotalQuestions int     `json:"totalQuestions"`
	CorrectAnswers int     `json:"correctAnswers"`
	Score          float64 `json:"score"`
	PassingScore   float64 `json:"passingScore"`
	Passed         bool    `json:"passed"`
}

type CompleteAttemptResult struct {
	Attempt *model.UserExamAttempt `json:"attempt"`
	Summary AttemptSummary         `json:"summary"`
}

// NextUnanswered picks the first question by ascending order whose id
// has no recorded answer; nil when every question is answered. Both
// StartAttempt and SubmitAnswer resolve the current question through
// this one function.
func NextUnanswered(questions []model.ExamQuestion, answered map[uint]bool) *model.ExamQuestion {
	for i := range questions {
		if !answered[questions[i].QuestionID] {
			return &questions[i]
		}
	}
	return nil
}

// StartAttempt creates a new in-progress attempt or resumes the
// existing one unchanged. The lookup-and-insert runs inside a
// transaction with a row lock so two concurrent starts cannot both
// insert.
func (s *AttemptService) StartAttempt(userID, examID uint) (*StartAttemptResult, error) {
	exam, err := s.ExamRepo.FindPublishedByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	var attempt *model.UserExamAttempt
	resumed := false

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := s.AttemptRepo.FindInProgressForUpdate(tx, userID, examID)
		if err == nil {
			attempt = existing
			resumed = true
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		total, err := s.ExamRepo.CountQuestions(tx, examID)
		if err != nil {
			return err
		}

		attempt = &model.UserExamAttempt{
			UserID:         userID,
			ExamID:         examID,
			StartedAt:      time.Now(),
			Status:         model.AttemptInProgress,
			TotalQuestions: int(total),
		}
		return s.AttemptRepo.Create(tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	if !resumed {
		monitoring.AttemptsStarted.Inc()
		logger.Log.Info("exam attempt started",
			zap.Uint("userId", userID),
			zap.Uint("examId", examID),
			zap.Uint("attemptId", attempt.ID))
	}

	detail, err := s.Exams.detail(exam)
	if err != nil {
		return nil, err
	}

	current, err := s.currentQuestion(attempt)
	if err != nil {
		return nil, err
	}

	return &StartAttemptResult{
		AttemptID:       attempt.ID,
		Resumed:         resumed,
		Exam:            detail,
		CurrentQuestion: current,
	}, nil
}

// currentQuestion is the first unanswered question, falling back to the
// very first one when the attempt already answered everything so a
// revisit does not error.
func (s *AttemptService) currentQuestion(attempt *model.UserExamAttempt) (*ExamQuestionPayload, error) {
	questions, err := s.ExamRepo.ListQuestions(attempt.ExamID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}

	answered, err := s.AttemptRepo.AnsweredQuestionIDs(s.DB, attempt.ID)
	if err != nil {
		return nil, err
	}

	next := NextUnanswered(questions, answered)
	if next == nil {
		next = &questions[0]
	}

	payload := examQuestionPayload(next)
	return &payload, nil
}

// SubmitAnswer validates and records one answer. The answer row,
// re-derived aggregates, and the attempt itself commit in a single
// transaction or not at all.
func (s *AttemptService) SubmitAnswer(userID, attemptID uint, req SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	attempt, err := s.AttemptRepo.FindByIDForUser(attemptID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptNotInProgress
	}

	exam, err := s.ExamRepo.FindByID(attempt.ExamID)
	if err != nil {
		return nil, err
	}

	if attempt.IsTimedOut(exam, time.Now()) {
		if err := s.expire(attempt); err != nil {
			return nil, err
		}
		return nil, util.ErrAttemptTimedOut
	}

	questions, err := s.ExamRepo.ListQuestions(attempt.ExamID)
	if err != nil {
		return nil, err
	}
	if !examContainsQuestion(questions, req.QuestionID) {
		return nil, util.ErrQuestionNotInExam
	}

	// Correctness comes from the option row, never from the client. An
	// option id belonging to another question does not resolve and the
	// submission is rejected before anything is written.
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

	var progress AttemptProgress

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		answer := &model.UserAnswer{
			AttemptID:        attempt.ID,
			QuestionID:       req.QuestionID,
			SelectedOptionID: req.SelectedOptionID,
			IsCorrect:        isCorrect,
			TimeSpentSeconds: req.TimeSpentSeconds,
			AnsweredAt:       time.Now(),
		}
		if err := s.AttemptRepo.UpsertAnswer(tx, answer); err != nil {
			return err
		}

		// Aggregates are re-counted from the answer rows rather than
		// incremented, so a retried submission cannot double-count.
		answers, err := s.AttemptRepo.ListAnswers(tx, attempt.ID)
		if err != nil {
			return err
		}

		correct := 0
		for i := range answers {
			if answers[i].IsCorrect {
				correct++
			}
		}
		answeredCount := len(answers)

		attempt.CorrectAnswers = correct
		attempt.WrongAnswers = answeredCount - correct
		attempt.Unanswered = attempt.TotalQuestions - answeredCount
		// Time accumulates on every call, including resubmissions.
		attempt.TimeSpentSeconds += req.TimeSpentSeconds

		progress = AttemptProgress{
			Answered:   answeredCount,
			Correct:    correct,
			Wrong:      answeredCount - correct,
			Unanswered: attempt.Unanswered,
		}

		return s.AttemptRepo.Save(tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	monitoring.AnswersSubmitted.Inc()

	answered, err := s.AttemptRepo.AnsweredQuestionIDs(s.DB, attempt.ID)
	if err != nil {
		return nil, err
	}

	result := &SubmitAnswerResult{
		Submitted: true,
		IsCorrect: isCorrect,
		Progress:  progress,
	}
	if next := NextUnanswered(questions, answered); next != nil {
		payload := examQuestionPayload(next)
		result.NextQuestion = &payload
	}

	return result, nil
}

func examContainsQuestion(questions []model.ExamQuestion, questionID uint) bool {
	for i := range questions {
		if questions[i].QuestionID == questionID {
			return true
		}
	}
	return false
}

// expire moves a stale attempt to its timeout terminal state.
func (s *AttemptService) expire(attempt *model.UserExamAttempt) error {
	if err := attempt.Transition(model.AttemptTimedOut); err != nil {
		return err
	}
	now := time.Now()
	attempt.CompletedAt = &now
	if err := s.AttemptRepo.Save(s.DB, attempt); err != nil {
		return err
	}
	monitoring.AttemptsCompleted.WithLabelValues(string(model.AttemptTimedOut)).Inc()
	logger.Log.Info("exam attempt timed out",
		zap.Uint("attemptId", attempt.ID),
		zap.Uint("examId", attempt.ExamID))
	return nil
}

// CompleteAttempt finalizes an in-progress attempt: recounts correct
// answers, computes the percentage score, and moves the attempt to
// completed.
func (s *AttemptService) CompleteAttempt(userID, attemptID uint) (*CompleteAttemptResult, error) {
	attempt, err := s.AttemptRepo.FindByIDForUser(attemptID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptNotInProgress
	}

	exam, err := s.ExamRepo.FindByID(attempt.ExamID)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		correct, err := s.AttemptRepo.CountCorrect(tx, attempt.ID)
		if err != nil {
			return err
		}

		score := 0.0
		if attempt.TotalQuestions > 0 {
			score = float64(correct) / float64(attempt.TotalQuestions) * 100
		}

		if err := attempt.Transition(model.AttemptCompleted); err != nil {
			return err
		}
		now := time.Now()
		attempt.CompletedAt = &now
		attempt.CorrectAnswers = int(correct)
		attempt.Score = &score
		attempt.Percentage = &score

		return s.AttemptRepo.Save(tx, attempt)
	})
	if err != nil {
		return nil, err
	}

	monitoring.AttemptsCompleted.WithLabelValues(string(model.AttemptCompleted)).Inc()

	score := 0.0
	if attempt.Score != nil {
		score = *attempt.Score
	}

	return &CompleteAttemptResult{
		Attempt: attempt,
		Summary: AttemptSummary{
			TotalQuestions: attempt.TotalQuestions,
			CorrectAnswers: attempt.CorrectAnswers,
			Score:          score,
			PassingScore:   exam.PassingScore,
			// Recomputed on every view, never stored.
			Passed: score >= exam.PassingScore,
		},
	}, nil
}

// AbandonAttempt lets a user walk away from an in-progress attempt
// without scoring it.
func (s *AttemptService) AbandonAttempt(userID, attemptID uint) (*model.UserExamAttempt, error) {
	attempt, err := s.AttemptRepo.FindByIDForUser(attemptID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	if err := attempt.Transition(model.AttemptAbandoned); err != nil {
		return nil, util.ErrAttemptNotInProgress
	}
	now := time.Now()
	attempt.CompletedAt = &now

	if err := s.AttemptRepo.Save(s.DB, attempt); err != nil {
		return nil, err
	}
	monitoring.AttemptsCompleted.WithLabelValues(string(model.AttemptAbandoned)).Inc()
	return attempt, nil
}

type AnswerReview struct {
	QuestionID       uint    `json:"questionId"`
	Order            int     `json:"order"`
	QuestionText     string  `json:"questionText"`
	SelectedOptionID *uint   `json:"selectedOptionId,omitempty"`
	CorrectOptionID  *uint   `json:"correctOptionId,omitempty"`
	IsCorrect        bool    `json:"isCorrect"`
	TimeSpentSeconds int     `json:"timeSpentSeconds"`
	Explanation      *string `json:"explanation,omitempty"`
}

type AttemptResults struct {
	Attempt *model.UserExamAttempt `json:"attempt"`
	Summary AttemptSummary         `json:"summary"`
	Answers []AnswerReview         `json:"answers"`
}

// Results returns the detailed breakdown of a completed attempt,
// including the correct options and explanations withheld while the
// attempt was live.
func (s *AttemptService) Results(userID, attemptID uint) (*AttemptResults, error) {
	attempt, err := s.AttemptRepo.FindCompletedByIDForUser(attemptID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}

	exam, err := s.ExamRepo.FindByID(attempt.ExamID)
	if err != nil {
		return nil, err
	}

	questions, err := s.ExamRepo.ListQuestions(attempt.ExamID)
	if err != nil {
		return nil, err
	}

	answers, err := s.AttemptRepo.ListAnswers(s.DB, attempt.ID)
	if err != nil {
		return nil, err
	}
	answerByQuestion := make(map[uint]*model.UserAnswer, len(answers))
	for i := range answers {
		answerByQuestion[answers[i].QuestionID] = &answers[i]
	}

	reviews := make([]AnswerReview, 0, len(questions))
	for i := range questions {
		eq := &questions[i]
		review := AnswerReview{
			QuestionID:   eq.QuestionID,
			Order:        eq.QuestionOrder,
			QuestionText: eq.Question.QuestionText,
		}
		for j := range eq.Question.Options {
			if eq.Question.Options[j].IsCorrect {
				id := eq.Question.Options[j].ID
				review.CorrectOptionID = &id
				break
			}
		}
		if answer, ok := answerByQuestion[eq.QuestionID]; ok {
			review.SelectedOptionID = answer.SelectedOptionID
			review.IsCorrect = answer.IsCorrect
			review.TimeSpentSeconds = answer.TimeSpentSeconds
		}
		if expl, err := s.QuestionRepo.FindExplanation(eq.QuestionID); err == nil {
			review.Explanation = &expl.ExplanationText
		}
		reviews = append(reviews, review)
	}

	score := 0.0
	if attempt.Score != nil {
		score = *attempt.Score
	}

	return &AttemptResults{
		Attempt: attempt,
		Summary: AttemptSummary{
			TotalQuestions: attempt.TotalQuestions,
			CorrectAnswers: attempt.CorrectAnswers,
			Score:          score,
			PassingScore:   exam.PassingScore,
			Passed:         score >= exam.PassingScore,
		},
		Answers: reviews,
	}, nil
}
