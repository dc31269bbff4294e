package service

import (
	"errors"
	"fmt"
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"medprep_backend/pkg/logger"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.User{},
		&model.Specialty{},
		&model.ExamLevel{},
		&model.Subspecialty{},
		&model.Course{},
		&model.Chapter{},
		&model.Topic{},
		&model.Question{},
		&model.QuestionOption{},
		&model.QuestionExplanation{},
		&model.ExamTypeClassification{},
		&model.Exam{},
		&model.ExamQuestion{},
		&model.UserExamAttempt{},
		&model.UserAnswer{},
		&model.UserStudyProgress{},
		&model.UserTopicQuestionAttempt{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newAttemptService(db *gorm.DB) *AttemptService {
	examRepo := repository.NewExamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	exams := NewExamService(examRepo, nil)
	return NewAttemptService(examRepo, questionRepo, attemptRepo, exams, db)
}

type examFixture struct {
	user      model.User
	exam      model.Exam
	questions []model.Question
}

// seedExam builds a published exam with numQuestions four-option
// questions; option 1 is always the correct one.
func seedExam(t *testing.T, db *gorm.DB, numQuestions int) *examFixture {
	t.Helper()

	f := &examFixture{}

	f.user = model.User{Email: fmt.Sprintf("student-%d@example.com", time.Now().UnixNano()), Password: "x"}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	specialty := model.Specialty{Slug: "medicine", NameFa: "پزشکی", IsActive: true}
	if err := db.Create(&specialty).Error; err != nil {
		t.Fatalf("create specialty: %v", err)
	}
	level := model.ExamLevel{SpecialtyID: specialty.ID, Slug: "residency", NameFa: "دستیاری", IsActive: true}
	if err := db.Create(&level).Error; err != nil {
		t.Fatalf("create exam level: %v", err)
	}
	examType := model.ExamTypeClassification{Slug: "authored", NameFa: "آزمون های تالیفی"}
	if err := db.Create(&examType).Error; err != nil {
		t.Fatalf("create exam type: %v", err)
	}

	duration := 30
	f.exam = model.Exam{
		SpecialtyID:              specialty.ID,
		ExamLevelID:              level.ID,
		ExamTypeClassificationID: examType.ID,
		Title:                    "Fixture Exam",
		Slug:                     fmt.Sprintf("fixture-exam-%d", time.Now().UnixNano()),
		PassingScore:             60,
		DurationMinutes:          &duration,
		IsTimed:                  true,
		IsActive:                 true,
		IsPublished:              true,
	}
	if err := db.Create(&f.exam).Error; err != nil {
		t.Fatalf("create exam: %v", err)
	}

	for i := 0; i < numQuestions; i++ {
		q := model.Question{
			SpecialtyID:  specialty.ID,
			ExamLevelID:  level.ID,
			QuestionText: fmt.Sprintf("question %d", i+1),
			IsActive:     true,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("create question: %v", err)
		}
		for n := 1; n <= 4; n++ {
			opt := model.QuestionOption{
				QuestionID:   q.ID,
				OptionNumber: n,
				OptionText:   fmt.Sprintf("option %d", n),
				IsCorrect:    n == 1,
			}
			if err := db.Create(&opt).Error; err != nil {
				t.Fatalf("create option: %v", err)
			}
		}
		if err := db.Preload("Options").First(&q, q.ID).Error; err != nil {
			t.Fatalf("reload question: %v", err)
		}
		f.questions = append(f.questions, q)

		link := model.ExamQuestion{ExamID: f.exam.ID, QuestionID: q.ID, QuestionOrder: i + 1, Points: 1}
		if err := db.Create(&link).Error; err != nil {
			t.Fatalf("create exam question: %v", err)
		}
	}

	return f
}

// correctOption returns the right answer's option id for question i.
func (f *examFixture) correctOption(i int) *uint {
	for _, opt := range f.questions[i].Options {
		if opt.OptionNumber == 1 {
			id := opt.ID
			return &id
		}
	}
	return nil
}

// wrongOption returns a wrong answer's option id for question i.
func (f *examFixture) wrongOption(i int) *uint {
	for _, opt := range f.questions[i].Options {
		if opt.OptionNumber == 2 {
			id := opt.ID
			return &id
		}
	}
	return nil
}

func TestStartAttemptCreatesThenResumes(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 3)

	first, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if first.Resumed {
		t.Error("first start should not be a resume")
	}
	if first.CurrentQuestion == nil || first.CurrentQuestion.Order != 1 {
		t.Errorf("current question should be the first, got %+v", first.CurrentQuestion)
	}

	var attempt model.UserExamAttempt
	if err := db.First(&attempt, first.AttemptID).Error; err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if attempt.Status != model.AttemptInProgress {
		t.Errorf("status = %s", attempt.Status)
	}
	if attempt.TotalQuestions != 3 {
		t.Errorf("total questions snapshot = %d, want 3", attempt.TotalQuestions)
	}
	if attempt.CorrectAnswers != 0 || attempt.WrongAnswers != 0 || attempt.Unanswered != 0 {
		t.Errorf("counters should start at zero: %+v", attempt)
	}

	second, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !second.Resumed {
		t.Error("second start should resume")
	}
	if second.AttemptID != first.AttemptID {
		t.Errorf("resume returned a different attempt: %d vs %d", second.AttemptID, first.AttemptID)
	}

	var count int64
	db.Model(&model.UserExamAttempt{}).Where("user_id = ? AND exam_id = ?", f.user.ID, f.exam.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected a single attempt row, got %d", count)
	}
}

func TestStartAttemptUnknownExam(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	seedExam(t, db, 1)

	if _, err := svc.StartAttempt(1, 9999); !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("expected ErrExamNotFound, got %v", err)
	}
}

func TestStartAttemptAfterCompletionCreatesNew(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 2)

	first, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.CompleteAttempt(f.user.ID, first.AttemptID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	second, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if second.Resumed {
		t.Error("start after completion should create a new attempt")
	}
	if second.AttemptID == first.AttemptID {
		t.Error("new attempt reused the finished attempt's id")
	}
}

func TestStartAttemptResumeAllAnswered(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 2)

	started, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := range f.questions {
		if _, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
			QuestionID:       f.questions[i].ID,
			SelectedOptionID: f.correctOption(i),
		}); err != nil {
			t.Fatalf("submit question %d: %v", i+1, err)
		}
	}

	resumed, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !resumed.Resumed {
		t.Error("fully answered attempt should still resume")
	}
	// With nothing left unanswered the resume points back at question 1.
	if resumed.CurrentQuestion == nil || resumed.CurrentQuestion.Order != 1 {
		t.Errorf("current question should fall back to the first, got %+v", resumed.CurrentQuestion)
	}
}

func TestSubmitAnswerUpsertAndAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 3)

	started, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
		QuestionID:       f.questions[0].ID,
		SelectedOptionID: f.wrongOption(0),
		TimeSpentSeconds: 20,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.IsCorrect {
		t.Error("wrong option marked correct")
	}
	if result.Progress.Answered != 1 || result.Progress.Wrong != 1 || result.Progress.Unanswered != 2 {
		t.Errorf("progress after first submit: %+v", result.Progress)
	}
	if result.NextQuestion == nil || result.NextQuestion.Order != 2 {
		t.Errorf("next question should be order 2, got %+v", result.NextQuestion)
	}

	// Resubmission replaces the answer and keeps a single row.
	result, err = svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
		QuestionID:       f.questions[0].ID,
		SelectedOptionID: f.correctOption(0),
		TimeSpentSeconds: 15,
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !result.IsCorrect {
		t.Error("correct option marked wrong on resubmission")
	}
	if result.Progress.Answered != 1 || result.Progress.Correct != 1 || result.Progress.Wrong != 0 {
		t.Errorf("aggregates not re-derived after resubmission: %+v", result.Progress)
	}

	var rows int64
	db.Model(&model.UserAnswer{}).Where("attempt_id = ?", started.AttemptID).Count(&rows)
	if rows != 1 {
		t.Errorf("expected one answer row after resubmission, got %d", rows)
	}

	var attempt model.UserExamAttempt
	db.First(&attempt, started.AttemptID)
	// Time adds up across every submission, including replacements.
	if attempt.TimeSpentSeconds != 35 {
		t.Errorf("time spent = %d, want 35", attempt.TimeSpentSeconds)
	}
}

func TestSubmitBlankAnswerCountsWrong(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 2)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	result, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
		QuestionID: f.questions[0].ID,
	})
	if err != nil {
		t.Fatalf("submit blank: %v", err)
	}
	if result.IsCorrect {
		t.Error("blank submission must score as wrong")
	}
	if result.Progress.Wrong != 1 {
		t.Errorf("blank submission should count toward wrong: %+v", result.Progress)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 2)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	// A question outside the exam is rejected.
	outside := model.Question{SpecialtyID: 1, ExamLevelID: 1, QuestionText: "outside", IsActive: true}
	if err := db.Create(&outside).Error; err != nil {
		t.Fatalf("create outside question: %v", err)
	}
	_, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{QuestionID: outside.ID})
	if !errors.Is(err, util.ErrQuestionNotInExam) {
		t.Errorf("expected ErrQuestionNotInExam, got %v", err)
	}

	// An option belonging to another question is rejected before
	// anything is written.
	_, err = svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
		QuestionID:       f.questions[0].ID,
		SelectedOptionID: f.correctOption(1),
	})
	if !errors.Is(err, util.ErrOptionMismatch) {
		t.Errorf("expected ErrOptionMismatch, got %v", err)
	}

	var rows int64
	db.Model(&model.UserAnswer{}).Where("attempt_id = ?", started.AttemptID).Count(&rows)
	if rows != 0 {
		t.Errorf("rejected submissions must not persist, found %d rows", rows)
	}
}

func TestSubmitToForeignAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 1)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	other := model.User{Email: "other@example.com", Password: "x"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create other user: %v", err)
	}

	_, err := svc.SubmitAnswer(other.ID, started.AttemptID, SubmitAnswerRequest{QuestionID: f.questions[0].ID})
	if !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("foreign attempt must look missing, got %v", err)
	}
}

func TestSubmitToFinishedAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 1)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)
	if _, err := svc.CompleteAttempt(f.user.ID, started.AttemptID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{QuestionID: f.questions[0].ID})
	if !errors.Is(err, util.ErrAttemptNotInProgress) {
		t.Errorf("expected ErrAttemptNotInProgress, got %v", err)
	}
}

func TestSubmitToTimedOutAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 1)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	stale := time.Now().Add(-45 * time.Minute)
	if err := db.Model(&model.UserExamAttempt{}).Where("id = ?", started.AttemptID).
		Update("started_at", stale).Error; err != nil {
		t.Fatalf("age attempt: %v", err)
	}

	_, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{QuestionID: f.questions[0].ID})
	if !errors.Is(err, util.ErrAttemptTimedOut) {
		t.Fatalf("expected ErrAttemptTimedOut, got %v", err)
	}

	var attempt model.UserExamAttempt
	db.First(&attempt, started.AttemptID)
	if attempt.Status != model.AttemptTimedOut {
		t.Errorf("attempt should persist as timed out, got %s", attempt.Status)
	}
	if attempt.CompletedAt == nil {
		t.Error("timed-out attempt should carry a completion time")
	}

	// Terminal now; the lifecycle error takes over.
	_, err = svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{QuestionID: f.questions[0].ID})
	if !errors.Is(err, util.ErrAttemptNotInProgress) {
		t.Errorf("expected ErrAttemptNotInProgress after expiry, got %v", err)
	}
}

func TestCompleteAttemptScoring(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 4)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
			QuestionID:       f.questions[i].ID,
			SelectedOptionID: f.correctOption(i),
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if _, err := svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
		QuestionID:       f.questions[3].ID,
		SelectedOptionID: f.wrongOption(3),
	}); err != nil {
		t.Fatalf("submit wrong: %v", err)
	}

	result, err := svc.CompleteAttempt(f.user.ID, started.AttemptID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Summary.Score != 75.0 {
		t.Errorf("score = %v, want 75.0", result.Summary.Score)
	}
	if !result.Summary.Passed {
		t.Error("75.0 against passing score 60 should pass")
	}
	if result.Attempt.Status != model.AttemptCompleted {
		t.Errorf("status = %s", result.Attempt.Status)
	}
	if result.Attempt.CompletedAt == nil {
		t.Error("completed attempt should carry a completion time")
	}

	if _, err := svc.CompleteAttempt(f.user.ID, started.AttemptID); !errors.Is(err, util.ErrAttemptNotInProgress) {
		t.Errorf("double completion should fail, got %v", err)
	}
}

func TestCompleteAttemptZeroQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 0)

	started, err := svc.StartAttempt(f.user.ID, f.exam.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.CurrentQuestion != nil {
		t.Error("empty exam has no current question")
	}

	result, err := svc.CompleteAttempt(f.user.ID, started.AttemptID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Summary.Score != 0 {
		t.Errorf("zero-question exam must score 0, got %v", result.Summary.Score)
	}
	if result.Summary.Passed {
		t.Error("score 0 against passing 60 must not pass")
	}
}

func TestAbandonAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 2)

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	attempt, err := svc.AbandonAttempt(f.user.ID, started.AttemptID)
	if err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if attempt.Status != model.AttemptAbandoned {
		t.Errorf("status = %s", attempt.Status)
	}
	if attempt.Score != nil {
		t.Error("abandoned attempts are not scored")
	}

	if _, err := svc.AbandonAttempt(f.user.ID, started.AttemptID); !errors.Is(err, util.ErrAttemptNotInProgress) {
		t.Errorf("double abandon should fail, got %v", err)
	}
}

func TestResults(t *testing.T) {
	db := newTestDB(t)
	svc := newAttemptService(db)
	f := seedExam(t, db, 2)

	expl := model.QuestionExplanation{QuestionID: f.questions[0].ID, ExplanationText: "because"}
	if err := db.Create(&expl).Error; err != nil {
		t.Fatalf("create explanation: %v", err)
	}

	started, _ := svc.StartAttempt(f.user.ID, f.exam.ID)

	if _, err := svc.Results(f.user.ID, started.AttemptID); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("results of a live attempt must be unavailable, got %v", err)
	}

	svc.SubmitAnswer(f.user.ID, started.AttemptID, SubmitAnswerRequest{
		QuestionID:       f.questions[0].ID,
		SelectedOptionID: f.correctOption(0),
	})
	svc.CompleteAttempt(f.user.ID, started.AttemptID)

	results, err := svc.Results(f.user.ID, started.AttemptID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results.Answers) != 2 {
		t.Fatalf("review should cover every question, got %d", len(results.Answers))
	}

	first := results.Answers[0]
	if first.CorrectOptionID == nil || *first.CorrectOptionID != *f.correctOption(0) {
		t.Error("review must expose the correct option")
	}
	if !first.IsCorrect {
		t.Error("answered question marked wrong in review")
	}
	if first.Explanation == nil || *first.Explanation != "because" {
		t.Error("review should include the explanation")
	}

	second := results.Answers[1]
	if second.SelectedOptionID != nil {
		t.Error("unanswered question should show no selection")
	}
}

func TestNextUnanswered(t *testing.T) {
	questions := []model.ExamQuestion{
		{QuestionID: 10, QuestionOrder: 1},
		{QuestionID: 20, QuestionOrder: 2},
		{QuestionID: 30, QuestionOrder: 3},
	}

	if next := NextUnanswered(questions, map[uint]bool{}); next == nil || next.QuestionID != 10 {
		t.Errorf("empty answer set should pick the first question, got %+v", next)
	}
	if next := NextUnanswered(questions, map[uint]bool{10: true}); next == nil || next.QuestionID != 20 {
		t.Errorf("want question 20, got %+v", next)
	}
	// Answering out of order still yields the earliest gap.
	if next := NextUnanswered(questions, map[uint]bool{20: true}); next == nil || next.QuestionID != 10 {
		t.Errorf("want question 10, got %+v", next)
	}
	if next := NextUnanswered(questions, map[uint]bool{10: true, 20: true, 30: true}); next != nil {
		t.Errorf("fully answered exam should yield nil, got %+v", next)
	}
}
