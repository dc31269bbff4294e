package service

import (
	"errors"
	"fmt"
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"testing"

	"gorm.io/gorm"
)

func newStudyService(db *gorm.DB) *StudyService {
	return NewStudyService(
		repository.NewCourseRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewStudyRepository(db),
		db,
	)
}

type studyFixture struct {
	user      model.User
	topic     model.Topic
	questions []model.Question
}

func seedTopic(t *testing.T, db *gorm.DB, numQuestions int) *studyFixture {
	t.Helper()

	f := &studyFixture{}

	f.user = model.User{Email: "learner@example.com", Password: "x"}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	specialty := model.Specialty{Slug: "medicine", NameFa: "پزشکی", IsActive: true}
	if err := db.Create(&specialty).Error; err != nil {
		t.Fatalf("create specialty: %v", err)
	}
	level := model.ExamLevel{SpecialtyID: specialty.ID, Slug: "residency", NameFa: "دستیاری", IsActive: true}
	if err := db.Create(&level).Error; err != nil {
		t.Fatalf("create level: %v", err)
	}
	course := model.Course{SpecialtyID: specialty.ID, ExamLevelID: level.ID, Slug: "c1", NameFa: "درس", IsActive: true}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	chapter := model.Chapter{CourseID: course.ID, Slug: "ch1", NameFa: "فصل", IsActive: true}
	if err := db.Create(&chapter).Error; err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	f.topic = model.Topic{ChapterID: chapter.ID, Slug: "t1", NameFa: "مبحث", IsActive: true}
	if err := db.Create(&f.topic).Error; err != nil {
		t.Fatalf("create topic: %v", err)
	}

	for i := 0; i < numQuestions; i++ {
		q := model.Question{
			SpecialtyID:  specialty.ID,
			ExamLevelID:  level.ID,
			TopicID:      &f.topic.ID,
			QuestionText: fmt.Sprintf("study question %d", i+1),
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
	}

	return f
}

func (f *studyFixture) optionID(question, number int) *uint {
	for _, opt := range f.questions[question].Options {
		if opt.OptionNumber == number {
			id := opt.ID
			return &id
		}
	}
	return nil
}

func TestTopicDetailAnonymousAndKnown(t *testing.T) {
	db := newTestDB(t)
	svc := newStudyService(db)
	f := seedTopic(t, db, 2)

	detail, err := svc.TopicDetail(f.topic.ID, nil)
	if err != nil {
		t.Fatalf("anonymous detail: %v", err)
	}
	if detail.UserProgress != nil {
		t.Error("anonymous callers get no progress")
	}
	if len(detail.Questions) != 2 {
		t.Errorf("questions = %d, want 2", len(detail.Questions))
	}

	detail, err = svc.TopicDetail(f.topic.ID, &f.user.ID)
	if err != nil {
		t.Fatalf("known-user detail: %v", err)
	}
	if detail.UserProgress != nil {
		t.Error("no progress row should read as nil, never a zero record")
	}

	status := model.StudyInProgress
	if _, err := svc.UpdateProgress(f.user.ID, f.topic.ID, UpdateProgressRequest{Status: &status}); err != nil {
		t.Fatalf("update progress: %v", err)
	}

	detail, err = svc.TopicDetail(f.topic.ID, &f.user.ID)
	if err != nil {
		t.Fatalf("detail after progress: %v", err)
	}
	if detail.UserProgress == nil || detail.UserProgress.Status != model.StudyInProgress {
		t.Errorf("progress not surfaced: %+v", detail.UserProgress)
	}
}

func TestTopicDetailMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newStudyService(db)
	seedTopic(t, db, 0)

	if _, err := svc.TopicDetail(9999, nil); !errors.Is(err, util.ErrTopicNotFound) {
		t.Errorf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestUpdateProgressUpsertsAndAccumulatesTime(t *testing.T) {
	db := newTestDB(t)
	svc := newStudyService(db)
	f := seedTopic(t, db, 0)

	minutes := 10
	progress, err := svc.UpdateProgress(f.user.ID, f.topic.ID, UpdateProgressRequest{StudyTimeMinutes: &minutes})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	if progress.StudyTimeMinutes != 10 {
		t.Errorf("study time = %d, want 10", progress.StudyTimeMinutes)
	}
	if progress.LastStudiedAt == nil {
		t.Error("last studied timestamp missing")
	}

	pct := 40
	progress, err = svc.UpdateProgress(f.user.ID, f.topic.ID, UpdateProgressRequest{
		StudyTimeMinutes:     &minutes,
		CompletionPercentage: &pct,
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if progress.StudyTimeMinutes != 20 {
		t.Errorf("study time should accumulate, got %d", progress.StudyTimeMinutes)
	}
	if progress.CompletionPercentage != 40 {
		t.Errorf("completion should overwrite, got %d", progress.CompletionPercentage)
	}

	var rows int64
	db.Model(&model.UserStudyProgress{}).Where("user_id = ? AND topic_id = ?", f.user.ID, f.topic.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("expected a single progress row, got %d", rows)
	}

	done := model.StudyCompleted
	progress, err = svc.UpdateProgress(f.user.ID, f.topic.ID, UpdateProgressRequest{Status: &done})
	if err != nil {
		t.Fatalf("complete update: %v", err)
	}
	if progress.CompletedAt == nil {
		t.Error("reaching completed should stamp CompletedAt")
	}
}

func TestRecordAttemptAppendsWithNextNumber(t *testing.T) {
	db := newTestDB(t)
	svc := newStudyService(db)
	f := seedTopic(t, db, 1)

	first, err := svc.RecordAttempt(f.user.ID, f.topic.ID, RecordAttemptRequest{
		QuestionID:       f.questions[0].ID,
		SelectedOptionID: f.optionID(0, 2),
	})
	if err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if first.IsCorrect {
		t.Error("option 2 is wrong")
	}
	if first.Attempt.AttemptNumber != 1 {
		t.Errorf("attempt number = %d, want 1", first.Attempt.AttemptNumber)
	}

	second, err := svc.RecordAttempt(f.user.ID, f.topic.ID, RecordAttemptRequest{
		QuestionID:       f.questions[0].ID,
		SelectedOptionID: f.optionID(0, 1),
	})
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if !second.IsCorrect {
		t.Error("option 1 is correct")
	}
	if second.Attempt.AttemptNumber != 2 {
		t.Errorf("attempt number = %d, want 2", second.Attempt.AttemptNumber)
	}

	// Retries never overwrite; both rows remain.
	var rows int64
	db.Model(&model.UserTopicQuestionAttempt{}).
		Where("user_id = ? AND topic_id = ? AND question_id = ?", f.user.ID, f.topic.ID, f.questions[0].ID).
		Count(&rows)
	if rows != 2 {
		t.Errorf("expected 2 appended rows, got %d", rows)
	}
}

func TestRecordAttemptValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newStudyService(db)
	f := seedTopic(t, db, 1)

	// A question from another topic is rejected.
	foreign := model.Question{SpecialtyID: 1, ExamLevelID: 1, QuestionText: "elsewhere", IsActive: true}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("create foreign question: %v", err)
	}
	_, err := svc.RecordAttempt(f.user.ID, f.topic.ID, RecordAttemptRequest{QuestionID: foreign.ID})
	if !errors.Is(err, util.ErrQuestionNotInTopic) {
		t.Errorf("expected ErrQuestionNotInTopic, got %v", err)
	}

	_, err = svc.RecordAttempt(f.user.ID, 9999, RecordAttemptRequest{QuestionID: f.questions[0].ID})
	if !errors.Is(err, util.ErrTopicNotFound) {
		t.Errorf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestAttemptHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := newStudyService(db)
	f := seedTopic(t, db, 1)

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordAttempt(f.user.ID, f.topic.ID, RecordAttemptRequest{
			QuestionID:       f.questions[0].ID,
			SelectedOptionID: f.optionID(0, 1),
		}); err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}

	history, err := svc.AttemptHistory(f.user.ID, f.topic.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].AttemptNumber < history[len(history)-1].AttemptNumber {
		t.Error("history should come newest first")
	}
}
