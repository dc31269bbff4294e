package service

import (
	"context"
	"encoding/json"
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const examListCacheKeyPrefix = "exams:list:"
const examListCacheTTL = 5 * time.Minute

type ExamService struct {
	ExamRepo *repository.ExamRepository
	Redis    *redis.Client
}

func NewExamService(examRepo *repository.ExamRepository, rdb *redis.Client) *ExamService {
	return &ExamService{ExamRepo: examRepo, Redis: rdb}
}

type ExamSummary struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Description     string  `json:"description,omitempty"`
	ExamYear        *int    `json:"examYear,omitempty"`
	TotalQuestions  int     `json:"totalQuestions"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	PassingScore    float64 `json:"passingScore"`
	IsTimed         bool    `json:"isTimed"`
	IsPublished     bool    `json:"isPublished"`
}

type ExamTypeGroup struct {
	Type  string        `json:"type"`
	Exams []ExamSummary `json:"exams"`
}

type ExamQuestionPayload struct {
	ID           uint                    `json:"id"`
	Order        int                     `json:"order"`
	Points       float64                 `json:"points"`
	QuestionText string                  `json:"questionText"`
	QuestionHTML string                  `json:"questionHtml,omitempty"`
	ImageURL     string                  `json:"imageUrl,omitempty"`
	Options      []QuestionOptionPayload `json:"options"`
}

type QuestionOptionPayload struct {
	ID           uint   `json:"id"`
	OptionNumber int    `json:"optionNumber"`
	OptionText   string `json:"optionText"`
	OptionHTML   string `json:"optionHtml,omitempty"`
}

type ExamDetail struct {
	ExamSummary
	ExamType  string                `json:"examType"`
	Questions []ExamQuestionPayload `json:"questions"`
}

func examSummary(exam *model.Exam) ExamSummary {
	return ExamSummary{
		ID:              exam.ID,
		Title:           exam.Title,
		Slug:            exam.Slug,
		Description:     exam.Description,
		ExamYear:        exam.ExamYear,
		TotalQuestions:  exam.TotalQuestions,
		DurationMinutes: exam.DurationMinutes,
		PassingScore:    exam.PassingScore,
		IsTimed:         exam.IsTimed,
		IsPublished:     exam.IsPublished,
	}
}

func optionPayloads(options []model.QuestionOption) []QuestionOptionPayload {
	payloads := make([]QuestionOptionPayload, len(options))
	for i, opt := range options {
		payloads[i] = QuestionOptionPayload{
			ID:           opt.ID,
			OptionNumber: opt.OptionNumber,
			OptionText:   opt.OptionText,
			OptionHTML:   opt.OptionHTML,
		}
	}
	return payloads
}

func examQuestionPayload(eq *model.ExamQuestion) ExamQuestionPayload {
	return ExamQuestionPayload{
		ID:           eq.QuestionID,
		Order:        eq.QuestionOrder,
		Points:       eq.Points,
		QuestionText: eq.Question.QuestionText,
		QuestionHTML: eq.Question.QuestionHTML,
		ImageURL:     eq.Question.ImageURL,
		Options:      optionPayloads(eq.Question.Options),
	}
}

// List returns published exams grouped by their exam-type label. The
// grouped payload is cached briefly in redis; cache failures fall
// through to the database.
func (s *ExamService) List(filter repository.ExamFilter) ([]ExamTypeGroup, error) {
	cacheKey := examListCacheKey(filter)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var groups []ExamTypeGroup
			if json.Unmarshal([]byte(cached), &groups) == nil {
				return groups, nil
			}
		}
	}

	exams, err := s.ExamRepo.ListPublished(filter)
	if err != nil {
		return nil, err
	}

	byType := make(map[string][]ExamSummary)
	var order []string
	for i := range exams {
		label := exams[i].ExamTypeClassification.NameFa
		if _, seen := byType[label]; !seen {
			order = append(order, label)
		}
		byType[label] = append(byType[label], examSummary(&exams[i]))
	}

	groups := make([]ExamTypeGroup, 0, len(order))
	for _, label := range order {
		groups = append(groups, ExamTypeGroup{Type: label, Exams: byType[label]})
	}

	if s.Redis != nil {
		if encoded, err := json.Marshal(groups); err == nil {
			s.Redis.Set(context.Background(), cacheKey, encoded, examListCacheTTL)
		}
	}

	return groups, nil
}

func examListCacheKey(filter repository.ExamFilter) string {
	key, _ := json.Marshal(filter)
	return examListCacheKeyPrefix + string(key)
}

func (s *ExamService) Detail(examID uint) (*ExamDetail, error) {
	exam, err := s.ExamRepo.FindPublishedByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	return s.detail(exam)
}

// SetPublished flips an exam's public visibility. Cached listings are
// not invalidated eagerly; they age out within the list cache TTL.
func (s *ExamService) SetPublished(examID uint, published bool) (*ExamSummary, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	if exam.IsPublished != published {
		if err := s.ExamRepo.UpdatePublished(examID, published); err != nil {
			return nil, err
		}
		exam.IsPublished = published
	}

	summary := examSummary(exam)
	return &summary, nil
}

func (s *ExamService) detail(exam *model.Exam) (*ExamDetail, error) {
	questions, err := s.ExamRepo.ListQuestions(exam.ID)
	if err != nil {
		return nil, err
	}

	payloads := make([]ExamQuestionPayload, len(questions))
	for i := range questions {
		payloads[i] = examQuestionPayload(&questions[i])
	}

	return &ExamDetail{
		ExamSummary: examSummary(exam),
		ExamType:    exam.ExamTypeClassification.NameFa,
		Questions:   payloads,
	}, nil
}
