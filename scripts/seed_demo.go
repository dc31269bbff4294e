// Seeds a small demo dataset: one course with a chapter and topic,
// a handful of questions, and a published timed exam over them.
//
// Intended for local development and first deployments. Safe to run
// more than once; existing slugs are left alone.
//
// Usage: go run scripts/seed_demo.go
package main

import (
	"log"
	"medprep_backend/internal/config"
	"medprep_backend/internal/model"
	"medprep_backend/pkg/database"
	"medprep_backend/pkg/logger"

	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.ForceMigrate = true

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("demo data seeded")
}

func seed(db *gorm.DB) error {
	var specialty model.Specialty
	if err := db.Where("slug = ?", "medicine").First(&specialty).Error; err != nil {
		return err
	}

	level := model.ExamLevel{
		SpecialtyID: specialty.ID,
		Slug:        "residency",
		NameFa:      "دستیاری",
		NameEn:      "Residency",
		IsActive:    true,
	}
	if err := firstOrCreate(db, &level, "specialty_id = ? AND slug = ?", specialty.ID, level.Slug); err != nil {
		return err
	}

	course := model.Course{
		SpecialtyID: specialty.ID,
		ExamLevelID: level.ID,
		Slug:        "internal-medicine-basics",
		NameFa:      "مبانی طب داخلی",
		NameEn:      "Internal Medicine Basics",
		IsActive:    true,
	}
	if err := firstOrCreate(db, &course, "slug = ?", course.Slug); err != nil {
		return err
	}

	chapter := model.Chapter{
		CourseID: course.ID,
		Slug:     "cardiology-intro",
		NameFa:   "مقدمات قلب و عروق",
		NameEn:   "Introduction to Cardiology",
		IsActive: true,
	}
	if err := firstOrCreate(db, &chapter, "course_id = ? AND slug = ?", course.ID, chapter.Slug); err != nil {
		return err
	}

	topic := model.Topic{
		ChapterID: chapter.ID,
		Slug:      "heart-failure",
		NameFa:    "نارسایی قلبی",
		NameEn:    "Heart Failure",
		IsActive:  true,
	}
	if err := firstOrCreate(db, &topic, "chapter_id = ? AND slug = ?", chapter.ID, topic.Slug); err != nil {
		return err
	}

	var examType model.ExamTypeClassification
	if err := db.Where("slug = ?", "authored").First(&examType).Error; err != nil {
		return err
	}

	exam := model.Exam{
		SpecialtyID:              specialty.ID,
		ExamLevelID:              level.ID,
		ExamTypeClassificationID: examType.ID,
		Title:                    "Heart Failure Practice Exam",
		Slug:                     "heart-failure-practice",
		PassingScore:             60,
		DurationMinutes:          intPtr(30),
		IsTimed:                  true,
		IsActive:                 true,
		IsPublished:              true,
	}
	if err := firstOrCreate(db, &exam, "slug = ?", exam.Slug); err != nil {
		return err
	}

	questions := []struct {
		text    string
		options [4]string
		correct int
	}{
		{
			"Which drug class improves survival in HFrEF?",
			[4]string{"ACE inhibitors", "Digoxin", "Loop diuretics", "Nitrates"},
			0,
		},
		{
			"Which finding is most specific for left heart failure?",
			[4]string{"Peripheral edema", "Orthopnea", "Hepatomegaly", "Ascites"},
			1,
		},
		{
			"BNP is released primarily in response to what?",
			[4]string{"Hypokalemia", "Ventricular wall stretch", "Hypoxia", "Tachycardia"},
			1,
		},
	}

	for i, q := range questions {
		question := model.Question{
			SpecialtyID:  specialty.ID,
			ExamLevelID:  level.ID,
			TopicID:      &topic.ID,
			QuestionText: q.text,
			QuestionType: model.MultipleChoice,
			Difficulty:   model.DifficultyMedium,
			IsActive:     true,
		}
		if err := firstOrCreate(db, &question, "question_text = ?", q.text); err != nil {
			return err
		}

		for n, text := range q.options {
			option := model.QuestionOption{
				QuestionID:   question.ID,
				OptionNumber: n + 1,
				OptionText:   text,
				IsCorrect:    n == q.correct,
			}
			if err := firstOrCreate(db, &option, "question_id = ? AND option_number = ?", question.ID, n+1); err != nil {
				return err
			}
		}

		link := model.ExamQuestion{
			ExamID:        exam.ID,
			QuestionID:    question.ID,
			QuestionOrder: i + 1,
			Points:        1,
		}
		if err := firstOrCreate(db, &link, "exam_id = ? AND question_id = ?", exam.ID, question.ID); err != nil {
			return err
		}
	}

	return nil
}

func firstOrCreate(db *gorm.DB, dest interface{}, query string, args ...interface{}) error {
	err := db.Where(query, args...).First(dest).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(dest).Error
	}
	return err
}

func intPtr(v int) *int { return &v }
