package database

import (
	"fmt"
	"log"
	"medprep_backend/internal/config"
	"medprep_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

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
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed the three root specialties and the default exam type labels
	// on an empty database.
	var count int64
	db.Model(&model.Specialty{}).Count(&count)
	if count == 0 {
		defaultSpecialties := []model.Specialty{
			{Slug: "medicine", NameFa: "پزشکی", NameEn: "Medicine", Icon: "🩺", DisplayOrder: 1, IsActive: true},
			{Slug: "dentistry", NameFa: "دندانپزشکی", NameEn: "Dentistry", Icon: "🦷", DisplayOrder: 2, IsActive: true},
			{Slug: "pharmacy", NameFa: "داروسازی", NameEn: "Pharmacy", Icon: "💊", DisplayOrder: 3, IsActive: true},
		}
		for _, s := range defaultSpecialties {
			db.Create(&s)
		}
	}

	var typeCount int64
	db.Model(&model.ExamTypeClassification{}).Count(&typeCount)
	if typeCount == 0 {
		defaultTypes := []model.ExamTypeClassification{
			{Slug: "past-year", NameFa: "آزمون سال‌های گذشته", NameEn: "Past Year", DisplayOrder: 1},
			{Slug: "authored", NameFa: "آزمون تالیفی", NameEn: "Authored", DisplayOrder: 2},
			{Slug: "combined", NameFa: "آزمون ترکیبی", NameEn: "Combined", DisplayOrder: 3},
		}
		for _, t := range defaultTypes {
			db.Create(&t)
		}
	}

	return db, nil
}
