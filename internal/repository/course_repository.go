package repository

import (
	"medprep_backend/internal/model"

	"gorm.io/gorm"
)

type CourseFilter struct {
	SpecialtyID    uint
	ExamLevelID    uint
	SubspecialtyID uint
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) List(filter CourseFilter) ([]model.Course, error) {
	query := r.DB.Where("is_active = ?", true)
	if filter.SpecialtyID != 0 {
		query = query.Where("specialty_id = ?", filter.SpecialtyID)
	}
	if filter.ExamLevelID != 0 {
		query = query.Where("exam_level_id = ?", filter.ExamLevelID)
	}
	if filter.SubspecialtyID != 0 {
		query = query.Where("subspecialty_id = ?", filter.SubspecialtyID)
	}

	var courses []model.Course
	err := query.Order("display_order").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Where("slug = ? AND is_active = ?", slug, true).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order")
		}).
		Preload("Chapters.Topics", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order")
		}).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListChapters(courseID uint) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Where("course_id = ? AND is_active = ?", courseID, true).
		Order("display_order").Find(&chapters).Error
	return chapters, err
}

func (r *CourseRepository) FindChapterBySlug(slug string) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := r.DB.Where("slug = ? AND is_active = ?", slug, true).First(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *CourseRepository) ListTopics(chapterID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("chapter_id = ? AND is_active = ?", chapterID, true).
		Order("display_order").Find(&topics).Error
	return topics, err
}

func (r *CourseRepository) FindTopicByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.DB.Where("is_active = ?", true).First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}
