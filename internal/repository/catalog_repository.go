package repository

import (
	"medprep_backend/internal/model"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{DB: db}
}

func (r *CatalogRepository) ListSpecialties() ([]model.Specialty, error) {
	var specialties []model.Specialty
	err := r.DB.Where("is_active = ?", true).Order("display_order").Find(&specialties).Error
	return specialties, err
}

func (r *CatalogRepository) FindSpecialtyBySlug(slug string) (*model.Specialty, error) {
	var s model.Specialty
	if err := r.DB.Where("slug = ? AND is_active = ?", slug, true).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CatalogRepository) ListExamLevelsBySpecialtySlug(specialtySlug string) ([]model.ExamLevel, error) {
	var levels []model.ExamLevel
	err := r.DB.
		Joins("JOIN specialties ON specialties.id = exam_levels.specialty_id").
		Where("specialties.slug = ? AND exam_levels.is_active = ?", specialtySlug, true).
		Order("exam_levels.display_order").
		Find(&levels).Error
	return levels, err
}

func (r *CatalogRepository) ListSubspecialties(levelSlug, specialtySlug string) ([]model.Subspecialty, error) {
	var subs []model.Subspecialty
	err := r.DB.
		Joins("JOIN exam_levels ON exam_levels.id = subspecialties.exam_level_id").
		Joins("JOIN specialties ON specialties.id = subspecialties.specialty_id").
		Where("exam_levels.slug = ? AND specialties.slug = ? AND subspecialties.is_active = ?",
			levelSlug, specialtySlug, true).
		Order("subspecialties.display_order").
		Find(&subs).Error
	return subs, err
}
