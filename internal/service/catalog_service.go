package service

import (
	"medprep_backend/internal/model"
	"medprep_backend/internal/repository"
)

// CatalogService serves the content hierarchy: specialties, exam
// levels, subspecialties, courses, chapters, and topics. Everything
// here is public read-only browsing.
type CatalogService struct {
	CatalogRepo *repository.CatalogRepository
	CourseRepo  *repository.CourseRepository
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, courseRepo *repository.CourseRepository) *CatalogService {
	return &CatalogService{
		CatalogRepo: catalogRepo,
		CourseRepo:  courseRepo,
	}
}

func (s *CatalogService) ListSpecialties() ([]model.Specialty, error) {
	return s.CatalogRepo.ListSpecialties()
}

func (s *CatalogService) ListExamLevels(specialtySlug string) ([]model.ExamLevel, error) {
	if _, err := s.CatalogRepo.FindSpecialtyBySlug(specialtySlug); err != nil {
		return nil, err
	}
	return s.CatalogRepo.ListExamLevelsBySpecialtySlug(specialtySlug)
}

func (s *CatalogService) ListSubspecialties(levelSlug, specialtySlug string) ([]model.Subspecialty, error) {
	return s.CatalogRepo.ListSubspecialties(levelSlug, specialtySlug)
}

func (s *CatalogService) ListCourses(filter repository.CourseFilter) ([]model.Course, error) {
	return s.CourseRepo.List(filter)
}

// CourseDetail returns a course with its active chapters and topics
// preloaded in display order.
func (s *CatalogService) CourseDetail(slug string) (*model.Course, error) {
	return s.CourseRepo.FindBySlug(slug)
}

func (s *CatalogService) ListChapterTopics(chapterSlug string) (*model.Chapter, []model.Topic, error) {
	chapter, err := s.CourseRepo.FindChapterBySlug(chapterSlug)
	if err != nil {
		return nil, nil, err
	}
	topics, err := s.CourseRepo.ListTopics(chapter.ID)
	if err != nil {
		return nil, nil, err
	}
	return chapter, topics, nil
}
