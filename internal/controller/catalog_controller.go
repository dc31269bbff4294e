package controller

import (
	"errors"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/service"
	"medprep_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

func queryUint(ctx *gin.Context, key string) uint {
	v, err := strconv.ParseUint(ctx.Query(key), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}

// ListSpecialties godoc
// @Summary List active specialties
// @Tags catalog
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Specialty}
// @Router /api/v1/specialties [get]
func (c *CatalogController) ListSpecialties(ctx *gin.Context) {
	specialties, err := c.CatalogService.ListSpecialties()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, specialties)
}

// ListExamLevels godoc
// @Summary List exam levels under a specialty
// @Tags catalog
// @Produce  json
// @Param   specialty path string true "Specialty slug"
// @Success 200 {object} util.Response{data=[]model.ExamLevel}
// @Failure 404 {object} util.Response
// @Router /api/v1/specialties/{specialty}/exam-levels [get]
func (c *CatalogController) ListExamLevels(ctx *gin.Context) {
	levels, err := c.CatalogService.ListExamLevels(ctx.Param("specialty"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, levels)
}

// ListSubspecialties godoc
// @Summary List subspecialties under an exam level
// @Tags catalog
// @Produce  json
// @Param   specialty path string true "Specialty slug"
// @Param   level path string true "Exam level slug"
// @Success 200 {object} util.Response{data=[]model.Subspecialty}
// @Router /api/v1/specialties/{specialty}/exam-levels/{level}/subspecialties [get]
func (c *CatalogController) ListSubspecialties(ctx *gin.Context) {
	subs, err := c.CatalogService.ListSubspecialties(ctx.Param("level"), ctx.Param("specialty"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// ListCourses godoc
// @Summary List active courses
// @Tags catalog
// @Produce  json
// @Param   specialtyId query int false "Specialty id"
// @Param   examLevelId query int false "Exam level id"
// @Param   subspecialtyId query int false "Subspecialty id"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/v1/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	filter := repository.CourseFilter{
		SpecialtyID:    queryUint(ctx, "specialtyId"),
		ExamLevelID:    queryUint(ctx, "examLevelId"),
		SubspecialtyID: queryUint(ctx, "subspecialtyId"),
	}

	courses, err := c.CatalogService.ListCourses(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CourseDetail godoc
// @Summary A course with its chapters and topics
// @Tags catalog
// @Produce  json
// @Param   slug path string true "Course slug"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/v1/courses/{slug} [get]
func (c *CatalogController) CourseDetail(ctx *gin.Context) {
	course, err := c.CatalogService.CourseDetail(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// ChapterTopics godoc
// @Summary Topics of a chapter
// @Tags catalog
// @Produce  json
// @Param   slug path string true "Chapter slug"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/v1/chapters/{slug}/topics [get]
func (c *CatalogController) ChapterTopics(ctx *gin.Context) {
	chapter, topics, err := c.CatalogService.ListChapterTopics(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"chapter": chapter, "topics": topics})
}
