package controller

import (
	"errors"
	"medprep_backend/internal/repository"
	"medprep_backend/internal/service"
	"medprep_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// List godoc
// @Summary Published exams grouped by exam type
// @Tags exams
// @Produce  json
// @Param   specialtyId query int false "Specialty id"
// @Param   examLevelId query int false "Exam level id"
// @Param   subspecialtyId query int false "Subspecialty id"
// @Success 200 {object} util.Response{data=[]service.ExamTypeGroup}
// @Router /api/v1/exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	filter := repository.ExamFilter{
		SpecialtyID:    queryUint(ctx, "specialtyId"),
		ExamLevelID:    queryUint(ctx, "examLevelId"),
		SubspecialtyID: queryUint(ctx, "subspecialtyId"),
	}

	groups, err := c.ExamService.List(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

type PublishExamRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// SetPublished godoc
// @Summary Publish or unpublish an exam
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   id path int true "Exam id"
// @Param   request body PublishExamRequest true "Publication state"
// @Success 200 {object} util.Response{data=service.ExamSummary}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/admin/exams/{id}/publish [patch]
func (c *ExamController) SetPublished(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	var req PublishExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	summary, err := c.ExamService.SetPublished(uint(examID), *req.Published)
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summary)
}

// Detail godoc
// @Summary An exam with its ordered questions
// @Description Questions come without correct-answer markers or explanations
// @Tags exams
// @Produce  json
// @Param   id path int true "Exam id"
// @Success 200 {object} util.Response{data=service.ExamDetail}
// @Failure 404 {object} util.Response
// @Router /api/v1/exams/{id} [get]
func (c *ExamController) Detail(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	detail, err := c.ExamService.Detail(uint(examID))
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}
