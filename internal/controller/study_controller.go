package controller

import (
	"errors"
	"medprep_backend/internal/service"
	"medprep_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StudyController struct {
	StudyService *service.StudyService
}

func NewStudyController(studyService *service.StudyService) *StudyController {
	return &StudyController{StudyService: studyService}
}

// TopicDetail godoc
// @Summary A topic with its questions and the caller's progress
// @Description UserProgress is null for anonymous callers
// @Tags study
// @Produce  json
// @Param   id path int true "Topic id"
// @Success 200 {object} util.Response{data=service.TopicDetail}
// @Failure 404 {object} util.Response
// @Router /api/v1/topics/{id} [get]
func (c *StudyController) TopicDetail(ctx *gin.Context) {
	topicID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid topic id")
		return
	}

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	detail, err := c.StudyService.TopicDetail(uint(topicID), userID)
	if err != nil {
		c.writeStudyError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// UpdateProgress godoc
// @Summary Update the caller's study progress for a topic
// @Description Study time adds up across calls; status and percentage overwrite
// @Tags study
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Topic id"
// @Param   body body service.UpdateProgressRequest true "Progress fields"
// @Success 200 {object} util.Response{data=model.UserStudyProgress}
// @Failure 404 {object} util.Response
// @Router /api/v1/topics/{id}/progress [put]
func (c *StudyController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid topic id")
		return
	}

	var req service.UpdateProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.StudyService.UpdateProgress(claims.UserID, uint(topicID), req)
	if err != nil {
		c.writeStudyError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// RecordAttempt godoc
// @Summary Record one study-mode try at a question
// @Description Every call appends a new attempt with the next attempt number
// @Tags study
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Topic id"
// @Param   body body service.RecordAttemptRequest true "Answer payload"
// @Success 201 {object} util.Response{data=service.RecordAttemptResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response "Question not in topic"
// @Router /api/v1/topics/{id}/attempts [post]
func (c *StudyController) RecordAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid topic id")
		return
	}

	var req service.RecordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.StudyService.RecordAttempt(claims.UserID, uint(topicID), req)
	if err != nil {
		c.writeStudyError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// AttemptHistory godoc
// @Summary The caller's study attempts for a topic, newest first
// @Tags study
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Topic id"
// @Success 200 {object} util.Response{data=[]model.UserTopicQuestionAttempt}
// @Failure 404 {object} util.Response
// @Router /api/v1/topics/{id}/attempts [get]
func (c *StudyController) AttemptHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	topicID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid topic id")
		return
	}

	attempts, err := c.StudyService.AttemptHistory(claims.UserID, uint(topicID))
	if err != nil {
		c.writeStudyError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

func (c *StudyController) writeStudyError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrTopicNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrQuestionNotInTopic):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, util.ErrOptionMismatch):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
