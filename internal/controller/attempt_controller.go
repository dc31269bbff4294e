package controller

import (
	"errors"
	"medprep_backend/internal/service"
	"medprep_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// Start godoc
// @Summary Start or resume an exam attempt
// @Description Returns the existing in-progress attempt when one exists
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Exam id"
// @Success 200 {object} util.Response{data=service.StartAttemptResult} "Resumed"
// @Success 201 {object} util.Response{data=service.StartAttemptResult} "Created"
// @Failure 404 {object} util.Response
// @Router /api/v1/exams/{id}/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	examID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid exam id")
		return
	}

	result, err := c.AttemptService.StartAttempt(claims.UserID, uint(examID))
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if result.Resumed {
		util.Success(ctx, result)
	} else {
		util.Created(ctx, result)
	}
}

// SubmitAnswer godoc
// @Summary Submit or revise an answer
// @Description Resubmitting the same question replaces the earlier answer
// @Tags attempts
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Attempt id"
// @Param   body body service.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} util.Response{data=service.SubmitAnswerResult}
// @Failure 400 {object} util.Response "Option does not belong to the question"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Attempt not in progress"
// @Failure 410 {object} util.Response "Attempt timed out"
// @Failure 422 {object} util.Response "Question not in exam"
// @Router /api/v1/attempts/{id}/answers [post]
func (c *AttemptController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitAnswer(claims.UserID, uint(attemptID), req)
	if err != nil {
		c.writeAttemptError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Complete godoc
// @Summary Finalize an attempt and compute the score
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Attempt id"
// @Success 200 {object} util.Response{data=service.CompleteAttemptResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Attempt not in progress"
// @Router /api/v1/attempts/{id}/complete [post]
func (c *AttemptController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	result, err := c.AttemptService.CompleteAttempt(claims.UserID, uint(attemptID))
	if err != nil {
		c.writeAttemptError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Abandon godoc
// @Summary Abandon an in-progress attempt
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Attempt id"
// @Success 200 {object} util.Response{data=model.UserExamAttempt}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/attempts/{id}/abandon [post]
func (c *AttemptController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	attempt, err := c.AttemptService.AbandonAttempt(claims.UserID, uint(attemptID))
	if err != nil {
		c.writeAttemptError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// Results godoc
// @Summary Detailed results of a completed attempt
// @Description Includes correct options and explanations
// @Tags attempts
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "Attempt id"
// @Success 200 {object} util.Response{data=service.AttemptResults}
// @Failure 404 {object} util.Response
// @Router /api/v1/attempts/{id}/results [get]
func (c *AttemptController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attemptID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	results, err := c.AttemptService.Results(claims.UserID, uint(attemptID))
	if err != nil {
		c.writeAttemptError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

func (c *AttemptController) writeAttemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAttemptNotInProgress):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAttemptTimedOut):
		util.Error(ctx, http.StatusGone, err.Error())
	case errors.Is(err, util.ErrQuestionNotInExam):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, util.ErrOptionMismatch):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
