package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/middleware"
	"github.com/surveyhub/survey-server/models"
	"github.com/surveyhub/survey-server/pkg/logger"
	"github.com/surveyhub/survey-server/pkg/monitoring"
	"github.com/surveyhub/survey-server/services"
)

type submitSurveyReq struct {
	Answers []services.SubmissionItem `json:"answers" binding:"required,min=1"`
}

// SubmitSurvey takes a respondent's batch for a published survey: the
// completion check and validation run first, then the batch is recorded in
// one transaction. The response echoes what was recorded.
func SubmitSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var survey models.Survey
	err := config.DB.
		Where("slug = ? AND status = ?", c.Param("slug"), models.SurveyStatusPublished).
		First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	var req submitSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	svc := services.NewSubmissionService(config.DB)
	recorded, err := svc.Submit(&survey, u.ID, req.Answers)
	if err != nil {
		submitError(c, survey.ID, err)
		return
	}

	monitoring.SubmissionCounter.WithLabelValues("recorded").Inc()
	c.JSON(http.StatusOK, gin.H{
		"survey":  survey.Slug,
		"answers": recordedItems(recorded),
	})
}

func submitError(c *gin.Context, surveyID uint, err error) {
	var notFound *services.NotFoundError
	var invalid *services.InvalidSubmissionError

	switch {
	case errors.Is(err, services.ErrAlreadyCompleted):
		monitoring.SubmissionCounter.WithLabelValues("already_completed").Inc()
		c.JSON(http.StatusForbidden, gin.H{"message": "You've already taken this survey"})
	case errors.As(err, &notFound):
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
	case errors.As(err, &invalid):
		monitoring.SubmissionCounter.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"message":     invalid.Error(),
			"question_id": invalid.QuestionID,
			"answer_id":   invalid.AnswerID,
		})
	default:
		monitoring.SubmissionCounter.WithLabelValues("failed").Inc()
		logger.Log.Error("record submission", zap.Uint("survey_id", surveyID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record submission"})
	}
}

func recordedItems(items []services.ResolvedItem) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		answers := make([]gin.H, 0, len(item.Answers))
		for _, a := range item.Answers {
			answers = append(answers, gin.H{"id": a.ID, "text": a.Text})
		}
		out = append(out, gin.H{"question_id": item.Question.ID, "answers": answers})
	}
	return out
}
