package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/middleware"
	"github.com/surveyhub/survey-server/models"
	"github.com/surveyhub/survey-server/pkg/logger"
)

type addQuestionReq struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
	Type string `json:"type"`
}

// AddQuestion appends a question to a draft survey. Owner only.
func AddQuestion(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req addQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	qType := strings.ToUpper(strings.TrimSpace(req.Type))
	if qType == "" {
		qType = models.QuestionTypeDefault
	}
	if !models.ValidQuestionType(qType) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Unknown question type", "type": qType})
		return
	}

	question := models.Question{
		SurveyID: survey.ID,
		Text:     req.Text,
		Type:     qType,
	}
	if err := config.DB.Create(&question).Error; err != nil {
		logger.Log.Error("add question", zap.Uint("survey_id", survey.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not add question"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"question_id": question.ID,
		"survey_id":   survey.ID,
		"text":        question.Text,
		"type":        question.Type,
	})
}

// DeleteQuestion removes a question (and its answers) from a draft survey.
func DeleteQuestion(c *gin.Context) {
	question := c.MustGet(middleware.CtxQuestion).(models.Question)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		logger.Log.Error("delete question", zap.Uint("question_id", question.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
