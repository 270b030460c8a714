package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/middleware"
	"github.com/surveyhub/survey-server/models"
	"github.com/surveyhub/survey-server/pkg/logger"
)

type addAnswerReq struct {
	Text string `json:"text" binding:"required,min=1,max=255"`
}

// AddAnswer appends an answer option to a question of a draft survey.
func AddAnswer(c *gin.Context) {
	question := c.MustGet(middleware.CtxQuestion).(models.Question)

	var req addAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	answer := models.Answer{
		QuestionID: question.ID,
		Text:       req.Text,
	}
	if err := config.DB.Create(&answer).Error; err != nil {
		logger.Log.Error("add answer", zap.Uint("question_id", question.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not add answer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"answer_id":   answer.ID,
		"question_id": question.ID,
		"text":        answer.Text,
	})
}

// DeleteAnswer removes an answer option from a draft survey.
func DeleteAnswer(c *gin.Context) {
	answer := c.MustGet(middleware.CtxAnswer).(models.Answer)

	if err := config.DB.Delete(&answer).Error; err != nil {
		logger.Log.Error("delete answer", zap.Uint("answer_id", answer.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
