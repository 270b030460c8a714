package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/surveyhub/survey-server/config"
	"github.com/surveyhub/survey-server/models"
)

// CheckSurveyOwner loads the survey addressed by :slug into the context and
// rejects callers who do not own it.
func CheckSurveyOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		var survey models.Survey
		if err := config.DB.Where("slug = ?", c.Param("slug")).First(&survey).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
			return
		}

		if survey.OwnerID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this survey"})
			return
		}

		c.Set(CtxSurvey, survey)
		c.Next()
	}
}

// CheckSurveyDraft rejects writes to a survey that is already published.
// Must run after CheckSurveyOwner.
func CheckSurveyDraft() gin.HandlerFunc {
	return func(c *gin.Context) {
		survey := c.MustGet(CtxSurvey).(models.Survey)
		if !survey.IsDraft() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Survey is already published"})
			return
		}
		c.Next()
	}
}

// CheckQuestionOwner resolves :id to a question, walks up to its survey and
// applies the owner + draft checks. Question and survey land in the context.
func CheckQuestionOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		qid, err := strconv.Atoi(c.Param("id"))
		if err != nil || qid <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid question id"})
			return
		}

		var question models.Question
		if err := config.DB.First(&question, qid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Question not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load question"})
			return
		}

		var survey models.Survey
		if err := config.DB.First(&survey, question.SurveyID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
			return
		}

		if survey.OwnerID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this survey"})
			return
		}
		if !survey.IsDraft() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Survey is already published"})
			return
		}

		c.Set(CtxSurvey, survey)
		c.Set(CtxQuestion, question)
		c.Next()
	}
}

// CheckAnswerOwner is CheckQuestionOwner one level down: answer -> question ->
// survey.
func CheckAnswerOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(CtxUser).(models.User)

		aid, err := strconv.Atoi(c.Param("id"))
		if err != nil || aid <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid answer id"})
			return
		}

		var answer models.Answer
		if err := config.DB.First(&answer, aid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Answer not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load answer"})
			return
		}

		var question models.Question
		if err := config.DB.First(&question, answer.QuestionID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load question"})
			return
		}

		var survey models.Survey
		if err := config.DB.First(&survey, question.SurveyID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
			return
		}

		if survey.OwnerID != u.ID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this survey"})
			return
		}
		if !survey.IsDraft() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Survey is already published"})
			return
		}

		c.Set(CtxAnswer, answer)
		c.Next()
	}
}
