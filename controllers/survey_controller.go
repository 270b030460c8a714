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
	"github.com/surveyhub/survey-server/services"
)

type createSurveyReq struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

func CreateSurvey(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	survey := models.Survey{
		OwnerID:     u.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.SurveyStatusDraft,
	}
	if err := config.DB.Create(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "A survey with this title already exists"})
			return
		}
		logger.Log.Error("create survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create survey"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          survey.ID,
		"title":       survey.Title,
		"slug":        survey.Slug,
		"description": survey.Description,
		"status":      survey.Status,
		"owner_id":    survey.OwnerID,
		"created_at":  survey.CreatedAt,
	})
}

// ListSurveys returns every published survey, newest first. Public.
func ListSurveys(c *gin.Context) {
	var surveys []models.Survey
	if err := config.DB.
		Where("status = ?", models.SurveyStatusPublished).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list surveys"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"surveys": surveySummaries(surveys)})
}

// ListMySurveys returns the caller's surveys in any status.
func ListMySurveys(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var surveys []models.Survey
	if err := config.DB.
		Where("owner_id = ?", u.ID).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list surveys"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"surveys": surveySummaries(surveys)})
}

// GetSurveyDetail shows a published survey with its questions and answer
// options, the payload a respondent needs to take it.
func GetSurveyDetail(c *gin.Context) {
	var survey models.Survey
	err := config.DB.
		Where("slug = ? AND status = ?", c.Param("slug"), models.SurveyStatusPublished).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&survey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Survey not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}

	questions := make([]gin.H, 0, len(survey.Questions))
	for i := range survey.Questions {
		q := &survey.Questions[i]
		questions = append(questions, gin.H{
			"id":       q.ID,
			"text":     q.Text,
			"type":     q.Type,
			"multiple": q.AllowsMultiple(),
			"answers":  q.Answers,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"title":       survey.Title,
		"slug":        survey.Slug,
		"description": survey.Description,
		"questions":   questions,
	})
}

type updateSurveyReq struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateSurvey edits a draft's title/description. The slug follows the title.
func UpdateSurvey(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req updateSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if req.Title == nil && req.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}

	// Save (not Updates) so the BeforeSave hook recomputes the slug.
	if err := config.DB.Save(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"message": "A survey with this title already exists"})
			return
		}
		logger.Log.Error("update survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update survey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          survey.ID,
		"title":       survey.Title,
		"slug":        survey.Slug,
		"description": survey.Description,
		"status":      survey.Status,
	})
}

func DeleteSurvey(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	if err := config.DB.Delete(&survey).Error; err != nil {
		logger.Log.Error("delete survey", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete survey"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type publishReq struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishSurvey flips a draft to published once the gate passes. There is no
// way back.
func PublishSurvey(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	var req publishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if !*req.Published {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A survey cannot be unpublished"})
		return
	}

	svc := services.NewSurveyService(config.DB)
	if err := svc.Publish(&survey); err != nil {
		var invalid *services.InvalidPublishError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message":     invalid.Error(),
				"question_id": invalid.QuestionID,
			})
			return
		}
		logger.Log.Error("publish survey", zap.Uint("survey_id", survey.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not publish survey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"slug": survey.Slug, "status": survey.Status})
}

// GetSurveyStatistics returns fresh completion and per-answer counts.
// Owner only.
func GetSurveyStatistics(c *gin.Context) {
	survey := c.MustGet(middleware.CtxSurvey).(models.Survey)

	svc := services.NewSurveyService(config.DB)
	stats, err := svc.Statistics(&survey)
	if err != nil {
		logger.Log.Error("survey statistics", zap.Uint("survey_id", survey.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func surveySummaries(surveys []models.Survey) []gin.H {
	out := make([]gin.H, 0, len(surveys))
	for _, s := range surveys {
		out = append(out, gin.H{
			"id":          s.ID,
			"title":       s.Title,
			"slug":        s.Slug,
			"description": s.Description,
			"status":      s.Status,
			"created_at":  s.CreatedAt,
		})
	}
	return out
}
