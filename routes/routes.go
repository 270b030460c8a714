package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/surveyhub/survey-server/controllers"
	"github.com/surveyhub/survey-server/middleware"
	"github.com/surveyhub/survey-server/pkg/monitoring"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", controllers.HealthCheck)
	r.GET("/metrics", monitoring.PrometheusHandler())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", middleware.RateLimitSignup(), controllers.SignUp)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLogin)
			auth.POST("/logout", middleware.AuthJWT(), controllers.Logout)
		}
		api.GET("/me", middleware.AuthJWT(), controllers.Me)

		surveys := api.Group("/surveys")
		{
			surveys.GET("", controllers.ListSurveys)
			surveys.POST("", middleware.AuthJWT(), middleware.RateLimitSurveyCreate(), controllers.CreateSurvey)
			surveys.GET("/my", middleware.AuthJWT(), controllers.ListMySurveys)
			surveys.GET("/:slug", middleware.AuthJWT(), controllers.GetSurveyDetail)
			surveys.PATCH("/:slug", middleware.AuthJWT(), middleware.CheckSurveyOwner(), middleware.CheckSurveyDraft(), controllers.UpdateSurvey)
			surveys.DELETE("/:slug", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.DeleteSurvey)
			surveys.PATCH("/:slug/publish", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.PublishSurvey)
			surveys.GET("/:slug/statistics", middleware.AuthJWT(), middleware.CheckSurveyOwner(), controllers.GetSurveyStatistics)
			surveys.POST("/:slug/submit", middleware.AuthJWT(), controllers.SubmitSurvey)
			surveys.POST("/:slug/questions", middleware.AuthJWT(), middleware.CheckSurveyOwner(), middleware.CheckSurveyDraft(), controllers.AddQuestion)
		}

		api.DELETE("/questions/:id", middleware.AuthJWT(), middleware.CheckQuestionOwner(), controllers.DeleteQuestion)
		api.POST("/questions/:id/answers", middleware.AuthJWT(), middleware.CheckQuestionOwner(), controllers.AddAnswer)
		api.DELETE("/answers/:id", middleware.AuthJWT(), middleware.CheckAnswerOwner(), controllers.DeleteAnswer)
	}
}
