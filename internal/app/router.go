package app

import (
	"medprep_backend/docs"
	"medprep_backend/internal/config"
	"medprep_backend/internal/middleware"
	"medprep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api/v1")

	// Public browsing
	api.POST("/auth/register", c.auth.Register)
	api.POST("/auth/login", c.auth.Login)

	api.GET("/specialties", c.catalog.ListSpecialties)
	api.GET("/specialties/:specialty/exam-levels", c.catalog.ListExamLevels)
	api.GET("/specialties/:specialty/exam-levels/:level/subspecialties", c.catalog.ListSubspecialties)
	api.GET("/courses", c.catalog.ListCourses)
	api.GET("/courses/:slug", c.catalog.CourseDetail)
	api.GET("/chapters/:slug/topics", c.catalog.ChapterTopics)

	api.GET("/exams", c.exam.List)
	api.GET("/exams/:id", c.exam.Detail)

	// Topic detail personalizes for logged-in callers
	api.GET("/topics/:id", middleware.TryAuthMiddleware(cfg, s.auth), c.study.TopicDetail)

	// Authenticated
	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(cfg, s.auth))
	{
		auth.POST("/auth/logout", c.auth.Logout)

		auth.GET("/users/me", c.user.GetProfile)
		auth.PATCH("/users/me", c.user.UpdateProfile)
		auth.PUT("/users/me/preferences", c.user.UpdatePreferences)
		auth.PUT("/users/me/password", c.user.ChangePassword)
		auth.POST("/users/me/avatar", c.user.UploadAvatar)

		auth.POST("/exams/:id/attempts", c.attempt.Start)
		auth.POST("/attempts/:id/answers", c.attempt.SubmitAnswer)
		auth.POST("/attempts/:id/complete", c.attempt.Complete)
		auth.POST("/attempts/:id/abandon", c.attempt.Abandon)
		auth.GET("/attempts/:id/results", c.attempt.Results)

		auth.PUT("/topics/:id/progress", c.study.UpdateProgress)
		auth.POST("/topics/:id/attempts", c.study.RecordAttempt)
		auth.GET("/topics/:id/attempts", c.study.AttemptHistory)
	}

	// Staff-only
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg, s.auth), middleware.StaffMiddleware())
	{
		admin.PATCH("/exams/:id/publish", c.exam.SetPublished)
	}
}
