package app

import (
	"empower_backend/docs"
	"empower_backend/internal/config"
	"empower_backend/internal/middleware"
	"empower_backend/internal/model"
	"empower_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/auth/me", c.auth.Me)

		authGroup.GET("/users/profile", c.user.GetProfile)
		authGroup.PUT("/users/profile", c.user.UpdateProfile)
		authGroup.POST("/users/avatar", c.user.UploadAvatar)
		authGroup.GET("/users/achievements", c.user.GetAchievements)

		authGroup.GET("/tasks/daily", c.task.GetDailyTasks)
		authGroup.POST("/tasks/daily/:taskId/complete", c.task.CompleteTask)
		authGroup.POST("/lessons/complete", c.task.CompleteLesson)

		authGroup.POST("/quizzes/start", c.quiz.StartQuiz)
		authGroup.POST("/quizzes/:sessionId/submit", c.quiz.SubmitQuiz)
		authGroup.GET("/quizzes/history", c.quiz.History)

		authGroup.GET("/challenges/weekly", c.challenge.GetWeekly)
		authGroup.POST("/challenges/:challengeId/join", c.challenge.Join)

		authGroup.GET("/leaderboard", c.leaderboard.Get)
	}

	// 管理员路由
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/questions", c.quiz.ListQuestions)
		adminGroup.POST("/questions", c.quiz.CreateQuestion)
		adminGroup.PUT("/questions/:id", c.quiz.UpdateQuestion)
		adminGroup.DELETE("/questions/:id", c.quiz.DeleteQuestion)
	}
}
