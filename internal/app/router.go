package app

import (
	"github.com/AnektrOn/catalystbeacon-sub000/docs"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/config"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/middleware"
	"github.com/AnektrOn/catalystbeacon-sub000/internal/model"
	"github.com/AnektrOn/catalystbeacon-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/levels", c.school.GetLevels)

		// Anonymous callers browse the free tier; a valid token upgrades
		// the view to everything their XP unlocks.
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.GetCatalog)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.GET("/leaderboard", c.user.GetLeaderboard)

	// Schools gated by XP
	rg.GET("/schools", c.school.GetSchools)

	// Progression
	rg.GET("/courses/:courseId/structure", c.course.GetStructure)
	rg.GET("/courses/:courseId/unlock", c.course.CheckUnlock)
	rg.GET("/courses/:courseId/derive", c.course.DeriveIDs)
	rg.POST("/courses/:courseId/lessons/complete", c.course.CompleteLesson)
	rg.GET("/courses/:courseId/progress", c.course.GetProgress)
	rg.GET("/courses/:courseId/next", c.course.GetNextLesson)
	rg.GET("/user/courses", c.course.GetMyCourses)

	// Habits and streaks
	rg.GET("/habits/templates", c.habit.GetTemplates)
	rg.GET("/habits", c.habit.GetHabits)
	rg.POST("/habits", c.habit.CreateHabit)
	rg.DELETE("/habits/:habitId", c.habit.DeleteHabit)
	rg.POST("/habits/:habitId/toggle", c.habit.ToggleCompletion)
	rg.GET("/habits/:habitId/streak", c.habit.GetStreak)
	rg.GET("/habits/:habitId/completion-rate", c.habit.GetCompletionRate)
	rg.GET("/habits/:habitId/month", c.habit.GetMonth)

	// Dashboard stats
	rg.GET("/dashboard/habits", c.dashboard.GetHabitStats)
	rg.GET("/dashboard/lessons", c.dashboard.GetLessonStats)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		admin.GET("/users/:id", middleware.RoleMiddleware(model.Admin, model.Mentor), c.user.GetUser)

		adminOnly := admin.Group("/")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.POST("/users/:id/disable", c.user.DisableUser)
			adminOnly.POST("/schools", c.school.UpsertSchool)
			adminOnly.POST("/habit-templates", c.habit.CreateTemplate)
			adminOnly.POST("/courses", c.course.UpsertCourse)
			adminOnly.PUT("/courses/:courseId/structure", c.course.IngestStructure)
		}
	}
}
