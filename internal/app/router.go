package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"

	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/categories", c.catalog.ListCategories)

		// Browsing works anonymously; a token personalizes progress and
		// ownership flags.
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.catalog.GetCourses)
		public.GET("/courses/:courseId", middleware.TryAuthMiddleware(cfg), c.catalog.GetCourseDetail)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.GET("/dashboard", c.catalog.GetDashboard)

	rg.GET("/courses/:courseId/chapters/:chapterId", c.player.GetChapter)
	rg.PUT("/courses/:courseId/chapters/:chapterId/progress", c.player.UpdateProgress)

	rg.POST("/courses/:courseId/checkout", c.purchase.Checkout)
	rg.GET("/purchases", c.purchase.ListPurchases)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.GET("/analytics", c.analytics.GetAnalytics)

		courses := instructor.Group("/courses")
		{
			courses.POST("", c.course.CreateCourse)
			courses.GET("", c.course.ListCourses)
			courses.GET("/:courseId", c.course.GetCourse)
			courses.PATCH("/:courseId", c.course.UpdateCourse)
			courses.DELETE("/:courseId", c.course.DeleteCourse)
			courses.POST("/:courseId/image", c.course.UploadImage)
			courses.PATCH("/:courseId/publish", c.course.PublishCourse)
			courses.PATCH("/:courseId/unpublish", c.course.UnpublishCourse)
			courses.POST("/:courseId/attachments", c.course.UploadAttachment)
			courses.DELETE("/:courseId/attachments/:attachmentId", c.course.DeleteAttachment)

			courses.POST("/:courseId/chapters", c.chapter.CreateChapter)
			courses.PUT("/:courseId/chapters/reorder", c.chapter.ReorderChapters)
			courses.PATCH("/:courseId/chapters/:chapterId", c.chapter.UpdateChapter)
			courses.DELETE("/:courseId/chapters/:chapterId", c.chapter.DeleteChapter)
			courses.POST("/:courseId/chapters/:chapterId/video", c.chapter.UploadVideo)
			courses.PATCH("/:courseId/chapters/:chapterId/publish", c.chapter.PublishChapter)
			courses.PATCH("/:courseId/chapters/:chapterId/unpublish", c.chapter.UnpublishChapter)
		}
	}
}
