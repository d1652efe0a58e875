package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ParticlesofMind/neptino-sub010/internal/handlers"
	"github.com/ParticlesofMind/neptino-sub010/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	CORSOrigins        []string
	AuthMiddleware     *middleware.AuthMiddleware
	SSEFlushMiddleware *middleware.SSEFlushMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	CourseHandler      *handlers.CourseHandler
	CurriculumHandler  *handlers.CurriculumHandler
	TemplateHandler    *handlers.TemplateHandler
	CanvasHandler      *handlers.CanvasHandler
	SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthMiddleware.RequireRefresh(), cfg.AuthHandler.Refresh)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	api.Use(cfg.SSEFlushMiddleware.Flush())
	{
		api.POST("/logout", cfg.AuthHandler.Logout)
		api.GET("/user", cfg.UserHandler.GetCurrentUser)

		api.POST("/courses", cfg.CourseHandler.CreateCourse)
		api.GET("/courses", cfg.CourseHandler.ListCourses)
		api.GET("/courses/:courseID", cfg.CourseHandler.GetCourse)
		api.DELETE("/courses/:courseID", cfg.CourseHandler.DeleteCourse)
		api.PUT("/courses/:courseID/schedule", cfg.CourseHandler.UpdateSchedule)

		api.GET("/courses/:courseID/curriculum", cfg.CurriculumHandler.Get)
		api.POST("/courses/:courseID/curriculum/initialize", cfg.CurriculumHandler.Initialize)
		api.PUT("/courses/:courseID/curriculum/structure", cfg.CurriculumHandler.UpdateStructure)
		api.PUT("/courses/:courseID/curriculum/organization", cfg.CurriculumHandler.SetOrganization)
		api.PUT("/courses/:courseID/curriculum/lessons/:n", cfg.CurriculumHandler.EditLesson)
		api.PUT("/courses/:courseID/curriculum/modules/:n/title", cfg.CurriculumHandler.RenameModule)
		api.PUT("/courses/:courseID/curriculum/placements/:templateID", cfg.CurriculumHandler.UpdatePlacement)
		api.POST("/courses/:courseID/curriculum/placements/:templateID/toggle", cfg.CurriculumHandler.TogglePlacement)
		api.POST("/courses/:courseID/curriculum/placements/:templateID/ranges", cfg.CurriculumHandler.EditPlacementRange)
		api.POST("/courses/:courseID/curriculum/placements/apply", cfg.CurriculumHandler.ApplyPlacements)
		api.POST("/courses/:courseID/curriculum/validate", cfg.CurriculumHandler.ValidateLessonCount)
		api.GET("/courses/:courseID/curriculum/preview", cfg.CurriculumHandler.Preview)

		api.GET("/courses/:courseID/templates", cfg.TemplateHandler.ListTemplates)
		api.POST("/courses/:courseID/templates", cfg.TemplateHandler.CreateTemplate)

		api.GET("/courses/:courseID/lessons/:n/canvases", cfg.CanvasHandler.GetLessonCanvases)
		api.POST("/courses/:courseID/canvases/sync", cfg.CanvasHandler.SyncCanvases)
		api.GET("/courses/:courseID/lessons/:n/canvases/:index/thumbnail.png", cfg.CanvasHandler.Thumbnail)
	}

	sseGroup := router.Group("/sse")
	sseGroup.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sseGroup.GET("/stream", cfg.SSEHandler.Stream)
		sseGroup.POST("/subscribe", cfg.SSEHandler.Subscribe)
		sseGroup.POST("/unsubscribe", cfg.SSEHandler.Unsubscribe)
	}

	return router
}
