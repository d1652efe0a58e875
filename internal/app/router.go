package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ParticlesofMind/neptino-sub010/internal/server"
)

func wireRouter(cfg Config, h *Handlers, m *Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSOrigins:        cfg.CORSOrigins,
		AuthMiddleware:     m.Auth,
		SSEFlushMiddleware: m.SSEFlush,
		HealthcheckHandler: h.Healthcheck,
		AuthHandler:        h.Auth,
		UserHandler:        h.User,
		CourseHandler:      h.Course,
		CurriculumHandler:  h.Curriculum,
		TemplateHandler:    h.Template,
		CanvasHandler:      h.Canvas,
		SSEHandler:         h.SSE,
	})
}
