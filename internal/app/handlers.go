package app

import (
	"github.com/ParticlesofMind/neptino-sub010/internal/handlers"
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
)

type Handlers struct {
	Healthcheck *handlers.HealthcheckHandler
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Course      *handlers.CourseHandler
	Curriculum  *handlers.CurriculumHandler
	Template    *handlers.TemplateHandler
	Canvas      *handlers.CanvasHandler
	SSE         *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, s *Services, hub *sse.SSEHub) *Handlers {
	return &Handlers{
		Healthcheck: handlers.NewHealthcheckHandler(),
		Auth:        handlers.NewAuthHandler(log, s.Auth),
		User:        handlers.NewUserHandler(log, s.User),
		Course:      handlers.NewCourseHandler(log, s.Course),
		Curriculum:  handlers.NewCurriculumHandler(log, s.Curriculum, s.CanvasSync, s.Autosave),
		Template:    handlers.NewTemplateHandler(log, s.Template, s.Course, s.Curriculum),
		Canvas:      handlers.NewCanvasHandler(log, s.CanvasSync),
		SSE:         handlers.NewSSEHandler(log, hub),
	}
}
