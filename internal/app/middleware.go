package app

import (
	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/middleware"
)

type Middleware struct {
	Auth     *middleware.AuthMiddleware
	SSEFlush *middleware.SSEFlushMiddleware
}

func wireMiddleware(log *logger.Logger, s *Services) *Middleware {
	return &Middleware{
		Auth:     middleware.NewAuthMiddleware(log, s.Auth),
		SSEFlush: middleware.NewSSEFlushMiddleware(log, s.Emitter),
	}
}
