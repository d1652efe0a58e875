package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/services"
	"github.com/ParticlesofMind/neptino-sub010/internal/ssedata"
)

type SSEFlushMiddleware struct {
	log     *logger.Logger
	emitter services.SSEEmitter
}

func NewSSEFlushMiddleware(log *logger.Logger, emitter services.SSEEmitter) *SSEFlushMiddleware {
	return &SSEFlushMiddleware{
		log:     log.With("middleware", "SSEFlushMiddleware"),
		emitter: emitter,
	}
}

// Flush delivers accumulated SSE messages only after the handler returns, so
// clients never see events for writes that rolled back.
func (sm *SSEFlushMiddleware) Flush() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		ssd := ssedata.GetSSEData(c.Request.Context())
		if ssd == nil || len(ssd.Messages) == 0 {
			return
		}
		if len(c.Errors) > 0 {
			return
		}
		for _, msg := range ssd.Messages {
			sm.emitter.Emit(c.Request.Context(), msg)
		}
	}
}
