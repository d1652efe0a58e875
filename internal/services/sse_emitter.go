package services

import (
	"context"

	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse/bus"
)

// SSEEmitter delivers post-commit events. HubEmitter serves single-instance
// deployments; RedisEmitter fans out across instances through pub/sub.
type SSEEmitter interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

type HubEmitter struct{ Hub *sse.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type RedisEmitter struct{ Bus bus.Bus }

func (e *RedisEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
