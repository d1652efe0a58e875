package bus

import (
	"context"

	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
)

// Bus fans SSE messages out across service instances so an edit saved on one
// replica reaches editor tabs connected to another.
type Bus interface {
	Publish(ctx context.Context, msg sse.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m sse.SSEMessage)) error
	Close() error
}
