package ssedata

import (
	"context"

	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
)

type key struct{}

var sseDataKey key

// SSEData accumulates messages during a request; middleware flushes them to
// the hub only after the handler has completed, so clients never observe
// events for writes that were rolled back.
type SSEData struct {
	Messages []sse.SSEMessage
}

func WithSSEData(ctx context.Context) context.Context {
	data := &SSEData{
		Messages: make([]sse.SSEMessage, 0),
	}
	return context.WithValue(ctx, sseDataKey, data)
}

func GetSSEData(ctx context.Context) *SSEData {
	ssd, ok := ctx.Value(sseDataKey).(*SSEData)
	if !ok {
		return nil
	}
	return ssd
}

func (d *SSEData) AppendMessage(msg sse.SSEMessage) {
	d.Messages = append(d.Messages, msg)
}
