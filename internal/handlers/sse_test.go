package handlers

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
	"github.com/ParticlesofMind/neptino-sub010/internal/requestdata"
	"github.com/ParticlesofMind/neptino-sub010/internal/sse"
)

func sseTestHandler(t *testing.T) *SSEHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSSEHandler(log, sse.NewSSEHub(log))
}

func streamContext(t *testing.T, userID uuid.UUID) (*gin.Context, context.CancelFunc) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ctx, cancel := context.WithCancel(context.Background())
	ctx = requestdata.WithRequestData(ctx, &requestdata.RequestData{UserID: userID})
	c.Request = httptest.NewRequest("GET", "/sse/stream", nil).WithContext(ctx)
	return c, cancel
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// A reconnect replaces the user's stream. The replaced stream must exit
// cleanly without panicking and without evicting the new stream's
// registration.
func TestStreamReconnectReplacesClient(t *testing.T) {
	h := sseTestHandler(t)
	userID := uuid.New()

	runStream := func(c *gin.Context) chan any {
		exited := make(chan any, 1)
		go func() {
			defer func() { exited <- recover() }()
			h.Stream(c)
		}()
		return exited
	}

	firstCtx, firstCancel := streamContext(t, userID)
	defer firstCancel()
	firstExited := runStream(firstCtx)

	waitFor(t, "first stream to register", func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.clients[userID] != nil
	})
	h.mu.RLock()
	first := h.clients[userID]
	h.mu.RUnlock()

	secondCtx, secondCancel := streamContext(t, userID)
	secondExited := runStream(secondCtx)

	select {
	case p := <-firstExited:
		if p != nil {
			t.Fatalf("replaced stream panicked: %v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("replaced stream did not exit")
	}

	h.mu.RLock()
	current := h.clients[userID]
	h.mu.RUnlock()
	if current == nil || current == first {
		t.Fatalf("live stream lost its registration after replacement")
	}

	secondCancel()
	select {
	case p := <-secondExited:
		if p != nil {
			t.Fatalf("live stream panicked: %v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("live stream did not exit on cancel")
	}

	h.mu.RLock()
	remaining := h.clients[userID]
	h.mu.RUnlock()
	if remaining != nil {
		t.Fatalf("registration should be cleared after the live stream exits")
	}
}
