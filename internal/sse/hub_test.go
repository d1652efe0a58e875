package sse

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
)

func testHub(t *testing.T) *SSEHub {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewSSEHub(log)
}

func TestCloseClientIdempotent(t *testing.T) {
	hub := testHub(t)
	client := hub.NewSSEClient(uuid.New())
	channel := CourseChannel(uuid.New())
	hub.AddChannel(client, channel)

	hub.CloseClient(client)
	// A replaced stream and its own exit path may both close the client.
	hub.CloseClient(client)

	select {
	case <-client.done:
	default:
		t.Fatalf("done channel should be closed")
	}

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCurriculumUpdated})
	select {
	case msg := <-client.Outbound:
		t.Fatalf("closed client received %v", msg)
	default:
	}
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub := testHub(t)
	courseID := uuid.New()
	channel := CourseChannel(courseID)

	subscribed := hub.NewSSEClient(uuid.New())
	other := hub.NewSSEClient(uuid.New())
	hub.AddChannel(subscribed, channel)
	hub.AddChannel(other, CourseChannel(uuid.New()))

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventCanvasesSynced})

	select {
	case msg := <-subscribed.Outbound:
		if msg.Event != SSEEventCanvasesSynced {
			t.Fatalf("event = %s", msg.Event)
		}
	default:
		t.Fatalf("subscriber received nothing")
	}
	select {
	case msg := <-other.Outbound:
		t.Fatalf("unrelated client received %v", msg)
	default:
	}
}
