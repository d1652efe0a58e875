package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestAutosaveCoalescesEdits(t *testing.T) {
	as := NewAutosaveService(testLogger(t), 30*time.Millisecond)
	defer as.Stop()

	var count int32
	for i := 0; i < 5; i++ {
		as.Schedule("course:1", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Fatalf("burst of edits should flush once, got %d", got)
	}
}

func TestAutosaveKeysIndependent(t *testing.T) {
	as := NewAutosaveService(testLogger(t), 20*time.Millisecond)
	defer as.Stop()

	var a, b int32
	as.Schedule("course:a", func(ctx context.Context) error {
		atomic.AddInt32(&a, 1)
		return nil
	})
	as.Schedule("course:b", func(ctx context.Context) error {
		atomic.AddInt32(&b, 1)
		return nil
	})

	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&a) != 1 || atomic.LoadInt32(&b) != 1 {
		t.Fatalf("distinct keys should flush independently: a=%d b=%d", a, b)
	}
}

func TestAutosaveResetOnNewEdit(t *testing.T) {
	as := NewAutosaveService(testLogger(t), 50*time.Millisecond)
	defer as.Stop()

	var count int32
	as.Schedule("k", func(ctx context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	time.Sleep(30 * time.Millisecond)
	// Second edit lands before the first would fire; timer restarts.
	as.Schedule("k", func(ctx context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&count) != 0 {
		t.Fatalf("flush fired before the reset interval elapsed")
	}
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Fatalf("reset edit should flush exactly once, got %d", got)
	}
}

func TestAutosaveFlushImmediate(t *testing.T) {
	as := NewAutosaveService(testLogger(t), time.Hour)
	defer as.Stop()

	var count int32
	as.Schedule("k", func(ctx context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	as.Flush("k")
	if atomic.LoadInt32(&count) != 1 {
		t.Fatalf("Flush should run the pending save immediately")
	}
	// Nothing left to fire.
	as.Flush("k")
	if atomic.LoadInt32(&count) != 1 {
		t.Fatalf("second Flush should be a no-op")
	}
}

func TestAutosaveStopFlushesPending(t *testing.T) {
	as := NewAutosaveService(testLogger(t), time.Hour)

	var count int32
	as.Schedule("k", func(ctx context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	as.Stop()
	if atomic.LoadInt32(&count) != 1 {
		t.Fatalf("Stop should flush pending saves")
	}

	as.Schedule("k2", func(ctx context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&count) != 1 {
		t.Fatalf("Schedule after Stop should be rejected")
	}
}

func TestAutosaveStaleTimerSkipsRescheduledSave(t *testing.T) {
	as := NewAutosaveService(testLogger(t), time.Hour).(*autosaveService)
	defer as.Stop()

	var count int32
	fn := func(ctx context.Context) error {
		atomic.AddInt32(&count, 1)
		return nil
	}

	as.Schedule("course:1", fn)
	as.mu.Lock()
	stale := as.pending["course:1"]
	as.mu.Unlock()

	// A new edit replaces the entry while the old timer is mid-fire.
	as.Schedule("course:1", fn)
	as.fire("course:1", stale)

	if got := atomic.LoadInt32(&count); got != 0 {
		t.Fatalf("stale timer flushed the rescheduled save, count = %d", got)
	}

	as.Flush("course:1")
	if got := atomic.LoadInt32(&count); got != 1 {
		t.Fatalf("rescheduled save should still flush once, count = %d", got)
	}
}
