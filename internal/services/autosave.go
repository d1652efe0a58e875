package services

import (
	"context"
	"sync"
	"time"

	"github.com/ParticlesofMind/neptino-sub010/internal/logger"
)

// AutosaveService coalesces rapid edits into one save per key. A new edit to
// the same key resets that key's timer; distinct keys flush independently.
// Every flushed fn goes through the versioned save path, so a flush that
// raced a newer write is rejected there rather than clobbering it.
type AutosaveService interface {
	Schedule(key string, fn func(ctx context.Context) error)
	Flush(key string)
	FlushAll()
	Stop()
}

type autosaveService struct {
	mu       sync.Mutex
	log      *logger.Logger
	interval time.Duration
	pending  map[string]*pendingSave
	stopped  bool
}

type pendingSave struct {
	timer *time.Timer
	fn    func(ctx context.Context) error
}

func NewAutosaveService(log *logger.Logger, interval time.Duration) AutosaveService {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &autosaveService{
		log:      log.With("service", "AutosaveService"),
		interval: interval,
		pending:  make(map[string]*pendingSave),
	}
}

func (as *autosaveService) Schedule(key string, fn func(ctx context.Context) error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.stopped {
		return
	}

	if prev, ok := as.pending[key]; ok {
		prev.timer.Stop()
	}

	p := &pendingSave{fn: fn}
	p.timer = time.AfterFunc(as.interval, func() {
		as.fire(key, p)
	})
	as.pending[key] = p
}

// fire only flushes the entry it was armed for. A timer that fired while
// Schedule was replacing the same key must not flush the replacement early.
func (as *autosaveService) fire(key string, armed *pendingSave) {
	as.mu.Lock()
	current, ok := as.pending[key]
	if !ok || current != armed {
		as.mu.Unlock()
		return
	}
	delete(as.pending, key)
	as.mu.Unlock()

	if err := armed.fn(context.Background()); err != nil {
		as.log.Warn("autosave flush failed", "key", key, "error", err)
	}
}

// Flush runs a pending save for key immediately, if any.
func (as *autosaveService) Flush(key string) {
	as.mu.Lock()
	p, ok := as.pending[key]
	if ok {
		p.timer.Stop()
		delete(as.pending, key)
	}
	as.mu.Unlock()

	if !ok {
		return
	}
	if err := p.fn(context.Background()); err != nil {
		as.log.Warn("autosave flush failed", "key", key, "error", err)
	}
}

func (as *autosaveService) FlushAll() {
	as.mu.Lock()
	keys := make([]string, 0, len(as.pending))
	for key := range as.pending {
		keys = append(keys, key)
	}
	as.mu.Unlock()

	for _, key := range keys {
		as.Flush(key)
	}
}

// Stop flushes everything pending and rejects further schedules.
func (as *autosaveService) Stop() {
	as.mu.Lock()
	as.stopped = true
	as.mu.Unlock()
	as.FlushAll()
}
