package request

import (
	"log/slog"
	"sync"
)

// sharedLoading reference-counts slow exchanges over one Indicator: the
// handle is started by the first concurrent slow exchange and dismissed
// when the last one completes.
type sharedLoading struct {
	mu     sync.Mutex
	ind    Indicator
	count  int
	handle Handle
	log    *slog.Logger
}

func newSharedLoading(ind Indicator, log *slog.Logger) *sharedLoading {
	return &sharedLoading{ind: ind, log: log}
}

// acquire registers one slow exchange and returns its release function.
// release is idempotent.
func (l *sharedLoading) acquire() func() {
	if l == nil || l.ind == nil {
		return func() {}
	}
	l.mu.Lock()
	l.count++
	if l.count == 1 {
		l.handle = l.ind.Start()
	}
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(l.release)
	}
}

func (l *sharedLoading) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count--
	if l.count > 0 {
		return
	}
	l.count = 0
	h := l.handle
	l.handle = nil
	if h == nil {
		return
	}
	if err := h.Dismiss(); err != nil {
		l.log.Warn("failed to dismiss loading indicator", "error", err)
	}
}

// active returns the number of slow exchanges in flight.
func (l *sharedLoading) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
