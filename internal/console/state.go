package console

import (
	"sync"

	"go.uber.org/zap"
)

// LoadState is the screen-level loading indicator and load error.
type LoadState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// loadTracker counts in-flight loads and remembers the newest one issued, so
// an older result never overwrites a newer one.
type loadTracker struct {
	inflight int
	issued   uint64
	err      string
}

func (t *loadTracker) begin() uint64 {
	t.inflight++
	t.issued++
	return t.issued
}

// end reports whether id is still the newest load.
func (t *loadTracker) end(id uint64) bool {
	t.inflight--
	return id == t.issued
}

func (t *loadTracker) state() LoadState {
	return LoadState{Loading: t.inflight > 0, Error: t.err}
}

// screen is the part every controller shares: a lock over its state, the
// teardown flag, load bookkeeping and its notifier.
type screen struct {
	mu     sync.Mutex
	closed bool
	loads  loadTracker
	notes  *Notifier
	log    *zap.Logger
}

func (s *screen) init(name string, opts Options) {
	s.notes = NewNotifier(opts.NotifyTTL)
	s.log = opts.Logger.With(zap.String("screen", name))
}

// Close tears the screen down. Results of calls still in flight are dropped.
func (s *screen) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notes.Close()
}

// Notifier returns the screen's notification emitter.
func (s *screen) Notifier() *Notifier {
	return s.notes
}

// dropLate must be called with mu held.
func (s *screen) dropLate(op string) error {
	s.log.Debug("dropping response for closed screen", zap.String("op", op))
	return ErrClosed
}
