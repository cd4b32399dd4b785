package console

import (
	"sync"
	"time"
)

const DefaultNotifyTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient status message.
type Notification struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Notifier holds at most one notification. A new Raise replaces the current
// one and its expiry; nothing is queued.
type Notifier struct {
	mu     sync.Mutex
	ttl    time.Duration
	seq    uint64
	cur    *Notification
	timer  *time.Timer
	closed bool
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotifyTTL
	}
	return &Notifier{ttl: ttl}
}

// Raise shows msg and returns its id. It returns 0 once the notifier is closed.
func (n *Notifier) Raise(msg string, kind Kind) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return 0
	}
	n.stopTimer()
	n.seq++
	id := n.seq
	n.cur = &Notification{ID: id, Message: msg, Kind: kind}
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(id) })
	return id
}

// expire clears the notification only if it is still the one that scheduled
// the timer.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cur != nil && n.cur.ID == id {
		n.cur = nil
		n.timer = nil
	}
}

// Dismiss clears the current notification immediately.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimer()
	n.cur = nil
}

func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cur == nil {
		return Notification{}, false
	}
	return *n.cur, true
}

// Close stops the pending expiry and ignores later raises.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimer()
	n.cur = nil
	n.closed = true
}

func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// current is the view form of Current.
func (n *Notifier) current() *Notification {
	if v, ok := n.Current(); ok {
		return &v
	}
	return nil
}
