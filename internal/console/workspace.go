package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Screen is an active controller that can be torn down.
type Screen interface {
	Close()
	Notifier() *Notifier
}

// Workspace holds the one active screen of a browser session. Activating a
// screen closes the previous one.
type Workspace struct {
	mu     sync.Mutex
	store  Store
	opts   Options
	active Screen
}

func NewWorkspace(store Store, opts Options) *Workspace {
	return &Workspace{store: store, opts: opts.withDefaults()}
}

func (w *Workspace) swap(s Screen) {
	w.mu.Lock()
	prev := w.active
	w.active = s
	w.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

func (w *Workspace) ActivateDashboard() *DashboardController {
	c := NewDashboard(w.store, w.opts)
	w.swap(c)
	return c
}

func (w *Workspace) ActivateDirectory() *DirectoryController {
	c := NewDirectory(w.store, w.opts)
	w.swap(c)
	return c
}

func (w *Workspace) ActivateAttendance() *AttendanceController {
	c := NewAttendance(w.store, w.opts)
	w.swap(c)
	return c
}

func (w *Workspace) ActivateProfile() *ProfileController {
	c := NewProfile(w.store, w.opts)
	w.swap(c)
	return c
}

// Active returns the active screen.
func (w *Workspace) Active() Screen {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// ActiveAs returns the active screen if it is a T, ErrNotActive otherwise.
func ActiveAs[T Screen](w *Workspace) (T, error) {
	s, ok := w.Active().(T)
	if !ok {
		var zero T
		return zero, ErrNotActive
	}
	return s, nil
}

// Close tears down the active screen.
func (w *Workspace) Close() {
	w.swap(nil)
}

type session struct {
	ws       *Workspace
	lastSeen time.Time
}

// Sessions maps opaque ids to workspaces.
type Sessions struct {
	mu    sync.Mutex
	m     map[string]*session
	newWS func() *Workspace
	now   func() time.Time
	log   *zap.Logger
}

func NewSessions(newWS func() *Workspace, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		m:     map[string]*session{},
		newWS: newWS,
		now:   time.Now,
		log:   log,
	}
}

// Get returns the workspace for id and marks it as used.
func (s *Sessions) Get(id string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ws, true
}

// Create starts a new session.
func (s *Sessions) Create() (string, *Workspace) {
	id := uuid.NewString()
	ws := s.newWS()
	s.mu.Lock()
	s.m[id] = &session{ws: ws, lastSeen: s.now()}
	s.mu.Unlock()
	s.log.Debug("session created", zap.String("session", id))
	return id, ws
}

// Sweep closes sessions idle for longer than maxIdle and returns how many.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	var stale []*Workspace

	s.mu.Lock()
	for id, sess := range s.m {
		if sess.lastSeen.Before(cutoff) {
			stale = append(stale, sess.ws)
			delete(s.m, id)
		}
	}
	s.mu.Unlock()

	for _, ws := range stale {
		ws.Close()
	}
	if len(stale) > 0 {
		s.log.Info("idle sessions closed", zap.Int("count", len(stale)))
	}
	return len(stale)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// CloseAll tears down every session.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	all := s.m
	s.m = map[string]*session{}
	s.mu.Unlock()
	for _, sess := range all {
		sess.ws.Close()
	}
}
