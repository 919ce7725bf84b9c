package session

import (
	"log/slog"

	"github.com/ziadkadry99/docdeck/internal/content"
	"github.com/ziadkadry99/docdeck/internal/deck"
	"github.com/ziadkadry99/docdeck/internal/loop"
	"github.com/ziadkadry99/docdeck/internal/surface"
)

// Manager is the page controller of one client. It owns at most one live
// session and replaces it on every navigation.
type Manager struct {
	cfg        Config
	sched      loop.Scheduler
	newSurface SurfaceFactory
	logger     *slog.Logger

	current *Session
	queued  bool

	// OnUpdate receives session output on the loop. It is the only path by
	// which session state leaves the loop.
	OnUpdate func(Update)
}

// NewManager creates a page controller. A nil factory allocates surfaces
// with surface.New.
func NewManager(cfg Config, sched loop.Scheduler, newSurface SurfaceFactory, logger *slog.Logger) *Manager {
	if newSurface == nil {
		newSurface = surface.New
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, sched: sched, newSurface: newSurface, logger: logger}
}

// Current returns the live session, or nil before the first navigation.
func (m *Manager) Current() *Session { return m.current }

// Navigate tears down the live session and starts one for the new page.
func (m *Manager) Navigate(path string, a *content.Article) *Session {
	m.teardown()
	s := newSession(path, a, m.cfg, m.sched, m.newSurface, m.logger)
	s.notify = m.schedule
	m.current = s
	m.logger.Info("session started", "session", s.ID(), "path", path, "headings", len(a.Headings()))
	m.schedule()
	return s
}

// HandleKey is the single keyboard binding for the page. It forwards to the
// live deck, if any, and reports whether the key was consumed.
func (m *Manager) HandleKey(k deck.KeyEvent) bool {
	if m.current == nil {
		return false
	}
	return m.current.Deck.HandleKey(k)
}

// Flush delivers pending output immediately.
func (m *Manager) Flush() {
	m.queued = false
	if m.current == nil {
		return
	}
	if u, ok := m.current.Take(); ok && m.OnUpdate != nil {
		m.OnUpdate(u)
	}
}

// Close tears down the live session.
func (m *Manager) Close() {
	m.teardown()
}

func (m *Manager) schedule() {
	if m.queued {
		return
	}
	m.queued = true
	m.sched.Post(m.Flush)
}

func (m *Manager) teardown() {
	if m.current == nil {
		return
	}
	m.current.Teardown()
	m.logger.Info("session closed", "session", m.current.ID(), "path", m.current.Path())
	m.current = nil
}
