// Package session ties one page's deck, annotation engine, layout and
// outline into a live session driven by a single event loop.
package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docdeck/internal/annotate"
	"github.com/ziadkadry99/docdeck/internal/content"
	"github.com/ziadkadry99/docdeck/internal/deck"
	"github.com/ziadkadry99/docdeck/internal/layout"
	"github.com/ziadkadry99/docdeck/internal/loop"
	"github.com/ziadkadry99/docdeck/internal/outline"
	"github.com/ziadkadry99/docdeck/internal/slides"
	"github.com/ziadkadry99/docdeck/internal/surface"
)

// Config holds the settings every session is created with.
type Config struct {
	Annotate annotate.Config
	Layout   layout.Config
	// Flash is how long a toolbar button stays highlighted after use.
	Flash time.Duration
	// Width and Height size the surface before the client first measures.
	Width  float64
	Height float64
}

// DefaultConfig returns the default session settings.
func DefaultConfig() Config {
	return Config{
		Annotate: annotate.DefaultConfig(),
		Layout:   layout.DefaultConfig(),
		Flash:    600 * time.Millisecond,
		Width:    960,
		Height:   540,
	}
}

// SurfaceFactory allocates a drawing surface. An error leaves the session
// without drawing.
type SurfaceFactory func(cssW, cssH, ratio float64) (*surface.Surface, error)

// State is the snapshot of session state sent to the page after changes.
type State struct {
	Session      string           `json:"session"`
	Path         string           `json:"path"`
	Title        string           `json:"title"`
	Deck         deck.View        `json:"deck"`
	Tool         annotate.Tool    `json:"tool"`
	Drawing      bool             `json:"drawing_available"`
	CanUndo      bool             `json:"can_undo"`
	CanRedo      bool             `json:"can_redo"`
	Flash        string           `json:"flash,omitempty"`
	Outline      []outline.Change `json:"outline"`
	ActiveHeader string           `json:"active_heading,omitempty"`
}

// Update is the pending output of a session. Markup is set after the deck
// was rebuilt; Surface holds PNG bytes when the pixels changed.
type Update struct {
	State   State
	Markup  string
	Surface []byte
}

// Session is the live deck of one page. All methods must be called on the
// loop the session was created with.
type Session struct {
	id      string
	path    string
	article *content.Article
	cfg     Config
	sched   loop.Scheduler
	logger  *slog.Logger

	Deck    *deck.Controller
	Engine  *annotate.Engine
	Layout  *layout.Coordinator
	Outline *outline.Outline

	flash      string
	flashTimer *loop.Timer

	stateDirty   bool
	surfaceDirty bool
	rebuilt      bool
	closed       bool

	// notify is called when the session first becomes dirty after a Take.
	notify func()
}

func newSession(path string, a *content.Article, cfg Config, sched loop.Scheduler, newSurface SurfaceFactory, logger *slog.Logger) *Session {
	s := &Session{
		id:      uuid.NewString(),
		path:    path,
		article: a,
		cfg:     cfg,
		sched:   sched,
	}
	s.logger = logger.With("session", s.id, "path", path)

	surf, err := newSurface(cfg.Width, cfg.Height, 1)
	if err != nil {
		s.logger.Warn("session: drawing unavailable", "error", err)
		surf = nil
	}

	s.Deck = deck.New(a.Nodes)
	s.Engine = annotate.New(cfg.Annotate, sched, surf, s.logger)
	s.Layout = layout.NewCoordinator(cfg.Layout, sched, s.Engine, s.logger)
	s.Outline = outline.Build(a.Headings())

	s.Deck.OnRebuild = func() {
		s.rebuilt = true
		s.Layout.AfterRebuild()
	}
	s.Deck.OnSlideChange = func(from, to int) {
		s.Engine.ResetTool()
		s.logger.Debug("session: slide changed", "from", from, "to", to)
		s.markState()
	}
	s.Deck.OnModeChange = func(enabled bool) {
		s.Engine.SetEnabled(enabled)
		s.Layout.SetActive(enabled)
		s.markState()
	}
	s.Engine.OnChange = func() {
		s.surfaceDirty = true
		s.markState()
	}
	s.Layout.OnLayout = func(float64) { s.markState() }
	s.Outline.OnChange = func([]outline.Change) { s.markState() }

	s.stateDirty = true
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Path returns the page path the session was created for.
func (s *Session) Path() string { return s.path }

// Toggle switches slide mode.
func (s *Session) Toggle() {
	if s.Deck.Enabled() {
		s.Deck.Exit()
		return
	}
	if !s.Deck.Enter() {
		s.logger.Debug("session: nothing to present")
	}
}

// Pointer routes a pointer event to the annotation engine. For down and up
// events it reports whether the surface took the event from the content.
func (s *Session) Pointer(kind string, ev annotate.PointerEvent) bool {
	switch kind {
	case "down":
		return s.Engine.PointerDown(ev)
	case "move":
		s.Engine.PointerMove(ev)
	case "up":
		return s.Engine.PointerUp(ev)
	case "cancel":
		s.Engine.PointerCancel(ev)
	default:
		s.logger.Debug("session: unknown pointer event", "kind", kind)
	}
	return false
}

// SetTool selects a tool by name and reports whether it was accepted.
func (s *Session) SetTool(name string) bool {
	t, ok := annotate.ParseTool(name)
	if !ok {
		s.logger.Debug("session: ignoring unknown tool", "tool", name)
		return false
	}
	return s.Engine.SetTool(t)
}

// Undo reverts the last annotation change. Nothing happens, and nothing
// flashes, while a stroke is in progress.
func (s *Session) Undo() {
	if s.Engine.Drawing() || !s.Engine.CanUndo() {
		return
	}
	s.Engine.Undo()
	s.Flash("undo")
}

// Redo reapplies the last undone change.
func (s *Session) Redo() {
	if s.Engine.Drawing() || !s.Engine.CanRedo() {
		return
	}
	s.Engine.Redo()
	s.Flash("redo")
}

// Clear wipes all annotations as one undoable step.
func (s *Session) Clear() {
	if !s.Engine.Available() || s.Engine.Drawing() {
		return
	}
	s.Engine.Clear()
	s.Flash("clear")
}

// Flash highlights a toolbar action for the configured duration. A new
// flash replaces the pending one.
func (s *Session) Flash(action string) {
	s.flashTimer.Cancel()
	s.flash = action
	s.markState()
	s.flashTimer = s.sched.After(s.cfg.Flash, func() {
		s.flashTimer = nil
		s.flash = ""
		s.markState()
	})
}

// Viewport forwards fresh client measurements.
func (s *Session) Viewport(m layout.Metrics) {
	s.Layout.ViewportResized(m)
}

// ToggleOutline flips a top-level outline item.
func (s *Session) ToggleOutline(id string) bool {
	return s.Outline.Toggle(id)
}

// SetActiveHeading marks the heading currently in view.
func (s *Session) SetActiveHeading(id string) {
	s.Outline.SetActive(id)
}

// State returns the current state.
func (s *Session) State() State {
	v := s.Deck.View()
	v.SlideHeight = s.Layout.SlideHeight()
	return State{
		Session:      s.id,
		Path:         s.path,
		Title:        s.article.TitleText(),
		Deck:         v,
		Tool:         s.Engine.Tool(),
		Drawing:      s.Engine.Available(),
		CanUndo:      s.Engine.CanUndo(),
		CanRedo:      s.Engine.CanRedo(),
		Flash:        s.flash,
		Outline:      s.Outline.Toggles(),
		ActiveHeader: s.Outline.Active(),
	}
}

// Take returns the pending update and resets the dirty flags. It reports
// false when nothing changed since the last call.
func (s *Session) Take() (Update, bool) {
	if s.closed || (!s.stateDirty && !s.surfaceDirty && !s.rebuilt) {
		return Update{}, false
	}
	u := Update{State: s.State()}
	if s.rebuilt {
		u.Markup = content.Render(slides.Markup(s.Deck.Slides()))
	}
	surf := s.Engine.Surface()
	switch {
	case surf == nil:
		s.surfaceDirty = false
	case s.surfaceDirty && !s.Engine.Pending():
		data, err := surf.PNG()
		if err != nil {
			s.logger.Warn("session: encoding surface", "error", err)
		} else {
			u.Surface = data
		}
		s.surfaceDirty = false
	}
	s.stateDirty, s.rebuilt = false, false
	return u, true
}

func (s *Session) markState() {
	if s.closed {
		return
	}
	wasClean := !s.stateDirty
	s.stateDirty = true
	if wasClean && s.notify != nil {
		s.notify()
	}
}

// Teardown cancels timers, detaches listeners and invalidates in-flight
// restores. The session must not be used afterwards.
func (s *Session) Teardown() {
	if s.closed {
		return
	}
	s.closed = true
	s.flashTimer.Cancel()
	s.flashTimer = nil
	s.Deck.OnRebuild, s.Deck.OnSlideChange, s.Deck.OnModeChange = nil, nil, nil
	s.Engine.OnChange = nil
	s.Layout.OnLayout = nil
	s.Outline.OnChange = nil
	s.Layout.Teardown()
	s.Engine.Teardown()
	s.notify = nil
	s.logger.Debug("session: torn down")
}
