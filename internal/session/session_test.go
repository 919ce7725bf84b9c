package session

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/docdeck/internal/annotate"
	"github.com/ziadkadry99/docdeck/internal/content"
	"github.com/ziadkadry99/docdeck/internal/deck"
	"github.com/ziadkadry99/docdeck/internal/layout"
	"github.com/ziadkadry99/docdeck/internal/loop"
	"github.com/ziadkadry99/docdeck/internal/surface"
)

const page = `<html><body><main><article class="md-content__inner">
<h1>Guide</h1><p>intro</p>
<h2 id="a">A</h2><p>a1</p><h3 id="a-1">A.1</h3><p>deep</p>
<h2 id="b">B</h2><p>b1</p>
</article></main></body></html>`

func article(t *testing.T, src string) *content.Article {
	t.Helper()
	a, err := content.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return a
}

type harness struct {
	m       *Manager
	sched   *loop.Manual
	updates []Update
}

func newHarness(t *testing.T, factory SurfaceFactory) *harness {
	t.Helper()
	h := &harness{sched: loop.NewManual()}
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 200, 100
	h.m = NewManager(cfg, h.sched, factory, nil)
	h.m.OnUpdate = func(u Update) { h.updates = append(h.updates, u) }
	return h
}

func (h *harness) last(t *testing.T) Update {
	t.Helper()
	if len(h.updates) == 0 {
		t.Fatal("no updates delivered")
	}
	return h.updates[len(h.updates)-1]
}

func TestNavigateDeliversInitialState(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	h.sched.Flush()

	u := h.last(t)
	if u.State.Session != s.ID() || u.State.Path != "/guide" || u.State.Title != "Guide" {
		t.Errorf("state = %+v", u.State)
	}
	if !u.State.Deck.Hidden || u.State.Deck.Pressed {
		t.Error("deck visible before toggle")
	}
	if !u.State.Drawing {
		t.Error("drawing unavailable with a working surface")
	}
	if len(u.State.Outline) != 1 || u.State.Outline[0].ID != "a" {
		t.Errorf("outline toggles = %+v", u.State.Outline)
	}
}

func TestToggleBuildsDeckAndLaysOut(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	s.Viewport(layout.Metrics{ViewportHeight: 900, HeaderHeight: 60, DeckWidth: 400, DeckHeight: 300, PixelRatio: 2})
	h.sched.Flush()

	s.Toggle()
	h.sched.Flush()
	u := h.last(t)
	if u.Markup == "" || !strings.Contains(u.Markup, "ppt-slide") {
		t.Errorf("markup missing after enter: %q", u.Markup)
	}
	if u.State.Deck.Counter != "1 / 4" {
		t.Errorf("counter = %q, want %q", u.State.Deck.Counter, "1 / 4")
	}

	h.sched.Frame()
	u = h.last(t)
	if u.Markup != "" {
		t.Error("markup resent without rebuild")
	}
	if got, want := u.State.Deck.SlideHeight, 900.0-60-48; got != want {
		t.Errorf("slide height = %v, want %v", got, want)
	}
	w, hgt, r := s.Engine.Surface().Size()
	if w != 400 || hgt != 300 || r != 2 {
		t.Errorf("surface = %vx%v@%v, want 400x300@2", w, hgt, r)
	}
}

func TestSlideChangeResetsTool(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	s.Toggle()
	if !s.SetTool("draw") {
		t.Fatal("draw refused")
	}
	if !h.m.HandleKey(deck.KeyEvent{Key: "ArrowRight"}) {
		t.Fatal("arrow key not consumed")
	}
	h.sched.Flush()
	if s.Engine.Tool() != annotate.ToolPointer {
		t.Errorf("tool = %s after slide change, want pointer", s.Engine.Tool())
	}
	if got := h.last(t).State.Deck.Counter; got != "2 / 4" {
		t.Errorf("counter = %q", got)
	}
}

func TestDrawingPublishesSurface(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	s.Toggle()
	s.SetTool("draw")
	h.sched.Flush()

	if !s.Pointer("down", annotate.PointerEvent{ID: 1, X: 10, Y: 10}) {
		t.Fatal("draw tool did not capture the pointer")
	}
	s.Pointer("move", annotate.PointerEvent{ID: 1, X: 150, Y: 60})
	s.Pointer("up", annotate.PointerEvent{ID: 1, X: 150, Y: 60})
	h.sched.Flush()

	u := h.last(t)
	if len(u.Surface) == 0 {
		t.Fatal("no surface bytes after stroke")
	}
	if _, err := png.DecodeConfig(bytes.NewReader(u.Surface)); err != nil {
		t.Errorf("surface bytes: %v", err)
	}
	if !u.State.CanUndo || u.State.CanRedo {
		t.Errorf("can undo/redo = %v/%v", u.State.CanUndo, u.State.CanRedo)
	}
}

func TestFlashIsReplaced(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	s.Toggle()
	s.Clear()
	h.sched.Advance(s.cfg.Flash / 2)
	s.Undo()
	h.sched.Flush()
	if got := h.last(t).State.Flash; got != "undo" {
		t.Errorf("flash = %q, want undo", got)
	}
	if n := h.sched.PendingTimers(); n != 1 {
		t.Errorf("pending timers = %d, want 1", n)
	}

	h.sched.Advance(s.cfg.Flash)
	if got := h.last(t).State.Flash; got != "" {
		t.Errorf("flash = %q after timeout", got)
	}
}

func TestUndoWithoutHistoryDoesNotFlash(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	s.Undo()
	s.Redo()
	if h.sched.PendingTimers() != 0 {
		t.Error("flash scheduled for unavailable action")
	}
}

func TestNavigateTearsDownPreviousSession(t *testing.T) {
	h := newHarness(t, nil)
	first := h.m.Navigate("/guide", article(t, page))
	first.Toggle()
	first.Clear()
	first.Viewport(layout.Metrics{ViewportHeight: 800, DeckWidth: 300, DeckHeight: 200, PixelRatio: 1})

	second := h.m.Navigate("/other", article(t, `<article><h1>Other</h1><p>x</p></article>`))
	if !first.closed {
		t.Error("previous session still live")
	}
	if h.sched.PendingTimers() != 0 {
		t.Errorf("timers survived navigation: %d", h.sched.PendingTimers())
	}
	h.sched.Flush()
	h.sched.Advance(second.cfg.Flash)
	for _, u := range h.updates {
		if u.State.Session == first.ID() {
			t.Error("update delivered for torn down session")
		}
	}
	if h.m.Current() != second {
		t.Error("current session not replaced")
	}
	if h.m.HandleKey(deck.KeyEvent{Key: "ArrowRight"}) {
		t.Error("key consumed by disabled deck")
	}
}

func TestLateFrameAfterNavigateLeavesOldSurface(t *testing.T) {
	h := newHarness(t, nil)
	first := h.m.Navigate("/guide", article(t, page))
	first.Viewport(layout.Metrics{ViewportHeight: 800, HeaderHeight: 48, DeckWidth: 400, DeckHeight: 300, PixelRatio: 2})
	first.Toggle()
	surf := first.Engine.Surface()
	gen := surf.Generation()
	w, ht, r := surf.Size()

	h.m.Navigate("/other", article(t, `<article><h1>Other</h1><p>x</p></article>`))
	h.sched.Frame()
	h.sched.Flush()

	if surf.Generation() != gen {
		t.Errorf("generation = %d after teardown, want %d", surf.Generation(), gen)
	}
	if gw, gh, gr := surf.Size(); gw != w || gh != ht || gr != r {
		t.Errorf("size = %gx%g@%g after teardown, want %gx%g@%g", gw, gh, gr, w, ht, r)
	}
	if first.Engine.Surface() != nil {
		t.Error("torn down engine still holds its surface")
	}
}

func TestHistoryActionsWaitForStroke(t *testing.T) {
	tests := []struct {
		name   string
		action func(*Session)
	}{
		{"undo", (*Session).Undo},
		{"redo", (*Session).Redo},
		{"clear", (*Session).Clear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			s := h.m.Navigate("/guide", article(t, page))
			s.Toggle()
			s.SetTool("draw")
			for _, y := range []float64{10, 30} {
				s.Pointer("down", annotate.PointerEvent{ID: 1, X: 10, Y: y})
				s.Pointer("move", annotate.PointerEvent{ID: 1, X: 60, Y: y})
				s.Pointer("up", annotate.PointerEvent{ID: 1, X: 60, Y: y})
			}
			s.Undo()
			h.sched.Flush()
			h.sched.Advance(s.cfg.Flash)

			s.Pointer("down", annotate.PointerEvent{ID: 1, X: 20, Y: 20})
			s.Pointer("move", annotate.PointerEvent{ID: 1, X: 80, Y: 50})
			if !s.Engine.Drawing() || !s.Engine.CanUndo() || !s.Engine.CanRedo() {
				t.Fatal("want a stroke in progress with history both ways")
			}
			tt.action(s)
			h.sched.Flush()
			if got := h.last(t).State.Flash; got != "" {
				t.Errorf("flash = %q during a stroke", got)
			}
			if h.sched.PendingTimers() != 0 {
				t.Error("flash scheduled during a stroke")
			}
		})
	}
}

func TestSurfaceFailureFailsClosed(t *testing.T) {
	h := newHarness(t, func(float64, float64, float64) (*surface.Surface, error) {
		return nil, errors.New("no context")
	})
	s := h.m.Navigate("/guide", article(t, page))
	s.Toggle()
	if s.SetTool("draw") || s.SetTool("erase") {
		t.Error("drawing tool accepted without a surface")
	}
	if s.Pointer("down", annotate.PointerEvent{ID: 1}) {
		t.Error("pointer captured without a surface")
	}
	s.Deck.Next()
	h.sched.Flush()
	u := h.last(t)
	if u.State.Drawing || u.Surface != nil {
		t.Errorf("state = %+v", u.State)
	}
	if u.State.Deck.Counter != "2 / 4" {
		t.Errorf("navigation broken without a surface: %q", u.State.Deck.Counter)
	}
}

func TestOutlineFollowsActiveHeading(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/guide", article(t, page))
	h.sched.Flush()
	n := len(h.updates)

	s.SetActiveHeading("a-1")
	h.sched.Flush()
	if len(h.updates) != n+1 {
		t.Fatalf("updates = %d, want %d", len(h.updates), n+1)
	}
	u := h.last(t)
	if u.State.ActiveHeader != "a-1" || !u.State.Outline[0].Expanded {
		t.Errorf("outline state = %+v / %q", u.State.Outline, u.State.ActiveHeader)
	}
	if !s.ToggleOutline("a") {
		t.Fatal("toggle refused")
	}
	h.sched.Flush()
	if h.last(t).State.Outline[0].Expanded {
		t.Error("user collapse ignored")
	}
}

func TestTitleOnlyPageHasOneSlide(t *testing.T) {
	h := newHarness(t, nil)
	s := h.m.Navigate("/only", article(t, `<article><h1>Only</h1></article>`))
	s.Toggle()
	h.sched.Flush()
	if got := h.last(t).State.Deck.Counter; got != "1 / 1" {
		t.Errorf("counter = %q, want 1 / 1", got)
	}
}

func TestEmptyArticleNeverEnters(t *testing.T) {
	h := newHarness(t, nil)
	a := &content.Article{
		Root:  content.Element(atom.Article, content.ContentRootClass),
		Title: content.Element(atom.H1, ""),
	}
	s := h.m.Navigate("/empty", a)
	s.Toggle()
	h.sched.Flush()
	if s.Deck.Enabled() {
		t.Fatal("deck entered with no slides")
	}
	if u := h.last(t); !u.State.Deck.Hidden || u.Markup != "" {
		t.Errorf("empty deck rendered: %+v", u.State.Deck)
	}
}
