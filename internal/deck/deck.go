// Package deck implements the slide deck controller: mode, active slide,
// navigation and the accessibility state derived from them.
package deck

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/docdeck/internal/slides"
)

// View is the accessibility projection of the deck that the page mirrors.
type View struct {
	Hidden       bool    `json:"hidden"`
	Pressed      bool    `json:"pressed"`
	Active       int     `json:"active"`
	Visible      []bool  `json:"visible"`
	Counter      string  `json:"counter"`
	PrevDisabled bool    `json:"prev_disabled"`
	NextDisabled bool    `json:"next_disabled"`
	SlideHeight  float64 `json:"slide_height,omitempty"`
}

// Controller owns the slides of one page and the active index.
// It must be used from a single goroutine.
type Controller struct {
	source  func() []*html.Node
	slides  []slides.Slide
	enabled bool
	active  int

	// OnRebuild runs after slides are segmented on entry.
	OnRebuild func()
	// OnSlideChange runs whenever the active slide changes.
	OnSlideChange func(from, to int)
	// OnModeChange runs after entering or leaving slide mode.
	OnModeChange func(enabled bool)
}

// New creates a disabled controller that reads content nodes from source
// each time slide mode is entered.
func New(source func() []*html.Node) *Controller {
	return &Controller{source: source}
}

// Enabled reports whether slide mode is on.
func (c *Controller) Enabled() bool { return c.enabled }

// Active returns the active slide index.
func (c *Controller) Active() int { return c.active }

// Len returns the number of slides from the last segmentation.
func (c *Controller) Len() int { return len(c.slides) }

// Slides returns the slides from the last segmentation.
func (c *Controller) Slides() []slides.Slide { return c.slides }

// Enter rebuilds the slides from current content and shows the deck at the
// remembered slide. It reports false, leaving the deck disabled, when there
// is nothing to show.
func (c *Controller) Enter() bool {
	built := slides.Segment(c.source())
	if len(built) == 0 {
		return false
	}
	c.slides = built
	c.enabled = true
	if c.OnRebuild != nil {
		c.OnRebuild()
	}
	c.setActive(c.active)
	if c.OnModeChange != nil {
		c.OnModeChange(true)
	}
	return true
}

// Exit hides the deck. The active index is remembered for the next entry.
func (c *Controller) Exit() {
	if !c.enabled {
		return
	}
	c.enabled = false
	if c.OnModeChange != nil {
		c.OnModeChange(false)
	}
}

// Toggle switches slide mode.
func (c *Controller) Toggle() {
	if c.enabled {
		c.Exit()
		return
	}
	c.Enter()
}

// GoTo activates slide i, clamped into range. No-op while disabled.
func (c *Controller) GoTo(i int) {
	if !c.enabled || len(c.slides) == 0 {
		return
	}
	c.setActive(i)
}

// Next advances one slide.
func (c *Controller) Next() { c.GoTo(c.active + 1) }

// Prev goes back one slide.
func (c *Controller) Prev() { c.GoTo(c.active - 1) }

func (c *Controller) setActive(i int) {
	clamped := max(0, min(i, len(c.slides)-1))
	prev := c.active
	c.active = clamped
	if prev != clamped && c.OnSlideChange != nil {
		c.OnSlideChange(prev, clamped)
	}
}

// Counter returns the position label, 1-based.
func (c *Controller) Counter() string {
	if len(c.slides) == 0 {
		return ""
	}
	return fmt.Sprintf("%d / %d", c.active+1, len(c.slides))
}

// View returns the accessibility state for the current deck.
func (c *Controller) View() View {
	v := View{
		Hidden:  !c.enabled,
		Pressed: c.enabled,
		Active:  c.active,
		Counter: c.Counter(),
		Visible: make([]bool, len(c.slides)),
	}
	if len(c.slides) > 0 {
		v.Visible[c.active] = true
		v.PrevDisabled = c.active == 0
		v.NextDisabled = c.active == len(c.slides)-1
	}
	return v
}

// KeyEvent is a key press forwarded from the page.
type KeyEvent struct {
	Key      string `json:"key"`
	Target   string `json:"target"`   // tag name of the focused element
	Editable bool   `json:"editable"` // focused element is contenteditable
}

func (k KeyEvent) inTextEntry() bool {
	if k.Editable {
		return true
	}
	switch strings.ToLower(k.Target) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

// HandleKey applies the deck's keyboard bindings and reports whether the key
// was consumed. Keys are ignored while disabled or while typing.
func (c *Controller) HandleKey(k KeyEvent) bool {
	if !c.enabled || k.inTextEntry() {
		return false
	}
	switch k.Key {
	case "ArrowRight", "PageDown", " ", "Spacebar":
		c.Next()
	case "ArrowLeft", "PageUp":
		c.Prev()
	case "Escape", "Esc":
		c.Exit()
	default:
		return false
	}
	return true
}
