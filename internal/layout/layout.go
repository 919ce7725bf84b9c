// Package layout keeps the deck's slide height and drawing surface in step
// with the viewport.
package layout

import (
	"log/slog"
	"math"
	"time"

	"github.com/ziadkadry99/docdeck/internal/annotate"
	"github.com/ziadkadry99/docdeck/internal/loop"
)

// Config holds layout constants.
type Config struct {
	MinSlideHeight float64
	Padding        float64
	Debounce       time.Duration
}

// DefaultConfig returns the default layout constants.
func DefaultConfig() Config {
	return Config{
		MinSlideHeight: 320,
		Padding:        48,
		Debounce:       150 * time.Millisecond,
	}
}

// Metrics are the client's measurements, in CSS pixels.
type Metrics struct {
	ViewportHeight float64 `json:"viewport_height"`
	HeaderHeight   float64 `json:"header_height"`
	DeckWidth      float64 `json:"deck_width"`
	DeckHeight     float64 `json:"deck_height"`
	PixelRatio     float64 `json:"pixel_ratio"`
}

// SlideHeight returns the target slide height for the given viewport.
func SlideHeight(cfg Config, m Metrics) float64 {
	return math.Max(cfg.MinSlideHeight, m.ViewportHeight-m.HeaderHeight-cfg.Padding)
}

// Coordinator recomputes slide height and rescales the drawing surface after
// deck rebuilds and debounced viewport resizes.
type Coordinator struct {
	cfg    Config
	sched  loop.Scheduler
	engine *annotate.Engine
	logger *slog.Logger

	metrics     Metrics
	slideHeight float64
	active      bool
	closed      bool
	debounce    *loop.Timer

	// OnLayout is called with the new slide height after each recomputation.
	OnLayout func(slideHeight float64)
}

// NewCoordinator creates a coordinator for engine's surface.
func NewCoordinator(cfg Config, sched loop.Scheduler, engine *annotate.Engine, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{cfg: cfg, sched: sched, engine: engine, logger: logger}
}

// SlideHeight returns the last computed slide height.
func (c *Coordinator) SlideHeight() float64 { return c.slideHeight }

// SetActive follows the deck's enabled state. Deactivating cancels a pending
// debounced recomputation.
func (c *Coordinator) SetActive(active bool) {
	c.active = active
	if !active {
		c.debounce.Cancel()
		c.debounce = nil
	}
}

// AfterRebuild defers a recomputation to the next rendered frame so that
// layout has settled before measuring. Frame callbacks cannot be cancelled;
// Recompute ignores frames that arrive after Teardown.
func (c *Coordinator) AfterRebuild() {
	c.sched.NextFrame(c.Recompute)
}

// ViewportResized records m and schedules a recomputation after the quiet
// period, replacing any pending one.
func (c *Coordinator) ViewportResized(m Metrics) {
	if c.closed {
		return
	}
	c.metrics = m
	if !c.active {
		return
	}
	c.debounce.Cancel()
	c.debounce = c.sched.After(c.cfg.Debounce, func() {
		c.debounce = nil
		c.Recompute()
	})
}

// Recompute updates the slide height and rescales the surface.
func (c *Coordinator) Recompute() {
	if c.closed {
		return
	}
	c.slideHeight = SlideHeight(c.cfg, c.metrics)
	if c.OnLayout != nil {
		c.OnLayout(c.slideHeight)
	}
	c.Rescale()
}

// Rescale resizes the surface to the measured deck box, preserving its
// content. Boxes with a zero dimension are not laid out yet and are skipped.
func (c *Coordinator) Rescale() {
	surf := c.engine.Surface()
	m := c.metrics
	if c.closed || surf == nil || m.DeckWidth <= 0 || m.DeckHeight <= 0 {
		return
	}
	ratio := m.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	c.engine.Sequence(func() {
		if c.closed {
			return
		}
		w, h, r := surf.Size()
		if w == m.DeckWidth && h == m.DeckHeight && r == ratio {
			return
		}
		snap, err := surf.Snapshot()
		if err != nil {
			c.logger.Warn("layout: capturing snapshot before resize", "error", err)
			return
		}
		if err := surf.Resize(m.DeckWidth, m.DeckHeight, ratio); err != nil {
			c.logger.Warn("layout: resizing surface", "error", err)
			return
		}
		c.engine.ApplyInk()
		c.engine.Redraw(snap)
		c.logger.Debug("layout: surface rescaled",
			"width", m.DeckWidth, "height", m.DeckHeight, "ratio", ratio)
	})
}

// Teardown cancels pending timers. Later frames and measurements are
// ignored.
func (c *Coordinator) Teardown() {
	c.SetActive(false)
	c.closed = true
}
