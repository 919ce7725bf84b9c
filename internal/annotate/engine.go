// Package annotate implements the freehand annotation engine: the tool state
// machine, stroke capture and snapshot-based undo/redo over a shared raster
// surface.
package annotate

import (
	"log/slog"

	"github.com/ziadkadry99/docdeck/internal/history"
	"github.com/ziadkadry99/docdeck/internal/loop"
	"github.com/ziadkadry99/docdeck/internal/surface"
)

// Config holds the fixed ink settings.
type Config struct {
	Color      string
	DrawWidth  float64
	EraseWidth float64
	Capacity   int
}

// DefaultConfig returns the default pen and eraser settings.
func DefaultConfig() Config {
	return Config{
		Color:      "#e53935",
		DrawWidth:  3,
		EraseWidth: 24,
		Capacity:   history.DefaultCapacity,
	}
}

// PointerEvent is a pointer sample in CSS pixels relative to the surface.
type PointerEvent struct {
	ID int
	X  float64
	Y  float64
}

type stroke struct {
	pointer int
	x, y    float64
	before  surface.Snapshot
}

// Engine owns the tool state, the in-progress stroke and the history of one
// deck session. All methods must be called on the session's event loop.
type Engine struct {
	cfg    Config
	sched  loop.Scheduler
	logger *slog.Logger

	surf    *surface.Surface
	hist    *history.Stack[surface.Snapshot]
	tool    Tool
	enabled bool
	stroke  *stroke

	// restoring is set while a snapshot decode is in flight; operations that
	// read or write pixels wait in queue until it completes.
	restoring bool
	queue     []func()
	epoch     uint64

	// OnChange is called after pixels or history availability change.
	OnChange func()
}

// New creates an engine drawing on surf. A nil surface means no drawing
// context is available: draw and erase can never be selected.
func New(cfg Config, sched loop.Scheduler, surf *surface.Surface, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		sched:  sched,
		logger: logger,
		surf:   surf,
		hist:   history.New[surface.Snapshot](cfg.Capacity),
		tool:   ToolPointer,
	}
}

// Available reports whether a drawing surface exists.
func (e *Engine) Available() bool { return e.surf != nil }

// Surface returns the drawing surface, or nil when unavailable.
func (e *Engine) Surface() *surface.Surface { return e.surf }

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// Drawing reports whether a stroke is in progress.
func (e *Engine) Drawing() bool { return e.stroke != nil }

// CanUndo reports whether there is history to undo.
func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether there is history to redo.
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }

// SetEnabled follows the deck's enabled state. Disabling ends any stroke in
// progress.
func (e *Engine) SetEnabled(enabled bool) {
	if !enabled && e.stroke != nil {
		e.finishStroke()
	}
	e.enabled = enabled
}

// SetTool switches tools. Draw and erase are refused when no surface exists.
// A stroke in progress is committed before the switch.
func (e *Engine) SetTool(t Tool) bool {
	if !validTools[t] {
		return false
	}
	if t.Intercepts() && !e.Available() {
		e.logger.Debug("annotate: drawing unavailable, tool refused", "tool", t)
		return false
	}
	if e.stroke != nil {
		e.finishStroke()
	}
	e.tool = t
	e.ApplyInk()
	e.changed()
	return true
}

// ResetTool returns to the pointer tool. The deck calls it on slide change.
func (e *Engine) ResetTool() {
	if e.tool != ToolPointer {
		e.SetTool(ToolPointer)
	}
}

// ApplyInk pushes the active tool's stroke settings to the surface.
func (e *Engine) ApplyInk() {
	if e.surf == nil {
		return
	}
	switch e.tool {
	case ToolDraw:
		e.surf.SetInk(surface.Ink{Color: e.cfg.Color, Width: e.cfg.DrawWidth})
	case ToolErase:
		e.surf.SetInk(surface.Ink{Width: e.cfg.EraseWidth, Erase: true})
	}
}

func (e *Engine) intercepting() bool {
	return e.enabled && e.surf != nil && e.tool.Intercepts()
}

// PointerDown starts a stroke. It reports whether the surface captures the
// pointer; when false the event belongs to the underlying content.
func (e *Engine) PointerDown(ev PointerEvent) bool {
	if !e.intercepting() {
		return false
	}
	e.Sequence(func() {
		if !e.intercepting() || e.stroke != nil {
			return
		}
		before, err := e.surf.Snapshot()
		if err != nil {
			e.logger.Warn("annotate: capturing pre-stroke snapshot", "error", err)
			return
		}
		e.stroke = &stroke{pointer: ev.ID, x: ev.X, y: ev.Y, before: before}
	})
	return true
}

// PointerMove extends the stroke owned by ev's pointer and paints the new
// segment immediately.
func (e *Engine) PointerMove(ev PointerEvent) {
	if !e.intercepting() {
		return
	}
	e.Sequence(func() {
		s := e.stroke
		if s == nil || s.pointer != ev.ID {
			return
		}
		if err := e.surf.Segment(s.x, s.y, ev.X, ev.Y); err != nil {
			e.logger.Warn("annotate: painting segment", "error", err)
		}
		s.x, s.y = ev.X, ev.Y
		e.changed()
	})
}

// PointerUp ends the stroke and records its pre-stroke snapshot. It reports
// whether pointer capture is released.
func (e *Engine) PointerUp(ev PointerEvent) bool {
	if !e.intercepting() {
		return false
	}
	e.Sequence(func() {
		if e.stroke == nil || e.stroke.pointer != ev.ID {
			return
		}
		e.finishStroke()
	})
	return true
}

// PointerCancel aborts the stroke without recording history. Ink already
// painted by the stroke is discarded by restoring the pre-stroke snapshot.
func (e *Engine) PointerCancel(ev PointerEvent) {
	e.Sequence(func() {
		s := e.stroke
		if s == nil || s.pointer != ev.ID {
			return
		}
		e.stroke = nil
		e.restoreAsync(s.before, false, nil)
	})
}

func (e *Engine) finishStroke() {
	e.hist.Push(e.stroke.before)
	e.stroke = nil
	e.changed()
}

// Undo restores the most recent snapshot; the current pixels become
// redoable. No-op when there is nothing to undo.
func (e *Engine) Undo() {
	if e.surf == nil {
		return
	}
	e.Sequence(func() {
		if e.stroke != nil || !e.hist.CanUndo() {
			return
		}
		current, err := e.surf.Snapshot()
		if err != nil {
			e.logger.Warn("annotate: capturing snapshot for undo", "error", err)
			return
		}
		target, _ := e.hist.Undo(current)
		e.restoreAsync(target, false, func() { e.hist.Redo(target) })
	})
}

// Redo is the inverse of Undo.
func (e *Engine) Redo() {
	if e.surf == nil {
		return
	}
	e.Sequence(func() {
		if e.stroke != nil || !e.hist.CanRedo() {
			return
		}
		current, err := e.surf.Snapshot()
		if err != nil {
			e.logger.Warn("annotate: capturing snapshot for redo", "error", err)
			return
		}
		target, _ := e.hist.Redo(current)
		e.restoreAsync(target, false, func() { e.hist.Undo(target) })
	})
}

// Clear wipes the surface after recording the current pixels, so the clear
// itself can be undone.
func (e *Engine) Clear() {
	if e.surf == nil {
		return
	}
	e.Sequence(func() {
		if e.stroke != nil {
			return
		}
		current, err := e.surf.Snapshot()
		if err != nil {
			e.logger.Warn("annotate: capturing snapshot for clear", "error", err)
			return
		}
		e.hist.Push(current)
		e.surf.Clear()
		e.changed()
	})
}

// Redraw paints snap scaled over the whole surface once decoded. The resize
// coordinator uses it after reallocating the backing store.
func (e *Engine) Redraw(snap surface.Snapshot) {
	if e.surf == nil {
		return
	}
	e.restoreAsync(snap, true, nil)
}

// Sequence runs fn now, or after the pending restore completes when one is
// in flight. Queued work runs in submission order.
func (e *Engine) Sequence(fn func()) {
	if e.restoring {
		e.queue = append(e.queue, fn)
		return
	}
	fn()
}

// Pending reports whether a restore is in flight.
func (e *Engine) Pending() bool { return e.restoring }

// restoreAsync decodes snap off the loop and applies it when the surface is
// still the one the decode was started for. On failure the surface is left
// untouched and revert, if set, undoes the caller's bookkeeping.
func (e *Engine) restoreAsync(snap surface.Snapshot, scaled bool, revert func()) {
	e.restoring = true
	epoch, gen := e.epoch, e.surf.Generation()
	e.sched.Async(func() func() {
		img, err := snap.Decode()
		return func() {
			if epoch != e.epoch {
				return
			}
			e.restoring = false
			switch {
			case err != nil:
				e.logger.Warn("annotate: snapshot decode failed", "error", err)
				if revert != nil {
					revert()
				}
			case gen != e.surf.Generation():
				e.logger.Debug("annotate: dropping stale restore", "generation", gen)
				if revert != nil {
					revert()
				}
			case scaled:
				e.surf.DrawScaled(img)
			default:
				e.surf.Restore(img)
			}
			e.changed()
			e.drain()
		}
	})
}

func (e *Engine) drain() {
	for !e.restoring && len(e.queue) > 0 {
		fn := e.queue[0]
		e.queue = e.queue[1:]
		fn()
	}
}

// Teardown invalidates in-flight decodes, drops queued work and releases
// the surface. The engine must not be used afterwards.
func (e *Engine) Teardown() {
	e.epoch++
	e.queue = nil
	e.stroke = nil
	e.restoring = false
	e.enabled = false
	undo, redo := e.hist.Len()
	e.logger.Debug("annotate: discarding history", "undo", undo, "redo", redo)
	e.hist.Reset()
	if e.surf != nil {
		_ = e.surf.Close()
		e.surf = nil
	}
}

func (e *Engine) changed() {
	if e.OnChange != nil {
		e.OnChange()
	}
}
