// Package loop provides the single-threaded event loop that every deck
// session runs on. All state transitions happen inside callbacks executed
// one at a time, so session state needs no locking.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Run after Stop has been called.
var ErrStopped = errors.New("loop: stopped")

// Scheduler is the subset of the loop that components depend on.
type Scheduler interface {
	// Post queues fn to run on the loop. Safe from any goroutine.
	Post(fn func())
	// After runs fn on the loop once d has elapsed unless cancelled first.
	After(d time.Duration, fn func()) *Timer
	// NextFrame runs fn when the client reports its next rendered frame.
	NextFrame(fn func())
	// Async runs work off the loop and posts the returned completion back.
	Async(work func() func())
}

// Timer is a cancellable callback scheduled on a loop.
type Timer struct {
	stop      func() bool
	cancelled bool
}

// Cancel prevents the callback from running. Must be called on the loop.
// Cancelling a nil or already fired timer is a no-op.
func (t *Timer) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
	if t.stop != nil {
		t.stop()
	}
}

// Loop executes posted callbacks sequentially on the goroutine calling Run.
type Loop struct {
	queue    chan func()
	stopOnce sync.Once
	stopped  chan struct{}
	frames   []func()
	async    sync.WaitGroup
}

// New creates a loop whose queue holds up to buffer pending callbacks
// before Post blocks.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		queue:   make(chan func(), buffer),
		stopped: make(chan struct{}),
	}
}

// Run processes callbacks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.stopped:
			return ErrStopped
		case fn := <-l.queue:
			fn()
		}
	}
}

// Stop terminates Run. Callbacks still queued are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
}

// Post implements Scheduler.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.stopped:
	}
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	at := time.AfterFunc(d, func() {
		l.Post(func() {
			if t.cancelled {
				return
			}
			t.cancelled = true
			fn()
		})
	})
	t.stop = at.Stop
	return t
}

// NextFrame implements Scheduler. Must be called on the loop.
func (l *Loop) NextFrame(fn func()) {
	l.frames = append(l.frames, fn)
}

// Frame runs the callbacks registered before this call. Callbacks that
// register further frame work are deferred to the following frame.
// Must be called on the loop.
func (l *Loop) Frame() {
	pending := l.frames
	l.frames = nil
	for _, fn := range pending {
		fn()
	}
}

// Async implements Scheduler.
func (l *Loop) Async(work func() func()) {
	l.async.Add(1)
	go func() {
		defer l.async.Done()
		if done := work(); done != nil {
			l.Post(done)
		}
	}()
}

// Wait blocks until all Async work has finished and posted its completion.
func (l *Loop) Wait() {
	l.async.Wait()
}
