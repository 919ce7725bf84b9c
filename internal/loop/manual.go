package loop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven explicitly by the caller. The goroutine that
// calls Flush, Advance and Frame plays the role of the loop goroutine.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	posted []func()
	timers []*manualTimer
	frames []func()
	async  sync.WaitGroup
}

type manualTimer struct {
	at    time.Duration
	fn    func()
	timer *Timer
}

// NewManual returns an idle manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// Post implements Scheduler.
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.posted = append(m.posted, fn)
	m.mu.Unlock()
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) *Timer {
	t := &Timer{}
	m.mu.Lock()
	m.timers = append(m.timers, &manualTimer{at: m.now + d, fn: fn, timer: t})
	m.mu.Unlock()
	return t
}

// NextFrame implements Scheduler.
func (m *Manual) NextFrame(fn func()) {
	m.mu.Lock()
	m.frames = append(m.frames, fn)
	m.mu.Unlock()
}

// Async implements Scheduler.
func (m *Manual) Async(work func() func()) {
	m.async.Add(1)
	go func() {
		defer m.async.Done()
		if done := work(); done != nil {
			m.Post(done)
		}
	}()
}

// Flush waits for outstanding async work and runs posted callbacks until
// nothing is left.
func (m *Manual) Flush() {
	for {
		m.async.Wait()
		m.mu.Lock()
		pending := m.posted
		m.posted = nil
		m.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		for _, fn := range pending {
			fn()
		}
	}
}

// Frame runs callbacks registered for the next frame, then flushes.
func (m *Manual) Frame() {
	m.mu.Lock()
	pending := m.frames
	m.frames = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	m.Flush()
}

// Advance moves the clock forward, fires due timers in deadline order and
// flushes after each one.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now
	m.mu.Unlock()
	for {
		m.mu.Lock()
		sort.SliceStable(m.timers, func(i, j int) bool { return m.timers[i].at < m.timers[j].at })
		var due *manualTimer
		if len(m.timers) > 0 && m.timers[0].at <= now {
			due = m.timers[0]
			m.timers = m.timers[1:]
		}
		m.mu.Unlock()
		if due == nil {
			return
		}
		if !due.timer.cancelled {
			due.timer.cancelled = true
			due.fn()
		}
		m.Flush()
	}
}

// PendingTimers reports timers that are scheduled and not cancelled.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.timer.cancelled {
			n++
		}
	}
	return n
}
