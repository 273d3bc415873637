package persistence

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDebounce is the quiet period before a change is written.
const DefaultDebounce = 750 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// Each Trigger cancels the pending callback and schedules a new one; a
// sequence number guarantees a superseded callback never runs even if its
// timer already fired.
type Debouncer struct {
	clock    clockwork.Clock
	duration time.Duration

	mu       sync.Mutex
	timer    clockwork.Timer
	seq      uint64
	inflight int
	idle     *sync.Cond
}

// NewDebouncer creates a Debouncer driven by clock.
// If duration is <= 0, DefaultDebounce is used.
func NewDebouncer(clock clockwork.Clock, duration time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if duration <= 0 {
		duration = DefaultDebounce
	}
	d := &Debouncer{clock: clock, duration: duration}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Trigger schedules callback to run once the debounce duration elapses
// without another Trigger or Cancel.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.duration, func() {
		if !d.claim(seq) {
			return
		}
		defer d.done()
		callback()
	})
}

// claim reports whether seq is still the latest schedule and, if so, clears
// it and marks its callback as running.
func (d *Debouncer) claim(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		return false
	}
	d.timer = nil
	d.inflight++
	return true
}

func (d *Debouncer) done() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	if d.inflight == 0 {
		d.idle.Broadcast()
	}
}

// Wait blocks until no callback is running. Callbacks scheduled later are
// not waited for; call Cancel first to rule them out.
func (d *Debouncer) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.inflight > 0 {
		d.idle.Wait()
	}
}

// Cancel drops any pending callback. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether a callback is scheduled and has not started.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
