package profile

import (
	"sync"
	"time"

	"github.com/banshee-data/terrain.report/internal/timeutil"
)

// Debouncer coalesces bursts of parameter changes into a single recompute.
// Trigger schedules fn to run after the delay; a newer Trigger before the
// delay elapses replaces the pending fn, so only the latest request runs.
// An in-flight fn is never interrupted; a superseded result should simply be
// discarded by the caller.
type Debouncer struct {
	mu      sync.Mutex
	clock   timeutil.Clock
	delay   time.Duration
	gen     int
	cancel  chan struct{}
	pending func()
	stopped bool
}

// NewDebouncer returns a Debouncer with the given coalescing delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return NewDebouncerWithClock(delay, timeutil.RealClock{})
}

// NewDebouncerWithClock is NewDebouncer with an injectable clock for tests.
func NewDebouncerWithClock(delay time.Duration, clock timeutil.Clock) *Debouncer {
	return &Debouncer{delay: delay, clock: clock}
}

// Trigger schedules fn after the delay, replacing any pending trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if d.cancel != nil {
		close(d.cancel)
	}
	d.cancel = make(chan struct{})
	d.gen++
	d.pending = fn

	gen := d.gen
	cancel := d.cancel
	timer := d.clock.NewTimer(d.delay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C():
			d.fire(gen)
		case <-cancel:
		}
	}()
}

// fire runs the pending fn if this timer is still the latest.
func (d *Debouncer) fire(gen int) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop cancels any pending trigger and rejects future ones. It does not
// wait for an in-flight fn to return.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.cancel != nil {
		close(d.cancel)
		d.cancel = nil
	}
}
