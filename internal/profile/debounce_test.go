package profile

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/banshee-data/terrain.report/internal/timeutil"
)

func waitRun(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced fn never ran")
	}
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	d := NewDebouncerWithClock(30*time.Millisecond, clock)
	defer d.Stop()

	var ran atomic.Int32
	var last atomic.Int32
	done := make(chan struct{})
	for i := 1; i <= 5; i++ {
		i := i
		fn := func() {
			ran.Add(1)
			last.Store(int32(i))
		}
		if i == 5 {
			inner := fn
			fn = func() { inner(); close(done) }
		}
		d.Trigger(fn)
	}

	clock.Advance(30 * time.Millisecond)
	waitRun(t, done)

	if got := ran.Load(); got != 1 {
		t.Errorf("ran %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last trigger = %d, want 5 (newest wins)", got)
	}
}

func TestDebouncerRunsSeparatedTriggers(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	d := NewDebouncerWithClock(10*time.Millisecond, clock)
	defer d.Stop()

	var ran atomic.Int32
	first := make(chan struct{})
	d.Trigger(func() { ran.Add(1); close(first) })
	clock.Advance(10 * time.Millisecond)
	waitRun(t, first)

	second := make(chan struct{})
	d.Trigger(func() { ran.Add(1); close(second) })
	clock.Advance(10 * time.Millisecond)
	waitRun(t, second)

	if got := ran.Load(); got != 2 {
		t.Errorf("ran %d times, want 2", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	d := NewDebouncerWithClock(20*time.Millisecond, clock)

	var ran atomic.Int32
	d.Trigger(func() { ran.Add(1) })
	d.Stop()
	clock.Advance(20 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if ran.Load() != 0 {
		t.Error("pending trigger ran after Stop")
	}

	// Triggers after Stop are rejected.
	d.Trigger(func() { ran.Add(1) })
	clock.Advance(20 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if ran.Load() != 0 {
		t.Error("trigger after Stop ran")
	}
}

func TestDebouncerRealClock(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	done := make(chan struct{})
	d.Trigger(func() { close(done) })
	waitRun(t, done)
}
