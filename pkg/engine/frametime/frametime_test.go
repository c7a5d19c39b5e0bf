package frametime

import (
	"testing"
	"time"
)

// testClock is a manually advanced clock for driving a Pump.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time {
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestAfterFiresAtDeadline(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	fired := 0
	p.After(50*time.Millisecond, func() { fired++ })

	p.Tick()
	if fired != 0 {
		t.Fatalf("timer fired before deadline, fired = %d", fired)
	}

	clock.advance(49 * time.Millisecond)
	p.Tick()
	if fired != 0 {
		t.Fatalf("timer fired 1ms early, fired = %d", fired)
	}

	clock.advance(1 * time.Millisecond)
	p.Tick()
	if fired != 1 {
		t.Fatalf("timer did not fire at deadline, fired = %d", fired)
	}

	// Must not fire again.
	p.Tick()
	if fired != 1 {
		t.Errorf("timer fired twice, fired = %d", fired)
	}
}

func TestNextFrameRunsOnFollowingTick(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	ran := false
	p.NextFrame(func() { ran = true })

	p.Tick()
	if !ran {
		t.Fatal("next-frame callback did not run on the following tick")
	}
}

func TestNextFrameScheduledDuringTickWaits(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	var order []string
	p.NextFrame(func() {
		order = append(order, "outer")
		p.NextFrame(func() {
			order = append(order, "inner")
		})
	})

	p.Tick()
	if len(order) != 1 || order[0] != "outer" {
		t.Fatalf("after first tick order = %v, want [outer]", order)
	}

	p.Tick()
	if len(order) != 2 || order[1] != "inner" {
		t.Fatalf("after second tick order = %v, want [outer inner]", order)
	}
}

func TestCancel(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	fired := false
	h := p.After(10*time.Millisecond, func() { fired = true })
	h.Cancel()

	clock.advance(20 * time.Millisecond)
	p.Tick()
	if fired {
		t.Error("cancelled timer fired")
	}

	// Double cancel and zero-handle cancel must not panic.
	h.Cancel()
	Handle{}.Cancel()
}

func TestCancelOneOfMany(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	var ran []int
	p.After(10*time.Millisecond, func() { ran = append(ran, 1) })
	h := p.After(10*time.Millisecond, func() { ran = append(ran, 2) })
	p.After(10*time.Millisecond, func() { ran = append(ran, 3) })
	h.Cancel()

	clock.advance(10 * time.Millisecond)
	p.Tick()

	if len(ran) != 2 || ran[0] != 1 || ran[1] != 3 {
		t.Errorf("ran = %v, want [1 3]", ran)
	}
}

func TestFrameCountsTicks(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	if p.Frame() != 0 {
		t.Fatalf("new pump Frame() = %d, want 0", p.Frame())
	}

	p.Tick()
	p.Tick()
	p.Tick()
	if p.Frame() != 3 {
		t.Errorf("after 3 ticks Frame() = %d, want 3", p.Frame())
	}
}

func TestReset(t *testing.T) {
	clock := newTestClock()
	p := NewPumpWithClock(clock.now)

	fired := false
	p.After(10*time.Millisecond, func() { fired = true })
	p.NextFrame(func() { fired = true })
	p.Reset()

	clock.advance(20 * time.Millisecond)
	p.Tick()
	if fired {
		t.Error("callback fired after Reset")
	}
}
