// Package frametime provides the frame and timer primitives for the overlay
// subsystem: a "run after N milliseconds" timer and a "run on next frame"
// continuation, both cancellable. There is no background goroutine; a Pump
// is advanced once per host frame (the ebiten Update call), so every
// callback runs on the single logical thread of control.
package frametime

import "time"

// task is one deferred callback.
type task struct {
	id        uint64
	due       time.Time // ignored for next-frame tasks
	nextFrame bool
	fn        func()
}

// Pump owns the deferred callbacks. Advance it with Tick once per frame.
type Pump struct {
	now    func() time.Time
	nextID uint64
	tasks  []task
	frame  uint64
}

// Handle identifies a scheduled callback for cancellation.
type Handle struct {
	pump *Pump
	id   uint64
}

// NewPump creates a pump on the wall clock.
func NewPump() *Pump {
	return NewPumpWithClock(time.Now)
}

// NewPumpWithClock creates a pump with an injectable clock, used by tests
// to drive timers deterministically.
func NewPumpWithClock(now func() time.Time) *Pump {
	if now == nil {
		now = time.Now
	}
	return &Pump{now: now}
}

// Now returns the pump's current time.
func (p *Pump) Now() time.Time {
	return p.now()
}

// Frame returns the number of completed ticks.
func (p *Pump) Frame() uint64 {
	return p.frame
}

// After schedules fn to run on the first tick at or past now+d.
func (p *Pump) After(d time.Duration, fn func()) Handle {
	return p.add(task{due: p.now().Add(d), fn: fn})
}

// NextFrame schedules fn to run on the next tick. Calls made while a tick
// is in progress land on the tick after it, never the current one.
func (p *Pump) NextFrame(fn func()) Handle {
	return p.add(task{nextFrame: true, fn: fn})
}

func (p *Pump) add(t task) Handle {
	if t.fn == nil {
		return Handle{}
	}
	p.nextID++
	t.id = p.nextID
	p.tasks = append(p.tasks, t)
	return Handle{pump: p, id: t.id}
}

// Cancel removes the callback if it has not run yet. Safe on the zero
// Handle and safe to call more than once.
func (h Handle) Cancel() {
	if h.pump == nil {
		return
	}
	for i, t := range h.pump.tasks {
		if t.id == h.id {
			h.pump.tasks = append(h.pump.tasks[:i], h.pump.tasks[i+1:]...)
			return
		}
	}
}

// Tick runs every due timer and every next-frame continuation that was
// pending when the tick started. Callbacks may schedule new work; anything
// they add runs on a later tick.
func (p *Pump) Tick() {
	p.frame++
	now := p.now()

	// Snapshot the ready set first so reentrant scheduling from inside a
	// callback cannot extend the current tick.
	var ready []task
	remaining := p.tasks[:0]
	for _, t := range p.tasks {
		if t.nextFrame || !now.Before(t.due) {
			ready = append(ready, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	p.tasks = remaining

	for _, t := range ready {
		t.fn()
	}
}

// Reset discards all pending callbacks.
func (p *Pump) Reset() {
	p.tasks = nil
}
