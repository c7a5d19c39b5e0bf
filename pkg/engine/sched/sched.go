// Package sched implements the priority-ordered, frame-budgeted batch
// processor that decides when and in what order tokens are redrawn. Redraw
// requests are coalesced behind a short debounce, drained in priority order,
// and dispatched in chunks sized against a per-frame time budget so a mass
// update (hundreds of tokens hit in one combat round) never stalls a frame.
package sched

import (
	"fmt"
	"sort"
	"time"

	"tokenvitals/pkg/engine/frametime"
	"tokenvitals/pkg/engine/gamelog"
)

// Priority is the scheduling rank of a queued redraw. Lower values are
// processed first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

// String returns a human-friendly name for a priority.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Target is the scheduler's view of a token. The scheduler derives the
// redraw priority from these flags; everything else about the token is
// opaque to it.
type Target interface {
	VitalsID() string
	Selected() bool
	Hovered() bool
	InCombat() bool
}

// queued is one pending redraw request, keyed by token id in the queue map.
// Re-queuing a token replaces its entry: last priority and timestamp win.
type queued struct {
	target     Target
	priority   Priority
	enqueuedAt time.Time
}

// Tuning constants. The frame budget leaves headroom under a 60fps frame
// for the host's own draw pass.
const (
	debounceDelay = 40 * time.Millisecond
	frameBudget   = 12 * time.Millisecond

	minBatchSize = 4
	maxBatchSize = 64
	// batchScale is the inverse-proportionality constant: chunk size is
	// batchScale divided by drain length, clamped to the bounds above, so
	// per-chunk work stays roughly constant as the backlog grows.
	batchScale = 4096
)

// Stats holds plain counters read by devtools. They are not part of the
// scheduling contract.
type Stats struct {
	Cycles    uint64 // drain cycles started
	Batches   uint64 // chunks dispatched
	Processed uint64 // callbacks invoked
	Recovered uint64 // callbacks that panicked
	LastDrain int    // entries in the most recent drain
}

// Scheduler batches and paces token redraws. It is single-threaded: all
// methods must be called from the frame loop that ticks its Pump, which is
// also where its own continuations run. Mutating methods are reentrant-safe
// against being called from inside the render callback.
type Scheduler struct {
	pump *frametime.Pump
	draw func(Target)

	queue map[string]queued

	// Resumable drain state for the in-flight cycle.
	processing bool
	drain      []queued
	next       int
	batchSize  int
	gen        uint64 // invalidates stale continuations after Clear

	debounce frametime.Handle
	resume   frametime.Handle
	pending  bool // debounce armed

	stats Stats
}

// New creates a scheduler driven by the given pump. The render callback
// must be installed with Bind before queued updates have any effect.
func New(pump *frametime.Pump) *Scheduler {
	return &Scheduler{
		pump:  pump,
		queue: make(map[string]queued),
	}
}

// Bind installs the render callback invoked once per token during batch
// processing. Calling it again replaces the callback, used to rebind after
// the rendering surface is reset. Requests recorded before the first Bind
// are not flushed retroactively; the next Queue call picks them up.
func (s *Scheduler) Bind(draw func(Target)) {
	s.draw = draw
}

// Queue records a redraw request for the token, deriving its priority:
// critical when selected or in an active encounter, high when hovered,
// normal otherwise. One entry per token id; re-queuing replaces it.
func (s *Scheduler) Queue(t Target) {
	if t == nil {
		gamelog.Log(gamelog.LevelWarn, "queue update skipped: nil target", nil)
		return
	}
	s.QueueAt(t, derivePriority(t))
}

// QueueAt records a redraw request with an explicit priority, used for
// low-urgency refreshes such as offscreen tokens.
func (s *Scheduler) QueueAt(t Target, p Priority) {
	if t == nil {
		gamelog.Log(gamelog.LevelWarn, "queue update skipped: nil target", nil)
		return
	}
	id := t.VitalsID()
	if id == "" {
		gamelog.Log(gamelog.LevelWarn, "queue update skipped: target without id", nil)
		return
	}

	s.queue[id] = queued{target: t, priority: p, enqueuedAt: s.pump.Now()}

	// Without a callback the request is recorded but nothing is scheduled.
	if s.draw == nil {
		return
	}

	// An in-flight cycle picks up the new entry in its next drain; an armed
	// debounce already covers it.
	if s.processing || s.pending {
		return
	}
	s.arm()
}

// Clear cancels any pending debounce or continuation and discards the
// queue without invoking the callback. Safe at any time, including from
// inside the render callback during an active batch.
func (s *Scheduler) Clear() {
	s.debounce.Cancel()
	s.resume.Cancel()
	s.pending = false
	s.processing = false
	s.drain = nil
	s.next = 0
	s.gen++
	s.queue = make(map[string]queued)
}

// Processing reports whether a drain cycle is in flight.
func (s *Scheduler) Processing() bool {
	return s.processing
}

// QueueLen returns the number of pending (not yet drained) requests.
func (s *Scheduler) QueueLen() int {
	return len(s.queue)
}

// Stats returns a snapshot of the scheduler counters.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// derivePriority computes the redraw rank from the target's flags.
func derivePriority(t Target) Priority {
	if t.Selected() || t.InCombat() {
		return PriorityCritical
	}
	if t.Hovered() {
		return PriorityHigh
	}
	return PriorityNormal
}

// arm starts the debounce window that coalesces a burst of requests.
func (s *Scheduler) arm() {
	s.pending = true
	gen := s.gen
	s.debounce = s.pump.After(debounceDelay, func() {
		if gen != s.gen {
			return
		}
		s.pending = false
		s.beginCycle()
	})
}

// beginCycle drains the queue into an ordered list and starts chunked
// processing. Requests queued after this point belong to the next cycle.
func (s *Scheduler) beginCycle() {
	if len(s.queue) == 0 || s.draw == nil {
		return
	}

	drain := make([]queued, 0, len(s.queue))
	for _, q := range s.queue {
		drain = append(drain, q)
	}
	s.queue = make(map[string]queued)

	// Priority first; among equals the most recently requested token goes
	// first, favouring freshness over fairness.
	sort.SliceStable(drain, func(i, j int) bool {
		if drain[i].priority != drain[j].priority {
			return drain[i].priority < drain[j].priority
		}
		return drain[i].enqueuedAt.After(drain[j].enqueuedAt)
	})

	s.processing = true
	s.drain = drain
	s.next = 0
	s.batchSize = batchSizeFor(len(drain))
	s.stats.Cycles++
	s.stats.LastDrain = len(drain)

	s.step()
}

// batchSizeFor sizes a chunk inversely to the backlog, bounded so each
// chunk's total work stays roughly constant regardless of load.
func batchSizeFor(n int) int {
	if n <= 0 {
		return minBatchSize
	}
	size := batchScale / n
	if size < minBatchSize {
		size = minBatchSize
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}
	return size
}

// step processes chunks until the drain is exhausted or the frame budget
// is spent, then yields to the next frame and resumes from the next
// unprocessed entry.
func (s *Scheduler) step() {
	gen := s.gen
	start := s.pump.Now()

	for s.next < len(s.drain) {
		end := s.next + s.batchSize
		if end > len(s.drain) {
			end = len(s.drain)
		}

		for s.next < end {
			entry := s.drain[s.next]
			s.next++
			s.dispatch(entry)

			// The callback may have called Clear; the drain is gone.
			if gen != s.gen {
				return
			}
		}

		s.stats.Batches++

		if s.next < len(s.drain) && s.pump.Now().Sub(start) >= frameBudget {
			s.resume = s.pump.NextFrame(func() {
				if gen != s.gen {
					return
				}
				s.step()
			})
			return
		}
	}

	s.finishCycle()
}

// finishCycle resets the processing flag and, if requests arrived during
// the drain, arms a fresh debounce for the next batch.
func (s *Scheduler) finishCycle() {
	s.processing = false
	s.drain = nil
	s.next = 0

	if len(s.queue) > 0 && !s.pending {
		s.arm()
	}
}

// dispatch invokes the render callback for one entry. A panic in the
// callback is recovered and logged so the rest of the batch proceeds.
func (s *Scheduler) dispatch(q queued) {
	defer func() {
		if r := recover(); r != nil {
			s.stats.Recovered++
			gamelog.Log(gamelog.LevelError, "render callback failed", map[string]any{
				"token":    q.target.VitalsID(),
				"priority": q.priority.String(),
				"panic":    fmt.Sprint(r),
			})
		}
	}()

	s.draw(q.target)
	s.stats.Processed++
}
