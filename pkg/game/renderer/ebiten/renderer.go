package ebiten

import (
	"tokenvitals/pkg/engine/frametime"
	"tokenvitals/pkg/engine/gamelog"
	"tokenvitals/pkg/engine/sched"
	"tokenvitals/pkg/game/state"
	"tokenvitals/pkg/game/vitals"
)

// New wires the renderer to the board and the overlay subsystem and binds
// the scheduler's render callback. The scheduler and caches are owned by
// the caller so tests and devtools can reach them.
func New(board *state.Board, pump *frametime.Pump, scheduler *sched.Scheduler, geom *vitals.GeometryCache, unc *vitals.UncertaintyCache) *Renderer {
	r := &Renderer{
		board:   board,
		pump:    pump,
		sched:   scheduler,
		geom:    geom,
		unc:     unc,
		visuals: make(map[string]indicatorVisual),
		help:    helpLine(),
		observers: []Observer{
			{ID: "gm", Name: "GM", GM: true},
			{ID: "scout", Name: "Scout", Acuity: 18},
			{ID: "recruit", Name: "Recruit", Acuity: 6},
		},
	}

	scheduler.Bind(r.renderIndicator)

	// Initial pass so every token has an indicator before the first
	// combat round.
	for _, t := range board.Tokens {
		scheduler.QueueAt(t, sched.PriorityLow)
	}

	return r
}

// Observer returns the active point of view.
func (r *Renderer) Observer() Observer {
	return r.observers[r.observerIdx]
}

// CycleObserver switches to the next point of view and queues a redraw of
// every token so the overlay reflects the new perception.
func (r *Renderer) CycleObserver() Observer {
	r.observerIdx = (r.observerIdx + 1) % len(r.observers)
	obs := r.observers[r.observerIdx]

	for _, t := range r.board.Tokens {
		r.sched.Queue(t)
	}

	gamelog.Log(gamelog.LevelInfo, "observer switched", map[string]any{"observer": obs.Name})
	return obs
}

// renderIndicator is the scheduler's render callback: it consults the
// geometry and uncertainty caches and stores a prepared visual for the
// per-frame draw. Invoked once per token per dispatched batch.
func (r *Renderer) renderIndicator(target sched.Target) {
	t, ok := target.(*state.Token)
	if !ok || t == nil {
		// Transient input error: skip the entry, the batch continues.
		gamelog.Log(gamelog.LevelWarn, "render callback got unexpected target", nil)
		return
	}

	geo := r.geom.Get(t)
	obs := r.Observer()

	ratio := t.Ratio()
	if !obs.GM {
		rec := r.unc.DisplayValue(t.ID, obs.ID, float64(t.HP), ratio, obs.Acuity)
		ratio = rec.Displayed
	}

	r.visuals[t.ID] = indicatorVisual{
		valid:  true,
		radius: float32(geo.Arc.Radius),
		stroke: float32(geo.Arc.StrokeWidth * geo.ScaleX),
		start:  geo.Arc.AngleStart,
		sweep:  geo.Arc.AngleEnd - geo.Arc.AngleStart,
		ratio:  ratio,
		col:    healthColor(ratio),
	}
}

// DropToken forgets a token's prepared visual and cache entries, e.g.
// when the token is removed from the board.
func (r *Renderer) DropToken(id string) {
	delete(r.visuals, id)
	r.geom.Evict(id)
	r.unc.ClearToken(id)
}
