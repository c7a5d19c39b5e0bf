// Package ebiten provides the Ebiten-based board renderer for the token
// vitals overlay.
package ebiten

import (
	"image/color"

	"tokenvitals/pkg/engine/frametime"
	"tokenvitals/pkg/engine/sched"
	"tokenvitals/pkg/game/state"
	"tokenvitals/pkg/game/vitals"
)

// Observer is one point of view the overlay can render for. A GM sees the
// exact health ratio; everyone else sees the obfuscated value scaled by
// their acuity.
type Observer struct {
	ID     string
	Name   string
	GM     bool
	Acuity float64
}

// indicatorVisual is the prepared indicator for one token: everything the
// per-frame draw needs, computed only when the scheduler dispatches the
// token. Blitting it each frame is cheap; recomputing it is not.
type indicatorVisual struct {
	valid  bool
	radius float32
	stroke float32
	start  float64 // arc start angle, radians
	sweep  float64 // full arc sweep, radians
	ratio  float64 // displayed fill 0..1
	col    color.RGBA
}

// Renderer owns the ebiten game loop: it advances the frame pump, feeds
// redraw requests to the scheduler, and draws the board with the prepared
// indicator visuals.
type Renderer struct {
	board *state.Board
	pump  *frametime.Pump
	sched *sched.Scheduler
	geom  *vitals.GeometryCache
	unc   *vitals.UncertaintyCache

	observers   []Observer
	observerIdx int

	// Prepared indicators keyed by token id, written only by the render
	// callback.
	visuals map[string]indicatorVisual

	hovered *state.Token

	// Key-binding help line, derived from the input bindings once at
	// construction.
	help string

	screenshotPending  bool
	windowOpenedLogged bool

	quit bool
}
