package ebiten

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"tokenvitals/pkg/engine/gamelog"
	"tokenvitals/pkg/game/devtools"
	"tokenvitals/pkg/game/state"
)

// arcSegmentStep is the angular resolution of the stroked indicator arc.
const arcSegmentStep = math.Pi / 36 // 5 degrees

// Draw renders the board and the prepared indicator visuals (Ebiten
// interface). No cache or scheduler work happens here; everything
// expensive was done when the scheduler dispatched the token.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, t := range r.board.Tokens {
		r.drawToken(screen, t)
	}

	r.drawHUD(screen)
	r.drawMessages(screen)

	if r.screenshotPending {
		r.screenshotPending = false
		if path, err := devtools.SaveScreenshot(screen); err != nil {
			gamelog.Log(gamelog.LevelError, "screenshot failed", map[string]any{"err": err.Error()})
		} else {
			r.board.AddMessage("Screenshot saved: " + path)
		}
	}
}

// Layout reports the board size (Ebiten interface).
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(r.board.Width), int(r.board.Height)
}

// drawToken draws the token body and its indicator arc.
func (r *Renderer) drawToken(screen *ebiten.Image, t *state.Token) {
	w, h := t.RenderedSize()
	x := float32(t.X - w/2)
	y := float32(t.Y - h/2)

	body := colorTokenBody
	if !t.Alive() {
		body = colorTokenDead
	}
	vector.DrawFilledRect(screen, x, y, float32(w), float32(h), body, false)

	if t.IsSelected {
		vector.StrokeRect(screen, x-2, y-2, float32(w)+4, float32(h)+4, 2, colorSelected, false)
	} else if t.IsHovered {
		vector.StrokeRect(screen, x-1, y-1, float32(w)+2, float32(h)+2, 1, colorHovered, false)
	}

	vis, ok := r.visuals[t.ID]
	if !ok || !vis.valid {
		return
	}

	cx := float32(t.X)
	cy := float32(t.Y)

	// Track first, then the filled portion on top.
	strokeArc(screen, cx, cy, vis.radius, vis.stroke, vis.start, vis.sweep, colorArcTrack)
	if vis.ratio > 0 {
		strokeArc(screen, cx, cy, vis.radius, vis.stroke, vis.start, vis.sweep*vis.ratio, vis.col)
	}
}

// strokeArc approximates an arc with short line segments. Segment count
// scales with the sweep so small slivers stay visible.
func strokeArc(dst *ebiten.Image, cx, cy, radius, width float32, start, sweep float64, col color.Color) {
	if sweep <= 0 || radius <= 0 {
		return
	}

	steps := int(math.Ceil(sweep / arcSegmentStep))
	if steps < 1 {
		steps = 1
	}

	prevX := cx + radius*float32(math.Cos(start))
	prevY := cy + radius*float32(math.Sin(start))
	for i := 1; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		nx := cx + radius*float32(math.Cos(a))
		ny := cy + radius*float32(math.Sin(a))
		vector.StrokeLine(dst, prevX, prevY, nx, ny, width, col, false)
		prevX, prevY = nx, ny
	}
}

// drawHUD prints the observer, round and scheduler stats line.
func (r *Renderer) drawHUD(screen *ebiten.Image) {
	obs := r.Observer()
	stats := r.sched.Stats()

	hud := fmt.Sprintf("Observer: %s | Round %d | queued %d | processed %d",
		obs.Name, r.board.Round, r.sched.QueueLen(), stats.Processed)
	if r.board.Paused {
		hud += " | PAUSED"
	}
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)
	ebitenutil.DebugPrintAt(screen, r.help, 8, 24)
}

// drawMessages prints the board message log at the bottom of the screen.
func (r *Renderer) drawMessages(screen *ebiten.Image) {
	base := int(r.board.Height) - 16*len(r.board.Messages) - 8
	for i, msg := range r.board.Messages {
		ebitenutil.DebugPrintAt(screen, msg, 8, base+16*i)
	}
}

// dumpState prints scheduler and cache statistics to the terminal.
func (r *Renderer) dumpState() {
	devtools.DumpState(r.board, r.pump.Frame(), r.sched.Stats(), r.sched.QueueLen(), r.geom.Len(), r.unc.Len(), r.Observer().Name)
}
