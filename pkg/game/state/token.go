package state

// Token represents one visual entity on the board: a moving body with hit
// points and the display dimensions the overlay geometry is derived from.
type Token struct {
	ID   string
	Name string

	// Position and drift velocity in board pixels.
	X, Y   float64
	VX, VY float64

	// Display dimensions. TexW/TexH are the base texture size; the scale
	// factors change rarely (token resize), which is what makes geometry
	// cacheable.
	TexW, TexH     float64
	ScaleX, ScaleY float64

	HP    int
	MaxHP int

	IsSelected bool
	IsHovered  bool
	IsInCombat bool
}

// VitalsID returns the scheduling/cache key for this token.
func (t *Token) VitalsID() string {
	return t.ID
}

// Selected reports whether the token is currently selected.
func (t *Token) Selected() bool {
	return t.IsSelected
}

// Hovered reports whether the pointer is over the token.
func (t *Token) Hovered() bool {
	return t.IsHovered
}

// InCombat reports whether the token participates in an active encounter.
func (t *Token) InCombat() bool {
	return t.IsInCombat
}

// TextureSize returns the base texture dimensions.
func (t *Token) TextureSize() (w, h float64) {
	return t.TexW, t.TexH
}

// RenderScale returns the render scale factors.
func (t *Token) RenderScale() (sx, sy float64) {
	return t.ScaleX, t.ScaleY
}

// RenderedSize returns the on-screen bounding box.
func (t *Token) RenderedSize() (w, h float64) {
	return t.TexW * t.ScaleX, t.TexH * t.ScaleY
}

// Ratio returns the authoritative health fraction, clamped to 0..1.
func (t *Token) Ratio() float64 {
	if t.MaxHP <= 0 {
		return 0
	}
	r := float64(t.HP) / float64(t.MaxHP)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Alive reports whether the token has hit points left.
func (t *Token) Alive() bool {
	return t.HP > 0
}

// Contains reports whether a board-space point falls inside the token's
// rendered bounding box. The token is drawn centred on (X, Y).
func (t *Token) Contains(px, py float64) bool {
	w, h := t.RenderedSize()
	return px >= t.X-w/2 && px <= t.X+w/2 && py >= t.Y-h/2 && py <= t.Y+h/2
}

// Step advances the token's drift by dt seconds, bouncing off the board
// edges.
func (t *Token) Step(dt, boardW, boardH float64) {
	t.X += t.VX * dt
	t.Y += t.VY * dt

	w, h := t.RenderedSize()
	if t.X < w/2 {
		t.X = w / 2
		t.VX = -t.VX
	}
	if t.X > boardW-w/2 {
		t.X = boardW - w/2
		t.VX = -t.VX
	}
	if t.Y < h/2 {
		t.Y = h / 2
		t.VY = -t.VY
	}
	if t.Y > boardH-h/2 {
		t.Y = boardH - h/2
		t.VY = -t.VY
	}
}
