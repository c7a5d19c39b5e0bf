package ebiten

import "image/color"

// Board palette.
var (
	colorBackground = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	colorTokenBody  = color.RGBA{R: 0x4a, G: 0x4a, B: 0x6a, A: 0xff}
	colorTokenDead  = color.RGBA{R: 0x2a, G: 0x2a, B: 0x3a, A: 0xff}
	colorSelected   = color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	colorHovered    = color.RGBA{R: 0xcc, G: 0xcc, B: 0xff, A: 0xff}
	colorArcTrack   = color.RGBA{R: 0x33, G: 0x33, B: 0x44, A: 0xff}
)

// healthColor maps a displayed ratio to the indicator color, red at empty
// through yellow to green at full.
func healthColor(ratio float64) color.RGBA {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	var r, g float64
	if ratio < 0.5 {
		r = 1
		g = ratio * 2
	} else {
		r = (1 - ratio) * 2
		g = 1
	}

	return color.RGBA{R: uint8(r * 0xff), G: uint8(g * 0xff), B: 0x20, A: 0xff}
}
