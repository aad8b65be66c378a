package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// WaterBackground fills the screen with a vertical water gradient that
// darkens as the observer dives toward open water.
type WaterBackground struct {
	width   int32
	height  int32
	shallow rl.Color
	deep    rl.Color
}

// NewWaterBackground creates a background for a screen of the given size.
func NewWaterBackground(width, height int32) *WaterBackground {
	return &WaterBackground{
		width:   width,
		height:  height,
		shallow: rl.Color{R: 40, G: 120, B: 150, A: 255},
		deep:    rl.Color{R: 4, G: 18, B: 40, A: 255},
	}
}

// Resize updates the screen dimensions.
func (w *WaterBackground) Resize(width, height int32) {
	w.width = width
	w.height = height
}

// Draw renders the gradient. depth is the observer's progress from shore
// (0) to its deepest reachable position (1).
func (w *WaterBackground) Draw(depth float32) {
	top := lerpColor(w.shallow, w.deep, depth*0.6)
	bottom := lerpColor(w.shallow, w.deep, 0.4+depth*0.6)
	rl.DrawRectangleGradientV(0, 0, w.width, w.height, top, bottom)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
