package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/game"
)

// lookSensitivity converts mouse pixels to radians.
const lookSensitivity = 0.004

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.stepsPerUpdate > 1 {
		v.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.stepsPerUpdate < maxStepsPerUpdate {
		v.stepsPerUpdate++
	}
	if rl.IsKeyPressed(rl.KeyB) {
		v.scene.ShowBox = !v.scene.ShowBox
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.showPerf = !v.showPerf
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		v.saveSnapshot()
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.game.Observer().Orbit(float64(d.X)*lookSensitivity, -float64(d.Y)*lookSensitivity)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !v.overPanel(rl.GetMousePosition()) {
		v.pick(rl.GetMousePosition())
	}
}

// handleResize propagates new window dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth, v.screenHeight = w, h

	v.water.Resize(w, h)
	v.perf.SetPosition(w-300, 10)
	v.dive.SetPosition(10, h-100)
	v.inspect.SetPosition(w-inspectPanelWidth-10, h-140)
}

// overPanel reports whether a screen point falls on the dive panel.
func (v *Viewer) overPanel(p rl.Vector2) bool {
	panel := rl.Rectangle{X: 10, Y: float32(v.screenHeight - 100), Width: divePanelWidth, Height: 64}
	return rl.CheckCollisionPointRec(p, panel)
}

// pick selects the agent under the cursor, or clears the selection.
func (v *Viewer) pick(mouse rl.Vector2) {
	ray := rl.GetScreenToWorldRay(mouse, v.scene.Camera())
	origin := r3.Vec{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)}
	dir := r3.Vec{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)}

	hit, ok := game.Pick(v.agents, origin, dir)
	v.selected, v.hasSelection = hit.Entity, ok
	if ok {
		slog.Info("agent picked", "species", hit.Key, "x", hit.Position.X, "y", hit.Position.Y, "z", hit.Position.Z)
	}
}
