// Package viewer runs the interactive raylib front end over a scene.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/renderer"
	"github.com/pthm-cable/shoal/telemetry"
	"github.com/pthm-cable/shoal/ui"
)

const (
	maxStepsPerUpdate = 10
	divePanelWidth    = 320
	inspectPanelWidth = 260
)

// Viewer owns the window-side state: input, camera and overlays.
type Viewer struct {
	game  *game.Game
	scene *renderer.Scene
	rig   *renderer.TailRig
	water *renderer.WaterBackground

	hud     *ui.HUD
	perf    *ui.PerfPanel
	dive    *ui.DivePanel
	inspect *ui.InspectPanel

	agents       []game.AgentSnapshot
	selected     ecs.Entity
	hasSelection bool

	paused         bool
	showPerf       bool
	stepsPerUpdate int

	screenWidth  int32
	screenHeight int32
}

// New creates a viewer for g. rig must be the resolver g was built with.
// Must be called after the raylib window is open.
func New(g *game.Game, rig *renderer.TailRig, farX float64) *Viewer {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	cfg := g.Config()

	v := &Viewer{
		game:           g,
		rig:            rig,
		scene:          renderer.NewScene(cfg.World, farX, g.Profiles(), rig),
		water:          renderer.NewWaterBackground(w, h),
		hud:            ui.NewHUD(),
		perf:           ui.NewPerfPanel(w-300, 10),
		dive:           ui.NewDivePanel(10, h-100, divePanelWidth),
		inspect:        ui.NewInspectPanel(w-inspectPanelWidth-10, h-140, inspectPanelWidth),
		stepsPerUpdate: 1,
		screenWidth:    w,
		screenHeight:   h,
	}
	v.scene.UpdateCamera(g.Observer())
	return v
}

// Update handles input and advances the scene by the frame time.
func (v *Viewer) Update() {
	v.handleInput()

	if !v.paused {
		dt := float64(rl.GetFrameTime())
		for range v.stepsPerUpdate {
			v.game.Update(dt)
		}
	}
	v.game.PerfCollector().RecordFrame()

	v.scene.UpdateCamera(v.game.Observer())
	v.agents = v.game.Snapshot(v.agents)
	if v.hasSelection && !v.selectionAlive() {
		v.hasSelection = false
	}
}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	obs := v.game.Observer()
	depth := float32(0)
	if span := obs.MaxX - obs.MinX; span > 0 {
		depth = float32((obs.X - obs.MinX) / span)
	}
	v.water.Draw(depth)

	v.scene.Draw(v.agents, v.game.SwimBox(), v.selected, v.hasSelection)

	box := v.game.SwimBox()
	v.hud.Draw(ui.HUDData{
		Title:     "Shoal",
		Agents:    v.game.AgentCount(),
		Tick:      v.game.Tick(),
		SimTime:   v.game.Clock(),
		Speed:     v.stepsPerUpdate,
		FPS:       rl.GetFPS(),
		Paused:    v.paused,
		ObserverX: obs.X,
		GoalX:     obs.GoalX,
		BoxMaxX:   box.Max.X,
	})

	if goal := v.dive.Draw(obs.GoalX, obs.MinX, obs.MaxX); goal != obs.GoalX {
		obs.SetGoal(goal)
	}

	if v.showPerf {
		v.perf.Draw(v.game.PerfCollector().Stats(), telemetry.Phases())
	}
	if sel, ok := v.selection(); ok {
		v.inspect.Draw(sel)
	}

	v.hud.DrawControls(v.screenHeight, "SPACE pause | < > speed | RMB look | LMB select | B box | P perf | F5 snapshot | F11 fullscreen")
}

// Unload frees GPU resources and detaches every moving end.
func (v *Viewer) Unload() {
	v.scene.Unload()
	if v.rig != nil {
		v.rig.Release()
	}
}

func (v *Viewer) selectionAlive() bool {
	for i := range v.agents {
		if v.agents[i].Entity == v.selected {
			return true
		}
	}
	return false
}

func (v *Viewer) selection() (ui.Selection, bool) {
	if !v.hasSelection {
		return ui.Selection{}, false
	}
	for i := range v.agents {
		a := &v.agents[i]
		if a.Entity != v.selected {
			continue
		}
		return ui.Selection{
			Species:  a.Key,
			Position: [3]float64{a.Position.X, a.Position.Y, a.Position.Z},
			Speed:    r3.Norm(a.Velocity),
			Radius:   a.Radius,
		}, true
	}
	return ui.Selection{}, false
}

func (v *Viewer) saveSnapshot() {
	path, err := v.game.SaveSnapshot("manual")
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", v.game.Tick())
}
