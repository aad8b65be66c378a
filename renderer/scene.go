// Package renderer draws the swimming scene with raylib.
package renderer

import (
	"hash/fnv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/systems"
)

const fovY = 60

// body holds per-species drawing geometry in model space.
type body struct {
	forward r3.Vec
	half    float64 // Half-length along forward
	radius  float64
	color   rl.Color
}

// Scene draws the seafloor, swim box, agents and their moving ends.
type Scene struct {
	camera rl.Camera3D
	world  config.WorldConfig
	farX   float64 // Seaward end of the drawn floor
	bodies map[string]body
	rig    *TailRig

	floor rl.Model
	ready bool

	ShowBox bool
}

// NewScene creates a scene for the given species. The floor runs from the
// shore to farX. rig may be nil.
func NewScene(world config.WorldConfig, farX float64, profiles []species.Profile, rig *TailRig) *Scene {
	s := &Scene{
		world:   world,
		farX:    farX,
		bodies:  make(map[string]body, len(profiles)),
		rig:     rig,
		ShowBox: true,
	}
	for i := range profiles {
		p := &profiles[i]
		forward := p.LocalForward()
		length := extentAlong(p.Extents, forward) * p.SizeScale
		thick := min(p.Extents.X, p.Extents.Y, p.Extents.Z) * p.SizeScale
		s.bodies[p.Key] = body{
			forward: forward,
			half:    0.5 * length,
			radius:  0.5 * thick,
			color:   speciesColor(p.Key),
		}
	}
	return s
}

// Camera returns the camera used by the last Draw.
func (s *Scene) Camera() rl.Camera3D {
	return s.camera
}

// UpdateCamera places the camera at the observer's eye.
func (s *Scene) UpdateCamera(obs *camera.Observer) {
	eye, target := obs.LookAt()
	s.camera = rl.Camera3D{
		Position:   vec(eye),
		Target:     vec(target),
		Up:         vec(systems.WorldUp),
		Fovy:       fovY,
		Projection: rl.CameraPerspective,
	}
}

func (s *Scene) init() {
	w := s.world
	mesh := rl.GenMeshPlane(float32(s.farX-w.Shore), float32(w.Right-w.Left), 8, 8)
	s.floor = rl.LoadModelFromMesh(mesh)
	if s.floor.Materials != nil && s.floor.Materials.Maps != nil {
		s.floor.Materials.Maps.Color = rl.Color{R: 150, G: 135, B: 100, A: 255}
	}
	s.ready = true
}

// Draw renders the scene. selected is highlighted when hasSelection is set.
func (s *Scene) Draw(agents []game.AgentSnapshot, box systems.SwimBox, selected ecs.Entity, hasSelection bool) {
	if !s.ready {
		s.init()
	}

	rl.BeginMode3D(s.camera)

	w := s.world
	center := rl.NewVector3(float32(w.Shore+s.farX)/2, float32(w.Floor), float32(w.Left+w.Right)/2)
	rl.DrawModel(s.floor, center, 1, rl.White)

	if s.ShowBox {
		rl.DrawBoundingBox(rl.BoundingBox{Min: vec(box.Min), Max: vec(box.Max)}, rl.Color{R: 200, G: 230, B: 255, A: 90})
	}

	for i := range agents {
		a := &agents[i]
		b, ok := s.bodies[a.Key]
		if !ok {
			continue
		}
		s.drawAgent(a, b)
		if hasSelection && a.Entity == selected {
			rl.DrawSphereWires(vec(a.Position), float32(a.Radius), 8, 8, rl.Yellow)
		}
	}

	rl.EndMode3D()
}

func (s *Scene) drawAgent(a *game.AgentSnapshot, b body) {
	toWorld := func(local r3.Vec) rl.Vector3 {
		return vec(r3.Add(a.Position, systems.Rotate(a.Orientation, local)))
	}

	nose := toWorld(r3.Scale(b.half, b.forward))
	back := toWorld(r3.Scale(-b.half*jointOffset, b.forward))
	rl.DrawCylinderEx(back, nose, float32(b.radius), float32(b.radius*0.3), 8, b.color)

	if s.rig == nil {
		return
	}
	seg, ok := s.rig.Segment(a.Entity)
	if !ok || !seg.HasValidMovingEnd() {
		return
	}
	rl.DrawCylinderEx(toWorld(seg.Joint()), toWorld(seg.Tip()), float32(b.radius*0.8), float32(b.radius*0.15), 6, fade(b.color))
}

// Unload frees GPU resources.
func (s *Scene) Unload() {
	if s.ready {
		rl.UnloadModel(s.floor)
		s.ready = false
	}
}

// speciesColor derives a stable color from a species key.
func speciesColor(key string) rl.Color {
	h := fnv.New32a()
	h.Write([]byte(key))
	hue := float32(h.Sum32() % 360)
	return rl.ColorFromHSV(hue, 0.55, 0.9)
}

func fade(c rl.Color) rl.Color {
	return rl.Color{R: c.R / 4 * 3, G: c.G / 4 * 3, B: c.B / 4 * 3, A: c.A}
}

func vec(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
