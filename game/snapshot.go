package game

import (
	"errors"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/telemetry"
)

// AgentSnapshot is the per-agent state read by the renderer and by
// hit-testing collaborators each frame.
type AgentSnapshot struct {
	Entity      ecs.Entity
	Key         string // Species key
	Position    r3.Vec
	Orientation quat.Number
	Radius      float64 // Hit-test radius
	Velocity    r3.Vec
}

// Snapshot appends every agent's state to dst[:0] and returns it.
func (g *Game) Snapshot(dst []AgentSnapshot) []AgentSnapshot {
	dst = dst[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, head, _, sp := query.Get()
		dst = append(dst, AgentSnapshot{
			Entity:      query.Entity(),
			Key:         sp.Key,
			Position:    pos.Vec,
			Orientation: head.Rotation,
			Radius:      g.profiles[sp.Index].HitRadius(),
			Velocity:    vel.Vec,
		})
	}
	return dst
}

// Pick returns the agent whose hit sphere the ray origin + t*dir (t >= 0)
// enters first. dir need not be normalized.
func Pick(agents []AgentSnapshot, origin, dir r3.Vec) (AgentSnapshot, bool) {
	dd := r3.Norm2(dir)
	if dd == 0 {
		return AgentSnapshot{}, false
	}

	best := -1
	bestT := math.Inf(1)
	for i := range agents {
		t, ok := raySphere(origin, dir, dd, agents[i].Position, agents[i].Radius)
		if ok && t < bestT {
			best, bestT = i, t
		}
	}
	if best < 0 {
		return AgentSnapshot{}, false
	}
	return agents[best], true
}

// raySphere returns the smallest t >= 0 at which the ray is inside the
// sphere. A ray starting inside the sphere hits at t = 0.
func raySphere(origin, dir r3.Vec, dd float64, center r3.Vec, radius float64) (float64, bool) {
	oc := r3.Sub(origin, center)
	b := r3.Dot(oc, dir)
	c := r3.Norm2(oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - dd*c
	if disc < 0 || b > 0 {
		return 0, false
	}
	return (-b - math.Sqrt(disc)) / dd, true
}

// CreateSnapshot captures the scene for export.
func (g *Game) CreateSnapshot(label string) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		RNGSeed: g.seed,
		Label:   label,
		Tick:    g.tick,
		SimTime: g.clock,
		BoxMin:  vec3(g.box.Min),
		BoxMax:  vec3(g.box.Max),
		Agents:  make([]telemetry.AgentState, 0, g.numAgents),
	}

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, st, head, _, sp := query.Get()
		q := head.Rotation
		s.Agents = append(s.Agents, telemetry.AgentState{
			ID:      uint32(query.Entity().ID()),
			Species: sp.Key,
			Pos:     vec3(pos.Vec),
			Vel:     vec3(vel.Vec),
			Target:  vec3(st.Target),
			Rot:     [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
		})
	}
	return s
}

// SaveSnapshot writes a labeled snapshot to the snapshot directory, falling
// back to the output directory.
func (g *Game) SaveSnapshot(label string) (string, error) {
	dir := g.snapshotDir
	if dir == "" {
		dir = g.outputManager.Dir()
	}
	if dir == "" {
		return "", errors.New("no snapshot or output directory configured")
	}
	return telemetry.SaveSnapshot(g.CreateSnapshot(label), dir)
}

func vec3(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
