package game

import (
	"math"

	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// Step advances the scene by dt seconds using this frame's world parameters.
// dt is clamped to [0, MaxDT]. Per agent the order is retarget, steer
// (integrate and clamp), orient, wiggle.
func (g *Game) Step(dt float64, params systems.WorldParams) {
	if g.tornDown {
		return
	}
	dt = clampDT(dt, g.maxDT)

	g.perfCollector.StartTick()

	// 1. Containment volume, once per tick and read-only below.
	g.perfCollector.StartPhase(telemetry.PhaseSwimBox)
	g.box = systems.ComputeSwimBox(params, g.shape)
	g.clock += dt

	// 2. Rebuild clock: index from last tick's settled positions.
	g.perfCollector.StartPhase(telemetry.PhaseSpatialRebuild)
	g.rebuildAccum += dt
	if g.rebuildAccum >= g.rebuildInterval {
		g.rebuildAccum = 0
		g.rebuildSpatial()
	}

	// 3. Agents
	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.updateAgents(dt)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// rebuildSpatial re-inserts every agent and recomputes the cached
// separation forces. Separation is stored only after the index is complete,
// so no agent sees a partially rebuilt index.
func (g *Game) rebuildSpatial() {
	g.entries = g.entries[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, _, _ := query.Get()
		g.entries = append(g.entries, systems.Entry{E: query.Entity(), Pos: pos.Vec})
	}
	g.spatial.Rebuild(g.entries)

	query = g.agentFilter.Query()
	for query.Next() {
		pos, _, st, _, _, _ := query.Get()
		st.Separation = g.steering.Separation(g.spatial, query.Entity(), pos.Vec)
	}
	g.collector.RecordRebuild()
}

// updateAgents runs the per-agent pipeline against the current box.
func (g *Game) updateAgents(dt float64) {
	box := g.box
	now := g.clock

	query := g.agentFilter.Query()
	for query.Next() {
		e := query.Entity()
		pos, vel, st, head, wig, sp := query.Get()
		p := &g.profiles[sp.Index]

		reason := g.retarget.Update(pos.Vec, st, p, box, now)
		g.collector.RecordRetarget(reason)

		res := g.steering.Step(pos, vel, st, head.Facing, p, box, dt)
		g.collector.RecordStep(res)

		systems.Orient(head, vel.Vec, p)

		if g.wiggle.Update(e, wig, vel.Vec, p, now, dt) {
			g.collector.RecordWiggle()
		}
	}
}

// clampDT restricts a frame delta to [0, maxDT].
func clampDT(dt, maxDT float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	if dt > maxDT {
		return maxDT
	}
	return dt
}
