package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/systems"
)

// spawnInitialPopulation creates every species' agents inside the current box.
func (g *Game) spawnInitialPopulation() {
	for i := range g.profiles {
		p := &g.profiles[i]
		for n := 0; n < p.PopulationCount; n++ {
			g.spawnAgent(i, p)
		}
	}
}

// spawnAgent creates one agent at a species-biased position, heading in a
// random direction at a speed inside the species band.
func (g *Game) spawnAgent(idx int, p *species.Profile) ecs.Entity {
	pos := components.Position{Vec: g.sampler.SamplePosition(g.box.Min, g.box.Max, p)}
	speed := g.sampler.Uniform(p.EffectiveSpeedMin(), p.EffectiveSpeedMax())
	vel := components.Velocity{Vec: r3.Scale(speed, g.sampler.UnitVector())}

	var st components.Steering
	g.retarget.Retarget(&st, p, g.box, g.clock)

	head := components.Heading{Rotation: components.IdentityRotation}
	systems.Orient(&head, vel.Vec, p)

	wig := components.Wiggle{Phase: g.sampler.Uniform(0, 2*math.Pi)}
	sp := components.Species{Index: idx, Key: p.Key}

	e := g.agentMapper.NewEntity(&pos, &vel, &st, &head, &wig, &sp)
	if p.Wiggle.Enabled {
		g.wiggle.Resolve(e, g.wiggleMap.Get(e), p, g.clock)
	}
	g.numAgents++
	return e
}
