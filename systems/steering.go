package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

// SteeringParams holds the force gains and limits shared by all agents.
type SteeringParams struct {
	SeekGain           float64
	SeparationRadius   float64
	SeparationStrength float64
	ContainmentGain    float64
	MaxAccel           float64
}

// SteeringParamsFromConfig converts the steering config section.
func SteeringParamsFromConfig(c config.SteeringConfig) SteeringParams {
	return SteeringParams{
		SeekGain:           c.SeekGain,
		SeparationRadius:   c.SeparationRadius,
		SeparationStrength: c.SeparationStrength,
		ContainmentGain:    c.ContainmentGain,
		MaxAccel:           c.MaxAccel,
	}
}

// StepResult reports what happened to one agent during a steering step.
type StepResult struct {
	Containing bool // Containment force was active
	Clamped    bool // Hard position clamp moved the agent
}

// SteeringSolver combines seek, separation and containment into one
// acceleration and integrates it. Not safe for concurrent use: it keeps a
// scratch neighbor buffer.
type SteeringSolver struct {
	params  SteeringParams
	scratch []Neighbor // Grows to the densest neighborhood seen
}

// NewSteeringSolver creates a solver with the given parameters.
func NewSteeringSolver(p SteeringParams) *SteeringSolver {
	return &SteeringSolver{
		params:  p,
		scratch: make([]Neighbor, 0, 32),
	}
}

// Params returns the solver parameters.
func (s *SteeringSolver) Params() SteeringParams {
	return s.params
}

// Seek returns a velocity-matching steer toward target: the desired velocity
// at full speed minus the current velocity. It is zero when the agent sits
// on its target.
func (s *SteeringSolver) Seek(pos, vel, target r3.Vec, speedMax float64) r3.Vec {
	toTarget := r3.Sub(target, pos)
	if r3.Norm2(toTarget) < epsilon {
		return r3.Vec{}
	}
	desired := r3.Scale(speedMax, r3.Unit(toTarget))
	return r3.Scale(s.params.SeekGain, r3.Sub(desired, vel))
}

// Separation sums inverse-square repulsion from every indexed neighbor within
// the separation radius. Neighbors at (near) zero distance are skipped.
func (s *SteeringSolver) Separation(idx *SpatialIndex, self ecs.Entity, pos r3.Vec) r3.Vec {
	s.scratch = idx.QueryRadiusInto(s.scratch[:0], pos, s.params.SeparationRadius, self)

	var sum r3.Vec
	for _, n := range s.scratch {
		if n.DistSq < epsilon {
			continue
		}
		// pos - neighbor = -Delta
		sum = r3.Sub(sum, r3.Scale(1/n.DistSq, n.Delta))
	}
	return r3.Scale(s.params.SeparationStrength, sum)
}

// Containment returns a force proportional to how far pos lies outside the
// box, pointing back inside. Zero while the agent is inside.
func (s *SteeringSolver) Containment(pos r3.Vec, box SwimBox) r3.Vec {
	return r3.Scale(s.params.ContainmentGain, box.Inward(pos))
}

// Force sums the three steering terms and limits the result to MaxAccel.
func (s *SteeringSolver) Force(pos, vel, target, separation r3.Vec, box SwimBox, speedMax float64) (r3.Vec, bool) {
	contain := s.Containment(pos, box)
	f := r3.Add(s.Seek(pos, vel, target, speedMax), separation)
	f = r3.Add(f, contain)
	return limit(f, s.params.MaxAccel), contain != (r3.Vec{})
}

// Step runs steering for one agent: force, velocity integration with speed
// clamp, position integration and the hard clamp into the box.
// facing orients a velocity that is exactly zero.
func (s *SteeringSolver) Step(pos *components.Position, vel *components.Velocity, st *components.Steering,
	facing r3.Vec, p *species.Profile, box SwimBox, dt float64) StepResult {

	speedMin := p.EffectiveSpeedMin()
	speedMax := p.EffectiveSpeedMax()

	force, containing := s.Force(pos.Vec, vel.Vec, st.Target, st.Separation, box, speedMax)

	vel.Vec = ClampSpeed(r3.Add(vel.Vec, r3.Scale(dt, force)), force, facing, speedMin, speedMax)

	next := r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))
	clamped := box.Clamp(next)
	pos.Vec = clamped

	return StepResult{Containing: containing, Clamped: clamped != next}
}

// ClampSpeed rescales v so its length lies in [speedMin, speedMax], keeping
// its direction. A zero v takes the direction of force, then of facing; if
// both are zero it stays zero.
func ClampSpeed(v, force, facing r3.Vec, speedMin, speedMax float64) r3.Vec {
	speed := r3.Norm(v)
	switch {
	case speed < epsilon:
		dir := unitOr(force, unitOr(facing, r3.Vec{}))
		return r3.Scale(speedMin, dir)
	case speed < speedMin:
		return r3.Scale(speedMin/speed, v)
	case speed > speedMax:
		return r3.Scale(speedMax/speed, v)
	}
	return v
}
