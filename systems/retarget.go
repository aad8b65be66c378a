package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

// RetargetReason explains why an agent received a new target.
type RetargetReason uint8

const (
	ReasonNone        RetargetReason = iota
	ReasonOutOfBounds                // Target left the current swim box
	ReasonReached                    // Agent arrived at its target
	ReasonTimeout                    // Retarget deadline passed
)

func (r RetargetReason) String() string {
	switch r {
	case ReasonOutOfBounds:
		return "out_of_bounds"
	case ReasonReached:
		return "reached"
	case ReasonTimeout:
		return "timeout"
	}
	return "none"
}

// RetargetScheduler decides when agents need a new wander target and draws
// it from the species' biased sampler.
type RetargetScheduler struct {
	sampler  *species.Sampler
	reachSq  float64
	delayMin float64
	delayMax float64
}

// NewRetargetScheduler creates a scheduler drawing from sampler.
func NewRetargetScheduler(sampler *species.Sampler, c config.RetargetConfig) *RetargetScheduler {
	return &RetargetScheduler{
		sampler:  sampler,
		reachSq:  c.ReachDistance * c.ReachDistance,
		delayMin: c.TimeMin,
		delayMax: c.TimeMax,
	}
}

// Check returns the reason the agent at pos needs a new target, or ReasonNone.
func (r *RetargetScheduler) Check(pos r3.Vec, st *components.Steering, box SwimBox, now float64) RetargetReason {
	switch {
	case !box.Contains(st.Target):
		return ReasonOutOfBounds
	case r3.Norm2(r3.Sub(st.Target, pos)) < r.reachSq:
		return ReasonReached
	case now >= st.NextRetargetAt:
		return ReasonTimeout
	}
	return ReasonNone
}

// Retarget assigns a fresh target inside box and resets the deadline.
func (r *RetargetScheduler) Retarget(st *components.Steering, p *species.Profile, box SwimBox, now float64) {
	st.Target = r.sampler.SamplePosition(box.Min, box.Max, p)
	st.NextRetargetAt = now + r.sampler.Uniform(r.delayMin, r.delayMax)
}

// Update checks the agent and retargets it when needed.
func (r *RetargetScheduler) Update(pos r3.Vec, st *components.Steering, p *species.Profile, box SwimBox, now float64) RetargetReason {
	reason := r.Check(pos, st, box, now)
	if reason != ReasonNone {
		r.Retarget(st, p, box, now)
	}
	return reason
}
