// Package components defines ECS components for swimming agents.
package components

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Steering holds the agent's wander target and cached separation force.
type Steering struct {
	Target         r3.Vec
	NextRetargetAt float64 // Simulation clock time of the next forced retarget

	// Separation is recomputed on the spatial rebuild clock and reused
	// on the ticks in between.
	Separation r3.Vec
}

// Species tags an agent with its shared profile.
type Species struct {
	Index int    // Index into the scene's immutable profile slice
	Key   string // Read by hit-test collaborators to resolve catches
}

// Wiggle holds the per-agent procedural swim animation state.
type Wiggle struct {
	Phase         float64 // Radians
	Angle         float64 // Last applied angle in radians
	End           MovingEnd
	NextResolveAt float64 // Earliest clock time to retry resolving End
}

// MovingEnd is the animatable part of an agent's skeleton (head or tail),
// resolved by the asset collaborator. It may become invalid at any time.
type MovingEnd interface {
	HasValidMovingEnd() bool
	ApplyWiggleRotation(angle float64, axis r3.Vec)
}

// NoMovingEnd is the null MovingEnd used when nothing could be resolved.
type NoMovingEnd struct{}

// HasValidMovingEnd always reports false.
func (NoMovingEnd) HasValidMovingEnd() bool { return false }

// ApplyWiggleRotation does nothing.
func (NoMovingEnd) ApplyWiggleRotation(float64, r3.Vec) {}
