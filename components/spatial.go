package components

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Position represents an agent's world position.
type Position struct {
	r3.Vec
}

// Velocity represents an agent's velocity in units per second.
type Velocity struct {
	r3.Vec
}

// Heading holds the agent's visual orientation.
type Heading struct {
	Rotation quat.Number // Unit quaternion from model space to world space
	Facing   r3.Vec      // Last non-degenerate velocity direction

	// LocalForward is the model's forward axis, resolved lazily from the
	// species geometry and cached per agent.
	LocalForward r3.Vec
	HasForward   bool
}

// IdentityRotation is the rest orientation.
var IdentityRotation = quat.Number{Real: 1}
