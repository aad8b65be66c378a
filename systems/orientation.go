package systems

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/species"
)

// WorldUp is the direction agents keep visually upright against.
var WorldUp = r3.Vec{Y: 1}

const (
	// minOrientSpeed is the speed below which facing is left unchanged.
	minOrientSpeed = 1e-6
	// parallelDot is the |dot| above which two unit vectors count as parallel.
	parallelDot = 0.99
	// verticalEps is the horizontal extent below which roll is undefined.
	verticalEps = 1e-6
)

// ReferenceUp returns the model-space up vector for a forward axis: world up
// with its forward component removed. When forward is itself (nearly)
// vertical, +Z seeds the construction instead.
func ReferenceUp(forward r3.Vec) r3.Vec {
	seed := WorldUp
	if math.Abs(r3.Dot(forward, seed)) > parallelDot {
		seed = r3.Vec{Z: 1}
	}
	side := r3.Cross(forward, seed)
	return r3.Unit(r3.Cross(side, forward))
}

// ShortestArc returns the minimal rotation taking unit vector from onto unit
// vector to. Near-opposite vectors rotate half a turn about flipAxis, which
// must be orthogonal to from, followed by the small arc that remains.
func ShortestArc(from, to, flipAxis r3.Vec) quat.Number {
	d := r3.Dot(from, to)
	if d < -1+1e-6 {
		flip := quat.Number(r3.NewRotation(math.Pi, flipAxis))
		// Rotate(flip, from) is -from, so the residual dot is near +1.
		rest := ShortestArc(Rotate(flip, from), to, flipAxis)
		q := quat.Mul(rest, flip)
		return quat.Scale(1/quat.Abs(q), q)
	}
	c := r3.Cross(from, to)
	q := quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z}
	return quat.Scale(1/quat.Abs(q), q)
}

// Rotate applies unit quaternion q to v.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// NoRollRotation returns the rotation that points forward along vel while
// keeping the model's reference up as close to world up as the heading
// allows. ok is false when vel is too short to define a heading.
func NoRollRotation(forward, vel r3.Vec) (q quat.Number, ok bool) {
	speed := r3.Norm(vel)
	if speed < minOrientSpeed {
		return quat.Number{}, false
	}
	dir := r3.Scale(1/speed, vel)
	forward = unitOr(forward, r3.Vec{X: 1})
	up := ReferenceUp(forward)

	arc := ShortestArc(forward, dir, up)

	// Where the arc left the model's up, and where world up wants it,
	// both in the plane orthogonal to the heading.
	landed := Rotate(arc, up)
	desired := r3.Sub(WorldUp, r3.Scale(r3.Dot(WorldUp, dir), dir))
	if r3.Norm(desired) < verticalEps {
		return arc, true
	}

	roll := math.Atan2(r3.Dot(r3.Cross(landed, desired), dir), r3.Dot(landed, desired))
	twist := quat.Number(r3.NewRotation(roll, dir))
	q = quat.Mul(twist, arc)
	return quat.Scale(1/quat.Abs(q), q), true
}

// Orient updates the agent's heading from its velocity. The model forward
// axis is resolved from the species on first use and cached on the agent.
// Returns false when the agent is too slow to orient.
func Orient(h *components.Heading, vel r3.Vec, p *species.Profile) bool {
	if !h.HasForward {
		h.LocalForward = p.LocalForward()
		h.HasForward = true
	}
	q, ok := NoRollRotation(h.LocalForward, vel)
	if !ok {
		return false
	}
	h.Rotation = q
	h.Facing = r3.Unit(vel)
	return true
}
