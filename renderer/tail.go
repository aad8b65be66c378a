package renderer

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/systems"
)

// Fractions of the body half-length.
const (
	jointOffset   = 0.4 // Body center to the moving-end joint
	segmentLength = 0.7 // Joint to the segment tip
)

// TailSegment is the procedurally drawn moving end of one agent. Positions
// are in the agent's model space.
type TailSegment struct {
	valid bool
	joint r3.Vec
	rest  r3.Vec // Joint to tip, unrotated
	angle float64
	axis  r3.Vec
}

// HasValidMovingEnd reports whether the segment is still attached to a rig.
func (s *TailSegment) HasValidMovingEnd() bool { return s.valid }

// ApplyWiggleRotation stores the rotation drawn on the next frame.
func (s *TailSegment) ApplyWiggleRotation(angle float64, axis r3.Vec) {
	s.angle = angle
	s.axis = axis
}

// Joint returns the hinge point in model space.
func (s *TailSegment) Joint() r3.Vec { return s.joint }

// Tip returns the segment tip in model space with the wiggle applied.
func (s *TailSegment) Tip() r3.Vec {
	if s.angle == 0 || r3.Norm2(s.axis) == 0 {
		return r3.Add(s.joint, s.rest)
	}
	q := quat.Number(r3.NewRotation(s.angle, s.axis))
	return r3.Add(s.joint, systems.Rotate(q, s.rest))
}

// TailRig resolves and owns the moving ends of every drawn agent.
type TailRig struct {
	segments map[ecs.Entity]*TailSegment
}

// NewTailRig creates an empty rig.
func NewTailRig() *TailRig {
	return &TailRig{segments: make(map[ecs.Entity]*TailSegment)}
}

// ResolveMovingEnd builds a segment at the species' moving end, replacing
// any segment previously resolved for e.
func (r *TailRig) ResolveMovingEnd(e ecs.Entity, p *species.Profile) components.MovingEnd {
	if old, ok := r.segments[e]; ok {
		old.valid = false
	}

	forward := p.LocalForward()
	half := 0.5 * extentAlong(p.Extents, forward) * p.SizeScale
	if half <= 0 {
		return nil
	}

	dir := r3.Scale(-1, forward)
	if p.Wiggle.MovingEnd == species.EndHead {
		dir = forward
	}
	seg := &TailSegment{
		valid: true,
		joint: r3.Scale(jointOffset*half, dir),
		rest:  r3.Scale(segmentLength*half, dir),
	}
	r.segments[e] = seg
	return seg
}

// Segment returns the segment resolved for e, if any.
func (r *TailRig) Segment(e ecs.Entity) (*TailSegment, bool) {
	s, ok := r.segments[e]
	return s, ok
}

// Release invalidates every segment. Agents holding one fall back to
// re-resolving on their next retry.
func (r *TailRig) Release() {
	for _, s := range r.segments {
		s.valid = false
	}
	clear(r.segments)
}

// extentAlong returns the box size along an axis-aligned unit vector.
func extentAlong(extents, axis r3.Vec) float64 {
	return math.Abs(axis.X)*extents.X + math.Abs(axis.Y)*extents.Y + math.Abs(axis.Z)*extents.Z
}
