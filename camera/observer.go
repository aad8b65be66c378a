// Package camera provides the diving observer that bounds the swim volume
// along the depth axis and frames the viewer.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
)

// Pitch is kept short of vertical so the look direction never degenerates.
const maxPitch = 1.4

// Observer moves along the X (shore to open water) axis toward a goal at a
// capped speed. Its X is the open-water bound of the swim box.
type Observer struct {
	// X is the current position along the depth axis.
	X float64

	// GoalX is where the observer is diving to, clamped to [MinX, MaxX].
	GoalX      float64
	MinX, MaxX float64
	DiveSpeed  float64 // Units per second

	// View direction; Yaw 0 looks toward open water (+X).
	Yaw, Pitch float64

	world config.WorldConfig
}

// New creates an observer at c.StartX diving toward c.GoalX.
func New(c config.ObserverConfig, world config.WorldConfig) *Observer {
	o := &Observer{
		MinX:      world.Shore,
		MaxX:      c.MaxX,
		DiveSpeed: c.DiveSpeed,
		Yaw:       math.Pi,
		world:     world,
	}
	if o.MaxX < o.MinX {
		o.MaxX = o.MinX
	}
	o.X = clamp(c.StartX, o.MinX, o.MaxX)
	o.SetGoal(c.GoalX)
	return o
}

// SetGoal sets the dive goal, clamped to the observer's range.
func (o *Observer) SetGoal(x float64) {
	o.GoalX = clamp(x, o.MinX, o.MaxX)
}

// Update moves X toward the goal by at most DiveSpeed*dt.
func (o *Observer) Update(dt float64) {
	if dt <= 0 {
		return
	}
	step := o.DiveSpeed * dt
	d := o.GoalX - o.X
	if math.Abs(d) <= step {
		o.X = o.GoalX
		return
	}
	o.X += math.Copysign(step, d)
}

// Arrived reports whether the observer has reached its goal.
func (o *Observer) Arrived() bool {
	return o.X == o.GoalX
}

// WorldParams returns this frame's world parameters for the swim box.
func (o *Observer) WorldParams() systems.WorldParams {
	return systems.WorldParamsFromConfig(o.world, o.X)
}

// Orbit turns the view by the given yaw and pitch deltas in radians.
func (o *Observer) Orbit(dYaw, dPitch float64) {
	o.Yaw = math.Mod(o.Yaw+dYaw, 2*math.Pi)
	o.Pitch = clamp(o.Pitch+dPitch, -maxPitch, maxPitch)
}

// Eye returns the viewpoint: at X, mid water column, mid lateral span.
func (o *Observer) Eye() r3.Vec {
	return r3.Vec{
		X: o.X,
		Y: (o.world.Floor + o.world.Surface) / 2,
		Z: (o.world.Left + o.world.Right) / 2,
	}
}

// LookDir returns the unit view direction.
func (o *Observer) LookDir() r3.Vec {
	cp := math.Cos(o.Pitch)
	return r3.Vec{
		X: cp * math.Cos(o.Yaw),
		Y: math.Sin(o.Pitch),
		Z: cp * math.Sin(o.Yaw),
	}
}

// LookAt returns the eye and a target one unit along the view direction.
func (o *Observer) LookAt() (eye, target r3.Vec) {
	eye = o.Eye()
	return eye, r3.Add(eye, o.LookDir())
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
