package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/systems"
)

func testObserver() *Observer {
	return New(
		config.ObserverConfig{StartX: 10, GoalX: 20, MaxX: 50, DiveSpeed: 2},
		config.WorldConfig{Floor: -20, Surface: 0, Shore: 0, Left: -5, Right: 5},
	)
}

func TestNew(t *testing.T) {
	o := testObserver()
	if o.X != 10 || o.GoalX != 20 || o.MinX != 0 || o.MaxX != 50 {
		t.Errorf("observer = %+v", o)
	}
}

func TestSetGoalClamps(t *testing.T) {
	o := testObserver()
	tests := []struct {
		goal, want float64
	}{
		{25, 25},
		{-4, 0},
		{80, 50},
	}
	for _, tt := range tests {
		o.SetGoal(tt.goal)
		if o.GoalX != tt.want {
			t.Errorf("SetGoal(%v) -> %v, want %v", tt.goal, o.GoalX, tt.want)
		}
	}
}

func TestUpdateCapsDiveSpeed(t *testing.T) {
	o := testObserver()

	o.Update(1)
	if o.X != 12 {
		t.Errorf("X after 1s = %v, want 12", o.X)
	}
	for i := 0; i < 100; i++ {
		prev := o.X
		o.Update(0.5)
		if o.X-prev > 1+1e-12 {
			t.Fatalf("moved %v in 0.5s, cap is 1", o.X-prev)
		}
	}
	if !o.Arrived() || o.X != 20 {
		t.Errorf("X = %v, want settled at goal 20", o.X)
	}

	// Surfacing back toward shore works the same way.
	o.SetGoal(19)
	o.Update(0.25)
	if o.X != 19.5 {
		t.Errorf("X = %v, want 19.5", o.X)
	}
}

func TestWorldParamsTrackX(t *testing.T) {
	o := testObserver()
	o.Update(2.5)

	p := o.WorldParams()
	want := systems.WorldParams{Floor: -20, Surface: 0, Shore: 0, Left: -5, Right: 5, ObserverX: 15}
	if p != want {
		t.Errorf("WorldParams = %+v, want %+v", p, want)
	}
}

func TestLookAt(t *testing.T) {
	o := testObserver()

	eye, target := o.LookAt()
	if eye != (r3.Vec{X: 10, Y: -10, Z: 0}) {
		t.Errorf("eye = %v", eye)
	}
	// Default view looks back toward the shore.
	if d := r3.Sub(target, eye); math.Abs(d.X+1) > 1e-12 || math.Abs(d.Y) > 1e-12 {
		t.Errorf("look dir = %v, want -x", d)
	}

	o.Orbit(0, 10)
	if o.Pitch != maxPitch {
		t.Errorf("pitch = %v, want clamped to %v", o.Pitch, maxPitch)
	}
	if n := r3.Norm(o.LookDir()); math.Abs(n-1) > 1e-12 {
		t.Errorf("|look dir| = %v", n)
	}
}
