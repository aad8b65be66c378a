package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/config"
)

// WorldParams are the per-frame world bounds supplied by the scene driver.
type WorldParams struct {
	Floor, Surface float64 // Y bounds
	Shore          float64 // X of the shoreline (min X)
	Left, Right    float64 // Z bounds
	ObserverX      float64 // Observer position along the exploration axis (max X)
}

// WorldParamsFromConfig combines static world bounds with the observer position.
func WorldParamsFromConfig(w config.WorldConfig, observerX float64) WorldParams {
	return WorldParams{
		Floor:     w.Floor,
		Surface:   w.Surface,
		Shore:     w.Shore,
		Left:      w.Left,
		Right:     w.Right,
		ObserverX: observerX,
	}
}

// SwimBox is the axis-aligned containment volume all agents stay inside.
// It is recomputed once per tick and read-only during agent updates.
type SwimBox struct {
	Min, Max r3.Vec
}

// BoxShape holds the parameters that turn world bounds into a SwimBox.
type BoxShape struct {
	Margin       float64
	ObserverLead float64
	MinSpan      float64
}

// BoxShapeFromConfig converts the swim box config section.
func BoxShapeFromConfig(c config.SwimBoxConfig) BoxShape {
	return BoxShape{Margin: c.Margin, ObserverLead: c.ObserverLead, MinSpan: c.MinSpan}
}

// ComputeSwimBox derives the containment volume for this tick. Spans that
// collapse below MinSpan (or invert) are widened from the min side.
func ComputeSwimBox(p WorldParams, shape BoxShape) SwimBox {
	minSpan := shape.MinSpan
	if minSpan <= 0 {
		minSpan = epsilon
	}
	m := shape.Margin

	box := SwimBox{
		Min: r3.Vec{X: p.Shore + m, Y: p.Floor + m, Z: p.Left + m},
		Max: r3.Vec{X: p.ObserverX + shape.ObserverLead - m, Y: p.Surface - m, Z: p.Right - m},
	}
	if box.Max.X-box.Min.X < minSpan {
		box.Max.X = box.Min.X + minSpan
	}
	if box.Max.Y-box.Min.Y < minSpan {
		box.Max.Y = box.Min.Y + minSpan
	}
	if box.Max.Z-box.Min.Z < minSpan {
		box.Max.Z = box.Min.Z + minSpan
	}
	return box
}

// Contains reports whether p lies inside the box, bounds included.
func (b SwimBox) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp returns p clamped componentwise into the box.
func (b SwimBox) Clamp(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: clamp64(p.X, b.Min.X, b.Max.X),
		Y: clamp64(p.Y, b.Min.Y, b.Max.Y),
		Z: clamp64(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Span returns the box size per axis.
func (b SwimBox) Span() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Center returns the box midpoint.
func (b SwimBox) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Inward returns, per axis, how far p lies outside the box, signed to point
// back inside. It is zero on every axis where p is within bounds.
func (b SwimBox) Inward(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: inward(p.X, b.Min.X, b.Max.X),
		Y: inward(p.Y, b.Min.Y, b.Max.Y),
		Z: inward(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Normalized maps p to [0,1] per axis of the box.
func (b SwimBox) Normalized(p r3.Vec) r3.Vec {
	s := b.Span()
	return r3.Vec{
		X: (p.X - b.Min.X) / s.X,
		Y: (p.Y - b.Min.Y) / s.Y,
		Z: (p.Z - b.Min.Z) / s.Z,
	}
}

func inward(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return hi - v
	}
	return 0
}
