package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon guards divisions and normalizations against degenerate vectors.
const epsilon = 1e-9

// clamp64 clamps v to [lo, hi].
func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// unitOr returns v normalized, or fallback when v is too short to normalize.
func unitOr(v, fallback r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < epsilon {
		return fallback
	}
	return r3.Scale(1/n, v)
}

// limit rescales v to length maxLen if it is longer.
func limit(v r3.Vec, maxLen float64) r3.Vec {
	n := r3.Norm(v)
	if n > maxLen && n > epsilon {
		return r3.Scale(maxLen/n, v)
	}
	return v
}

// degToRad converts degrees to radians.
func degToRad(d float64) float64 {
	return d * math.Pi / 180
}
