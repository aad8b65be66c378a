package species

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sampler draws uniform, Gaussian and species-biased samples from an injected
// generator so a fixed seed reproduces the same run.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps rng. The sampler is not safe for concurrent use.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Uniform returns a value in [lo, hi).
func (s *Sampler) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Gaussian returns a zero-mean, unit-variance sample using the Box-Muller transform.
func (s *Sampler) Gaussian() float64 {
	u1 := 1 - s.rng.Float64() // (0, 1] keeps the log finite
	u2 := s.rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// UnitVector returns a direction uniformly distributed on the sphere.
func (s *Sampler) UnitVector() r3.Vec {
	z := s.Uniform(-1, 1)
	theta := s.Uniform(0, 2*math.Pi)
	r := math.Sqrt(1 - z*z)
	return r3.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}

// SamplePosition draws a point in the box [lo, hi] biased by the profile:
// X (shore to open water) follows ShoreBias, Y (floor to surface) follows
// DepthBias and Z (lateral) is uniform. The result is clamped into the box.
func (s *Sampler) SamplePosition(lo, hi r3.Vec, p *Profile) r3.Vec {
	pt := r3.Vec{
		X: s.biased(lo.X, hi.X, p.ShoreBias),
		Y: s.biased(lo.Y, hi.Y, p.DepthBias),
		Z: s.Uniform(lo.Z, hi.Z),
	}
	return r3.Vec{
		X: clamp(pt.X, lo.X, hi.X),
		Y: clamp(pt.Y, lo.Y, hi.Y),
		Z: clamp(pt.Z, lo.Z, hi.Z),
	}
}

// biased returns lo + mean*span, plus Gaussian spread when sigma > 0.
// With sigma == 0 no random draw is made and the mean is returned exactly.
func (s *Sampler) biased(lo, hi float64, b Bias) float64 {
	span := hi - lo
	v := lo + clamp(b.Mean, 0, 1)*span
	if b.Sigma > 0 {
		v += s.Gaussian() * b.Sigma * span
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
