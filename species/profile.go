// Package species holds the immutable per-species behavioral parameters and
// the biased position sampler used to pick wander targets.
package species

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/config"
)

// WiggleMode selects the local axis the moving end rotates about.
type WiggleMode uint8

const (
	WiggleLeftRight WiggleMode = iota // Rotates about the vertical axis
	WiggleUpDown                      // Rotates about the lateral axis
)

// MovingEnd selects which end of the body the wiggle animates.
type MovingEnd uint8

const (
	EndTail MovingEnd = iota
	EndHead
)

// Bias centers a species along one axis of the swim box.
type Bias struct {
	Mean  float64 // 0 = min side, 1 = max side
	Sigma float64 // Standard deviation as a fraction of the span
}

// Wiggle holds the procedural swim animation parameters.
type Wiggle struct {
	Enabled          bool
	Mode             WiggleMode
	MovingEnd        MovingEnd
	PeriodSeconds    float64
	AmplitudeDegrees float64
	Softness         float64
}

// AxisFlips negates detected forward axes that point backwards on the model.
type AxisFlips struct {
	X, Y, Z bool
}

// Profile is the shared, read-only description of a species.
// Profiles are built once at scene setup; agents refer to them by index.
type Profile struct {
	Key             string
	PopulationCount int
	SizeScale       float64
	SpeedScale      float64
	SpeedMin        float64
	SpeedMax        float64
	ShoreBias       Bias
	DepthBias       Bias
	Wiggle          Wiggle
	Flips           AxisFlips
	Extents         r3.Vec // Rest bounding-box size of the model
}

// EffectiveSpeedMin returns the minimum speed scaled by SpeedScale.
func (p *Profile) EffectiveSpeedMin() float64 {
	return p.SpeedMin * p.SpeedScale
}

// EffectiveSpeedMax returns the maximum speed scaled by SpeedScale.
func (p *Profile) EffectiveSpeedMax() float64 {
	return p.SpeedMax * p.SpeedScale
}

// HitRadius returns a bounding sphere radius for hit tests.
func (p *Profile) HitRadius() float64 {
	longest := max(p.Extents.X, p.Extents.Y, p.Extents.Z)
	return 0.5 * longest * p.SizeScale
}

// LocalForward returns the model's forward direction: the longest axis of its
// rest bounding box, with the species' sign flip applied. Ties prefer X, then Z.
func (p *Profile) LocalForward() r3.Vec {
	e := p.Extents
	switch {
	case e.X >= e.Y && e.X >= e.Z:
		return r3.Vec{X: flipSign(p.Flips.X)}
	case e.Z >= e.Y:
		return r3.Vec{Z: flipSign(p.Flips.Z)}
	default:
		return r3.Vec{Y: flipSign(p.Flips.Y)}
	}
}

func flipSign(flip bool) float64 {
	if flip {
		return -1
	}
	return 1
}

// FromConfig builds profiles from validated species configs.
func FromConfig(cfgs []config.SpeciesConfig) ([]Profile, error) {
	profiles := make([]Profile, 0, len(cfgs))
	for i := range cfgs {
		sc := &cfgs[i]
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("species %q: %w", sc.Key, err)
		}
		profiles = append(profiles, fromConfig(sc))
	}
	return profiles, nil
}

func fromConfig(sc *config.SpeciesConfig) Profile {
	mode := WiggleLeftRight
	if sc.Wiggle.Mode == "up_down" {
		mode = WiggleUpDown
	}
	end := EndTail
	if sc.Wiggle.MovingEnd == "head" {
		end = EndHead
	}

	return Profile{
		Key:             sc.Key,
		PopulationCount: sc.Population,
		SizeScale:       sc.SizeScale,
		SpeedScale:      sc.SpeedScale,
		SpeedMin:        sc.SpeedMin,
		SpeedMax:        sc.SpeedMax,
		ShoreBias:       Bias{Mean: sc.ShoreBias.Mean, Sigma: sc.ShoreBias.Sigma},
		DepthBias:       Bias{Mean: sc.DepthBias.Mean, Sigma: sc.DepthBias.Sigma},
		Wiggle: Wiggle{
			Enabled:          sc.Wiggle.Enabled,
			Mode:             mode,
			MovingEnd:        end,
			PeriodSeconds:    sc.Wiggle.PeriodSeconds,
			AmplitudeDegrees: sc.Wiggle.AmplitudeDegrees,
			Softness:         sc.Wiggle.Softness,
		},
		Flips:   AxisFlips{X: sc.Flips.X, Y: sc.Flips.Y, Z: sc.Flips.Z},
		Extents: r3.Vec{X: sc.Extents[0], Y: sc.Extents[1], Z: sc.Extents[2]},
	}
}
