package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
)

// MovingEndResolver finds the animatable head or tail of an agent's model.
// Implemented by the asset collaborator; it may return nil or an invalid end.
type MovingEndResolver interface {
	ResolveMovingEnd(e ecs.Entity, p *species.Profile) components.MovingEnd
}

// WiggleAnimator advances the procedural swim wiggle.
type WiggleAnimator struct {
	resolver        MovingEndResolver
	factorMin       float64
	factorMax       float64
	resolveInterval float64
}

// NewWiggleAnimator creates an animator. resolver may be nil, in which case
// only ends attached at spawn are animated.
func NewWiggleAnimator(resolver MovingEndResolver, c config.WiggleConfig) *WiggleAnimator {
	return &WiggleAnimator{
		resolver:        resolver,
		factorMin:       c.SpeedFactorMin,
		factorMax:       c.SpeedFactorMax,
		resolveInterval: c.ResolveInterval,
	}
}

// Resolve attaches a moving end to w, falling back to NoMovingEnd.
func (a *WiggleAnimator) Resolve(e ecs.Entity, w *components.Wiggle, p *species.Profile, now float64) {
	w.NextResolveAt = now + a.resolveInterval
	var end components.MovingEnd
	if a.resolver != nil {
		end = a.resolver.ResolveMovingEnd(e, p)
	}
	if end == nil {
		end = components.NoMovingEnd{}
	}
	w.End = end
}

// Update advances one agent's wiggle and applies it to the moving end.
// An invalid end is re-resolved at most once per resolve interval; until
// then the wiggle is skipped. Returns whether a rotation was applied.
func (a *WiggleAnimator) Update(e ecs.Entity, w *components.Wiggle, vel r3.Vec, p *species.Profile, now, dt float64) bool {
	if !p.Wiggle.Enabled {
		return false
	}
	if w.End == nil || !w.End.HasValidMovingEnd() {
		if now < w.NextResolveAt {
			return false
		}
		a.Resolve(e, w, p, now)
		if !w.End.HasValidMovingEnd() {
			return false
		}
	}

	speedFactor := clamp64(r3.Norm(vel)/p.EffectiveSpeedMax(), a.factorMin, a.factorMax)
	w.Phase += dt / p.Wiggle.PeriodSeconds * 2 * math.Pi * speedFactor
	w.Phase = math.Mod(w.Phase, 2*math.Pi)

	target := degToRad(p.Wiggle.AmplitudeDegrees) * math.Sin(w.Phase)
	w.Angle += (target - w.Angle) * (1 - p.Wiggle.Softness)

	w.End.ApplyWiggleRotation(w.Angle, WiggleAxis(p.Wiggle.Mode))
	return true
}

// WiggleAxis returns the model-space axis a wiggle mode rotates about.
func WiggleAxis(m species.WiggleMode) r3.Vec {
	if m == species.WiggleUpDown {
		return r3.Vec{Z: 1}
	}
	return r3.Vec{Y: 1}
}
