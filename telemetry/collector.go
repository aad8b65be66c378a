package telemetry

import "github.com/pthm-cable/shoal/systems"

// Collector accumulates events within simulated-time windows and produces
// WindowStats. Frame dt varies, so windows are measured on the simulation
// clock rather than in ticks.
type Collector struct {
	windowDurationSec float64

	windowStartTick int32
	windowStartTime float64

	// Event counters for current window
	rebuilds         int
	retargets        [systems.ReasonTimeout + 1]int
	agentTicks       int
	containmentTicks int
	hardClamps       int
	wiggleApplied    int
}

// Sample is the state sampled by the scene when a window is flushed.
type Sample struct {
	Speeds      []float64
	Depths      []float64 // Normalized Y per agent
	Shores      []float64 // Normalized X per agent
	Nearest     []float64 // Nearest-neighbor distance per agent that has one
	CrowdedFrac float64
	BoxMaxX     float64
}

// NewCollector creates a stats collector flushing every windowDurationSec
// simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordRebuild records a spatial index rebuild.
func (c *Collector) RecordRebuild() {
	c.rebuilds++
}

// RecordRetarget records a retarget; ReasonNone is ignored.
func (c *Collector) RecordRetarget(reason systems.RetargetReason) {
	if reason == systems.ReasonNone || int(reason) >= len(c.retargets) {
		return
	}
	c.retargets[reason]++
}

// RecordStep records one agent's steering outcome.
func (c *Collector) RecordStep(res systems.StepResult) {
	c.agentTicks++
	if res.Containing {
		c.containmentTicks++
	}
	if res.Clamped {
		c.hardClamps++
	}
}

// RecordWiggle records an applied wiggle rotation.
func (c *Collector) RecordWiggle() {
	c.wiggleApplied++
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush(now float64) bool {
	return now-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, now float64, s Sample) WindowStats {
	speed := Summarize(s.Speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      now,

		Agents:   len(s.Speeds),
		Rebuilds: c.rebuilds,

		RetargetsReached:     c.retargets[systems.ReasonReached],
		RetargetsTimeout:     c.retargets[systems.ReasonTimeout],
		RetargetsOutOfBounds: c.retargets[systems.ReasonOutOfBounds],

		AgentTicks:       c.agentTicks,
		ContainmentTicks: c.containmentTicks,
		HardClamps:       c.hardClamps,

		WiggleApplied: c.wiggleApplied,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP10:  speed.P10,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,

		DepthMean:   Mean(s.Depths),
		ShoreMean:   Mean(s.Shores),
		NearestMean: Mean(s.Nearest),
		CrowdedFrac: s.CrowdedFrac,
		BoxMaxX:     s.BoxMaxX,
	}
	if c.agentTicks > 0 {
		stats.ClampRate = float64(c.hardClamps) / float64(c.agentTicks)
	}

	c.windowStartTick = currentTick
	c.windowStartTime = now
	c.rebuilds = 0
	c.retargets = [len(c.retargets)]int{}
	c.agentTicks = 0
	c.containmentTicks = 0
	c.hardClamps = 0
	c.wiggleApplied = 0

	return stats
}

// WindowDuration returns the window length in simulated seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
