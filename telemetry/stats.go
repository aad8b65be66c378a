package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Agents int `csv:"agents"`

	// Spatial index
	Rebuilds int `csv:"rebuilds"`

	// Retargets by reason during window
	RetargetsReached     int `csv:"retargets_reached"`
	RetargetsTimeout     int `csv:"retargets_timeout"`
	RetargetsOutOfBounds int `csv:"retargets_out_of_bounds"`

	// Containment
	AgentTicks       int     `csv:"agent_ticks"`
	ContainmentTicks int     `csv:"containment_ticks"` // Agent-ticks with the containment force active
	HardClamps       int     `csv:"hard_clamps"`       // Agent-ticks ending in the hard position clamp
	ClampRate        float64 `csv:"clamp_rate"`

	// Animation
	WiggleApplied int `csv:"wiggle_applied"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Placement inside the swim box, normalized to [0, 1]
	DepthMean float64 `csv:"depth_mean"` // 0 = floor, 1 = surface
	ShoreMean float64 `csv:"shore_mean"` // 0 = shore, 1 = open-water bound

	// Crowding
	NearestMean float64 `csv:"nearest_mean"` // Mean distance to the nearest neighbor
	CrowdedFrac float64 `csv:"crowded_frac"` // Fraction of agents with a neighbor inside the crowding distance

	BoxMaxX float64 `csv:"box_max_x"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes mean, sample standard deviation and percentiles.
// values is not modified.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("retargets_reached", s.RetargetsReached),
		slog.Int("retargets_timeout", s.RetargetsTimeout),
		slog.Int("retargets_out_of_bounds", s.RetargetsOutOfBounds),
		slog.Int("containment_ticks", s.ContainmentTicks),
		slog.Int("hard_clamps", s.HardClamps),
		slog.Float64("clamp_rate", s.ClampRate),
		slog.Int("wiggle_applied", s.WiggleApplied),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("depth_mean", s.DepthMean),
		slog.Float64("shore_mean", s.ShoreMean),
		slog.Float64("nearest_mean", s.NearestMean),
		slog.Float64("crowded_frac", s.CrowdedFrac),
		slog.Float64("box_max_x", s.BoxMaxX),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"retargets", s.RetargetsReached+s.RetargetsTimeout+s.RetargetsOutOfBounds,
		"hard_clamps", s.HardClamps,
		"speed_mean", s.SpeedMean,
		"depth_mean", s.DepthMean,
		"crowded_frac", s.CrowdedFrac,
	)
}
