package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// crowdFraction of the separation radius below which a neighbor counts as
// crowding.
const crowdFraction = 0.25

// flushTelemetry flushes the stats window when it has elapsed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.clock) {
		return
	}

	stats := g.collector.Flush(g.tick, g.clock, g.sampleWindow())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleWindow collects per-agent distributions for the window record.
// Nearest-neighbor distances come from the spatial index, so they are as
// fresh as the last rebuild.
func (g *Game) sampleWindow() telemetry.Sample {
	s := telemetry.Sample{
		Speeds:  make([]float64, 0, g.numAgents),
		Depths:  make([]float64, 0, g.numAgents),
		Shores:  make([]float64, 0, g.numAgents),
		BoxMaxX: g.box.Max.X,
	}

	radius := g.steering.Params().SeparationRadius
	crowdSq := radius * crowdFraction * radius * crowdFraction
	var crowded int
	var scratch []systems.Neighbor

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, _, _, _ := query.Get()
		n := g.box.Normalized(pos.Vec)
		s.Speeds = append(s.Speeds, r3.Norm(vel.Vec))
		s.Depths = append(s.Depths, n.Y)
		s.Shores = append(s.Shores, n.X)

		scratch = g.spatial.QueryRadiusInto(scratch[:0], pos.Vec, radius, query.Entity())
		if len(scratch) == 0 {
			continue
		}
		nearest := scratch[0].DistSq
		for _, nb := range scratch[1:] {
			nearest = min(nearest, nb.DistSq)
		}
		s.Nearest = append(s.Nearest, math.Sqrt(nearest))
		if nearest < crowdSq {
			crowded++
		}
	}

	if len(s.Speeds) > 0 {
		s.CrowdedFrac = float64(crowded) / float64(len(s.Speeds))
	}
	return s
}
