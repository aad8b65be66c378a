package game

import "log/slog"

// logSpawn logs the initial population and containment volume.
func (g *Game) logSpawn() {
	counts := make([]any, 0, 2*len(g.profiles))
	for _, p := range g.profiles {
		counts = append(counts, p.Key, p.PopulationCount)
	}
	slog.Info("scene spawned",
		"seed", g.seed,
		"agents", g.numAgents,
		"stats_window", g.collector.WindowDuration(),
		slog.Group("species", counts...),
		"box_min", g.box.Min,
		"box_max", g.box.Max,
	)
}
