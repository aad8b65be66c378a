package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/game"
	"github.com/pthm-cable/shoal/telemetry"
)

// Fitness component weights.
const (
	weightClamp   = 0.5 // Share of agent-ticks ending in a hard clamp
	weightCrowd   = 0.3 // Share of agents with a close neighbor
	weightTimeout = 0.2 // Share of retargets forced by timeout

	warmupWindows = 1 // Skip the first N windows
)

// FitnessEvaluator runs headless scenes and scores their motion quality.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastSummary Summary
}

// Summary breaks a fitness value into its components.
type Summary struct {
	ClampRate    float64
	CrowdedFrac  float64
	TimeoutShare float64
}

// Fitness combines the components (lower = better).
func (s Summary) Fitness() float64 {
	return weightClamp*s.ClampRate + weightCrowd*s.CrowdedFrac + weightTimeout*s.TimeoutShare
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, statsWindow float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: statsWindow,
	}
}

// LastSummary returns the component breakdown of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate scores raw parameter values averaged over every seed.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]Summary, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows, err := fe.runSimulation(cfg, s)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx] = Summarize(windows)
		}(i, seed)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			// Invalid parameter sets score worst.
			return math.Inf(1)
		}
	}

	avg := Summary{
		ClampRate:    stat.Mean(field(results, func(s Summary) float64 { return s.ClampRate }), nil),
		CrowdedFrac:  stat.Mean(field(results, func(s Summary) float64 { return s.CrowdedFrac }), nil),
		TimeoutShare: stat.Mean(field(results, func(s Summary) float64 { return s.TimeoutShare }), nil),
	}

	fe.mu.Lock()
	fe.lastSummary = avg
	fe.mu.Unlock()

	return avg.Fitness()
}

// runSimulation runs one headless scene and returns its window stats.
// cfg is shared between seeds and must not be mutated here.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) ([]telemetry.WindowStats, error) {
	var windows []telemetry.WindowStats
	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Config:         cfg,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Teardown()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows, nil
}

// Summarize averages the fitness components over the windows past warmup.
func Summarize(windows []telemetry.WindowStats) Summary {
	if len(windows) > warmupWindows {
		windows = windows[warmupWindows:]
	}
	if len(windows) == 0 {
		return Summary{}
	}

	clamp := make([]float64, len(windows))
	crowd := make([]float64, len(windows))
	var timeouts, retargets int
	for i, w := range windows {
		clamp[i] = w.ClampRate
		crowd[i] = w.CrowdedFrac
		timeouts += w.RetargetsTimeout
		retargets += w.RetargetsReached + w.RetargetsTimeout + w.RetargetsOutOfBounds
	}

	s := Summary{
		ClampRate:   stat.Mean(clamp, nil),
		CrowdedFrac: stat.Mean(crowd, nil),
	}
	if retargets > 0 {
		s.TimeoutShare = float64(timeouts) / float64(retargets)
	}
	return s
}

func field(ss []Summary, get func(Summary) float64) []float64 {
	out := make([]float64, len(ss))
	for i, s := range ss {
		out[i] = get(s)
	}
	return out
}
