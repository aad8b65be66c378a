// Package game drives the swimming scene: it owns the ECS world, the agents'
// species profiles and the per-frame step.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shoal/camera"
	"github.com/pthm-cable/shoal/components"
	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/species"
	"github.com/pthm-cable/shoal/systems"
	"github.com/pthm-cable/shoal/telemetry"
)

// DT is the fixed step, in seconds, used by headless runs.
const DT = 1.0 / 60.0

// Options configures a new scene.
type Options struct {
	Seed   int64
	Config *config.Config // nil = config.Cfg()

	// Resolver attaches animatable moving ends to agents; nil disables wiggle.
	Resolver systems.MovingEndResolver

	// Observer supplies the open-water bound for UpdateHeadless. nil = one
	// built from Config.Observer.
	Observer *camera.Observer

	OutputDir      string
	SnapshotDir    string // "" = OutputDir
	LogStats       bool
	StatsWindowSec float64 // 0 = Config.Telemetry.StatsWindow
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete scene state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	seed  int64
	cfg   *config.Config

	agentMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Steering,
		components.Heading,
		components.Wiggle,
		components.Species,
	]
	agentFilter *ecs.Filter6[
		components.Position,
		components.Velocity,
		components.Steering,
		components.Heading,
		components.Wiggle,
		components.Species,
	]
	wiggleMap *ecs.Map1[components.Wiggle]

	// Immutable after construction; agents index into it.
	profiles []species.Profile
	sampler  *species.Sampler

	spatial  *systems.SpatialIndex
	entries  []systems.Entry
	steering *systems.SteeringSolver
	retarget *systems.RetargetScheduler
	wiggle   *systems.WiggleAnimator
	shape    systems.BoxShape
	observer *camera.Observer

	// Two clocks: the simulation clock advances every tick, the rebuild
	// accumulator triggers the spatial index rebuild at a fixed rate.
	box             systems.SwimBox
	clock           float64
	rebuildAccum    float64
	rebuildInterval float64
	maxDT           float64
	tick            int32
	numAgents       int
	tornDown        bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	snapshotDir   string
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGameWithOptions creates a scene and spawns every species' population.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	profiles, err := species.FromConfig(cfg.Species)
	if err != nil {
		return nil, fmt.Errorf("building species profiles: %w", err)
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))
	sampler := species.NewSampler(rng)

	observer := opts.Observer
	if observer == nil {
		observer = camera.New(cfg.Observer, cfg.World)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		world: world,
		rng:   rng,
		seed:  opts.Seed,
		cfg:   cfg,
		agentMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Steering,
			components.Heading,
			components.Wiggle,
			components.Species,
		](world),
		agentFilter: ecs.NewFilter6[
			components.Position,
			components.Velocity,
			components.Steering,
			components.Heading,
			components.Wiggle,
			components.Species,
		](world),
		wiggleMap: ecs.NewMap1[components.Wiggle](world),

		profiles: profiles,
		sampler:  sampler,

		spatial:  systems.NewSpatialIndex(cfg.Steering.SeparationRadius),
		steering: systems.NewSteeringSolver(systems.SteeringParamsFromConfig(cfg.Steering)),
		retarget: systems.NewRetargetScheduler(sampler, cfg.Retarget),
		wiggle:   systems.NewWiggleAnimator(opts.Resolver, cfg.Wiggle),
		shape:    systems.BoxShapeFromConfig(cfg.SwimBox),
		observer: observer,

		rebuildInterval: cfg.Derived.RebuildInterval,
		maxDT:           cfg.Steering.MaxDT,

		collector:     telemetry.NewCollector(statsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		snapshotDir:   opts.SnapshotDir,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.box = systems.ComputeSwimBox(observer.WorldParams(), g.shape)
	g.spawnInitialPopulation()
	g.rebuildSpatial()

	g.logSpawn()
	return g, nil
}

// Update advances the observer toward its goal and steps the scene by dt.
func (g *Game) Update(dt float64) {
	g.observer.Update(dt)
	g.Step(dt, g.observer.WorldParams())
}

// UpdateHeadless runs one fixed-size step.
func (g *Game) UpdateHeadless() {
	g.Update(DT)
}

// Observer returns the scene's observer.
func (g *Game) Observer() *camera.Observer {
	return g.observer
}

// SwimBox returns the containment volume computed by the last step.
func (g *Game) SwimBox() systems.SwimBox {
	return g.box
}

// Clock returns the simulation clock in seconds.
func (g *Game) Clock() float64 {
	return g.clock
}

// Tick returns the number of steps taken.
func (g *Game) Tick() int32 {
	return g.tick
}

// AgentCount returns the number of live agents.
func (g *Game) AgentCount() int {
	return g.numAgents
}

// Profiles returns the species profiles. Callers must not modify them.
func (g *Game) Profiles() []species.Profile {
	return g.profiles
}

// Config returns the configuration the scene was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Seed returns the RNG seed the scene was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// PerfCollector returns the step timing collector.
func (g *Game) PerfCollector() *telemetry.PerfCollector {
	return g.perfCollector
}

// Teardown removes every agent and closes output. The scene must not be
// stepped afterwards; further Step calls are ignored.
func (g *Game) Teardown() {
	if g.tornDown {
		return
	}
	g.tornDown = true

	if g.outputManager != nil {
		if _, err := g.outputManager.WriteSnapshot(g.CreateSnapshot("final")); err != nil {
			slog.Error("failed to write final snapshot", "error", err)
		}
	}

	// Collect first: the world is locked while a query is open.
	var toRemove []ecs.Entity
	query := g.agentFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	g.numAgents = 0
	g.spatial.Clear()

	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
