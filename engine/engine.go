// Package engine owns the simulation world: the agent store, the tick
// pipeline and the merge pass that applies births and deaths.
package engine

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
	"github.com/Manalokosdev/Ribossome-sub000/systems"
	"github.com/Manalokosdev/Ribossome-sub000/telemetry"
)

// Options configures engine construction.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
}

// lane is one agent's slot in the current tick: live component
// pointers, indexed by dense id. Pointers stay valid through the
// parallel stages because structural world changes only happen in the
// merge pass; the merge itself re-queries and works by entity handle.
type lane struct {
	pos  *components.Position
	vel  *components.Velocity
	rot  *components.Rotation
	body *components.Body
	en   *components.Energy
	org  *components.Organism
	gen  *genome.Genome
}

// agentInfo is the merge pass's value copy of one agent's fate: what
// dead compaction needs after component pointers go stale.
type agentInfo struct {
	entity ecs.Entity
	alive  bool
	built  bool
}

// Engine holds the complete simulation state.
type Engine struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config
	table *parts.Table

	entityMapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Organism,
		genome.Genome,
	]
	entityFilter *ecs.Filter7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Body,
		components.Energy,
		components.Organism,
		genome.Genome,
	]
	// Per-entity lookup for writes that must survive removals.
	orgMap *ecs.Map[components.Organism]
	// Environment
	grid    *systems.Grid
	chem    *systems.ChemField
	terrain *systems.Terrain
	force   *systems.ForceField
	flow    systems.FlowSampler
	pending *systems.PendingSpawns

	// Per-tick lane table and previous-tick snapshot
	lanes   []lane
	roster  []agentInfo
	env     systems.Env
	omitted atomic.Int32

	// External spawn requests, drained once per tick
	spawnMu    sync.Mutex
	spawnQueue []systems.SpawnRequest

	parallel  *parallelState
	collector *telemetry.Collector
	perf      *telemetry.Perf
	output    *telemetry.OutputManager

	tick       int64
	aliveCount int
	deadCount  int
	logStats   bool
	runName    string

	worldW, worldH float32
}

// New builds an engine from the global config and spawns the initial
// population.
func New(opts Options) (*Engine, error) {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	e := &Engine{
		world:  world,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		cfg:    cfg,
		table:  parts.NewTable(cfg.Parts),
		worldW: cfg.Derived.WorldW32,
		worldH: cfg.Derived.WorldH32,
		entityMapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Energy,
			components.Organism,
			genome.Genome,
		](world),
		entityFilter: ecs.NewFilter7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Body,
			components.Energy,
			components.Organism,
			genome.Genome,
		](world),
		orgMap:    ecs.NewMap[components.Organism](world),
		logStats:  opts.LogStats,
		runName:   RunName(uint32(opts.Seed)),
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perf:      telemetry.NewPerf(),
		parallel:  newParallelState(),
	}

	e.grid = systems.NewGrid(e.worldW, e.worldH, &cfg.Grid)
	e.chem = systems.NewChemField(e.worldW, e.worldH, &cfg.Chemical, opts.Seed)
	e.terrain = systems.NewTerrain(e.worldW, e.worldH, &cfg.Terrain, opts.Seed+100)
	e.force = systems.NewForceField(e.worldW, e.worldH, cfg.Chemical.GridW, cfg.Chemical.GridH)
	if cfg.Flow.Enabled {
		e.flow = systems.NewSwirlFlow(e.worldW, e.worldH, &cfg.Flow)
	}
	e.pending = systems.NewPendingSpawns(cfg.Reproduction.PendingCap)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	e.output = om
	if err := e.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	slog.Info("world created",
		"run", e.runName,
		"seed", opts.Seed,
		"world_w", e.worldW,
		"world_h", e.worldH,
		"grid_cells", e.grid.Cells(),
	)

	e.spawnInitialPopulation()
	return e, nil
}

// spawnInitialPopulation seeds the world with random genomes.
func (e *Engine) spawnInitialPopulation() {
	cfg := e.cfg
	for i := 0; i < cfg.Population.Initial; i++ {
		req := systems.SpawnRequest{
			X:       e.rng.Float32() * e.worldW,
			Y:       e.rng.Float32() * e.worldH,
			Heading: e.rng.Float32() * 2 * math.Pi,
			Energy:  float32(cfg.Population.InitialEnergy),
			Seed:    e.rng.Int63(),
		}
		e.spawnAgent(&req)
	}
}

// randomGenome builds a fresh viable genome from a spawn seed.
func (e *Engine) randomGenome(seed int64) genome.Genome {
	rng := rand.New(rand.NewSource(seed))
	return genome.NewRandom(rng, e.cfg.Genome.InitialLength)
}

// RequestSpawn queues an external spawn request, drained at the next
// tick boundary.
func (e *Engine) RequestSpawn(req systems.SpawnRequest) {
	e.spawnMu.Lock()
	e.spawnQueue = append(e.spawnQueue, req)
	e.spawnMu.Unlock()
}

// Tick returns the current tick count.
func (e *Engine) Tick() int64 { return e.tick }

// Alive returns the live agent count.
func (e *Engine) Alive() int { return e.aliveCount }

// Chem exposes the chemical field for external diffusion or rendering.
func (e *Engine) Chem() *systems.ChemField { return e.chem }

// ForceBuffer exposes the fluid reaction-force accumulator.
func (e *Engine) ForceBuffer() *systems.ForceField { return e.force }

// Close stops workers and flushes output files.
func (e *Engine) Close() error {
	e.parallel.stopWorkers()
	return e.output.Close()
}

// timed runs fn and records its wall time under the given stage name.
func (e *Engine) timed(name string, fn func()) {
	start := time.Now()
	fn()
	e.perf.Observe(name, time.Since(start))
}
