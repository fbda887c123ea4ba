package engine

import (
	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/systems"
)

// Step runs one full simulation tick: snapshot, grid build, the four
// parallel agent stages in order, then the single-threaded merge.
// Stage ordering is enforced by running each dispatch to completion
// before the next; within a stage, lanes are unordered.
func (e *Engine) Step() {
	dt := e.cfg.Derived.DT32

	e.timed("snapshot", e.collectLanes)
	n := len(e.lanes)

	e.timed("grid", func() {
		e.grid.Advance()
		e.runStage(e.stageInsert, n, dt)
	})
	e.timed("build", func() { e.runStage(e.stageBuild, n, dt) })
	e.timed("physics", func() { e.runStage(e.stagePhysics, n, dt) })
	e.timed("energy", func() { e.runStage(e.stageEnergy, n, dt) })
	e.timed("repro", func() { e.runStage(e.stageRepro, n, dt) })
	e.timed("merge", func() { e.merge(dt) })

	e.tick++
	e.flushTelemetry()
}

// collectLanes gathers live component pointers and copies the scalar
// state every later stage reads into the previous-tick snapshot.
func (e *Engine) collectLanes() {
	e.lanes = e.lanes[:0]
	e.env.Positions = e.env.Positions[:0]
	e.env.Velocities = e.env.Velocities[:0]
	e.env.Rotations = e.env.Rotations[:0]
	e.env.Energies = e.env.Energies[:0]
	e.env.Genomes = e.env.Genomes[:0]
	e.env.Masses = e.env.Masses[:0]

	query := e.entityFilter.Query()
	for query.Next() {
		pos, vel, rot, body, en, org, gen := query.Get()
		e.lanes = append(e.lanes, lane{
			pos: pos, vel: vel, rot: rot,
			body: body, en: en, org: org, gen: gen,
		})
		e.env.Positions = append(e.env.Positions, *pos)
		e.env.Velocities = append(e.env.Velocities, *vel)
		e.env.Rotations = append(e.env.Rotations, *rot)
		e.env.Energies = append(e.env.Energies, *en)
		e.env.Genomes = append(e.env.Genomes, *gen)
		e.env.Masses = append(e.env.Masses, body.Mass)
	}

	e.env.Chem = e.chem
	e.env.Terrain = e.terrain
	e.env.Flow = e.flow
	e.env.Force = e.force
	e.env.Grid = e.grid
	e.env.WorldW = e.worldW
	e.env.WorldH = e.worldH
	e.env.FlowCoupling = float32(e.cfg.Flow.Coupling)
}

// stageInsert claims spatial cells for live agents. Contested agents are
// omitted from neighbor discovery this tick.
func (e *Engine) stageInsert(start, end int, _ *workerScratch, _ float32) {
	for i := start; i < end; i++ {
		l := &e.lanes[i]
		if !l.en.Alive {
			continue
		}
		if !e.grid.Insert(uint32(i), l.pos.X, l.pos.Y) {
			e.omitted.Add(1)
		}
	}
}

// stageBuild decodes genomes on first touch, rebuilds chain geometry
// from last tick's signals and then advances the signal network.
// A zero-part decode kills the agent here, before any physics or
// feeding can run.
func (e *Engine) stageBuild(start, end int, scratch *workerScratch, _ float32) {
	for i := start; i < end; i++ {
		l := &e.lanes[i]
		if !l.en.Alive {
			continue
		}
		if l.body.Count == 0 {
			if !systems.BuildFromGenome(l.gen, l.body) {
				l.en.Alive = false
				continue
			}
			l.org.Genus, l.org.Species = BodyName(l.body, l.gen)
		}
		systems.BuildBody(l.body, l.rot, e.table, &e.cfg.Morphology)
		scratch.Neighbors = systems.UpdateSignals(uint32(i), l.body, l.pos, l.rot, l.en, l.org, l.gen,
			&e.env, &e.cfg.Signals, e.table, scratch.Neighbors)
	}
}

// stagePhysics accumulates forces and integrates motion.
func (e *Engine) stagePhysics(start, end int, scratch *workerScratch, dt float32) {
	for i := start; i < end; i++ {
		l := &e.lanes[i]
		if !l.en.Alive {
			continue
		}
		scratch.Neighbors = systems.UpdatePhysics(uint32(i), l.body, l.pos, l.vel, l.rot, l.en,
			&e.env, &e.cfg.Physics, e.table, dt, scratch.Neighbors)
	}
}

// stageEnergy runs feeding, upkeep and the death roll.
func (e *Engine) stageEnergy(start, end int, _ *workerScratch, dt float32) {
	for i := start; i < end; i++ {
		l := &e.lanes[i]
		if !l.en.Alive {
			continue
		}
		systems.UpdateEnergy(uint32(i), uint32(e.tick), l.body, l.pos, l.rot, l.en,
			&e.env, &e.cfg.Energy, e.table, dt)
	}
}

// stageRepro advances pairing counters and emits offspring into the
// pending buffer.
func (e *Engine) stageRepro(start, end int, _ *workerScratch, dt float32) {
	for i := start; i < end; i++ {
		l := &e.lanes[i]
		if !l.en.Alive {
			continue
		}
		systems.UpdateReproduction(uint32(i), uint32(e.tick), l.body, l.pos, l.rot, l.en, l.org, l.gen,
			&e.env, &e.cfg.Reproduction, &e.cfg.Genome, e.pending, dt)
	}
}

// merge is the single-threaded tick tail: environment step, dead agent
// removal with selection handoff, and spawn-buffer draining. This is
// the only place structural world changes happen.
func (e *Engine) merge(dt float32) {
	e.chem.Step(dt)

	// First pass: walk a fresh query and copy what the removals need
	// into plain values. Removal swap-compacts the store, so component
	// pointers cached before a removal must not be touched afterwards.
	e.roster = e.roster[:0]
	handoff := -1
	query := e.entityFilter.Query()
	for query.Next() {
		_, _, _, body, en, org, _ := query.Get()
		if !en.Alive && org.Selected {
			handoff = len(e.roster)
		}
		e.roster = append(e.roster, agentInfo{
			entity: query.Entity(),
			alive:  en.Alive,
			built:  body.Count > 0,
		})
	}
	if handoff >= 0 {
		e.transferSelection(handoff)
	}

	// Second pass: structural removals, entity handles only.
	for _, a := range e.roster {
		if a.alive {
			continue
		}
		e.collector.RecordDeath(a.built)
		e.entityMapper.Remove(a.entity)
		e.aliveCount--
		e.deadCount++
	}

	if n := int(e.omitted.Swap(0)); n > 0 {
		for i := 0; i < n; i++ {
			e.collector.RecordGridOmission()
		}
	}

	// Drain offspring, then external requests.
	dropped := 0
	e.pending.Drain(func(req *systems.SpawnRequest) {
		if !e.spawnAgent(req) {
			dropped++
		}
	})
	e.spawnMu.Lock()
	queue := e.spawnQueue
	e.spawnQueue = e.spawnQueue[:0]
	e.spawnMu.Unlock()
	for i := range queue {
		if !e.spawnAgent(&queue[i]) {
			dropped++
		}
	}
	if dropped > 0 {
		e.collector.RecordDroppedSpawn(dropped)
	}
}

// transferSelection hands the selection flag from a dead agent to a
// live one: a bounded hashed probe over the roster first, then a
// linear scan. The write goes through a per-entity lookup, which stays
// valid across removals.
func (e *Engine) transferSelection(deadIdx int) {
	n := len(e.roster)
	for probe := 0; probe < 8; probe++ {
		j := int(mix32(uint32(deadIdx)+uint32(probe)*0x9e3779b9+uint32(e.tick)) % uint32(n))
		if e.roster[j].alive {
			e.orgMap.Get(e.roster[j].entity).Selected = true
			return
		}
	}
	for j := 0; j < n; j++ {
		if e.roster[j].alive {
			e.orgMap.Get(e.roster[j].entity).Selected = true
			return
		}
	}
}

// spawnAgent creates one agent from a request. Returns false when the
// population cap is reached.
func (e *Engine) spawnAgent(req *systems.SpawnRequest) bool {
	if e.aliveCount >= e.cfg.Population.MaxAgents {
		return false
	}

	gen := req.Genome
	if !req.HasGenome {
		gen = e.randomGenome(req.Seed)
	}

	x, y := systems.WrapPosition(req.X, req.Y, e.worldW, e.worldH)
	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	rot := components.Rotation{Heading: req.Heading}
	body := components.Body{} // Count==0: built on first tick
	en := components.Energy{Value: req.Energy, Capacity: maxEnergy(req.Energy), Alive: true}
	org := components.Organism{Generation: req.Generation}

	e.entityMapper.NewEntity(&pos, &vel, &rot, &body, &en, &org, &gen)
	e.aliveCount++
	e.collector.RecordBirth()
	return true
}

func maxEnergy(v float32) float32 {
	if v < 1 {
		return 1
	}
	return v
}
