package engine

import (
	"testing"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
	"github.com/Manalokosdev/Ribossome-sub000/systems"
)

func init() {
	config.MustInit("")
	// Shrink the default run so engine tests stay fast.
	cfg := config.Cfg()
	cfg.Population.Initial = 64
	cfg.Telemetry.StatsWindow = 50
}

func TestEngineSpawnsInitialPopulation(t *testing.T) {
	e, err := New(Options{Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if e.Alive() != config.Cfg().Population.Initial {
		t.Errorf("alive = %d, want %d", e.Alive(), config.Cfg().Population.Initial)
	}
	if e.Tick() != 0 {
		t.Errorf("tick = %d, want 0", e.Tick())
	}
}

func TestEngineStepAdvances(t *testing.T) {
	e, err := New(Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	for i := 0; i < 5; i++ {
		e.Step()
	}
	if e.Tick() != 5 {
		t.Errorf("tick = %d, want 5", e.Tick())
	}
	if e.Alive() == 0 {
		t.Error("expected survivors after 5 ticks")
	}
}

func TestZeroPartGenomeRemovedOnFirstTick(t *testing.T) {
	cfg := config.Cfg()
	oldInitial := cfg.Population.Initial
	cfg.Population.Initial = 0
	defer func() { cfg.Population.Initial = oldInitial }()

	e, err := New(Options{Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	// No start codon and an immediate terminator: decodes to nothing.
	g := genome.FromBases([]genome.Base{genome.U, genome.A, genome.A})
	e.RequestSpawn(systems.SpawnRequest{
		Genome: g, HasGenome: true,
		X: 100, Y: 100, Energy: 5,
	})

	e.Step()
	if e.Alive() != 1 {
		t.Fatalf("expected the request to spawn, alive = %d", e.Alive())
	}

	// The build stage must kill it before physics or feeding run.
	e.Step()
	if e.Alive() != 0 {
		t.Errorf("expected non-viable agent removed, alive = %d", e.Alive())
	}
	if e.deadCount != 1 {
		t.Errorf("dead count = %d, want 1", e.deadCount)
	}
}

func TestMergeRemovesOnlyDeadAndHandsOffSelection(t *testing.T) {
	cfg := config.Cfg()
	oldInitial := cfg.Population.Initial
	cfg.Population.Initial = 0
	defer func() { cfg.Population.Initial = oldInitial }()

	e, err := New(Options{Seed: 21})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	for i := 0; i < 4; i++ {
		e.RequestSpawn(systems.SpawnRequest{
			X: float32(20 + i*40), Y: 50, Energy: 50,
		})
	}
	e.Step()
	if e.Alive() != 4 {
		t.Fatalf("alive = %d, want 4", e.Alive())
	}

	// Kill three, the middle one holding the selection flag.
	killed := 0
	query := e.entityFilter.Query()
	for query.Next() {
		_, _, _, _, en, org, _ := query.Get()
		if killed < 3 {
			en.Alive = false
			if killed == 1 {
				org.Selected = true
			}
			killed++
		}
	}

	e.Step()
	if e.Alive() != 1 {
		t.Fatalf("alive = %d, want exactly the one survivor", e.Alive())
	}

	selected := 0
	query = e.entityFilter.Query()
	for query.Next() {
		_, _, _, _, en, org, _ := query.Get()
		if !en.Alive {
			t.Error("dead agent survived the merge")
		}
		if org.Selected {
			selected++
		}
	}
	if selected != 1 {
		t.Errorf("flagged survivors = %d, want the selection handed to exactly one", selected)
	}
}

func TestSelectSeesRemovalsAndFreshSpawns(t *testing.T) {
	cfg := config.Cfg()
	oldInitial := cfg.Population.Initial
	cfg.Population.Initial = 0
	defer func() { cfg.Population.Initial = oldInitial }()

	e, err := New(Options{Seed: 23})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	for _, p := range []struct{ x, y float32 }{{20, 20}, {20, 60}, {80, 80}} {
		e.RequestSpawn(systems.SpawnRequest{X: p.x, Y: p.y, Energy: 50})
	}
	e.Step()

	// Kill the two on the left, then step so the merge removes them.
	query := e.entityFilter.Query()
	for query.Next() {
		pos, _, _, _, en, _, _ := query.Get()
		if pos.X < 50 {
			en.Alive = false
		}
	}
	e.Step()
	if e.Alive() != 1 {
		t.Fatalf("alive = %d, want 1", e.Alive())
	}

	if !e.Select(80, 80) {
		t.Fatal("expected the survivor selectable")
	}
	view := e.SelectedSnapshot()
	if view == nil {
		t.Fatal("expected a snapshot of the survivor")
	}
	if dx, dy := view.X-80, view.Y-80; dx*dx+dy*dy > 20*20 {
		t.Errorf("snapshot at (%f, %f), want near the survivor at (80, 80)", view.X, view.Y)
	}

	// An agent spawned by the last merge is not in any lane yet; Select
	// must still see it.
	e.RequestSpawn(systems.SpawnRequest{X: 10, Y: 10, Energy: 50})
	e.Step()
	if !e.Select(10, 10) {
		t.Fatal("expected the fresh spawn selectable")
	}
	view = e.SelectedSnapshot()
	if view == nil {
		t.Fatal("expected a snapshot of the fresh spawn")
	}
	if view.X != 10 || view.Y != 10 {
		t.Errorf("snapshot at (%f, %f), want the fresh spawn at (10, 10)", view.X, view.Y)
	}
}

func TestSelectAndSnapshot(t *testing.T) {
	e, err := New(Options{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	// Lanes and bodies exist after the first tick.
	e.Step()

	if !e.Select(100, 100) {
		t.Fatal("expected a selectable agent")
	}
	view := e.SelectedSnapshot()
	if view == nil {
		t.Fatal("expected a snapshot of the selected agent")
	}
	if len(view.Parts) == 0 {
		t.Error("expected selected agent to have parts")
	}
	if view.Genus == "" || view.Species == "" {
		t.Error("expected taxonomic labels")
	}
}

func TestRunNameDeterministic(t *testing.T) {
	if RunName(42) != RunName(42) {
		t.Error("run name must be a pure function of the seed")
	}
	if RunName(1) == RunName(2) {
		t.Error("different seeds should give different names")
	}
}

func TestBodyNameGenusIgnoresStructuralFiller(t *testing.T) {
	g := genome.FromBases([]genome.Base{genome.A, genome.U, genome.G})

	a := &components.Body{Count: 3}
	a.Parts[0].Type = parts.Met
	a.Parts[1].Type = parts.MouthSmall
	a.Parts[2].Type = parts.Propeller

	b := &components.Body{Count: 4}
	b.Parts[0].Type = parts.Leu
	b.Parts[1].Type = parts.MouthSmall
	b.Parts[2].Type = parts.Val
	b.Parts[3].Type = parts.Propeller

	genusA, speciesA := BodyName(a, &g)
	genusB, speciesB := BodyName(b, &g)

	if genusA != genusB {
		t.Error("same organ repertoire should share a genus")
	}
	if speciesA == speciesB {
		t.Error("different part sequences should differ in species")
	}
}

func TestSpeciesLabelDeterministic(t *testing.T) {
	if SpeciesLabel(123) != SpeciesLabel(123) {
		t.Error("label must be deterministic")
	}
	if SpeciesLabel(123) == SpeciesLabel(456) {
		t.Error("different codes should give different labels")
	}
}
