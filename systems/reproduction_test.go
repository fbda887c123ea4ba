package systems

import (
	"testing"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

var testGenomeCfg = config.GenomeConfig{InitialLength: 24, MinLength: 6}

func quietReproCfg() *config.ReproductionConfig {
	return &config.ReproductionConfig{
		NominalRate:  1.0,
		DecayRate:    0,
		StepCost:     0.25,
		SexualRatio:  0,
		MutationRate: 0,
		InsertFactor: 0,
		DeleteFactor: 0,
		RadiationCap: 10,
		PendingCap:   4,
	}
}

func reproAgent(t *testing.T) (*components.Body, *components.Rotation, *genome.Genome) {
	t.Helper()
	g := genome.FromBases([]genome.Base{
		genome.A, genome.U, genome.G, // Met
		genome.G, genome.C, genome.A, // Ala
		genome.C, genome.U, genome.A, // Leu
		genome.G, genome.U, genome.A, // Val
	})
	body := &components.Body{}
	if !BuildFromGenome(&g, body) {
		t.Fatal("test genome must be viable")
	}
	rot := &components.Rotation{}
	BuildBody(body, rot, parts.DefaultTable(), &testMorphCfg)
	return body, rot, &g
}

func TestRadiationMultiplierCapsCubicTerm(t *testing.T) {
	tests := []struct {
		name            string
		beta, gain, cap float32
		want            float32
	}{
		{"no radiation", 0, 4, 6, 1},
		{"below cap", 1, 4, 6, 5},
		{"cubic capped", 2, 4, 6, 7},
		{"far past cap", 10, 4, 6, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := radiationMultiplier(tt.beta, tt.gain, tt.cap)
			if got != tt.want {
				t.Errorf("radiationMultiplier(%f, %f, %f) = %f, want %f",
					tt.beta, tt.gain, tt.cap, got, tt.want)
			}
		})
	}
}

func TestPairingIncrementsUnderFullConditions(t *testing.T) {
	body, rot, gen := reproAgent(t)
	rc := quietReproCfg()
	rc.NominalRate = 2 // saturate the draw so every tick increments
	rc.StepCost = 0
	env := &Env{Chem: uniformChem(2, 0), WorldW: 100, WorldH: 100}
	pending := NewPendingSpawns(rc.PendingCap)

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 10, Capacity: 10, Alive: true}
	org := &components.Organism{}

	for tick := uint32(0); tick < 5; tick++ {
		UpdateReproduction(1, tick, body, pos, rot, en, org, gen, env, rc, &testGenomeCfg, pending, 1.0/60)
	}

	if org.Pairing != 5 {
		t.Errorf("expected pairing counter 5, got %d", org.Pairing)
	}
	if en.Value != 10 {
		t.Errorf("expected energy untouched at zero step cost, got %f", en.Value)
	}
	if pending.Len() != 0 {
		t.Error("no offspring expected before the counter fills")
	}
}

func TestPairingIncrementChargesStepCost(t *testing.T) {
	body, rot, gen := reproAgent(t)
	rc := quietReproCfg()
	rc.NominalRate = 2
	env := &Env{Chem: uniformChem(2, 0), WorldW: 100, WorldH: 100}
	pending := NewPendingSpawns(rc.PendingCap)

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 10, Capacity: 10, Alive: true}
	org := &components.Organism{}

	UpdateReproduction(1, 0, body, pos, rot, en, org, gen, env, rc, &testGenomeCfg, pending, 1.0/60)

	if org.Pairing != 1 {
		t.Fatalf("expected one increment, got %d", org.Pairing)
	}
	want := float32(10) - float32(rc.StepCost)
	if absf(en.Value-want) > 1e-5 {
		t.Errorf("expected energy %f after step cost, got %f", want, en.Value)
	}
}

func TestReproductionSplitsEnergyExactlyInHalf(t *testing.T) {
	body, rot, gen := reproAgent(t)
	rc := quietReproCfg()
	env := &Env{Chem: uniformChem(1, 0), WorldW: 100, WorldH: 100}
	pending := NewPendingSpawns(rc.PendingCap)

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 7.3, Capacity: 10, Alive: true}
	org := &components.Organism{Generation: 4, Pairing: uint16(gen.Length)}

	UpdateReproduction(1, 0, body, pos, rot, en, org, gen, env, rc, &testGenomeCfg, pending, 1.0/60)

	if org.Pairing != 0 {
		t.Errorf("expected counter reset after firing, got %d", org.Pairing)
	}
	if pending.Len() != 1 {
		t.Fatalf("expected one pending offspring, got %d", pending.Len())
	}

	var req SpawnRequest
	pending.Drain(func(r *SpawnRequest) { req = *r })

	if req.Energy != en.Value {
		t.Errorf("offspring energy %f != parent remainder %f", req.Energy, en.Value)
	}
	if req.Energy+en.Value != 7.3 {
		t.Errorf("energy not conserved: %f + %f != 7.3", req.Energy, en.Value)
	}
	if req.Generation != 5 {
		t.Errorf("expected generation 5, got %d", req.Generation)
	}
	if !req.HasGenome {
		t.Fatal("offspring must carry a genome")
	}
	// Zero mutation and zero sexual ratio: the child is a plain copy.
	if got := genome.Similarity(&req.Genome, gen); got != 1 {
		t.Errorf("expected identical child genome, similarity %f", got)
	}
}

func TestReproductionDropRestoresParentEnergy(t *testing.T) {
	body, rot, gen := reproAgent(t)
	rc := quietReproCfg()
	rc.PendingCap = 1
	env := &Env{Chem: uniformChem(1, 0), WorldW: 100, WorldH: 100}

	pending := NewPendingSpawns(rc.PendingCap)
	filler := SpawnRequest{Energy: 1}
	if !pending.Push(&filler) {
		t.Fatal("filler push failed")
	}

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 6, Capacity: 10, Alive: true}
	org := &components.Organism{Pairing: uint16(gen.Length)}

	UpdateReproduction(1, 0, body, pos, rot, en, org, gen, env, rc, &testGenomeCfg, pending, 1.0/60)

	if en.Value != 6 {
		t.Errorf("expected parent energy restored after drop, got %f", en.Value)
	}
	if pending.Len() != 1 {
		t.Errorf("expected buffer unchanged, len %d", pending.Len())
	}
}

func TestPendingSpawnsCapacity(t *testing.T) {
	pending := NewPendingSpawns(3)

	ok := 0
	for i := 0; i < 5; i++ {
		req := SpawnRequest{Energy: float32(i)}
		if pending.Push(&req) {
			ok++
		}
	}
	if ok != 3 {
		t.Errorf("expected 3 successful pushes, got %d", ok)
	}
	if pending.Len() != 3 {
		t.Errorf("expected len 3, got %d", pending.Len())
	}

	drained := 0
	pending.Drain(func(*SpawnRequest) { drained++ })
	if drained != 3 {
		t.Errorf("expected 3 drained, got %d", drained)
	}
	if pending.Len() != 0 {
		t.Errorf("expected empty buffer after drain, len %d", pending.Len())
	}
}

func TestReverseComplementOffspring(t *testing.T) {
	body, rot, gen := reproAgent(t)
	rc := quietReproCfg()
	rc.SexualRatio = 1
	env := &Env{Chem: uniformChem(1, 0), WorldW: 100, WorldH: 100}
	pending := NewPendingSpawns(rc.PendingCap)

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 6, Capacity: 10, Alive: true}
	org := &components.Organism{Pairing: uint16(gen.Length)}

	UpdateReproduction(1, 0, body, pos, rot, en, org, gen, env, rc, &testGenomeCfg, pending, 1.0/60)

	var req SpawnRequest
	pending.Drain(func(r *SpawnRequest) { req = *r })
	if !req.HasGenome {
		t.Fatal("offspring must carry a genome")
	}

	want := genome.ReverseComplement(gen)
	if got := genome.Similarity(&req.Genome, &want); got != 1 {
		t.Errorf("expected reverse-complement child, similarity %f", got)
	}
}
