package systems

import (
	"testing"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// uniformChem builds a field holding the given constant levels on both
// channels.
func uniformChem(alpha, beta float32) *ChemField {
	f := NewChemField(100, 100, &config.ChemicalConfig{
		GridW: 16, GridH: 16,
		AlphaScale: 4, BetaScale: 4,
		BetaLevel: 1,
	}, 1)
	for i := range f.Alpha {
		f.Alpha[i] = alpha
		f.CapA[i] = alpha
		f.Beta[i] = beta
		f.CapB[i] = beta
	}
	return f
}

// feedTable zeroes all upkeep so feeding effects can be isolated.
func feedTable() *parts.Table {
	t := parts.DefaultTable()
	for i := range t {
		t[i].Consumption = 0
	}
	t[parts.MouthSmall].AbsorptionRate = 0.5
	t[parts.MouthSmall].EnergyStorage = 2.0
	return t
}

var quietEnergyCfg = config.EnergyConfig{
	BaseCost:     0,
	SpeedPenalty: 0,
	DeathBase:    0,
	EnergyFloor:  0.1,
	ResistMult:   0.5,
}

func buildTestAgent(types []parts.Type, table *parts.Table) (*components.Body, *components.Rotation) {
	body := chainBody(types, 0, 0)
	rot := &components.Rotation{}
	BuildBody(body, rot, table, &testMorphCfg)
	for i := range types {
		body.Parts[i].Amp = 1
	}
	return body, rot
}

func TestEnergyFeedsToCapacityAndPlateaus(t *testing.T) {
	table := feedTable()
	body, rot := buildTestAgent([]parts.Type{parts.MouthSmall}, table)
	env := &Env{Chem: uniformChem(10, 0), WorldW: 100, WorldH: 100}

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 0.5, Capacity: body.Capacity, Alive: true}

	prev := en.Value
	for tick := uint32(0); tick < 10; tick++ {
		UpdateEnergy(1, tick, body, pos, rot, en, env, &quietEnergyCfg, table, 1.0/60)
		if en.Value < prev {
			t.Fatalf("tick %d: energy decreased with zero upkeep: %f -> %f", tick, prev, en.Value)
		}
		if en.Value > en.Capacity {
			t.Fatalf("tick %d: energy %f exceeded capacity %f", tick, en.Value, en.Capacity)
		}
		prev = en.Value
	}
	if diff := absf(en.Value - en.Capacity); diff > 1e-4 {
		t.Errorf("expected plateau at capacity %f, got %f", en.Capacity, en.Value)
	}
}

func TestEnergyResistScalesIntake(t *testing.T) {
	table := feedTable()

	bodyA, rotA := buildTestAgent([]parts.Type{parts.MouthSmall}, table)
	bodyB, rotB := buildTestAgent([]parts.Type{parts.MouthSmall, parts.PoisonResist}, table)

	envA := &Env{Chem: uniformChem(10, 0), WorldW: 100, WorldH: 100}
	envB := &Env{Chem: uniformChem(10, 0), WorldW: 100, WorldH: 100}

	posA := &components.Position{X: 50, Y: 50}
	posB := &components.Position{X: 50, Y: 50}
	enA := &components.Energy{Value: 0, Capacity: 100, Alive: true}
	enB := &components.Energy{Value: 0, Capacity: 100, Alive: true}

	UpdateEnergy(1, 0, bodyA, posA, rotA, enA, envA, &quietEnergyCfg, table, 1.0/60)
	UpdateEnergy(2, 0, bodyB, posB, rotB, enB, envB, &quietEnergyCfg, table, 1.0/60)

	if enA.Value <= 0 {
		t.Fatal("expected unresisting body to gain energy")
	}
	ratio := enB.Value / enA.Value
	if absf(ratio-0.5) > 0.05 {
		t.Errorf("expected one resist organ to halve intake, got ratio %f", ratio)
	}
}

func TestEnergyBetaDamages(t *testing.T) {
	table := feedTable()
	body, rot := buildTestAgent([]parts.Type{parts.MouthSmall}, table)
	env := &Env{Chem: uniformChem(0, 10), WorldW: 100, WorldH: 100}

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 1.0, Capacity: 100, Alive: true}

	UpdateEnergy(1, 0, body, pos, rot, en, env, &quietEnergyCfg, table, 1.0/60)
	if en.Value >= 1.0 {
		t.Errorf("expected toxin to reduce energy, got %f", en.Value)
	}
	if en.Value < 0 {
		t.Errorf("energy went negative: %f", en.Value)
	}
}

func TestDieRedepositsMass(t *testing.T) {
	table := parts.DefaultTable()
	body, rot := buildTestAgent([]parts.Type{parts.Met, parts.MouthSmall, parts.Trp}, table)
	chem := uniformChem(1, 1)
	env := &Env{Chem: chem, WorldW: 100, WorldH: 100}

	beforeA, beforeB := chem.Totals()

	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 3, Capacity: 10, Alive: true}
	ec := quietEnergyCfg
	ec.DepositScatter = 0.25

	rng := newLaneRng(1, 0)
	Die(body, pos, rot, en, env, &ec, table, &rng)

	if en.Alive {
		t.Error("expected agent to be dead")
	}
	if en.Value != 0 {
		t.Errorf("expected zero energy after death, got %f", en.Value)
	}

	afterA, afterB := chem.Totals()
	if afterA <= beforeA {
		t.Error("expected alpha deposit from carcass")
	}
	if afterB <= beforeB {
		t.Error("expected beta deposit from carcass")
	}
}

func TestEnergyDeathRollAtZeroEnergy(t *testing.T) {
	table := feedTable()
	body, rot := buildTestAgent([]parts.Type{parts.Ala}, table)
	env := &Env{Chem: uniformChem(0, 0), WorldW: 100, WorldH: 100}

	ec := quietEnergyCfg
	ec.DeathBase = 0.05
	ec.EnergyFloor = 0.1

	// At zero energy the roll probability is base/floor = 0.5 per tick;
	// survival over 60 ticks is astronomically unlikely.
	pos := &components.Position{X: 50, Y: 50}
	en := &components.Energy{Value: 0, Capacity: 10, Alive: true}

	for tick := uint32(0); tick < 60 && en.Alive; tick++ {
		UpdateEnergy(3, tick, body, pos, rot, en, env, &ec, table, 1.0/60)
	}
	if en.Alive {
		t.Error("expected starving agent to die within 60 ticks")
	}
}
