package systems

import (
	"testing"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

var testMorphCfg = config.MorphologyConfig{
	SignalGain: 1.0,
	MaxBend:    0.8,
	MassFloor:  0.1,
}

// chainBody builds a body directly from a part-type list with the given
// uniform signal levels.
func chainBody(types []parts.Type, alpha, beta float32) *components.Body {
	body := &components.Body{Count: uint8(len(types))}
	for i, tp := range types {
		body.Parts[i].Type = tp
		body.Parts[i].Alpha = alpha
		body.Parts[i].Beta = beta
	}
	return body
}

func TestBuildFromGenomeNonViable(t *testing.T) {
	// No start codon and the first frame is a terminator: zero parts.
	g := genome.FromBases([]genome.Base{genome.U, genome.A, genome.A})
	var body components.Body
	if BuildFromGenome(&g, &body) {
		t.Error("expected zero-part genome to be non-viable")
	}
}

func TestBuildFromGenomeViable(t *testing.T) {
	g := genome.FromBases([]genome.Base{
		genome.A, genome.U, genome.G, // Met
		genome.G, genome.C, genome.A, // Ala
	})
	var body components.Body
	if !BuildFromGenome(&g, &body) {
		t.Fatal("expected viable genome")
	}
	if body.Count == 0 {
		t.Error("expected decoded parts")
	}
}

func TestBuildBodyGaugeInvariance(t *testing.T) {
	types := []parts.Type{parts.Met, parts.Leu, parts.Val, parts.Gly, parts.Pro}
	table := parts.DefaultTable()

	bodyA := chainBody(types, 0.4, -0.2)
	bodyB := chainBody(types, 0.4, -0.2)
	rotA := components.Rotation{Heading: 0}
	rotB := components.Rotation{Heading: 2.1}

	BuildBody(bodyA, &rotA, table, &testMorphCfg)
	BuildBody(bodyB, &rotB, table, &testMorphCfg)

	// The stored local frame must not depend on world orientation.
	for i := 0; i < len(types); i++ {
		pa, pb := bodyA.Parts[i], bodyB.Parts[i]
		if pa.LocalX != pb.LocalX || pa.LocalY != pb.LocalY {
			t.Errorf("part %d local frame differs: (%f,%f) vs (%f,%f)",
				i, pa.LocalX, pa.LocalY, pb.LocalX, pb.LocalY)
		}
		if pa.SegAngle != pb.SegAngle {
			t.Errorf("part %d segment angle differs: %f vs %f", i, pa.SegAngle, pb.SegAngle)
		}
	}
}

func TestBuildBodyStationarySignalsNoSpin(t *testing.T) {
	types := []parts.Type{parts.Met, parts.His, parts.Thr, parts.Gln}
	table := parts.DefaultTable()
	body := chainBody(types, 0.3, 0.1)
	rot := components.Rotation{Heading: 1.0}

	BuildBody(body, &rot, table, &testMorphCfg)
	h1 := rot.Heading

	// Unchanged signals must not rotate the agent on rebuild.
	for i := 0; i < 20; i++ {
		BuildBody(body, &rot, table, &testMorphCfg)
	}
	if rot.Heading != h1 {
		t.Errorf("heading drifted under stationary signals: %f -> %f", h1, rot.Heading)
	}
}

func TestBuildBodyMassAndCapacityConservation(t *testing.T) {
	table := parts.DefaultTable()
	chains := [][]parts.Type{
		{parts.Ala},
		{parts.Met, parts.Trp},
		{parts.Met, parts.Gly, parts.MouthSmall, parts.Storage},
		{parts.Met, parts.Leu, parts.Val, parts.Pro, parts.Ser, parts.Thr, parts.His, parts.Trp},
	}

	for _, types := range chains {
		body := chainBody(types, 0, 0)
		rot := components.Rotation{}
		BuildBody(body, &rot, table, &testMorphCfg)

		var wantMass, wantCap float32
		for _, tp := range types {
			wantMass += table[tp].Mass()
			wantCap += table[tp].EnergyStorage
		}
		if wantMass < float32(testMorphCfg.MassFloor) {
			wantMass = float32(testMorphCfg.MassFloor)
		}

		if diff := absf(body.Mass - wantMass); diff > 1e-4 {
			t.Errorf("chain %v: mass %f, want %f", types, body.Mass, wantMass)
		}
		if diff := absf(body.Capacity - wantCap); diff > 1e-4 {
			t.Errorf("chain %v: capacity %f, want %f", types, body.Capacity, wantCap)
		}
	}
}

func TestBuildBodySpanAndInertiaPositive(t *testing.T) {
	table := parts.DefaultTable()
	body := chainBody([]parts.Type{parts.Met, parts.Leu, parts.Val, parts.Arg}, 0, 0)
	rot := components.Rotation{}
	BuildBody(body, &rot, table, &testMorphCfg)

	if body.Span <= 0 {
		t.Errorf("expected positive span, got %f", body.Span)
	}
	if body.Inertia < 0.01 {
		t.Errorf("expected inertia floor, got %f", body.Inertia)
	}
}

func TestChiralFlipMirrorsBends(t *testing.T) {
	table := parts.DefaultTable()

	plain := chainBody([]parts.Type{parts.His, parts.His, parts.His}, 0, 0)
	flipped := chainBody([]parts.Type{parts.ChiralFlip, parts.His, parts.His}, 0, 0)
	rotP := components.Rotation{}
	rotF := components.Rotation{}
	BuildBody(plain, &rotP, table, &testMorphCfg)
	BuildBody(flipped, &rotF, table, &testMorphCfg)

	// A leading chirality flip negates every following base bend, so the
	// running headings of the downstream parts mirror in the local frame.
	dPlain := plain.Parts[2].SegAngle - plain.Parts[1].SegAngle
	dFlip := flipped.Parts[2].SegAngle - flipped.Parts[1].SegAngle
	if absf(dPlain+dFlip) > 1e-4 {
		t.Errorf("expected mirrored bend deltas, got %f and %f", dPlain, dFlip)
	}
}
