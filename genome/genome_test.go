package genome

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

func seqOf(s string) []Base {
	out := make([]Base, 0, len(s))
	for _, c := range s {
		switch c {
		case 'A':
			out = append(out, A)
		case 'U':
			out = append(out, U)
		case 'G':
			out = append(out, G)
		case 'C':
			out = append(out, C)
		}
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 7, 96, Capacity} {
		seq := make([]Base, n)
		for i := range seq {
			seq[i] = Base(rng.Intn(4))
		}
		g := FromBases(seq)
		if int(g.Length) != n {
			t.Fatalf("length %d, want %d", g.Length, n)
		}
		got := g.Bases()
		for i := range seq {
			if got[i] != seq[i] {
				t.Fatalf("n=%d: base %d = %v, want %v", n, i, got[i], seq[i])
			}
		}
	}
}

func TestPadOutsideWindow(t *testing.T) {
	g := FromBases(seqOf("AUGC"))
	if g.At(-1) != Pad || g.At(4) != Pad || g.At(1000) != Pad {
		t.Fatal("positions outside the window must read as Pad")
	}
	// Out-of-window writes are ignored.
	g.Set(4, C)
	if g.At(4) != Pad {
		t.Fatal("out-of-window write took effect")
	}
}

func TestSetWithinWindow(t *testing.T) {
	g := FromBases(seqOf("AAAA"))
	g.Set(2, C)
	if g.At(2) != C {
		t.Fatalf("At(2) = %v after Set, want C", g.At(2))
	}
	if g.At(1) != A || g.At(3) != A {
		t.Fatal("Set touched neighboring bases")
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewRandom(rng, 51)
	rc := ReverseComplement(&g)
	back := ReverseComplement(&rc)
	if back.Length != g.Length {
		t.Fatalf("length %d after double complement, want %d", back.Length, g.Length)
	}
	for i := 0; i < int(g.Length); i++ {
		if back.At(i) != g.At(i) {
			t.Fatalf("base %d = %v after double complement, want %v", i, back.At(i), g.At(i))
		}
	}
}

func TestDecodeKnownSequences(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want []parts.Type
	}{
		{"start then structural", "AUGGCA", []parts.Type{parts.Met, parts.Ala}},
		{"terminator stops translation", "AUGGCAUAAGCA", []parts.Type{parts.Met, parts.Ala}},
		{"mouth fusion", "AUGGCAAAAGCAUAA", []parts.Type{parts.Met, parts.Ala, parts.MouthSmall}},
		{"propeller fusion", "AUGGCACCAGCA", []parts.Type{parts.Met, parts.Ala, parts.Propeller}},
		{"start codon fuses as promoter", "AUGCCA", []parts.Type{parts.ChiralFlip}},
		{"no start codon", "GCAGCU", []parts.Type{parts.Ala, parts.Ala}},
		{"immediate terminator", "UAAGCA", nil},
		{"trailing partial codon ignored", "AUGGC", []parts.Type{parts.Met}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := FromBases(seqOf(tt.seq))
			got := g.Decode()
			if len(got) != len(tt.want) {
				t.Fatalf("decoded %d parts, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.Type != tt.want[i] {
					t.Fatalf("part %d = %v, want %v", i, p.Type, tt.want[i])
				}
			}
		})
	}
}

func TestDecodeParamFromModifier(t *testing.T) {
	// AAA (Lys promoter) + GCA (Ala modifier) fuses into a small mouth.
	g := FromBases(seqOf("AAAGCA"))
	got := g.Decode()
	if len(got) != 1 || got[0].Type != parts.MouthSmall {
		t.Fatalf("decoded %v, want a single small mouth", got)
	}
	wantParam := uint8(codonValue(G, C, A)) << 2
	if got[0].Param != wantParam {
		t.Fatalf("param = %d, want %d", got[0].Param, wantParam)
	}
}

func TestDecodeDeterministicAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 200; trial++ {
		g := NewRandom(rng, 8+rng.Intn(Capacity-8))
		a := g.Decode()
		b := g.Decode()
		if len(a) > MaxParts {
			t.Fatalf("decoded %d parts, cap is %d", len(a), MaxParts)
		}
		if len(a) != len(b) {
			t.Fatal("decode is not deterministic")
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatal("decode is not deterministic")
			}
		}
	}
}

func TestDecodePartCap(t *testing.T) {
	seq := seqOf("AUG")
	for len(seq) < Capacity {
		seq = append(seq, G, C, A) // Ala, never fuses
	}
	g := FromBases(seq[:Capacity])
	if n := len(g.Decode()); n != MaxParts {
		t.Fatalf("decoded %d parts from a full structural genome, want %d", n, MaxParts)
	}
}

func TestNewRandomViable(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		g := NewRandom(rng, 48)
		if !g.Viable() {
			t.Fatal("fresh random genome decoded to zero parts")
		}
	}
}

func TestMutateSubstitutionRate(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const length = 200
	const rate = 0.02
	const trials = 300
	g := NewRandom(rng, length)
	p := MutationParams{Rate: rate, MinLength: 12}

	diffs := 0
	for i := 0; i < trials; i++ {
		m := Mutate(&g, rng, p)
		if m.Length != g.Length {
			t.Fatal("substitution-only mutation changed the window length")
		}
		for j := 0; j < length; j++ {
			if m.At(j) != g.At(j) {
				diffs++
			}
		}
	}
	got := float64(diffs) / float64(trials*length)
	if math.Abs(got-rate) > rate/2 {
		t.Fatalf("observed substitution rate %.4f, want about %.4f", got, rate)
	}
}

func TestMutateDeletionFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const minLen = 12
	g := NewRandom(rng, minLen+2)
	p := MutationParams{Rate: 1, DeleteFactor: 1, MinLength: minLen}
	for i := 0; i < 100; i++ {
		g = Mutate(&g, rng, p)
		if int(g.Length) < minLen {
			t.Fatalf("window shrank to %d, floor is %d", g.Length, minLen)
		}
	}
}

func TestMutateInsertionCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	g := NewRandom(rng, Capacity-2)
	p := MutationParams{Rate: 1, InsertFactor: 1, MinLength: 12}
	for i := 0; i < 50; i++ {
		g = Mutate(&g, rng, p)
		if int(g.Length) > Capacity {
			t.Fatalf("window grew to %d, capacity is %d", g.Length, Capacity)
		}
		if int(g.Offset)+int(g.Length) > Capacity {
			t.Fatal("window ran past the buffer")
		}
	}
}

func TestSimilarity(t *testing.T) {
	a := FromBases(seqOf("AUGC"))
	b := FromBases(seqOf("AUGC"))
	if s := Similarity(&a, &b); s != 1 {
		t.Fatalf("identical genomes: similarity %v, want 1", s)
	}
	c := FromBases(seqOf("AUCC"))
	if s := Similarity(&a, &c); math.Abs(float64(s)-0.75) > 1e-6 {
		t.Fatalf("similarity %v, want 0.75", s)
	}
}
