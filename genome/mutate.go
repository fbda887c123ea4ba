package genome

import "math/rand"

// MutationParams carries the effective mutation rates for one offspring.
// Rate is the per-base substitution probability after any radiation
// scaling; structural event probabilities derive from it.
type MutationParams struct {
	Rate         float64
	InsertFactor float64
	DeleteFactor float64
	MinLength    int
}

// ReverseComplement returns the reversed, base-complemented copy of g,
// recentered in the buffer. Applying it twice restores the original
// window content.
func ReverseComplement(g *Genome) Genome {
	n := int(g.Length)
	seq := make([]Base, n)
	for i := 0; i < n; i++ {
		seq[i] = g.At(n - 1 - i).Complement()
	}
	return FromBases(seq)
}

// Mutate applies structural and point mutations to a copy of g and
// returns it. At most one insertion and one deletion event fire per
// call; substitutions are rolled per base. The active window stays
// within [MinLength, Capacity] and is recentered after resizing.
func Mutate(g *Genome, rng *rand.Rand, p MutationParams) Genome {
	seq := g.Bases()

	if rng.Float64() < p.Rate*p.InsertFactor {
		seq = insertSegment(seq, rng)
	}
	if rng.Float64() < p.Rate*p.DeleteFactor {
		seq = deleteSegment(seq, rng, p.MinLength)
	}

	for i := range seq {
		if rng.Float64() < p.Rate {
			// Shift by 1..3 so the base always changes.
			seq[i] = Base((int(seq[i]) + 1 + rng.Intn(3)) % 4)
		}
	}
	return FromBases(seq)
}

// insertSegment splices 1-5 random bases at the start, the end, or a
// random interior point, bounded by buffer capacity.
func insertSegment(seq []Base, rng *rand.Rand) []Base {
	n := 1 + rng.Intn(5)
	if len(seq)+n > Capacity {
		n = Capacity - len(seq)
	}
	if n <= 0 {
		return seq
	}
	frag := make([]Base, n)
	for i := range frag {
		frag[i] = Base(rng.Intn(4))
	}

	var at int
	switch rng.Intn(3) {
	case 0:
		at = 0
	case 1:
		at = len(seq)
	default:
		if len(seq) > 0 {
			at = rng.Intn(len(seq) + 1)
		}
	}
	out := make([]Base, 0, len(seq)+n)
	out = append(out, seq[:at]...)
	out = append(out, frag...)
	out = append(out, seq[at:]...)
	return out
}

// deleteSegment removes 1-5 bases at a random point, never shrinking the
// window below minLen.
func deleteSegment(seq []Base, rng *rand.Rand, minLen int) []Base {
	n := 1 + rng.Intn(5)
	if len(seq)-n < minLen {
		n = len(seq) - minLen
	}
	if n <= 0 {
		return seq
	}
	at := rng.Intn(len(seq) - n + 1)
	out := make([]Base, 0, len(seq)-n)
	out = append(out, seq[:at]...)
	out = append(out, seq[at+n:]...)
	return out
}
