// Package genome implements the packed 2-bit genome, its codon decoder
// and the mutation operators used at reproduction.
//
// The packed form is canonical. The symbolic Base enum (including Pad for
// positions outside the active window) exists only at interface
// boundaries; nothing in the simulation kernel operates on it.
package genome

import "math/rand"

// Capacity is the fixed genome buffer size in bases.
const Capacity = 256

// MaxParts bounds the decoded body chain length.
const MaxParts = 64

// Base is a symbolic genome base. Pad marks positions outside the active
// window.
type Base uint8

// Base symbols. The numeric values of A, U, G, C are the packed 2-bit
// encodings.
const (
	A Base = iota
	U
	G
	C
	Pad
)

var baseNames = [5]string{"A", "U", "G", "C", "."}

// String returns the base letter, or "." for Pad.
func (b Base) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return "?"
}

// Complement returns the Watson-Crick pair of b (A<->U, G<->C).
// Pad maps to itself.
func (b Base) Complement() Base {
	switch b {
	case A:
		return U
	case U:
		return A
	case G:
		return C
	case C:
		return G
	}
	return Pad
}

// Genome is a fixed-capacity packed base buffer with an active window.
// Invariant: Offset+Length <= Capacity.
type Genome struct {
	Data   [Capacity / 4]byte
	Offset uint16
	Length uint16
}

// raw returns the 2-bit value stored at absolute position i.
// The caller guarantees 0 <= i < Capacity.
func (g *Genome) raw(i int) uint8 {
	return (g.Data[i>>2] >> uint((i&3)*2)) & 3
}

// setRaw stores a 2-bit value at absolute position i.
func (g *Genome) setRaw(i int, v uint8) {
	shift := uint((i & 3) * 2)
	g.Data[i>>2] = g.Data[i>>2]&^(3<<shift) | (v&3)<<shift
}

// At returns the base at window position i (0-based within the active
// window). Positions outside [0, Length) read as Pad.
func (g *Genome) At(i int) Base {
	if i < 0 || i >= int(g.Length) {
		return Pad
	}
	return Base(g.raw(int(g.Offset) + i))
}

// Set writes a base at window position i. Out-of-window writes and Pad
// are ignored.
func (g *Genome) Set(i int, b Base) {
	if i < 0 || i >= int(g.Length) || b > C {
		return
	}
	g.setRaw(int(g.Offset)+i, uint8(b))
}

// Bases returns the active window as a symbolic slice.
func (g *Genome) Bases() []Base {
	out := make([]Base, g.Length)
	for i := range out {
		out[i] = g.At(i)
	}
	return out
}

// FromBases builds a genome from a symbolic sequence, centered in the
// buffer. Sequences longer than Capacity are truncated; Pad symbols are
// stored as A.
func FromBases(seq []Base) Genome {
	if len(seq) > Capacity {
		seq = seq[:Capacity]
	}
	var g Genome
	g.Length = uint16(len(seq))
	g.Offset = uint16((Capacity - len(seq)) / 2)
	for i, b := range seq {
		if b > C {
			b = A
		}
		g.setRaw(int(g.Offset)+i, uint8(b))
	}
	return g
}

// NewRandom builds a centered random genome of n bases that begins with a
// start codon, so fresh spawns decode to at least one part.
func NewRandom(rng *rand.Rand, n int) Genome {
	if n < 3 {
		n = 3
	}
	if n > Capacity {
		n = Capacity
	}
	seq := make([]Base, n)
	seq[0], seq[1], seq[2] = A, U, G
	for i := 3; i < n; i++ {
		seq[i] = Base(rng.Intn(4))
	}
	return FromBases(seq)
}

// Similarity returns the fraction of matching bases between the active
// windows of a and b, compared over the shorter window. Two empty genomes
// are fully similar.
func Similarity(a, b *Genome) float32 {
	n := int(a.Length)
	if int(b.Length) < n {
		n = int(b.Length)
	}
	if n == 0 {
		if a.Length == b.Length {
			return 1
		}
		return 0
	}
	match := 0
	for i := 0; i < n; i++ {
		if a.At(i) == b.At(i) {
			match++
		}
	}
	return float32(match) / float32(n)
}
