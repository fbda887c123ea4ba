package engine

import (
	"fmt"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// Agent naming is taxonomic: the genus hash covers the set of organ
// types a body carries, the species hash additionally covers the full
// part sequence and the active genome length. Two bodies with the same
// organ repertoire share a genus even when their structural filler
// differs; species identity requires the same build.

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

func fnv1a(h uint32, b byte) uint32 {
	return (h ^ uint32(b)) * fnvPrime32
}

// mix32 is a final avalanche mixer (splitmix-style).
func mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// BodyName hashes a built body into stable genus and species codes.
func BodyName(body *components.Body, gen *genome.Genome) (genus, species uint32) {
	var organSet [parts.Count]bool
	for i := 0; i < int(body.Count); i++ {
		t := body.Parts[i].Type
		if parts.IsOrgan(t) {
			organSet[t] = true
		}
	}

	genus = fnvOffset32
	for t := parts.StructuralCount; t < parts.Count; t++ {
		if organSet[t] {
			genus = fnv1a(genus, byte(t))
		}
	}
	genus = mix32(genus)

	species = fnvOffset32
	for i := 0; i < int(body.Count); i++ {
		species = fnv1a(species, byte(body.Parts[i].Type))
	}
	species = fnv1a(species, byte(gen.Length))
	species = fnv1a(species, byte(gen.Length>>8))
	species = mix32(species)
	return genus, species
}

var runAdjectives = []string{
	"amber", "brisk", "cobalt", "dun", "ember", "fallow", "glassy", "hoary",
	"iron", "jade", "keen", "loam", "murky", "nacre", "ochre", "pale",
}

var runNouns = []string{
	"basin", "brine", "current", "delta", "eddy", "fjord", "gyre", "lagoon",
	"marsh", "pool", "reef", "shoal", "silt", "strait", "tide", "trench",
}

// RunName derives a human-readable run label from the world seed.
func RunName(seed uint32) string {
	h := mix32(seed)
	adj := runAdjectives[h%uint32(len(runAdjectives))]
	noun := runNouns[(h>>8)%uint32(len(runNouns))]
	return fmt.Sprintf("%s-%s-%04x", adj, noun, h>>16)
}

var nameOnsets = []string{"b", "br", "c", "cr", "d", "f", "g", "gl", "k", "l", "m", "n", "p", "pl", "r", "s", "st", "t", "th", "v", "x", "z"}
var nameVowels = []string{"a", "e", "i", "o", "u", "ae", "ia", "io"}
var nameCodas = []string{"", "l", "n", "r", "s", "th", "x"}

// SpeciesLabel renders a hash code as a pronounceable pseudo-Latin name
// for logs and inspection output.
func SpeciesLabel(code uint32) string {
	h := code
	out := ""
	for syl := 0; syl < 3; syl++ {
		out += nameOnsets[h%uint32(len(nameOnsets))]
		h = mix32(h)
		out += nameVowels[h%uint32(len(nameVowels))]
		h = mix32(h)
	}
	out += nameCodas[h%uint32(len(nameCodas))]
	return out
}
