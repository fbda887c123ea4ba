package genome

import "github.com/Manalokosdev/Ribossome-sub000/parts"

// Part is one decoded body-part descriptor. Param carries the organ
// tuning byte derived from the modifier codon; structural parts have
// Param zero.
type Part struct {
	Type  parts.Type
	Param uint8
}

// codonAt reads the codon starting at window position p, or returns
// false if any of its three bases falls outside the active window.
func (g *Genome) codonAt(p int) (int, bool) {
	if p < 0 || p+3 > int(g.Length) {
		return 0, false
	}
	base := int(g.Offset) + p
	return int(g.raw(base))<<4 | int(g.raw(base+1))<<2 | int(g.raw(base+2)), true
}

// startPos locates the translation start: the first start codon found
// scanning base by base, or window position 0 when the genome carries
// none.
func (g *Genome) startPos() int {
	for p := 0; p+3 <= int(g.Length); p++ {
		if c, ok := g.codonAt(p); ok && c == startCodon {
			return p
		}
	}
	return 0
}

// DecodeInto translates the genome into out, returning the number of
// parts written. out must have room for MaxParts entries.
//
// Translation starts at startPos and walks codon by codon. A promoter
// codon followed by a full modifier codon fuses into a single organ part
// and consumes both codons; the organ's param byte is the modifier codon
// value shifted into the high bits. Translation ends at a terminator
// codon, at the window edge, or at MaxParts. The result depends only on
// genome content.
func (g *Genome) DecodeInto(out []Part) int {
	n := 0
	for p := g.startPos(); n < MaxParts; {
		c, ok := g.codonAt(p)
		if !ok {
			break
		}
		amino := codonTable[c]
		if amino == stop {
			break
		}
		t := parts.Type(amino)
		if row := promoterIndex[t]; row >= 0 {
			if mc, ok := g.codonAt(p + 3); ok {
				if ma := codonTable[mc]; ma != stop {
					if organ := fusionTable[row][ma]; organ != 0 {
						out[n] = Part{Type: organ, Param: uint8(mc) << 2}
						n++
						p += 6
						continue
					}
				}
			}
		}
		out[n] = Part{Type: t}
		n++
		p += 3
	}
	return n
}

// Decode is the allocating convenience form of DecodeInto.
func (g *Genome) Decode() []Part {
	var buf [MaxParts]Part
	n := g.DecodeInto(buf[:])
	out := make([]Part, n)
	copy(out, buf[:n])
	return out
}

// Viable reports whether the genome decodes to at least one part.
func (g *Genome) Viable() bool {
	var buf [MaxParts]Part
	return g.DecodeInto(buf[:]) > 0
}
