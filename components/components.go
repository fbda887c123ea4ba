// Package components defines the ECS components carried by every agent.
//
// Components are plain data. Systems own all behavior; the only methods
// here are cheap aggregation helpers over the part buffer.
package components

import (
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// Position is an agent's world-space position.
type Position struct {
	X, Y float32
}

// Velocity is an agent's world-space velocity.
type Velocity struct {
	X, Y float32
}

// Rotation carries an agent's heading and angular velocity.
type Rotation struct {
	Heading float32 // radians
	AngVel  float32 // radians per second
}

// Energy carries the agent's life-state scalars.
type Energy struct {
	Value    float32
	Capacity float32
	Age      float32 // seconds since spawn
	Alive    bool
}

// Organism carries lineage and reproduction state.
type Organism struct {
	Generation uint32
	Pairing    uint16 // counts up to the active genome length
	Selected   bool   // external inspection flag, transferred on death
	Genus      uint32 // body-plan hash
	Species    uint32 // full-sequence hash
}

// BodyPart is one element of the decoded kinematic chain. Local
// coordinates are in the agent's gauge-normalized body frame.
type BodyPart struct {
	Type  parts.Type
	Param uint8

	LocalX, LocalY float32
	SegAngle       float32 // body-frame direction of the segment

	Alpha, Beta float32 // signal channels, clamped to [-1, 1]
	Amp         float32 // enabler amplification in [0, 1]

	// Organ-specific persistent state.
	Accum   float32 // clock-integrator accumulator
	Latched bool    // anchor latch, read one tick behind

	PrevWX, PrevWY float32 // last tick's world position (mouth speed penalty)
}

// Body is the fixed-capacity part chain plus the aggregates the
// morphology pass derives from it. Count==0 marks a body not yet built;
// the first tick decodes the genome and fills it in.
type Body struct {
	Parts [genome.MaxParts]BodyPart
	Count uint8

	Mass     float32 // floor-clamped total mass
	Capacity float32 // energy capacity from storage-bearing parts
	Inertia  float32 // moment of inertia about the center of mass
	Span     float32 // largest part radius, drives length drag
	OriginX  float32 // chain origin in the recentered frame
	OriginY  float32

	// MeanHeading is the raw-frame mean heading of the last build. The
	// builder folds only the tick-to-tick delta into the agent's global
	// rotation, so a stationary signal pattern produces no spurious spin.
	MeanHeading float32
}

// Live returns the active slice of the part buffer.
func (b *Body) Live() []BodyPart {
	return b.Parts[:b.Count]
}

// MouthCount returns the number of feeding organs, summed over sizes.
func (b *Body) MouthCount() int {
	n := 0
	for i := uint8(0); i < b.Count; i++ {
		if parts.IsMouth(b.Parts[i].Type) {
			n++
		}
	}
	return n
}

// CountType returns how many parts of type t the body carries.
func (b *Body) CountType(t parts.Type) int {
	n := 0
	for i := uint8(0); i < b.Count; i++ {
		if b.Parts[i].Type == t {
			n++
		}
	}
	return n
}

// HasType reports whether any part of type t is present.
func (b *Body) HasType(t parts.Type) bool {
	for i := uint8(0); i < b.Count; i++ {
		if b.Parts[i].Type == t {
			return true
		}
	}
	return false
}
