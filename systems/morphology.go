package systems

import (
	"math"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// BuildFromGenome decodes the genome into the part chain. Returns false
// when the genome yields zero parts, which marks the agent non-viable.
// Signals and organ state start at zero; BuildBody derives geometry.
func BuildFromGenome(g *genome.Genome, body *components.Body) bool {
	var decoded [genome.MaxParts]genome.Part
	n := g.DecodeInto(decoded[:])
	if n == 0 {
		return false
	}
	*body = components.Body{Count: uint8(n)}
	for i := 0; i < n; i++ {
		body.Parts[i].Type = decoded[i].Type
		body.Parts[i].Param = decoded[i].Param
	}
	return true
}

// BuildBody rebuilds the kinematic chain from the previous tick's
// signals and recomputes the body aggregates.
//
// Each joint bends by the part's base angle (sign-flipped by the running
// chirality) plus a clamped signal-driven term; segment direction
// accumulates along the chain. The finished chain is recentered on its
// mass-weighted center and rotated by the negative mass-weighted mean
// heading, which is folded into the agent's global rotation instead.
// The stored local frame is therefore gauge-invariant: rotating the
// whole agent changes only Rotation.Heading, never the local positions.
func BuildBody(body *components.Body, rot *components.Rotation, table *parts.Table, mc *config.MorphologyConfig) {
	n := int(body.Count)
	if n == 0 {
		return
	}

	gain := float32(mc.SignalGain)
	maxBend := float32(mc.MaxBend)

	var x, y, heading float32
	chir := float32(1)
	for i := 0; i < n; i++ {
		p := &body.Parts[i]
		if p.Type == parts.ChiralFlip {
			chir = -chir
		}
		props := &table[p.Type]

		bend := props.BaseAngle * chir
		bend += clampf(gain*(p.Alpha*props.AlphaSensitivity+p.Beta*props.BetaSensitivity), -maxBend, maxBend)
		heading += bend

		p.LocalX = x
		p.LocalY = y
		p.SegAngle = heading

		x += fastCos(heading) * props.SegmentLength
		y += fastSin(heading) * props.SegmentLength
	}

	if n == 1 {
		p := &body.Parts[0]
		p.LocalX, p.LocalY, p.SegAngle = 0, 0, 0
		props := &table[p.Type]
		body.Mass = maxf(props.Mass(), float32(mc.MassFloor))
		body.Capacity = props.EnergyStorage
		body.Inertia = body.Mass
		body.Span = props.SegmentLength
		body.OriginX, body.OriginY = 0, 0
		return
	}

	// Mass-weighted center and circular-mean heading.
	var mass, comX, comY, sinSum, cosSum, capacity float32
	for i := 0; i < n; i++ {
		p := &body.Parts[i]
		props := &table[p.Type]
		m := props.Mass()
		mass += m
		comX += m * p.LocalX
		comY += m * p.LocalY
		sinSum += m * fastSin(p.SegAngle)
		cosSum += m * fastCos(p.SegAngle)
		capacity += props.EnergyStorage
	}
	if mass < float32(mc.MassFloor) {
		mass = float32(mc.MassFloor)
	}
	comX /= mass
	comY /= mass
	meanHeading := float32(math.Atan2(float64(sinSum), float64(cosSum)))

	cosR := fastCos(-meanHeading)
	sinR := fastSin(-meanHeading)
	var inertia, span float32
	for i := 0; i < n; i++ {
		p := &body.Parts[i]
		dx := p.LocalX - comX
		dy := p.LocalY - comY
		p.LocalX = dx*cosR - dy*sinR
		p.LocalY = dx*sinR + dy*cosR
		p.SegAngle = NormalizeAngle(p.SegAngle - meanHeading)

		m := table[p.Type].Mass()
		rSq := p.LocalX*p.LocalX + p.LocalY*p.LocalY
		inertia += m * rSq
		if rSq > span*span {
			span = fastSqrt(rSq)
		}
	}

	// Fold only the change in mean heading into the global rotation:
	// an unchanged bend pattern leaves the world orientation untouched,
	// while a re-bend rotates the agent instead of its local frame.
	rot.Heading = NormalizeAngle(rot.Heading + NormalizeAngle(meanHeading-body.MeanHeading))
	body.MeanHeading = meanHeading

	body.Mass = mass
	body.Capacity = capacity
	body.Inertia = maxf(inertia, 0.01)
	body.Span = span
	body.OriginX = body.Parts[0].LocalX
	body.OriginY = body.Parts[0].LocalY
}

// PartWorld returns the world position of part i given the agent's
// position and heading.
func PartWorld(body *components.Body, i int, pos *components.Position, heading float32) (float32, float32) {
	c := fastCos(heading)
	s := fastSin(heading)
	p := &body.Parts[i]
	return pos.X + p.LocalX*c - p.LocalY*s, pos.Y + p.LocalX*s + p.LocalY*c
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
