package systems

import (
	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// Env bundles the environment and the previous-tick agent snapshot that
// the per-agent passes read. Snapshot slices are indexed by agent id and
// never written during a pass.
type Env struct {
	Chem    *ChemField
	Terrain *Terrain
	Flow    FlowSampler
	Force   *ForceField
	Grid    *Grid

	Positions  []components.Position
	Velocities []components.Velocity
	Rotations  []components.Rotation
	Energies   []components.Energy
	Genomes    []genome.Genome
	Masses     []float32

	WorldW, WorldH float32
	FlowCoupling   float32
}

// maxEnablers bounds the per-agent enabler/inhibitor position list.
const maxEnablers = 8

// UpdateSignals advances both signal channels of every part in the
// chain.
//
// The chain mix is anisotropic: each type weights its previous and next
// sibling separately, with a missing neighbor contributing zero. The
// previous sibling is read from the in-progress buffer and the next
// sibling from the last tick's value; the resulting one-part-per-tick
// forward bias is part of the network's observable behavior and is kept.
// Sensor organs add a square-root-compressed external measurement,
// clocks add a sinusoid of age or an internal accumulator. The result is
// decayed, exponentially smoothed against the previous value and clamped
// to [-1, 1].
func UpdateSignals(id uint32, body *components.Body, pos *components.Position, rot *components.Rotation, en *components.Energy, org *components.Organism, gen *genome.Genome, env *Env, sc *config.SignalsConfig, table *parts.Table, scratch []Neighbor) []Neighbor {
	n := int(body.Count)
	if n == 0 {
		return scratch
	}

	computeAmplification(body, float32(sc.EnablerRange))

	// Neighbor-dependent sensors share one query per agent.
	var neighbors []Neighbor
	if body.HasType(parts.SensorKin) || body.HasType(parts.SensorVitality) {
		scratch = scratch[:0]
		scratch = env.Grid.QueryInto(scratch, pos.X, pos.Y, id, env.Positions)
		neighbors = scratch
	}

	gain := float32(sc.SensorGain)
	smooth := float32(sc.Smoothing)

	for i := 0; i < n; i++ {
		p := &body.Parts[i]
		props := &table[p.Type]

		var prevA, prevB, nextA, nextB float32
		if i > 0 {
			prevA = body.Parts[i-1].Alpha
			prevB = body.Parts[i-1].Beta
		}
		if i < n-1 {
			nextA = body.Parts[i+1].Alpha
			nextB = body.Parts[i+1].Beta
		}
		alpha := props.AlphaLeftMult*prevA + props.AlphaRightMult*nextA
		beta := props.BetaLeftMult*prevB + props.BetaRightMult*nextB

		switch p.Type {
		case parts.SensorAlpha, parts.SensorBeta, parts.SensorSlope:
			wx, wy := PartWorld(body, i, pos, rot.Heading)
			segCos := fastCos(rot.Heading + p.SegAngle)
			segSin := fastSin(rot.Heading + p.SegAngle)
			var gx, gy float32
			switch p.Type {
			case parts.SensorAlpha:
				gx, gy, _, _ = env.Chem.Gradient(wx, wy)
			case parts.SensorBeta:
				_, _, gx, gy = env.Chem.Gradient(wx, wy)
			default:
				gx, gy = env.Terrain.Slope(wx, wy)
			}
			m := signCompress(gx*segCos+gy*segSin) * gain
			if p.Type == parts.SensorAlpha {
				alpha += m
			} else {
				beta += m
			}

		case parts.SensorEnergy:
			frac := float32(0)
			if en.Capacity > 0 {
				frac = en.Value / en.Capacity
			}
			alpha += signCompress(frac*2-1) * gain

		case parts.SensorKin:
			beta += signCompress(kinSimilarity(gen, neighbors, env)*2-1) * gain

		case parts.SensorVitality:
			alpha += signCompress(neighborVitality(neighbors, env)*2-1) * gain

		case parts.SensorPairing:
			frac := float32(0)
			if gen.Length > 0 {
				frac = float32(org.Pairing) / float32(gen.Length)
			}
			alpha += signCompress(frac*2-1) * gain

		case parts.ClockSine:
			phase := float32(p.Param) * (1.0 / 256.0) * 6.2832
			alpha += fastSin(en.Age*float32(sc.ClockFreq)+phase)

		case parts.ClockIntegrator:
			p.Accum = clampf(p.Accum+alpha*0.05, -1, 1)
			alpha += p.Accum
		}

		decay := 1 - props.SignalDecay
		alpha = p.Alpha*smooth + alpha*decay*(1-smooth)
		beta = p.Beta*smooth + beta*decay*(1-smooth)

		p.Alpha = clampf(sanitize(alpha, 4), -1, 1)
		p.Beta = clampf(sanitize(beta, 4), -1, 1)
	}

	return scratch
}

// computeAmplification fills every part's Amp from proximity to enabler
// parts, suppressed by inhibitors. Bodies without enablers run fully
// amplified. Enabler positions are collected once into a small fixed
// list so the pass stays linear in chain length.
func computeAmplification(body *components.Body, rangeR float32) {
	var ex, ey [maxEnablers]float32
	var sign [maxEnablers]float32
	count := 0
	enablers := 0
	for i := 0; i < int(body.Count) && count < maxEnablers; i++ {
		switch body.Parts[i].Type {
		case parts.Enabler:
			ex[count] = body.Parts[i].LocalX
			ey[count] = body.Parts[i].LocalY
			sign[count] = 1
			count++
			enablers++
		case parts.Inhibitor:
			ex[count] = body.Parts[i].LocalX
			ey[count] = body.Parts[i].LocalY
			sign[count] = -1
			count++
		}
	}

	if enablers == 0 && count == 0 {
		for i := 0; i < int(body.Count); i++ {
			body.Parts[i].Amp = 1
		}
		return
	}

	invR2 := 1 / (rangeR * rangeR)
	for i := 0; i < int(body.Count); i++ {
		p := &body.Parts[i]
		amp := float32(0)
		if enablers == 0 {
			amp = 1 // inhibitors only: suppress from full
		}
		for j := 0; j < count; j++ {
			dx := p.LocalX - ex[j]
			dy := p.LocalY - ey[j]
			amp += sign[j] * fastExp(-(dx*dx+dy*dy)*invR2)
		}
		p.Amp = clampf(amp, 0, 1)
	}
}

// kinSimilarity averages genome similarity against the sampled
// neighbors. No neighbors reads as zero.
func kinSimilarity(gen *genome.Genome, neighbors []Neighbor, env *Env) float32 {
	if len(neighbors) == 0 {
		return 0
	}
	var sum float32
	for i := range neighbors {
		sum += genome.Similarity(gen, &env.Genomes[neighbors[i].ID])
	}
	return sum / float32(len(neighbors))
}

// neighborVitality averages the energy fraction of sampled neighbors.
func neighborVitality(neighbors []Neighbor, env *Env) float32 {
	if len(neighbors) == 0 {
		return 0
	}
	var sum float32
	for i := range neighbors {
		e := &env.Energies[neighbors[i].ID]
		if e.Capacity > 0 {
			sum += e.Value / e.Capacity
		}
	}
	return sum / float32(len(neighbors))
}
