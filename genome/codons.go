package genome

import "github.com/Manalokosdev/Ribossome-sub000/parts"

// stop marks a terminator codon in the translation table.
const stop = -1

// codonValue packs three bases into a table index in [0, 63].
func codonValue(b0, b1, b2 Base) int {
	return int(b0)<<4 | int(b1)<<2 | int(b2)
}

// codonTable maps a codon value to a structural part type, or stop.
// Index order is first base major, bases ordered A, U, G, C.
var codonTable = [64]int8{
	// A--
	int8(parts.Lys), int8(parts.Asn), int8(parts.Lys), int8(parts.Asn), // AA-
	int8(parts.Ile), int8(parts.Ile), int8(parts.Met), int8(parts.Ile), // AU-
	int8(parts.Arg), int8(parts.Ser), int8(parts.Arg), int8(parts.Ser), // AG-
	int8(parts.Thr), int8(parts.Thr), int8(parts.Thr), int8(parts.Thr), // AC-
	// U--
	stop, int8(parts.Tyr), stop, int8(parts.Tyr), // UA-
	int8(parts.Leu), int8(parts.Phe), int8(parts.Leu), int8(parts.Phe), // UU-
	stop, int8(parts.Cys), int8(parts.Trp), int8(parts.Cys), // UG-
	int8(parts.Ser), int8(parts.Ser), int8(parts.Ser), int8(parts.Ser), // UC-
	// G--
	int8(parts.Glu), int8(parts.Asp), int8(parts.Glu), int8(parts.Asp), // GA-
	int8(parts.Val), int8(parts.Val), int8(parts.Val), int8(parts.Val), // GU-
	int8(parts.Gly), int8(parts.Gly), int8(parts.Gly), int8(parts.Gly), // GG-
	int8(parts.Ala), int8(parts.Ala), int8(parts.Ala), int8(parts.Ala), // GC-
	// C--
	int8(parts.Gln), int8(parts.His), int8(parts.Gln), int8(parts.His), // CA-
	int8(parts.Leu), int8(parts.Leu), int8(parts.Leu), int8(parts.Leu), // CU-
	int8(parts.Arg), int8(parts.Arg), int8(parts.Arg), int8(parts.Arg), // CG-
	int8(parts.Pro), int8(parts.Pro), int8(parts.Pro), int8(parts.Pro), // CC-
}

// startCodon is AUG, which also translates to Met.
const startCodon = int(A)<<4 | int(U)<<2 | int(G)

// Fusion-table row per promoter type.
const (
	promCys = iota
	promGly
	promHis
	promLys
	promMet
	promPro
	promSer
	promTrp
	promoterCount
)

// promoterIndex maps the eight promoter types to fusion-table rows.
// Non-promoters map to -1.
var promoterIndex = func() [parts.StructuralCount]int8 {
	var idx [parts.StructuralCount]int8
	for i := range idx {
		idx[i] = -1
	}
	idx[parts.Cys] = promCys
	idx[parts.Gly] = promGly
	idx[parts.His] = promHis
	idx[parts.Lys] = promLys
	idx[parts.Met] = promMet
	idx[parts.Pro] = promPro
	idx[parts.Ser] = promSer
	idx[parts.Trp] = promTrp
	return idx
}()

// fusionTable maps (promoter row, modifier type) to an organ type.
// Zero entries mean no fusion: the promoter translates structurally and
// the modifier codon is read on its own.
var fusionTable = [promoterCount][parts.StructuralCount]parts.Type{
	// Cys: beta-side sensors and emitters.
	promCys: {
		parts.Ala: parts.SensorBeta,
		parts.Gly: parts.SensorBeta,
		parts.Val: parts.SensorKin,
		parts.Leu: parts.SensorKin,
		parts.Thr: parts.SensorSlope,
		parts.Ser: parts.SensorSlope,
		parts.Glu: parts.EmitterAlpha,
		parts.Asp: parts.EmitterAlpha,
		parts.Lys: parts.EmitterBeta,
		parts.Arg: parts.EmitterBeta,
	},
	// Gly: oscillators and rotational organs.
	promGly: {
		parts.Ala: parts.ClockSine,
		parts.Ser: parts.ClockSine,
		parts.Thr: parts.ClockSine,
		parts.Ile: parts.ClockIntegrator,
		parts.Leu: parts.ClockIntegrator,
		parts.Val: parts.ClockIntegrator,
		parts.Arg: parts.Gyro,
		parts.Lys: parts.Gyro,
	},
	// His: field organs acting on neighbors.
	promHis: {
		parts.Ala: parts.Enabler,
		parts.Gly: parts.Enabler,
		parts.Ser: parts.Enabler,
		parts.Pro: parts.Inhibitor,
		parts.Leu: parts.Inhibitor,
		parts.Lys: parts.Attractor,
		parts.Arg: parts.Attractor,
		parts.Glu: parts.Repulsor,
		parts.Asp: parts.Repulsor,
	},
	// Lys: mouths, sized by modifier bulk.
	promLys: {
		parts.Ala: parts.MouthSmall,
		parts.Gly: parts.MouthSmall,
		parts.Ser: parts.MouthSmall,
		parts.Cys: parts.MouthSmall,
		parts.Leu: parts.MouthMedium,
		parts.Ile: parts.MouthMedium,
		parts.Val: parts.MouthMedium,
		parts.Met: parts.MouthMedium,
		parts.Trp: parts.MouthLarge,
		parts.Phe: parts.MouthLarge,
		parts.Tyr: parts.MouthLarge,
	},
	// Met: chirality and pairing.
	promMet: {
		parts.Pro: parts.ChiralFlip,
		parts.Gly: parts.ChiralFlip,
		parts.Ser: parts.SensorPairing,
		parts.Thr: parts.SensorPairing,
	},
	// Pro: locomotion and latching.
	promPro: {
		parts.Ala: parts.Propeller,
		parts.Gly: parts.Propeller,
		parts.Val: parts.Propeller,
		parts.Leu: parts.Propeller,
		parts.Trp: parts.Anchor,
		parts.Phe: parts.Anchor,
		parts.Lys: parts.Anchor,
	},
	// Ser: alpha-side and internal sensors.
	promSer: {
		parts.Ala: parts.SensorAlpha,
		parts.Gly: parts.SensorAlpha,
		parts.Thr: parts.SensorAlpha,
		parts.Glu: parts.SensorEnergy,
		parts.Asp: parts.SensorEnergy,
		parts.Lys: parts.SensorVitality,
		parts.Arg: parts.SensorVitality,
	},
	// Trp: bulk and defense.
	promTrp: {
		parts.Ala: parts.Storage,
		parts.Gly: parts.Storage,
		parts.Ser: parts.Storage,
		parts.Phe: parts.Ballast,
		parts.Tyr: parts.Ballast,
		parts.Cys: parts.PoisonResist,
		parts.His: parts.PoisonResist,
		parts.Arg: parts.PoisonResist,
	},
}
