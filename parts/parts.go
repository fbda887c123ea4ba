// Package parts defines body-part type codes and their physical properties.
//
// Types 0-19 are the plain structural parts produced by single-codon
// translation. Types 20-44 are organs produced by promoter+modifier codon
// fusion; an organ inherits the physical row of its promoter and adds a
// behavioral role.
package parts

// Type is a body-part type code in [0, 44].
type Type uint8

// Structural part types (codon translation order).
const (
	Ala Type = iota // A
	Cys             // C
	Asp             // D
	Glu             // E
	Phe             // F
	Gly             // G
	His             // H
	Ile             // I
	Lys             // K
	Leu             // L
	Met             // M (start)
	Asn             // N
	Pro             // P
	Gln             // Q
	Arg             // R
	Ser             // S
	Thr             // T
	Val             // V
	Trp             // W
	Tyr             // Y
)

// Organ part types.
const (
	SensorAlpha    Type = 20 + iota // chemical alpha gradient
	SensorBeta                      // chemical beta gradient
	SensorEnergy                    // own energy level
	SensorKin                       // neighbor genome similarity
	SensorVitality                  // neighbor energy
	SensorSlope                     // terrain gradient
	SensorPairing                   // own pairing fraction
	ClockSine                       // sinusoid of age
	ClockIntegrator                 // accumulates its own sensed value
	Enabler                         // proximity amplification
	Inhibitor                       // proximity suppression
	Anchor                          // latching freeze organ
	Attractor                       // flips neighbor force sign inward
	Repulsor                        // strengthens neighbor repulsion
	Propeller                       // self-thrust
	MouthSmall                      // 1x feeding
	MouthMedium                     // 2x feeding
	MouthLarge                      // 3x feeding
	EmitterAlpha                    // deposits into the alpha channel
	EmitterBeta                     // deposits into the beta channel
	PoisonResist                    // scales beta damage (and alpha gain)
	Storage                         // extra energy capacity
	Ballast                         // extra mass
	ChiralFlip                      // flips running bend chirality
	Gyro                            // extra rotational drag
)

// Count is the number of distinct part types.
const Count = 45

// StructuralCount is the number of plain (non-organ) part types.
const StructuralCount = 20

// IsOrgan reports whether t is an organ type.
func IsOrgan(t Type) bool { return t >= StructuralCount && t < Count }

// IsMouth reports whether t is a feeding organ.
func IsMouth(t Type) bool { return t >= MouthSmall && t <= MouthLarge }

// MouthScale returns the feeding/cost multiplier for a mouth type
// (1, 2 or 3), or 0 for non-mouths.
func MouthScale(t Type) float32 {
	switch t {
	case MouthSmall:
		return 1
	case MouthMedium:
		return 2
	case MouthLarge:
		return 3
	}
	return 0
}

// IsSensor reports whether t is a sensor organ.
func IsSensor(t Type) bool { return t >= SensorAlpha && t <= SensorPairing }

var typeNames = [Count]string{
	"Ala", "Cys", "Asp", "Glu", "Phe", "Gly", "His", "Ile", "Lys", "Leu",
	"Met", "Asn", "Pro", "Gln", "Arg", "Ser", "Thr", "Val", "Trp", "Tyr",
	"SensorAlpha", "SensorBeta", "SensorEnergy", "SensorKin", "SensorVitality",
	"SensorSlope", "SensorPairing", "ClockSine", "ClockIntegrator", "Enabler",
	"Inhibitor", "Anchor", "Attractor", "Repulsor", "Propeller",
	"MouthSmall", "MouthMedium", "MouthLarge", "EmitterAlpha", "EmitterBeta",
	"PoisonResist", "Storage", "Ballast", "ChiralFlip", "Gyro",
}

// String returns the part-type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Invalid"
}
