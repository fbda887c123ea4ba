package parts

import "github.com/Manalokosdev/Ribossome-sub000/config"

// Properties holds the physical and behavioral constants of one part type.
// All values are per-part; costs and rates are per tick unless noted.
type Properties struct {
	SegmentLength float32 // Chain advance per part
	Thickness     float32 // Drives part mass
	BaseAngle     float32 // Resting bend (radians)

	// Signal coupling
	AlphaSensitivity float32 // Bend response to the alpha channel
	BetaSensitivity  float32 // Bend response to the beta channel
	SignalDecay      float32 // Per-tick decay of the part's signals
	AlphaLeftMult    float32 // Chain-mix weight from the previous part
	AlphaRightMult   float32 // Chain-mix weight from the next part
	BetaLeftMult     float32
	BetaRightMult    float32

	// Feeding and economy
	AbsorptionRate float32 // Alpha-channel intake bound (mouths)
	BetaAbsorption float32 // Beta-channel intake bound
	BetaDamage     float32 // Damage per unit beta absorbed
	EnergyStorage  float32 // Capacity contribution
	Consumption    float32 // Organ-specific upkeep

	// Physics
	ThrustForce float32 // Propeller thrust magnitude
}

// Mass returns the part's mass contribution.
func (p *Properties) Mass() float32 {
	return p.SegmentLength * p.Thickness * 0.1
}

// Table maps every part type to its properties. Built once at load time
// and never mutated during simulation.
type Table [Count]Properties

// row is a compact literal for the structural defaults.
// Fields: segLen, thick, baseAngle, aSens, bSens, decay, aL, aR, bL, bR.
type row struct {
	segLen, thick, angle, aSens, bSens, decay, aL, aR, bL, bR float32
}

// structuralDefaults carries the twenty structural rows. Values mirror the
// reference amino-acid table this engine's genome alphabet is modeled on.
var structuralDefaults = [StructuralCount]row{
	Ala: {6.5, 2.5, 0.0, -0.5, 0.5, 0.2, 0.8, 0.2, 0.7, 0.3},
	Cys: {6.0, 2.5, 0.0, 0.9, -0.7, 0.1, 0.5, 0.5, 0.5, 0.5},
	Asp: {7.0, 3.0, 0.0, -0.4, 0.4, 0.2, -0.2, 1.2, -0.3, 1.3},
	Glu: {8.5, 3.0, 0.0, 0.5, -0.5, 0.2, 1.4, -0.4, 1.3, -0.3},
	Phe: {11.0, 8.0, 0.0, -0.2, 0.2, 0.2, 0.6, 0.4, 0.55, 0.45},
	Gly: {4.0, 0.75, 0.0, 0.9, 0.9, 0.3, 0.5, 0.5, 0.5, 0.5},
	His: {9.0, 6.0, -1.0, 0.3, -0.3, 0.2, 1.2, -0.2, -0.3, 1.3},
	Ile: {9.0, 5.5, 0.65, -0.3, 0.3, 0.2, 0.65, 0.35, 0.7, 0.3},
	Lys: {10.0, 3.5, -0.5, 0.6, -0.6, 0.2, 1.4, -0.4, 1.3, -0.3},
	Leu: {8.5, 5.0, 1.2, -0.3, 0.3, 0.2, -0.3, 1.3, -0.2, 1.2},
	Met: {8.5, 4.0, -0.85, 0.4, -0.4, 0.2, 0.8, 0.2, -0.1, 1.1},
	Asn: {7.0, 3.0, 0.3, 0.5, -0.5, 0.2, 0.7, 0.3, 0.65, 0.35},
	Pro: {6.0, 4.0, -1.5, -1.0, 1.0, 0.2, 1.5, -0.5, 1.4, -0.4},
	Gln: {8.5, 3.0, 1.0, 0.4, -0.4, 0.2, 1.0, 0.0, 0.75, 0.25},
	Arg: {11.5, 3.5, -0.6, 0.5, -0.5, 0.2, -0.4, 1.4, -0.3, 1.3},
	Ser: {5.5, 2.5, 0.15, -0.2, 0.3, 0.1, 0.5, 0.5, 0.5, 0.5},
	Thr: {6.5, 3.5, -0.8, 0.5, -0.5, 0.2, 0.9, 0.1, 1.0, 0.0},
	Val: {7.5, 5.0, 1.4, -0.3, 0.3, 0.2, -0.3, 1.3, 1.2, -0.2},
	Trp: {16.0, 12.0, -0.35, 0.1, -0.1, 0.15, 0.55, 0.45, 0.6, 0.4},
	Tyr: {11.5, 4.0, 0.9, -0.2, 0.2, 0.2, -0.5, 1.5, -0.4, 1.4},
}

// organBase names the structural row each organ inherits its physical
// shape from (its promoter).
var organBase = map[Type]Type{
	SensorAlpha:     Ser,
	SensorBeta:      Cys,
	SensorEnergy:    Ser,
	SensorKin:       Cys,
	SensorVitality:  Ser,
	SensorSlope:     Cys,
	SensorPairing:   Met,
	ClockSine:       Gly,
	ClockIntegrator: Gly,
	Enabler:         His,
	Inhibitor:       His,
	Anchor:          Pro,
	Attractor:       His,
	Repulsor:        His,
	Propeller:       Pro,
	MouthSmall:      Lys,
	MouthMedium:     Lys,
	MouthLarge:      Lys,
	EmitterAlpha:    Cys,
	EmitterBeta:     Cys,
	PoisonResist:    Trp,
	Storage:         Trp,
	Ballast:         Trp,
	ChiralFlip:      Met,
	Gyro:            Gly,
}

// DefaultTable builds the compiled-in property table.
func DefaultTable() *Table {
	var t Table

	for i := 0; i < StructuralCount; i++ {
		r := structuralDefaults[i]
		t[i] = Properties{
			SegmentLength:    r.segLen,
			Thickness:        r.thick,
			BaseAngle:        r.angle,
			AlphaSensitivity: r.aSens,
			BetaSensitivity:  r.bSens,
			SignalDecay:      r.decay,
			AlphaLeftMult:    r.aL,
			AlphaRightMult:   r.aR,
			BetaLeftMult:     r.bL,
			BetaRightMult:    r.bR,
			BetaAbsorption:   0.3,
			BetaDamage:       0.5,
			EnergyStorage:    1.0,
			Consumption:      0.001,
		}
	}

	for organ, base := range organBase {
		p := t[base]
		p.Consumption = 0.002
		switch organ {
		case Propeller:
			p.ThrustForce = 5.0
			p.Consumption = 0.004
		case MouthSmall, MouthMedium, MouthLarge:
			p.AbsorptionRate = 0.2
			p.BetaAbsorption = 0.2
			p.BetaDamage = 1.0
			p.EnergyStorage = 10.0
		case Storage:
			p.EnergyStorage = 10.0
			p.Consumption = 0.001
		case Ballast:
			p.Thickness *= 2.0
			p.Consumption = 0.001
		case EmitterAlpha, EmitterBeta:
			p.Consumption = 0.003
		case Anchor:
			p.Consumption = 0.003
		}
		t[organ] = p
	}

	return &t
}

// NewTable builds the property table from the compiled defaults merged
// with the given overrides. Out-of-range type codes are ignored.
func NewTable(overrides []config.PartOverride) *Table {
	t := DefaultTable()
	for _, ov := range overrides {
		if ov.Type < 0 || ov.Type >= Count {
			continue
		}
		p := &t[ov.Type]
		if ov.SegmentLength != nil {
			p.SegmentLength = float32(*ov.SegmentLength)
		}
		if ov.Thickness != nil {
			p.Thickness = float32(*ov.Thickness)
		}
		if ov.BaseAngle != nil {
			p.BaseAngle = float32(*ov.BaseAngle)
		}
		if ov.AlphaSensitivity != nil {
			p.AlphaSensitivity = float32(*ov.AlphaSensitivity)
		}
		if ov.BetaSensitivity != nil {
			p.BetaSensitivity = float32(*ov.BetaSensitivity)
		}
		if ov.SignalDecay != nil {
			p.SignalDecay = float32(*ov.SignalDecay)
		}
		if ov.AbsorptionRate != nil {
			p.AbsorptionRate = float32(*ov.AbsorptionRate)
		}
		if ov.EnergyStorage != nil {
			p.EnergyStorage = float32(*ov.EnergyStorage)
		}
		if ov.Consumption != nil {
			p.Consumption = float32(*ov.Consumption)
		}
		if ov.ThrustForce != nil {
			p.ThrustForce = float32(*ov.ThrustForce)
		}
	}
	return t
}
