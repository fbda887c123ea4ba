package systems

import "github.com/Manalokosdev/Ribossome-sub000/config"

// FlowSampler provides an external fluid velocity field. The core only
// samples it; the solver producing it lives outside the engine.
type FlowSampler interface {
	// Velocity returns the fluid velocity at world coordinates.
	Velocity(x, y float32) (vx, vy float32)
}

// ForceField accumulates the reaction forces agents exert on the fluid,
// for an external solver to consume. Writes are non-atomic; lost updates
// under contention are accepted.
type ForceField struct {
	W, H int

	FX []float32
	FY []float32

	worldW, worldH float32
}

// NewForceField builds a force accumulation buffer on the same grid
// resolution as the chemical field.
func NewForceField(worldW, worldH float32, gridW, gridH int) *ForceField {
	return &ForceField{
		W: gridW, H: gridH,
		FX:     make([]float32, gridW*gridH),
		FY:     make([]float32, gridW*gridH),
		worldW: worldW, worldH: worldH,
	}
}

// Accumulate adds a force into the cell under (x, y).
func (f *ForceField) Accumulate(x, y, fx, fy float32) {
	u := fract(x / f.worldW)
	v := fract(y / f.worldH)
	i := modInt(int(v*float32(f.H)), f.H)*f.W + modInt(int(u*float32(f.W)), f.W)
	f.FX[i] += fx
	f.FY[i] += fy
}

// Clear zeroes the buffer. The external solver calls this after draining.
func (f *ForceField) Clear() {
	for i := range f.FX {
		f.FX[i] = 0
		f.FY[i] = 0
	}
}

// SwirlFlow is a built-in analytic flow field: a single rotational swirl
// around the world center. It stands in when no external solver is
// attached.
type SwirlFlow struct {
	cx, cy   float32
	strength float32
	worldW   float32
	worldH   float32
}

// NewSwirlFlow builds the analytic swirl field.
func NewSwirlFlow(worldW, worldH float32, fc *config.FlowConfig) *SwirlFlow {
	return &SwirlFlow{
		cx: worldW / 2, cy: worldH / 2,
		strength: float32(fc.Swirl),
		worldW:   worldW, worldH: worldH,
	}
}

// Velocity returns a tangential velocity around the world center with a
// smooth falloff toward the rim.
func (s *SwirlFlow) Velocity(x, y float32) (vx, vy float32) {
	dx, dy := ToroidalDelta(s.cx, s.cy, x, y, s.worldW, s.worldH)
	distSq := dx*dx + dy*dy
	falloff := s.worldW * s.worldW / 16
	scale := s.strength * falloff / (distSq + falloff)
	return -dy / (fastSqrt(distSq) + 1) * scale, dx / (fastSqrt(distSq) + 1) * scale
}
