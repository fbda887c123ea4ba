// Package systems implements the per-tick simulation passes: morphology,
// signals, physics, feeding, reproduction and the shared environment
// structures they read.
package systems

import "math"

// Fast math for hot-path kernel calculations. These avoid the
// float32->float64 conversions Go's math package requires.

// fastSin approximates sin(x) using a polynomial. Accurate to ~0.001 for all x.
func fastSin(x float32) float32 {
	x = NormalizeAngle(x)
	const pi = math.Pi
	const pi2 = pi * pi
	ax := x
	if ax < 0 {
		ax = -ax
	}
	y := 4 * x * (pi - ax) / pi2
	return 0.225*(y*absf(y)-y) + y
}

// fastCos approximates cos(x) using fastSin.
func fastCos(x float32) float32 {
	return fastSin(x + math.Pi/2)
}

// fastExp approximates exp(x) for x in [-4, 4].
func fastExp(x float32) float32 {
	if x > 4 {
		return 54.6
	}
	if x < -4 {
		return 0
	}
	x2 := x * x
	return (12 + 6*x + x2) / (12 - 6*x + x2)
}

// fastSqrt approximates sqrt(x) using fast inverse sqrt.
func fastSqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	i := math.Float32bits(x)
	i = 0x5f375a86 - (i >> 1)
	y := math.Float32frombits(i)
	y = y * (1.5 - 0.5*x*y*y)
	return x * y
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// NormalizeAngle wraps an angle into [-π, π].
func NormalizeAngle(a float32) float32 {
	const twoPi = 2 * math.Pi
	for a > math.Pi {
		a -= twoPi
	}
	for a < -math.Pi {
		a += twoPi
	}
	return a
}

// clampf clamps v into [lo, hi].
func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sanitize contains NaN and runaway magnitudes in values that persist
// across ticks. A corrupted lane resets the field instead of poisoning
// every later tick.
func sanitize(v, limit float32) float32 {
	if v != v || v > limit || v < -limit {
		return 0
	}
	return v
}

// signCompress maps v to sign(v)*sqrt(|v|), boosting small magnitudes.
func signCompress(v float32) float32 {
	if v < 0 {
		return -fastSqrt(-v)
	}
	return fastSqrt(v)
}

// laneRng is a tiny per-lane hash RNG. Lanes run in parallel with no
// shared state, so every stochastic decision derives from (agent id,
// tick) instead of a shared generator.
type laneRng uint32

func newLaneRng(id, tick uint32) laneRng {
	return laneRng(mix32(id*0x9e3779b9^mix32(tick)) | 1)
}

// next returns a float in [0, 1).
func (r *laneRng) next() float32 {
	x := uint32(*r)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	*r = laneRng(x)
	return float32(x>>8) * (1.0 / 16777216.0)
}

// ToroidalDelta returns the shortest wrapped delta from (x1,y1) to (x2,y2).
func ToroidalDelta(x1, y1, x2, y2, w, h float32) (dx, dy float32) {
	dx = x2 - x1
	dy = y2 - y1
	if dx > w/2 {
		dx -= w
	} else if dx < -w/2 {
		dx += w
	}
	if dy > h/2 {
		dy -= h
	} else if dy < -h/2 {
		dy += h
	}
	return dx, dy
}

// WrapPosition wraps world coordinates into [0, w) x [0, h).
func WrapPosition(x, y, w, h float32) (float32, float32) {
	for x < 0 {
		x += w
	}
	for x >= w {
		x -= w
	}
	for y < 0 {
		y += h
	}
	for y >= h {
		y -= h
	}
	return x, y
}
