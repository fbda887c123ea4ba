package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/Manalokosdev/Ribossome-sub000/config"
)

// ChemField is the dual-channel chemical environment: alpha (nutrient)
// and beta (toxin). Both channels regrow toward a noise-derived capacity
// and diffuse on a toroidal grid. Mouth and emitter lanes read-modify-
// write cells without atomics; lost updates under contention are an
// accepted approximation for continuous quantities.
type ChemField struct {
	W, H int

	Alpha []float32
	Beta  []float32
	CapA  []float32
	CapB  []float32

	worldW, worldH float32

	regrow  float32
	diffuse float32

	tmp []float32
}

// NewChemField builds the field with capacities generated from simplex
// noise at the configured scales.
func NewChemField(worldW, worldH float32, cc *config.ChemicalConfig, seed int64) *ChemField {
	f := &ChemField{
		W: cc.GridW, H: cc.GridH,
		Alpha:  make([]float32, cc.GridW*cc.GridH),
		Beta:   make([]float32, cc.GridW*cc.GridH),
		CapA:   make([]float32, cc.GridW*cc.GridH),
		CapB:   make([]float32, cc.GridW*cc.GridH),
		tmp:    make([]float32, cc.GridW*cc.GridH),
		worldW: worldW, worldH: worldH,
		regrow:  float32(cc.RegrowRate),
		diffuse: float32(cc.Diffuse),
	}

	noiseA := opensimplex.NewNormalized(seed)
	noiseB := opensimplex.NewNormalized(seed + 1)
	for y := 0; y < f.H; y++ {
		v := float64(y) / float64(f.H)
		for x := 0; x < f.W; x++ {
			u := float64(x) / float64(f.W)
			i := y*f.W + x
			f.CapA[i] = float32(noiseA.Eval2(u*cc.AlphaScale, v*cc.AlphaScale))
			f.CapB[i] = float32(noiseB.Eval2(u*cc.BetaScale, v*cc.BetaScale)) * float32(cc.BetaLevel)
		}
	}
	copy(f.Alpha, f.CapA)
	copy(f.Beta, f.CapB)
	return f
}

func (f *ChemField) idx(x, y int) int {
	return modInt(y, f.H)*f.W + modInt(x, f.W)
}

// bilinearAt resolves world coordinates to grid cell corners and weights.
func (f *ChemField) bilinearAt(x, y float32) (x0, y0, x1, y1 int, tx, ty float32) {
	u := fract(x / f.worldW)
	v := fract(y / f.worldH)
	fx := u * float32(f.W)
	fy := v * float32(f.H)
	x0 = int(fx)
	y0 = int(fy)
	tx = fx - float32(x0)
	ty = fy - float32(y0)
	x0 = modInt(x0, f.W)
	y0 = modInt(y0, f.H)
	x1 = modInt(x0+1, f.W)
	y1 = modInt(y0+1, f.H)
	return
}

func (f *ChemField) sampleBilinear(grid []float32, x, y float32) float32 {
	x0, y0, x1, y1, tx, ty := f.bilinearAt(x, y)
	a := grid[y0*f.W+x0] + (grid[y0*f.W+x1]-grid[y0*f.W+x0])*tx
	b := grid[y1*f.W+x0] + (grid[y1*f.W+x1]-grid[y1*f.W+x0])*tx
	return a + (b-a)*ty
}

// Sample returns the bilinear alpha and beta levels at world coordinates.
func (f *ChemField) Sample(x, y float32) (alpha, beta float32) {
	return f.sampleBilinear(f.Alpha, x, y), f.sampleBilinear(f.Beta, x, y)
}

// Gradient returns central-difference gradients of both channels. The
// step is one grid cell in world units.
func (f *ChemField) Gradient(x, y float32) (ax, ay, bx, by float32) {
	hx := f.worldW / float32(f.W)
	hy := f.worldH / float32(f.H)
	ax = (f.sampleBilinear(f.Alpha, x+hx, y) - f.sampleBilinear(f.Alpha, x-hx, y)) / (2 * hx)
	ay = (f.sampleBilinear(f.Alpha, x, y+hy) - f.sampleBilinear(f.Alpha, x, y-hy)) / (2 * hy)
	bx = (f.sampleBilinear(f.Beta, x+hx, y) - f.sampleBilinear(f.Beta, x-hx, y)) / (2 * hx)
	by = (f.sampleBilinear(f.Beta, x, y+hy) - f.sampleBilinear(f.Beta, x, y-hy)) / (2 * hy)
	return
}

// take withdraws up to want from the four cells under (x, y), split by
// bilinear weight and bounded per cell by availability. Returns the
// amount actually removed.
func (f *ChemField) take(grid []float32, x, y, want float32) float32 {
	if want <= 0 {
		return 0
	}
	x0, y0, x1, y1, tx, ty := f.bilinearAt(x, y)
	cells := [4]int{y0*f.W + x0, y0*f.W + x1, y1*f.W + x0, y1*f.W + x1}
	weights := [4]float32{(1 - tx) * (1 - ty), tx * (1 - ty), (1 - tx) * ty, tx * ty}

	var removed float32
	for i, ci := range cells {
		share := want * weights[i]
		if avail := grid[ci]; share > avail {
			share = avail
		}
		if share > 0 {
			grid[ci] -= share
			removed += share
		}
	}
	return removed
}

// TakeAlpha withdraws nutrient at (x, y), bounded by availability.
func (f *ChemField) TakeAlpha(x, y, want float32) float32 {
	return f.take(f.Alpha, x, y, want)
}

// TakeBeta withdraws toxin at (x, y), bounded by availability.
func (f *ChemField) TakeBeta(x, y, want float32) float32 {
	return f.take(f.Beta, x, y, want)
}

// DepositAlpha adds nutrient to the cell under (x, y).
func (f *ChemField) DepositAlpha(x, y, amount float32) {
	if amount > 0 {
		f.Alpha[f.cellIndex(x, y)] += amount
	}
}

// DepositBeta adds toxin to the cell under (x, y).
func (f *ChemField) DepositBeta(x, y, amount float32) {
	if amount > 0 {
		f.Beta[f.cellIndex(x, y)] += amount
	}
}

func (f *ChemField) cellIndex(x, y float32) int {
	u := fract(x / f.worldW)
	v := fract(y / f.worldH)
	return f.idx(int(u*float32(f.W)), int(v*float32(f.H)))
}

// Totals sums both channels over the whole field.
func (f *ChemField) Totals() (alpha, beta float64) {
	for i := range f.Alpha {
		alpha += float64(f.Alpha[i])
		beta += float64(f.Beta[i])
	}
	return alpha, beta
}

// Step regrows both channels toward capacity and diffuses them.
func (f *ChemField) Step(dt float32) {
	if f.regrow > 0 {
		k := f.regrow * dt
		for i := range f.Alpha {
			f.Alpha[i] += (f.CapA[i] - f.Alpha[i]) * k
			f.Beta[i] += (f.CapB[i] - f.Beta[i]) * k
		}
	}
	if f.diffuse > 0 {
		f.diffuseGrid(f.Alpha, dt)
		f.diffuseGrid(f.Beta, dt)
	}
}

// diffuseGrid applies 5-point stencil diffusion on the toroidal grid.
func (f *ChemField) diffuseGrid(grid []float32, dt float32) {
	a := f.diffuse * dt
	if a > 0.25 {
		a = 0.25 // explicit-scheme stability
	}
	w, h := f.W, f.H
	for y := 0; y < h; y++ {
		yN := modInt(y-1, h)
		yS := modInt(y+1, h)
		for x := 0; x < w; x++ {
			xW := modInt(x-1, w)
			xE := modInt(x+1, w)
			i := y*w + x
			c := grid[i]
			f.tmp[i] = c + a*(grid[yN*w+x]+grid[yS*w+x]+grid[y*w+xE]+grid[y*w+xW]-4*c)
		}
	}
	copy(grid, f.tmp)
	for i := range grid {
		if grid[i] < 0 {
			grid[i] = 0
		}
	}
}

func fract(x float32) float32 {
	return x - float32(math.Floor(float64(x)))
}

func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
