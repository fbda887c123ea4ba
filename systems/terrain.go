package systems

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/Manalokosdev/Ribossome-sub000/config"
)

// Terrain is a read-only heightfield with a precomputed gradient.
// Agents never modify it; slope forces and slope sensors read it.
type Terrain struct {
	W, H int

	Height []float32
	GradX  []float32
	GradY  []float32

	worldW, worldH float32
}

// NewTerrain generates the heightfield from simplex noise and bakes the
// central-difference gradient.
func NewTerrain(worldW, worldH float32, tc *config.TerrainConfig, seed int64) *Terrain {
	t := &Terrain{
		W: tc.GridW, H: tc.GridH,
		Height: make([]float32, tc.GridW*tc.GridH),
		GradX:  make([]float32, tc.GridW*tc.GridH),
		GradY:  make([]float32, tc.GridW*tc.GridH),
		worldW: worldW, worldH: worldH,
	}

	noise := opensimplex.NewNormalized(seed)
	for y := 0; y < t.H; y++ {
		v := float64(y) / float64(t.H)
		for x := 0; x < t.W; x++ {
			u := float64(x) / float64(t.W)
			t.Height[y*t.W+x] = float32(noise.Eval2(u*tc.Scale, v*tc.Scale)) * float32(tc.Amplitude)
		}
	}

	hx := worldW / float32(t.W)
	hy := worldH / float32(t.H)
	for y := 0; y < t.H; y++ {
		yN := modInt(y-1, t.H)
		yS := modInt(y+1, t.H)
		for x := 0; x < t.W; x++ {
			xW := modInt(x-1, t.W)
			xE := modInt(x+1, t.W)
			i := y*t.W + x
			t.GradX[i] = (t.Height[y*t.W+xE] - t.Height[y*t.W+xW]) / (2 * hx)
			t.GradY[i] = (t.Height[yS*t.W+x] - t.Height[yN*t.W+x]) / (2 * hy)
		}
	}
	return t
}

func (t *Terrain) sampleBilinear(grid []float32, x, y float32) float32 {
	u := fract(x / t.worldW)
	v := fract(y / t.worldH)
	fx := u * float32(t.W)
	fy := v * float32(t.H)
	x0 := int(fx)
	y0 := int(fy)
	tx := fx - float32(x0)
	ty := fy - float32(y0)
	x0 = modInt(x0, t.W)
	y0 = modInt(y0, t.H)
	x1 := modInt(x0+1, t.W)
	y1 := modInt(y0+1, t.H)
	a := grid[y0*t.W+x0] + (grid[y0*t.W+x1]-grid[y0*t.W+x0])*tx
	b := grid[y1*t.W+x0] + (grid[y1*t.W+x1]-grid[y1*t.W+x0])*tx
	return a + (b-a)*ty
}

// HeightAt returns the interpolated height at world coordinates.
func (t *Terrain) HeightAt(x, y float32) float32 {
	return t.sampleBilinear(t.Height, x, y)
}

// Slope returns the interpolated height gradient at world coordinates.
func (t *Terrain) Slope(x, y float32) (gx, gy float32) {
	return t.sampleBilinear(t.GradX, x, y), t.sampleBilinear(t.GradY, x, y)
}
