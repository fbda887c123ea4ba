package systems

import (
	"sync/atomic"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
)

// Neighbor holds a nearby agent with precomputed spatial data.
// This avoids recomputing toroidal delta and distance in sensors.
type Neighbor struct {
	ID     uint32
	DX, DY float32 // Toroidal delta from query origin
	DistSq float32 // Squared distance (avoid sqrt in hot path)
}

// Grid is a lock-free epoch-stamped spatial hash. Each cell is one
// atomic word packing (epoch stamp << 32 | agent id + 1); a cell is live
// only while its stamp equals the current epoch, so advancing the epoch
// invalidates the whole grid without touching any cell. Publishing stamp
// and id in a single compare-and-swap means a reader can never observe a
// current stamp paired with a stale id.
type Grid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32

	claimRings  int
	queryRadius int
	queryCap    int

	epoch atomic.Uint32
	cells []atomic.Uint64
}

// NewGrid creates a grid covering the given world size.
func NewGrid(width, height float32, gc *config.GridConfig) *Grid {
	cols := int(width/float32(gc.CellSize)) + 1
	rows := int(height/float32(gc.CellSize)) + 1
	return &Grid{
		cellSize:    float32(gc.CellSize),
		cols:        cols,
		rows:        rows,
		width:       width,
		height:      height,
		claimRings:  gc.ClaimRings,
		queryRadius: gc.QueryRadius,
		queryCap:    gc.QueryCap,
		cells:       make([]atomic.Uint64, cols*rows),
	}
}

// Advance starts a new epoch, logically clearing the grid. Call once per
// tick before inserts. Never call concurrently with claims or queries.
func (g *Grid) Advance() {
	g.epoch.Add(1)
}

// Epoch returns the current epoch stamp.
func (g *Grid) Epoch() uint32 {
	return g.epoch.Load()
}

// Cells returns the cell count.
func (g *Grid) Cells() int {
	return len(g.cells)
}

func pack(epoch, id uint32) uint64 {
	return uint64(epoch)<<32 | uint64(id+1)
}

// cellAt maps world coordinates to a wrapped (col, row).
func (g *Grid) cellAt(x, y float32) (int, int) {
	col := int(x/g.cellSize) % g.cols
	row := int(y/g.cellSize) % g.rows
	if col < 0 {
		col += g.cols
	}
	if row < 0 {
		row += g.rows
	}
	return col, row
}

// TryClaim attempts to claim cell idx for id in the current epoch.
// It fails if another agent already holds the cell this epoch.
func (g *Grid) TryClaim(idx int, id uint32) bool {
	epoch := g.epoch.Load()
	old := g.cells[idx].Load()
	if uint32(old>>32) == epoch {
		return false
	}
	return g.cells[idx].CompareAndSwap(old, pack(epoch, id))
}

// ReadIfCurrent returns the id stored in cell idx if its stamp is
// current.
func (g *Grid) ReadIfCurrent(idx int) (uint32, bool) {
	w := g.cells[idx].Load()
	if uint32(w>>32) != g.epoch.Load() || w&0xffffffff == 0 {
		return 0, false
	}
	return uint32(w&0xffffffff) - 1, true
}

// Insert claims a cell for the agent near (x, y): the primary cell
// first, then expanding square rings up to the configured radius. A
// false return means every candidate was contested and the agent is
// omitted from neighbor discovery this tick.
func (g *Grid) Insert(id uint32, x, y float32) bool {
	col, row := g.cellAt(x, y)
	if g.TryClaim(row*g.cols+col, id) {
		return true
	}
	for r := 1; r <= g.claimRings; r++ {
		for dc := -r; dc <= r; dc++ {
			for dr := -r; dr <= r; dr++ {
				if dc > -r && dc < r && dr > -r && dr < r {
					continue // interior already tried
				}
				c := (col + dc + g.cols) % g.cols
				rr := (row + dr + g.rows) % g.rows
				if g.TryClaim(rr*g.cols+c, id) {
					return true
				}
			}
		}
	}
	return false
}

// QueryInto scans the neighborhood of (x, y) and appends up to the
// configured cap of current-epoch neighbors to dst, excluding excludeID.
// positions is indexed by agent id. When more candidates exist than the
// cap, reservoir sampling keyed by the center-cell hash and epoch keeps
// the retained set an unbiased subset rather than a directional
// truncation. Returns the updated slice.
func (g *Grid) QueryInto(dst []Neighbor, x, y float32, excludeID uint32, positions []components.Position) []Neighbor {
	col, row := g.cellAt(x, y)
	epoch := g.epoch.Load()
	base := len(dst)
	seen := 0
	rng := mix32(uint32(row*g.cols+col)) ^ mix32(epoch)

	for dc := -g.queryRadius; dc <= g.queryRadius; dc++ {
		for dr := -g.queryRadius; dr <= g.queryRadius; dr++ {
			c := (col + dc + g.cols) % g.cols
			rr := (row + dr + g.rows) % g.rows
			w := g.cells[rr*g.cols+c].Load()
			if uint32(w>>32) != epoch || w&0xffffffff == 0 {
				continue
			}
			id := uint32(w&0xffffffff) - 1
			if id == excludeID || int(id) >= len(positions) {
				continue
			}
			p := positions[id]
			dx, dy := ToroidalDelta(x, y, p.X, p.Y, g.width, g.height)
			n := Neighbor{ID: id, DX: dx, DY: dy, DistSq: dx*dx + dy*dy}

			seen++
			if len(dst)-base < g.queryCap {
				dst = append(dst, n)
				continue
			}
			// Reservoir replacement with probability cap/seen.
			rng = mix32(rng)
			if j := int(rng % uint32(seen)); j < g.queryCap {
				dst[base+j] = n
			}
		}
	}
	return dst
}

// mix32 is a 32-bit finalizer-style hash mixer.
func mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}
