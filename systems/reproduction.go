package systems

import (
	"math/rand"
	"sync/atomic"

	"github.com/Manalokosdev/Ribossome-sub000/components"
	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/genome"
)

// SpawnRequest describes one agent to create: drained from the pending
// buffer or pushed by external callers at tick boundaries.
type SpawnRequest struct {
	Genome     genome.Genome
	HasGenome  bool // false: spawn with a fresh random genome
	X, Y       float32
	Heading    float32
	Energy     float32
	Generation uint32
	Seed       int64
}

// PendingSpawns is the capacity-bounded offspring buffer. Slots are
// claimed by atomic check-then-increment so parallel lanes never race;
// requests over capacity are silently dropped.
type PendingSpawns struct {
	buf   []SpawnRequest
	count atomic.Int32
}

// NewPendingSpawns builds a buffer with the given capacity.
func NewPendingSpawns(capacity int) *PendingSpawns {
	return &PendingSpawns{buf: make([]SpawnRequest, capacity)}
}

// Push claims a slot and stores the request. Returns false when the
// buffer is full.
func (p *PendingSpawns) Push(req *SpawnRequest) bool {
	for {
		c := p.count.Load()
		if int(c) >= len(p.buf) {
			return false
		}
		if p.count.CompareAndSwap(c, c+1) {
			p.buf[c] = *req
			return true
		}
	}
}

// Len returns the number of pending requests.
func (p *PendingSpawns) Len() int {
	return int(p.count.Load())
}

// Drain calls fn for each pending request and empties the buffer.
// Single-threaded; runs in the merge pass between ticks.
func (p *PendingSpawns) Drain(fn func(*SpawnRequest)) {
	n := int(p.count.Load())
	for i := 0; i < n; i++ {
		fn(&p.buf[i])
	}
	p.count.Store(0)
}

// radiationMultiplier scales the base mutation rate by local beta
// radiation: one plus a cubic on the channel, with the cubic term
// capped before it enters the multiplier.
func radiationMultiplier(beta, gain, cap float32) float32 {
	cubic := gain * beta * beta * beta
	if cubic > cap {
		cubic = cap
	}
	return 1 + cubic
}

// UpdateReproduction advances one agent's pairing counter and fires
// reproduction when it reaches the active genome length.
//
// Each tick the counter increments with a probability scaled by the
// square root of the energy fraction and a local fertility gate (the
// alpha chemical level, mapping nominal rate onto 20%-100%), charging a
// fixed cost per increment; a smaller complementary probability
// decrements it. On firing, the offspring genome is a plain copy or the
// reverse complement of the parent's active region, mutated at a rate
// scaled up by local radiation (a capped cubic on the beta channel).
// The offspring takes exactly half the parent's energy.
func UpdateReproduction(id, tick uint32, body *components.Body, pos *components.Position, rot *components.Rotation, en *components.Energy, org *components.Organism, gen *genome.Genome, env *Env, rc *config.ReproductionConfig, gc *config.GenomeConfig, pending *PendingSpawns, dt float32) {
	if body.Count == 0 || !en.Alive || gen.Length == 0 {
		return
	}

	rng := newLaneRng(id^0xa5a5a5a5, tick)

	target := uint16(gen.Length)
	if org.Pairing < target {
		alpha, _ := env.Chem.Sample(pos.X, pos.Y)
		gate := 0.2 + 0.8*clampf(alpha, 0, 1)
		frac := float32(0)
		if en.Capacity > 0 {
			frac = clampf(en.Value/en.Capacity, 0, 1)
		}
		p := float32(rc.NominalRate) * gate * fastSqrt(frac)
		if rng.next() < p {
			org.Pairing++
			en.Value = maxf(en.Value-float32(rc.StepCost), 0)
		} else if rng.next() < float32(rc.DecayRate) && org.Pairing > 0 {
			org.Pairing--
		}
		return
	}

	// Counter full: derive and emit the offspring.
	org.Pairing = 0

	var child genome.Genome
	if rng.next() < float32(rc.SexualRatio) {
		child = genome.ReverseComplement(gen)
	} else {
		child = *gen
	}

	_, beta := env.Chem.Sample(pos.X, pos.Y)
	radiation := radiationMultiplier(beta, float32(rc.RadiationGain), float32(rc.RadiationCap))
	params := genome.MutationParams{
		Rate:         rc.MutationRate * float64(radiation),
		InsertFactor: rc.InsertFactor,
		DeleteFactor: rc.DeleteFactor,
		MinLength:    gc.MinLength,
	}
	seed := int64(mix32(id))<<32 | int64(mix32(tick))
	child = genome.Mutate(&child, rand.New(rand.NewSource(seed)), params)

	half := en.Value / 2
	en.Value -= half

	angle := rng.next() * 6.2832
	dist := body.Span + 8
	req := SpawnRequest{
		Genome:     child,
		HasGenome:  true,
		X:          pos.X + fastCos(angle)*dist,
		Y:          pos.Y + fastSin(angle)*dist,
		Heading:    rng.next() * 6.2832,
		Energy:     half,
		Generation: org.Generation + 1,
		Seed:       seed,
	}
	req.X, req.Y = WrapPosition(req.X, req.Y, env.WorldW, env.WorldH)
	if !pending.Push(&req) {
		// Buffer full: the offspring is dropped but the parent keeps
		// the energy it would have given away.
		en.Value += half
	}
}
