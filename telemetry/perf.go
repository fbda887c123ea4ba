package telemetry

import "time"

// Stage names in pipeline order, used for deterministic CSV columns.
var stageNames = []string{"snapshot", "grid", "build", "physics", "energy", "repro", "merge"}

// Perf tracks per-stage wall time across a window.
type Perf struct {
	totals map[string]time.Duration
	counts map[string]int
}

// NewPerf builds an empty stage timer.
func NewPerf() *Perf {
	return &Perf{
		totals: make(map[string]time.Duration, len(stageNames)),
		counts: make(map[string]int, len(stageNames)),
	}
}

// Observe records one stage execution.
func (p *Perf) Observe(name string, d time.Duration) {
	p.totals[name] += d
	p.counts[name]++
}

// Avg returns the mean duration of a stage over the window.
func (p *Perf) Avg(name string) time.Duration {
	n := p.counts[name]
	if n == 0 {
		return 0
	}
	return p.totals[name] / time.Duration(n)
}

// Reset clears the window.
func (p *Perf) Reset() {
	for k := range p.totals {
		delete(p.totals, k)
		delete(p.counts, k)
	}
}

// PerfCSV is the flattened per-window perf record.
type PerfCSV struct {
	WindowEnd  int32   `csv:"window_end"`
	SnapshotUs float64 `csv:"snapshot_us"`
	GridUs     float64 `csv:"grid_us"`
	BuildUs    float64 `csv:"build_us"`
	PhysicsUs  float64 `csv:"physics_us"`
	EnergyUs   float64 `csv:"energy_us"`
	ReproUs    float64 `csv:"repro_us"`
	MergeUs    float64 `csv:"merge_us"`
}

// ToCSV snapshots the window averages into a CSV record.
func (p *Perf) ToCSV(windowEnd int32) PerfCSV {
	us := func(name string) float64 {
		return float64(p.Avg(name)) / float64(time.Microsecond)
	}
	return PerfCSV{
		WindowEnd:  windowEnd,
		SnapshotUs: us("snapshot"),
		GridUs:     us("grid"),
		BuildUs:    us("build"),
		PhysicsUs:  us("physics"),
		EnergyUs:   us("energy"),
		ReproUs:    us("repro"),
		MergeUs:    us("merge"),
	}
}
