package telemetry

// Collector accumulates events between window flushes. Event counters
// are bumped from the single-threaded merge pass only, never from
// parallel lanes.
type Collector struct {
	windowTicks int
	windowStart int32

	births    int
	deaths    int
	starved   int
	nonviable int
	dropped   int
	omitted   int

	// Scratch sample buffers reused across windows.
	energySamples []float64
	partSamples   []float64
}

// NewCollector builds a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// RecordBirth counts one spawned agent.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath counts one death; starved marks deaths from the energy
// roll as opposed to non-viable genomes.
func (c *Collector) RecordDeath(starved bool) {
	c.deaths++
	if starved {
		c.starved++
	} else {
		c.nonviable++
	}
}

// RecordDroppedSpawn counts a reproduction request lost to a full
// pending buffer.
func (c *Collector) RecordDroppedSpawn(n int) { c.dropped += n }

// RecordGridOmission counts agents left out of the spatial grid.
func (c *Collector) RecordGridOmission() { c.omitted++ }

// Due reports whether a window ends at the given tick.
func (c *Collector) Due(tick int64) bool {
	return tick > 0 && tick%int64(c.windowTicks) == 0
}

// EnergySamples returns the reusable energy sample buffer, reset.
func (c *Collector) EnergySamples() []float64 {
	c.energySamples = c.energySamples[:0]
	return c.energySamples
}

// PartSamples returns the reusable part-count sample buffer, reset.
func (c *Collector) PartSamples() []float64 {
	c.partSamples = c.partSamples[:0]
	return c.partSamples
}

// Flush fills the event fields of stats and resets the window counters.
// The caller fills population and distribution fields first.
func (c *Collector) Flush(stats *WindowStats, tick int64, dt float64) {
	stats.WindowStartTick = c.windowStart
	stats.WindowEndTick = int32(tick)
	stats.SimTimeSec = float64(tick) * dt
	stats.Births = c.births
	stats.Deaths = c.deaths
	stats.Starved = c.starved
	stats.Nonviable = c.nonviable
	stats.Dropped = c.dropped
	stats.GridOmitted = c.omitted

	c.windowStart = int32(tick)
	c.births = 0
	c.deaths = 0
	c.starved = 0
	c.nonviable = 0
	c.dropped = 0
	c.omitted = 0
}
