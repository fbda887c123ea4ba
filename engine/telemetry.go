package engine

import (
	"log/slog"

	"github.com/Manalokosdev/Ribossome-sub000/telemetry"
)

// flushTelemetry samples the post-merge world and emits one stats
// window when due. Sampling walks the store directly so fresh spawns
// and this tick's removals are both reflected.
func (e *Engine) flushTelemetry() {
	if !e.collector.Due(e.tick) {
		return
	}

	var stats telemetry.WindowStats
	energy := e.collector.EnergySamples()
	partCounts := e.collector.PartSamples()

	mouths := 0
	totalParts := 0
	genomeLen := 0
	generationMax := 0
	species := make(map[uint32]struct{}, 64)

	query := e.entityFilter.Query()
	n := 0
	for query.Next() {
		_, _, _, body, en, org, gen := query.Get()
		n++
		energy = append(energy, float64(en.Value))
		partCounts = append(partCounts, float64(body.Count))
		mouths += body.MouthCount()
		totalParts += int(body.Count)
		genomeLen += int(gen.Length)
		if int(org.Generation) > generationMax {
			generationMax = int(org.Generation)
		}
		if body.Count > 0 {
			species[org.Species] = struct{}{}
		}
	}

	stats.Agents = n
	ed := telemetry.Summarize(energy)
	stats.EnergyMean, stats.EnergyStd = ed.Mean, ed.Std
	stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = ed.P10, ed.P50, ed.P90
	pd := telemetry.Summarize(partCounts)
	stats.PartsMean, stats.PartsP90 = pd.Mean, pd.P90
	if totalParts > 0 {
		stats.MouthShare = float64(mouths) / float64(totalParts)
	}
	if n > 0 {
		stats.GenomeLenMean = float64(genomeLen) / float64(n)
	}
	stats.GenerationMax = generationMax
	stats.SpeciesCount = len(species)
	stats.TotalAlpha, stats.TotalBeta = e.chem.Totals()

	e.collector.Flush(&stats, e.tick, e.cfg.World.DT)

	if e.logStats {
		stats.LogStats()
	}
	if err := e.output.WriteTelemetry(stats); err != nil {
		slog.Error("telemetry write failed", "error", err)
	}
	if err := e.output.WritePerf(e.perf, stats.WindowEndTick); err != nil {
		slog.Error("perf write failed", "error", err)
	}
	e.perf.Reset()
}
