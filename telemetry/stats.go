// Package telemetry aggregates per-window simulation statistics and
// writes them to CSV and structured logs.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Agents int `csv:"agents"`

	// Events during window
	Births    int `csv:"births"`
	Deaths    int `csv:"deaths"`
	Starved   int `csv:"starved"`
	Nonviable int `csv:"nonviable"`
	Dropped   int `csv:"dropped_spawns"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Body structure
	PartsMean  float64 `csv:"parts_mean"`
	PartsP90   float64 `csv:"parts_p90"`
	MouthShare float64 `csv:"mouth_share"`

	// Genetics
	GenomeLenMean float64 `csv:"genome_len_mean"`
	GenerationMax int     `csv:"generation_max"`
	SpeciesCount  int     `csv:"species"`

	// Environment
	TotalAlpha float64 `csv:"total_alpha"`
	TotalBeta  float64 `csv:"total_beta"`

	// Grid health
	GridOmitted int `csv:"grid_omitted"`
}

// Distribution summarizes a sample: mean, standard deviation and the
// 10/50/90 percentiles.
type Distribution struct {
	Mean, Std, P10, P50, P90 float64
}

// Summarize computes a Distribution. The input slice is sorted in place.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sort.Float64s(values)
	return Distribution{
		Mean: stat.Mean(values, nil),
		Std:  stat.StdDev(values, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, values, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, values, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, values, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("starved", s.Starved),
		slog.Int("nonviable", s.Nonviable),
		slog.Int("dropped_spawns", s.Dropped),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("parts_mean", s.PartsMean),
		slog.Float64("parts_p90", s.PartsP90),
		slog.Float64("mouth_share", s.MouthShare),
		slog.Float64("genome_len_mean", s.GenomeLenMean),
		slog.Int("generation_max", s.GenerationMax),
		slog.Int("species", s.SpeciesCount),
		slog.Float64("total_alpha", s.TotalAlpha),
		slog.Float64("total_beta", s.TotalBeta),
		slog.Int("grid_omitted", s.GridOmitted),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
