package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Manalokosdev/Ribossome-sub000/config"
	"github.com/Manalokosdev/Ribossome-sub000/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logState := flag.Int("log-state", 0, "Log a world-state snapshot every N ticks (0 = off)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	e, err := engine.New(engine.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}
	defer e.Close()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
	)

	for {
		e.Step()

		if *logState > 0 && e.Tick()%int64(*logState) == 0 {
			e.LogWorldState()
		}
		if *maxTicks > 0 && int(e.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", e.Tick())
			return
		}
		if e.Alive() == 0 {
			slog.Info("population extinct", "tick", e.Tick())
			return
		}
	}
}
