package engine

import (
	"log/slog"

	"github.com/Manalokosdev/Ribossome-sub000/parts"
)

// LogWorldState emits a coarse structured snapshot of the world:
// population, energy range and an organ census. Runs between ticks.
func (e *Engine) LogWorldState() {
	var (
		minE, maxE, sumE float32
		census           [parts.Count]int
		n                int
	)
	query := e.entityFilter.Query()
	for query.Next() {
		_, _, _, body, en, _, _ := query.Get()
		if n == 0 || en.Value < minE {
			minE = en.Value
		}
		if en.Value > maxE {
			maxE = en.Value
		}
		sumE += en.Value
		for i := 0; i < int(body.Count); i++ {
			census[body.Parts[i].Type]++
		}
		n++
	}

	meanE := float32(0)
	if n > 0 {
		meanE = sumE / float32(n)
	}
	organs := make(map[string]int, parts.Count-parts.StructuralCount)
	for t := parts.StructuralCount; t < parts.Count; t++ {
		if census[t] > 0 {
			organs[parts.Type(t).String()] = census[t]
		}
	}

	slog.Info("world state",
		"run", e.runName,
		"tick", e.tick,
		"agents", n,
		"dead_total", e.deadCount,
		"energy_min", minE,
		"energy_max", maxE,
		"energy_mean", meanE,
		"organs", organs,
	)
}
