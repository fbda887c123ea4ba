package engine

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/Manalokosdev/Ribossome-sub000/systems"
)

// PartView is one body part in an inspection snapshot. Local
// coordinates are in the body's normalized frame, so successive
// snapshots of the same agent overlay regardless of its heading.
type PartView struct {
	Type   string
	Param  uint8
	LocalX float32
	LocalY float32
	Alpha  float32
	Beta   float32
	Amp    float32
}

// AgentView is an inspection snapshot of the selected agent.
type AgentView struct {
	Genus      string
	Species    string
	Generation uint32
	X, Y       float32
	Heading    float32
	Energy     float32
	Capacity   float32
	Pairing    uint16
	GenomeLen  int
	Parts      []PartView
}

// Select marks the live agent nearest to the given world point and
// clears any previous selection. Returns false when no agent is alive.
// Walks a fresh query, so agents spawned or removed by the last merge
// are seen. Runs between ticks only.
func (e *Engine) Select(x, y float32) bool {
	var best ecs.Entity
	found := false
	var bestSq float32
	query := e.entityFilter.Query()
	for query.Next() {
		pos, _, _, _, en, org, _ := query.Get()
		org.Selected = false
		if !en.Alive {
			continue
		}
		dx, dy := systems.ToroidalDelta(x, y, pos.X, pos.Y, e.worldW, e.worldH)
		d := dx*dx + dy*dy
		if !found || d < bestSq {
			found, best, bestSq = true, query.Entity(), d
		}
	}
	if !found {
		return false
	}
	e.orgMap.Get(best).Selected = true
	return true
}

// SelectedSnapshot returns an inspection view of the selected agent, or
// nil when nothing is selected. Walks a fresh query for the same reason
// Select does. Runs between ticks only.
func (e *Engine) SelectedSnapshot() *AgentView {
	var view *AgentView
	query := e.entityFilter.Query()
	for query.Next() {
		pos, _, rot, body, en, org, gen := query.Get()
		if !org.Selected || !en.Alive {
			continue
		}
		view = &AgentView{
			Genus:      SpeciesLabel(org.Genus),
			Species:    SpeciesLabel(org.Species),
			Generation: org.Generation,
			X:          pos.X,
			Y:          pos.Y,
			Heading:    rot.Heading,
			Energy:     en.Value,
			Capacity:   en.Capacity,
			Pairing:    org.Pairing,
			GenomeLen:  int(gen.Length),
			Parts:      make([]PartView, body.Count),
		}
		for p := 0; p < int(body.Count); p++ {
			bp := &body.Parts[p]
			view.Parts[p] = PartView{
				Type:   bp.Type.String(),
				Param:  bp.Param,
				LocalX: bp.LocalX,
				LocalY: bp.LocalY,
				Alpha:  bp.Alpha,
				Beta:   bp.Beta,
				Amp:    bp.Amp,
			}
		}
	}
	return view
}
