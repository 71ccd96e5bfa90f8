package ai

import (
	"math"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

// priorityWeight ranks how much a target is worth chasing
func priorityWeight(w *core.World, id core.EntityID) float64 {
	switch systems.KindOf(w, id) {
	case core.KindHarvester:
		return 3
	case core.KindHeadquarters:
		return 2.5
	case core.KindTurret:
		return 2
	}
	if h := w.Get(id, core.CompHealth); h != nil && h.(*core.Health).Ratio() < 0.3 {
		return 1.5
	}
	return 1
}

// PriorityTarget scores every candidate within maxRange of from as
// distance over weight and returns the lowest score.
func PriorityTarget(w *core.World, from geom.Vec2, candidates []core.EntityID, maxRange float64) core.EntityID {
	best, bestScore := core.NoEntity, math.MaxFloat64
	for _, id := range candidates {
		d := from.Dist(systems.Center(w, id))
		if d >= maxRange {
			continue
		}
		if s := d / priorityWeight(w, id); s < bestScore {
			best, bestScore = id, s
		}
	}
	return best
}
