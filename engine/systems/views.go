package systems

import (
	"math"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// KindOf returns the kind of a live entity, or KindNone
func KindOf(w *core.World, id core.EntityID) core.Kind {
	if c := w.Get(id, core.CompClass); c != nil {
		return c.(*core.Class).Kind
	}
	return core.KindNone
}

// FactionOf returns the owner of a live entity, or FactionNone
func FactionOf(w *core.World, id core.EntityID) core.Faction {
	if o := w.Get(id, core.CompOwner); o != nil {
		return o.(*core.Owner).Faction
	}
	return core.FactionNone
}

// Center returns the position of a live entity
func Center(w *core.World, id core.EntityID) geom.Vec2 {
	if p := w.Get(id, core.CompPosition); p != nil {
		return p.(*core.Position).Vec()
	}
	return geom.Vec2{}
}

// RectOf returns the hitbox of a live entity
func RectOf(w *core.World, id core.EntityID) geom.Rect {
	p, b := w.Get(id, core.CompPosition), w.Get(id, core.CompBody)
	if p == nil || b == nil {
		return geom.Rect{}
	}
	return b.(*core.Body).Rect(p.(*core.Position))
}

// TeamUnits returns the live units of a faction in arena order
func TeamUnits(w *core.World, f core.Faction) []core.EntityID {
	var out []core.EntityID
	for _, id := range w.Query(core.CompMovable, core.CompHealth, core.CompOwner) {
		if w.Get(id, core.CompOwner).(*core.Owner).Faction == f {
			out = append(out, id)
		}
	}
	return out
}

// TeamBuildings returns the live buildings of a faction in arena order
func TeamBuildings(w *core.World, f core.Faction) []core.EntityID {
	var out []core.EntityID
	for _, id := range w.Query(core.CompBuilding, core.CompOwner) {
		if w.Get(id, core.CompOwner).(*core.Owner).Faction == f {
			out = append(out, id)
		}
	}
	return out
}

// OfKind filters ids down to one kind
func OfKind(w *core.World, ids []core.EntityID, k core.Kind) []core.EntityID {
	var out []core.EntityID
	for _, id := range ids {
		if KindOf(w, id) == k {
			out = append(out, id)
		}
	}
	return out
}

// Count returns how many live entities of kind k a faction owns
func Count(w *core.World, f core.Faction, k core.Kind) int {
	n := 0
	for _, id := range w.Query(core.CompClass, core.CompOwner) {
		if KindOf(w, id) == k && FactionOf(w, id) == f {
			n++
		}
	}
	return n
}

// Fields returns every iron field
func Fields(w *core.World) []core.EntityID {
	return w.Query(core.CompResource)
}

// Headquarters returns the first live headquarters of a faction
func Headquarters(w *core.World, f core.Faction) core.EntityID {
	for _, id := range w.Query(core.CompProduction, core.CompOwner) {
		if FactionOf(w, id) == f {
			return id
		}
	}
	return core.NoEntity
}

// Nearest returns the candidate closest to from; ties keep the earlier one
func Nearest(w *core.World, from geom.Vec2, ids []core.EntityID) (core.EntityID, float64) {
	best, bestDist := core.NoEntity, math.MaxFloat64
	for _, id := range ids {
		if d := from.Dist(Center(w, id)); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, bestDist
}
