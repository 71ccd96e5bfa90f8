package match

import (
	"image/color"
	"slices"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

// EntityView is a read-only picture of one entity for the outer layers
type EntityView struct {
	ID          core.EntityID
	Kind        core.Kind
	Faction     core.Faction
	Rect        geom.Rect
	Center      geom.Vec2
	Facing      float64
	Health      float64 // ratio of max
	UnderAttack bool
	Selected    bool
	Recoil      int
	Cargo       int     // harvesters
	Built       float64 // buildings, 0..1 fade-in
	Explored    bool    // buildings, seen by the observer
	Amount      int     // iron fields
}

// ParticleView is one visual particle
type ParticleView struct {
	Pos   geom.Vec2
	Size  float64
	Color color.RGBA
	Alpha float64 // remaining life ratio
}

// Status is the headquarters readout of one faction
type Status struct {
	Iron      int
	HasHQ     bool
	PowerOut  int
	PowerUse  int
	Queue     []core.Kind
	Timer     float64
	TimerFull float64 // production time of the queue head
	Pending   core.Kind
}

// TeamStats counts one team's forces for telemetry
type TeamStats struct {
	Faction    core.Faction
	Iron       int
	Infantry   int
	Tanks      int
	Harvesters int
	Buildings  int
	PowerOut   int
	PowerUse   int
	QueueLen   int
	AIState    string
	Waves      int
	HQLost     bool
}

func (m *Match) view(id core.EntityID) EntityView {
	w := m.World
	v := EntityView{
		ID:      id,
		Kind:    systems.KindOf(w, id),
		Faction: systems.FactionOf(w, id),
		Rect:    systems.RectOf(w, id),
		Center:  systems.Center(w, id),
	}
	if p, ok := w.Get(id, core.CompPosition).(*core.Position); ok {
		v.Facing = p.Facing
	}
	if h, ok := w.Get(id, core.CompHealth).(*core.Health); ok {
		v.Health = h.Ratio()
		v.UnderAttack = h.UnderAttack
	}
	if s, ok := w.Get(id, core.CompSelectable).(*core.Selectable); ok {
		v.Selected = s.Selected
	}
	if wep, ok := w.Get(id, core.CompWeapon).(*core.Weapon); ok {
		v.Recoil = wep.Recoil
	}
	if hv, ok := w.Get(id, core.CompHarvester).(*core.Harvester); ok {
		v.Cargo = hv.Cargo
	}
	if b, ok := w.Get(id, core.CompBuilding).(*core.Building); ok {
		v.Explored = b.Explored
		v.Built = 1
		if t := m.Rules.Construction.Time; t > 0 {
			v.Built = min(1, float64(b.Construction)/float64(t))
		}
		v.Selected = id == m.selectedBuilding
	}
	if r, ok := w.Get(id, core.CompResource).(*core.Resource); ok {
		v.Amount = r.Amount
	}
	return v
}

func (m *Match) views(ids []core.EntityID) []EntityView {
	out := make([]EntityView, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.view(id))
	}
	return out
}

// Units returns the live units of f, or of every team for FactionNone
func (m *Match) Units(f core.Faction) []EntityView {
	if f != core.FactionNone {
		return m.views(systems.TeamUnits(m.World, f))
	}
	return m.views(m.World.Query(core.CompMovable, core.CompHealth, core.CompOwner))
}

// Buildings returns the live buildings of f, or of every team for
// FactionNone
func (m *Match) Buildings(f core.Faction) []EntityView {
	if f != core.FactionNone {
		return m.views(systems.TeamBuildings(m.World, f))
	}
	return m.views(m.World.Query(core.CompBuilding, core.CompOwner))
}

// Projectiles returns every shell in flight
func (m *Match) Projectiles() []EntityView {
	return m.views(m.World.Query(core.CompProjectile))
}

// Fields returns every iron field
func (m *Match) Fields() []EntityView {
	return m.views(systems.Fields(m.World))
}

// Particles returns every live particle
func (m *Match) Particles() []ParticleView {
	w := m.World
	ids := w.Query(core.CompParticle, core.CompPosition)
	out := make([]ParticleView, 0, len(ids))
	for _, id := range ids {
		p := w.Get(id, core.CompParticle).(*core.Particle)
		alpha := 0.0
		if p.MaxLife > 0 {
			alpha = float64(p.Life) / float64(p.MaxLife)
		}
		out = append(out, ParticleView{Pos: systems.Center(w, id), Size: p.Size, Color: p.Color, Alpha: alpha})
	}
	return out
}

// Selected returns the selected units of f in arena order
func (m *Match) Selected(f core.Faction) []core.EntityID {
	return slices.DeleteFunc(systems.TeamUnits(m.World, f), func(id core.EntityID) bool {
		return !m.World.Get(id, core.CompSelectable).(*core.Selectable).Selected
	})
}

// SelectedBuilding returns the selected building, or NoEntity
func (m *Match) SelectedBuilding() core.EntityID {
	if !m.World.Alive(m.selectedBuilding) {
		return core.NoEntity
	}
	return m.selectedBuilding
}

// Status reports the iron, power and queue of f
func (m *Match) Status(f core.Faction) Status {
	var s Status
	if t := m.Teams.Get(f); t != nil {
		s.Iron = t.Iron
	}
	hq, p, err := m.headquarters(f)
	if err != nil {
		return s
	}
	s.HasHQ = true
	s.PowerOut, s.PowerUse = p.PowerOut, p.PowerUse
	if s.PowerOut == 0 && s.PowerUse == 0 {
		// before the first tick
		s.PowerOut, s.PowerUse = m.Tree.Power(m.World, f, hq)
	}
	s.Queue = slices.Clone(p.Queue)
	s.Timer = p.Timer
	if len(p.Queue) > 0 {
		s.TimerFull = m.Tree.ProductionTime(m.World, f, p.Queue[0])
	}
	if p.Pending != nil {
		s.Pending = p.Pending.Kind
	}
	return s
}

// IsVisible reports whether the observer currently sees p
func (m *Match) IsVisible(p geom.Vec2) bool {
	return m.Fog.Fogs[m.Observer].IsVisible(p)
}

// IsExplored reports whether the observer has ever seen p
func (m *Match) IsExplored(p geom.Vec2) bool {
	return m.Fog.Fogs[m.Observer].IsExplored(p)
}

// Snapshot counts every team's forces, in team order
func (m *Match) Snapshot() []TeamStats {
	w := m.World
	out := make([]TeamStats, 0, len(m.Teams.Teams))
	for _, t := range m.Teams.Teams {
		units := systems.TeamUnits(w, t.Faction)
		s := TeamStats{
			Faction:    t.Faction,
			Iron:       t.Iron,
			Infantry:   len(systems.OfKind(w, units, core.KindInfantry)),
			Tanks:      len(systems.OfKind(w, units, core.KindTank)),
			Harvesters: len(systems.OfKind(w, units, core.KindHarvester)),
			Buildings:  len(systems.TeamBuildings(w, t.Faction)),
			HQLost:     t.HQLost,
		}
		st := m.Status(t.Faction)
		s.PowerOut, s.PowerUse, s.QueueLen = st.PowerOut, st.PowerUse, len(st.Queue)
		if c := m.AI[t.Faction]; c != nil {
			s.AIState = string(c.State)
			s.Waves = c.Waves
		}
		out = append(out, s)
	}
	return out
}

// Placement previews f's pending building at the grid cell under at:
// the footprint and whether it can be placed there. ok is false when
// nothing is pending.
func (m *Match) Placement(f core.Faction, at geom.Vec2) (rect geom.Rect, valid, ok bool) {
	_, p, err := m.headquarters(f)
	if err != nil || p.Pending == nil {
		return geom.Rect{}, false, false
	}
	k := p.Pending.Kind
	d := m.Tree.Def(k)
	topLeft := geom.SnapToGrid(at, m.Rules.Map.TileSize)
	return geom.RectAt(topLeft, d.W, d.H), m.Tree.ValidPlacement(m.World, f, k, topLeft, m.Bounds), true
}
