package systems

import (
	"log/slog"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// Power returns the output and draw of a faction's grid as seen by the
// headquarters hq: base output plus power plants, against every unit and
// every other building.
func (tt *TechTree) Power(w *core.World, f core.Faction, hq core.EntityID) (out, use int) {
	out = tt.Rules.Economy.BasePower
	for _, id := range w.Query(core.CompClass, core.CompOwner) {
		if id == hq || FactionOf(w, id) != f {
			continue
		}
		if c := w.Get(id, core.CompBuilding); c != nil {
			b := c.(*core.Building)
			out += b.PowerGen
			use += b.PowerDraw
			continue
		}
		if d := tt.Defs[KindOf(w, id)]; d != nil && d.Kind.IsUnit() {
			use += d.PowerDraw
		}
	}
	return out, use
}

// ConstructionSystem advances the build-up counter of new buildings
type ConstructionSystem struct {
	Time int
}

func (s *ConstructionSystem) Priority() int { return 19 }

func (s *ConstructionSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompBuilding) {
		b := w.Get(id, core.CompBuilding).(*core.Building)
		if b.Construction < s.Time {
			b.Construction++
		}
	}
}

// ProductionSystem recomputes power and runs every headquarters queue
type ProductionSystem struct {
	Tree     *TechTree
	EventBus *core.EventBus
	Bounds   geom.Rect // keeps rollout slots on the map; zero disables
}

func (s *ProductionSystem) Priority() int { return 20 }

func (s *ProductionSystem) Update(w *core.World, dt float64) {
	for _, hq := range w.Query(core.CompProduction, core.CompOwner) {
		p := w.Get(hq, core.CompProduction).(*core.Production)
		f := FactionOf(w, hq)
		p.PowerOut, p.PowerUse = s.Tree.Power(w, f, hq)
		s.Tree.Arm(w, f, p)
		if len(p.Queue) == 0 || p.Timer <= 0 {
			continue
		}
		// a power shortage halves the speed, it never stops the queue
		if p.HasPower() {
			p.Timer--
		} else {
			p.Timer -= 0.5
		}
		if p.Timer > 0 {
			continue
		}

		k := p.Queue[0]
		p.Queue = p.Queue[1:]
		p.Timer = 0
		if k.IsBuilding() {
			p.Pending = &core.PendingBuilding{Kind: k}
			s.EventBus.Emit(core.Event{Type: core.EvtBuildingReady, Tick: w.TickCount, Faction: f, Kind: k, Entity: hq})
		} else {
			s.spawn(w, hq, f, k)
		}
		s.Tree.Arm(w, f, p)
	}
}

// Arm starts the timer for the head of the queue when it is idle. A
// building at the head waits while another finished building is pending.
func (tt *TechTree) Arm(w *core.World, f core.Faction, p *core.Production) {
	if len(p.Queue) == 0 || p.Timer > 0 {
		return
	}
	if p.Pending != nil && p.Queue[0].IsBuilding() {
		return
	}
	p.Timer = tt.ProductionTime(w, f, p.Queue[0])
}

// spawn rolls a finished unit out of the producer nearest to hq. With no
// producer left the item is lost.
func (s *ProductionSystem) spawn(w *core.World, hq core.EntityID, f core.Faction, k core.Kind) {
	producer := hq
	if want := s.Tree.Defs[k].Producer; want != core.KindHeadquarters {
		producer, _ = Nearest(w, Center(w, hq), OfKind(w, TeamBuildings(w, f), want))
	}
	if producer.IsZero() {
		slog.Warn("production dropped, no producer", "faction", f, "kind", k)
		s.EventBus.Emit(core.Event{Type: core.EvtProductionDropped, Tick: w.TickCount, Faction: f, Kind: k, Entity: hq})
		return
	}
	r := RectOf(w, producer)
	at := geom.V(r.Right()+20, r.Center().Y)
	slot := geom.FormationPositions(at, 1, 0)[0]
	if s.Bounds.W > 0 {
		d := s.Tree.Defs[k]
		slot = geom.Rect{X: slot.X - d.W/2, Y: slot.Y - d.H/2, W: d.W, H: d.H}.Clamp(s.Bounds).Center()
	}
	id := s.Tree.SpawnUnit(w, k, f, slot, hq)
	mov := w.Get(id, core.CompMovable).(*core.Movable)
	mov.Formation = &slot
	s.EventBus.Emit(core.Event{Type: core.EvtUnitCreated, Tick: w.TickCount, Faction: f, Kind: k, Entity: id})
}

// ValidPlacement reports whether a building of kind k fits with its
// top-left corner at topLeft: inside bounds, near a friendly building and
// clear of every other building.
func (tt *TechTree) ValidPlacement(w *core.World, f core.Faction, k core.Kind, topLeft geom.Vec2, bounds geom.Rect) bool {
	d := tt.Defs[k]
	if d == nil || !k.IsBuilding() {
		return false
	}
	rect := geom.RectAt(topLeft, d.W, d.H)
	if !bounds.Contains(rect) {
		return false
	}
	near := false
	for _, id := range TeamBuildings(w, f) {
		if topLeft.Dist(Center(w, id)) < tt.Rules.Construction.Range {
			near = true
			break
		}
	}
	if !near {
		return false
	}
	for _, id := range w.Query(core.CompBuilding) {
		if rect.Intersects(RectOf(w, id)) {
			return false
		}
	}
	return true
}

// PlacePending builds the pending building of hq at the grid cell under
// at. It returns false and keeps the pending state when the site is
// invalid.
func (tt *TechTree) PlacePending(w *core.World, hq core.EntityID, at geom.Vec2, bounds geom.Rect, bus *core.EventBus) (core.EntityID, bool) {
	c := w.Get(hq, core.CompProduction)
	if c == nil {
		return core.NoEntity, false
	}
	p := c.(*core.Production)
	if p.Pending == nil {
		return core.NoEntity, false
	}
	f := FactionOf(w, hq)
	topLeft := geom.SnapToGrid(at, tt.Rules.Map.TileSize)
	if !tt.ValidPlacement(w, f, p.Pending.Kind, topLeft, bounds) {
		return core.NoEntity, false
	}
	k := p.Pending.Kind
	id := tt.SpawnBuilding(w, k, f, topLeft)
	p.Pending = nil
	tt.Arm(w, f, p)
	bus.Emit(core.Event{Type: core.EvtBuildingPlaced, Tick: w.TickCount, Faction: f, Kind: k, Entity: id, Payload: topLeft})
	return id, true
}
