package match

import (
	"fmt"
	"log/slog"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

// Buildable lists what a player may queue, in sidebar order. Extra
// headquarters are left to the computer.
var Buildable = []core.Kind{
	core.KindInfantry,
	core.KindTank,
	core.KindHarvester,
	core.KindBarracks,
	core.KindWarFactory,
	core.KindPowerPlant,
	core.KindTurret,
}

func buildable(k core.Kind) bool {
	for _, b := range Buildable {
		if b == k {
			return true
		}
	}
	return false
}

// Commands apply immediately; the input layer calls them between ticks.

// Order sends the selected units of f toward at. Clicking an enemy unit
// or building attacks it; clicking an iron field moves there without a
// formation slot. It returns how many units were ordered.
func (m *Match) Order(f core.Faction, at geom.Vec2) int {
	units := m.Selected(f)
	if len(units) == 0 {
		return 0
	}
	w := m.World
	enemy := m.enemyAt(f, at)
	field := core.NoEntity
	for _, id := range systems.Fields(w) {
		if systems.RectOf(w, id).ContainsPoint(at) {
			field = id
			break
		}
	}

	slots := geom.FormationPositions(at, len(units), 0)
	for i, slot := range slots {
		id := units[i]
		mov := w.Get(id, core.CompMovable).(*core.Movable)
		target, formation := slot, slot
		mov.Target, mov.Formation = &target, &formation
		wep, _ := w.Get(id, core.CompWeapon).(*core.Weapon)
		if wep != nil {
			wep.TargetID = core.NoEntity
		}
		switch {
		case !enemy.IsZero():
			if wep != nil {
				wep.TargetID = enemy
			}
			c := systems.Center(w, enemy)
			mov.Target = &c
		case !field.IsZero():
			c := systems.Center(w, field)
			mov.Target = &c
			mov.Formation = nil
		}
	}
	return len(slots)
}

// enemyAt returns the enemy unit under p, else the enemy building
func (m *Match) enemyAt(f core.Faction, p geom.Vec2) core.EntityID {
	w := m.World
	for _, t := range m.Teams.Teams {
		if !core.AreEnemies(f, t.Faction) {
			continue
		}
		for _, id := range systems.TeamUnits(w, t.Faction) {
			if systems.RectOf(w, id).ContainsPoint(p) {
				return id
			}
		}
	}
	for _, t := range m.Teams.Teams {
		if !core.AreEnemies(f, t.Faction) {
			continue
		}
		for _, id := range systems.TeamBuildings(w, t.Faction) {
			if systems.RectOf(w, id).ContainsPoint(p) {
				return id
			}
		}
	}
	return core.NoEntity
}

// SelectRect replaces the selection of f with its units touching r
func (m *Match) SelectRect(f core.Faction, r geom.Rect) int {
	m.ClearSelection(f)
	n := 0
	for _, id := range systems.TeamUnits(m.World, f) {
		if r.Intersects(systems.RectOf(m.World, id)) {
			m.World.Get(id, core.CompSelectable).(*core.Selectable).Selected = true
			n++
		}
	}
	return n
}

// SelectAt selects the building of f under p. It reports false and
// clears the building selection when there is none.
func (m *Match) SelectAt(f core.Faction, p geom.Vec2) bool {
	m.selectedBuilding = core.NoEntity
	for _, id := range systems.TeamBuildings(m.World, f) {
		if systems.RectOf(m.World, id).ContainsPoint(p) {
			m.selectedBuilding = id
			return true
		}
	}
	return false
}

// ClearSelection deselects every unit and the building of f
func (m *Match) ClearSelection(f core.Faction) {
	for _, id := range m.World.Query(core.CompSelectable, core.CompOwner) {
		if systems.FactionOf(m.World, id) == f {
			m.World.Get(id, core.CompSelectable).(*core.Selectable).Selected = false
		}
	}
	if systems.FactionOf(m.World, m.selectedBuilding) == f {
		m.selectedBuilding = core.NoEntity
	}
}

func (m *Match) headquarters(f core.Faction) (core.EntityID, *core.Production, error) {
	hq := systems.Headquarters(m.World, f)
	if hq.IsZero() {
		return core.NoEntity, nil, ErrNoHeadquarters
	}
	return hq, m.World.Get(hq, core.CompProduction).(*core.Production), nil
}

// Enqueue buys k for f: the cost is paid now and the item joins the
// headquarters queue.
func (m *Match) Enqueue(f core.Faction, k core.Kind) error {
	if !buildable(k) {
		return fmt.Errorf("enqueue %v: %w", k, ErrNotProducible)
	}
	hq, p, err := m.headquarters(f)
	if err != nil {
		return fmt.Errorf("enqueue %v: %w", k, err)
	}
	if !m.Tree.HasPrereq(m.World, f, k) {
		return fmt.Errorf("enqueue %v: %w", k, ErrMissingPrerequisite)
	}
	if len(p.Queue) >= m.Rules.Economy.QueueCap {
		return fmt.Errorf("enqueue %v: %w", k, ErrQueueFull)
	}
	team := m.Teams.Get(f)
	cost := m.Tree.Cost(k)
	if !team.CanAfford(cost) {
		return fmt.Errorf("enqueue %v: need %d, have %d: %w", k, cost, team.Iron, ErrInsufficientIron)
	}
	team.Spend(cost)
	p.Queue = append(p.Queue, k)
	m.Tree.Arm(m.World, f, p)
	m.Bus.Emit(core.Event{Type: core.EvtProductionQueued, Tick: m.World.TickCount, Faction: f, Kind: k, Entity: hq})
	return nil
}

// PlacePending builds the finished building of f at the grid cell under
// at.
func (m *Match) PlacePending(f core.Faction, at geom.Vec2) (core.EntityID, error) {
	hq, p, err := m.headquarters(f)
	if err != nil {
		return core.NoEntity, err
	}
	if p.Pending == nil {
		return core.NoEntity, ErrNoPendingBuilding
	}
	k := p.Pending.Kind
	id, ok := m.Tree.PlacePending(m.World, hq, at, m.Bounds, m.Bus)
	if !ok {
		return core.NoEntity, fmt.Errorf("place %v at %v: %w", k, at, ErrInvalidPlacement)
	}
	return id, nil
}

// CancelPending discards the finished building of f and refunds it in
// full.
func (m *Match) CancelPending(f core.Faction) error {
	_, p, err := m.headquarters(f)
	if err != nil {
		return err
	}
	if p.Pending == nil {
		return ErrNoPendingBuilding
	}
	refund := m.Tree.Cost(p.Pending.Kind)
	p.Pending = nil
	m.Teams.Get(f).Deposit(refund)
	m.Tree.Arm(m.World, f, p)
	return nil
}

// Sell removes a building of f for part of its cost. Headquarters cannot
// be sold.
func (m *Match) Sell(f core.Faction, id core.EntityID) (int, error) {
	w := m.World
	if !w.Alive(id) || !w.Has(id, core.CompBuilding) {
		return 0, fmt.Errorf("sell %v: %w", id, ErrUnknownEntity)
	}
	k := systems.KindOf(w, id)
	if systems.FactionOf(w, id) != f || k == core.KindHeadquarters {
		return 0, fmt.Errorf("sell %v: %w", k, ErrNotSellable)
	}
	b := w.Get(id, core.CompBuilding).(*core.Building)
	refund := int(float64(b.Cost) * m.Rules.Economy.SellRefund)
	m.Teams.Get(f).Deposit(refund)
	m.Bus.Emit(core.Event{Type: core.EvtBuildingSold, Tick: w.TickCount, Faction: f, Kind: k, Entity: id, Payload: refund})
	w.Destroy(id)
	if id == m.selectedBuilding {
		m.selectedBuilding = core.NoEntity
	}
	slog.Debug("building sold", "faction", f, "kind", k, "refund", refund)
	return refund, nil
}
