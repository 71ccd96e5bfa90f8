package systems

import (
	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// HarvesterSystem runs the harvest cycle: drive to a field, mine for a
// while, haul the cargo back to headquarters. A harvester keeps its field
// until it runs dry, then picks the nearest rich one.
type HarvesterSystem struct {
	Rules    *config.Rules
	Teams    *core.TeamManager
	Rand     *core.Rand
	EventBus *core.EventBus
}

func (s *HarvesterSystem) Priority() int { return 15 }

func (s *HarvesterSystem) Update(w *core.World, dt float64) {
	hr := s.Rules.Harvest
	for _, id := range w.Query(core.CompPosition, core.CompHarvester, core.CompMovable, core.CompOwner) {
		pos := w.Get(id, core.CompPosition).(*core.Position)
		harv := w.Get(id, core.CompHarvester).(*core.Harvester)
		mov := w.Get(id, core.CompMovable).(*core.Movable)
		f := FactionOf(w, id)

		s.defend(w, id, f, pos)

		switch harv.State {
		case core.HarvMovingToField:
			if !hasIron(w, harv.Field) {
				harv.Field = NearestField(w, pos.Vec(), hr.RichThreshold)
			}
			if harv.Field.IsZero() {
				continue
			}
			to := Center(w, harv.Field)
			if pos.Vec().Dist(to) < hr.ArriveDist {
				harv.State = core.HarvHarvesting
				harv.Timer = hr.Time
				mov.Target = nil
			} else {
				mov.Target = &to
				mov.Formation = nil
			}

		case core.HarvHarvesting:
			if harv.Timer > 0 {
				harv.Timer--
				continue
			}
			if c := w.Get(harv.Field, core.CompResource); c != nil {
				res := c.(*core.Resource)
				n := min(res.Amount, harv.Capacity-harv.Cargo)
				harv.Cargo += n
				res.Amount -= n
			}
			harv.State = core.HarvReturning

		case core.HarvReturning:
			hq := s.depot(w, harv, f, pos.Vec())
			if hq.IsZero() {
				mov.Target = nil
				continue
			}
			to := Center(w, hq)
			if pos.Vec().Dist(to) >= hr.ArriveDist {
				mov.Target = &to
				mov.Formation = nil
				continue
			}
			if team := s.Teams.Get(f); team != nil {
				team.Deposit(harv.Cargo)
			}
			s.EventBus.Emit(core.Event{
				Type:    core.EvtIronDeposited,
				Tick:    w.TickCount,
				Faction: f,
				Entity:  id,
				Payload: harv.Cargo,
			})
			harv.Cargo = 0
			harv.State = core.HarvMovingToField
			mov.Target = nil
		}
	}
}

// defend hits the nearest enemy infantry in reach
func (s *HarvesterSystem) defend(w *core.World, id core.EntityID, f core.Faction, pos *core.Position) {
	c := w.Get(id, core.CompWeapon)
	if c == nil {
		return
	}
	wep := c.(*core.Weapon)
	if wep.CooldownNow > 0 {
		return
	}
	target, d := Nearest(w, pos.Vec(), EnemiesInRange(w, f, pos.Vec(), wep.Range, core.TargetInfantry))
	if target.IsZero() || d >= wep.Range {
		return
	}
	Burst(w, s.Rand, Center(w, target), 3, 1.5, 10, ColorSpark)
	ApplyDamage(w, target, wep.Damage, s.EventBus, s.Rand)
	wep.CooldownNow = wep.Cooldown
}

// depot returns the headquarters the harvester unloads at, rebinding to
// the nearest friendly one when its own is gone.
func (s *HarvesterSystem) depot(w *core.World, harv *core.Harvester, f core.Faction, at geom.Vec2) core.EntityID {
	if w.Alive(harv.HQ) {
		return harv.HQ
	}
	hq, _ := Nearest(w, at, OfKind(w, TeamBuildings(w, f), core.KindHeadquarters))
	harv.HQ = hq
	return hq
}

// hasIron reports whether field is a live field with iron left
func hasIron(w *core.World, field core.EntityID) bool {
	c := w.Get(field, core.CompResource)
	return c != nil && c.(*core.Resource).Amount > 0
}

// NearestField picks the nearest field holding at least rich iron, or the
// nearest field at all when none is that rich.
func NearestField(w *core.World, at geom.Vec2, rich int) core.EntityID {
	fields := Fields(w)
	var richer []core.EntityID
	for _, id := range fields {
		if w.Get(id, core.CompResource).(*core.Resource).Amount >= rich {
			richer = append(richer, id)
		}
	}
	if len(richer) > 0 {
		best, _ := Nearest(w, at, richer)
		return best
	}
	best, _ := Nearest(w, at, fields)
	return best
}

// FieldSystem regrows iron fields up to their capacity
type FieldSystem struct {
	Rules *config.Rules
}

func (s *FieldSystem) Priority() int { return 17 }

func (s *FieldSystem) Update(w *core.World, dt float64) {
	fr := s.Rules.Field
	for _, id := range Fields(w) {
		res := w.Get(id, core.CompResource).(*core.Resource)
		if res.RegenTimer--; res.RegenTimer > 0 {
			continue
		}
		res.RegenTimer = fr.RegenInterval
		res.Amount = min(res.Amount+fr.RegenAmount, res.Max)
	}
}
