package systems

import (
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// ApplyDamage hurts id and kills it at zero health. It returns true on
// the killing blow.
func ApplyDamage(w *core.World, id core.EntityID, dmg int, bus *core.EventBus, rng *core.Rand) bool {
	c := w.Get(id, core.CompHealth)
	if c == nil {
		return false
	}
	h := c.(*core.Health)
	h.Current -= dmg
	h.UnderAttack = true
	if h.Current > 0 {
		return false
	}
	Kill(w, id, bus, rng)
	return true
}

// Kill removes id from play and announces it
func Kill(w *core.World, id core.EntityID, bus *core.EventBus, rng *core.Rand) {
	if !w.Alive(id) {
		return
	}
	at := Center(w, id)
	if w.Has(id, core.CompBuilding) {
		Burst(w, rng, at, 15, 3, 40, ColorDebris)
	} else {
		Burst(w, rng, at, 5, 2, 20, ColorExplosion)
	}
	bus.Emit(core.Event{
		Type:    core.EvtEntityDestroyed,
		Tick:    w.TickCount,
		Faction: FactionOf(w, id),
		Kind:    KindOf(w, id),
		Entity:  id,
		Payload: at,
	})
	w.Destroy(id)
}

func targetable(k core.Kind, mask core.TargetMask) bool {
	switch {
	case k == core.KindInfantry:
		return mask&core.TargetInfantry != 0
	case k == core.KindTank || k == core.KindHarvester:
		return mask&core.TargetVehicle != 0
	case k.IsBuilding():
		return mask&core.TargetBuilding != 0
	}
	return false
}

// EnemiesInRange lists enemy units then enemy buildings within r of at,
// filtered by mask, in arena order.
func EnemiesInRange(w *core.World, f core.Faction, at geom.Vec2, r float64, mask core.TargetMask) []core.EntityID {
	var units, bldgs []core.EntityID
	for _, id := range w.Query(core.CompHealth, core.CompOwner, core.CompClass) {
		if !core.AreEnemies(f, FactionOf(w, id)) {
			continue
		}
		k := KindOf(w, id)
		if !targetable(k, mask) || at.Dist(Center(w, id)) > r {
			continue
		}
		if k.IsBuilding() {
			bldgs = append(bldgs, id)
		} else {
			units = append(units, id)
		}
	}
	return append(units, bldgs...)
}

// acquire keeps the current target while it stays in range, else picks
// the nearest eligible enemy.
func acquire(w *core.World, f core.Faction, at geom.Vec2, wep *core.Weapon) core.EntityID {
	if t := wep.TargetID; !t.IsZero() && w.Alive(t) && at.Dist(Center(w, t)) <= wep.Range {
		return t
	}
	best, _ := Nearest(w, at, EnemiesInRange(w, f, at, wep.Range, wep.Targets))
	return best
}

// CombatSystem lets infantry and tanks engage enemies in range, one team
// after the other.
type CombatSystem struct {
	Teams    *core.TeamManager
	Tree     *TechTree
	Rand     *core.Rand
	EventBus *core.EventBus
}

func (s *CombatSystem) Priority() int { return 45 }

func (s *CombatSystem) Update(w *core.World, dt float64) {
	for _, team := range s.Teams.Teams {
		for _, id := range TeamUnits(w, team.Faction) {
			// units killed earlier this pass are skipped
			if !w.Alive(id) || w.Has(id, core.CompHarvester) {
				continue
			}
			c := w.Get(id, core.CompWeapon)
			if c == nil {
				continue
			}
			wep := c.(*core.Weapon)
			if wep.CooldownNow > 0 {
				continue
			}
			pos := w.Get(id, core.CompPosition).(*core.Position)
			target := acquire(w, team.Faction, pos.Vec(), wep)
			if target.IsZero() {
				continue
			}
			to := Center(w, target)
			wep.TargetID = target
			mov := w.Get(id, core.CompMovable).(*core.Movable)
			mov.Target = &to
			wep.CooldownNow = wep.Cooldown

			if wep.Ranged {
				pos.Facing = geom.HeadingTo(pos.Vec(), to)
				s.fire(w, id, team.Faction, pos, target, wep)
				continue
			}
			Burst(w, s.Rand, to, 3, 1.5, 10, ColorSpark)
			s.EventBus.Emit(core.Event{Type: core.EvtMeleeHit, Tick: w.TickCount, Faction: team.Faction, Entity: target})
			if ApplyDamage(w, target, wep.Damage, s.EventBus, s.Rand) {
				wep.TargetID = core.NoEntity
				mov.Target = nil
			}
		}
	}
}

func (s *CombatSystem) fire(w *core.World, id core.EntityID, f core.Faction, pos *core.Position, target core.EntityID, wep *core.Weapon) {
	s.Tree.SpawnProjectile(w, f, pos.Vec(), target, wep.Damage)
	wep.Recoil = 5
	Burst(w, s.Rand, geom.Polar(pos.Vec(), pos.Facing, 18), 3, 1, 15, ColorSmoke)
	s.EventBus.Emit(core.Event{Type: core.EvtProjectileFired, Tick: w.TickCount, Faction: f, Entity: id})
}

// TurretSystem fires defensive turrets at enemy units in range
type TurretSystem struct {
	Tree     *TechTree
	Rand     *core.Rand
	EventBus *core.EventBus
}

func (s *TurretSystem) Priority() int { return 25 }

func (s *TurretSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompBuilding, core.CompWeapon, core.CompPosition, core.CompOwner) {
		wep := w.Get(id, core.CompWeapon).(*core.Weapon)
		if wep.CooldownNow > 0 {
			continue
		}
		pos := w.Get(id, core.CompPosition).(*core.Position)
		f := FactionOf(w, id)
		target := acquire(w, f, pos.Vec(), wep)
		if target.IsZero() {
			wep.TargetID = core.NoEntity
			continue
		}
		wep.TargetID = target
		wep.CooldownNow = wep.Cooldown
		pos.Facing = geom.HeadingTo(pos.Vec(), Center(w, target))
		s.Tree.SpawnProjectile(w, f, pos.Vec(), target, wep.Damage)
		wep.Recoil = 5
		s.EventBus.Emit(core.Event{Type: core.EvtProjectileFired, Tick: w.TickCount, Faction: f, Entity: id})
	}
}
