package systems

import (
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// SpawnUnit creates a unit of kind k centered on pos. Harvesters deposit
// at hq.
func (tt *TechTree) SpawnUnit(w *core.World, k core.Kind, f core.Faction, pos geom.Vec2, hq core.EntityID) core.EntityID {
	d := tt.Defs[k]
	hp, speed, dmg := d.Stats(f)
	id := w.Spawn()
	w.Attach(id, &core.Position{X: pos.X, Y: pos.Y})
	w.Attach(id, &core.Body{W: d.W, H: d.H})
	w.Attach(id, &core.Class{Kind: k})
	w.Attach(id, &core.Owner{Faction: f})
	w.Attach(id, &core.Health{Current: hp, Max: hp})
	w.Attach(id, &core.Movable{Speed: speed})
	w.Attach(id, &core.Selectable{})
	w.Attach(id, &core.FogVision{Radius: d.Vision})
	if dmg > 0 {
		w.Attach(id, &core.Weapon{
			Damage:   dmg,
			Range:    d.Range,
			Cooldown: d.Cooldown,
			Leash:    d.Leash,
			Ranged:   d.Ranged,
			Targets:  d.Targets,
		})
	}
	if k == core.KindHarvester {
		w.Attach(id, &core.Harvester{Capacity: d.Capacity, HQ: hq})
	}
	return id
}

// SpawnBuilding creates a building of kind k with its top-left corner at
// topLeft. Headquarters get a production queue.
func (tt *TechTree) SpawnBuilding(w *core.World, k core.Kind, f core.Faction, topLeft geom.Vec2) core.EntityID {
	d := tt.Defs[k]
	id := w.Spawn()
	c := geom.RectAt(topLeft, d.W, d.H).Center()
	w.Attach(id, &core.Position{X: c.X, Y: c.Y})
	w.Attach(id, &core.Body{W: d.W, H: d.H})
	w.Attach(id, &core.Class{Kind: k})
	w.Attach(id, &core.Owner{Faction: f})
	w.Attach(id, &core.Health{Current: d.HP, Max: d.HP})
	w.Attach(id, &core.Building{Cost: d.Cost, PowerDraw: d.PowerDraw, PowerGen: d.PowerGen})
	w.Attach(id, &core.Selectable{})
	w.Attach(id, &core.FogVision{Radius: d.Vision})
	if d.Damage > 0 {
		w.Attach(id, &core.Weapon{
			Damage:   d.Damage,
			Range:    d.Range,
			Cooldown: d.Cooldown,
			Ranged:   d.Ranged,
			Targets:  d.Targets,
		})
	}
	if k == core.KindHeadquarters {
		w.Attach(id, &core.Production{})
	}
	return id
}

// SpawnField creates an iron field with its top-left corner at topLeft
func (tt *TechTree) SpawnField(w *core.World, topLeft geom.Vec2, amount int) core.EntityID {
	fr := tt.Rules.Field
	id := w.Spawn()
	c := geom.RectAt(topLeft, fr.Size, fr.Size).Center()
	w.Attach(id, &core.Position{X: c.X, Y: c.Y})
	w.Attach(id, &core.Body{W: fr.Size, H: fr.Size})
	w.Attach(id, &core.Class{Kind: core.KindIronField})
	w.Attach(id, &core.Resource{Amount: amount, Max: fr.Capacity, RegenTimer: fr.RegenInterval})
	return id
}

// SpawnProjectile fires a shell from pos at target
func (tt *TechTree) SpawnProjectile(w *core.World, f core.Faction, pos geom.Vec2, target core.EntityID, dmg int) core.EntityID {
	pr := tt.Rules.Projectile
	id := w.Spawn()
	w.Attach(id, &core.Position{X: pos.X, Y: pos.Y})
	w.Attach(id, &core.Body{W: pr.Width, H: pr.Height})
	w.Attach(id, &core.Class{Kind: core.KindProjectile})
	w.Attach(id, &core.Owner{Faction: f})
	w.Attach(id, &core.Projectile{TargetID: target, Speed: pr.Speed, Damage: dmg, TrailTimer: 2})
	return id
}
