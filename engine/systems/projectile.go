package systems

import (
	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// ProjectileSystem flies shells toward their target. A shell whose target
// died disappears; one that gets within the hit radius detonates on it.
type ProjectileSystem struct {
	Rules    *config.Rules
	Rand     *core.Rand
	EventBus *core.EventBus
}

func (s *ProjectileSystem) Priority() int { return 30 }

func (s *ProjectileSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompProjectile, core.CompPosition) {
		proj := w.Get(id, core.CompProjectile).(*core.Projectile)
		pos := w.Get(id, core.CompPosition).(*core.Position)
		if !w.Alive(proj.TargetID) {
			w.Destroy(id)
			continue
		}
		to := Center(w, proj.TargetID)
		if pos.Vec().Dist(to) <= s.Rules.Projectile.HitRadius {
			s.detonate(w, id, proj, proj.TargetID)
			continue
		}
		step(pos, to, proj.Speed)
		if proj.TrailTimer--; proj.TrailTimer <= 0 {
			proj.TrailTimer = 2
			Burst(w, s.Rand, pos.Vec(), 1, 0.3, 12, ColorTrail)
		}
	}
}

func (s *ProjectileSystem) detonate(w *core.World, id core.EntityID, proj *core.Projectile, hit core.EntityID) {
	at := Center(w, id)
	Burst(w, s.Rand, at, 5, 2, 20, ColorExplosion)
	s.EventBus.Emit(core.Event{
		Type:    core.EvtProjectileHit,
		Tick:    w.TickCount,
		Faction: FactionOf(w, id),
		Entity:  hit,
		Payload: at,
	})
	w.Destroy(id)
	ApplyDamage(w, hit, proj.Damage, s.EventBus, s.Rand)
}

// ImpactSystem detonates shells that overlap any enemy on the way, testing
// units before buildings.
type ImpactSystem struct {
	Projectiles *ProjectileSystem
}

func (s *ImpactSystem) Priority() int { return 50 }

func (s *ImpactSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompProjectile, core.CompPosition, core.CompBody) {
		proj := w.Get(id, core.CompProjectile).(*core.Projectile)
		f := FactionOf(w, id)
		rect := RectOf(w, id)
		if hit := firstOverlap(w, f, rect); !hit.IsZero() {
			s.Projectiles.detonate(w, id, proj, hit)
		}
	}
}

func firstOverlap(w *core.World, f core.Faction, rect geom.Rect) core.EntityID {
	for _, other := range core.Factions {
		if !core.AreEnemies(f, other) {
			continue
		}
		for _, id := range TeamUnits(w, other) {
			if rect.Intersects(RectOf(w, id)) {
				return id
			}
		}
		for _, id := range TeamBuildings(w, other) {
			if rect.Intersects(RectOf(w, id)) {
				return id
			}
		}
	}
	return core.NoEntity
}
