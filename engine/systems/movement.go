package systems

import (
	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// MovementSystem ticks weapon cooldowns and steps units toward their
// attack target, formation slot or move point, in that order.
type MovementSystem struct {
	Bounds geom.Rect
	Rules  *config.Rules
}

func (s *MovementSystem) Priority() int { return 10 }

func (s *MovementSystem) Update(w *core.World, dt float64) {
	for _, id := range w.Query(core.CompWeapon) {
		wep := w.Get(id, core.CompWeapon).(*core.Weapon)
		if wep.CooldownNow > 0 {
			wep.CooldownNow--
		}
		if wep.Recoil > 0 {
			wep.Recoil--
		}
	}

	arrive := s.Rules.Movement.ArrivalRadius
	for _, id := range w.Query(core.CompPosition, core.CompMovable, core.CompBody) {
		pos := w.Get(id, core.CompPosition).(*core.Position)
		mov := w.Get(id, core.CompMovable).(*core.Movable)
		body := w.Get(id, core.CompBody).(*core.Body)
		at := pos.Vec()

		var wep *core.Weapon
		if c := w.Get(id, core.CompWeapon); c != nil {
			wep = c.(*core.Weapon)
			if !wep.TargetID.IsZero() && !w.Alive(wep.TargetID) {
				wep.TargetID = core.NoEntity
			}
			if wep.Leash > 0 && !wep.TargetID.IsZero() && at.Dist(Center(w, wep.TargetID)) > wep.Leash {
				wep.TargetID = core.NoEntity
			}
		}

		switch {
		case wep != nil && !wep.TargetID.IsZero():
			to := Center(w, wep.TargetID)
			if d := at.Dist(to); d > wep.Range {
				step(pos, to, min(mov.Speed, d-wep.Range))
			} else {
				mov.Target = nil
			}
		case mov.Formation != nil:
			if d := at.Dist(*mov.Formation); d > arrive {
				step(pos, *mov.Formation, min(mov.Speed, d))
			}
		case mov.Target != nil:
			if d := at.Dist(*mov.Target); d > arrive {
				step(pos, *mov.Target, min(mov.Speed, d))
			} else {
				mov.Target = nil
			}
		}

		pos.Set(body.Rect(pos).Clamp(s.Bounds).Center())
	}
}

func step(pos *core.Position, to geom.Vec2, dist float64) {
	from := pos.Vec()
	pos.Set(from.Step(to, dist))
	pos.Facing = geom.HeadingTo(from, to)
}

// CollisionSystem pushes overlapping units apart along their center line
type CollisionSystem struct {
	Bounds geom.Rect
	Rules  *config.Rules
}

func (s *CollisionSystem) Priority() int { return 40 }

func (s *CollisionSystem) Update(w *core.World, dt float64) {
	ids := w.Query(core.CompPosition, core.CompMovable, core.CompBody, core.CompHealth)
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			ra, rb := RectOf(w, a), RectOf(w, b)
			if !ra.Intersects(rb) {
				continue
			}
			pa := w.Get(a, core.CompPosition).(*core.Position)
			pb := w.Get(b, core.CompPosition).(*core.Position)
			d := pb.Vec().Sub(pa.Vec())
			l := d.Len()
			if l == 0 {
				continue
			}
			push := s.Rules.Collision.Push
			if w.Has(a, core.CompHarvester) && w.Has(b, core.CompHarvester) {
				push = s.Rules.Collision.HarvesterPush
			}
			n := d.Scale(push / l)
			pa.Set(pa.Vec().Sub(n))
			pb.Set(pb.Vec().Add(n))
			for _, e := range [2]core.EntityID{a, b} {
				p := w.Get(e, core.CompPosition).(*core.Position)
				body := w.Get(e, core.CompBody).(*core.Body)
				p.Set(body.Rect(p).Clamp(s.Bounds).Center())
			}
		}
	}
}
