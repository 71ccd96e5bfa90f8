package ai

import (
	"log/slog"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

// waveSize grows with the wave number up to the cap
func (c *Controller) waveSize(surprise bool) int {
	if surprise {
		return min(12+c.Waves, c.Rules.AI.MaxWave)
	}
	return min(8+2*c.Waves, c.Rules.AI.MaxWave)
}

func (c *Controller) tactics(surprise bool) []Tactic {
	if !surprise && (c.State == StateThreatened || c.State == StateAttacked) {
		return []Tactic{TacticAllIn, TacticDefensive}
	}
	return []Tactic{TacticBalanced, TacticFlank, TacticAllIn}
}

// launch sends idle infantry and tanks at the enemy
func (c *Controller) launch(w *core.World, v *view, surprise bool) {
	ar := c.Rules.AI
	c.waveTimer = 0
	c.Waves++
	size := c.waveSize(surprise)
	c.waveInterval = c.Rand.IntRange(ar.WaveIntervalMin, ar.WaveIntervalMax)

	var infantry, tanks, combat []core.EntityID
	for _, id := range v.units {
		k := systems.KindOf(w, id)
		if (k != core.KindInfantry && k != core.KindTank) || !idle(w, id) {
			continue
		}
		combat = append(combat, id)
		if k == core.KindInfantry {
			infantry = append(infantry, id)
		} else {
			tanks = append(tanks, id)
		}
	}
	if len(combat) == 0 {
		return
	}
	tactic, _ := core.Pick(c.Rand, c.tactics(surprise))
	enemies := append(append([]core.EntityID{}, v.enemyUnits...), v.enemyBldgs...)

	var sent []core.EntityID
	switch tactic {
	case TacticBalanced:
		sent = append(sent, infantry[:min(size*6/10, len(infantry))]...)
		sent = append(sent, tanks[:min(size*4/10, len(tanks))]...)
		c.strike(w, sent, enemies)
	case TacticAllIn:
		sent = combat[:min(size, len(combat))]
		c.strike(w, sent, enemies)
	case TacticFlank:
		sent = combat[:min(size, len(combat))]
		hqs := systems.OfKind(w, v.enemyBldgs, core.KindHeadquarters)
		if len(hqs) == 0 {
			break
		}
		at := systems.Center(w, hqs[0])
		half := len(sent) / 2
		for i, id := range sent {
			lo, hi := 80.0, 120.0
			if i >= half {
				lo, hi = -120, -80
			}
			orderAttack(w, id, hqs[0], at.Add(geom.V(c.Rand.Uniform(lo, hi), c.Rand.Uniform(lo, hi))))
		}
	case TacticDefensive:
		sent = combat[:min(size, len(combat))]
		if v.hq.IsZero() {
			break
		}
		at := systems.Center(w, v.hq)
		for _, id := range sent {
			orderMove(w, id, at.Add(geom.V(c.Rand.Uniform(-50, 50), c.Rand.Uniform(-50, 50))))
		}
	}

	slog.Info("wave launched", "faction", c.Faction, "wave", c.Waves, "size", size, "units", len(sent), "tactic", tactic, "surprise", surprise)
	c.EventBus.Emit(core.Event{
		Type:    core.EvtWaveLaunched,
		Tick:    w.TickCount,
		Faction: c.Faction,
		Payload: core.Wave{Number: c.Waves, Size: len(sent), Tactic: string(tactic), Surprise: surprise},
	})
}

// strike aims a group at the best target seen from its first unit, with
// a little scatter on the approach point.
func (c *Controller) strike(w *core.World, group, enemies []core.EntityID) {
	if len(group) == 0 {
		return
	}
	target := PriorityTarget(w, systems.Center(w, group[0]), enemies, c.Rules.AI.TargetRange)
	if target.IsZero() {
		return
	}
	at := systems.Center(w, target)
	for _, id := range group {
		orderAttack(w, id, target, at.Add(geom.V(c.Rand.Uniform(-20, 20), c.Rand.Uniform(-20, 20))))
	}
}
