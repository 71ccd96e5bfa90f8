package ai

import (
	"log/slog"

	"github.com/1siamBot/ironfront/engine/core"
)

// desired returns the target count per kind at the current harvester count
func (c *Controller) desired(harvesters int) map[core.Kind]int {
	ar := c.Rules.AI
	want := make(map[core.Kind]int)
	for name, ratio := range ar.DesiredRatio {
		k, err := core.ParseKind(name)
		if err != nil {
			continue
		}
		want[k] = int(float64(ratio) * ar.RatioScale)
	}
	want[core.KindPowerPlant] = max(1, (harvesters+1)/2)
	want[core.KindBarracks] = 1
	want[core.KindWarFactory] = 1
	return want
}

// buy queues k at the headquarters and pays for it
func (c *Controller) buy(w *core.World, v *view, p *core.Production, k core.Kind) bool {
	if len(p.Queue) >= c.Rules.Economy.QueueCap {
		slog.Debug("ai queue full", "faction", c.Faction, "kind", k)
		return false
	}
	before := v.team.Iron
	v.team.Spend(c.Tree.Cost(k))
	p.Queue = append(p.Queue, k)
	slog.Debug("ai bought", "faction", c.Faction, "kind", k, "iron_before", before, "iron_after", v.team.Iron)
	c.EventBus.Emit(core.Event{Type: core.EvtProductionQueued, Tick: w.TickCount, Faction: c.Faction, Kind: k, Entity: v.hq})
	return true
}

// purchase makes at most one buying decision, then keeps the queue
// moving and places any finished building.
func (c *Controller) purchase(w *core.World, v *view) {
	if v.hq.IsZero() {
		return
	}
	p := w.Get(v.hq, core.CompProduction).(*core.Production)
	c.choose(w, v, p)

	c.Tree.Arm(w, c.Faction, p)
	if p.Pending != nil {
		site := c.FindBuildingSite(w, v.hq, p.Pending.Kind)
		c.Tree.PlacePending(w, v.hq, site, c.Bounds, c.EventBus)
	}
}

func (c *Controller) choose(w *core.World, v *view, p *core.Production) {
	have := kindCounts(w, v.units, v.buildings)
	for _, k := range p.Queue {
		if k == core.KindBarracks || k == core.KindWarFactory {
			have[k]++
		}
	}
	want := c.desired(have[core.KindHarvester])
	iron := v.team.Iron
	can := func(k core.Kind) bool { return iron >= c.Tree.Cost(k) }
	under := func(k core.Kind) bool { return have[k] < want[k] }

	hasBarracks := have[core.KindBarracks] > 0
	hasFactory := have[core.KindWarFactory] > 0
	military := have[core.KindInfantry] + have[core.KindTank] + have[core.KindTurret]
	harvesterCap := min(want[core.KindHarvester], c.enemyHarvesters(v)+1)

	switch {
	case !hasBarracks && can(core.KindBarracks):
		c.buy(w, v, p, core.KindBarracks)
		return
	case !hasFactory && can(core.KindWarFactory):
		c.buy(w, v, p, core.KindWarFactory)
		return
	case p.HasPower() && can(core.KindPowerPlant) && under(core.KindPowerPlant):
		c.buy(w, v, p, core.KindPowerPlant)
		return
	case (have[core.KindHarvester] < harvesterCap || c.IncomeRate < 50) && can(core.KindHarvester) && hasFactory:
		c.buy(w, v, p, core.KindHarvester)
		return
	}
	if iron <= 0 {
		slog.Debug("ai cannot buy", "faction", c.Faction, "iron", iron)
		return
	}

	var options []core.Kind
	add := func(ok bool, k core.Kind) {
		if ok {
			options = append(options, k)
		}
	}
	switch c.State {
	case StateBuildUp, StateAggressive:
		// the first two entries double the weight of a small army
		add(military < 6 && hasBarracks && can(core.KindInfantry) && under(core.KindInfantry), core.KindInfantry)
		add(military < 6 && hasFactory && can(core.KindTank) && under(core.KindTank), core.KindTank)
		add(can(core.KindTurret) && under(core.KindTurret), core.KindTurret)
		add(hasBarracks && can(core.KindInfantry) && under(core.KindInfantry), core.KindInfantry)
		add(hasFactory && can(core.KindTank) && under(core.KindTank), core.KindTank)
		add(under(core.KindHarvester) && can(core.KindHarvester) && hasFactory, core.KindHarvester)
		add(under(core.KindPowerPlant) && can(core.KindPowerPlant), core.KindPowerPlant)
		add(have[core.KindBarracks] < 2 && can(core.KindBarracks) && military >= 6, core.KindBarracks)
		add(have[core.KindWarFactory] < 2 && can(core.KindWarFactory) && military >= 6, core.KindWarFactory)
		add(can(core.KindHeadquarters) && have[core.KindHarvester] >= 2, core.KindHeadquarters)
	case StateAttacked, StateThreatened:
		add(can(core.KindTurret) && under(core.KindTurret), core.KindTurret)
		add(hasFactory && can(core.KindTank) && under(core.KindTank), core.KindTank)
		add(hasBarracks && can(core.KindInfantry) && under(core.KindInfantry), core.KindInfantry)
		add(have[core.KindHarvester] < harvesterCap && can(core.KindHarvester) && hasFactory, core.KindHarvester)
		add(under(core.KindPowerPlant) && can(core.KindPowerPlant), core.KindPowerPlant)
	case StateBroke:
		add(hasFactory && can(core.KindHarvester) && have[core.KindHarvester] < harvesterCap, core.KindHarvester)
	}
	if k, ok := core.Pick(c.Rand, options); ok {
		c.buy(w, v, p, k)
	}
}

func (c *Controller) enemyHarvesters(v *view) int {
	return v.enemyCounts[core.KindHarvester]
}

// System runs every AI controller once per tick
type System struct {
	Controllers []*Controller
}

func (s *System) Priority() int { return 60 }

func (s *System) Update(w *core.World, _ float64) {
	for _, c := range s.Controllers {
		c.Update(w)
	}
}

var _ core.System = (*System)(nil)
