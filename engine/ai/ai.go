package ai

import (
	"log/slog"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

// Tactic is how a wave approaches the enemy
type Tactic string

const (
	TacticBalanced  Tactic = "balanced"
	TacticFlank     Tactic = "flank"
	TacticAllIn     Tactic = "all_in"
	TacticDefensive Tactic = "defensive"
)

// Controller runs one computer-controlled team: it classifies its
// situation every tick, buys on a fixed interval and launches waves.
type Controller struct {
	Faction    core.Faction
	Rules      *config.Rules
	Tree       *systems.TechTree
	Teams      *core.TeamManager
	Rand       *core.Rand
	EventBus   *core.EventBus
	Bounds     geom.Rect
	Classifier *Classifier

	State           State
	Waves           int
	IncomeRate      float64
	DefenseCooldown int // never armed; kept as a classifier input

	timer            int
	waveTimer        int
	waveInterval     int
	scoutTimer       int
	scoutTargets     []geom.Vec2
	surpriseCooldown int
}

// NewController creates the AI for faction f
func NewController(f core.Faction, r *config.Rules, tt *systems.TechTree, teams *core.TeamManager, rng *core.Rand, bus *core.EventBus) (*Controller, error) {
	cl, err := NewClassifier(r.AI.StateRules)
	if err != nil {
		return nil, err
	}
	return &Controller{
		Faction:      f,
		Rules:        r,
		Tree:         tt,
		Teams:        teams,
		Rand:         rng,
		EventBus:     bus,
		Bounds:       geom.Rect{W: r.Map.Width, H: r.Map.Height},
		Classifier:   cl,
		State:        StateBuildUp,
		waveInterval: rng.IntRange(r.AI.WaveIntervalMin, r.AI.WaveIntervalMax),
	}, nil
}

// view is the per-tick picture the controller decides on
type view struct {
	team         *core.Team
	hq           core.EntityID
	units        []core.EntityID
	buildings    []core.EntityID
	enemyUnits   []core.EntityID
	enemyBldgs   []core.EntityID
	enemyCounts  map[core.Kind]int
	enemyFaction core.Faction
}

func (c *Controller) look(w *core.World) *view {
	v := &view{
		team:      c.Teams.Get(c.Faction),
		hq:        systems.Headquarters(w, c.Faction),
		units:     systems.TeamUnits(w, c.Faction),
		buildings: systems.TeamBuildings(w, c.Faction),
	}
	if opp := c.Teams.Opponent(c.Faction); opp != nil {
		v.enemyFaction = opp.Faction
		v.enemyUnits = systems.TeamUnits(w, opp.Faction)
		v.enemyBldgs = systems.TeamBuildings(w, opp.Faction)
	}
	v.enemyCounts = kindCounts(w, v.enemyUnits, v.enemyBldgs)
	return v
}

func kindCounts(w *core.World, lists ...[]core.EntityID) map[core.Kind]int {
	m := make(map[core.Kind]int)
	for _, ids := range lists {
		for _, id := range ids {
			m[systems.KindOf(w, id)]++
		}
	}
	return m
}

// Update runs one tick of decisions
func (c *Controller) Update(w *core.World) {
	v := c.look(w)
	if v.team == nil {
		return
	}
	ar := c.Rules.AI
	c.timer++
	c.waveTimer++
	c.surpriseCooldown = max(0, c.surpriseCooldown-1)

	c.classify(w, v)
	c.scout(w, v)
	if c.timer >= ar.ActionInterval {
		c.timer = 0
		c.purchase(w, v)
	}

	defense := v.enemyCounts[core.KindTank] + v.enemyCounts[core.KindInfantry] + v.enemyCounts[core.KindTurret]
	if c.surpriseCooldown <= 0 && defense < ar.SurpriseMaxDefense && c.Rand.Float64() < ar.SurpriseChance {
		c.launch(w, v, true)
		c.surpriseCooldown = ar.SurpriseCooldown
	} else if c.waveTimer >= c.waveInterval {
		c.launch(w, v, false)
	}
}

// env builds the classifier input for the current tick
func (c *Controller) env(w *core.World, v *view) StateEnv {
	env := StateEnv{
		Iron:            v.team.Iron,
		DefenseCooldown: c.DefenseCooldown,
		Waves:           c.Waves,
		EnemyBaseSize:   len(v.enemyUnits) + len(v.enemyBldgs),
	}

	cargo, harvesters := 0, 0
	for _, id := range v.units {
		if h := w.Get(id, core.CompHarvester); h != nil {
			cargo += h.(*core.Harvester).Cargo
			harvesters++
		}
	}
	c.IncomeRate = float64(cargo) / float64(max(1, harvesters)) * 60 / 40
	env.IncomeRate = c.IncomeRate

	if !v.hq.IsZero() {
		env.HQHealthRatio = w.Get(v.hq, core.CompHealth).(*core.Health).Ratio()
		at := systems.Center(w, v.hq)
		for _, id := range v.enemyUnits {
			if at.Dist(systems.Center(w, id)) < c.Rules.AI.ThreatRange {
				env.EnemiesNearHQ++
			}
		}
	}
	return env
}

func (c *Controller) classify(w *core.World, v *view) {
	next := c.Classifier.Classify(c.env(w, v))
	if next == c.State {
		return
	}
	slog.Debug("ai state", "faction", c.Faction, "from", c.State, "to", next)
	c.EventBus.Emit(core.Event{
		Type:    core.EvtAIStateChanged,
		Tick:    w.TickCount,
		Faction: c.Faction,
		Payload: core.StateChange{From: string(c.State), To: string(next)},
	})
	c.State = next
}

func idle(w *core.World, id core.EntityID) bool {
	return w.Get(id, core.CompMovable).(*core.Movable).Target == nil
}

// scout sends idle infantry to the next points of interest
func (c *Controller) scout(w *core.World, v *view) {
	if c.scoutTimer > 0 {
		c.scoutTimer--
		return
	}
	c.scoutTimer = c.Rules.AI.ScoutInterval

	if len(c.scoutTargets) == 0 {
		for _, f := range systems.Fields(w) {
			c.scoutTargets = append(c.scoutTargets, systems.Center(w, f))
		}
		c.scoutTargets = append(c.scoutTargets, c.Bounds.Center())
		if hq := systems.OfKind(w, v.enemyBldgs, core.KindHeadquarters); len(hq) > 0 {
			c.scoutTargets = append(c.scoutTargets, systems.Center(w, hq[0]))
		}
	}

	sent := 0
	for _, id := range systems.OfKind(w, v.units, core.KindInfantry) {
		if sent == c.Rules.AI.ScoutBatch || len(c.scoutTargets) == 0 {
			break
		}
		if !idle(w, id) {
			continue
		}
		orderMove(w, id, c.scoutTargets[0])
		c.scoutTargets = c.scoutTargets[1:]
		sent++
	}
}

func orderMove(w *core.World, id core.EntityID, to geom.Vec2) {
	mov := w.Get(id, core.CompMovable).(*core.Movable)
	mov.Target = &to
	mov.Formation = nil
	if wep := w.Get(id, core.CompWeapon); wep != nil {
		wep.(*core.Weapon).TargetID = core.NoEntity
	}
}

func orderAttack(w *core.World, id, target core.EntityID, to geom.Vec2) {
	mov := w.Get(id, core.CompMovable).(*core.Movable)
	mov.Target = &to
	mov.Formation = nil
	if wep := w.Get(id, core.CompWeapon); wep != nil {
		wep.(*core.Weapon).TargetID = target
	}
}
