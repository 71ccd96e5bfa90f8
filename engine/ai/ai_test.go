package ai

import (
	"math"
	"testing"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

func newController(t *testing.T) (*Controller, *core.World) {
	t.Helper()
	r := config.Default()
	teams := core.NewTeamManager()
	teams.AddTeam(&core.Team{Faction: core.FactionGDI})
	teams.AddTeam(&core.Team{Faction: core.FactionNOD, Iron: 1500, IsAI: true})
	c, err := NewController(core.FactionNOD, r, systems.NewTechTree(r), teams, core.NewRand(3), core.NewEventBus())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c, core.NewWorld(r.TickRate)
}

func TestDefaultClassifier(t *testing.T) {
	c, err := NewClassifier(nil)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	rich := StateEnv{Iron: 1000, IncomeRate: 60, HQHealthRatio: 1}
	tests := []struct {
		name string
		mod  func(*StateEnv)
		want State
	}{
		{"calm", func(*StateEnv) {}, StateBuildUp},
		{"low iron", func(e *StateEnv) { e.Iron = 299 }, StateBroke},
		{"no income", func(e *StateEnv) { e.IncomeRate = 0 }, StateBroke},
		{"hq damaged", func(e *StateEnv) { e.HQHealthRatio = 0.5 }, StateAttacked},
		{"defense cooldown", func(e *StateEnv) { e.DefenseCooldown = 1 }, StateAttacked},
		{"enemy near", func(e *StateEnv) { e.EnemiesNearHQ = 1 }, StateThreatened},
		{"two waves", func(e *StateEnv) { e.Waves = 2 }, StateAggressive},
		{"big enemy base", func(e *StateEnv) { e.EnemyBaseSize = 9 }, StateAggressive},
		{"broke beats attacked", func(e *StateEnv) { e.Iron = 0; e.HQHealthRatio = 0.1 }, StateBroke},
	}
	for _, tt := range tests {
		env := rich
		tt.mod(&env)
		if got := c.Classify(env); got != tt.want {
			t.Errorf("%s: Classify(%+v) = %v, want %v", tt.name, env, got, tt.want)
		}
	}
}

func TestClassifierRejectsBadRules(t *testing.T) {
	tests := []config.StateRule{
		{State: "PANIC", Condition: "true"},
		{State: "BROKE", Condition: "Iron <"},
		{State: "BROKE", Condition: "Iron"},
		{State: "BROKE", Condition: "Gold > 3"},
	}
	for _, r := range tests {
		if _, err := NewClassifier([]config.StateRule{r}); err == nil {
			t.Errorf("NewClassifier(%+v) accepted a bad rule", r)
		}
	}
}

func TestClassifierOverride(t *testing.T) {
	c, err := NewClassifier([]config.StateRule{
		{State: "AGGRESSIVE", Priority: 1, Condition: "Iron > 100"},
		{State: "BROKE", Priority: 2, Condition: "Iron > 5000"},
	})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	if got := c.Classify(StateEnv{Iron: 200}); got != StateAggressive {
		t.Errorf("Classify = %v, want AGGRESSIVE", got)
	}
	if got := c.Classify(StateEnv{Iron: 6000}); got != StateBroke {
		t.Errorf("Classify = %v, want BROKE (higher priority)", got)
	}
}

func TestPriorityTarget(t *testing.T) {
	c, w := newController(t)
	tt := c.Tree
	inf := tt.SpawnUnit(w, core.KindInfantry, core.FactionGDI, geom.V(200, 100), core.NoEntity)
	harv := tt.SpawnUnit(w, core.KindHarvester, core.FactionGDI, geom.V(300, 100), core.NoEntity)
	far := tt.SpawnUnit(w, core.KindHarvester, core.FactionGDI, geom.V(100, 360), core.NoEntity)
	from := geom.V(100, 100)

	if got := PriorityTarget(w, from, []core.EntityID{inf, harv, far}, 250); got != harv {
		t.Errorf("PriorityTarget = %v, want harvester %v", got, harv)
	}
	if got := PriorityTarget(w, from, []core.EntityID{far}, 250); !got.IsZero() {
		t.Errorf("PriorityTarget picked %v beyond range", got)
	}
	w.Get(inf, core.CompHealth).(*core.Health).Current = 10
	w.Get(inf, core.CompPosition).(*core.Position).Set(geom.V(190, 100))
	if got := PriorityTarget(w, from, []core.EntityID{inf, harv}, 250); got != inf {
		t.Errorf("PriorityTarget = %v, want damaged infantry %v", got, inf)
	}
}

func TestPurchaseBuildsBarracksFirst(t *testing.T) {
	c, w := newController(t)
	hq := c.Tree.SpawnBuilding(w, core.KindHeadquarters, core.FactionNOD, geom.V(1200, 400))
	v := c.look(w)
	c.purchase(w, v)

	p := w.Get(hq, core.CompProduction).(*core.Production)
	if len(p.Queue) != 1 || p.Queue[0] != core.KindBarracks {
		t.Fatalf("queue = %v, want [barracks]", p.Queue)
	}
	if got := c.Teams.Get(core.FactionNOD).Iron; got != 1000 {
		t.Errorf("iron = %d, want 1000", got)
	}
	if p.Timer != 180 {
		t.Errorf("timer = %v, want armed at 180", p.Timer)
	}
}

func TestPurchaseRespectsQueueCap(t *testing.T) {
	c, w := newController(t)
	hq := c.Tree.SpawnBuilding(w, core.KindHeadquarters, core.FactionNOD, geom.V(1200, 400))
	p := w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindPowerPlant, core.KindPowerPlant, core.KindPowerPlant, core.KindPowerPlant, core.KindPowerPlant}
	c.purchase(w, c.look(w))
	if len(p.Queue) != 5 {
		t.Errorf("queue length = %d, want 5", len(p.Queue))
	}
	if got := c.Teams.Get(core.FactionNOD).Iron; got != 1500 {
		t.Errorf("iron = %d, want untouched 1500", got)
	}
}

func TestDesiredCounts(t *testing.T) {
	c, _ := newController(t)
	want := c.desired(3)
	tests := map[core.Kind]int{
		core.KindHarvester:  7,
		core.KindInfantry:   10,
		core.KindTank:       5,
		core.KindTurret:     5,
		core.KindPowerPlant: 2,
		core.KindBarracks:   1,
	}
	for k, n := range tests {
		if want[k] != n {
			t.Errorf("desired[%v] = %d, want %d", k, want[k], n)
		}
	}
	if got := c.desired(0)[core.KindPowerPlant]; got != 1 {
		t.Errorf("desired power plants with no harvesters = %d, want 1", got)
	}
}

func TestFindBuildingSite(t *testing.T) {
	c, w := newController(t)
	hq := c.Tree.SpawnBuilding(w, core.KindHeadquarters, core.FactionNOD, geom.V(1200, 400))
	c.Tree.SpawnField(w, geom.V(1100, 600), 5000)

	site := c.FindBuildingSite(w, hq, core.KindBarracks)
	if !c.Tree.ValidPlacement(w, core.FactionNOD, core.KindBarracks, site, c.Bounds) {
		t.Errorf("site %v does not validate", site)
	}
	if math.Mod(site.X, 32) != 0 || math.Mod(site.Y, 32) != 0 {
		t.Errorf("site %v not on the grid", site)
	}

	c.Bounds = systems.RectOf(w, hq)
	want := geom.SnapToGrid(systems.Center(w, hq), 32)
	if got := c.FindBuildingSite(w, hq, core.KindBarracks); got != want {
		t.Errorf("fallback site = %v, want %v", got, want)
	}
}

func TestScoutSendsBatch(t *testing.T) {
	c, w := newController(t)
	c.Tree.SpawnField(w, geom.V(100, 100), 5000)
	var inf []core.EntityID
	for i := 0; i < 4; i++ {
		inf = append(inf, c.Tree.SpawnUnit(w, core.KindInfantry, core.FactionNOD, geom.V(1000, float64(100+40*i)), core.NoEntity))
	}
	c.scout(w, c.look(w))
	sent := 0
	for _, id := range inf {
		if !idle(w, id) {
			sent++
		}
	}
	if sent != 2 {
		// one field plus the map center: only two points to hand out
		t.Errorf("scouts sent = %d, want 2", sent)
	}
	if c.scoutTimer != 200 {
		t.Errorf("scout timer = %d, want 200", c.scoutTimer)
	}
}

func TestWaveSizing(t *testing.T) {
	c, _ := newController(t)
	tests := []struct {
		waves    int
		surprise bool
		want     int
	}{
		{1, false, 10},
		{8, false, 24},
		{9, false, 25},
		{1, true, 13},
		{20, true, 25},
	}
	for _, tt := range tests {
		c.Waves = tt.waves
		if got := c.waveSize(tt.surprise); got != tt.want {
			t.Errorf("waveSize(wave %d, surprise %v) = %d, want %d", tt.waves, tt.surprise, got, tt.want)
		}
	}
	c.State = StateThreatened
	if got := c.tactics(false); len(got) != 2 || got[1] != TacticDefensive {
		t.Errorf("tactics under threat = %v", got)
	}
	if got := c.tactics(true); len(got) != 3 {
		t.Errorf("surprise tactics = %v, want the offensive set", got)
	}
}

func TestStrikeOrdersGroup(t *testing.T) {
	c, w := newController(t)
	target := c.Tree.SpawnUnit(w, core.KindHarvester, core.FactionGDI, geom.V(500, 400), core.NoEntity)
	var group []core.EntityID
	for i := 0; i < 3; i++ {
		id := c.Tree.SpawnUnit(w, core.KindInfantry, core.FactionNOD, geom.V(600, float64(380+20*i)), core.NoEntity)
		slot := geom.V(600, 300)
		w.Get(id, core.CompMovable).(*core.Movable).Formation = &slot
		group = append(group, id)
	}
	c.strike(w, group, []core.EntityID{target})
	for _, id := range group {
		mov := w.Get(id, core.CompMovable).(*core.Movable)
		wep := w.Get(id, core.CompWeapon).(*core.Weapon)
		if wep.TargetID != target {
			t.Errorf("unit %v target = %v, want %v", id, wep.TargetID, target)
		}
		if mov.Formation != nil || mov.Target == nil || mov.Target.Dist(geom.V(500, 400)) > 20*math.Sqrt2 {
			t.Errorf("unit %v approach point %v formation %v", id, mov.Target, mov.Formation)
		}
	}
}

func TestLaunchCountsWaveWithoutUnits(t *testing.T) {
	c, w := newController(t)
	c.launch(w, c.look(w), false)
	if c.Waves != 1 || c.waveTimer != 0 {
		t.Errorf("waves=%d timer=%d, want 1 0", c.Waves, c.waveTimer)
	}
	if c.waveInterval < 150 || c.waveInterval > 250 {
		t.Errorf("wave interval %d outside 150..250", c.waveInterval)
	}
}
