package systems

import (
	"math"
	"testing"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

type fixture struct {
	w      *core.World
	rules  *config.Rules
	tree   *TechTree
	teams  *core.TeamManager
	bus    *core.EventBus
	rng    *core.Rand
	bounds geom.Rect
	events []core.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r := config.Default()
	fx := &fixture{
		w:      core.NewWorld(r.TickRate),
		rules:  r,
		tree:   NewTechTree(r),
		teams:  core.NewTeamManager(),
		bus:    core.NewEventBus(),
		rng:    core.NewRand(7),
		bounds: geom.Rect{W: r.Map.Width, H: r.Map.Height},
	}
	fx.teams.AddTeam(&core.Team{Faction: core.FactionGDI, Name: "GDI"})
	fx.teams.AddTeam(&core.Team{Faction: core.FactionNOD, Name: "NOD", IsAI: true})
	fx.bus.OnAny(func(e core.Event) { fx.events = append(fx.events, e) })
	return fx
}

func (fx *fixture) unit(k core.Kind, f core.Faction, x, y float64) core.EntityID {
	return fx.tree.SpawnUnit(fx.w, k, f, geom.V(x, y), core.NoEntity)
}

func (fx *fixture) building(k core.Kind, f core.Faction, x, y float64) core.EntityID {
	return fx.tree.SpawnBuilding(fx.w, k, f, geom.V(x, y))
}

func (fx *fixture) flush() []core.Event {
	fx.events = nil
	fx.bus.Dispatch()
	return fx.events
}

func countEvents(evs []core.Event, t core.EventType) int {
	n := 0
	for _, e := range evs {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestProductionTimeDiscount(t *testing.T) {
	fx := newFixture(t)
	tests := []struct {
		kind     core.Kind
		barracks int
		want     float64
	}{
		{core.KindInfantry, 0, 180},
		{core.KindInfantry, 1, 162},
		{core.KindInfantry, 2, 145.8},
		{core.KindTank, 2, 180},
		{core.KindPowerPlant, 2, 180},
	}
	for _, tt := range tests {
		fx := newFixture(t)
		for i := 0; i < tt.barracks; i++ {
			fx.building(core.KindBarracks, core.FactionGDI, float64(100+i*100), 100)
		}
		got := fx.tree.ProductionTime(fx.w, core.FactionGDI, tt.kind)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ProductionTime(%v, %d barracks) = %v, want %v", tt.kind, tt.barracks, got, tt.want)
		}
	}
	if fx.tree.HasPrereq(fx.w, core.FactionGDI, core.KindInfantry) {
		t.Errorf("infantry buildable without barracks")
	}
	if !fx.tree.HasPrereq(fx.w, core.FactionGDI, core.KindTurret) {
		t.Errorf("turret should have no prerequisite")
	}
}

func TestPowerBalance(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	fx.building(core.KindWarFactory, core.FactionGDI, 400, 300)
	fx.building(core.KindPowerPlant, core.FactionGDI, 500, 300)
	fx.unit(core.KindHarvester, core.FactionGDI, 600, 600)
	fx.building(core.KindBarracks, core.FactionNOD, 1200, 500)

	out, use := fx.tree.Power(fx.w, core.FactionGDI, hq)
	if out != 400 || use != 55 {
		t.Errorf("Power() = %d/%d, want 400/55", out, use)
	}
}

func TestProductionSpawnsUnitAtFormationSlot(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	fx.building(core.KindBarracks, core.FactionGDI, 400, 300)
	p := fx.w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindInfantry}

	ps := &ProductionSystem{Tree: fx.tree, EventBus: fx.bus}
	for i := 0; i < 162; i++ {
		ps.Update(fx.w, 1)
	}
	if len(p.Queue) != 0 {
		t.Fatalf("queue = %v after 162 ticks, want empty", p.Queue)
	}
	units := TeamUnits(fx.w, core.FactionGDI)
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	// barracks right edge 460, center y 330, single slot offset (-40, -30)
	want := geom.V(440, 300)
	if got := Center(fx.w, units[0]); got != want {
		t.Errorf("spawned at %v, want %v", got, want)
	}
	mov := fx.w.Get(units[0], core.CompMovable).(*core.Movable)
	if mov.Formation == nil || *mov.Formation != want {
		t.Errorf("formation slot = %v, want %v", mov.Formation, want)
	}
	if n := countEvents(fx.flush(), core.EvtUnitCreated); n != 1 {
		t.Errorf("unit_created events = %d, want 1", n)
	}
}

func TestRolloutSlotStaysOnMap(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	fx.building(core.KindBarracks, core.FactionGDI, fx.bounds.W-60, 0)
	p := fx.w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindInfantry}
	p.Timer = 1

	(&ProductionSystem{Tree: fx.tree, EventBus: fx.bus, Bounds: fx.bounds}).Update(fx.w, 1)
	units := TeamUnits(fx.w, core.FactionGDI)
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
	if r := RectOf(fx.w, units[0]); !fx.bounds.Contains(r) {
		t.Errorf("rolled out at %v, outside %v", r, fx.bounds)
	}
	mov := fx.w.Get(units[0], core.CompMovable).(*core.Movable)
	if mov.Formation == nil || *mov.Formation != Center(fx.w, units[0]) {
		t.Errorf("formation slot = %v, want the clamped spawn point", mov.Formation)
	}
}

func TestProductionDropsWithoutProducer(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	p := fx.w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindTank, core.KindPowerPlant}

	ps := &ProductionSystem{Tree: fx.tree, EventBus: fx.bus}
	for i := 0; i < 180; i++ {
		ps.Update(fx.w, 1)
	}
	if len(TeamUnits(fx.w, core.FactionGDI)) != 0 {
		t.Errorf("tank spawned without a war factory")
	}
	if len(p.Queue) != 1 || p.Timer != 180 {
		t.Errorf("after drop queue=%v timer=%v, want [power_plant] 180", p.Queue, p.Timer)
	}
	if n := countEvents(fx.flush(), core.EvtProductionDropped); n != 1 {
		t.Errorf("production_dropped events = %d, want 1", n)
	}
}

func TestProductionHalfSpeedWhenUnderpowered(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	for i := 0; i < 13; i++ {
		fx.building(core.KindTurret, core.FactionGDI, float64(50*i), 700)
	}
	p := fx.w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindPowerPlant}
	p.Timer = 10

	ps := &ProductionSystem{Tree: fx.tree, EventBus: fx.bus}
	ps.Update(fx.w, 1)
	if p.HasPower() {
		t.Fatalf("power %d/%d should be short", p.PowerOut, p.PowerUse)
	}
	if p.Timer != 9.5 {
		t.Errorf("timer = %v, want 9.5", p.Timer)
	}
}

func TestFinishedBuildingBecomesPendingAndBlocksNext(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	p := fx.w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindPowerPlant, core.KindBarracks}
	p.Timer = 1

	ps := &ProductionSystem{Tree: fx.tree, EventBus: fx.bus}
	ps.Update(fx.w, 1)
	if p.Pending == nil || p.Pending.Kind != core.KindPowerPlant {
		t.Fatalf("pending = %+v, want power plant", p.Pending)
	}
	if p.Timer != 0 {
		t.Errorf("timer = %v while a building awaits placement, want 0", p.Timer)
	}
	ps.Update(fx.w, 1)
	if p.Timer != 0 || len(p.Queue) != 1 {
		t.Errorf("queue advanced while pending: timer=%v queue=%v", p.Timer, p.Queue)
	}

	if _, ok := fx.tree.PlacePending(fx.w, hq, geom.V(400, 300), fx.bounds, fx.bus); !ok {
		t.Fatalf("PlacePending rejected a valid site")
	}
	if p.Pending != nil || p.Timer != 180 {
		t.Errorf("after placement pending=%v timer=%v, want nil 180", p.Pending, p.Timer)
	}
}

func TestValidPlacement(t *testing.T) {
	fx := newFixture(t)
	fx.building(core.KindHeadquarters, core.FactionGDI, 320, 320)
	fx.building(core.KindHeadquarters, core.FactionNOD, 1200, 500)
	tests := []struct {
		name string
		at   geom.Vec2
		want bool
	}{
		{"exact overlap", geom.V(320, 320), false},
		{"adjacent in range", geom.V(416, 320), true},
		{"out of range", geom.V(800, 320), false},
		{"outside map", geom.V(320, 780), false},
		{"near enemy only", geom.V(1120, 500), false},
	}
	for _, tt := range tests {
		got := fx.tree.ValidPlacement(fx.w, core.FactionGDI, core.KindBarracks, tt.at, fx.bounds)
		if got != tt.want {
			t.Errorf("%s: ValidPlacement(%v) = %v, want %v", tt.name, tt.at, got, tt.want)
		}
	}
}

func TestHarvesterCycle(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	field := fx.tree.SpawnField(fx.w, geom.V(400, 300), 5000)
	h := fx.tree.SpawnUnit(fx.w, core.KindHarvester, core.FactionGDI, Center(fx.w, field), hq)
	harv := fx.w.Get(h, core.CompHarvester).(*core.Harvester)

	hs := &HarvesterSystem{Rules: fx.rules, Teams: fx.teams, EventBus: fx.bus}
	hs.Update(fx.w, 1)
	if harv.State != core.HarvHarvesting || harv.Timer != 40 {
		t.Fatalf("state=%v timer=%d, want harvesting 40", harv.State, harv.Timer)
	}
	for i := 0; i < 41; i++ {
		hs.Update(fx.w, 1)
	}
	if harv.State != core.HarvReturning || harv.Cargo != 100 {
		t.Fatalf("state=%v cargo=%d, want returning 100", harv.State, harv.Cargo)
	}
	if got := fx.w.Get(field, core.CompResource).(*core.Resource).Amount; got != 4900 {
		t.Errorf("field amount = %d, want 4900", got)
	}

	hs.Update(fx.w, 1)
	mov := fx.w.Get(h, core.CompMovable).(*core.Movable)
	if mov.Target == nil || *mov.Target != Center(fx.w, hq) {
		t.Fatalf("returning target = %v, want hq center", mov.Target)
	}
	fx.w.Get(h, core.CompPosition).(*core.Position).Set(Center(fx.w, hq))
	hs.Update(fx.w, 1)
	if got := fx.teams.Get(core.FactionGDI).Iron; got != 100 {
		t.Errorf("team iron = %d, want 100", got)
	}
	if harv.State != core.HarvMovingToField || harv.Cargo != 0 {
		t.Errorf("after deposit state=%v cargo=%d", harv.State, harv.Cargo)
	}
}

func TestNearestFieldPrefersRich(t *testing.T) {
	fx := newFixture(t)
	poor := fx.tree.SpawnField(fx.w, geom.V(100, 100), 500)
	rich := fx.tree.SpawnField(fx.w, geom.V(600, 100), 1000)
	if got := NearestField(fx.w, geom.V(100, 100), 1000); got != rich {
		t.Errorf("NearestField = %v, want the rich field %v", got, rich)
	}
	fx.w.Get(rich, core.CompResource).(*core.Resource).Amount = 999
	if got := NearestField(fx.w, geom.V(100, 100), 1000); got != poor {
		t.Errorf("NearestField = %v, want nearest %v when none is rich", got, poor)
	}
}

func TestFieldRegenCapped(t *testing.T) {
	fx := newFixture(t)
	f := fx.tree.SpawnField(fx.w, geom.V(100, 100), 4990)
	fs := &FieldSystem{Rules: fx.rules}
	for i := 0; i < 1000; i++ {
		fs.Update(fx.w, 1)
	}
	if got := fx.w.Get(f, core.CompResource).(*core.Resource).Amount; got != 5000 {
		t.Errorf("amount = %d, want capped at 5000", got)
	}
}

func TestMeleeKillClearsTarget(t *testing.T) {
	fx := newFixture(t)
	a := fx.unit(core.KindInfantry, core.FactionGDI, 100, 100)
	b := fx.unit(core.KindInfantry, core.FactionNOD, 130, 100)
	fx.w.Get(b, core.CompHealth).(*core.Health).Current = 8

	cs := &CombatSystem{Teams: fx.teams, Tree: fx.tree, Rand: fx.rng, EventBus: fx.bus}
	cs.Update(fx.w, 1)
	if fx.w.Alive(b) {
		t.Fatalf("target survived a lethal hit")
	}
	wep := fx.w.Get(a, core.CompWeapon).(*core.Weapon)
	if !wep.TargetID.IsZero() || wep.CooldownNow != 25 {
		t.Errorf("attacker target=%v cooldown=%d, want cleared 25", wep.TargetID, wep.CooldownNow)
	}
	if fx.w.Get(a, core.CompMovable).(*core.Movable).Target != nil {
		t.Errorf("attacker kept its target point")
	}
	if h := fx.w.Get(a, core.CompHealth).(*core.Health); h.Current != h.Max {
		t.Errorf("dead unit struck back: hp %d", h.Current)
	}
	if n := countEvents(fx.flush(), core.EvtEntityDestroyed); n != 1 {
		t.Errorf("entity_destroyed events = %d, want 1", n)
	}
}

func TestTankShellDamagesOnArrival(t *testing.T) {
	fx := newFixture(t)
	fx.unit(core.KindTank, core.FactionGDI, 100, 100)
	victim := fx.unit(core.KindInfantry, core.FactionNOD, 250, 100)
	// keep the infantry from shooting back
	fx.w.Detach(victim, core.CompWeapon)

	cs := &CombatSystem{Teams: fx.teams, Tree: fx.tree, Rand: fx.rng, EventBus: fx.bus}
	ps := &ProjectileSystem{Rules: fx.rules, Rand: fx.rng, EventBus: fx.bus}
	is := &ImpactSystem{Projectiles: ps}
	cs.Update(fx.w, 1)
	if n := len(fx.w.Query(core.CompProjectile)); n != 1 {
		t.Fatalf("projectiles = %d, want 1", n)
	}
	hp := fx.w.Get(victim, core.CompHealth).(*core.Health)
	if hp.Current != 60 {
		t.Fatalf("damage applied at fire time: hp %d", hp.Current)
	}
	for i := 0; i < 40 && len(fx.w.Query(core.CompProjectile)) > 0; i++ {
		ps.Update(fx.w, 1)
		is.Update(fx.w, 1)
	}
	if hp.Current != 40 || !hp.UnderAttack {
		t.Errorf("victim hp=%d underAttack=%v, want 40 true", hp.Current, hp.UnderAttack)
	}
}

func TestShellFizzlesWhenTargetDies(t *testing.T) {
	fx := newFixture(t)
	victim := fx.unit(core.KindInfantry, core.FactionNOD, 400, 100)
	shell := fx.tree.SpawnProjectile(fx.w, core.FactionGDI, geom.V(100, 100), victim, 20)
	fx.w.Destroy(victim)

	ps := &ProjectileSystem{Rules: fx.rules, EventBus: fx.bus}
	ps.Update(fx.w, 1)
	if fx.w.Alive(shell) {
		t.Errorf("shell outlived its target")
	}
}

func TestImpactPrefersUnitsOverBuildings(t *testing.T) {
	fx := newFixture(t)
	bldg := fx.building(core.KindBarracks, core.FactionNOD, 500, 500)
	c := Center(fx.w, bldg)
	unit := fx.unit(core.KindInfantry, core.FactionNOD, c.X, c.Y)
	far := fx.unit(core.KindInfantry, core.FactionNOD, 1000, 100)
	fx.tree.SpawnProjectile(fx.w, core.FactionGDI, c, far, 20)

	ps := &ProjectileSystem{Rules: fx.rules, EventBus: fx.bus}
	(&ImpactSystem{Projectiles: ps}).Update(fx.w, 1)
	if got := fx.w.Get(unit, core.CompHealth).(*core.Health).Current; got != 40 {
		t.Errorf("unit hp = %d, want 40", got)
	}
	if h := fx.w.Get(bldg, core.CompHealth).(*core.Health); h.Current != h.Max {
		t.Errorf("building took damage: %d", h.Current)
	}
}

func TestTurretIgnoresBuildings(t *testing.T) {
	fx := newFixture(t)
	fx.building(core.KindTurret, core.FactionGDI, 100, 100)
	fx.building(core.KindBarracks, core.FactionNOD, 200, 100)
	ts := &TurretSystem{Tree: fx.tree, EventBus: fx.bus}
	ts.Update(fx.w, 1)
	if n := len(fx.w.Query(core.CompProjectile)); n != 0 {
		t.Errorf("turret fired at a building")
	}
	fx.unit(core.KindTank, core.FactionNOD, 200, 200)
	ts.Update(fx.w, 1)
	if n := len(fx.w.Query(core.CompProjectile)); n != 1 {
		t.Errorf("projectiles = %d, want 1", n)
	}
}

func TestCollisionPushesBothUnits(t *testing.T) {
	fx := newFixture(t)
	a := fx.unit(core.KindInfantry, core.FactionGDI, 100, 100)
	b := fx.unit(core.KindInfantry, core.FactionNOD, 110, 100)
	(&CollisionSystem{Bounds: fx.bounds, Rules: fx.rules}).Update(fx.w, 1)
	if got := Center(fx.w, a); got != geom.V(99.5, 100) {
		t.Errorf("a = %v, want (99.5, 100)", got)
	}
	if got := Center(fx.w, b); got != geom.V(110.5, 100) {
		t.Errorf("b = %v, want (110.5, 100)", got)
	}
}

func TestMovementStopsAtAttackRange(t *testing.T) {
	fx := newFixture(t)
	tank := fx.unit(core.KindTank, core.FactionGDI, 100, 100)
	enemy := fx.unit(core.KindInfantry, core.FactionNOD, 301, 100)
	fx.w.Get(tank, core.CompWeapon).(*core.Weapon).TargetID = enemy

	ms := &MovementSystem{Bounds: fx.bounds, Rules: fx.rules}
	for i := 0; i < 10; i++ {
		ms.Update(fx.w, 1)
	}
	if got := Center(fx.w, tank).X; math.Abs(got-101) > 1e-9 {
		t.Errorf("tank x = %v, want 101 (stopped at range 200)", got)
	}
}

func TestLeashDropsDistantTarget(t *testing.T) {
	fx := newFixture(t)
	inf := fx.unit(core.KindInfantry, core.FactionGDI, 100, 100)
	enemy := fx.unit(core.KindInfantry, core.FactionNOD, 400, 100)
	wep := fx.w.Get(inf, core.CompWeapon).(*core.Weapon)
	wep.TargetID = enemy
	(&MovementSystem{Bounds: fx.bounds, Rules: fx.rules}).Update(fx.w, 1)
	if !wep.TargetID.IsZero() {
		t.Errorf("target beyond leash kept")
	}
}

func TestMovementClampsToMap(t *testing.T) {
	fx := newFixture(t)
	u := fx.unit(core.KindHarvester, core.FactionGDI, 10, 10)
	(&MovementSystem{Bounds: fx.bounds, Rules: fx.rules}).Update(fx.w, 1)
	if r := RectOf(fx.w, u); !fx.bounds.Contains(r) {
		t.Errorf("rect %v leaves the map", r)
	}
}

func TestFogRevealAndExplore(t *testing.T) {
	fog := NewFogOfWar(1600, 800, 32, core.FactionGDI)
	if fog.Cols != 50 || fog.Rows != 25 {
		t.Fatalf("grid %dx%d, want 50x25", fog.Cols, fog.Rows)
	}
	fog.Reveal(geom.V(16, 16), 0)
	tests := []struct {
		p    geom.Vec2
		want bool
	}{
		{geom.V(5, 5), true},
		{geom.V(40, 16), false},
		{geom.V(-1, 5), false},
		{geom.V(5000, 5), false},
	}
	for _, tt := range tests {
		if got := fog.IsVisible(tt.p); got != tt.want {
			t.Errorf("IsVisible(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestFogSystemMarksEnemyBuildingsExplored(t *testing.T) {
	fx := newFixture(t)
	scout := fx.unit(core.KindInfantry, core.FactionGDI, 100, 100)
	enemy := fx.building(core.KindBarracks, core.FactionNOD, 150, 70)

	fs := NewFogSystem(1600, 800, 32, core.FactionGDI)
	fs.Update(fx.w, 1)
	if !fx.w.Get(enemy, core.CompBuilding).(*core.Building).Explored {
		t.Errorf("visible enemy building not explored")
	}
	fog := fs.Fogs[core.FactionGDI]

	fx.w.Get(scout, core.CompPosition).(*core.Position).Set(geom.V(1500, 700))
	fs.Update(fx.w, 1)
	if fog.IsVisible(geom.V(100, 100)) || !fog.IsExplored(geom.V(100, 100)) {
		t.Errorf("old scout tile should be explored but not visible")
	}
	if !fog.IsVisible(geom.V(1500, 700)) {
		t.Errorf("scout tile not visible")
	}
}

func TestGameOverFlagsOnce(t *testing.T) {
	fx := newFixture(t)
	fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	g := &GameOverSystem{Teams: fx.teams, EventBus: fx.bus}
	g.Update(fx.w, 1)
	g.Update(fx.w, 1)
	if !fx.teams.Get(core.FactionNOD).HQLost || fx.teams.Get(core.FactionGDI).HQLost {
		t.Errorf("HQLost flags wrong")
	}
	if n := countEvents(fx.flush(), core.EvtHeadquartersLost); n != 1 {
		t.Errorf("headquarters_lost events = %d, want 1", n)
	}
}

func TestUnderpoweredIdleQueueRunsAtHalfSpeed(t *testing.T) {
	fx := newFixture(t)
	hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
	for i := 0; i < 13; i++ {
		fx.building(core.KindTurret, core.FactionGDI, float64(50*i), 700)
	}
	p := fx.w.Get(hq, core.CompProduction).(*core.Production)
	p.Queue = []core.Kind{core.KindPowerPlant}

	ps := &ProductionSystem{Tree: fx.tree, EventBus: fx.bus}
	base := fx.tree.ProductionTime(fx.w, core.FactionGDI, core.KindPowerPlant)
	ticks := int(2 * base)
	for i := 0; i < ticks-1; i++ {
		ps.Update(fx.w, 1)
	}
	if p.HasPower() {
		t.Fatalf("power %d/%d should be short", p.PowerOut, p.PowerUse)
	}
	if p.Pending != nil || p.Timer != 0.5 {
		t.Fatalf("after %d ticks pending=%v timer=%v, want nil 0.5", ticks-1, p.Pending, p.Timer)
	}
	ps.Update(fx.w, 1)
	if p.Pending == nil || p.Pending.Kind != core.KindPowerPlant || len(p.Queue) != 0 {
		t.Errorf("after %d ticks pending=%v queue=%v, want power plant ready", ticks, p.Pending, p.Queue)
	}
}

func TestHarvesterKeepsFieldUntilDry(t *testing.T) {
	tests := []struct {
		name    string
		amount  int
		destroy bool
		keep    bool
	}{
		{"half mined", 900, false, true},
		{"one left", 1, false, true},
		{"dry", 0, false, false},
		{"gone", 900, true, false},
	}
	for _, tt := range tests {
		fx := newFixture(t)
		hq := fx.building(core.KindHeadquarters, core.FactionGDI, 300, 300)
		near := fx.tree.SpawnField(fx.w, geom.V(100, 100), tt.amount)
		far := fx.tree.SpawnField(fx.w, geom.V(1200, 300), 5000)
		h := fx.tree.SpawnUnit(fx.w, core.KindHarvester, core.FactionGDI, Center(fx.w, near), hq)
		harv := fx.w.Get(h, core.CompHarvester).(*core.Harvester)
		harv.Field = near
		if tt.destroy {
			fx.w.Destroy(near)
		}

		(&HarvesterSystem{Rules: fx.rules, Teams: fx.teams, EventBus: fx.bus}).Update(fx.w, 1)
		want := far
		if tt.keep {
			want = near
		}
		if harv.Field != want {
			t.Errorf("%s: field = %v, want %v (near %v, far %v)", tt.name, harv.Field, want, near, far)
		}
	}
}

func TestHarvesterDefendsAgainstInfantry(t *testing.T) {
	tests := []struct {
		name    string
		kind    core.Kind
		faction core.Faction
		dx      float64
		hit     bool
	}{
		{"enemy infantry in reach", core.KindInfantry, core.FactionNOD, 40, true},
		{"enemy infantry out of reach", core.KindInfantry, core.FactionNOD, 80, false},
		{"enemy tank in reach", core.KindTank, core.FactionNOD, 40, false},
		{"friendly infantry", core.KindInfantry, core.FactionGDI, 40, false},
	}
	for _, tt := range tests {
		fx := newFixture(t)
		h := fx.unit(core.KindHarvester, core.FactionGDI, 500, 500)
		other := fx.unit(tt.kind, tt.faction, 500+tt.dx, 500)
		hp := fx.w.Get(other, core.CompHealth).(*core.Health)
		before := hp.Current

		(&HarvesterSystem{Rules: fx.rules, Teams: fx.teams, Rand: fx.rng, EventBus: fx.bus}).Update(fx.w, 1)
		wep := fx.w.Get(h, core.CompWeapon).(*core.Weapon)
		if got := hp.Current < before; got != tt.hit {
			t.Errorf("%s: hit = %v, want %v (hp %d -> %d)", tt.name, got, tt.hit, before, hp.Current)
		}
		if tt.hit && (hp.Current != before-wep.Damage || wep.CooldownNow != wep.Cooldown) {
			t.Errorf("%s: hp=%d cooldown=%d, want %d %d", tt.name, hp.Current, wep.CooldownNow, before-wep.Damage, wep.Cooldown)
		}
	}
}

func TestMovementArrival(t *testing.T) {
	tests := []struct {
		name      string
		formation bool
		dx        float64
		kept      bool
		moved     bool
	}{
		{"formation slot reached", true, 3, true, false},
		{"formation slot ahead", true, 50, true, true},
		{"move point reached", false, 3, false, false},
		{"move point ahead", false, 50, true, true},
	}
	for _, tt := range tests {
		fx := newFixture(t)
		u := fx.unit(core.KindInfantry, core.FactionGDI, 300, 300)
		mov := fx.w.Get(u, core.CompMovable).(*core.Movable)
		to := geom.V(300+tt.dx, 300)
		if tt.formation {
			mov.Formation = &to
		} else {
			mov.Target = &to
		}

		(&MovementSystem{Bounds: fx.bounds, Rules: fx.rules}).Update(fx.w, 1)
		kept := mov.Target != nil
		if tt.formation {
			kept = mov.Formation != nil
		}
		if kept != tt.kept {
			t.Errorf("%s: kept = %v, want %v", tt.name, kept, tt.kept)
		}
		if moved := Center(fx.w, u) != geom.V(300, 300); moved != tt.moved {
			t.Errorf("%s: moved = %v, want %v", tt.name, moved, tt.moved)
		}
	}
}
