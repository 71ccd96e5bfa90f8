// Package match wires the simulation together: one world, two teams, the
// systems in their fixed order, and the commands and queries the outer
// layers use.
package match

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/1siamBot/ironfront/engine/ai"
	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/systems"
)

// Options tune a match beyond its rules and layout
type Options struct {
	Seed     int64          // 0 picks one from the clock
	AI       []core.Faction // computer-controlled sides; nil means NOD
	Observer core.Faction   // side whose fog the queries report; default GDI
}

// Match is one running game
type Match struct {
	Rules       *config.Rules
	Battlefield *maplib.Battlefield
	World       *core.World
	Tree        *systems.TechTree
	Teams       *core.TeamManager
	Bus         *core.EventBus
	Rand        *core.Rand
	Fog         *systems.FogSystem
	Ground      *maplib.TileMap
	AI          map[core.Faction]*ai.Controller
	Bounds      geom.Rect
	Observer    core.Faction

	selectedBuilding core.EntityID
}

// New builds the world and spawns both bases, their starting units and
// the iron fields.
func New(r *config.Rules, bf *maplib.Battlefield, opts Options) (*Match, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	if err := bf.Validate(); err != nil {
		return nil, fmt.Errorf("battlefield: %w", err)
	}
	if opts.AI == nil {
		opts.AI = []core.Faction{core.FactionNOD}
	}
	if opts.Observer == core.FactionNone {
		opts.Observer = core.FactionGDI
	}

	rng := core.NewRand(opts.Seed)
	m := &Match{
		Rules:       r,
		Battlefield: bf,
		World:       core.NewWorld(r.TickRate),
		Tree:        systems.NewTechTree(r),
		Teams:       core.NewTeamManager(),
		Bus:         core.NewEventBus(),
		Rand:        rng,
		Ground:      maplib.NewTileMap(bf.Width, bf.Height, bf.TileSize, core.NewRand(rng.Seed+1)),
		AI:          make(map[core.Faction]*ai.Controller),
		Bounds:      geom.Rect{W: bf.Width, H: bf.Height},
		Observer:    opts.Observer,
	}

	for _, s := range bf.Starts {
		iron := s.Iron
		if iron == 0 {
			iron = r.Economy.StartIron
		}
		m.Teams.AddTeam(&core.Team{
			Faction: s.Faction,
			Name:    s.Faction.String(),
			Iron:    iron,
			IsAI:    slices.Contains(opts.AI, s.Faction),
		})
		hq := m.Tree.SpawnBuilding(m.World, core.KindHeadquarters, s.Faction, s.HQ)
		for _, u := range s.Units {
			m.Tree.SpawnUnit(m.World, u.Kind, s.Faction, geom.V(u.X, u.Y), hq)
		}
	}
	for _, f := range bf.ScatterFields(rng, r.Field.Capacity) {
		m.Tree.SpawnField(m.World, geom.V(f.X, f.Y), f.Amount)
	}

	var controllers []*ai.Controller
	for _, t := range m.Teams.Teams {
		if !t.IsAI {
			continue
		}
		c, err := ai.NewController(t.Faction, r, m.Tree, m.Teams, rng, m.Bus)
		if err != nil {
			return nil, fmt.Errorf("ai %v: %w", t.Faction, err)
		}
		c.Bounds = m.Bounds
		m.AI[t.Faction] = c
		controllers = append(controllers, c)
	}

	m.Fog = systems.NewFogSystem(bf.Width, bf.Height, r.Fog.TileSize, opts.Observer)
	w := m.World
	w.AddSystem(&systems.MovementSystem{Bounds: m.Bounds, Rules: r})
	w.AddSystem(&systems.HarvesterSystem{Rules: r, Teams: m.Teams, Rand: rng, EventBus: m.Bus})
	w.AddSystem(&systems.FieldSystem{Rules: r})
	w.AddSystem(&systems.ConstructionSystem{Time: r.Construction.Time})
	w.AddSystem(&systems.ProductionSystem{Tree: m.Tree, EventBus: m.Bus, Bounds: m.Bounds})
	w.AddSystem(&systems.TurretSystem{Tree: m.Tree, Rand: rng, EventBus: m.Bus})
	projectiles := &systems.ProjectileSystem{Rules: r, Rand: rng, EventBus: m.Bus}
	w.AddSystem(projectiles)
	w.AddSystem(&systems.ParticleSystem{})
	w.AddSystem(&systems.CollisionSystem{Bounds: m.Bounds, Rules: r})
	w.AddSystem(&systems.CombatSystem{Teams: m.Teams, Tree: m.Tree, Rand: rng, EventBus: m.Bus})
	w.AddSystem(&systems.ImpactSystem{Projectiles: projectiles})
	if len(controllers) > 0 {
		w.AddSystem(&ai.System{Controllers: controllers})
	}
	w.AddSystem(m.Fog)
	w.AddSystem(&systems.GameOverSystem{Teams: m.Teams, EventBus: m.Bus})

	// fog is valid before the first tick
	m.Fog.Update(w, 0)

	slog.Info("match created", "battlefield", bf.Name, "seed", rng.Seed, "entities", w.EntityCount(), "ai", opts.AI)
	return m, nil
}

// Tick advances the simulation by one fixed step and dispatches the
// events it produced.
func (m *Match) Tick() {
	for _, id := range m.World.Query(core.CompHealth) {
		m.World.Get(id, core.CompHealth).(*core.Health).UnderAttack = false
	}
	m.World.Tick(1 / m.Rules.TickRate)
	if !m.World.Alive(m.selectedBuilding) {
		m.selectedBuilding = core.NoEntity
	}
	m.Bus.Dispatch()
}

// TickCount returns how many ticks have run
func (m *Match) TickCount() uint64 {
	return m.World.TickCount
}
