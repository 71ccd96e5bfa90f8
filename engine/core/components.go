package core

import (
	"image/color"

	"github.com/1siamBot/ironfront/engine/geom"
)

// ---- Position & Body ----

// Position is the center of an entity in world pixels
type Position struct {
	X, Y   float64
	Facing float64 // direction in radians (0 = east, π/2 = south)
}

func (p *Position) Type() ComponentType { return CompPosition }

func (p *Position) Vec() geom.Vec2 { return geom.Vec2{X: p.X, Y: p.Y} }

func (p *Position) Set(v geom.Vec2) { p.X, p.Y = v.X, v.Y }

// Body is the axis-aligned hitbox, centered on Position
type Body struct {
	W, H float64
}

func (b *Body) Type() ComponentType { return CompBody }

func (b *Body) Rect(p *Position) geom.Rect {
	return geom.RectCentered(p.Vec(), b.W, b.H)
}

// Class tags an entity with its kind
type Class struct {
	Kind Kind
}

func (c *Class) Type() ComponentType { return CompClass }

// ---- Health ----

// Health represents hit points. Current may dip below zero for the tick
// the killing blow lands; the entity is destroyed in the same call.
type Health struct {
	Current     int
	Max         int
	UnderAttack bool // set on damage, cleared at the start of every tick
}

func (h *Health) Type() ComponentType { return CompHealth }

func (h *Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return float64(h.Current) / float64(h.Max)
}

// ---- Ownership ----

// Owner identifies which team owns this entity
type Owner struct {
	Faction Faction
}

func (o *Owner) Type() ComponentType { return CompOwner }

// ---- Movement ----

// Movable represents movement capability. Target is a plain destination
// cleared on arrival; Formation is a group slot kept after arrival.
type Movable struct {
	Speed     float64 // pixels per tick
	Target    *geom.Vec2
	Formation *geom.Vec2
}

func (m *Movable) Type() ComponentType { return CompMovable }

// ---- Combat ----

// TargetMask selects what a weapon may engage
type TargetMask uint8

const (
	TargetInfantry TargetMask = 1 << iota
	TargetVehicle
	TargetBuilding
	TargetUnits = TargetInfantry | TargetVehicle
	TargetAll   = TargetUnits | TargetBuilding
)

// Weapon represents attack capability
type Weapon struct {
	Damage      int
	Range       float64
	Cooldown    int // ticks between attacks
	CooldownNow int
	Leash       float64 // drop TargetID beyond this distance; 0 = never
	Ranged      bool    // fires projectiles instead of hitting immediately
	Targets     TargetMask
	TargetID    EntityID
	Recoil      int // visual only
}

func (w *Weapon) Type() ComponentType { return CompWeapon }

// ---- Harvester ----

// HarvesterState is the economic cycle of a harvester
type HarvesterState uint8

const (
	HarvMovingToField HarvesterState = iota
	HarvHarvesting
	HarvReturning
)

func (s HarvesterState) String() string {
	switch s {
	case HarvHarvesting:
		return "harvesting"
	case HarvReturning:
		return "returning"
	default:
		return "moving_to_field"
	}
}

// Harvester represents a resource-gathering unit
type Harvester struct {
	Capacity int
	Cargo    int
	State    HarvesterState
	Field    EntityID // field being worked
	Timer    int      // harvest countdown
	HQ       EntityID // deposit point
}

func (h *Harvester) Type() ComponentType { return CompHarvester }

// ---- Building ----

// Building represents a structure
type Building struct {
	Cost         int
	PowerDraw    int
	PowerGen     int
	Construction int  // 0..construction time, visual fade-in
	Explored     bool // seen at least once by the observing team
}

func (b *Building) Type() ComponentType { return CompBuilding }

// ---- Production ----

// PendingBuilding is a finished building awaiting a placement point
type PendingBuilding struct {
	Kind Kind
}

// Production is the headquarters queue and power ledger
type Production struct {
	Queue    []Kind
	Timer    float64 // ticks left on the head of the queue; 0 = idle
	Pending  *PendingBuilding
	PowerOut int
	PowerUse int
}

func (p *Production) Type() ComponentType { return CompProduction }

// HasPower returns true if power is sufficient
func (p *Production) HasPower() bool {
	return p.PowerOut >= p.PowerUse
}

// ---- Projectile ----

// Projectile represents a moving shell chasing its target
type Projectile struct {
	TargetID   EntityID
	Speed      float64
	Damage     int
	TrailTimer int
}

func (p *Projectile) Type() ComponentType { return CompProjectile }

// ---- Resource field ----

// Resource is an iron field's stock
type Resource struct {
	Amount     int
	Max        int
	RegenTimer int
}

func (r *Resource) Type() ComponentType { return CompResource }

// ---- Selection & vision ----

// Selectable marks an entity as selectable by player
type Selectable struct {
	Selected bool
}

func (s *Selectable) Type() ComponentType { return CompSelectable }

// FogVision represents sight range in pixels
type FogVision struct {
	Radius float64
}

func (f *FogVision) Type() ComponentType { return CompFogVision }

// ---- Particles ----

// Particle is a short-lived visual effect
type Particle struct {
	VX, VY  float64
	Size    float64
	Life    int
	MaxLife int
	Color   color.RGBA
}

func (p *Particle) Type() ComponentType { return CompParticle }
