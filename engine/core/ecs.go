package core

// EntityID is a generation-checked handle into the world arena. A handle
// to a killed entity never resolves again, even after its slot is reused.
type EntityID struct {
	Index uint32
	Gen   uint32
}

// NoEntity is the zero handle; it never resolves
var NoEntity EntityID

func (id EntityID) IsZero() bool { return id.Gen == 0 }

// Component is a marker interface for all components
type Component interface {
	Type() ComponentType
}

// ComponentType identifies the type of component
type ComponentType uint32

const (
	CompPosition ComponentType = iota
	CompBody
	CompHealth
	CompOwner
	CompClass
	CompMovable
	CompWeapon
	CompHarvester
	CompBuilding
	CompProduction
	CompProjectile
	CompResource
	CompSelectable
	CompFogVision
	CompParticle
	CompMax
)

type slot struct {
	gen   uint32
	alive bool
	comps [CompMax]Component
}

// World holds all entities and their components
type World struct {
	slots     []slot
	free      []uint32
	systems   []System
	toRemove  []EntityID
	live      int
	TickCount uint64
	TickRate  float64 // ticks per second
}

// System processes entities each tick
type System interface {
	Update(w *World, dt float64)
	Priority() int
}

// NewWorld creates a new ECS world
func NewWorld(tickRate float64) *World {
	return &World{TickRate: tickRate}
}

// Spawn creates a new entity and returns its handle
func (w *World) Spawn() EntityID {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.slots = append(w.slots, slot{})
		idx = uint32(len(w.slots) - 1)
	}
	s := &w.slots[idx]
	s.gen++
	s.alive = true
	w.live++
	return EntityID{Index: idx, Gen: s.gen}
}

func (w *World) slot(id EntityID) *slot {
	if id.Gen == 0 || int(id.Index) >= len(w.slots) {
		return nil
	}
	s := &w.slots[id.Index]
	if s.gen != id.Gen || !s.alive {
		return nil
	}
	return s
}

// Alive reports whether id refers to a live entity
func (w *World) Alive(id EntityID) bool {
	return w.slot(id) != nil
}

// Attach adds a component to an entity
func (w *World) Attach(id EntityID, c Component) {
	if s := w.slot(id); s != nil {
		s.comps[c.Type()] = c
	}
}

// Detach removes a component from an entity
func (w *World) Detach(id EntityID, ct ComponentType) {
	if s := w.slot(id); s != nil {
		s.comps[ct] = nil
	}
}

// Get returns a component for a live entity, or nil
func (w *World) Get(id EntityID, ct ComponentType) Component {
	if s := w.slot(id); s != nil {
		return s.comps[ct]
	}
	return nil
}

// Has checks if a live entity has a component
func (w *World) Has(id EntityID, ct ComponentType) bool {
	return w.Get(id, ct) != nil
}

// Destroy kills an entity. It stops resolving at once; its slot is
// recycled at the end of the tick. Destroying twice is a no-op.
func (w *World) Destroy(id EntityID) {
	s := w.slot(id)
	if s == nil {
		return
	}
	s.alive = false
	w.live--
	w.toRemove = append(w.toRemove, id)
}

// Query returns live entity IDs that have ALL specified component types,
// in arena index order.
func (w *World) Query(types ...ComponentType) []EntityID {
	var result []EntityID
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive {
			continue
		}
		match := true
		for _, t := range types {
			if s.comps[t] == nil {
				match = false
				break
			}
		}
		if match {
			result = append(result, EntityID{Index: uint32(i), Gen: s.gen})
		}
	}
	return result
}

// AddSystem registers a system
func (w *World) AddSystem(s System) {
	w.systems = append(w.systems, s)
	// Sort by priority (simple insertion)
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i].Priority() < w.systems[i-1].Priority() {
			w.systems[i], w.systems[i-1] = w.systems[i-1], w.systems[i]
		}
	}
}

// Systems returns the registered systems in run order
func (w *World) Systems() []System {
	return w.systems
}

// Tick runs all systems once
func (w *World) Tick(dt float64) {
	for _, s := range w.systems {
		s.Update(w, dt)
	}
	w.Sweep()
	w.TickCount++
}

// Sweep recycles the slots of entities destroyed since the last sweep
func (w *World) Sweep() {
	for _, id := range w.toRemove {
		s := &w.slots[id.Index]
		s.comps = [CompMax]Component{}
		w.free = append(w.free, id.Index)
	}
	w.toRemove = w.toRemove[:0]
}

// EntityCount returns the number of alive entities
func (w *World) EntityCount() int {
	return w.live
}
