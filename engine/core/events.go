package core

// Event represents a game event
type Event struct {
	Type    EventType
	Tick    uint64
	Faction Faction
	Kind    Kind
	Entity  EntityID
	Payload interface{}
}

type EventType uint16

const (
	EvtUnitCreated EventType = iota
	EvtEntityDestroyed
	EvtBuildingPlaced
	EvtBuildingSold
	EvtBuildingReady // finished in the queue, awaiting placement
	EvtProductionQueued
	EvtProductionDropped
	EvtProjectileFired
	EvtProjectileHit
	EvtMeleeHit
	EvtIronDeposited
	EvtAIStateChanged
	EvtWaveLaunched
	EvtHeadquartersLost
	EvtMax
)

var eventNames = [...]string{
	EvtUnitCreated:       "unit_created",
	EvtEntityDestroyed:   "entity_destroyed",
	EvtBuildingPlaced:    "building_placed",
	EvtBuildingSold:      "building_sold",
	EvtBuildingReady:     "building_ready",
	EvtProductionQueued:  "production_queued",
	EvtProductionDropped: "production_dropped",
	EvtProjectileFired:   "projectile_fired",
	EvtProjectileHit:     "projectile_hit",
	EvtMeleeHit:          "melee_hit",
	EvtIronDeposited:     "iron_deposited",
	EvtAIStateChanged:    "ai_state_changed",
	EvtWaveLaunched:      "wave_launched",
	EvtHeadquartersLost:  "headquarters_lost",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) && eventNames[t] != "" {
		return eventNames[t]
	}
	return "unknown"
}

// StateChange is the payload of EvtAIStateChanged
type StateChange struct {
	From, To string
}

// Wave is the payload of EvtWaveLaunched
type Wave struct {
	Number   int
	Size     int
	Tactic   string
	Surprise bool
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	any       []EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// OnAny registers a handler for every event type
func (eb *EventBus) OnAny(h EventHandler) {
	eb.any = append(eb.any, h)
}

// Emit queues an event for dispatch. A nil bus drops the event.
func (eb *EventBus) Emit(e Event) {
	if eb == nil {
		return
	}
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events
func (eb *EventBus) Dispatch() {
	for _, e := range eb.queue {
		for _, h := range eb.any {
			h(e)
		}
		if handlers, ok := eb.listeners[e.Type]; ok {
			for _, h := range handlers {
				h(e)
			}
		}
	}
	eb.queue = eb.queue[:0]
}
