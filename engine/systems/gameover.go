package systems

import (
	"log/slog"

	"github.com/1siamBot/ironfront/engine/core"
)

// GameOverSystem flags teams that lost their last headquarters. The match
// keeps running.
type GameOverSystem struct {
	Teams    *core.TeamManager
	EventBus *core.EventBus
}

func (s *GameOverSystem) Priority() int { return 80 }

func (s *GameOverSystem) Update(w *core.World, _ float64) {
	for _, t := range s.Teams.Teams {
		if t.HQLost || Count(w, t.Faction, core.KindHeadquarters) > 0 {
			continue
		}
		t.HQLost = true
		slog.Warn("headquarters lost", "faction", t.Faction, "tick", w.TickCount)
		s.EventBus.Emit(core.Event{Type: core.EvtHeadquartersLost, Tick: w.TickCount, Faction: t.Faction})
	}
}
