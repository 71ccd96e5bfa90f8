package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/match"
	"github.com/1siamBot/ironfront/engine/telemetry"
)

// MatchConfig is one headless computer-versus-computer match
type MatchConfig struct {
	Rules       *config.Rules
	Battlefield *maplib.Battlefield
	Seed        int64
	MaxTicks    uint64
	SampleEvery uint64
	OutDir      string // "" skips writing telemetry
}

// MatchResult summarizes a finished match
type MatchResult struct {
	MatchID string
	Seed    int64
	Ticks   uint64
	Winner  core.Faction // FactionNone when the tick limit ran out
	Waves   int
	Events  int
}

// PlayMatch runs one match until a headquarters falls, the tick limit is
// hit or ctx is cancelled. onTick is called after every tick.
func PlayMatch(ctx context.Context, cfg MatchConfig, onTick func()) (MatchResult, error) {
	m, err := match.New(cfg.Rules, cfg.Battlefield, match.Options{Seed: cfg.Seed, AI: core.Factions})
	if err != nil {
		return MatchResult{}, err
	}
	res := MatchResult{MatchID: fmt.Sprintf("match_%d", m.Rand.Seed), Seed: m.Rand.Seed}

	rec := telemetry.NewRecorder(res.MatchID, cfg.SampleEvery)
	rec.Follow(m.Bus)

	for m.TickCount() < cfg.MaxTicks {
		if m.TickCount()%60 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		m.Tick()
		if onTick != nil {
			onTick()
		}
		snap := m.Snapshot()
		rec.Sample(m.TickCount(), snap)
		if w, done := winner(snap); done {
			res.Winner = w
			break
		}
	}
	res.Ticks = m.TickCount()
	res.Events = len(rec.Events())
	for _, s := range m.Snapshot() {
		res.Waves += s.Waves
	}

	if cfg.OutDir != "" {
		// final sample so every file ends on the last tick
		if res.Ticks%rec.Every != 0 {
			rec.Every = 1
			rec.Sample(res.Ticks, m.Snapshot())
		}
		if _, _, err := rec.Flush(cfg.OutDir); err != nil {
			return res, fmt.Errorf("flush %s: %w", res.MatchID, err)
		}
	}
	slog.Debug("match finished", "match", res.MatchID, "ticks", res.Ticks, "winner", res.Winner)
	return res, nil
}

// winner reports the last side standing once any headquarters is lost
func winner(snap []match.TeamStats) (core.Faction, bool) {
	var alive []core.Faction
	lost := false
	for _, s := range snap {
		if s.HQLost {
			lost = true
		} else {
			alive = append(alive, s.Faction)
		}
	}
	if !lost {
		return core.FactionNone, false
	}
	if len(alive) == 1 {
		return alive[0], true
	}
	return core.FactionNone, true
}
