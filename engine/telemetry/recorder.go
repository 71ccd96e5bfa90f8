// Package telemetry records what happens in a match to Parquet files:
// periodic per-team statistics and the event log.
package telemetry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/match"
)

// StatsRow is one team's state at a sampled tick
type StatsRow struct {
	MatchID    string `parquet:"match_id,dict"`
	Tick       int64  `parquet:"tick"`
	Faction    string `parquet:"faction,dict"`
	Iron       int32  `parquet:"iron"`
	Infantry   int32  `parquet:"infantry"`
	Tanks      int32  `parquet:"tanks"`
	Harvesters int32  `parquet:"harvesters"`
	Buildings  int32  `parquet:"buildings"`
	PowerOut   int32  `parquet:"power_out"`
	PowerUse   int32  `parquet:"power_use"`
	QueueLen   int32  `parquet:"queue_len"`
	AIState    string `parquet:"ai_state,dict,optional"`
	Waves      int32  `parquet:"waves"`
	HQLost     bool   `parquet:"hq_lost"`
}

// EventRow is one published match event
type EventRow struct {
	MatchID string `parquet:"match_id,dict"`
	Tick    int64  `parquet:"tick"`
	Event   string `parquet:"event,dict"`
	Faction string `parquet:"faction,dict"`
	Kind    string `parquet:"kind,dict"`
}

// Recorder buffers rows for one match until Flush
type Recorder struct {
	MatchID string
	Every   uint64 // sample stats every N ticks

	// Skip drops noisy event types from the log
	Skip map[core.EventType]bool

	stats  []StatsRow
	events []EventRow
}

// NewRecorder samples every N ticks and skips shot and particle-level
// events by default.
func NewRecorder(matchID string, every uint64) *Recorder {
	return &Recorder{
		MatchID: matchID,
		Every:   max(1, every),
		Skip: map[core.EventType]bool{
			core.EvtProjectileFired: true,
			core.EvtProjectileHit:   true,
			core.EvtMeleeHit:        true,
		},
	}
}

// Follow logs every event the bus dispatches
func (r *Recorder) Follow(bus *core.EventBus) {
	bus.OnAny(r.Record)
}

// Record appends one event unless its type is skipped
func (r *Recorder) Record(e core.Event) {
	if r.Skip[e.Type] {
		return
	}
	kind := ""
	if e.Kind != core.KindNone {
		kind = e.Kind.String()
	}
	r.events = append(r.events, EventRow{
		MatchID: r.MatchID,
		Tick:    int64(e.Tick),
		Event:   e.Type.String(),
		Faction: e.Faction.String(),
		Kind:    kind,
	})
}

// Sample records the snapshot when tick falls on the sampling interval
func (r *Recorder) Sample(tick uint64, snap []match.TeamStats) {
	if tick%r.Every != 0 {
		return
	}
	for _, s := range snap {
		r.stats = append(r.stats, StatsRow{
			MatchID:    r.MatchID,
			Tick:       int64(tick),
			Faction:    s.Faction.String(),
			Iron:       int32(s.Iron),
			Infantry:   int32(s.Infantry),
			Tanks:      int32(s.Tanks),
			Harvesters: int32(s.Harvesters),
			Buildings:  int32(s.Buildings),
			PowerOut:   int32(s.PowerOut),
			PowerUse:   int32(s.PowerUse),
			QueueLen:   int32(s.QueueLen),
			AIState:    s.AIState,
			Waves:      int32(s.Waves),
			HQLost:     s.HQLost,
		})
	}
}

// Stats returns the buffered statistics rows
func (r *Recorder) Stats() []StatsRow { return r.stats }

// Events returns the buffered event rows
func (r *Recorder) Events() []EventRow { return r.events }

// Flush writes <match>_stats.parquet and <match>_events.parquet into dir
// and clears the buffers.
func (r *Recorder) Flush(dir string) (statsPath, eventsPath string, err error) {
	statsPath = filepath.Join(dir, r.MatchID+"_stats.parquet")
	eventsPath = filepath.Join(dir, r.MatchID+"_events.parquet")
	if err := writeAtomic(statsPath, r.stats, "ironfront_stats_v1"); err != nil {
		return "", "", fmt.Errorf("stats: %w", err)
	}
	if err := writeAtomic(eventsPath, r.events, "ironfront_events_v1"); err != nil {
		return "", "", fmt.Errorf("events: %w", err)
	}
	slog.Info("telemetry flushed", "match", r.MatchID, "stats", len(r.stats), "events", len(r.events), "dir", dir)
	r.stats, r.events = nil, nil
	return statsPath, eventsPath, nil
}

// writeAtomic writes rows to a temp file and renames it into place
func writeAtomic[T any](outPath string, rows []T, schema string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadStats loads a stats file written by Flush
func ReadStats(path string) ([]StatsRow, error) {
	return readAll[StatsRow](path)
}

// ReadEvents loads an events file written by Flush
func ReadEvents(path string) ([]EventRow, error) {
	return readAll[EventRow](path)
}

func readAll[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[T](pf)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows[:n], nil
}
