package telemetry

import (
	"testing"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/match"
)

func TestSampleInterval(t *testing.T) {
	r := NewRecorder("m1", 60)
	snap := []match.TeamStats{{Faction: core.FactionGDI, Iron: 10}, {Faction: core.FactionNOD, Iron: 20}}
	for tick := uint64(0); tick < 180; tick++ {
		r.Sample(tick, snap)
	}
	if n := len(r.Stats()); n != 6 {
		t.Fatalf("Stats() = %d rows, want 6", n)
	}
	if row := r.Stats()[3]; row.Tick != 60 || row.Faction != "NOD" || row.Iron != 20 {
		t.Errorf("row 3 = %+v", row)
	}
}

func TestRecordSkipsNoise(t *testing.T) {
	r := NewRecorder("m1", 1)
	r.Record(core.Event{Type: core.EvtProjectileFired, Tick: 3})
	r.Record(core.Event{Type: core.EvtUnitCreated, Tick: 4, Faction: core.FactionNOD, Kind: core.KindTank})
	r.Record(core.Event{Type: core.EvtHeadquartersLost, Tick: 5, Faction: core.FactionGDI})
	ev := r.Events()
	if len(ev) != 2 {
		t.Fatalf("Events() = %d, want 2", len(ev))
	}
	want := EventRow{MatchID: "m1", Tick: 4, Event: "unit_created", Faction: "NOD", Kind: "tank"}
	if ev[0] != want {
		t.Errorf("event 0 = %+v, want %+v", ev[0], want)
	}
	if ev[1].Kind != "" {
		t.Errorf("kindless event got kind %q", ev[1].Kind)
	}
}

func TestFlushAndReadBack(t *testing.T) {
	r := config.Default()
	m, err := match.New(r, maplib.Default(r), match.Options{Seed: 9, AI: core.Factions})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := NewRecorder("seed9", 100)
	rec.Follow(m.Bus)
	for i := 0; i < 300; i++ {
		m.Tick()
		rec.Sample(m.TickCount(), m.Snapshot())
	}
	wantStats, wantEvents := len(rec.Stats()), len(rec.Events())

	dir := t.TempDir()
	statsPath, eventsPath, err := rec.Flush(dir)
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(rec.Stats()) != 0 || len(rec.Events()) != 0 {
		t.Error("Flush left rows buffered")
	}

	stats, err := ReadStats(statsPath)
	if err != nil {
		t.Fatalf("ReadStats: %v", err)
	}
	if len(stats) != wantStats || wantStats != 6 {
		t.Errorf("read %d stats rows, recorded %d, want 6", len(stats), wantStats)
	}
	if stats[0].MatchID != "seed9" || stats[0].Tick != 100 {
		t.Errorf("first row = %+v", stats[0])
	}

	events, err := ReadEvents(eventsPath)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(events) != wantEvents {
		t.Errorf("read %d events, recorded %d", len(events), wantEvents)
	}
}

func TestReadStatsMissingFile(t *testing.T) {
	if _, err := ReadStats(t.TempDir() + "/nope.parquet"); err == nil {
		t.Error("ReadStats on a missing file succeeded")
	}
}
