package maplib

import (
	"path/filepath"
	"testing"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

func TestDefaultLayout(t *testing.T) {
	bf := Default(config.Default())
	if err := bf.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := bf.Starts[1].HQ; got != geom.V(1300, 500) {
		t.Errorf("NOD headquarters = %v, want (1300, 500)", got)
	}
	if n := len(bf.Starts[0].Units); n != 4 {
		t.Errorf("GDI starting units = %d, want 4", n)
	}
}

func TestScatterFieldsInsideMargin(t *testing.T) {
	bf := Default(config.Default())
	fields := bf.ScatterFields(core.NewRand(11), 5000)
	if len(fields) != 40 {
		t.Fatalf("got %d fields, want 40", len(fields))
	}
	for _, f := range fields {
		if f.X < 100 || f.X > 1500 || f.Y < 100 || f.Y > 700 || f.Amount != 5000 {
			t.Errorf("field %+v outside margin", f)
		}
	}
	again := bf.ScatterFields(core.NewRand(11), 5000)
	if again[7] != fields[7] {
		t.Errorf("same seed gave %+v then %+v", fields[7], again[7])
	}
}

func TestFixedFieldsWin(t *testing.T) {
	bf := Default(config.Default())
	bf.Fields = []Field{{X: 10, Y: 20, Amount: 300}}
	if got := bf.ScatterFields(core.NewRand(1), 5000); len(got) != 1 || got[0].Amount != 300 {
		t.Errorf("ScatterFields = %+v, want the fixed field", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bf.json")
	bf := Default(config.Default())
	bf.Name = "Ridge"
	if err := bf.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "Ridge" || got.Starts[1].Faction != core.FactionNOD || got.Starts[0].Units[3].Kind != core.KindHarvester {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Battlefield)
	}{
		{"one start", func(b *Battlefield) { b.Starts = b.Starts[:1] }},
		{"duplicate faction", func(b *Battlefield) { b.Starts[1].Faction = core.FactionGDI }},
		{"hq off map", func(b *Battlefield) { b.Starts[0].HQ = geom.V(-5, 10) }},
		{"building as unit", func(b *Battlefield) { b.Starts[0].Units[0].Kind = core.KindTurret }},
		{"zero size", func(b *Battlefield) { b.Width = 0 }},
	}
	for _, tt := range tests {
		bf := Default(config.Default())
		tt.mod(bf)
		if err := bf.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
		}
	}
}

func TestTileMapShades(t *testing.T) {
	tm := NewTileMap(1600, 800, 32, core.NewRand(5))
	if tm.Cols != 50 || tm.Rows != 25 {
		t.Fatalf("grid %dx%d, want 50x25", tm.Cols, tm.Rows)
	}
	for i, tile := range tm.Tiles {
		if tile.Shade < 100 || tile.Shade > 150 {
			t.Fatalf("tile %d shade %d out of range", i, tile.Shade)
		}
	}
	if tm.At(50, 0) != nil || tm.At(49, 24) == nil {
		t.Errorf("At bounds wrong")
	}
}
