package ui

import (
	"image"
	"strings"
	"testing"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/match"
)

func newMatch(t *testing.T) *match.Match {
	t.Helper()
	r := config.Default()
	bf := maplib.Default(r)
	bf.Fields = []maplib.Field{{X: 800, Y: 400, Amount: 5000}}
	m, err := match.New(r, bf, match.Options{Seed: 1, AI: []core.Faction{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func center(r image.Rectangle) (int, int) {
	return (r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2
}

func TestButtonAt(t *testing.T) {
	h := NewHUD(1280, 720, core.FactionGDI)
	for i, want := range match.Buildable {
		x, y := center(h.ButtonRect(i))
		if k, ok := h.ButtonAt(x, y); !ok || k != want {
			t.Errorf("ButtonAt(button %d) = %v, %v, want %v", i, k, ok, want)
		}
	}
	if _, ok := h.ButtonAt(100, 100); ok {
		t.Error("ButtonAt on the battlefield found a button")
	}
	if h.IsInSidebar(100, 100) || !h.IsInSidebar(1200, 400) || !h.IsInSidebar(100, 10) {
		t.Error("IsInSidebar does not match the layout")
	}
}

func TestHandleClick(t *testing.T) {
	m := newMatch(t)
	h := NewHUD(1280, 720, core.FactionGDI)

	if used, _ := h.HandleClick(m, 400, 400); used {
		t.Error("battlefield click consumed by the sidebar")
	}

	x, y := center(h.ButtonRect(0)) // infantry, no barracks yet
	used, msg := h.HandleClick(m, x, y)
	if !used || !strings.Contains(msg, "prerequisite") {
		t.Errorf("buy infantry = %v, %q, want a prerequisite refusal", used, msg)
	}

	x, y = center(h.ButtonRect(3)) // barracks
	if used, msg := h.HandleClick(m, x, y); !used || msg != "" {
		t.Errorf("buy barracks = %v, %q, want a silent purchase", used, msg)
	}
	if iron := m.Status(core.FactionGDI).Iron; iron != 1000 {
		t.Errorf("iron = %d, want 1000", iron)
	}

	x, y = center(h.SellRect())
	if _, msg := h.HandleClick(m, x, y); msg != "Select a building to sell" {
		t.Errorf("sell with nothing selected = %q", msg)
	}
	m.SelectAt(core.FactionGDI, geom.V(340, 340))
	if _, msg := h.HandleClick(m, x, y); !strings.HasPrefix(msg, "Cannot sell") {
		t.Errorf("sell headquarters = %q, want a refusal", msg)
	}
}
