package ui

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/1siamBot/ironfront/engine/core"
)

func TestConsoleKeepsNewestLines(t *testing.T) {
	c := NewConsole(image.Rect(0, 600, 1080, 720))
	for i := 0; i < 25; i++ {
		c.Logf("line %d", i)
	}
	lines := c.Lines()
	if len(lines) != consoleMaxLines || lines[0] != "line 5" || c.Last() != "line 24" {
		t.Errorf("lines = %d, first %q, last %q", len(lines), lines[0], c.Last())
	}
}

func TestConsoleScrollAndPick(t *testing.T) {
	// room for six lines
	c := NewConsole(image.Rect(0, 600, 1080, 720))
	var copied []string
	c.Copy = func(s string) error { copied = append(copied, s); return nil }
	for i := 0; i < 10; i++ {
		c.Logf("line %d", i)
	}

	if line, ok := c.LineAt(605); !ok || line != "line 0" {
		t.Errorf("LineAt(top) = %q, %v, want line 0", line, ok)
	}
	c.Scroll(100)
	if line, _ := c.LineAt(605); line != "line 4" {
		t.Errorf("after scrolling to the end LineAt(top) = %q, want line 4", line)
	}
	c.Scroll(-1)
	if line, _ := c.LineAt(605 + consoleLineHeight); line != "line 4" {
		t.Errorf("LineAt(second row) = %q, want line 4", line)
	}

	if !c.CopyAt(10, 605) || len(copied) != 1 || copied[0] != "line 3" {
		t.Errorf("CopyAt copied %v, want [line 3]", copied)
	}
	if c.CopyAt(10, 100) {
		t.Error("CopyAt outside the console was consumed")
	}
	c.CopyLast()
	if copied[len(copied)-1] != "line 9" {
		t.Errorf("CopyLast copied %q, want line 9", copied[len(copied)-1])
	}
}

func TestConsoleCopyFailure(t *testing.T) {
	c := NewConsole(image.Rect(0, 0, 100, 100))
	c.Copy = func(string) error { return errors.New("no clipboard") }
	c.Log("x")
	c.CopyLast() // logged, not fatal
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		e    core.Event
		want string
	}{
		{core.Event{Type: core.EvtUnitCreated, Faction: core.FactionGDI, Kind: core.KindTank}, "GDI tank ready"},
		{core.Event{Type: core.EvtBuildingSold, Faction: core.FactionGDI, Kind: core.KindTurret, Payload: 300}, "GDI sold turret for 300"},
		{core.Event{Type: core.EvtEntityDestroyed, Faction: core.FactionNOD, Kind: core.KindBarracks}, "NOD barracks destroyed"},
		{core.Event{Type: core.EvtEntityDestroyed, Faction: core.FactionNOD, Kind: core.KindInfantry}, ""},
		{core.Event{Type: core.EvtProjectileFired}, ""},
		{core.Event{Type: core.EvtAIStateChanged, Faction: core.FactionNOD, Payload: core.StateChange{From: "BUILD_UP", To: "BROKE"}}, "NOD AI: BUILD_UP -> BROKE"},
		{core.Event{Type: core.EvtWaveLaunched, Faction: core.FactionNOD, Payload: core.Wave{Number: 2, Size: 7, Tactic: "flank", Surprise: true}}, "NOD surprise attack 2: 7 units, flank"},
		{core.Event{Type: core.EvtHeadquartersLost, Faction: core.FactionGDI}, "GDI has lost its headquarters"},
	}
	for _, tt := range tests {
		if got := Describe(tt.e); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.e.Type, got, tt.want)
		}
	}
}

func TestFollow(t *testing.T) {
	bus := core.NewEventBus()
	c := NewConsole(image.Rect(0, 0, 100, 100))
	c.Follow(bus)
	bus.Emit(core.Event{Type: core.EvtBuildingPlaced, Faction: core.FactionGDI, Kind: core.KindPowerPlant})
	bus.Emit(core.Event{Type: core.EvtMeleeHit})
	bus.Dispatch()
	if got := fmt.Sprint(c.Lines()); got != "[GDI placed power_plant]" {
		t.Errorf("lines = %s", got)
	}
}
