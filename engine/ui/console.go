package ui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/ironfront/engine/core"
)

const (
	consoleMaxLines   = 20
	consoleLineHeight = 18
)

// Console is the scrolling message log under the battlefield. Clicking
// a line copies it to the system clipboard.
type Console struct {
	Rect   image.Rectangle
	lines  []string
	scroll int
	// Copy writes to the clipboard; replaced in tests
	Copy func(string) error
}

func NewConsole(r image.Rectangle) *Console {
	return &Console{Rect: r, Copy: clipboard.WriteAll}
}

// Log appends a line, dropping the oldest beyond the limit
func (c *Console) Log(msg string) {
	c.lines = append(c.lines, msg)
	if len(c.lines) > consoleMaxLines {
		c.lines = c.lines[len(c.lines)-consoleMaxLines:]
	}
	c.scroll = min(c.scroll, c.maxScroll())
}

func (c *Console) Logf(format string, args ...any) {
	c.Log(fmt.Sprintf(format, args...))
}

// Lines returns the logged lines, oldest first
func (c *Console) Lines() []string {
	return c.lines
}

// Last returns the newest line, or ""
func (c *Console) Last() string {
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[len(c.lines)-1]
}

func (c *Console) visible() int {
	return max(1, (c.Rect.Dy()-10)/consoleLineHeight)
}

func (c *Console) maxScroll() int {
	return max(0, len(c.lines)-c.visible())
}

// Scroll moves the view by n lines, negative toward older ones
func (c *Console) Scroll(n int) {
	c.scroll = max(0, min(c.maxScroll(), c.scroll+n))
}

// LineAt returns the line drawn at screen row y
func (c *Console) LineAt(y int) (string, bool) {
	i := (y-c.Rect.Min.Y-5)/consoleLineHeight + c.scroll
	if y < c.Rect.Min.Y+5 || i < 0 || i >= len(c.lines) {
		return "", false
	}
	return c.lines[i], true
}

// CopyAt copies the line under a click at (x, y). It reports whether
// the click landed in the console.
func (c *Console) CopyAt(x, y int) bool {
	if !image.Pt(x, y).In(c.Rect) {
		return false
	}
	if line, ok := c.LineAt(y); ok {
		c.copy(line)
	}
	return true
}

// CopyLast copies the newest line
func (c *Console) CopyLast() {
	if line := c.Last(); line != "" {
		c.copy(line)
	}
}

func (c *Console) copy(line string) {
	if err := c.Copy(line); err != nil {
		slog.Warn("clipboard copy failed", "err", err)
		return
	}
	slog.Debug("copied to clipboard", "line", line)
}

// Draw renders the visible lines and the scroll thumb
func (c *Console) Draw(screen *ebiten.Image) {
	x, y := float32(c.Rect.Min.X), float32(c.Rect.Min.Y)
	w, h := float32(c.Rect.Dx()), float32(c.Rect.Dy())
	vector.FillRect(screen, x, y, w, h, color.RGBA{40, 40, 40, 255}, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{80, 80, 80, 255}, false)

	end := min(len(c.lines), c.scroll+c.visible())
	for i, line := range c.lines[c.scroll:end] {
		text.Draw(screen, line, basicfont.Face7x13, c.Rect.Min.X+5, c.Rect.Min.Y+5+13+i*consoleLineHeight, color.RGBA{200, 200, 200, 255})
	}
	if ms := c.maxScroll(); ms > 0 {
		track := h - 20
		pos := float32(c.scroll) / float32(ms) * (track - 20)
		vector.FillRect(screen, x+w-15, y+5+pos, 10, 20, color.RGBA{150, 150, 150, 255}, false)
	}
}

// Describe turns a match event into a console line. Chatty events such
// as shots and hits return "".
func Describe(e core.Event) string {
	switch e.Type {
	case core.EvtUnitCreated:
		return fmt.Sprintf("%v %v ready", e.Faction, e.Kind)
	case core.EvtBuildingReady:
		return fmt.Sprintf("%v %v awaiting placement", e.Faction, e.Kind)
	case core.EvtBuildingPlaced:
		return fmt.Sprintf("%v placed %v", e.Faction, e.Kind)
	case core.EvtBuildingSold:
		return fmt.Sprintf("%v sold %v for %v", e.Faction, e.Kind, e.Payload)
	case core.EvtProductionQueued:
		return fmt.Sprintf("%v queued %v", e.Faction, e.Kind)
	case core.EvtProductionDropped:
		return fmt.Sprintf("%v %v lost: no producer", e.Faction, e.Kind)
	case core.EvtEntityDestroyed:
		if e.Kind.IsBuilding() {
			return fmt.Sprintf("%v %v destroyed", e.Faction, e.Kind)
		}
	case core.EvtAIStateChanged:
		if sc, ok := e.Payload.(core.StateChange); ok {
			return fmt.Sprintf("%v AI: %s -> %s", e.Faction, sc.From, sc.To)
		}
	case core.EvtWaveLaunched:
		if w, ok := e.Payload.(core.Wave); ok {
			kind := "wave"
			if w.Surprise {
				kind = "surprise attack"
			}
			return fmt.Sprintf("%v %s %d: %d units, %s", e.Faction, kind, w.Number, w.Size, w.Tactic)
		}
	case core.EvtHeadquartersLost:
		return fmt.Sprintf("%v has lost its headquarters", e.Faction)
	}
	return ""
}

// Follow logs every describable event published on bus
func (c *Console) Follow(bus *core.EventBus) {
	bus.OnAny(func(e core.Event) {
		if line := Describe(e); line != "" {
			c.Log(line)
		}
	})
}
