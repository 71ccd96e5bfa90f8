// Package ui draws the production sidebar and message console and turns
// clicks on them into match commands.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/match"
)

const (
	buttonHeight  = 24
	buttonSpacing = 28
)

var (
	colorPanel    = color.RGBA{20, 20, 40, 220}
	colorButton   = color.RGBA{60, 60, 100, 255}
	colorDisabled = color.RGBA{45, 45, 55, 255}
	colorBorder   = color.RGBA{100, 100, 160, 255}
	colorText     = color.RGBA{220, 220, 220, 255}
	colorWarn     = color.RGBA{255, 80, 80, 255}
)

// HUD is the sidebar on the right of the screen: iron and power, one
// button per buildable kind, the queue and a sell button.
type HUD struct {
	ScreenW, ScreenH int
	SidebarWidth     int
	TopBarHeight     int
	Faction          core.Faction
}

func NewHUD(sw, sh int, f core.Faction) *HUD {
	return &HUD{
		ScreenW:      sw,
		ScreenH:      sh,
		SidebarWidth: 200,
		TopBarHeight: 30,
		Faction:      f,
	}
}

// ButtonRect returns the screen rectangle of the i-th buy button
func (h *HUD) ButtonRect(i int) image.Rectangle {
	x := h.ScreenW - h.SidebarWidth + 10
	y := h.TopBarHeight + 30 + i*buttonSpacing
	return image.Rect(x, y, x+h.SidebarWidth-20, y+buttonHeight)
}

// SellRect returns the screen rectangle of the sell button
func (h *HUD) SellRect() image.Rectangle {
	return h.ButtonRect(len(match.Buildable) + 1)
}

// ButtonAt returns the kind whose buy button is under (mx, my)
func (h *HUD) ButtonAt(mx, my int) (core.Kind, bool) {
	p := image.Pt(mx, my)
	for i, k := range match.Buildable {
		if p.In(h.ButtonRect(i)) {
			return k, true
		}
	}
	return core.KindNone, false
}

// IsInSidebar returns true if the mouse position is over the sidebar
func (h *HUD) IsInSidebar(mx, my int) bool {
	return mx >= h.ScreenW-h.SidebarWidth || my < h.TopBarHeight
}

// HandleClick runs the sidebar action under (mx, my). It reports whether
// the click was consumed and the message to show, if any.
func (h *HUD) HandleClick(m *match.Match, mx, my int) (bool, string) {
	if !h.IsInSidebar(mx, my) {
		return false, ""
	}
	if k, ok := h.ButtonAt(mx, my); ok {
		return true, h.Buy(m, k)
	}
	if image.Pt(mx, my).In(h.SellRect()) {
		return true, h.Sell(m)
	}
	return true, ""
}

// Buy enqueues k and returns the console line describing a refusal
func (h *HUD) Buy(m *match.Match, k core.Kind) string {
	if err := m.Enqueue(h.Faction, k); err != nil {
		return fmt.Sprintf("Cannot build %v: %v", k, err)
	}
	return ""
}

// Sell sells the selected building
func (h *HUD) Sell(m *match.Match) string {
	id := m.SelectedBuilding()
	if id.IsZero() {
		return "Select a building to sell"
	}
	refund, err := m.Sell(h.Faction, id)
	if err != nil {
		return fmt.Sprintf("Cannot sell: %v", err)
	}
	return fmt.Sprintf("Sold for %d iron", refund)
}

func label(screen *ebiten.Image, s string, x, y int, c color.Color) {
	text.Draw(screen, s, basicfont.Face7x13, x, y+13, c)
}

// Draw renders the top bar and the sidebar
func (h *HUD) Draw(screen *ebiten.Image, m *match.Match) {
	st := m.Status(h.Faction)
	h.drawTopBar(screen, m, st)
	h.drawSidebar(screen, m, st)
}

func (h *HUD) drawTopBar(screen *ebiten.Image, m *match.Match, st match.Status) {
	vector.FillRect(screen, 0, 0, float32(h.ScreenW), float32(h.TopBarHeight), color.RGBA{0, 0, 0, 180}, false)
	info := fmt.Sprintf("Iron: %d | Power: %d/%d | Tick: %d", st.Iron, st.PowerOut, st.PowerUse, m.TickCount())
	label(screen, info, 10, 8, colorText)
	if st.PowerOut < st.PowerUse {
		label(screen, "LOW POWER", 10+7*(len(info)+2), 8, colorWarn)
	}
	if !st.HasHQ {
		label(screen, "HEADQUARTERS LOST", h.ScreenW/2-60, 8, colorWarn)
	}
}

func (h *HUD) drawSidebar(screen *ebiten.Image, m *match.Match, st match.Status) {
	sx := h.ScreenW - h.SidebarWidth
	vector.FillRect(screen, float32(sx), float32(h.TopBarHeight), float32(h.SidebarWidth), float32(h.ScreenH-h.TopBarHeight), colorPanel, false)
	label(screen, "=== BUILD ===", sx+10, h.TopBarHeight+8, colorText)

	for i, k := range match.Buildable {
		cost := m.Tree.Cost(k)
		enabled := st.HasHQ && st.Iron >= cost && m.Tree.HasPrereq(m.World, h.Faction, k) && len(st.Queue) < m.Rules.Economy.QueueCap
		h.button(screen, h.ButtonRect(i), fmt.Sprintf("%d %s $%d", i+1, m.Tree.Def(k).Name, cost), enabled)
	}
	h.button(screen, h.SellRect(), "Sell", !m.SelectedBuilding().IsZero())

	y := h.SellRect().Max.Y + 16
	label(screen, "=== QUEUE ===", sx+10, y, colorText)
	y += 20
	if len(st.Queue) > 0 {
		names := make([]string, len(st.Queue))
		for i, k := range st.Queue {
			names[i] = m.Tree.Def(k).Name
		}
		label(screen, strings.Join(names, ", "), sx+10, y, colorText)
		y += 18
		if st.TimerFull > 0 {
			done := 1 - st.Timer/st.TimerFull
			w := float32(h.SidebarWidth - 20)
			vector.FillRect(screen, float32(sx+10), float32(y), w, 6, colorDisabled, false)
			vector.FillRect(screen, float32(sx+10), float32(y), w*float32(min(1, max(0, done))), 6, color.RGBA{0, 200, 0, 255}, false)
		}
		y += 14
	}
	if st.Pending != core.KindNone {
		label(screen, fmt.Sprintf("Place %s (Esc cancels)", m.Tree.Def(st.Pending).Name), sx+10, y, colorWarn)
	}
}

func (h *HUD) button(screen *ebiten.Image, r image.Rectangle, s string, enabled bool) {
	c := colorButton
	if !enabled {
		c = colorDisabled
	}
	x, y, w, ht := float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy())
	vector.FillRect(screen, x, y, w, ht, c, false)
	vector.StrokeRect(screen, x, y, w, ht, 1, colorBorder, false)
	label(screen, s, r.Min.X+5, r.Min.Y+5, colorText)
}
