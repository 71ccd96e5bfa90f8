package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/match"
	"github.com/1siamBot/ironfront/engine/systems"
)

var (
	ColorGDI       = color.RGBA{200, 150, 0, 255}
	ColorNOD       = color.RGBA{200, 0, 0, 255}
	ColorIron      = color.RGBA{180, 180, 190, 255}
	ColorSelection = color.RGBA{0, 255, 0, 200}
	ColorFogShroud = color.RGBA{0, 0, 0, 255}
	ColorFogDim    = color.RGBA{0, 0, 0, 100}
)

// buildingShade is the per-kind building color on the GDI side; NOD
// swaps the green channel into red.
var buildingShade = map[core.Kind]uint8{
	core.KindHeadquarters: 200,
	core.KindBarracks:     150,
	core.KindWarFactory:   170,
	core.KindPowerPlant:   130,
	core.KindTurret:       180,
}

// FactionColor returns the team color of f
func FactionColor(f core.Faction) color.RGBA {
	if f == core.FactionNOD {
		return ColorNOD
	}
	return ColorGDI
}

func buildingColor(k core.Kind, f core.Faction) color.RGBA {
	s, ok := buildingShade[k]
	if !ok {
		return FactionColor(f)
	}
	if f == core.FactionNOD {
		return color.RGBA{s, 0, 0, 255}
	}
	return color.RGBA{s, s, 0, 255}
}

// Renderer draws a match from the point of view of its observer
type Renderer struct {
	Camera *Camera
	ground *ebiten.Image
}

// NewRenderer creates a renderer with a viewport of the given size
func NewRenderer(screenW, screenH int) *Renderer {
	return &Renderer{Camera: NewCamera(screenW, screenH)}
}

// Draw renders the world: ground, fields, buildings, fog, then units and
// effects on top of the fog.
func (r *Renderer) Draw(screen *ebiten.Image, m *match.Match) {
	r.Camera.SetMapBounds(m.Battlefield.Width, m.Battlefield.Height)
	screen.Fill(color.Black)
	r.DrawGround(screen, m.Ground)

	for _, f := range m.Fields() {
		if f.Amount > 0 && m.IsExplored(f.Center) {
			r.drawField(screen, f)
		}
	}
	for _, b := range m.Buildings(core.FactionNone) {
		if b.Faction == m.Observer || m.IsVisible(b.Center) || (b.Explored && m.IsExplored(b.Center)) {
			r.drawBuilding(screen, b)
		}
	}
	r.DrawFog(screen, m)
	for _, u := range m.Units(core.FactionNone) {
		if u.Faction == m.Observer || m.IsVisible(u.Center) {
			r.drawUnit(screen, u)
		}
	}
	for _, p := range m.Projectiles() {
		if p.Faction == m.Observer || m.IsVisible(p.Center) {
			r.fillRect(screen, p.Rect, color.RGBA{255, 255, 0, 255})
		}
	}
	for _, p := range m.Particles() {
		if !m.IsVisible(p.Pos) {
			continue
		}
		x, y := r.Camera.WorldToScreen(p.Pos)
		c := p.Color
		c.A = uint8(255 * p.Alpha)
		vector.FillCircle(screen, x, y, float32(p.Size), c, false)
	}
}

// DrawGround paints the visible grass tiles
func (r *Renderer) DrawGround(screen *ebiten.Image, tm *maplib.TileMap) {
	if tm == nil {
		return
	}
	ts := float32(tm.TileSize)
	minX, minY, maxX, maxY := r.Camera.VisibleTileRange(tm.TileSize, tm.Cols, tm.Rows)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			t := tm.At(x, y)
			if t == nil {
				continue
			}
			sx, sy := r.Camera.WorldToScreen(geom.V(float64(x)*tm.TileSize, float64(y)*tm.TileSize))
			vector.FillRect(screen, sx, sy, ts, ts, color.RGBA{0, t.Shade, 0, 255}, false)
			if t.Spot {
				vector.FillRect(screen, sx+ts/4, sy+ts/4, ts/2, ts/2, color.RGBA{0, t.Shade - 30, 0, 255}, false)
			}
		}
	}
}

// DrawFog covers unexplored tiles and dims explored ones out of sight
func (r *Renderer) DrawFog(screen *ebiten.Image, m *match.Match) {
	fog := m.Fog.Fogs[m.Observer]
	if fog == nil {
		return
	}
	ts := float32(fog.TileSize)
	minX, minY, maxX, maxY := r.Camera.VisibleTileRange(fog.TileSize, fog.Cols, fog.Rows)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			var c color.RGBA
			switch fog.At(x, y) {
			case systems.FogShroud:
				c = ColorFogShroud
			case systems.FogExplored:
				c = ColorFogDim
			default:
				continue
			}
			sx, sy := r.Camera.WorldToScreen(geom.V(float64(x)*fog.TileSize, float64(y)*fog.TileSize))
			vector.FillRect(screen, sx, sy, ts, ts, c, false)
		}
	}
}

func (r *Renderer) fillRect(screen *ebiten.Image, rect geom.Rect, c color.Color) {
	if !r.Camera.Visible(rect) {
		return
	}
	x, y := r.Camera.WorldToScreen(geom.V(rect.X, rect.Y))
	vector.FillRect(screen, x, y, float32(rect.W), float32(rect.H), c, false)
}

func (r *Renderer) drawField(screen *ebiten.Image, f match.EntityView) {
	r.fillRect(screen, f.Rect, ColorIron)
}

func (r *Renderer) drawBuilding(screen *ebiten.Image, b match.EntityView) {
	if !r.Camera.Visible(b.Rect) {
		return
	}
	c := buildingColor(b.Kind, b.Faction)
	c.A = uint8(255 * math.Max(0.2, b.Built))
	r.fillRect(screen, b.Rect, c)
	x, y := r.Camera.WorldToScreen(geom.V(b.Rect.X, b.Rect.Y))
	if b.Kind == core.KindTurret {
		cx, cy := r.Camera.WorldToScreen(b.Center)
		vector.StrokeLine(screen, cx, cy, cx+float32(25*math.Cos(b.Facing)), cy+float32(25*math.Sin(b.Facing)), 4, color.RGBA{80, 80, 80, 255}, false)
	}
	if b.Selected {
		vector.StrokeRect(screen, x, y, float32(b.Rect.W), float32(b.Rect.H), 2, ColorSelection, false)
	}
	r.healthBar(screen, b)
}

func (r *Renderer) drawUnit(screen *ebiten.Image, u match.EntityView) {
	if !r.Camera.Visible(u.Rect) {
		return
	}
	c := FactionColor(u.Faction)
	rect := u.Rect
	if u.Recoil > 0 {
		// knock the hull back against its facing
		back := geom.Polar(geom.Vec2{}, u.Facing+math.Pi, float64(u.Recoil))
		rect.X, rect.Y = rect.X+back.X, rect.Y+back.Y
	}
	switch u.Kind {
	case core.KindInfantry:
		x, y := r.Camera.WorldToScreen(u.Center)
		vector.FillCircle(screen, x, y, float32(rect.W/2), c, false)
	case core.KindTank:
		r.fillRect(screen, rect, c)
		x, y := r.Camera.WorldToScreen(rect.Center())
		vector.StrokeLine(screen, x, y, x+float32(20*math.Cos(u.Facing)), y+float32(20*math.Sin(u.Facing)), 3, color.RGBA{60, 60, 60, 255}, false)
	default:
		r.fillRect(screen, rect, c)
		if u.Cargo > 0 {
			x, y := r.Camera.WorldToScreen(geom.V(rect.X, rect.Bottom()-4))
			vector.FillRect(screen, x, y, float32(rect.W*float64(u.Cargo)/100), 4, ColorIron, false)
		}
	}
	if u.Selected {
		x, y := r.Camera.WorldToScreen(u.Center)
		vector.StrokeCircle(screen, x, y, float32(math.Max(rect.W, rect.H)/2+3), 1, ColorSelection, false)
	}
	if u.Selected || u.UnderAttack {
		r.healthBar(screen, u)
	}
}

func (r *Renderer) healthBar(screen *ebiten.Image, v match.EntityView) {
	x, y := r.Camera.WorldToScreen(geom.V(v.Rect.X, v.Rect.Y-6))
	w := float32(v.Rect.W)
	vector.FillRect(screen, x, y, w, 3, color.RGBA{40, 40, 40, 200}, false)
	c := color.RGBA{0, 200, 0, 255}
	if v.Health < 0.5 {
		c = color.RGBA{255, 200, 0, 255}
	}
	if v.Health < 0.25 {
		c = color.RGBA{255, 0, 0, 255}
	}
	vector.FillRect(screen, x, y, w*float32(v.Health), 3, c, false)
}

// DrawPlacement shows where the pending building would land and whether
// the site is valid
func (r *Renderer) DrawPlacement(screen *ebiten.Image, rect geom.Rect, ok bool) {
	c := color.RGBA{0, 255, 0, 90}
	if !ok {
		c = color.RGBA{255, 0, 0, 90}
	}
	r.fillRect(screen, rect, c)
}

// DrawSelectionBox draws a selection rectangle on screen
func (r *Renderer) DrawSelectionBox(screen *ebiten.Image, x1, y1, x2, y2 int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	vector.FillRect(screen, float32(x1), float32(y1), float32(x2-x1), float32(y2-y1), color.RGBA{0, 255, 0, 30}, false)
	vector.StrokeRect(screen, float32(x1), float32(y1), float32(x2-x1), float32(y2-y1), 1, color.RGBA{0, 255, 0, 128}, false)
}

// DrawMinimap draws the whole battlefield scaled into a size-wide box,
// with the observer's fog and the camera viewport.
func (r *Renderer) DrawMinimap(screen *ebiten.Image, m *match.Match, posX, posY, size int) {
	bf := m.Battlefield
	scale := float64(size) / math.Max(bf.Width, bf.Height)
	w, h := float32(bf.Width*scale), float32(bf.Height*scale)
	px, py := float32(posX), float32(posY)
	vector.FillRect(screen, px, py, w, h, color.RGBA{0, 60, 0, 220}, false)

	dot := func(p geom.Vec2, c color.Color, s float32) {
		vector.FillRect(screen, px+float32(p.X*scale)-s/2, py+float32(p.Y*scale)-s/2, s, s, c, false)
	}
	for _, f := range m.Fields() {
		if f.Amount > 0 && m.IsExplored(f.Center) {
			dot(f.Center, ColorIron, 2)
		}
	}
	for _, b := range m.Buildings(core.FactionNone) {
		if b.Faction == m.Observer || (b.Explored && m.IsExplored(b.Center)) {
			dot(b.Center, FactionColor(b.Faction), 4)
		}
	}
	for _, u := range m.Units(core.FactionNone) {
		if u.Faction == m.Observer || m.IsVisible(u.Center) {
			dot(u.Center, FactionColor(u.Faction), 2)
		}
	}

	v := r.Camera.View()
	vector.StrokeRect(screen, px+float32(v.X*scale), py+float32(v.Y*scale), float32(v.W*scale), float32(v.H*scale), 1, color.RGBA{255, 255, 255, 200}, false)
	vector.StrokeRect(screen, px, py, w, h, 1, color.RGBA{120, 120, 120, 255}, false)
}

// MinimapToWorld maps a click inside the minimap to a world point
func MinimapToWorld(m *match.Match, posX, posY, size, sx, sy int) (geom.Vec2, bool) {
	bf := m.Battlefield
	scale := float64(size) / math.Max(bf.Width, bf.Height)
	p := geom.V(float64(sx-posX)/scale, float64(sy-posY)/scale)
	if p.X < 0 || p.Y < 0 || p.X > bf.Width || p.Y > bf.Height {
		return geom.Vec2{}, false
	}
	return p, true
}
