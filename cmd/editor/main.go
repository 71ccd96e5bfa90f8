package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/ironfront/editor"
	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/input"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/render"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
	SidebarWidth = 200
)

type EditorApp struct {
	editor   *editor.Editor
	renderer *render.Renderer
	ground   *maplib.TileMap
	input    *input.InputState
	status   string
}

func NewEditorApp(r *config.Rules, path string) *EditorApp {
	a := &EditorApp{
		editor:   editor.NewEditor(r),
		renderer: render.NewRenderer(ScreenWidth-SidebarWidth, ScreenHeight),
		input:    input.NewInputState(),
	}
	if path != "" {
		if err := a.editor.LoadMap(path); err != nil {
			slog.Warn("failed to load battlefield", "path", path, "err", err)
			a.editor.FilePath = path
		}
	}
	bf := a.editor.Battlefield
	a.ground = maplib.NewTileMap(bf.Width, bf.Height, bf.TileSize, core.NewRand(1))
	a.renderer.Camera.SetMapBounds(bf.Width, bf.Height)
	a.renderer.Camera.CenterOn(geom.V(bf.Width/2, bf.Height/2))
	return a
}

func (a *EditorApp) Update() error {
	a.input.Update()
	cam := a.renderer.Camera

	// Camera controls
	speed := cam.Speed / 60.0
	ctrl := a.input.IsKeyPressed(ebiten.KeyControl)
	if a.input.IsKeyPressed(ebiten.KeyW) || a.input.IsKeyPressed(ebiten.KeyUp) {
		cam.Pan(0, -speed)
	}
	if (a.input.IsKeyPressed(ebiten.KeyS) && !ctrl) || a.input.IsKeyPressed(ebiten.KeyDown) {
		cam.Pan(0, speed)
	}
	if a.input.IsKeyPressed(ebiten.KeyA) || a.input.IsKeyPressed(ebiten.KeyLeft) {
		cam.Pan(-speed, 0)
	}
	if a.input.IsKeyPressed(ebiten.KeyD) || a.input.IsKeyPressed(ebiten.KeyRight) {
		cam.Pan(speed, 0)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		cam.Pan(float64(-a.input.MouseDX), float64(-a.input.MouseDY))
	}

	// Tool selection
	if a.input.IsKeyJustPressed(ebiten.KeyF) {
		a.editor.Tool = editor.ToolField
	}
	if a.input.IsKeyJustPressed(ebiten.KeyE) {
		a.editor.Tool = editor.ToolErase
	}
	if a.input.IsKeyJustPressed(ebiten.KeyH) {
		a.editor.Tool = editor.ToolHQ
	}
	if a.input.IsKeyJustPressed(ebiten.KeyTab) {
		if a.editor.Slot == core.FactionGDI {
			a.editor.Slot = core.FactionNOD
		} else {
			a.editor.Slot = core.FactionGDI
		}
	}
	if a.input.IsKeyJustPressed(ebiten.KeyG) {
		a.editor.ShowGrid = !a.editor.ShowGrid
	}

	if a.input.LeftPressed && a.input.MouseX < ScreenWidth-SidebarWidth {
		a.editor.Apply(cam.ScreenToWorld(a.input.MouseX, a.input.MouseY))
	}

	// Undo/Redo (Ctrl+Z / Ctrl+Shift+Z)
	if ctrl && a.input.IsKeyJustPressed(ebiten.KeyZ) {
		if a.input.IsKeyPressed(ebiten.KeyShift) {
			a.editor.Redo()
		} else {
			a.editor.Undo()
		}
	}

	// Save (Ctrl+S)
	if ctrl && a.input.IsKeyJustPressed(ebiten.KeyS) {
		if err := a.editor.SaveMap(""); err != nil {
			a.status = fmt.Sprintf("Save failed: %v", err)
			slog.Error("save failed", "err", err)
		} else {
			a.status = "Saved to " + a.editor.FilePath
			slog.Info("battlefield saved", "path", a.editor.FilePath)
		}
	}
	return nil
}

func (a *EditorApp) fill(screen *ebiten.Image, r geom.Rect, c color.Color) {
	x, y := a.renderer.Camera.WorldToScreen(geom.V(r.X, r.Y))
	vector.FillRect(screen, x, y, float32(r.W), float32(r.H), c, false)
}

func (a *EditorApp) Draw(screen *ebiten.Image) {
	cam := a.renderer.Camera
	bf := a.editor.Battlefield
	screen.Fill(color.Black)
	a.renderer.DrawGround(screen, a.ground)

	if a.editor.ShowGrid {
		minX, minY, maxX, maxY := cam.VisibleTileRange(bf.TileSize, a.ground.Cols, a.ground.Rows)
		grid := color.RGBA{255, 255, 255, 30}
		for tx := minX; tx <= maxX+1; tx++ {
			x, y0 := cam.WorldToScreen(geom.V(float64(tx)*bf.TileSize, float64(minY)*bf.TileSize))
			_, y1 := cam.WorldToScreen(geom.V(0, float64(maxY+1)*bf.TileSize))
			vector.StrokeLine(screen, x, y0, x, y1, 1, grid, false)
		}
		for ty := minY; ty <= maxY+1; ty++ {
			x0, y := cam.WorldToScreen(geom.V(float64(minX)*bf.TileSize, float64(ty)*bf.TileSize))
			x1, _ := cam.WorldToScreen(geom.V(float64(maxX+1)*bf.TileSize, 0))
			vector.StrokeLine(screen, x0, y, x1, y, 1, grid, false)
		}
	}

	for _, f := range bf.Fields {
		a.fill(screen, a.editor.FieldRect(f), render.ColorIron)
	}
	if len(bf.Fields) == 0 && bf.FieldCount > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d random fields", bf.FieldCount), 10, 10)
	}
	for _, s := range bf.Starts {
		a.fill(screen, a.editor.HQRect(s), render.FactionColor(s.Faction))
		for _, u := range s.Units {
			x, y := cam.WorldToScreen(geom.V(u.X, u.Y))
			vector.FillCircle(screen, x, y, 5, render.FactionColor(s.Faction), false)
		}
		x, y := cam.WorldToScreen(s.HQ)
		ebitenutil.DebugPrintAt(screen, s.Faction.String(), int(x)+4, int(y)+4)
	}

	a.drawSidebar(screen)
}

func (a *EditorApp) drawSidebar(screen *ebiten.Image) {
	sx := ScreenWidth - SidebarWidth
	vector.FillRect(screen, float32(sx), 0, SidebarWidth, ScreenHeight, color.RGBA{20, 20, 40, 220}, false)

	y := 10
	lines := []string{
		"=== BATTLEFIELD ===",
		a.editor.Battlefield.Name,
		"",
		"Tool: " + a.editor.Tool.String(),
		"Side: " + a.editor.Slot.String(),
		fmt.Sprintf("Fields: %d", len(a.editor.Battlefield.Fields)),
		"",
		"[F] Field  [E] Erase",
		"[H] Headquarters",
		"[Tab] Switch side",
		"[G] Grid",
		"[Ctrl+Z] Undo",
		"[Ctrl+Shift+Z] Redo",
		"[Ctrl+S] Save",
	}
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, sx+10, y)
		y += 18
	}
	if a.editor.Modified {
		ebitenutil.DebugPrintAt(screen, "* MODIFIED *", sx+10, y+20)
	}
	if a.status != "" {
		ebitenutil.DebugPrintAt(screen, a.status, 5, ScreenHeight-20)
	}
}

func (a *EditorApp) Layout(_, _ int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	rulesPath := flag.String("rules", "", "Path to a rules JSON file (sizes of fields and headquarters)")
	flag.Parse()

	rules, err := config.LoadRules(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("Ironfront Battlefield Editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	app := NewEditorApp(rules, flag.Arg(0))
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
