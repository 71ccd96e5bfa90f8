package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/input"
	"github.com/1siamBot/ironfront/engine/maplib"
	"github.com/1siamBot/ironfront/engine/match"
	"github.com/1siamBot/ironfront/engine/render"
	"github.com/1siamBot/ironfront/engine/ui"
)

const (
	ScreenWidth   = 1280
	ScreenHeight  = 720
	SidebarWidth  = 200
	ConsoleHeight = 110
	MinimapSize   = 180
)

// Game implements ebiten.Game interface
type Game struct {
	match    *match.Match
	renderer *render.Renderer
	gameLoop *core.GameLoop
	input    *input.InputState
	hud      *ui.HUD
	console  *ui.Console
	player   core.Faction
}

func NewGame(m *match.Match) *Game {
	g := &Game{
		match:    m,
		renderer: render.NewRenderer(ScreenWidth-SidebarWidth, ScreenHeight),
		gameLoop: core.NewGameLoop(m, m.Rules.TickRate),
		input:    input.NewInputState(),
		hud:      ui.NewHUD(ScreenWidth, ScreenHeight, m.Observer),
		console:  ui.NewConsole(image.Rect(0, ScreenHeight-ConsoleHeight, ScreenWidth-SidebarWidth, ScreenHeight)),
		player:   m.Observer,
	}
	g.console.Follow(m.Bus)
	g.renderer.Camera.SetMapBounds(m.Battlefield.Width, m.Battlefield.Height)
	for _, s := range m.Battlefield.Starts {
		if s.Faction == g.player {
			g.renderer.Camera.CenterOn(s.HQ)
		}
	}
	g.console.Logf("Commander %v, build a base and destroy the enemy headquarters", g.player)
	g.gameLoop.Play()
	return g
}

func (g *Game) minimapOrigin() (int, int) {
	return ScreenWidth - SidebarWidth + (SidebarWidth-MinimapSize)/2, ScreenHeight - MinimapSize - 10
}

func (g *Game) Update() error {
	g.input.Update()
	g.handleCamera()
	g.handleKeys()
	g.handleMouse()
	g.gameLoop.Update()
	return nil
}

func (g *Game) handleKeys() {
	for i, key := range input.ProductionKeys {
		if g.input.IsKeyJustPressed(key) && i < len(match.Buildable) {
			if msg := g.hud.Buy(g.match, match.Buildable[i]); msg != "" {
				g.console.Log(msg)
			}
		}
	}
	if g.input.IsKeyJustPressed(ebiten.KeyDelete) {
		g.console.Log(g.hud.Sell(g.match))
	}
	if g.input.IsKeyJustPressed(ebiten.KeyEscape) {
		if err := g.match.CancelPending(g.player); err != nil {
			g.match.ClearSelection(g.player)
		} else {
			g.console.Log("Placement cancelled, iron refunded")
		}
	}
	if g.input.IsKeyJustPressed(ebiten.KeyC) {
		g.console.CopyLast()
	}
	if g.input.IsKeyJustPressed(ebiten.KeySpace) {
		g.gameLoop.Toggle()
	}
}

func (g *Game) handleCamera() {
	cam := g.renderer.Camera
	speed := cam.Speed / 60.0 // per frame at 60fps

	// WASD / Arrow keys
	if g.input.IsKeyPressed(ebiten.KeyW) || g.input.IsKeyPressed(ebiten.KeyUp) {
		cam.Pan(0, -speed)
	}
	if g.input.IsKeyPressed(ebiten.KeyS) || g.input.IsKeyPressed(ebiten.KeyDown) {
		cam.Pan(0, speed)
	}
	if g.input.IsKeyPressed(ebiten.KeyA) || g.input.IsKeyPressed(ebiten.KeyLeft) {
		cam.Pan(-speed, 0)
	}
	if g.input.IsKeyPressed(ebiten.KeyD) || g.input.IsKeyPressed(ebiten.KeyRight) {
		cam.Pan(speed, 0)
	}

	if cam.EdgeScroll && !g.input.Dragging {
		edge := cam.EdgeSize
		mx, my := g.input.MouseX, g.input.MouseY
		switch {
		case mx < edge:
			cam.Pan(-speed, 0)
		case mx > ScreenWidth-edge:
			cam.Pan(speed, 0)
		}
		switch {
		case my < edge:
			cam.Pan(0, -speed)
		case my > ScreenHeight-edge:
			cam.Pan(0, speed)
		}
	}
}

func (g *Game) handleMouse() {
	mx, my := g.input.MouseX, g.input.MouseY
	pt := image.Pt(mx, my)

	if pt.In(g.console.Rect) {
		if g.input.ScrollY != 0 {
			g.console.Scroll(-int(g.input.ScrollY))
		}
		if g.input.Clicked() {
			g.console.CopyAt(mx, my)
		}
		return
	}

	if g.input.LeftPressed {
		px, py := g.minimapOrigin()
		if p, ok := render.MinimapToWorld(g.match, px, py, MinimapSize, mx, my); ok {
			g.renderer.Camera.CenterOn(p)
			return
		}
	}

	if g.input.Clicked() {
		if consumed, msg := g.hud.HandleClick(g.match, mx, my); consumed {
			if msg != "" {
				g.console.Log(msg)
			}
			return
		}
		g.leftClick(g.renderer.Camera.ScreenToWorld(mx, my))
	}

	if g.input.DragEnded() {
		sx, sy := g.input.DragStart()
		a := g.renderer.Camera.ScreenToWorld(sx, sy)
		b := g.renderer.Camera.ScreenToWorld(mx, my)
		g.match.SelectRect(g.player, geom.Normalized(a, b))
	}

	if g.input.RightJustPressed && !g.hud.IsInSidebar(mx, my) {
		g.match.Order(g.player, g.renderer.Camera.ScreenToWorld(mx, my))
	}
}

// leftClick places the pending building, or selects what is under p
func (g *Game) leftClick(p geom.Vec2) {
	if _, _, ok := g.match.Placement(g.player, p); ok {
		if _, err := g.match.PlacePending(g.player, p); err != nil {
			g.console.Log("Cannot place building here")
		}
		return
	}
	if g.match.SelectAt(g.player, p) {
		return
	}
	g.match.SelectRect(g.player, geom.Rect{X: p.X, Y: p.Y, W: 1, H: 1})
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.match)

	world := g.renderer.Camera.ScreenToWorld(g.input.MouseX, g.input.MouseY)
	if rect, valid, ok := g.match.Placement(g.player, world); ok {
		g.renderer.DrawPlacement(screen, rect, valid)
	}
	if x1, y1, x2, y2, active := g.input.DragRect(); active {
		g.renderer.DrawSelectionBox(screen, x1, y1, x2, y2)
	}

	g.hud.Draw(screen, g.match)
	px, py := g.minimapOrigin()
	g.renderer.DrawMinimap(screen, g.match, px, py, MinimapSize)
	g.console.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func main() {
	rulesPath := flag.String("rules", "", "Path to a rules JSON file (defaults built in)")
	mapPath := flag.String("map", "", "Path to a battlefield JSON file (defaults to the two-corner layout)")
	seed := flag.Int64("seed", 0, "Match seed (0 picks one from the clock)")
	computer := flag.String("computer", "NOD", "Faction played by the computer: GDI, NOD or none")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("bad -log-level: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	rules, err := config.LoadRules(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}
	bf := maplib.Default(rules)
	if *mapPath != "" {
		if bf, err = maplib.Load(*mapPath); err != nil {
			log.Fatal(err)
		}
	}

	opts := match.Options{Seed: *seed, Observer: core.FactionGDI}
	switch *computer {
	case "none":
		opts.AI = []core.Faction{}
	case "GDI":
		opts.AI = []core.Faction{core.FactionGDI}
		opts.Observer = core.FactionNOD
	case "NOD":
		opts.AI = []core.Faction{core.FactionNOD}
	default:
		log.Fatal(fmt.Errorf("bad -computer %q: want GDI, NOD or none", *computer))
	}
	m, err := match.New(rules, bf, opts)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("Ironfront: %v vs %v", core.FactionGDI, core.FactionNOD))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(NewGame(m)); err != nil {
		log.Fatal(err)
	}
}
