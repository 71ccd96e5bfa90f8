package render

import (
	"math"

	"github.com/1siamBot/ironfront/engine/geom"
)

// Camera is a top-down viewport into the battlefield. X, Y is the world
// point drawn at the top-left of the view.
type Camera struct {
	X, Y       float64
	ScreenW    int     // viewport width in pixels
	ScreenH    int     // viewport height in pixels
	Speed      float64 // pan speed (pixels per second)
	EdgeScroll bool    // enable edge scrolling
	EdgeSize   int     // edge scroll trigger zone in pixels

	// Map bounds for clamping
	MapWidth  float64
	MapHeight float64
}

// NewCamera creates a camera with default settings
func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		ScreenW:    screenW,
		ScreenH:    screenH,
		Speed:      600,
		EdgeScroll: true,
		EdgeSize:   20,
	}
}

// SetMapBounds sets the map size for camera clamping
func (c *Camera) SetMapBounds(w, h float64) {
	c.MapWidth = w
	c.MapHeight = h
	c.clamp()
}

// Pan moves the camera by pixel delta
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx
	c.Y += dy
	c.clamp()
}

// CenterOn centers the camera on a world position
func (c *Camera) CenterOn(p geom.Vec2) {
	c.X = p.X - float64(c.ScreenW)/2
	c.Y = p.Y - float64(c.ScreenH)/2
	c.clamp()
}

// WorldToScreen converts a world point to screen pixels
func (c *Camera) WorldToScreen(p geom.Vec2) (float32, float32) {
	return float32(p.X - c.X), float32(p.Y - c.Y)
}

// ScreenToWorld converts screen pixels to a world point
func (c *Camera) ScreenToWorld(sx, sy int) geom.Vec2 {
	return geom.V(float64(sx)+c.X, float64(sy)+c.Y)
}

// View returns the world rectangle on screen
func (c *Camera) View() geom.Rect {
	return geom.Rect{X: c.X, Y: c.Y, W: float64(c.ScreenW), H: float64(c.ScreenH)}
}

// Visible reports whether any part of r is on screen
func (c *Camera) Visible(r geom.Rect) bool {
	return c.View().Intersects(r)
}

// VisibleTileRange returns the range of tiles visible on screen
func (c *Camera) VisibleTileRange(tile float64, cols, rows int) (minX, minY, maxX, maxY int) {
	minX = max(0, int(math.Floor(c.X/tile)))
	minY = max(0, int(math.Floor(c.Y/tile)))
	maxX = min(cols-1, int(math.Ceil((c.X+float64(c.ScreenW))/tile)))
	maxY = min(rows-1, int(math.Ceil((c.Y+float64(c.ScreenH))/tile)))
	return
}

// clamp keeps the view inside the map; a map smaller than the view
// pins to the origin.
func (c *Camera) clamp() {
	if c.MapWidth == 0 || c.MapHeight == 0 {
		return
	}
	c.X = math.Max(0, math.Min(c.X, c.MapWidth-float64(c.ScreenW)))
	c.Y = math.Max(0, math.Min(c.Y, c.MapHeight-float64(c.ScreenH)))
}
