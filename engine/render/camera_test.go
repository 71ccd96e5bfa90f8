package render

import (
	"testing"

	"github.com/1siamBot/ironfront/engine/geom"
)

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetMapBounds(1600, 800)
	c.Pan(250, 100)
	p := geom.V(700, 420)
	sx, sy := c.WorldToScreen(p)
	if got := c.ScreenToWorld(int(sx), int(sy)); got != p {
		t.Errorf("ScreenToWorld(WorldToScreen(%v)) = %v", p, got)
	}
}

func TestCameraClamp(t *testing.T) {
	tests := []struct {
		name  string
		pan   geom.Vec2
		wantX float64
		wantY float64
	}{
		{"inside", geom.V(100, 50), 100, 50},
		{"past origin", geom.V(-500, -500), 0, 0},
		{"past far edge", geom.V(5000, 5000), 800, 200},
	}
	for _, tt := range tests {
		c := NewCamera(800, 600)
		c.SetMapBounds(1600, 800)
		c.Pan(tt.pan.X, tt.pan.Y)
		if c.X != tt.wantX || c.Y != tt.wantY {
			t.Errorf("%s: camera at (%v,%v), want (%v,%v)", tt.name, c.X, c.Y, tt.wantX, tt.wantY)
		}
	}
}

func TestCenterOn(t *testing.T) {
	c := NewCamera(800, 600)
	c.SetMapBounds(1600, 800)
	c.CenterOn(geom.V(800, 400))
	if c.X != 400 || c.Y != 100 {
		t.Errorf("CenterOn(800,400) = (%v,%v), want (400,100)", c.X, c.Y)
	}
}

func TestVisibleTileRange(t *testing.T) {
	c := NewCamera(320, 320)
	c.SetMapBounds(1600, 800)
	c.Pan(64, 32)
	x0, y0, x1, y1 := c.VisibleTileRange(32, 50, 25)
	if x0 != 2 || y0 != 1 || x1 != 12 || y1 != 11 {
		t.Errorf("VisibleTileRange = %d,%d..%d,%d, want 2,1..12,11", x0, y0, x1, y1)
	}
}
