package geom

import "math"

// Vec2 is a point or displacement in world pixels
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Dist returns the euclidean distance between two points
func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

// Step moves v toward to by at most step. A zero-length path returns v.
func (v Vec2) Step(to Vec2, step float64) Vec2 {
	d := to.Sub(v)
	l := d.Len()
	if l == 0 {
		return v
	}
	return v.Add(d.Scale(step / l))
}

// HeadingTo returns the angle in radians from a to b (0 = east, π/2 = south)
func HeadingTo(a, b Vec2) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Polar returns the point at distance r and angle from the origin point
func Polar(origin Vec2, angle, r float64) Vec2 {
	return Vec2{origin.X + math.Cos(angle)*r, origin.Y + math.Sin(angle)*r}
}

// Rect is an axis-aligned box anchored at its top-left corner
type Rect struct {
	X, Y, W, H float64
}

// RectAt builds a rect whose top-left corner is p
func RectAt(p Vec2, w, h float64) Rect { return Rect{p.X, p.Y, w, h} }

// RectCentered builds a rect centered on c
func RectCentered(c Vec2, w, h float64) Rect { return Rect{c.X - w/2, c.Y - h/2, w, h} }

func (r Rect) Center() Vec2   { return Vec2{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Intersects reports whether the two rects overlap with positive area.
// Rects that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether o lies entirely inside r
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r (right and bottom edges excluded)
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// Clamp shifts r the minimum amount needed to fit inside bounds.
// A rect larger than bounds is aligned to the bounds' top-left.
func (r Rect) Clamp(bounds Rect) Rect {
	if r.Right() > bounds.Right() {
		r.X = bounds.Right() - r.W
	}
	if r.Bottom() > bounds.Bottom() {
		r.Y = bounds.Bottom() - r.H
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}

// Normalized returns the rect spanning corners a and b, so rects built
// from a drag in any direction select the same area.
func Normalized(a, b Vec2) Rect {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// SnapToGrid returns the top-left corner of the tile containing p
func SnapToGrid(p Vec2, tile float64) Vec2 {
	return Vec2{math.Floor(p.X/tile) * tile, math.Floor(p.Y/tile) * tile}
}
