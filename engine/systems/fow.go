package systems

import (
	"math"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// FogState represents visibility of a tile
type FogState uint8

const (
	FogShroud   FogState = iota // never seen
	FogExplored                 // seen before but not now
	FogVisible                  // currently visible
)

// FogOfWar is one faction's view of the map, one cell per tile
type FogOfWar struct {
	Cols, Rows int
	TileSize   float64
	Grid       []FogState
	Faction    core.Faction
}

// NewFogOfWar covers a width x height map, rounding partial tiles up
func NewFogOfWar(width, height, tile float64, f core.Faction) *FogOfWar {
	cols := int(math.Ceil(width / tile))
	rows := int(math.Ceil(height / tile))
	return &FogOfWar{
		Cols:     cols,
		Rows:     rows,
		TileSize: tile,
		Grid:     make([]FogState, cols*rows),
		Faction:  f,
	}
}

// At returns the fog state at tile (x, y)
func (f *FogOfWar) At(x, y int) FogState {
	if x < 0 || y < 0 || x >= f.Cols || y >= f.Rows {
		return FogShroud
	}
	return f.Grid[y*f.Cols+x]
}

func (f *FogOfWar) tile(p geom.Vec2) (int, int) {
	return int(math.Floor(p.X / f.TileSize)), int(math.Floor(p.Y / f.TileSize))
}

// IsVisible returns true if the tile under p is currently visible
func (f *FogOfWar) IsVisible(p geom.Vec2) bool {
	return f.At(f.tile(p)) == FogVisible
}

// IsExplored returns true if the tile under p was ever seen
func (f *FogOfWar) IsExplored(p geom.Vec2) bool {
	return f.At(f.tile(p)) != FogShroud
}

// Reveal marks every tile whose center lies within radius of center
func (f *FogOfWar) Reveal(center geom.Vec2, radius float64) {
	x0, y0 := f.tile(geom.V(center.X-radius, center.Y-radius))
	x1, y1 := f.tile(geom.V(center.X+radius, center.Y+radius))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, f.Cols-1), min(y1, f.Rows-1)
	half := f.TileSize / 2
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := geom.V(float64(x)*f.TileSize+half, float64(y)*f.TileSize+half)
			if c.Dist(center) <= radius {
				f.Grid[y*f.Cols+x] = FogVisible
			}
		}
	}
}

func (f *FogOfWar) force(p geom.Vec2) {
	x, y := f.tile(p)
	if x >= 0 && y >= 0 && x < f.Cols && y < f.Rows {
		f.Grid[y*f.Cols+x] = FogVisible
	}
}

// FogSystem recomputes every faction's fog each tick
type FogSystem struct {
	Fogs     map[core.Faction]*FogOfWar
	Observer core.Faction // enemy buildings it sees are flagged explored
}

func NewFogSystem(width, height, tile float64, observer core.Faction) *FogSystem {
	fs := &FogSystem{Fogs: make(map[core.Faction]*FogOfWar), Observer: observer}
	for _, f := range core.Factions {
		fs.Fogs[f] = NewFogOfWar(width, height, tile, f)
	}
	return fs
}

func (s *FogSystem) Priority() int { return 70 }

func (s *FogSystem) Update(w *core.World, _ float64) {
	// Demote all visible to explored
	for _, fog := range s.Fogs {
		for i := range fog.Grid {
			if fog.Grid[i] == FogVisible {
				fog.Grid[i] = FogExplored
			}
		}
	}

	for _, id := range w.Query(core.CompPosition, core.CompFogVision, core.CompOwner) {
		fog := s.Fogs[FactionOf(w, id)]
		if fog == nil {
			continue
		}
		at := Center(w, id)
		fog.Reveal(at, w.Get(id, core.CompFogVision).(*core.FogVision).Radius)
		if w.Has(id, core.CompBuilding) {
			fog.force(at)
		}
	}

	fog := s.Fogs[s.Observer]
	if fog == nil {
		return
	}
	for _, id := range w.Query(core.CompBuilding, core.CompOwner) {
		if !core.AreEnemies(s.Observer, FactionOf(w, id)) {
			continue
		}
		if b := w.Get(id, core.CompBuilding).(*core.Building); !b.Explored && fog.IsVisible(Center(w, id)) {
			b.Explored = true
		}
	}
}
