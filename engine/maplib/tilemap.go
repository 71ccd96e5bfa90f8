package maplib

import (
	"math"

	"github.com/1siamBot/ironfront/engine/core"
)

// Tile is one ground cell. Ground is decoration only; it never blocks
// movement or placement.
type Tile struct {
	Shade uint8 `json:"shade"` // green channel, 100..150
	Spot  bool  `json:"spot"`  // darker patch drawn in the middle
}

// TileMap is the ground grid under a battlefield
type TileMap struct {
	Cols, Rows int
	TileSize   float64
	Tiles      []Tile
}

// NewTileMap paints a width x height battlefield with random grass
func NewTileMap(width, height, tile float64, rng *core.Rand) *TileMap {
	tm := &TileMap{
		Cols:     int(math.Ceil(width / tile)),
		Rows:     int(math.Ceil(height / tile)),
		TileSize: tile,
	}
	tm.Tiles = make([]Tile, tm.Cols*tm.Rows)
	for i := range tm.Tiles {
		tm.Tiles[i] = Tile{
			Shade: uint8(rng.IntRange(100, 150)),
			Spot:  rng.Float64() < 0.1,
		}
	}
	return tm
}

// At returns a pointer to the tile at (x, y)
func (tm *TileMap) At(x, y int) *Tile {
	if !tm.InBounds(x, y) {
		return nil
	}
	return &tm.Tiles[y*tm.Cols+x]
}

// InBounds checks if coordinates are within map bounds
func (tm *TileMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < tm.Cols && y < tm.Rows
}
