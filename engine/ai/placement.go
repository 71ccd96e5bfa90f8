package ai

import (
	"log/slog"
	"math"

	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
	"github.com/1siamBot/ironfront/engine/systems"
)

// FindBuildingSite walks a ring around every friendly building and returns
// the first snapped site that validates and sits near the field closest
// to hq. With none found it falls back to hq's own snapped position.
func (c *Controller) FindBuildingSite(w *core.World, hq core.EntityID, k core.Kind) geom.Vec2 {
	ar := c.Rules.AI
	tile := c.Rules.Map.TileSize
	field, _ := systems.Nearest(w, systems.Center(w, hq), systems.Fields(w))

	for _, b := range systems.TeamBuildings(w, c.Faction) {
		center := systems.Center(w, b)
		for deg := 0; deg < 360; deg += 20 {
			site := geom.SnapToGrid(geom.Polar(center, float64(deg)*math.Pi/180, ar.SiteRadius), tile)
			if !c.Tree.ValidPlacement(w, c.Faction, k, site, c.Bounds) {
				continue
			}
			if field.IsZero() || site.Dist(systems.Center(w, field)) < ar.SiteFieldRange {
				return site
			}
		}
	}
	site := geom.SnapToGrid(systems.Center(w, hq), tile)
	slog.Debug("ai placement fallback", "faction", c.Faction, "kind", k, "site", site)
	return site
}
