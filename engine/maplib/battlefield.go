package maplib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
	"github.com/1siamBot/ironfront/engine/geom"
)

// Placement puts one starting unit, centered on X, Y
type Placement struct {
	Kind core.Kind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// Start is a faction's opening position. HQ is the top-left corner of its
// headquarters; Iron 0 means the rules' starting iron.
type Start struct {
	Faction core.Faction `json:"faction"`
	HQ      geom.Vec2    `json:"hq"`
	Iron    int          `json:"iron,omitempty"`
	Units   []Placement  `json:"units"`
}

// Field is an iron field by its top-left corner
type Field struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Amount int     `json:"amount"`
}

// Battlefield is the opening layout of a match
type Battlefield struct {
	Name        string  `json:"name"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	TileSize    float64 `json:"tile_size"`
	Starts      []Start `json:"starts"`
	Fields      []Field `json:"fields,omitempty"`
	FieldCount  int     `json:"field_count"`  // random fields added when Fields is empty
	FieldMargin float64 `json:"field_margin"` // keep random fields this far from the edge
}

// Default returns the classic two-base layout: headquarters in opposite
// corners, three infantry and a harvester each, forty random fields.
func Default(r *config.Rules) *Battlefield {
	w, h := r.Map.Width, r.Map.Height
	bf := &Battlefield{
		Name:        "Default",
		Width:       w,
		Height:      h,
		TileSize:    r.Map.TileSize,
		FieldCount:  40,
		FieldMargin: 100,
	}
	for _, f := range core.Factions {
		hq := geom.V(300, 300)
		if f == core.FactionNOD {
			hq = geom.V(w-300, h-300)
		}
		bf.Starts = append(bf.Starts, Start{
			Faction: f,
			HQ:      hq,
			Units: []Placement{
				{Kind: core.KindInfantry, X: hq.X + 50, Y: hq.Y},
				{Kind: core.KindInfantry, X: hq.X + 70, Y: hq.Y},
				{Kind: core.KindInfantry, X: hq.X + 90, Y: hq.Y},
				{Kind: core.KindHarvester, X: hq.X + 100, Y: hq.Y + 100},
			},
		})
	}
	return bf
}

// Validate checks that the layout fits its own map
func (bf *Battlefield) Validate() error {
	var errs []error
	if bf.Width <= 0 || bf.Height <= 0 || bf.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("battlefield %q: size %vx%v tile %v", bf.Name, bf.Width, bf.Height, bf.TileSize))
	}
	seen := make(map[core.Faction]bool)
	bounds := geom.Rect{W: bf.Width, H: bf.Height}
	for _, s := range bf.Starts {
		if seen[s.Faction] {
			errs = append(errs, fmt.Errorf("faction %v starts twice", s.Faction))
		}
		seen[s.Faction] = true
		if !bounds.ContainsPoint(s.HQ) {
			errs = append(errs, fmt.Errorf("faction %v headquarters %v off the map", s.Faction, s.HQ))
		}
		for _, u := range s.Units {
			if !u.Kind.IsUnit() {
				errs = append(errs, fmt.Errorf("faction %v starting unit %v is not a unit", s.Faction, u.Kind))
			}
		}
	}
	if len(seen) < 2 {
		errs = append(errs, errors.New("a battlefield needs two starts"))
	}
	if 2*bf.FieldMargin >= min(bf.Width, bf.Height) && len(bf.Fields) == 0 && bf.FieldCount > 0 {
		errs = append(errs, fmt.Errorf("field margin %v leaves no room", bf.FieldMargin))
	}
	return errors.Join(errs...)
}

// ScatterFields returns the fixed fields, or FieldCount random ones with
// the given amount inside the margin when none are fixed.
func (bf *Battlefield) ScatterFields(rng *core.Rand, amount int) []Field {
	if len(bf.Fields) > 0 {
		return bf.Fields
	}
	lo := int(bf.FieldMargin)
	fields := make([]Field, 0, bf.FieldCount)
	for i := 0; i < bf.FieldCount; i++ {
		fields = append(fields, Field{
			X:      float64(rng.IntRange(lo, int(bf.Width)-lo)),
			Y:      float64(rng.IntRange(lo, int(bf.Height)-lo)),
			Amount: amount,
		})
	}
	return fields
}

// Save writes the battlefield as indented JSON
func (bf *Battlefield) Save(path string) error {
	data, err := json.MarshalIndent(bf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads and validates a battlefield file
func Load(path string) (*Battlefield, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read battlefield: %w", err)
	}
	var bf Battlefield
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse battlefield %s: %w", path, err)
	}
	if err := bf.Validate(); err != nil {
		return nil, err
	}
	return &bf, nil
}
