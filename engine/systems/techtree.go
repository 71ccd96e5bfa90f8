package systems

import (
	"github.com/1siamBot/ironfront/engine/config"
	"github.com/1siamBot/ironfront/engine/core"
)

// FactionStats overrides the base stats of a kind for one faction
type FactionStats struct {
	HP     int
	Speed  float64
	Damage int
}

// Def defines a unit or building type
type Def struct {
	Kind      core.Kind
	Name      string
	Cost      int
	PowerDraw int
	PowerGen  int
	W, H      float64
	HP        int
	Speed     float64
	Damage    int
	Range     float64
	Cooldown  int
	Leash     float64
	Ranged    bool
	Targets   core.TargetMask
	Vision    float64
	Prereq    core.Kind // building that must exist before queueing
	Producer  core.Kind // building the unit rolls out of
	Capacity  int
	Factions  map[core.Faction]FactionStats
}

// Stats returns hp, speed and damage for a faction
func (d *Def) Stats(f core.Faction) (int, float64, int) {
	if fs, ok := d.Factions[f]; ok {
		return fs.HP, fs.Speed, fs.Damage
	}
	return d.HP, d.Speed, d.Damage
}

// TechTree holds all definitions
type TechTree struct {
	Defs  map[core.Kind]*Def
	Rules *config.Rules
}

// NewTechTree creates the two-faction tech tree
func NewTechTree(r *config.Rules) *TechTree {
	tt := &TechTree{Defs: make(map[core.Kind]*Def), Rules: r}
	unitVision := r.Fog.UnitReveal
	bldgVision := r.Fog.BuildingReveal

	tt.add(&Def{Kind: core.KindInfantry, Name: "Infantry", Cost: 100, PowerDraw: 5, W: 16, H: 16,
		Damage: 8, Range: 50, Cooldown: 25, Leash: 200, Targets: core.TargetAll, Vision: unitVision,
		Prereq: core.KindBarracks, Producer: core.KindBarracks,
		Factions: map[core.Faction]FactionStats{
			core.FactionGDI: {HP: 100, Speed: 3.5, Damage: 8},
			core.FactionNOD: {HP: 60, Speed: 4, Damage: 8},
		}})
	tt.add(&Def{Kind: core.KindTank, Name: "Tank", Cost: 500, PowerDraw: 15, W: 30, H: 20,
		Range: 200, Cooldown: 50, Leash: 250, Ranged: true, Targets: core.TargetAll, Vision: unitVision,
		Prereq: core.KindWarFactory, Producer: core.KindWarFactory,
		Factions: map[core.Faction]FactionStats{
			core.FactionGDI: {HP: 200, Speed: 2.5, Damage: 20},
			core.FactionNOD: {HP: 120, Speed: 3, Damage: 15},
		}})
	tt.add(&Def{Kind: core.KindHarvester, Name: "Harvester", Cost: 800, PowerDraw: 20, W: 50, H: 30,
		HP: 300, Speed: 2.5, Damage: 10, Range: 50, Cooldown: 30, Targets: core.TargetInfantry,
		Vision: unitVision, Capacity: r.Harvest.Capacity,
		Prereq: core.KindWarFactory, Producer: core.KindWarFactory})

	tt.add(&Def{Kind: core.KindHeadquarters, Name: "Headquarters", Cost: 2000, W: 80, H: 80, HP: 1200,
		Vision: bldgVision, Producer: core.KindHeadquarters})
	tt.add(&Def{Kind: core.KindBarracks, Name: "Barracks", Cost: 500, PowerDraw: 25, W: 60, H: 60, HP: 600,
		Vision: bldgVision, Producer: core.KindHeadquarters})
	tt.add(&Def{Kind: core.KindWarFactory, Name: "War Factory", Cost: 1000, PowerDraw: 35, W: 60, H: 60, HP: 800,
		Vision: bldgVision, Producer: core.KindHeadquarters})
	tt.add(&Def{Kind: core.KindPowerPlant, Name: "Power Plant", Cost: 300, PowerGen: 100, W: 60, H: 60, HP: 500,
		Vision: bldgVision, Producer: core.KindHeadquarters})
	tt.add(&Def{Kind: core.KindTurret, Name: "Turret", Cost: 600, PowerDraw: 25, W: 50, H: 50, HP: 500,
		Damage: 15, Range: 180, Cooldown: 25, Ranged: true, Targets: core.TargetUnits,
		Vision: bldgVision, Producer: core.KindHeadquarters})

	return tt
}

func (tt *TechTree) add(d *Def) {
	tt.Defs[d.Kind] = d
}

// Def returns the definition of k, or nil
func (tt *TechTree) Def(k core.Kind) *Def {
	return tt.Defs[k]
}

// Cost returns the iron cost of k
func (tt *TechTree) Cost(k core.Kind) int {
	if d := tt.Defs[k]; d != nil {
		return d.Cost
	}
	return 0
}

// HasPrereq checks if a faction owns the building k requires
func (tt *TechTree) HasPrereq(w *core.World, f core.Faction, k core.Kind) bool {
	d := tt.Defs[k]
	if d == nil {
		return false
	}
	if d.Prereq == core.KindNone {
		return true
	}
	return Count(w, f, d.Prereq) > 0
}

// ProductionTime returns the ticks needed to build k: the base time,
// discounted once per live support building of the matching type.
func (tt *TechTree) ProductionTime(w *core.World, f core.Faction, k core.Kind) float64 {
	eco := tt.Rules.Economy
	n := 0
	switch k {
	case core.KindInfantry:
		n = Count(w, f, core.KindBarracks)
	case core.KindTank, core.KindHarvester:
		n = Count(w, f, core.KindWarFactory)
	}
	t := eco.BaseProductionTime
	for i := 0; i < n; i++ {
		t *= eco.ProductionDiscount
	}
	return t
}
