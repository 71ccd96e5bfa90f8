package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Rules holds every tunable constant of a match. Per-kind unit and
// building statistics live in the tech tree; these are the global knobs.
type Rules struct {
	Map          MapRules          `json:"map"`
	TickRate     float64           `json:"tick_rate"`
	Economy      EconomyRules      `json:"economy"`
	Construction ConstructionRules `json:"construction"`
	Movement     MovementRules     `json:"movement"`
	Harvest      HarvestRules      `json:"harvest"`
	Field        FieldRules        `json:"field"`
	Projectile   ProjectileRules   `json:"projectile"`
	Collision    CollisionRules    `json:"collision"`
	Fog          FogRules          `json:"fog"`
	AI           AIRules           `json:"ai"`
}

type MapRules struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	TileSize float64 `json:"tile_size"`
}

type EconomyRules struct {
	StartIron          int     `json:"start_iron"`
	BaseProductionTime float64 `json:"base_production_time"` // ticks
	ProductionDiscount float64 `json:"production_discount"`  // per support building
	QueueCap           int     `json:"queue_cap"`
	SellRefund         float64 `json:"sell_refund"`
	BasePower          int     `json:"base_power"`
}

type ConstructionRules struct {
	Range float64 `json:"range"`
	Time  int     `json:"time"` // ticks of fade-in
}

type MovementRules struct {
	ArrivalRadius float64 `json:"arrival_radius"`
}

type HarvestRules struct {
	Capacity      int     `json:"capacity"`
	Time          int     `json:"time"`
	ArriveDist    float64 `json:"arrive_dist"`
	RichThreshold int     `json:"rich_threshold"`
}

type FieldRules struct {
	Capacity      int     `json:"capacity"`
	RegenAmount   int     `json:"regen_amount"`
	RegenInterval int     `json:"regen_interval"`
	Size          float64 `json:"size"`
}

type ProjectileRules struct {
	Speed     float64 `json:"speed"`
	HitRadius float64 `json:"hit_radius"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

type CollisionRules struct {
	Push          float64 `json:"push"`
	HarvesterPush float64 `json:"harvester_push"`
}

type FogRules struct {
	TileSize       float64 `json:"tile_size"`
	UnitReveal     float64 `json:"unit_reveal"`
	BuildingReveal float64 `json:"building_reveal"`
}

// AIRules tunes the computer opponent. StateRules, when non-empty,
// replaces the built-in state classifier conditions.
type AIRules struct {
	ActionInterval     int            `json:"action_interval"`
	ScoutInterval      int            `json:"scout_interval"`
	ScoutBatch         int            `json:"scout_batch"`
	ThreatRange        float64        `json:"threat_range"`
	MaxWave            int            `json:"max_wave"`
	WaveIntervalMin    int            `json:"wave_interval_min"`
	WaveIntervalMax    int            `json:"wave_interval_max"`
	SurpriseCooldown   int            `json:"surprise_cooldown"`
	SurpriseChance     float64        `json:"surprise_chance"`
	SurpriseMaxDefense int            `json:"surprise_max_defense"`
	TargetRange        float64        `json:"target_range"`
	DesiredRatio       map[string]int `json:"desired_ratio"`
	RatioScale         float64        `json:"ratio_scale"`
	SiteRadius         float64        `json:"site_radius"`
	SiteFieldRange     float64        `json:"site_field_range"`
	StateRules         []StateRule    `json:"state_rules,omitempty"`
}

// StateRule is a serialized AI state condition: when Condition evaluates
// true, the AI enters State. Higher Priority is tested first.
type StateRule struct {
	State     string `json:"state"`
	Priority  int    `json:"priority"`
	Condition string `json:"condition"`
}

// Default returns the rules the original game shipped with
func Default() *Rules {
	return &Rules{
		Map:      MapRules{Width: 1600, Height: 800, TileSize: 32},
		TickRate: 60,
		Economy: EconomyRules{
			StartIron:          1500,
			BaseProductionTime: 180,
			ProductionDiscount: 0.9,
			QueueCap:           5,
			SellRefund:         0.5,
			BasePower:          300,
		},
		Construction: ConstructionRules{Range: 160, Time: 50},
		Movement:     MovementRules{ArrivalRadius: 5},
		Harvest:      HarvestRules{Capacity: 100, Time: 40, ArriveDist: 30, RichThreshold: 1000},
		Field:        FieldRules{Capacity: 5000, RegenAmount: 15, RegenInterval: 500, Size: 40},
		Projectile:   ProjectileRules{Speed: 6, HitRadius: 3, Width: 10, Height: 5},
		Collision:    CollisionRules{Push: 0.5, HarvesterPush: 0.3},
		Fog:          FogRules{TileSize: 32, UnitReveal: 150, BuildingReveal: 200},
		AI: AIRules{
			ActionInterval:     50,
			ScoutInterval:      200,
			ScoutBatch:         3,
			ThreatRange:        500,
			MaxWave:            25,
			WaveIntervalMin:    150,
			WaveIntervalMax:    250,
			SurpriseCooldown:   300,
			SurpriseChance:     0.1,
			SurpriseMaxDefense: 5,
			TargetRange:        250,
			DesiredRatio:       map[string]int{"harvester": 4, "infantry": 6, "tank": 3, "turret": 3},
			RatioScale:         1.8,
			SiteRadius:         120,
			SiteFieldRange:     600,
		},
	}
}

// Validate rejects rule sets the simulation cannot run with
func (r *Rules) Validate() error {
	var errs []error
	if r.Map.Width <= 0 || r.Map.Height <= 0 {
		errs = append(errs, fmt.Errorf("map size %vx%v must be positive", r.Map.Width, r.Map.Height))
	}
	if r.Map.TileSize <= 0 || r.Fog.TileSize <= 0 {
		errs = append(errs, errors.New("tile sizes must be positive"))
	}
	if r.TickRate <= 0 {
		errs = append(errs, errors.New("tick rate must be positive"))
	}
	if r.Economy.QueueCap <= 0 {
		errs = append(errs, errors.New("queue cap must be positive"))
	}
	if r.AI.WaveIntervalMax < r.AI.WaveIntervalMin {
		errs = append(errs, fmt.Errorf("wave interval %d..%d is empty", r.AI.WaveIntervalMin, r.AI.WaveIntervalMax))
	}
	return errors.Join(errs...)
}

// LoadRules reads a JSON file over the defaults, so a partial file only
// changes the fields it names.
func LoadRules(path string) (*Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return r, nil
}

// Save writes the rules as indented JSON
func (r *Rules) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
