package core

import "fmt"

// Faction identifies a side in the match
type Faction uint8

const (
	FactionNone Faction = iota
	FactionGDI
	FactionNOD
)

// Factions lists the playable sides in turn order
var Factions = []Faction{FactionGDI, FactionNOD}

func (f Faction) String() string {
	switch f {
	case FactionGDI:
		return "GDI"
	case FactionNOD:
		return "NOD"
	default:
		return "none"
	}
}

func (f Faction) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Faction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "GDI", "gdi":
		*f = FactionGDI
	case "NOD", "nod", "Nod":
		*f = FactionNOD
	default:
		return fmt.Errorf("unknown faction %q", b)
	}
	return nil
}

// Team represents one side of the match and owns its iron stockpile
type Team struct {
	Faction Faction
	Name    string
	Iron    int
	IsAI    bool
	HQLost  bool // set once the team has no headquarters left
}

// CanAfford reports whether the stockpile covers cost
func (t *Team) CanAfford(cost int) bool {
	return t.Iron >= cost
}

// Spend deducts cost; callers check CanAfford first
func (t *Team) Spend(cost int) {
	t.Iron -= cost
}

// Deposit adds harvested iron or refunds
func (t *Team) Deposit(amount int) {
	t.Iron += amount
}

// TeamManager manages all teams in a match, in attack-resolution order
type TeamManager struct {
	Teams []*Team
}

func NewTeamManager() *TeamManager {
	return &TeamManager{}
}

func (tm *TeamManager) AddTeam(t *Team) {
	tm.Teams = append(tm.Teams, t)
}

func (tm *TeamManager) Get(f Faction) *Team {
	for _, t := range tm.Teams {
		if t.Faction == f {
			return t
		}
	}
	return nil
}

// Opponent returns the first team that is not f
func (tm *TeamManager) Opponent(f Faction) *Team {
	for _, t := range tm.Teams {
		if t.Faction != f {
			return t
		}
	}
	return nil
}

// AreEnemies reports whether two factions fight each other
func AreEnemies(a, b Faction) bool {
	return a != b && a != FactionNone && b != FactionNone
}
