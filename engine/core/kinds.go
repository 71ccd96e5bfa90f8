package core

import (
	"fmt"
	"strings"
)

// Kind is the closed set of entity types in a match
type Kind uint8

const (
	KindNone Kind = iota
	KindInfantry
	KindTank
	KindHarvester
	KindHeadquarters
	KindBarracks
	KindWarFactory
	KindPowerPlant
	KindTurret
	KindProjectile
	KindIronField
	KindParticle
)

var kindNames = [...]string{
	KindNone:         "none",
	KindInfantry:     "infantry",
	KindTank:         "tank",
	KindHarvester:    "harvester",
	KindHeadquarters: "headquarters",
	KindBarracks:     "barracks",
	KindWarFactory:   "war_factory",
	KindPowerPlant:   "power_plant",
	KindTurret:       "turret",
	KindProjectile:   "projectile",
	KindIronField:    "iron_field",
	KindParticle:     "particle",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsUnit reports whether k is a mobile unit
func (k Kind) IsUnit() bool {
	return k == KindInfantry || k == KindTank || k == KindHarvester
}

// IsBuilding reports whether k is a structure
func (k Kind) IsBuilding() bool {
	return k >= KindHeadquarters && k <= KindTurret
}

// ParseKind resolves a kind by name, case-insensitively
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), nil
		}
	}
	return KindNone, fmt.Errorf("unknown kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
