package core

import (
	"fmt"

	"github.com/google/uuid"
)

// BuildingKind enumerates the structures a faction can own
type BuildingKind int

const (
	BuildingFarm BuildingKind = iota
	BuildingHouse
	BuildingBarracks
	BuildingTower
	BuildingKing
)

// String returns the string representation of a BuildingKind
func (k BuildingKind) String() string {
	switch k {
	case BuildingFarm:
		return "farm"
	case BuildingHouse:
		return "house"
	case BuildingBarracks:
		return "barracks"
	case BuildingTower:
		return "tower"
	case BuildingKing:
		return "king"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Buildable reports whether the kind can be placed by the build action
func (k BuildingKind) Buildable() bool {
	switch k {
	case BuildingFarm, BuildingHouse, BuildingBarracks, BuildingTower:
		return true
	default:
		return false
	}
}

// ParseBuildingKind converts a string to a BuildingKind
func ParseBuildingKind(s string) (BuildingKind, error) {
	switch s {
	case "farm":
		return BuildingFarm, nil
	case "house":
		return BuildingHouse, nil
	case "barracks":
		return BuildingBarracks, nil
	case "tower":
		return BuildingTower, nil
	case "king":
		return BuildingKing, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBuildingKind, s)
	}
}

// Building is a stationary faction-owned structure.
// HP may go negative through damage; kings are never removed so that
// defeat can be read from their HP.
type Building struct {
	ID    uuid.UUID
	Owner Faction
	Kind  BuildingKind
	HP    int
	Pos   Coordinate
}

// NewBuilding creates a building with a fresh id
func NewBuilding(owner Faction, kind BuildingKind, hp int, pos Coordinate) Building {
	return Building{ID: uuid.New(), Owner: owner, Kind: kind, HP: hp, Pos: pos}
}

// Alive reports whether the building still has HP
func (b *Building) Alive() bool { return b.HP > 0 }

// IsKing reports whether the building is its faction's king
func (b *Building) IsKing() bool { return b.Kind == BuildingKing }

// DisplayHP floors HP at zero for presentation
func (b *Building) DisplayHP() int { return max(0, b.HP) }

// Unit is a mobile faction-owned combatant
type Unit struct {
	ID        uuid.UUID
	Owner     Faction
	HP        int
	Attack    int
	MoveRange int
	Pos       Coordinate
}

// UnitStats are the template values for newly spawned units
type UnitStats struct {
	HP        int
	Attack    int
	MoveRange int
}

// DefaultUnitStats returns the stock soldier profile
func DefaultUnitStats() UnitStats {
	return UnitStats{HP: 10, Attack: 5, MoveRange: 3}
}

// NewUnit creates a unit with a fresh id
func NewUnit(owner Faction, stats UnitStats, pos Coordinate) Unit {
	return Unit{
		ID:        uuid.New(),
		Owner:     owner,
		HP:        stats.HP,
		Attack:    stats.Attack,
		MoveRange: stats.MoveRange,
		Pos:       pos,
	}
}

func (u *Unit) Alive() bool { return u.HP > 0 }

// Outcome is the terminal result of a game from the human point of view
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLose
)

// String returns the string representation of an Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// IsDecided reports whether the game has ended
func (o Outcome) IsDecided() bool { return o != OutcomeNone }
