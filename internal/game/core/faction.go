package core

import "fmt"

// Faction identifies one of the two sides of a game
type Faction int

const (
	FactionHuman Faction = iota
	FactionAI
)

// Factions lists both factions in their fixed processing order
var Factions = [2]Faction{FactionHuman, FactionAI}

// String returns the string representation of a Faction
func (f Faction) String() string {
	switch f {
	case FactionHuman:
		return "human"
	case FactionAI:
		return "ai"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Opponent returns the other faction
func (f Faction) Opponent() Faction {
	if f == FactionHuman {
		return FactionAI
	}
	return FactionHuman
}

// IsValid reports whether f is one of the two known factions
func (f Faction) IsValid() bool {
	return f == FactionHuman || f == FactionAI
}

// ParseFaction converts a string to a Faction
func ParseFaction(s string) (Faction, error) {
	switch s {
	case "human":
		return FactionHuman, nil
	case "ai":
		return FactionAI, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFaction, s)
	}
}

// PerFaction holds exactly one value for each faction. Both values always
// exist, so there is no missing-key fallback to reason about.
type PerFaction[T any] struct {
	Human T
	AI    T
}

// NewPerFaction returns a PerFaction with both sides set to v
func NewPerFaction[T any](v T) PerFaction[T] {
	return PerFaction[T]{Human: v, AI: v}
}

// Get returns the value stored for f
func (p *PerFaction[T]) Get(f Faction) T {
	return *p.Ptr(f)
}

// Set stores v for f
func (p *PerFaction[T]) Set(f Faction, v T) {
	*p.Ptr(f) = v
}

// Ptr returns a pointer to the value stored for f. Unknown factions panic.
func (p *PerFaction[T]) Ptr(f Faction) *T {
	switch f {
	case FactionHuman:
		return &p.Human
	case FactionAI:
		return &p.AI
	default:
		panic(fmt.Sprintf("core: unknown faction %d", int(f)))
	}
}
