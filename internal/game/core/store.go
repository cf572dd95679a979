package core

import "github.com/google/uuid"

// EntityStore holds every building and unit of a game in enumeration order.
// Lookups only consider living entities unless stated otherwise.
type EntityStore struct {
	Buildings []Building
	Units     []Unit
}

// NewEntityStore creates an empty store
func NewEntityStore() *EntityStore {
	return &EntityStore{
		Buildings: make([]Building, 0, 16),
		Units:     make([]Unit, 0, 16),
	}
}

// AddBuilding appends a building and returns its index
func (s *EntityStore) AddBuilding(b Building) int {
	s.Buildings = append(s.Buildings, b)
	return len(s.Buildings) - 1
}

// AddUnit appends a unit and returns its index
func (s *EntityStore) AddUnit(u Unit) int {
	s.Units = append(s.Units, u)
	return len(s.Units) - 1
}

// BuildingAt returns the index of the living building at c, or -1
func (s *EntityStore) BuildingAt(c Coordinate) int {
	for i := range s.Buildings {
		if s.Buildings[i].Pos == c && s.Buildings[i].Alive() {
			return i
		}
	}
	return -1
}

// UnitAt returns the index of the living unit at c, or -1
func (s *EntityStore) UnitAt(c Coordinate) int {
	for i := range s.Units {
		if s.Units[i].Pos == c && s.Units[i].Alive() {
			return i
		}
	}
	return -1
}

// OwnedUnitAt returns the index of the living unit owned by f at c, or -1
func (s *EntityStore) OwnedUnitAt(f Faction, c Coordinate) int {
	idx := s.UnitAt(c)
	if idx >= 0 && s.Units[idx].Owner != f {
		return -1
	}
	return idx
}

// OwnedBuildingAt returns the index of the living building owned by f at c, or -1
func (s *EntityStore) OwnedBuildingAt(f Faction, c Coordinate) int {
	idx := s.BuildingAt(c)
	if idx >= 0 && s.Buildings[idx].Owner != f {
		return -1
	}
	return idx
}

// Occupied reports whether any living entity stands on c
func (s *EntityStore) Occupied(c Coordinate) bool {
	return s.BuildingAt(c) >= 0 || s.UnitAt(c) >= 0
}

// UnitIndex returns the index of the unit with the given id, or -1.
// Dead units are purged eagerly, so a hit is normally alive.
func (s *EntityStore) UnitIndex(id uuid.UUID) int {
	for i := range s.Units {
		if s.Units[i].ID == id {
			return i
		}
	}
	return -1
}

// King returns the index of f's king, alive or not, or -1
func (s *EntityStore) King(f Faction) int {
	for i := range s.Buildings {
		if s.Buildings[i].Owner == f && s.Buildings[i].IsKing() {
			return i
		}
	}
	return -1
}

// KingHP returns the HP of f's king, or 0 if it is missing
func (s *EntityStore) KingHP(f Faction) int {
	if idx := s.King(f); idx >= 0 {
		return s.Buildings[idx].HP
	}
	return 0
}

// FirstBuilding returns the index of f's first living building of the given kind, or -1
func (s *EntityStore) FirstBuilding(f Faction, kind BuildingKind) int {
	for i := range s.Buildings {
		b := &s.Buildings[i]
		if b.Owner == f && b.Kind == kind && b.Alive() {
			return i
		}
	}
	return -1
}

// CountBuildings counts f's living buildings of the given kind
func (s *EntityStore) CountBuildings(f Faction, kind BuildingKind) int {
	n := 0
	for i := range s.Buildings {
		b := &s.Buildings[i]
		if b.Owner == f && b.Kind == kind && b.Alive() {
			n++
		}
	}
	return n
}

// CountUnits counts every unit in the store owned by f
func (s *EntityStore) CountUnits(f Faction) int {
	n := 0
	for i := range s.Units {
		if s.Units[i].Owner == f {
			n++
		}
	}
	return n
}

// LivingPositions returns the positions of f's living buildings followed by its living units
func (s *EntityStore) LivingPositions(f Faction) []Coordinate {
	out := make([]Coordinate, 0, len(s.Buildings)+len(s.Units))
	for i := range s.Buildings {
		if s.Buildings[i].Owner == f && s.Buildings[i].Alive() {
			out = append(out, s.Buildings[i].Pos)
		}
	}
	for i := range s.Units {
		if s.Units[i].Owner == f && s.Units[i].Alive() {
			out = append(out, s.Units[i].Pos)
		}
	}
	return out
}

// PurgeDeadUnits removes every unit with HP <= 0 and returns the removed units
func (s *EntityStore) PurgeDeadUnits() []Unit {
	var removed []Unit
	kept := s.Units[:0]
	for _, u := range s.Units {
		if u.Alive() {
			kept = append(kept, u)
		} else {
			removed = append(removed, u)
		}
	}
	s.Units = kept
	return removed
}

// PurgeDeadBuildings removes every non-king building with HP <= 0 and returns them
func (s *EntityStore) PurgeDeadBuildings() []Building {
	var removed []Building
	kept := s.Buildings[:0]
	for _, b := range s.Buildings {
		if b.Alive() || b.IsKing() {
			kept = append(kept, b)
		} else {
			removed = append(removed, b)
		}
	}
	s.Buildings = kept
	return removed
}

// Clone returns a deep copy of the store
func (s *EntityStore) Clone() *EntityStore {
	c := &EntityStore{
		Buildings: make([]Building, len(s.Buildings)),
		Units:     make([]Unit, len(s.Units)),
	}
	copy(c.Buildings, s.Buildings)
	copy(c.Units, s.Units)
	return c
}
