package rules

import (
	"sort"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// TargetCategory ranks what a tower prefers to shoot; lower ranks first
type TargetCategory int

const (
	TargetUnit TargetCategory = iota
	TargetBuilding
)

func (c TargetCategory) String() string {
	if c == TargetUnit {
		return "unit"
	}
	return "building"
}

// Target points at an entity in the store by category and enumeration index
type Target struct {
	Category TargetCategory
	Index    int
}

// TowerTargets lists every living enemy of the tower's owner within rng,
// ordered by (category, enumeration index).
func TowerTargets(store *core.EntityStore, tower *core.Building, rng int) []Target {
	var targets []Target
	for i := range store.Units {
		u := &store.Units[i]
		if u.Owner != tower.Owner && u.Alive() && u.Pos.DistanceTo(tower.Pos) <= rng {
			targets = append(targets, Target{Category: TargetUnit, Index: i})
		}
	}
	for i := range store.Buildings {
		b := &store.Buildings[i]
		if b.Owner != tower.Owner && b.Alive() && b.Pos.DistanceTo(tower.Pos) <= rng {
			targets = append(targets, Target{Category: TargetBuilding, Index: i})
		}
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Category != targets[j].Category {
			return targets[i].Category < targets[j].Category
		}
		return targets[i].Index < targets[j].Index
	})
	return targets
}

// SelectTowerTarget returns the first candidate of TowerTargets
func SelectTowerTarget(store *core.EntityStore, tower *core.Building, rng int) (Target, bool) {
	targets := TowerTargets(store, tower, rng)
	if len(targets) == 0 {
		return Target{}, false
	}
	return targets[0], true
}
