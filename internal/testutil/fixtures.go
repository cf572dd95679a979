package testutil

import (
	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// C is shorthand for core.NewCoordinate in table tests
func C(x, y int) core.Coordinate {
	return core.NewCoordinate(x, y)
}

// CreateTestGrid creates an unblocked grid with the given dimensions
func CreateTestGrid(width, height int) *core.Grid {
	return core.NewGrid(width, height)
}

// CreateTestGridWithBlocked creates a grid and blocks the given tiles
func CreateTestGridWithBlocked(width, height int, blocked ...core.Coordinate) *core.Grid {
	grid := core.NewGrid(width, height)
	for _, c := range blocked {
		grid.SetBlocked(c, true)
	}
	return grid
}

// PlaceBuilding adds a building to the store and returns its index
func PlaceBuilding(store *core.EntityStore, owner core.Faction, kind core.BuildingKind, hp int, at core.Coordinate) int {
	return store.AddBuilding(core.NewBuilding(owner, kind, hp, at))
}

// PlaceUnit adds a default soldier to the store and returns its index
func PlaceUnit(store *core.EntityStore, owner core.Faction, at core.Coordinate) int {
	return store.AddUnit(core.NewUnit(owner, core.DefaultUnitStats(), at))
}

// CreateSimpleTestSetup creates a 12x6 grid with one king per faction:
// human at (1,3), AI at (10,3)
func CreateSimpleTestSetup() (*core.Grid, *core.EntityStore) {
	grid := CreateTestGrid(12, 6)
	store := core.NewEntityStore()
	PlaceBuilding(store, core.FactionHuman, core.BuildingKing, 100, C(1, 3))
	PlaceBuilding(store, core.FactionAI, core.BuildingKing, 100, C(10, 3))
	return grid, store
}
