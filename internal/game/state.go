package game

import (
	"github.com/google/uuid"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/economy"
)

// Selection is the human's transient UI-driven choice
type Selection struct {
	Tile   *core.Coordinate
	UnitID *uuid.UUID
}

// GameState is the full mutable state of one game
type GameState struct {
	Turn    int
	Current core.Faction
	Outcome core.Outcome

	Grid   *core.Grid
	Store  *core.EntityStore
	Ledger *economy.Ledger

	// Visible is the fog-of-war set of the current faction
	Visible map[core.Coordinate]struct{}

	Selection Selection
}

// IsVisible reports whether c is in the current faction's visibility set
func (gs *GameState) IsVisible(c core.Coordinate) bool {
	_, ok := gs.Visible[c]
	return ok
}

// Clone returns a deep copy that shares nothing with gs
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Turn:    gs.Turn,
		Current: gs.Current,
		Outcome: gs.Outcome,
		Grid:    gs.Grid.Clone(),
		Store:   gs.Store.Clone(),
		Ledger:  gs.Ledger.Clone(),
		Visible: make(map[core.Coordinate]struct{}, len(gs.Visible)),
	}
	for p := range gs.Visible {
		c.Visible[p] = struct{}{}
	}
	if gs.Selection.Tile != nil {
		t := *gs.Selection.Tile
		c.Selection.Tile = &t
	}
	if gs.Selection.UnitID != nil {
		id := *gs.Selection.UnitID
		c.Selection.UnitID = &id
	}
	return c
}
