package rules

import "github.com/mitchelldurbincs/solarbloom/internal/game/core"

// LegalMoveCalculator lists the moves and attacks a unit may make, using the
// same checks as the engine's move and attack commands
type LegalMoveCalculator struct {
	grid  *core.Grid
	store *core.EntityStore
}

// NewLegalMoveCalculator creates a calculator over the given grid and store
func NewLegalMoveCalculator(grid *core.Grid, store *core.EntityStore) *LegalMoveCalculator {
	return &LegalMoveCalculator{grid: grid, store: store}
}

// TileFree reports whether c is in bounds, unblocked and unoccupied
func (lmc *LegalMoveCalculator) TileFree(c core.Coordinate) bool {
	return lmc.grid.InBounds(c) && !lmc.grid.IsBlocked(c) && !lmc.store.Occupied(c)
}

// ReachableTiles returns every destination within the unit's move range that is
// free. Intervening tiles are not checked; units jump.
func (lmc *LegalMoveCalculator) ReachableTiles(u *core.Unit) []core.Coordinate {
	if u == nil || !u.Alive() {
		return nil
	}
	var out []core.Coordinate
	for _, c := range lmc.grid.Neighbors(u.Pos, u.MoveRange) {
		if lmc.TileFree(c) {
			out = append(out, c)
		}
	}
	return out
}

// AttackTargets returns the adjacent cells holding a living enemy unit or building
func (lmc *LegalMoveCalculator) AttackTargets(u *core.Unit) []core.Coordinate {
	if u == nil || !u.Alive() {
		return nil
	}
	enemy := u.Owner.Opponent()
	var out []core.Coordinate
	for _, c := range lmc.grid.Neighbors(u.Pos, 1) {
		if c == u.Pos {
			continue
		}
		if lmc.store.OwnedUnitAt(enemy, c) >= 0 || lmc.store.OwnedBuildingAt(enemy, c) >= 0 {
			out = append(out, c)
		}
	}
	return out
}
