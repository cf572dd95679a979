package game

import "github.com/mitchelldurbincs/solarbloom/internal/game/core"

// This file contains the fog of war functionality for the game engine.

// recalcVisibility replaces the visible set with everything within the
// visibility radius of the current faction's living buildings and units
func (e *Engine) recalcVisibility() {
	clear(e.gs.Visible)
	for _, src := range e.gs.Store.LivingPositions(e.gs.Current) {
		for _, p := range e.gs.Grid.Neighbors(src, e.rules.VisibilityRadius) {
			e.gs.Visible[p] = struct{}{}
		}
	}
	e.logger.Debug().
		Str("faction", e.gs.Current.String()).
		Int("visible_tiles", len(e.gs.Visible)).
		Msg("Performed full visibility update")
}

// TileFree reports whether c is in bounds, unblocked and holds no living entity
func (gs *GameState) TileFree(c core.Coordinate) bool {
	return gs.Grid.InBounds(c) && !gs.Grid.IsBlocked(c) && !gs.Store.Occupied(c)
}
