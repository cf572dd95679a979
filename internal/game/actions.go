package game

import (
	"github.com/google/uuid"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
)

// This file contains the human player commands. Every command either applies
// in full and returns nil, or returns an error wrapping one of the core
// rejection sentinels and leaves the game untouched.

// acceptsHumanCommand reports why the human may not act right now
func (e *Engine) acceptsHumanCommand() error {
	if e.gs.Outcome.IsDecided() {
		return core.ErrGameOver
	}
	if !e.stateMachine.AcceptsActions() || e.gs.Current != core.FactionHuman {
		return core.ErrNotYourTurn
	}
	return nil
}

// reject logs and publishes a refused command and returns its error
func (e *Engine) reject(action string, err error) error {
	e.logger.Debug().
		Err(err).
		Str("action", action).
		Int("turn", e.gs.Turn).
		Msg("Command rejected")
	e.eventBus.Publish(events.NewActionRejectedEvent(e.gameID, core.FactionHuman, action, err, e.gs.Turn))
	return err
}

// SelectTile remembers p as the target of the next build
func (e *Engine) SelectTile(p core.Coordinate) error {
	const action = "select_tile"
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject(action, err)
	}
	if !e.gs.Grid.InBounds(p) {
		return e.reject(action, core.ErrInvalidCoordinates)
	}
	e.gs.Selection.Tile = &p
	return nil
}

// SelectUnit selects the living unit of the current faction at p. Any other
// tile clears the unit selection.
func (e *Engine) SelectUnit(p core.Coordinate) error {
	const action = "select_unit"
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject(action, err)
	}
	idx := e.gs.Store.OwnedUnitAt(e.gs.Current, p)
	if idx < 0 {
		e.gs.Selection.UnitID = nil
		return nil
	}
	id := e.gs.Store.Units[idx].ID
	e.gs.Selection.UnitID = &id
	return nil
}

// selectedUnit returns the index of the selected unit if it still lives
func (e *Engine) selectedUnit() int {
	if e.gs.Selection.UnitID == nil {
		return -1
	}
	idx := e.gs.Store.UnitIndex(*e.gs.Selection.UnitID)
	if idx < 0 || !e.gs.Store.Units[idx].Alive() {
		return -1
	}
	return idx
}

// Build places a new human building of kind on the selected tile
func (e *Engine) Build(kind core.BuildingKind) error {
	const action = "build"
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject(action, err)
	}
	if e.gs.Selection.Tile == nil {
		return e.reject(action, core.ErrNoTileSelected)
	}
	if kind == core.BuildingKing {
		return e.reject(action, core.ErrKingNotBuildable)
	}
	cost, err := e.rules.Prices.BuildCost(kind)
	if err != nil {
		return e.reject(action, err)
	}
	if !e.gs.Ledger.CanAfford(core.FactionHuman, cost) {
		return e.reject(action, core.ErrInsufficientCoins)
	}
	tile := *e.gs.Selection.Tile
	if !e.gs.TileFree(tile) {
		return e.reject(action, core.ErrTileOccupied)
	}

	if err := e.gs.Ledger.Debit(core.FactionHuman, cost); err != nil {
		return e.reject(action, err)
	}
	b := core.NewBuilding(core.FactionHuman, kind, e.rules.BuildingHP, tile)
	e.gs.Store.AddBuilding(b)
	if kind == core.BuildingHouse {
		e.gs.Ledger.GrowUnitCap(core.FactionHuman, e.rules.HouseCapBonus)
	}
	e.recalcVisibility()

	e.logger.Debug().
		Str("kind", kind.String()).
		Str("at", tile.String()).
		Int("cost", cost).
		Int("coins_left", e.gs.Ledger.Coins(core.FactionHuman)).
		Msg("Building constructed")
	e.eventBus.Publish(events.NewBuildingConstructedEvent(e.gameID, b, cost, e.gs.Turn))
	return nil
}

// RecruitSoldier spawns a human unit next to the first living barracks
func (e *Engine) RecruitSoldier() error {
	const action = "recruit"
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject(action, err)
	}
	u, err := recruitUnit(e.gs, e.rules, core.FactionHuman)
	if err != nil {
		return e.reject(action, err)
	}
	e.recalcVisibility()

	e.logger.Debug().
		Str("at", u.Pos.String()).
		Int("coins_left", e.gs.Ledger.Coins(core.FactionHuman)).
		Msg("Soldier recruited")
	e.eventBus.Publish(events.NewUnitRecruitedEvent(e.gameID, u, e.rules.Prices.Recruit, e.gs.Turn))
	return nil
}

// MoveSelectedUnit jumps the selected unit to p. Only the destination must be
// free; tiles in between are ignored.
func (e *Engine) MoveSelectedUnit(p core.Coordinate) error {
	const action = "move"
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject(action, err)
	}
	idx := e.selectedUnit()
	if idx < 0 {
		return e.reject(action, core.ErrNoUnitSelected)
	}
	u := &e.gs.Store.Units[idx]
	if !e.gs.Grid.InBounds(p) {
		return e.reject(action, core.ErrInvalidCoordinates)
	}
	if u.Pos.DistanceTo(p) > u.MoveRange {
		return e.reject(action, core.ErrOutOfRange)
	}
	if !e.gs.TileFree(p) {
		return e.reject(action, core.ErrTileOccupied)
	}

	from := u.Pos
	u.Pos = p
	e.recalcVisibility()

	e.eventBus.Publish(events.NewUnitMovedEvent(e.gameID, *u, from, e.gs.Turn))
	return nil
}

// Attack strikes the enemy at q with the human unit at p. An enemy unit takes
// precedence over a building. Killed units are removed at once; destroyed
// buildings stay in the store until the next tower pass.
func (e *Engine) Attack(p, q core.Coordinate) error {
	const action = "attack"
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject(action, err)
	}
	aIdx := e.gs.Store.OwnedUnitAt(core.FactionHuman, p)
	if aIdx < 0 {
		return e.reject(action, core.ErrNoAttacker)
	}
	damage := e.gs.Store.Units[aIdx].Attack
	enemy := core.FactionHuman.Opponent()

	var (
		category  string
		remaining int
	)
	if uIdx := e.gs.Store.OwnedUnitAt(enemy, q); uIdx >= 0 {
		if !p.IsAdjacentTo(q) {
			return e.reject(action, core.ErrNotAdjacent)
		}
		target := &e.gs.Store.Units[uIdx]
		target.HP -= damage
		category, remaining = "unit", target.HP
	} else if bIdx := e.gs.Store.OwnedBuildingAt(enemy, q); bIdx >= 0 {
		if !p.IsAdjacentTo(q) {
			return e.reject(action, core.ErrNotAdjacent)
		}
		target := &e.gs.Store.Buildings[bIdx]
		target.HP -= damage
		category, remaining = "building", target.HP
	} else {
		return e.reject(action, core.ErrNoTarget)
	}

	e.eventBus.Publish(events.NewAttackResolvedEvent(e.gameID, core.FactionHuman, p, q, category, damage, remaining, e.gs.Turn))

	if removed := e.gs.Store.PurgeDeadUnits(); len(removed) > 0 {
		e.eventBus.Publish(events.NewEntitiesDestroyedEvent(e.gameID, removed, nil, e.gs.Turn))
	}
	e.recalcVisibility()
	return nil
}

// recruitUnit spawns a unit for f on the first free tile around f's first
// living barracks and debits the recruit price
func recruitUnit(gs *GameState, r Rules, f core.Faction) (core.Unit, error) {
	if !gs.Ledger.CanAfford(f, r.Prices.Recruit) {
		return core.Unit{}, core.ErrInsufficientCoins
	}
	if !gs.Ledger.HasUnitCapacity(f, gs.Store.CountUnits(f)) {
		return core.Unit{}, core.ErrUnitCapReached
	}
	bIdx := gs.Store.FirstBuilding(f, core.BuildingBarracks)
	if bIdx < 0 {
		return core.Unit{}, core.ErrNoBarracks
	}

	for _, spawn := range gs.Grid.Neighbors(gs.Store.Buildings[bIdx].Pos, 1) {
		if !gs.TileFree(spawn) {
			continue
		}
		if err := gs.Ledger.Debit(f, r.Prices.Recruit); err != nil {
			return core.Unit{}, err
		}
		u := core.NewUnit(f, r.Unit, spawn)
		gs.Store.AddUnit(u)
		return u, nil
	}
	return core.Unit{}, core.ErrNoSpawnTile
}

// SelectedUnitID returns the id of the selected unit, if it still lives
func (e *Engine) SelectedUnitID() (uuid.UUID, bool) {
	idx := e.selectedUnit()
	if idx < 0 {
		return uuid.UUID{}, false
	}
	return e.gs.Store.Units[idx].ID, true
}
