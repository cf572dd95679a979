package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/rules"
	"github.com/mitchelldurbincs/solarbloom/internal/game/states"
	"github.com/mitchelldurbincs/solarbloom/internal/wallet"
)

// GameConfig holds everything needed to start a game
type GameConfig struct {
	// Rules defaults to DefaultRules when left zero
	Rules  Rules
	GameID string
	Logger zerolog.Logger
	// EventBus is created when nil
	EventBus *events.EventBus
	// Wallet receives the win reward; nil disables crediting
	Wallet wallet.Crediter
}

// Engine owns one game and applies every command to it. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	gs     *GameState
	rules  Rules
	gameID string
	logger zerolog.Logger

	eventBus     *events.EventBus
	stateMachine *states.StateMachine
	winCondition *rules.WinConditionChecker
	legalMoves   *rules.LegalMoveCalculator

	incomeManager *IncomeManager
	towers        *TowerCombat
	opponent      *OpponentPolicy
	turnProcessor *TurnProcessor

	wallet         wallet.Crediter
	rewardCredited bool
}

// NewEngine creates a new engine with the bootstrap layout in place
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Public accessors

func (e *Engine) GameID() string                   { return e.gameID }
func (e *Engine) Turn() int                        { return e.gs.Turn }
func (e *Engine) Current() core.Faction            { return e.gs.Current }
func (e *Engine) Outcome() core.Outcome            { return e.gs.Outcome }
func (e *Engine) IsGameOver() bool                 { return e.gs.Outcome.IsDecided() }
func (e *Engine) Rules() Rules                     { return e.rules }
func (e *Engine) EventBus() *events.EventBus       { return e.eventBus }
func (e *Engine) Phase() states.GamePhase          { return e.stateMachine.CurrentPhase() }
func (e *Engine) Coins(f core.Faction) int         { return e.gs.Ledger.Coins(f) }
func (e *Engine) MaxUnits(f core.Faction) int      { return e.gs.Ledger.MaxUnits(f) }
func (e *Engine) IsVisible(p core.Coordinate) bool { return e.gs.IsVisible(p) }

// GameState returns a deep snapshot safe to hold across later mutations
func (e *Engine) GameState() *GameState { return e.gs.Clone() }

// Buildings returns a copy of every building in enumeration order
func (e *Engine) Buildings() []core.Building {
	out := make([]core.Building, len(e.gs.Store.Buildings))
	copy(out, e.gs.Store.Buildings)
	return out
}

// Units returns a copy of every unit in enumeration order
func (e *Engine) Units() []core.Unit {
	out := make([]core.Unit, len(e.gs.Store.Units))
	copy(out, e.gs.Store.Units)
	return out
}

// VisibleTiles returns the current faction's visible coordinates in row-major order
func (e *Engine) VisibleTiles() []core.Coordinate {
	out := make([]core.Coordinate, 0, len(e.gs.Visible))
	for i := range e.gs.Grid.T {
		c := core.FromIndex(i, e.gs.Grid.W)
		if e.gs.IsVisible(c) {
			out = append(out, c)
		}
	}
	return out
}

// Selection returns a copy of the current selection
func (e *Engine) Selection() Selection {
	var sel Selection
	if e.gs.Selection.Tile != nil {
		t := *e.gs.Selection.Tile
		sel.Tile = &t
	}
	if e.gs.Selection.UnitID != nil {
		id := *e.gs.Selection.UnitID
		sel.UnitID = &id
	}
	return sel
}

// Inside reports whether p lies on the grid
func (e *Engine) Inside(p core.Coordinate) bool {
	return e.gs.Grid.InBounds(p)
}

// TileFree reports whether p is inside, unblocked and holds no living entity
func (e *Engine) TileFree(p core.Coordinate) bool {
	return e.gs.TileFree(p)
}

// Neighbors returns the diamond of radius r around p in the fixed scan order
func (e *Engine) Neighbors(p core.Coordinate, r int) []core.Coordinate {
	return e.gs.Grid.Neighbors(p, r)
}

// LegalMoves lists where the living human unit at p may move and attack.
// Both lists are empty when no such unit exists.
func (e *Engine) LegalMoves(p core.Coordinate) (moves, attacks []core.Coordinate) {
	idx := e.gs.Store.OwnedUnitAt(core.FactionHuman, p)
	if idx < 0 {
		return nil, nil
	}
	u := &e.gs.Store.Units[idx]
	return e.legalMoves.ReachableTiles(u), e.legalMoves.AttackTargets(u)
}

// Apply dispatches a command object to the matching engine method
func (e *Engine) Apply(ctx context.Context, action core.Action) error {
	switch act := action.(type) {
	case *core.SelectTileAction:
		return e.SelectTile(act.At)
	case *core.SelectUnitAction:
		return e.SelectUnit(act.At)
	case *core.MoveAction:
		return e.MoveSelectedUnit(act.To)
	case *core.AttackAction:
		return e.Attack(act.From, act.To)
	case *core.BuildAction:
		return e.Build(act.Kind)
	case *core.RecruitAction:
		return e.RecruitSoldier()
	case *core.EndTurnAction:
		return e.EndTurnAndRunAI(ctx)
	case nil:
		return fmt.Errorf("%w: nil action", core.ErrUnknownAction)
	default:
		return fmt.Errorf("%w: %T", core.ErrUnknownAction, action)
	}
}
