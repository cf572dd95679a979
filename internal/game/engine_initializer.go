package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/economy"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/rules"
	"github.com/mitchelldurbincs/solarbloom/internal/game/states"
)

// Minimum grid that fits both bootstrap layouts without overlap
const (
	MinGridWidth  = 12
	MinGridHeight = 5
)

// ErrGridTooSmall is returned for boards below MinGridWidth x MinGridHeight
var ErrGridTooSmall = errors.New("grid too small")

// EngineInitializer handles the construction of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates a new engine with both factions bootstrapped and the
// human turn open
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	r := ei.config.Rules
	if r.Width < MinGridWidth || r.Height < MinGridHeight {
		return nil, fmt.Errorf("%w: %dx%d, minimum is %dx%d",
			ErrGridTooSmall, r.Width, r.Height, MinGridWidth, MinGridHeight)
	}

	gs := ei.initializeGameState()
	ei.bootstrap(gs)

	engine := ei.createEngine(gs)
	engine.recalcVisibility()

	if err := ei.initializeStateMachine(engine); err != nil {
		return nil, fmt.Errorf("state machine initialization failed: %w", err)
	}

	engine.eventBus.Publish(events.NewGameStartedEvent(engine.gameID, r.Width, r.Height))

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("width", r.Width).
		Int("height", r.Height).
		Bool("wallet", engine.wallet != nil).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults fills in missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Rules == (Rules{}) {
		ei.logger.Debug().Msg("No rules provided, using defaults")
		ei.config.Rules = DefaultRules()
	}

	if ei.config.GameID == "" {
		ei.config.GameID = uuid.New().String()
	}

	ei.logger = ei.logger.With().Str("game_id", ei.config.GameID).Logger()

	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBus(ei.logger)
	}
}

// initializeGameState creates the empty state for turn 1
func (ei *EngineInitializer) initializeGameState() *GameState {
	r := ei.config.Rules
	return &GameState{
		Turn:    1,
		Current: core.FactionHuman,
		Outcome: core.OutcomeNone,
		Grid:    core.NewGrid(r.Width, r.Height),
		Store:   core.NewEntityStore(),
		Ledger:  economy.NewLedger(r.StartingCoins, r.StartingUnitCap),
		Visible: make(map[core.Coordinate]struct{}),
	}
}

// bootstrap places both kings, then each faction's farm, house and barracks,
// then one unit per faction. The AI layout mirrors the human one across the
// vertical axis.
func (ei *EngineInitializer) bootstrap(gs *GameState) {
	r := ei.config.Rules
	w, mid := r.Width, r.Height/2

	layout := func(f core.Faction, x int) int {
		if f == core.FactionAI {
			return w - 1 - x
		}
		return x
	}

	for _, f := range core.Factions {
		gs.Store.AddBuilding(core.NewBuilding(f, core.BuildingKing, r.KingHP, core.NewCoordinate(layout(f, 2), mid)))
	}
	for _, f := range core.Factions {
		gs.Store.AddBuilding(core.NewBuilding(f, core.BuildingFarm, r.BuildingHP, core.NewCoordinate(layout(f, 3), mid-2)))
		gs.Store.AddBuilding(core.NewBuilding(f, core.BuildingHouse, r.BuildingHP, core.NewCoordinate(layout(f, 3), mid+2)))
		gs.Store.AddBuilding(core.NewBuilding(f, core.BuildingBarracks, r.BuildingHP, core.NewCoordinate(layout(f, 4), mid)))
	}
	for _, f := range core.Factions {
		gs.Store.AddUnit(core.NewUnit(f, r.Unit, core.NewCoordinate(layout(f, 5), mid)))
	}

	ei.logger.Debug().
		Int("buildings", len(gs.Store.Buildings)).
		Int("units", len(gs.Store.Units)).
		Msg("Bootstrap layout placed")
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(gs *GameState) *Engine {
	cfg := ei.config

	gameContext := states.NewGameContext(cfg.GameID, ei.logger)
	stateMachine := states.NewStateMachine(gameContext, cfg.EventBus)

	engine := &Engine{
		gs:           gs,
		rules:        cfg.Rules,
		gameID:       cfg.GameID,
		logger:       ei.logger,
		eventBus:     cfg.EventBus,
		stateMachine: stateMachine,
		winCondition: rules.NewWinConditionChecker(ei.logger),
		legalMoves:   rules.NewLegalMoveCalculator(gs.Grid, gs.Store),
		wallet:       cfg.Wallet,
	}

	// Managers need the engine's state and bus
	engine.incomeManager = NewIncomeManager(cfg.EventBus, cfg.GameID, cfg.Rules, ei.logger)
	engine.towers = NewTowerCombat(cfg.EventBus, cfg.GameID, cfg.Rules, ei.logger)
	engine.opponent = NewOpponentPolicy(cfg.EventBus, cfg.GameID, cfg.Rules, ei.logger)
	engine.turnProcessor = NewTurnProcessor(engine)

	return engine
}

// initializeStateMachine opens the first human turn
func (ei *EngineInitializer) initializeStateMachine(engine *Engine) error {
	if err := engine.stateMachine.TransitionTo(states.PhaseHumanTurn, "Bootstrap complete"); err != nil {
		ei.logger.Error().Err(err).Msg("Failed to transition to HumanTurn state")
		return err
	}
	return nil
}
