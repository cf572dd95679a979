package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/states"
)

// TurnProcessor handles the orchestration of one full turn cycle
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger.With().Str("component", "TurnProcessor").Logger(),
	}
}

// EndTurnAndRunAI closes the human turn: income, tower fire for both
// factions, the AI turn, the turn counter advance and the victory check.
// The context is only consulted before resolution starts.
func (e *Engine) EndTurnAndRunAI(ctx context.Context) error {
	return e.turnProcessor.ProcessTurn(ctx)
}

// ProcessTurn executes a complete turn cycle
func (tp *TurnProcessor) ProcessTurn(ctx context.Context) error {
	e := tp.engine

	if err := tp.checkContext(ctx); err != nil {
		return err
	}
	if err := e.acceptsHumanCommand(); err != nil {
		return e.reject("end_turn", err)
	}

	turnStart := time.Now()
	endingTurn := e.gs.Turn
	turnLogger := tp.logger.With().Int("turn", endingTurn).Logger()
	turnLogger.Debug().Msg("Ending human turn")

	if err := tp.transition(states.PhaseResolving, "Human ended turn"); err != nil {
		return err
	}

	e.incomeManager.ProcessTurnIncome(e.gs)
	for _, f := range core.Factions {
		e.towers.ResolveTowers(e.gs, f)
	}

	e.gs.Current = core.FactionAI
	e.recalcVisibility()
	if err := tp.transition(states.PhaseAITurn, "Resolution complete"); err != nil {
		return err
	}

	e.opponent.Run(e.gs)

	e.gs.Current = core.FactionHuman
	e.gs.Turn++
	e.stateMachine.GetContext().Turn = e.gs.Turn
	e.recalcVisibility()
	if err := tp.transition(states.PhaseHumanTurn, "AI turn complete"); err != nil {
		return err
	}

	e.eventBus.Publish(events.NewTurnEndedEvent(e.gameID, endingTurn, time.Since(turnStart)))

	if outcome := e.CheckVictory(); outcome.IsDecided() {
		turnLogger.Info().Str("outcome", outcome.String()).Msg("Game decided")
		return nil
	}

	e.eventBus.Publish(events.NewTurnStartedEvent(e.gameID, e.gs.Turn))
	turnLogger.Debug().
		Int("next_turn", e.gs.Turn).
		Dur("elapsed", time.Since(turnStart)).
		Msg("Turn cycle finished")
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.gs.Turn).
			Msg("End of turn cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

// transition moves the phase machine. A failure here means the engine's own
// sequencing is broken.
func (tp *TurnProcessor) transition(phase states.GamePhase, reason string) error {
	if err := tp.engine.stateMachine.TransitionTo(phase, reason); err != nil {
		tp.logger.Error().Err(err).Str("to_phase", phase.String()).Msg("Phase transition failed")
		return core.WrapGameStateError(tp.engine.gs.Turn, "turn cycle", fmt.Errorf("entering %s: %w", phase, err))
	}
	return nil
}

// CheckVictory decides the outcome from the kings' HP once. A decided
// outcome is never overwritten, and a win credits the wallet exactly once.
func (e *Engine) CheckVictory() core.Outcome {
	if e.gs.Outcome.IsDecided() {
		return e.gs.Outcome
	}

	outcome := e.winCondition.Check(e.gs.Store)
	if !outcome.IsDecided() {
		return outcome
	}

	e.gs.Outcome = outcome
	e.gs.Selection = Selection{}

	gameCtx := e.stateMachine.GetContext()
	gameCtx.Outcome = outcome
	if err := e.stateMachine.TransitionTo(states.PhaseEnded, "Outcome decided: "+outcome.String()); err != nil {
		e.logger.Error().Err(err).Msg("Failed to transition to Ended state")
	}

	e.eventBus.Publish(events.NewGameEndedEvent(e.gameID, outcome, e.gs.Turn, gameCtx.GetElapsedTime()))

	if outcome == core.OutcomeWin {
		e.creditWinReward()
	}
	return outcome
}

// creditWinReward pays the win reward into the wallet, at most once per game
func (e *Engine) creditWinReward() {
	if e.rewardCredited {
		return
	}
	e.rewardCredited = true

	amount := e.rules.WinReward
	if e.wallet == nil || amount <= 0 {
		e.logger.Debug().
			Bool("wallet", e.wallet != nil).
			Int("amount", amount).
			Msg("Skipping win reward")
		return
	}

	if err := e.wallet.Credit(amount); err != nil {
		e.logger.Error().Err(err).Int("amount", amount).Msg("Failed to credit win reward")
		return
	}

	e.logger.Info().Int("amount", amount).Msg("Win reward credited")
	e.eventBus.Publish(events.NewRewardCreditedEvent(e.gameID, amount))
}
