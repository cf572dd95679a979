package states

import (
	"errors"
	"time"
)

var (
	ErrOutcomeUndecided = errors.New("game has no outcome yet")
	ErrOutcomeDecided   = errors.New("game already has an outcome")
)

// InitializingState covers engine construction
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() GamePhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Bootstrap complete")
	return nil
}

func (s *InitializingState) Validate(ctx *GameContext) error {
	return nil
}

// HumanTurnState accepts player commands
type HumanTurnState struct{}

func NewHumanTurnState() State {
	return &HumanTurnState{}
}

func (s *HumanTurnState) Phase() GamePhase {
	return PhaseHumanTurn
}

func (s *HumanTurnState) Enter(ctx *GameContext) error {
	if ctx.StartTime.IsZero() {
		ctx.StartTime = time.Now()
		ctx.Logger.Info().Msg("Game started")
	}
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Human turn")
	return nil
}

func (s *HumanTurnState) Exit(ctx *GameContext) error {
	return nil
}

func (s *HumanTurnState) Validate(ctx *GameContext) error {
	if ctx.Outcome.IsDecided() {
		return ErrOutcomeDecided
	}
	return nil
}

// ResolvingState covers income and tower combat
type ResolvingState struct{}

func NewResolvingState() State {
	return &ResolvingState{}
}

func (s *ResolvingState) Phase() GamePhase {
	return PhaseResolving
}

func (s *ResolvingState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Resolving end of human turn")
	return nil
}

func (s *ResolvingState) Exit(ctx *GameContext) error {
	return nil
}

func (s *ResolvingState) Validate(ctx *GameContext) error {
	if ctx.Outcome.IsDecided() {
		return ErrOutcomeDecided
	}
	return nil
}

// AITurnState covers the scripted opponent
type AITurnState struct{}

func NewAITurnState() State {
	return &AITurnState{}
}

func (s *AITurnState) Phase() GamePhase {
	return PhaseAITurn
}

func (s *AITurnState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("AI turn")
	return nil
}

func (s *AITurnState) Exit(ctx *GameContext) error {
	return nil
}

func (s *AITurnState) Validate(ctx *GameContext) error {
	return nil
}

// EndedState represents a completed game
type EndedState struct{}

func NewEndedState() State {
	return &EndedState{}
}

func (s *EndedState) Phase() GamePhase {
	return PhaseEnded
}

func (s *EndedState) Enter(ctx *GameContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Str("outcome", ctx.Outcome.String()).
		Int("final_turn", ctx.Turn).
		Dur("game_duration", ctx.GetElapsedTime()).
		Msg("Game ended")
	return nil
}

func (s *EndedState) Exit(ctx *GameContext) error {
	return nil
}

func (s *EndedState) Validate(ctx *GameContext) error {
	if !ctx.Outcome.IsDecided() {
		return ErrOutcomeUndecided
	}
	return nil
}
