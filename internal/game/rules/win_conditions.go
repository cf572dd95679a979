package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// WinConditionChecker decides the outcome from the two kings' HP
type WinConditionChecker struct {
	logger zerolog.Logger
}

// NewWinConditionChecker creates a new win condition checker
func NewWinConditionChecker(logger zerolog.Logger) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
	}
}

// Check returns Lose if the human king has fallen, otherwise Win if the AI
// king has fallen, otherwise None. A missing king counts as 0 HP.
func (wc *WinConditionChecker) Check(store *core.EntityStore) core.Outcome {
	humanKingHP := store.KingHP(core.FactionHuman)
	aiKingHP := store.KingHP(core.FactionAI)

	outcome := core.OutcomeNone
	switch {
	case humanKingHP <= 0:
		outcome = core.OutcomeLose
	case aiKingHP <= 0:
		outcome = core.OutcomeWin
	}

	wc.logger.Debug().
		Int("human_king_hp", humanKingHP).
		Int("ai_king_hp", aiKingHP).
		Str("outcome", outcome.String()).
		Msg("Victory check complete")

	return outcome
}
