package states

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// GameContext provides game-specific information to states for making decisions
type GameContext struct {
	// GameID uniquely identifies this game instance
	GameID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// StartTime is when the first human turn began
	StartTime time.Time

	// EndTime is when the game entered PhaseEnded
	EndTime time.Time

	// Turn mirrors the engine's turn counter
	Turn int

	// Outcome is set by the engine before requesting PhaseEnded
	Outcome core.Outcome
}

// NewGameContext creates a new game context
func NewGameContext(gameID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		GameID: gameID,
		Logger: logger.With().Str("game_id", gameID).Logger(),
		Turn:   1,
	}
}

// GetElapsedTime returns the time elapsed since the game started, frozen once it ends
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}
