package processor

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// Applier is the subset of the engine the processor drives.
// This avoids circular imports with the game package.
type Applier interface {
	Apply(ctx context.Context, action core.Action) error
	Outcome() core.Outcome
}

// Result records what happened to one submitted action
type Result struct {
	Action  core.Action
	Applied bool
	Err     error
}

// ActionProcessor applies batches of human actions in submission order
type ActionProcessor struct {
	logger zerolog.Logger
}

// NewActionProcessor creates a new action processor
func NewActionProcessor(logger zerolog.Logger) *ActionProcessor {
	return &ActionProcessor{
		logger: logger.With().Str("component", "ActionProcessor").Logger(),
	}
}

// Process applies actions in order. A rejected action is recorded and does not stop
// the batch; the first rejection is returned as the error. Processing stops once the
// game has an outcome or ctx is cancelled; actions not reached get no Result.
func (ap *ActionProcessor) Process(ctx context.Context, applier Applier, actions []core.Action) ([]Result, error) {
	results := make([]Result, 0, len(actions))
	var encounteredError error

	for _, action := range actions {
		select {
		case <-ctx.Done():
			ap.logger.Warn().Err(ctx.Err()).Int("processed", len(results)).Msg("Action processing interrupted by context cancellation")
			return results, ctx.Err()
		default:
		}

		if applier.Outcome().IsDecided() {
			ap.logger.Debug().Int("remaining", len(actions)-len(results)).Msg("Game over, skipping remaining actions")
			break
		}

		if action == nil {
			ap.logger.Warn().Msg("Ignoring nil action")
			continue
		}

		ap.logger.Debug().Str("action", action.String()).Msg("Applying action")
		if err := applier.Apply(ctx, action); err != nil {
			wrappedErr := core.WrapActionError(action, err)
			ap.logger.Debug().Err(wrappedErr).
				Str("action_type", action.GetType().String()).
				Msg("Action rejected")
			results = append(results, Result{Action: action, Err: wrappedErr})
			if encounteredError == nil {
				encounteredError = wrappedErr
			}
			continue
		}
		results = append(results, Result{Action: action, Applied: true})
	}

	return results, encounteredError
}
