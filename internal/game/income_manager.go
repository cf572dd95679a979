package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
)

// IncomeManager pays farm income at the end of the human turn
type IncomeManager struct {
	eventBus *events.EventBus
	gameID   string
	rules    Rules
	logger   zerolog.Logger
}

// NewIncomeManager creates a new income manager
func NewIncomeManager(eventBus *events.EventBus, gameID string, rules Rules, logger zerolog.Logger) *IncomeManager {
	return &IncomeManager{
		eventBus: eventBus,
		gameID:   gameID,
		rules:    rules,
		logger:   logger.With().Str("component", "IncomeManager").Logger(),
	}
}

// IsIncomeTurn reports whether income is paid when a turn with this number ends
func (im *IncomeManager) IsIncomeTurn(turn int) bool {
	return im.rules.IncomeInterval > 0 && turn%im.rules.IncomeInterval == 0
}

// ProcessTurnIncome credits each faction for its living farms when the
// current turn number is an income turn, and returns what was paid
func (im *IncomeManager) ProcessTurnIncome(gs *GameState) core.PerFaction[int] {
	var income core.PerFaction[int]
	if !im.IsIncomeTurn(gs.Turn) {
		im.logger.Debug().Int("turn", gs.Turn).Msg("No income this turn")
		return income
	}

	for _, f := range core.Factions {
		farms := gs.Store.CountBuildings(f, core.BuildingFarm)
		amount := farms * im.rules.IncomePerFarm
		gs.Ledger.Credit(f, amount)
		income.Set(f, amount)
	}

	im.logger.Debug().
		Int("turn", gs.Turn).
		Int("human_income", income.Human).
		Int("ai_income", income.AI).
		Msg("Turn income applied")

	im.eventBus.Publish(events.NewIncomeAppliedEvent(im.gameID, income, gs.Turn))
	return income
}
