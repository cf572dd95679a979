package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/rules"
)

// TowerCombat resolves the automatic tower fire of one faction
type TowerCombat struct {
	eventBus *events.EventBus
	gameID   string
	rules    Rules
	logger   zerolog.Logger
}

// NewTowerCombat creates a new tower combat resolver
func NewTowerCombat(eventBus *events.EventBus, gameID string, rules Rules, logger zerolog.Logger) *TowerCombat {
	return &TowerCombat{
		eventBus: eventBus,
		gameID:   gameID,
		rules:    rules,
		logger:   logger.With().Str("component", "TowerCombat").Logger(),
	}
}

// ResolveTowers lets every living tower of owner hit one target, then removes
// dead units and dead non-king buildings of both factions. Returns the number
// of shots fired.
func (tc *TowerCombat) ResolveTowers(gs *GameState, owner core.Faction) int {
	store := gs.Store

	var towers []int
	for i := range store.Buildings {
		b := &store.Buildings[i]
		if b.Owner == owner && b.Kind == core.BuildingTower && b.Alive() {
			towers = append(towers, i)
		}
	}

	shots := 0
	for _, ti := range towers {
		tower := &store.Buildings[ti]
		target, ok := rules.SelectTowerTarget(store, tower, tc.rules.TowerRange)
		if !ok {
			continue
		}

		var pos core.Coordinate
		var remaining int
		switch target.Category {
		case rules.TargetUnit:
			u := &store.Units[target.Index]
			u.HP -= tc.rules.TowerDamage
			pos, remaining = u.Pos, u.HP
		default:
			b := &store.Buildings[target.Index]
			b.HP -= tc.rules.TowerDamage
			pos, remaining = b.Pos, b.HP
		}
		shots++

		tc.eventBus.Publish(events.NewTowerFiredEvent(
			tc.gameID, owner, tower.Pos, pos, target.Category.String(),
			tc.rules.TowerDamage, remaining, gs.Turn,
		))
	}

	deadUnits := store.PurgeDeadUnits()
	deadBuildings := store.PurgeDeadBuildings()
	if len(deadUnits) > 0 || len(deadBuildings) > 0 {
		tc.eventBus.Publish(events.NewEntitiesDestroyedEvent(tc.gameID, deadUnits, deadBuildings, gs.Turn))
	}

	tc.logger.Debug().
		Str("faction", owner.String()).
		Int("towers", len(towers)).
		Int("shots", shots).
		Int("units_removed", len(deadUnits)).
		Int("buildings_removed", len(deadBuildings)).
		Msg("Tower pass complete")

	return shots
}
