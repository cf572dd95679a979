package game

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
)

// AITurnSummary describes what the scripted opponent did in one turn
type AITurnSummary struct {
	Recruited  bool
	Moved      int
	KingDamage int
}

// OpponentPolicy is the fixed script the AI faction follows: recruit when
// possible, march every unit toward the human king and hit it when adjacent.
// Other human entities are neither targets nor considered in pathing.
type OpponentPolicy struct {
	eventBus *events.EventBus
	gameID   string
	rules    Rules
	logger   zerolog.Logger
}

// NewOpponentPolicy creates a new opponent policy
func NewOpponentPolicy(eventBus *events.EventBus, gameID string, rules Rules, logger zerolog.Logger) *OpponentPolicy {
	return &OpponentPolicy{
		eventBus: eventBus,
		gameID:   gameID,
		rules:    rules,
		logger:   logger.With().Str("component", "OpponentPolicy").Logger(),
	}
}

// Run plays the AI turn on gs
func (op *OpponentPolicy) Run(gs *GameState) AITurnSummary {
	var summary AITurnSummary

	if u, err := recruitUnit(gs, op.rules, core.FactionAI); err == nil {
		summary.Recruited = true
		op.eventBus.Publish(events.NewUnitRecruitedEvent(op.gameID, u, op.rules.Prices.Recruit, gs.Turn))
	} else {
		op.logger.Debug().Err(err).Msg("AI skipped recruiting")
	}

	kIdx := gs.Store.King(core.FactionHuman)
	if kIdx >= 0 {
		king := gs.Store.Buildings[kIdx].Pos
		for i := range gs.Store.Units {
			u := &gs.Store.Units[i]
			if u.Owner != core.FactionAI || !u.Alive() {
				continue
			}

			from := u.Pos
			if dest, ok := op.advance(gs, u, king); ok {
				u.Pos = dest
				summary.Moved++
				op.eventBus.Publish(events.NewUnitMovedEvent(op.gameID, *u, from, gs.Turn))
			}

			if u.Pos.IsAdjacentTo(king) {
				gs.Store.Buildings[kIdx].HP -= u.Attack
				summary.KingDamage += u.Attack
			}
		}
	}

	if removed := gs.Store.PurgeDeadUnits(); len(removed) > 0 {
		op.eventBus.Publish(events.NewEntitiesDestroyedEvent(op.gameID, removed, nil, gs.Turn))
	}

	op.logger.Debug().
		Int("turn", gs.Turn).
		Bool("recruited", summary.Recruited).
		Int("units_moved", summary.Moved).
		Int("king_damage", summary.KingDamage).
		Msg("AI turn complete")

	op.eventBus.Publish(events.NewAITurnEvent(op.gameID, summary.Recruited, summary.Moved, summary.KingDamage, gs.Turn))
	return summary
}

// advance picks the greedy step toward target: min(moveRange, max(|dx|,|dy|))
// cells along x, else the same along y, else nothing
func (op *OpponentPolicy) advance(gs *GameState, u *core.Unit, target core.Coordinate) (core.Coordinate, bool) {
	d := target.Sub(u.Pos)
	step := min(u.MoveRange, max(abs(d.X), abs(d.Y)))
	for _, c := range u.Pos.StepToward(target, step) {
		if gs.TileFree(c) {
			return c, true
		}
	}
	return u.Pos, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
