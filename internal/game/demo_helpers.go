package game

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

var buildableKinds = []core.BuildingKind{
	core.BuildingFarm,
	core.BuildingHouse,
	core.BuildingBarracks,
	core.BuildingTower,
}

// GenerateRandomActions creates a batch of plausible human commands for the
// current position: melee where possible, maybe a recruit, maybe a build on a
// visible free tile, and a move for one unit. Commands are not guaranteed to
// be accepted. This is a helper intended for demos, testing, or simple
// baseline agents.
func GenerateRandomActions(g *Engine, rng *rand.Rand) []core.Action {
	var actions []core.Action
	state := g.GameState()
	if state.Outcome.IsDecided() || state.Current != core.FactionHuman {
		return nil
	}

	var own []core.Unit
	for _, u := range state.Store.Units {
		if u.Owner == core.FactionHuman && u.Alive() {
			own = append(own, u)
		}
	}

	// Strike anything adjacent first
	for _, u := range own {
		_, attacks := g.LegalMoves(u.Pos)
		if len(attacks) > 0 {
			target := attacks[rng.Intn(len(attacks))]
			actions = append(actions, &core.AttackAction{From: u.Pos, To: target})
		}
	}

	if rng.Float32() < 0.5 {
		actions = append(actions, &core.RecruitAction{})
	}

	if rng.Float32() < 0.4 {
		var free []core.Coordinate
		for i := range state.Grid.T {
			c := core.FromIndex(i, state.Grid.W)
			if state.IsVisible(c) && state.TileFree(c) {
				free = append(free, c)
			}
		}
		if len(free) > 0 {
			tile := free[rng.Intn(len(free))]
			kind := buildableKinds[rng.Intn(len(buildableKinds))]
			actions = append(actions,
				&core.SelectTileAction{At: tile},
				&core.BuildAction{Kind: kind},
			)
		}
	}

	if len(own) > 0 {
		u := own[rng.Intn(len(own))]
		moves, _ := g.LegalMoves(u.Pos)
		if len(moves) > 0 {
			dest := moves[rng.Intn(len(moves))]
			actions = append(actions,
				&core.SelectUnitAction{At: u.Pos},
				&core.MoveAction{To: dest},
			)
		}
	}

	log.Debug().
		Int("turn", state.Turn).
		Int("num_actions", len(actions)).
		Msg("Generated random actions")
	return actions
}
