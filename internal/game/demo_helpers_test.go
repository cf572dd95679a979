package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/processor"
	"github.com/mitchelldurbincs/solarbloom/internal/testutil"
)

func TestProcessorDrivesEngine(t *testing.T) {
	e := newTestEngine(t)
	ap := processor.NewActionProcessor(testutil.NopLogger())

	results, err := ap.Process(context.Background(), e, []core.Action{
		&core.SelectTileAction{At: c(7, 1)},
		&core.BuildAction{Kind: core.BuildingTower},
		&core.BuildAction{Kind: core.BuildingFarm},
		&core.SelectUnitAction{At: c(5, 5)},
		&core.MoveAction{To: c(6, 7)},
		&core.EndTurnAction{},
	})

	require.Len(t, results, 6)
	assert.ErrorIs(t, err, core.ErrInsufficientCoins, "the tower emptied the purse")
	for i, r := range results {
		if i == 2 {
			assert.False(t, r.Applied)
			continue
		}
		assert.True(t, r.Applied, "action %d: %v", i, r.Err)
	}
	assert.Equal(t, 2, e.Turn())
	assert.Equal(t, 2, e.Coins(core.FactionHuman))
}

func TestProcessorStopsAtGameOver(t *testing.T) {
	e := newTestEngine(t)
	e.gs.Store.Buildings[e.gs.Store.King(core.FactionAI)].HP = 0
	ap := processor.NewActionProcessor(testutil.NopLogger())

	results, err := ap.Process(context.Background(), e, []core.Action{
		&core.EndTurnAction{},
		&core.RecruitAction{},
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.OutcomeWin, e.Outcome())
}

func TestGenerateRandomActions(t *testing.T) {
	e := newTestEngine(t)
	rng := testutil.NewTestRNG(7)
	ap := processor.NewActionProcessor(testutil.NopLogger())

	for i := 0; i < 30 && !e.IsGameOver(); i++ {
		actions := GenerateRandomActions(e, rng)
		for _, a := range actions {
			assert.Equal(t, core.FactionHuman, a.GetFaction())
		}
		_, _ = ap.Process(context.Background(), e, actions)
		require.NoError(t, e.EndTurnAndRunAI(context.Background()))

		for _, f := range core.Factions {
			assert.LessOrEqual(t, e.gs.Store.CountUnits(f), e.MaxUnits(f))
			assert.GreaterOrEqual(t, e.Coins(f), 0)
		}
		occupied := make(map[core.Coordinate]bool)
		for _, p := range append(e.gs.Store.LivingPositions(core.FactionHuman), e.gs.Store.LivingPositions(core.FactionAI)...) {
			assert.False(t, occupied[p], "two living entities on %s", p)
			occupied[p] = true
		}
	}
}

func TestGenerateRandomActions_GameOver(t *testing.T) {
	e := newTestEngine(t)
	e.gs.Store.Buildings[e.gs.Store.King(core.FactionHuman)].HP = 0
	require.Equal(t, core.OutcomeLose, e.CheckVictory())

	assert.Nil(t, GenerateRandomActions(e, testutil.NewTestRNG(1)))
}
