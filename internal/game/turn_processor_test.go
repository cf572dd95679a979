package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/states"
	"github.com/mitchelldurbincs/solarbloom/internal/testutil"
	"github.com/mitchelldurbincs/solarbloom/internal/wallet"
)

type countingWallet struct {
	calls int
	total int
	err   error
}

func (w *countingWallet) Credit(amount int) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.total += amount
	return nil
}

func TestEndTurnAndRunAI_AdvancesOneTurn(t *testing.T) {
	e := newTestEngine(t)
	bus := e.EventBus()
	transitions := recordEvents(bus, events.TypeStateTransition)

	require.NoError(t, e.EndTurnAndRunAI(context.Background()))

	assert.Equal(t, 2, e.Turn())
	assert.Equal(t, core.FactionHuman, e.Current())
	assert.Equal(t, states.PhaseHumanTurn, e.Phase())
	assert.True(t, e.IsVisible(c(2, 5)), "visibility is the human's again")
	assert.False(t, e.IsVisible(c(13, 5)))

	var phases []string
	for _, ev := range *transitions {
		phases = append(phases, ev.(*events.StateTransitionEvent).ToPhase)
	}
	assert.Equal(t, []string{
		states.PhaseResolving.String(),
		states.PhaseAITurn.String(),
		states.PhaseHumanTurn.String(),
	}, phases)

	// The AI recruited next to its barracks and its starting unit advanced
	units := e.Units()
	require.Len(t, units, 3)
	assert.Equal(t, c(7, 5), units[1].Pos)
	assert.Equal(t, core.FactionAI, units[2].Owner)
	assert.Equal(t, c(8, 4), units[2].Pos, "spawned at (11,4) and advanced")
	assert.Equal(t, 5, e.Coins(core.FactionAI))
}

func TestEndTurnAndRunAI_IncomeParity(t *testing.T) {
	e := newTestEngine(t)
	income := recordEvents(e.EventBus(), events.TypeIncomeApplied)

	require.NoError(t, e.EndTurnAndRunAI(context.Background()))
	assert.Equal(t, 10, e.Coins(core.FactionHuman), "turn 1 is odd, no income")
	assert.Empty(t, *income)

	require.NoError(t, e.EndTurnAndRunAI(context.Background()))
	assert.Equal(t, 11, e.Coins(core.FactionHuman), "turn 2 is even, one farm pays one coin")
	require.Len(t, *income, 1)
	ev := (*income)[0].(*events.IncomeAppliedEvent)
	assert.Equal(t, 1, ev.HumanIncome)
	assert.Equal(t, 1, ev.AIIncome)
	assert.Equal(t, 2, ev.Metadata.Turn)

	require.NoError(t, e.EndTurnAndRunAI(context.Background()))
	assert.Equal(t, 11, e.Coins(core.FactionHuman))
}

func TestEndTurnAndRunAI_IncomeCountsLivingFarms(t *testing.T) {
	e := newTestEngine(t)
	e.gs.Ledger.SetCoins(core.FactionHuman, 12)
	require.NoError(t, e.SelectTile(c(6, 1)))
	require.NoError(t, e.Build(core.BuildingFarm))
	require.NoError(t, e.SelectTile(c(6, 2)))
	require.NoError(t, e.Build(core.BuildingFarm))

	// Dead farms awaiting cleanup do not pay
	idx := e.gs.Store.BuildingAt(c(6, 2))
	e.gs.Store.Buildings[idx].HP = 0

	e.gs.Turn = 2
	require.NoError(t, e.EndTurnAndRunAI(context.Background()))
	assert.Equal(t, 2, e.Coins(core.FactionHuman))
}

func TestEndTurnAndRunAI_TowersFireBeforeTheAIMoves(t *testing.T) {
	e := newTestEngine(t)
	fired := recordEvents(e.EventBus(), events.TypeTowerFired)
	testutil.PlaceBuilding(e.gs.Store, core.FactionHuman, core.BuildingTower, 30, c(8, 6))

	require.NoError(t, e.EndTurnAndRunAI(context.Background()))

	// The AI starter at (10,5) is the only enemy unit in range
	require.Len(t, *fired, 1)
	ev := (*fired)[0].(*events.TowerFiredEvent)
	assert.Equal(t, c(10, 5), ev.Target)
	assert.Equal(t, "human", ev.Metadata.Faction)
	assert.Equal(t, 6, e.Units()[1].HP)
}

func TestEndTurnAndRunAI_CancelledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	before := e.GameState()

	err := e.EndTurnAndRunAI(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, states.PhaseHumanTurn, e.Phase())
	unchanged(t, e, before)
}

func TestEndTurnAndRunAI_PassiveHumanLoses(t *testing.T) {
	w := &countingWallet{}
	e := newTestEngine(t, func(cfg *GameConfig) { cfg.Wallet = w })
	ended := recordEvents(e.EventBus(), events.TypeGameEnded)

	calls := 0
	for !e.IsGameOver() && calls < 50 {
		turn := e.Turn()
		require.NoError(t, e.EndTurnAndRunAI(context.Background()))
		calls++
		assert.Equal(t, turn+1, e.Turn())
		assert.Equal(t, core.FactionHuman, e.Current())
		for _, f := range core.Factions {
			assert.LessOrEqual(t, e.gs.Store.CountUnits(f), e.MaxUnits(f))
			assert.GreaterOrEqual(t, e.Coins(f), 0)
		}
	}

	assert.Equal(t, 22, calls)
	assert.Equal(t, 23, e.Turn())
	assert.Equal(t, core.OutcomeLose, e.Outcome())
	assert.Equal(t, states.PhaseEnded, e.Phase())
	assert.Equal(t, 0, e.Stats(core.FactionHuman).KingHP)
	assert.Zero(t, w.calls, "a loss pays nothing")

	require.Len(t, *ended, 1)
	assert.Equal(t, "lose", (*ended)[0].(*events.GameEndedEvent).Outcome)

	assert.ErrorIs(t, e.EndTurnAndRunAI(context.Background()), core.ErrGameOver)
	assert.Equal(t, 23, e.Turn())
}

func TestEndTurnAndRunAI_WinCreditsWalletOnce(t *testing.T) {
	w := wallet.NewMemoryWallet(0)
	e := newTestEngine(t, func(cfg *GameConfig) { cfg.Wallet = w })
	credited := recordEvents(e.EventBus(), events.TypeRewardCredited, events.TypeTurnStarted)

	king := e.gs.Store.King(core.FactionAI)
	e.gs.Store.Buildings[king].HP = 3
	testutil.PlaceUnit(e.gs.Store, core.FactionHuman, c(12, 5))
	require.NoError(t, e.Attack(c(12, 5), c(13, 5)))
	assert.Equal(t, -2, e.gs.Store.Buildings[king].HP)
	assert.Equal(t, core.OutcomeNone, e.Outcome(), "victory is only checked at the end of the cycle")

	require.NoError(t, e.EndTurnAndRunAI(context.Background()))

	assert.Equal(t, core.OutcomeWin, e.Outcome())
	assert.Equal(t, 2, e.Turn())
	assert.Equal(t, states.PhaseEnded, e.Phase())
	assert.Equal(t, 100, w.Balance())
	require.Len(t, *credited, 1, "reward credited, no new turn started")
	assert.Equal(t, 100, (*credited)[0].(*events.RewardCreditedEvent).Amount)

	assert.Equal(t, core.OutcomeWin, e.CheckVictory())
	assert.Equal(t, 100, w.Balance(), "re-checking never pays twice")
}

func TestCheckVictory(t *testing.T) {
	tests := []struct {
		name     string
		humanHP  int
		aiHP     int
		expected core.Outcome
		reward   int
	}{
		{"both kings standing", 100, 100, core.OutcomeNone, 0},
		{"ai king at zero", 100, 0, core.OutcomeWin, 100},
		{"human king below zero", -5, 100, core.OutcomeLose, 0},
		{"loss takes precedence", 0, 0, core.OutcomeLose, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &countingWallet{}
			e := newTestEngine(t, func(cfg *GameConfig) { cfg.Wallet = w })
			e.gs.Store.Buildings[e.gs.Store.King(core.FactionHuman)].HP = tt.humanHP
			e.gs.Store.Buildings[e.gs.Store.King(core.FactionAI)].HP = tt.aiHP

			assert.Equal(t, tt.expected, e.CheckVictory())
			assert.Equal(t, tt.expected, e.Outcome())
			assert.Equal(t, tt.expected.IsDecided(), e.IsGameOver())

			e.CheckVictory()
			assert.Equal(t, tt.reward, w.total)
		})
	}
}

func TestCheckVictory_OutcomeNeverOverwritten(t *testing.T) {
	e := newTestEngine(t)
	e.gs.Store.Buildings[e.gs.Store.King(core.FactionAI)].HP = 0
	require.Equal(t, core.OutcomeWin, e.CheckVictory())

	e.gs.Store.Buildings[e.gs.Store.King(core.FactionHuman)].HP = 0
	assert.Equal(t, core.OutcomeWin, e.CheckVictory())
}

func TestCheckVictory_WalletFailure(t *testing.T) {
	w := &countingWallet{err: errors.New("disk full")}
	e := newTestEngine(t, func(cfg *GameConfig) { cfg.Wallet = w })
	credited := recordEvents(e.EventBus(), events.TypeRewardCredited)

	e.gs.Store.Buildings[e.gs.Store.King(core.FactionAI)].HP = 0
	assert.Equal(t, core.OutcomeWin, e.CheckVictory())
	e.CheckVictory()

	assert.Equal(t, 1, w.calls, "the reward is attempted once")
	assert.Empty(t, *credited)
}

func TestCheckVictory_NoWallet(t *testing.T) {
	e := newTestEngine(t)
	e.gs.Store.Buildings[e.gs.Store.King(core.FactionAI)].HP = 0
	assert.Equal(t, core.OutcomeWin, e.CheckVictory())
}

func TestCheckVictory_ZeroRewardSkipsWallet(t *testing.T) {
	w := &countingWallet{err: wallet.ErrInvalidAmount}
	logger, buf := testutil.CaptureLogger()
	e := newTestEngine(t, func(cfg *GameConfig) {
		cfg.Wallet = w
		cfg.Logger = logger
		cfg.Rules = DefaultRules()
		cfg.Rules.WinReward = 0
	})
	credited := recordEvents(e.EventBus(), events.TypeRewardCredited)

	e.gs.Store.Buildings[e.gs.Store.King(core.FactionAI)].HP = 0
	assert.Equal(t, core.OutcomeWin, e.CheckVictory())

	assert.Zero(t, w.calls)
	assert.Empty(t, *credited)
	assert.NotContains(t, buf.String(), `"level":"error"`)
}

func TestIncomeManager_IsIncomeTurn(t *testing.T) {
	im := NewIncomeManager(events.NewEventBus(testutil.NopLogger()), "test-game", DefaultRules(), testutil.NopLogger())
	for turn, want := range map[int]bool{1: false, 2: true, 3: false, 4: true, 10: true} {
		assert.Equal(t, want, im.IsIncomeTurn(turn), "turn %d", turn)
	}

	r := DefaultRules()
	r.IncomeInterval = 0
	im = NewIncomeManager(events.NewEventBus(testutil.NopLogger()), "test-game", r, testutil.NopLogger())
	assert.False(t, im.IsIncomeTurn(2))
}
