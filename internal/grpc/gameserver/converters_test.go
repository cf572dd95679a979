package gameserver

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	gameengine "github.com/mitchelldurbincs/solarbloom/internal/game"
	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

func newConverterEngine(t *testing.T, visibility int) *gameengine.Engine {
	t.Helper()
	r := gameengine.DefaultRules()
	r.VisibilityRadius = visibility
	e, err := gameengine.NewEngine(context.Background(), gameengine.GameConfig{
		Rules:  r,
		GameID: "converter-game",
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	return e
}

func TestStateMap_EnemyFactionIsFogged(t *testing.T) {
	e := newConverterEngine(t, 3)

	factions := stateMap(e)["factions"].(map[string]interface{})
	human := factions["human"].(map[string]interface{})
	ai := factions["ai"].(map[string]interface{})

	assert.Equal(t, 10, human["coins"])
	assert.Equal(t, 100, human["king_hp"])
	assert.Equal(t, map[string]interface{}{"units": 0}, ai)
}

func TestStateMap_SeenEnemyIsReported(t *testing.T) {
	e := newConverterEngine(t, 20)
	for _, b := range e.Buildings() {
		if b.Owner == core.FactionAI && b.IsKing() {
			require.True(t, e.IsVisible(b.Pos))
		}
	}

	ai := stateMap(e)["factions"].(map[string]interface{})["ai"].(map[string]interface{})
	assert.Equal(t, 100, ai["king_hp"])
	assert.Equal(t, e.Stats(core.FactionAI).Units, ai["units"])
	assert.NotContains(t, ai, "coins")
	assert.NotContains(t, ai, "max_units")
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"grid too large", fmt.Errorf("%w: 99x99", ErrGridTooLarge), codes.InvalidArgument},
		{"grid too small", gameengine.ErrGridTooSmall, codes.InvalidArgument},
		{"not found", ErrGameNotFound, codes.NotFound},
		{"capacity", ErrServerAtCapacity, codes.ResourceExhausted},
		{"rejection", core.ErrGameOver, codes.FailedPrecondition},
		{"unknown", fmt.Errorf("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(toStatus(tt.err)))
		})
	}
	assert.NoError(t, toStatus(nil))
}
