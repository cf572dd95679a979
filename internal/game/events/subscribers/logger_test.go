package subscribers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
	"github.com/mitchelldurbincs/solarbloom/internal/game/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())

	// Interested in all events by default
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTowerFired))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("event-logger", logger, zerolog.InfoLevel)

	tower := core.NewBuilding(core.FactionHuman, core.BuildingTower, 30, core.NewCoordinate(6, 5))

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameStartedEvent",
			event: events.NewGameStartedEvent("test-game-1", 16, 10),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(16), logLine["width"])
				assert.Equal(t, float64(10), logLine["height"])
			},
		},
		{
			name:  "TurnStartedEvent",
			event: events.NewTurnStartedEvent("test-game-1", 5),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(5), logLine["turn"])
			},
		},
		{
			name:  "BuildingConstructedEvent",
			event: events.NewBuildingConstructedEvent("test-game-1", tower, 8, 2),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "human", logLine["faction"])
				assert.Equal(t, "tower", logLine["kind"])
				assert.Equal(t, float64(6), logLine["x"])
				assert.Equal(t, float64(8), logLine["cost"])
			},
		},
		{
			name: "TowerFiredEvent",
			event: events.NewTowerFiredEvent("test-game-1", core.FactionHuman,
				core.NewCoordinate(6, 5), core.NewCoordinate(8, 5), "unit", 4, 6, 3),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "unit", logLine["target"])
				assert.Equal(t, float64(4), logLine["damage"])
				assert.Equal(t, float64(6), logLine["remaining_hp"])
			},
		},
		{
			name:  "ActionRejectedEvent",
			event: events.NewActionRejectedEvent("test-game-1", core.FactionHuman, "build farm", errors.New("insufficient coins"), 1),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "build farm", logLine["action"])
				assert.Equal(t, "insufficient coins", logLine["reason"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("test-game-1", core.OutcomeWin, 12, 5*time.Minute),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "win", logLine["outcome"])
				assert.Equal(t, float64(12), logLine["final_turn"])
				assert.Equal(t, float64(300000), logLine["duration"]) // 5 minutes in ms
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logSub.HandleEvent(tc.event)

			logOutput := buf.String()
			require.NotEmpty(t, logOutput, "Log output should not be empty")

			var logLine map[string]interface{}
			err := json.Unmarshal([]byte(logOutput), &logLine)
			require.NoError(t, err, "Should be able to parse log output as JSON")

			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, "Game event", logLine["message"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "test-game-1", logLine["game_id"])

			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberWithFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("filtered-logger", logger, zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeGameStarted, events.TypeGameEnded})

	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn(events.TypeGameEnded))
	assert.False(t, logSub.InterestedIn(events.TypeTurnStarted))
	assert.False(t, logSub.InterestedIn(events.TypeUnitMoved))

	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(logSub)

	bus.Publish(events.NewTurnStartedEvent("game1", 1))
	assert.Empty(t, buf.String())

	bus.Publish(events.NewGameStartedEvent("game1", 16, 10))
	assert.NotEmpty(t, buf.String())

	// Clearing the filter restores interest in everything
	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(tc.logLevel)

			logSub := subscribers.NewLoggerSubscriber("level-logger", logger, tc.logLevel)
			logSub.HandleEvent(events.NewGameStartedEvent("game1", 16, 10))

			require.NotZero(t, buf.Len())
			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, tc.expected, logLine["level"])
		})
	}
}

func TestLoggerSubscriberDevelopmentMode(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logSub := subscribers.NewLoggerSubscriber("dev-logger", logger, zerolog.InfoLevel)
	logSub.SetDevMode(true)

	unit := core.NewUnit(core.FactionHuman, core.DefaultUnitStats(), core.NewCoordinate(6, 5))
	logSub.HandleEvent(events.NewUnitMovedEvent("dev-game", unit, core.NewCoordinate(5, 5), 1))

	require.NotEmpty(t, buf.String())

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))

	eventData, ok := logLine["event_data"]
	require.True(t, ok, "event_data should be present")

	eventDataBytes, err := json.Marshal(eventData)
	require.NoError(t, err)
	eventDataStr := string(eventDataBytes)

	assert.Contains(t, eventDataStr, "unit.moved")
	assert.Contains(t, eventDataStr, "UnitID")
}
