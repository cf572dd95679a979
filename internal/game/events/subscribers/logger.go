package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/solarbloom/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	// If no filter is set, interested in all events
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	// Create the base event log
	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("width", e.Width).
			Int("height", e.Height)

	case *events.GameEndedEvent:
		logEvent.
			Str("outcome", e.Outcome).
			Dur("duration", e.Duration).
			Int("final_turn", e.FinalTurn)

	case *events.TurnStartedEvent:
		logEvent.Int("turn", e.TurnNumber)

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.TurnNumber).
			Dur("process_time", e.ProcessedTime)

	case *events.ActionRejectedEvent:
		logEvent.
			Str("faction", e.Metadata.Faction).
			Str("action", e.Action).
			Str("reason", e.Reason)

	case *events.BuildingConstructedEvent:
		logEvent.
			Str("faction", e.Metadata.Faction).
			Str("kind", e.Kind).
			Int("x", e.Position.X).
			Int("y", e.Position.Y).
			Int("cost", e.Cost)

	case *events.UnitRecruitedEvent:
		logEvent.
			Str("faction", e.Metadata.Faction).
			Str("unit_id", e.UnitID).
			Int("x", e.Position.X).
			Int("y", e.Position.Y)

	case *events.UnitMovedEvent:
		logEvent.
			Str("faction", e.Metadata.Faction).
			Int("from_x", e.From.X).
			Int("from_y", e.From.Y).
			Int("to_x", e.To.X).
			Int("to_y", e.To.Y)

	case *events.AttackResolvedEvent:
		logEvent.
			Str("faction", e.Metadata.Faction).
			Str("target", e.TargetCategory).
			Int("location_x", e.To.X).
			Int("location_y", e.To.Y).
			Int("damage", e.Damage).
			Int("remaining_hp", e.RemainingHP)

	case *events.TowerFiredEvent:
		logEvent.
			Str("faction", e.Metadata.Faction).
			Str("target", e.TargetCategory).
			Int("tower_x", e.Tower.X).
			Int("tower_y", e.Tower.Y).
			Int("damage", e.Damage).
			Int("remaining_hp", e.RemainingHP)

	case *events.IncomeAppliedEvent:
		logEvent.
			Int("human_income", e.HumanIncome).
			Int("ai_income", e.AIIncome)

	case *events.EntitiesDestroyedEvent:
		logEvent.
			Int("units_removed", len(e.Units)).
			Int("buildings_removed", len(e.Buildings))

	case *events.AITurnEvent:
		logEvent.
			Bool("recruited", e.Recruited).
			Int("units_moved", e.UnitsMoved).
			Int("king_damage", e.KingDamage)

	case *events.RewardCreditedEvent:
		logEvent.Int("amount", e.Amount)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	// Send the log
	logEvent.Msg("Game event")
}
