package events

import (
	"time"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted         = "game.started"
	TypeGameEnded           = "game.ended"
	TypeTurnStarted         = "turn.started"
	TypeTurnEnded           = "turn.ended"
	TypeActionRejected      = "action.rejected"
	TypeBuildingConstructed = "building.constructed"
	TypeUnitRecruited       = "unit.recruited"
	TypeUnitMoved           = "unit.moved"
	TypeAttackResolved      = "attack.resolved"
	TypeTowerFired          = "tower.fired"
	TypeIncomeApplied       = "income.applied"
	TypeEntitiesDestroyed   = "entities.destroyed"
	TypeAITurn              = "ai.turn"
	TypeRewardCredited      = "reward.credited"
	TypeStateTransition     = "state.transition"
)

// GameStartedEvent is published once bootstrap has placed both factions
type GameStartedEvent struct {
	BaseEvent
	Width  int
	Height int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, width, height int) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent: newBaseEvent(TypeGameStarted, gameID),
		Width:     width,
		Height:    height,
	}
}

// GameEndedEvent is published when an outcome is decided
type GameEndedEvent struct {
	BaseEvent
	Outcome   string
	FinalTurn int
	Duration  time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, outcome core.Outcome, finalTurn int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent: newBaseEvent(TypeGameEnded, gameID),
		Outcome:   outcome.String(),
		FinalTurn: finalTurn,
		Duration:  duration,
	}
}

// TurnStartedEvent is published when the human ends a turn and resolution begins
type TurnStartedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	TurnNumber int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, turn int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:  newBaseEvent(TypeTurnStarted, gameID),
		Metadata:   EventMetadata{Turn: turn},
		TurnNumber: turn,
	}
}

// TurnEndedEvent is published after the full human+AI cycle
type TurnEndedEvent struct {
	BaseEvent
	Metadata      EventMetadata
	TurnNumber    int
	ProcessedTime time.Duration
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(gameID string, turn int, processedTime time.Duration) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent:     newBaseEvent(TypeTurnEnded, gameID),
		Metadata:      EventMetadata{Turn: turn},
		TurnNumber:    turn,
		ProcessedTime: processedTime,
	}
}

// ActionRejectedEvent is published when a command fails its preconditions
type ActionRejectedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Action   string
	Reason   string
}

// NewActionRejectedEvent creates a new ActionRejectedEvent
func NewActionRejectedEvent(gameID string, faction core.Faction, action string, reason error, turn int) *ActionRejectedEvent {
	return &ActionRejectedEvent{
		BaseEvent: newBaseEvent(TypeActionRejected, gameID),
		Metadata:  EventMetadata{Faction: faction.String(), Turn: turn},
		Action:    action,
		Reason:    reason.Error(),
	}
}

// BuildingConstructedEvent is published when a build action succeeds
type BuildingConstructedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Kind     string
	Position core.Coordinate
	Cost     int
}

// NewBuildingConstructedEvent creates a new BuildingConstructedEvent
func NewBuildingConstructedEvent(gameID string, b core.Building, cost, turn int) *BuildingConstructedEvent {
	return &BuildingConstructedEvent{
		BaseEvent: newBaseEvent(TypeBuildingConstructed, gameID),
		Metadata:  EventMetadata{Faction: b.Owner.String(), Turn: turn},
		Kind:      b.Kind.String(),
		Position:  b.Pos,
		Cost:      cost,
	}
}

// UnitRecruitedEvent is published when a unit spawns at a barracks
type UnitRecruitedEvent struct {
	BaseEvent
	Metadata EventMetadata
	UnitID   string
	Position core.Coordinate
	Cost     int
}

// NewUnitRecruitedEvent creates a new UnitRecruitedEvent
func NewUnitRecruitedEvent(gameID string, u core.Unit, cost, turn int) *UnitRecruitedEvent {
	return &UnitRecruitedEvent{
		BaseEvent: newBaseEvent(TypeUnitRecruited, gameID),
		Metadata:  EventMetadata{Faction: u.Owner.String(), Turn: turn},
		UnitID:    u.ID.String(),
		Position:  u.Pos,
		Cost:      cost,
	}
}

// UnitMovedEvent is published when a unit relocates
type UnitMovedEvent struct {
	BaseEvent
	Metadata EventMetadata
	UnitID   string
	From     core.Coordinate
	To       core.Coordinate
}

// NewUnitMovedEvent creates a new UnitMovedEvent
func NewUnitMovedEvent(gameID string, u core.Unit, from core.Coordinate, turn int) *UnitMovedEvent {
	return &UnitMovedEvent{
		BaseEvent: newBaseEvent(TypeUnitMoved, gameID),
		Metadata:  EventMetadata{Faction: u.Owner.String(), Turn: turn},
		UnitID:    u.ID.String(),
		From:      from,
		To:        u.Pos,
	}
}

// AttackResolvedEvent is published when a melee strike lands
type AttackResolvedEvent struct {
	BaseEvent
	Metadata       EventMetadata
	From           core.Coordinate
	To             core.Coordinate
	TargetCategory string
	Damage         int
	RemainingHP    int
}

// NewAttackResolvedEvent creates a new AttackResolvedEvent
func NewAttackResolvedEvent(gameID string, faction core.Faction, from, to core.Coordinate, category string, damage, remaining, turn int) *AttackResolvedEvent {
	return &AttackResolvedEvent{
		BaseEvent:      newBaseEvent(TypeAttackResolved, gameID),
		Metadata:       EventMetadata{Faction: faction.String(), Turn: turn},
		From:           from,
		To:             to,
		TargetCategory: category,
		Damage:         damage,
		RemainingHP:    remaining,
	}
}

// TowerFiredEvent is published for every tower shot during resolution
type TowerFiredEvent struct {
	BaseEvent
	Metadata       EventMetadata
	Tower          core.Coordinate
	Target         core.Coordinate
	TargetCategory string
	Damage         int
	RemainingHP    int
}

// NewTowerFiredEvent creates a new TowerFiredEvent
func NewTowerFiredEvent(gameID string, faction core.Faction, tower, target core.Coordinate, category string, damage, remaining, turn int) *TowerFiredEvent {
	return &TowerFiredEvent{
		BaseEvent:      newBaseEvent(TypeTowerFired, gameID),
		Metadata:       EventMetadata{Faction: faction.String(), Turn: turn},
		Tower:          tower,
		Target:         target,
		TargetCategory: category,
		Damage:         damage,
		RemainingHP:    remaining,
	}
}

// IncomeAppliedEvent is published when farms pay out
type IncomeAppliedEvent struct {
	BaseEvent
	Metadata    EventMetadata
	HumanIncome int
	AIIncome    int
}

// NewIncomeAppliedEvent creates a new IncomeAppliedEvent
func NewIncomeAppliedEvent(gameID string, income core.PerFaction[int], turn int) *IncomeAppliedEvent {
	return &IncomeAppliedEvent{
		BaseEvent:   newBaseEvent(TypeIncomeApplied, gameID),
		Metadata:    EventMetadata{Turn: turn},
		HumanIncome: income.Human,
		AIIncome:    income.AI,
	}
}

// EntitiesDestroyedEvent is published when a cleanup pass removes entities
type EntitiesDestroyedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	Units     []core.Coordinate
	Buildings []core.Coordinate
}

// NewEntitiesDestroyedEvent creates a new EntitiesDestroyedEvent
func NewEntitiesDestroyedEvent(gameID string, units []core.Unit, buildings []core.Building, turn int) *EntitiesDestroyedEvent {
	e := &EntitiesDestroyedEvent{
		BaseEvent: newBaseEvent(TypeEntitiesDestroyed, gameID),
		Metadata:  EventMetadata{Turn: turn},
	}
	for _, u := range units {
		e.Units = append(e.Units, u.Pos)
	}
	for _, b := range buildings {
		e.Buildings = append(e.Buildings, b.Pos)
	}
	return e
}

// AITurnEvent summarizes what the opponent policy did
type AITurnEvent struct {
	BaseEvent
	Metadata   EventMetadata
	Recruited  bool
	UnitsMoved int
	KingDamage int
}

// NewAITurnEvent creates a new AITurnEvent
func NewAITurnEvent(gameID string, recruited bool, moved, kingDamage, turn int) *AITurnEvent {
	return &AITurnEvent{
		BaseEvent:  newBaseEvent(TypeAITurn, gameID),
		Metadata:   EventMetadata{Faction: core.FactionAI.String(), Turn: turn},
		Recruited:  recruited,
		UnitsMoved: moved,
		KingDamage: kingDamage,
	}
}

// RewardCreditedEvent is published when the win reward reaches the wallet
type RewardCreditedEvent struct {
	BaseEvent
	Amount int
}

// NewRewardCreditedEvent creates a new RewardCreditedEvent
func NewRewardCreditedEvent(gameID string, amount int) *RewardCreditedEvent {
	return &RewardCreditedEvent{
		BaseEvent: newBaseEvent(TypeRewardCredited, gameID),
		Amount:    amount,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBaseEvent(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
