package core

import "fmt"

// ActionType represents the type of action
type ActionType int

const (
	ActionSelectTile ActionType = iota
	ActionSelectUnit
	ActionMove
	ActionAttack
	ActionBuild
	ActionRecruit
	ActionEndTurn
)

// String returns the string representation of an ActionType
func (t ActionType) String() string {
	switch t {
	case ActionSelectTile:
		return "select_tile"
	case ActionSelectUnit:
		return "select_unit"
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	case ActionBuild:
		return "build"
	case ActionRecruit:
		return "recruit"
	case ActionEndTurn:
		return "end_turn"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ParseActionType converts a string to an ActionType
func ParseActionType(s string) (ActionType, error) {
	for t := ActionSelectTile; t <= ActionEndTurn; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is one discrete human intent, as produced by an input mapper
type Action interface {
	GetFaction() Faction
	GetType() ActionType
	String() string
}

// SelectTileAction marks a tile as the build target
type SelectTileAction struct {
	At Coordinate
}

// SelectUnitAction selects the acting faction's unit standing on At
type SelectUnitAction struct {
	At Coordinate
}

// MoveAction moves the selected unit to To
type MoveAction struct {
	To Coordinate
}

// AttackAction strikes from the unit at From into the adjacent cell To
type AttackAction struct {
	From Coordinate
	To   Coordinate
}

// BuildAction constructs a building on the selected tile
type BuildAction struct {
	Kind BuildingKind
}

// RecruitAction spawns a soldier next to the first barracks
type RecruitAction struct{}

// EndTurnAction ends the human turn and runs the opponent
type EndTurnAction struct{}

// Only the human faction issues commands; the opponent acts through its policy.
func (a *SelectTileAction) GetFaction() Faction { return FactionHuman }
func (a *SelectUnitAction) GetFaction() Faction { return FactionHuman }
func (a *MoveAction) GetFaction() Faction       { return FactionHuman }
func (a *AttackAction) GetFaction() Faction     { return FactionHuman }
func (a *BuildAction) GetFaction() Faction      { return FactionHuman }
func (a *RecruitAction) GetFaction() Faction    { return FactionHuman }
func (a *EndTurnAction) GetFaction() Faction    { return FactionHuman }

func (a *SelectTileAction) GetType() ActionType { return ActionSelectTile }
func (a *SelectUnitAction) GetType() ActionType { return ActionSelectUnit }
func (a *MoveAction) GetType() ActionType       { return ActionMove }
func (a *AttackAction) GetType() ActionType     { return ActionAttack }
func (a *BuildAction) GetType() ActionType      { return ActionBuild }
func (a *RecruitAction) GetType() ActionType    { return ActionRecruit }
func (a *EndTurnAction) GetType() ActionType    { return ActionEndTurn }

func (a *SelectTileAction) String() string { return "select tile " + a.At.String() }
func (a *SelectUnitAction) String() string { return "select unit at " + a.At.String() }
func (a *MoveAction) String() string       { return "move to " + a.To.String() }
func (a *AttackAction) String() string {
	return fmt.Sprintf("attack from %s to %s", a.From, a.To)
}
func (a *BuildAction) String() string   { return "build " + a.Kind.String() }
func (a *RecruitAction) String() string { return "recruit soldier" }
func (a *EndTurnAction) String() string { return "end turn" }
