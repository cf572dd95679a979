package gameserver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	gameengine "github.com/mitchelldurbincs/solarbloom/internal/game"
	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// ErrInvalidRequest marks a malformed request document
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// stringField returns a required string field of s
func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return "", invalidf("missing field %q", name)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || str.StringValue == "" {
		return "", invalidf("field %q must be a non-empty string", name)
	}
	return str.StringValue, nil
}

// optionalString returns a string field of s, or "" when absent
func optionalString(s *structpb.Struct, name string) (string, error) {
	if _, ok := s.GetFields()[name]; !ok {
		return "", nil
	}
	return stringField(s, name)
}

// intValue converts a whole number value to int
func intValue(name string, v *structpb.Value) (int, error) {
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, invalidf("field %q must be a number", name)
	}
	f := num.NumberValue
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, invalidf("field %q must be a whole number", name)
	}
	return int(f), nil
}

// optionalInt returns an integer field of s, or 0 when absent
func optionalInt(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, nil
	}
	n, err := intValue(name, v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, invalidf("field %q must not be negative", name)
	}
	return n, nil
}

// coordinateField decodes {"x": n, "y": n} stored under name
func coordinateField(s *structpb.Struct, name string) (core.Coordinate, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return core.Coordinate{}, invalidf("missing field %q", name)
	}
	obj := v.GetStructValue()
	if obj == nil {
		return core.Coordinate{}, invalidf("field %q must be an object with x and y", name)
	}
	var xy [2]int
	for i, axis := range [2]string{"x", "y"} {
		av, ok := obj.GetFields()[axis]
		if !ok {
			return core.Coordinate{}, invalidf("field %q is missing %q", name, axis)
		}
		n, err := intValue(name+"."+axis, av)
		if err != nil {
			return core.Coordinate{}, err
		}
		xy[i] = n
	}
	return core.NewCoordinate(xy[0], xy[1]), nil
}

// actionFromStruct decodes one command document, e.g.
// {"type": "attack", "from": {"x": 5, "y": 5}, "to": {"x": 6, "y": 5}}
func actionFromStruct(s *structpb.Struct) (core.Action, error) {
	if s == nil {
		return nil, invalidf("missing action")
	}
	typeName, err := stringField(s, "type")
	if err != nil {
		return nil, err
	}
	actionType, err := core.ParseActionType(typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	switch actionType {
	case core.ActionSelectTile:
		at, err := coordinateField(s, "at")
		if err != nil {
			return nil, err
		}
		return &core.SelectTileAction{At: at}, nil
	case core.ActionSelectUnit:
		at, err := coordinateField(s, "at")
		if err != nil {
			return nil, err
		}
		return &core.SelectUnitAction{At: at}, nil
	case core.ActionMove:
		to, err := coordinateField(s, "to")
		if err != nil {
			return nil, err
		}
		return &core.MoveAction{To: to}, nil
	case core.ActionAttack:
		from, err := coordinateField(s, "from")
		if err != nil {
			return nil, err
		}
		to, err := coordinateField(s, "to")
		if err != nil {
			return nil, err
		}
		return &core.AttackAction{From: from, To: to}, nil
	case core.ActionBuild:
		kindName, err := stringField(s, "kind")
		if err != nil {
			return nil, err
		}
		kind, err := core.ParseBuildingKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return &core.BuildAction{Kind: kind}, nil
	case core.ActionRecruit:
		return &core.RecruitAction{}, nil
	case core.ActionEndTurn:
		return &core.EndTurnAction{}, nil
	default:
		return nil, invalidf("unsupported action type %q", typeName)
	}
}

func coordinateMap(c core.Coordinate) map[string]interface{} {
	return map[string]interface{}{"x": c.X, "y": c.Y}
}

func coordinateList(cs []core.Coordinate) []interface{} {
	out := make([]interface{}, 0, len(cs))
	for _, c := range cs {
		out = append(out, coordinateMap(c))
	}
	return out
}

// stateMap renders the session as the human player sees it: own entities
// always, enemy entities only on visible tiles. Caller holds the session lock.
func stateMap(e *gameengine.Engine) map[string]interface{} {
	r := e.Rules()

	enemyKingHP := -1
	buildings := make([]interface{}, 0)
	for _, b := range e.Buildings() {
		if b.Owner != core.FactionHuman && !e.IsVisible(b.Pos) {
			continue
		}
		if b.Owner != core.FactionHuman && b.IsKing() {
			enemyKingHP = b.DisplayHP()
		}
		buildings = append(buildings, map[string]interface{}{
			"id":    b.ID.String(),
			"owner": b.Owner.String(),
			"kind":  b.Kind.String(),
			"hp":    b.DisplayHP(),
			"pos":   coordinateMap(b.Pos),
		})
	}

	units := make([]interface{}, 0)
	enemyUnits := 0
	var selectedPos *core.Coordinate
	selectedID, hasSelected := e.SelectedUnitID()
	for _, u := range e.Units() {
		if hasSelected && u.ID == selectedID {
			p := u.Pos
			selectedPos = &p
		}
		if u.Owner != core.FactionHuman {
			if !e.IsVisible(u.Pos) {
				continue
			}
			enemyUnits++
		}
		units = append(units, map[string]interface{}{
			"id":         u.ID.String(),
			"owner":      u.Owner.String(),
			"hp":         u.HP,
			"attack":     u.Attack,
			"move_range": u.MoveRange,
			"pos":        coordinateMap(u.Pos),
		})
	}

	// The opponent's treasury stays hidden; its units and king only count when seen
	own := e.Stats(core.FactionHuman)
	enemy := map[string]interface{}{"units": enemyUnits}
	if enemyKingHP >= 0 {
		enemy["king_hp"] = enemyKingHP
	}
	factions := map[string]interface{}{
		core.FactionHuman.String(): map[string]interface{}{
			"coins":     own.Coins,
			"max_units": own.MaxUnits,
			"units":     own.Units,
			"king_hp":   own.KingHP,
		},
		core.FactionAI.String(): enemy,
	}

	selection := map[string]interface{}{"tile": nil, "unit_id": nil}
	if sel := e.Selection(); sel.Tile != nil {
		selection["tile"] = coordinateMap(*sel.Tile)
	}
	if selectedPos != nil {
		selection["unit_id"] = selectedID.String()
		moves, attacks := e.LegalMoves(*selectedPos)
		selection["moves"] = coordinateList(moves)
		selection["attacks"] = coordinateList(attacks)
	}

	return map[string]interface{}{
		"game_id":   e.GameID(),
		"turn":      e.Turn(),
		"current":   e.Current().String(),
		"phase":     e.Phase().String(),
		"outcome":   e.Outcome().String(),
		"width":     r.Width,
		"height":    r.Height,
		"factions":  factions,
		"buildings": buildings,
		"units":     units,
		"visible":   coordinateList(e.VisibleTiles()),
		"selection": selection,
		"board":     e.PlainBoard(),
	}
}

// newStruct wraps structpb.NewStruct, reporting conversion failures as Internal
func newStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

// toStatus maps engine and manager errors onto gRPC status codes
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, gameengine.ErrGridTooSmall),
		errors.Is(err, ErrGridTooLarge),
		errors.Is(err, core.ErrUnknownAction):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrGameNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrServerAtCapacity):
		return status.Error(codes.ResourceExhausted, err.Error())
	case isRejection(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// isRejection reports whether err is a command rejection from the engine
func isRejection(err error) bool {
	for _, target := range []error{
		core.ErrInvalidCoordinates,
		core.ErrNotYourTurn,
		core.ErrNoTileSelected,
		core.ErrKingNotBuildable,
		core.ErrUnknownBuildingKind,
		core.ErrInsufficientCoins,
		core.ErrTileOccupied,
		core.ErrUnitCapReached,
		core.ErrNoBarracks,
		core.ErrNoSpawnTile,
		core.ErrNoUnitSelected,
		core.ErrOutOfRange,
		core.ErrNoAttacker,
		core.ErrNoTarget,
		core.ErrNotAdjacent,
		core.ErrGameOver,
		core.ErrInvalidFaction,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
