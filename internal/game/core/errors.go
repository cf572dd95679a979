package core

import (
	"errors"
	"fmt"
)

// Rejection reasons for player commands. A command that fails with one of
// these performed no mutation.
var (
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrNotYourTurn         = errors.New("not the human faction's turn")
	ErrNoTileSelected      = errors.New("no tile selected")
	ErrKingNotBuildable    = errors.New("king cannot be built")
	ErrUnknownBuildingKind = errors.New("unknown building kind")
	ErrInsufficientCoins   = errors.New("insufficient coins")
	ErrTileOccupied        = errors.New("tile is not free")
	ErrUnitCapReached      = errors.New("unit cap reached")
	ErrNoBarracks          = errors.New("no living barracks")
	ErrNoSpawnTile         = errors.New("no free tile next to barracks")
	ErrNoUnitSelected      = errors.New("no living unit selected")
	ErrOutOfRange          = errors.New("destination out of move range")
	ErrNoAttacker          = errors.New("no friendly unit at attack origin")
	ErrNoTarget            = errors.New("no enemy at attack target")
	ErrNotAdjacent         = errors.New("tiles are not adjacent")
	ErrGameOver            = errors.New("game is over")
	ErrInvalidFaction      = errors.New("invalid faction")
	ErrUnknownAction       = errors.New("unknown action")
)

// WrapActionError adds the acting faction and command to err
func WrapActionError(action Action, err error) error {
	if err == nil {
		return nil
	}
	if action == nil {
		return fmt.Errorf("player action: %w", err)
	}
	return fmt.Errorf("%s: %s: %w", action.GetFaction(), action, err)
}

// WrapGameStateError adds the turn and phase in which err happened
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("turn %d: %s: %w", turn, phase, err)
}
