package economy

import (
	"fmt"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// PriceList holds what each purchasable item costs
type PriceList struct {
	Farm     int
	House    int
	Barracks int
	Tower    int
	Recruit  int
}

// DefaultPriceList returns the stock prices
func DefaultPriceList() PriceList {
	return PriceList{Farm: 6, House: 6, Barracks: 8, Tower: 8, Recruit: 5}
}

// BuildCost returns the price of constructing kind. Kings have no price.
func (p PriceList) BuildCost(kind core.BuildingKind) (int, error) {
	switch kind {
	case core.BuildingFarm:
		return p.Farm, nil
	case core.BuildingHouse:
		return p.House, nil
	case core.BuildingBarracks:
		return p.Barracks, nil
	case core.BuildingTower:
		return p.Tower, nil
	case core.BuildingKing:
		return 0, core.ErrKingNotBuildable
	default:
		return 0, fmt.Errorf("%w: %d", core.ErrUnknownBuildingKind, int(kind))
	}
}
