package game

import (
	"github.com/mitchelldurbincs/solarbloom/internal/config"
	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
	"github.com/mitchelldurbincs/solarbloom/internal/game/economy"
)

// Rules holds every balance value the engine reads
type Rules struct {
	Width  int
	Height int

	StartingCoins   int
	StartingUnitCap int
	HouseCapBonus   int
	IncomeInterval  int
	IncomePerFarm   int

	Prices economy.PriceList

	KingHP     int
	BuildingHP int
	Unit       core.UnitStats

	TowerRange  int
	TowerDamage int

	VisibilityRadius int
	WinReward        int
}

// DefaultRules returns the stock 16x10 ruleset
func DefaultRules() Rules {
	return Rules{
		Width:            16,
		Height:           10,
		StartingCoins:    10,
		StartingUnitCap:  3,
		HouseCapBonus:    2,
		IncomeInterval:   2,
		IncomePerFarm:    1,
		Prices:           economy.DefaultPriceList(),
		KingHP:           100,
		BuildingHP:       30,
		Unit:             core.DefaultUnitStats(),
		TowerRange:       4,
		TowerDamage:      4,
		VisibilityRadius: 3,
		WinReward:        100,
	}
}

// RulesFromConfig maps the game section of the application config onto Rules
func RulesFromConfig(c *config.Config) Rules {
	g := c.Game
	return Rules{
		Width:           g.Grid.Width,
		Height:          g.Grid.Height,
		StartingCoins:   g.Economy.StartingCoins,
		StartingUnitCap: g.Economy.StartingUnitCap,
		HouseCapBonus:   g.Economy.HouseCapBonus,
		IncomeInterval:  g.Economy.IncomeInterval,
		IncomePerFarm:   g.Economy.IncomePerFarm,
		Prices: economy.PriceList{
			Farm:     g.Costs.Farm,
			House:    g.Costs.House,
			Barracks: g.Costs.Barracks,
			Tower:    g.Costs.Tower,
			Recruit:  g.Costs.Recruit,
		},
		KingHP:     g.Buildings.KingHP,
		BuildingHP: g.Buildings.BuildingHP,
		Unit: core.UnitStats{
			HP:        g.Units.HP,
			Attack:    g.Units.Attack,
			MoveRange: g.Units.MoveRange,
		},
		TowerRange:       g.Towers.Range,
		TowerDamage:      g.Towers.Damage,
		VisibilityRadius: g.FogOfWar.VisibilityRadius,
		WinReward:        g.Rewards.Win,
	}
}

// ConfiguredRules returns the rules of the global configuration
func ConfiguredRules() Rules {
	return RulesFromConfig(config.Get())
}
