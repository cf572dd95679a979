package game

import (
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/solarbloom/internal/game/core"
)

// This file contains all board rendering functionality for the game engine.

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorBlue  = "\033[34m"
	ColorWhite = "\033[37m"
	ColorGray  = "\033[90m"
)

const (
	EmptySymbol = "·"
	FogSymbol   = "░"
)

var factionColors = core.PerFaction[string]{Human: ColorBlue, AI: ColorRed}

// buildingSymbols are upper case for the human faction, lower case for the AI
var buildingSymbols = map[core.BuildingKind]byte{
	core.BuildingKing:     'K',
	core.BuildingFarm:     'F',
	core.BuildingHouse:    'H',
	core.BuildingBarracks: 'B',
	core.BuildingTower:    'T',
}

// Board returns a colored view of the grid from the current faction's side.
// Tiles outside the visible set are fogged.
func (e *Engine) Board() string {
	return e.renderBoard(true, false)
}

// PlainBoard is Board without ANSI escapes
func (e *Engine) PlainBoard() string {
	return e.renderBoard(false, false)
}

// RevealedBoard is Board with fog disabled, for debugging
func (e *Engine) RevealedBoard() string {
	return e.renderBoard(true, true)
}

func (e *Engine) renderBoard(colored, reveal bool) string {
	width, height := e.gs.Grid.W, e.gs.Grid.H

	var sb strings.Builder
	sb.Grow((width*12+8)*(height+3) + 120)

	// Header row
	sb.WriteString("   ")
	for x := 0; x < width; x++ {
		sb.WriteString(fixedWidth(x, 2))
	}
	sb.WriteString("\n")

	for y := 0; y < height; y++ {
		sb.WriteString(fixedWidth(y, 2))
		sb.WriteString(" ")
		for x := 0; x < width; x++ {
			color, symbol := e.tileDisplay(core.NewCoordinate(x, y), reveal)
			if colored {
				sb.WriteString(color)
			}
			sb.WriteString(" ")
			sb.WriteString(symbol)
			if colored {
				sb.WriteString(ColorReset)
			}
		}
		sb.WriteString("\n")
	}

	// Legend
	sb.WriteString("\nK=king F=farm H=house B=barracks T=tower S=soldier (lower case = ai) ")
	sb.WriteString(FogSymbol)
	sb.WriteString("=fog\n")
	sb.WriteString("turn ")
	sb.WriteString(strconv.Itoa(e.gs.Turn))
	sb.WriteString(" | ")
	sb.WriteString(e.gs.Current.String())
	sb.WriteString(" | coins ")
	sb.WriteString(strconv.Itoa(e.gs.Ledger.Coins(e.gs.Current)))
	if e.gs.Outcome.IsDecided() {
		sb.WriteString(" | ")
		sb.WriteString(e.gs.Outcome.String())
	}
	sb.WriteString("\n")

	return sb.String()
}

// tileDisplay returns the color and single-cell symbol for c
func (e *Engine) tileDisplay(c core.Coordinate, reveal bool) (string, string) {
	if !reveal && !e.gs.IsVisible(c) {
		return ColorGray, FogSymbol
	}
	if idx := e.gs.Store.UnitAt(c); idx >= 0 {
		u := &e.gs.Store.Units[idx]
		return factionColors.Get(u.Owner), factionSymbol('S', u.Owner)
	}
	if idx := e.gs.Store.BuildingAt(c); idx >= 0 {
		b := &e.gs.Store.Buildings[idx]
		return factionColors.Get(b.Owner), factionSymbol(buildingSymbols[b.Kind], b.Owner)
	}
	if e.gs.Grid.IsBlocked(c) {
		return ColorWhite, "#"
	}
	return ColorGray, EmptySymbol
}

func factionSymbol(upper byte, f core.Faction) string {
	if f == core.FactionAI {
		return string(upper + ('a' - 'A'))
	}
	return string(upper)
}

// fixedWidth right-aligns n in a field of w characters
func fixedWidth(n, w int) string {
	s := strconv.Itoa(n)
	if len(s) >= w {
		return s
	}
	return strings.Repeat(" ", w-len(s)) + s
}
