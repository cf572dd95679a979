package game

import "github.com/mitchelldurbincs/solarbloom/internal/game/core"

// This file contains the per-faction statistics exposed to observers.

// FactionStats summarises one faction's position
type FactionStats struct {
	Faction   core.Faction
	Coins     int
	MaxUnits  int
	Units     int
	KingHP    int
	Buildings map[core.BuildingKind]int
}

// Stats computes the current statistics of f. Dead buildings awaiting cleanup
// are not counted; the king's HP is reported floored at zero.
func (e *Engine) Stats(f core.Faction) FactionStats {
	s := FactionStats{
		Faction:   f,
		Coins:     e.gs.Ledger.Coins(f),
		MaxUnits:  e.gs.Ledger.MaxUnits(f),
		Units:     e.gs.Store.CountUnits(f),
		Buildings: make(map[core.BuildingKind]int),
	}
	if idx := e.gs.Store.King(f); idx >= 0 {
		s.KingHP = e.gs.Store.Buildings[idx].DisplayHP()
	}
	for i := range e.gs.Store.Buildings {
		b := &e.gs.Store.Buildings[i]
		if b.Owner == f && b.Alive() {
			s.Buildings[b.Kind]++
		}
	}
	e.logger.Debug().
		Str("faction", f.String()).
		Int("coins", s.Coins).
		Int("units", s.Units).
		Msg("Faction stats computed")
	return s
}

// AllStats returns the statistics of both factions
func (e *Engine) AllStats() core.PerFaction[FactionStats] {
	return core.PerFaction[FactionStats]{
		Human: e.Stats(core.FactionHuman),
		AI:    e.Stats(core.FactionAI),
	}
}
