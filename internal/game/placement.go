package game

import (
	"admiral-radar/server/internal/grid"
)

// Place puts a team's submarine on its starting cell. Once both boats are
// down the session enters the playing phase and the first turn opens.
func (g *Game) Place(team Team, cell grid.Cell) ([]Event, error) {
	if g.phase != PhasePlacement {
		return nil, invalidActionf("placement is over")
	}
	if !team.Valid() {
		return nil, invalidActionf("unknown team %q", team)
	}
	sub := g.subs[team]
	if sub.Position != nil {
		return nil, invalidActionf("%s team already placed", team)
	}
	if !g.chart.IsSea(cell) {
		return nil, illegalTargetf("cell %v is not open sea", cell)
	}

	pos := cell
	sub.Position = &pos
	sub.Trail = []grid.Cell{pos}

	events := []Event{newEvent(EventPlaced, team, PlacedPayload{Cell: pos})}
	for _, t := range Teams {
		if g.subs[t].Position == nil {
			return events, nil
		}
	}
	g.phase = PhasePlaying
	events = append(events, g.beginTurn()...)
	return events, nil
}

// Placed reports whether the team's submarine is on the map.
func (g *Game) Placed(team Team) bool {
	return g.subs[team].Position != nil
}
