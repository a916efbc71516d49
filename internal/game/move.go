package game

import (
	"admiral-radar/server/internal/grid"
)

// Move advances the submarine one cell. The heading is announced to
// everyone; the resulting cell only to the acting captain's side.
func (g *Game) Move(team Team, dir grid.Direction) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if g.turn.Moved {
		return nil, invalidActionf("already moved this turn")
	}
	sub := g.subs[team]
	if sub.Surfaced {
		return nil, invalidActionf("submarine is surfaced, dive first")
	}

	target := dir.Step(*sub.Position)
	if !g.chart.IsSea(target) {
		return nil, illegalTargetf("cannot move %s into %v", dir, target)
	}
	if sub.InTrail(target) {
		return nil, illegalTargetf("cannot revisit %v", target)
	}
	if sub.HasMineAt(target) {
		return nil, illegalTargetf("cannot move onto own mine at %v", target)
	}

	sub.Position = &target
	sub.Trail = append(sub.Trail, target)
	heading := dir
	g.turn.Moved = true
	g.turn.Direction = &heading

	return []Event{
		newEvent(EventDirectionAnnounced, team, DirectionPayload{Direction: dir.String()}),
		newEvent(EventMovedSelf, team, MovedSelfPayload{
			Position:  target,
			Trail:     append([]grid.Cell(nil), sub.Trail...),
			Direction: dir.String(),
		}),
	}, nil
}

// Surface is the turn's opening action: it wipes the wake and the
// engineering board, reveals the sector, and hands the opponent bonus turns.
func (g *Game) Surface(team Team) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if g.turn.Moved {
		return nil, invalidActionf("already acted this turn")
	}
	sub := g.subs[team]
	if sub.Surfaced {
		return nil, invalidActionf("submarine is already surfaced")
	}
	return g.doSurface(sub, false), nil
}

// Dive resubmerges a surfaced boat. It does not consume the move slot, so a
// dive at the start of a turn still leaves the captain a move to make.
func (g *Game) Dive(team Team) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	sub := g.subs[team]
	if !sub.Surfaced {
		return nil, invalidActionf("submarine is not surfaced")
	}
	return g.doDive(sub), nil
}

// Stealth spends the full stealth charge to travel up to the configured step
// count in a straight line. The enemy learns only the step count; the
// heading stays on the acting team's side so its engineer and first mate
// know which section to work.
func (g *Game) Stealth(team Team, dir grid.Direction, steps int) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if g.turn.Moved {
		return nil, invalidActionf("already moved this turn")
	}
	sub := g.subs[team]
	if sub.Surfaced {
		return nil, invalidActionf("submarine is surfaced, dive first")
	}
	if steps < 0 || steps > g.cfg.MaxStealthSteps {
		return nil, illegalTargetf("stealth allows 0 to %d steps, got %d", g.cfg.MaxStealthSteps, steps)
	}
	gauge := sub.Gauge(SystemStealth)
	if !gauge.Ready() {
		return nil, insufficientChargef("stealth at %d/%d", gauge.Charge, gauge.Max)
	}

	// Validate the whole path before touching anything.
	path := make([]grid.Cell, 0, steps)
	cursor := *sub.Position
	for i := 0; i < steps; i++ {
		cursor = dir.Step(cursor)
		if !g.chart.IsSea(cursor) {
			return nil, illegalTargetf("stealth step %d into %v is blocked", i+1, cursor)
		}
		if sub.InTrail(cursor) {
			return nil, illegalTargetf("stealth step %d revisits %v", i+1, cursor)
		}
		if sub.HasMineAt(cursor) {
			return nil, illegalTargetf("stealth step %d crosses own mine at %v", i+1, cursor)
		}
		for _, visited := range path {
			if visited == cursor {
				return nil, illegalTargetf("stealth step %d revisits %v", i+1, cursor)
			}
		}
		path = append(path, cursor)
	}

	gauge.Charge = 0
	for _, cell := range path {
		pos := cell
		sub.Position = &pos
		sub.Trail = append(sub.Trail, pos)
	}
	g.turn.Moved = true
	if steps > 0 {
		heading := dir
		g.turn.StealthDirection = &heading
	}

	events := []Event{
		newEvent(EventStealthAnnounced, team, StealthPayload{Steps: steps}),
		newEvent(EventStealthMovedSelf, team, MovedSelfPayload{
			Position:  *sub.Position,
			Trail:     append([]grid.Cell(nil), sub.Trail...),
			Direction: directionLabel(g.turn.StealthDirection),
		}),
	}
	return events, nil
}

func directionLabel(d *grid.Direction) string {
	if d == nil {
		return ""
	}
	return d.String()
}
