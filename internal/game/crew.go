package game

import (
	"admiral-radar/server/internal/grid"
)

// EngineerMark marks one node in the section matching the turn's effective
// heading. Overloads triggered by the mark damage the boat immediately.
func (g *Game) EngineerMark(team Team, dir grid.Direction, index int) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if !g.turn.Moved {
		return nil, invalidActionf("captain has not moved yet")
	}
	heading := g.turn.EffectiveDirection()
	if heading == nil {
		return nil, invalidActionf("no heading to mark this turn")
	}
	if g.turn.EngineerDone {
		return nil, invalidActionf("engineer already marked this turn")
	}
	if dir != *heading {
		return nil, illegalTargetf("must mark in the %s section", heading)
	}
	sub := g.subs[team]
	if node, ok := sub.Board.Node(dir, index); !ok {
		return nil, illegalTargetf("no node %s/%d", dir, index)
	} else if node.Marked {
		return nil, illegalTargetf("node %s/%d already marked", dir, index)
	}

	res, err := sub.Board.Mark(dir, index)
	if err != nil {
		return nil, illegalTargetf("%v", err)
	}
	g.turn.EngineerDone = true

	events := []Event{newEvent(EventEngineerMarked, team, EngineerMarkedPayload{
		Direction: dir.String(),
		Index:     index,
	})}
	if res.CircuitCleared != 0 {
		events = append(events, newEvent(EventCircuitCleared, team, CircuitClearedPayload{
			Circuit: res.CircuitCleared,
		}))
	}
	if res.RadiationCleared {
		sub.Health--
		events = append(events, newEvent(EventDamage, team, DamagePayload{
			Amount: 1,
			Health: sub.Health,
			Cause:  CauseRadiation,
		}))
	}
	if res.SectionCleared {
		sub.Health--
		events = append(events, newEvent(EventDamage, team, DamagePayload{
			Amount: 1,
			Health: sub.Health,
			Cause:  CauseSection,
		}))
	}
	if res.Damage > 0 {
		if over, ok := g.checkGameOver(team); ok {
			events = append(events, over)
		}
	}
	return events, nil
}

// ChargeSystem advances one gauge by a single point, capped at its ceiling.
func (g *Game) ChargeSystem(team Team, kind SystemKind) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if !g.turn.Moved {
		return nil, invalidActionf("captain has not moved yet")
	}
	if g.turn.EffectiveDirection() == nil {
		return nil, invalidActionf("no charging this turn")
	}
	if g.turn.FirstMateDone {
		return nil, invalidActionf("first mate already charged this turn")
	}
	if !kind.Valid() {
		return nil, invalidActionf("unknown system %q", kind)
	}

	gauge := g.subs[team].Gauge(kind)
	if gauge.Charge < gauge.Max {
		gauge.Charge++
	}
	g.turn.FirstMateDone = true

	return []Event{newEvent(EventSystemCharged, team, SystemChargedPayload{
		System: kind,
		Charge: gauge.Charge,
		Max:    gauge.Max,
		Ready:  gauge.Ready(),
	})}, nil
}
