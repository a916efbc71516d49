package game

// CanEndTurn reports whether the active captain may close the turn, with the
// rule that blocks it when they cannot.
func (g *Game) CanEndTurn(team Team) error {
	if err := g.requireActive(team); err != nil {
		return err
	}
	if g.turn.WaitingFor != WaitingNone {
		return invalidActionf("waiting for %s", g.turn.WaitingFor)
	}
	if !g.turn.Moved {
		return invalidActionf("must move, surface, or stealth before ending the turn")
	}
	if g.turn.EffectiveDirection() != nil {
		if !g.turn.EngineerDone {
			return invalidActionf("engineer has not marked a node")
		}
		if !g.turn.FirstMateDone {
			return invalidActionf("first mate has not charged a system")
		}
	}
	return nil
}

// EndTurn closes the active turn. A team holding bonus turns spends one and
// keeps the floor; otherwise play alternates.
func (g *Game) EndTurn(team Team) ([]Event, error) {
	if err := g.CanEndTurn(team); err != nil {
		return nil, err
	}

	events := []Event{newEvent(EventTurnEnd, team, TurnPayload{Team: team})}
	if g.bonus[team] > 0 {
		g.bonus[team]--
	} else {
		g.current = team.Opponent()
	}
	events = append(events, g.beginTurn()...)
	return events, nil
}
