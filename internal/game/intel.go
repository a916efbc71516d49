package game

// UseSonar pings the enemy boat. The opposing captain must answer, out of
// turn, before normal play resumes; the turn suspends on the response.
func (g *Game) UseSonar(team Team) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if err := g.requireWeaponSlot(); err != nil {
		return nil, err
	}
	gauge := g.subs[team].Gauge(SystemSonar)
	if !gauge.Ready() {
		return nil, insufficientChargef("sonar at %d/%d", gauge.Charge, gauge.Max)
	}

	gauge.Charge = 0
	g.turn.SystemUsed = true
	g.turn.WaitingFor = WaitingSonarResponse

	return []Event{
		newEvent(EventSonarAnnounced, team, nil),
		newEvent(EventSonarPrompt, team.Opponent(), nil),
	}, nil
}

// RespondSonar submits the opposing captain's answer to a pending ping: two
// facts of distinct kinds, exactly one of which matches the responder's real
// position. The activator receives both facts but not which one holds.
func (g *Game) RespondSonar(team Team, facts [2]SonarFact) ([]Event, error) {
	if g.phase != PhasePlaying {
		return nil, invalidActionf("game is not active")
	}
	activator := g.current
	if team != activator.Opponent() {
		return nil, invalidActionf("no sonar response expected from %s team", team)
	}
	if g.turn.WaitingFor != WaitingSonarResponse {
		return nil, invalidActionf("no sonar ping pending")
	}
	for _, fact := range facts {
		if !fact.Kind.Valid() {
			return nil, invalidActionf("unknown sonar fact kind %q", fact.Kind)
		}
		if !g.factInRange(fact) {
			return nil, illegalTargetf("sonar fact %s=%d out of range", fact.Kind, fact.Value)
		}
	}
	if facts[0].Kind == facts[1].Kind {
		return nil, invalidActionf("sonar facts must be of distinct kinds")
	}

	sub := g.subs[team]
	truths := 0
	for _, fact := range facts {
		if g.factTrue(sub, fact) {
			truths++
		}
	}
	if truths != 1 {
		return nil, invalidActionf("exactly one sonar fact must be true, got %d", truths)
	}

	g.turn.WaitingFor = WaitingNone
	return []Event{newEvent(EventSonarResult, activator, SonarResultPayload{Facts: facts})}, nil
}

func (g *Game) factInRange(fact SonarFact) bool {
	switch fact.Kind {
	case SonarFactRow:
		return fact.Value >= 0 && fact.Value < g.chart.Rows
	case SonarFactCol:
		return fact.Value >= 0 && fact.Value < g.chart.Cols
	case SonarFactSector:
		return fact.Value >= 1 && fact.Value <= g.chart.SectorCount()
	}
	return false
}

func (g *Game) factTrue(sub *Submarine, fact SonarFact) bool {
	switch fact.Kind {
	case SonarFactRow:
		return sub.Position.Row == fact.Value
	case SonarFactCol:
		return sub.Position.Col == fact.Value
	case SonarFactSector:
		return g.chart.SectorOf(*sub.Position) == fact.Value
	}
	return false
}

// UseDrone asks whether the enemy boat sits in the given sector. The yes/no
// answer stays on the asking side; the question itself is overheard.
func (g *Game) UseDrone(team Team, sector int) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if err := g.requireWeaponSlot(); err != nil {
		return nil, err
	}
	gauge := g.subs[team].Gauge(SystemDrone)
	if !gauge.Ready() {
		return nil, insufficientChargef("drone at %d/%d", gauge.Charge, gauge.Max)
	}
	if sector < 1 || sector > g.chart.SectorCount() {
		return nil, illegalTargetf("sector %d does not exist", sector)
	}

	gauge.Charge = 0
	g.turn.SystemUsed = true

	enemy := g.subs[team.Opponent()]
	inSector := g.chart.SectorOf(*enemy.Position) == sector

	return []Event{
		newEvent(EventDroneAnnounced, team, DronePayload{Sector: sector}),
		newEvent(EventDroneResult, team, DroneResultPayload{Sector: sector, InSector: inSector}),
	}, nil
}
