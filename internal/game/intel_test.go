package game

import (
	"testing"

	"admiral-radar/server/internal/grid"
)

func sonarPending(t *testing.T) *Game {
	t.Helper()
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemSonar)
	events := mustApply(t)(g.UseSonar(TeamBlue))
	if len(events) != 2 || events[0].Kind != EventSonarAnnounced || events[1].Kind != EventSonarPrompt {
		t.Fatalf("sonar events = %v", eventKinds(events))
	}
	if events[1].Team != TeamRed || events[1].Scope != ScopeActor {
		t.Fatalf("sonar prompt goes to %s/%s, want red actor", events[1].Team, events[1].Scope)
	}
	return g
}

func TestSonarSuspendsTurnUntilResponse(t *testing.T) {
	g := sonarPending(t)

	if g.Turn().WaitingFor != WaitingSonarResponse {
		t.Fatalf("WaitingFor = %q", g.Turn().WaitingFor)
	}
	mustReject(t, CodeInvalidAction)(g.EndTurn(TeamBlue))
	mustReject(t, CodeInvalidAction)(g.Move(TeamBlue, grid.North))

	// Red is at (7,7), sector 4: a true row with a false column.
	facts := [2]SonarFact{
		{Kind: SonarFactRow, Value: 7},
		{Kind: SonarFactCol, Value: 0},
	}
	events := mustApply(t)(g.RespondSonar(TeamRed, facts))
	if len(events) != 1 || events[0].Kind != EventSonarResult {
		t.Fatalf("response events = %v", eventKinds(events))
	}
	if events[0].Team != TeamBlue || events[0].Scope != ScopeTeam {
		t.Errorf("sonar result goes to %s/%s, want the activating team", events[0].Team, events[0].Scope)
	}
	if g.Turn().WaitingFor != WaitingNone {
		t.Error("turn still suspended after response")
	}
	mustApply(t)(g.EndTurn(TeamBlue))
}

func TestRespondSonarValidation(t *testing.T) {
	trueRow := SonarFact{Kind: SonarFactRow, Value: 7}
	falseCol := SonarFact{Kind: SonarFactCol, Value: 0}

	cases := []struct {
		name  string
		team  Team
		facts [2]SonarFact
		code  ErrorCode
	}{
		{"wrong responder", TeamBlue, [2]SonarFact{trueRow, falseCol}, CodeInvalidAction},
		{"both true", TeamRed, [2]SonarFact{trueRow, {Kind: SonarFactCol, Value: 7}}, CodeInvalidAction},
		{"both false", TeamRed, [2]SonarFact{{Kind: SonarFactRow, Value: 0}, falseCol}, CodeInvalidAction},
		{"duplicate kinds", TeamRed, [2]SonarFact{trueRow, {Kind: SonarFactRow, Value: 0}}, CodeInvalidAction},
		{"unknown kind", TeamRed, [2]SonarFact{{Kind: "depth", Value: 1}, falseCol}, CodeInvalidAction},
		{"row out of range", TeamRed, [2]SonarFact{{Kind: SonarFactRow, Value: 10}, falseCol}, CodeIllegalTarget},
		{"sector out of range", TeamRed, [2]SonarFact{trueRow, {Kind: SonarFactSector, Value: 5}}, CodeIllegalTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := sonarPending(t)
			mustReject(t, tc.code)(g.RespondSonar(tc.team, tc.facts))
			if g.Turn().WaitingFor != WaitingSonarResponse {
				t.Error("rejected response cleared the pending ping")
			}
		})
	}
}

func TestRespondSonarWithoutPendingPing(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	facts := [2]SonarFact{
		{Kind: SonarFactRow, Value: 7},
		{Kind: SonarFactCol, Value: 0},
	}
	mustReject(t, CodeInvalidAction)(g.RespondSonar(TeamRed, facts))
}

func TestDroneReportsSectorPrivately(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemDrone)

	// Red sits in sector 4 on the 10x10 chart.
	events := mustApply(t)(g.UseDrone(TeamBlue, 4))
	if len(events) != 2 || events[0].Kind != EventDroneAnnounced || events[1].Kind != EventDroneResult {
		t.Fatalf("drone events = %v", eventKinds(events))
	}
	if events[0].Scope != ScopeAll {
		t.Errorf("drone announcement scope = %s, want all", events[0].Scope)
	}
	if events[1].Scope != ScopeTeam || events[1].Team != TeamBlue {
		t.Errorf("drone result scope = %s/%s, want blue team", events[1].Team, events[1].Scope)
	}
	payload := events[1].Payload.(DroneResultPayload)
	if !payload.InSector || payload.Sector != 4 {
		t.Errorf("drone result = %+v, want a hit in sector 4", payload)
	}
}

func TestDroneMiss(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemDrone)

	events := mustApply(t)(g.UseDrone(TeamBlue, 1))
	if payload := events[1].Payload.(DroneResultPayload); payload.InSector {
		t.Errorf("drone result = %+v, want a miss", payload)
	}
}

func TestDroneRejections(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	mustReject(t, CodeInsufficientCharge)(g.UseDrone(TeamBlue, 1))

	readyGauge(g, TeamBlue, SystemDrone)
	mustReject(t, CodeIllegalTarget)(g.UseDrone(TeamBlue, 0))
	mustReject(t, CodeIllegalTarget)(g.UseDrone(TeamBlue, 5))
}
