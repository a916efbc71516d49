package game

import (
	"testing"

	"admiral-radar/server/internal/grid"
)

func TestTorpedoDamageFallsOffWithDistance(t *testing.T) {
	cases := []struct {
		name       string
		target     grid.Cell
		blueHealth int
		redHealth  int
	}{
		{"direct hit", grid.Cell{Row: 2, Col: 5}, 4, 2},
		{"adjacent", grid.Cell{Row: 3, Col: 5}, 4, 3},
		{"two cells off", grid.Cell{Row: 4, Col: 5}, 4, 4},
		{"friendly splash", grid.Cell{Row: 2, Col: 3}, 3, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 2, Col: 5})
			readyGauge(g, TeamBlue, SystemTorpedo)

			events := mustApply(t)(g.FireTorpedo(TeamBlue, tc.target))
			if events[0].Kind != EventTorpedoFired {
				t.Fatalf("events = %v, want torpedo_fired first", eventKinds(events))
			}
			if got := g.Submarine(TeamBlue).Health; got != tc.blueHealth {
				t.Errorf("blue health = %d, want %d", got, tc.blueHealth)
			}
			if got := g.Submarine(TeamRed).Health; got != tc.redHealth {
				t.Errorf("red health = %d, want %d", got, tc.redHealth)
			}
			if gauge := g.Submarine(TeamBlue).Gauge(SystemTorpedo); gauge.Charge != 0 {
				t.Errorf("torpedo charge = %d after firing, want 0", gauge.Charge)
			}
		})
	}
}

func TestTorpedoRejections(t *testing.T) {
	chart := testChart(t, grid.Cell{Row: 2, Col: 4})
	g := playingGame(t, chart, grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})

	mustReject(t, CodeInsufficientCharge)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 2, Col: 4}))

	readyGauge(g, TeamBlue, SystemTorpedo)
	mustReject(t, CodeIllegalTarget)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 2, Col: 4})) // island
	mustReject(t, CodeIllegalTarget)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 2, Col: 2})) // own cell
	mustReject(t, CodeIllegalTarget)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 7, Col: 7})) // out of range
}

func TestTorpedoMutualKillGoesToActor(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 2, Col: 3})
	readyGauge(g, TeamBlue, SystemTorpedo)
	g.Submarine(TeamBlue).Health = 1
	g.Submarine(TeamRed).Health = 2

	events := mustApply(t)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 2, Col: 3}))
	if !hasEvent(events, EventGameOver) {
		t.Fatalf("events = %v, want game_over", eventKinds(events))
	}
	if g.Phase() != PhaseEnded {
		t.Errorf("phase = %s, want ended", g.Phase())
	}
	if g.Winner() != TeamBlue {
		t.Errorf("winner = %s, want the acting team", g.Winner())
	}

	mustReject(t, CodeInvalidAction)(g.Move(TeamBlue, grid.North))
}

func TestWeaponSlotIsNotSequencedAgainstMove(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemTorpedo)

	// A charged system may fire before the move; only one activation per
	// turn is enforced.
	mustApply(t)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 2, Col: 4}))
	if g.Turn().Moved {
		t.Error("firing consumed the move slot")
	}

	// The rest of the turn still owes its full sequence.
	mustReject(t, CodeInvalidAction)(g.EndTurn(TeamBlue))
	mustApply(t)(g.Move(TeamBlue, grid.South))
	avail := g.Submarine(TeamBlue).Board.Available(grid.South)
	mustApply(t)(g.EngineerMark(TeamBlue, grid.South, avail[0]))
	mustApply(t)(g.ChargeSystem(TeamBlue, SystemTorpedo))
	mustApply(t)(g.EndTurn(TeamBlue))
	if g.CurrentTeam() != TeamRed {
		t.Errorf("current team = %s, want red", g.CurrentTeam())
	}
}

func TestOneSystemActivationPerTurn(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemTorpedo)
	readyGauge(g, TeamBlue, SystemDrone)

	mustApply(t)(g.FireTorpedo(TeamBlue, grid.Cell{Row: 2, Col: 4}))
	mustReject(t, CodeInvalidAction)(g.UseDrone(TeamBlue, 1))
}

func TestPlaceMineRules(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})

	mustReject(t, CodeInsufficientCharge)(g.PlaceMine(TeamBlue, grid.Cell{Row: 2, Col: 3}))

	readyGauge(g, TeamBlue, SystemMine)
	mustReject(t, CodeIllegalTarget)(g.PlaceMine(TeamBlue, grid.Cell{Row: 4, Col: 4})) // not adjacent
	mustReject(t, CodeIllegalTarget)(g.PlaceMine(TeamBlue, grid.Cell{Row: 2, Col: 2})) // own cell is in the wake

	events := mustApply(t)(g.PlaceMine(TeamBlue, grid.Cell{Row: 2, Col: 3}))
	if len(events) != 2 || events[0].Kind != EventMinePlaced || events[1].Kind != EventMineAnnounced {
		t.Fatalf("mine events = %v", eventKinds(events))
	}
	if events[0].Scope != ScopeTeam {
		t.Errorf("mine cell scope = %s, want team", events[0].Scope)
	}
	if events[1].Scope != ScopeAll {
		t.Errorf("mine announcement scope = %s, want all", events[1].Scope)
	}
	if mines := g.Submarine(TeamBlue).Mines; len(mines) != 1 || mines[0] != (grid.Cell{Row: 2, Col: 3}) {
		t.Errorf("mines = %v", mines)
	}

	// The drop used the turn's system slot.
	readyGauge(g, TeamBlue, SystemMine)
	mustReject(t, CodeInvalidAction)(g.PlaceMine(TeamBlue, grid.Cell{Row: 1, Col: 2}))
}

func TestDetonateMine(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 2, Col: 6})
	sub := g.Submarine(TeamBlue)
	sub.Mines = append(sub.Mines, grid.Cell{Row: 2, Col: 6})

	mustReject(t, CodeIllegalTarget)(g.DetonateMine(TeamBlue, 1))
	mustReject(t, CodeIllegalTarget)(g.DetonateMine(TeamBlue, -1))

	events := mustApply(t)(g.DetonateMine(TeamBlue, 0))
	if events[0].Kind != EventMineDetonated {
		t.Fatalf("events = %v, want mine_detonated first", eventKinds(events))
	}
	if got := g.Submarine(TeamRed).Health; got != 2 {
		t.Errorf("red health = %d after direct mine hit, want 2", got)
	}
	if len(sub.Mines) != 0 {
		t.Errorf("mines = %v after detonation, want none", sub.Mines)
	}
	if !g.Turn().SystemUsed {
		t.Error("detonation did not consume the system slot")
	}
}
