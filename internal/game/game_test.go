package game

import (
	"testing"

	"admiral-radar/server/internal/grid"
)

func testChart(t *testing.T, islands ...grid.Cell) *grid.Map {
	t.Helper()
	chart, err := grid.New("test", 10, 10, 5, 5, islands)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return chart
}

// mustApply fails the test on rejection and hands back the event list. The
// extra call layer lets rule engine results feed it directly:
// mustApply(t)(g.Move(...)).
func mustApply(t *testing.T) func([]Event, error) []Event {
	return func(events []Event, err error) []Event {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected rejection: %v", err)
		}
		return events
	}
}

// mustReject fails the test unless the call was rejected with the given code.
func mustReject(t *testing.T, code ErrorCode) func([]Event, error) {
	return func(events []Event, err error) {
		t.Helper()
		if err == nil {
			t.Fatalf("expected rejection, got %d events", len(events))
		}
		if got := CodeOf(err); got != code {
			t.Fatalf("error code = %q, want %q (%v)", got, code, err)
		}
	}
}

func playingGame(t *testing.T, chart *grid.Map, blue, red grid.Cell) *Game {
	t.Helper()
	g := New(chart, DefaultConfig())
	mustApply(t)(g.Place(TeamBlue, blue))
	mustApply(t)(g.Place(TeamRed, red))
	if g.Phase() != PhasePlaying {
		t.Fatalf("phase = %s after placement, want %s", g.Phase(), PhasePlaying)
	}
	return g
}

func readyGauge(g *Game, team Team, kind SystemKind) {
	gauge := g.Submarine(team).Gauge(kind)
	gauge.Charge = gauge.Max
}

// finishTurn drives the engineer and first mate through their obligations
// and closes the turn.
func finishTurn(t *testing.T, g *Game, team Team) {
	t.Helper()
	if heading := g.Turn().EffectiveDirection(); heading != nil {
		sub := g.Submarine(team)
		avail := sub.Board.Available(*heading)
		if len(avail) == 0 {
			t.Fatalf("no nodes left in %s section", heading)
		}
		mustApply(t)(g.EngineerMark(team, *heading, avail[0]))
		mustApply(t)(g.ChargeSystem(team, SystemStealth))
	}
	mustApply(t)(g.EndTurn(team))
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestPlacementOpensFirstTurn(t *testing.T) {
	g := New(testChart(t), DefaultConfig())

	events := mustApply(t)(g.Place(TeamBlue, grid.Cell{Row: 2, Col: 2}))
	if len(events) != 1 || events[0].Kind != EventPlaced {
		t.Fatalf("first placement events = %v", eventKinds(events))
	}
	if g.Phase() != PhasePlacement {
		t.Fatalf("phase = %s before both boats placed", g.Phase())
	}

	events = mustApply(t)(g.Place(TeamRed, grid.Cell{Row: 7, Col: 7}))
	if !hasEvent(events, EventTurnStart) {
		t.Fatalf("second placement events = %v, want turn_start", eventKinds(events))
	}
	if g.CurrentTeam() != TeamBlue {
		t.Errorf("opening team = %s, want blue", g.CurrentTeam())
	}
	if g.TurnNumber() != 1 {
		t.Errorf("turn number = %d, want 1", g.TurnNumber())
	}
	if trail := g.Submarine(TeamBlue).Trail; len(trail) != 1 {
		t.Errorf("blue trail = %v, want just the start cell", trail)
	}
}

func TestPlaceRejections(t *testing.T) {
	chart := testChart(t, grid.Cell{Row: 3, Col: 3})
	g := New(chart, DefaultConfig())

	mustReject(t, CodeIllegalTarget)(g.Place(TeamBlue, grid.Cell{Row: 3, Col: 3}))
	mustReject(t, CodeInvalidAction)(g.Place(Team("green"), grid.Cell{Row: 0, Col: 0}))

	mustApply(t)(g.Place(TeamBlue, grid.Cell{Row: 2, Col: 2}))
	mustReject(t, CodeInvalidAction)(g.Place(TeamBlue, grid.Cell{Row: 4, Col: 4}))

	mustApply(t)(g.Place(TeamRed, grid.Cell{Row: 7, Col: 7}))
	mustReject(t, CodeInvalidAction)(g.Place(TeamRed, grid.Cell{Row: 8, Col: 8}))
}

func TestMoveAnnouncesHeadingAndExtendsTrail(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})

	events := mustApply(t)(g.Move(TeamBlue, grid.North))
	if len(events) != 2 || events[0].Kind != EventDirectionAnnounced || events[1].Kind != EventMovedSelf {
		t.Fatalf("move events = %v", eventKinds(events))
	}
	if events[0].Scope != ScopeAll {
		t.Errorf("direction announcement scope = %s, want all", events[0].Scope)
	}
	if events[1].Scope != ScopeActor {
		t.Errorf("moved_self scope = %s, want actor", events[1].Scope)
	}

	sub := g.Submarine(TeamBlue)
	if *sub.Position != (grid.Cell{Row: 1, Col: 2}) {
		t.Errorf("position = %v, want (1,2)", *sub.Position)
	}
	if len(sub.Trail) != 2 {
		t.Errorf("trail = %v, want two cells", sub.Trail)
	}

	mustReject(t, CodeInvalidAction)(g.Move(TeamBlue, grid.North))
}

func TestMoveRejectsBlockedTargets(t *testing.T) {
	chart := testChart(t, grid.Cell{Row: 2, Col: 3})
	g := playingGame(t, chart, grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})
	sub := g.Submarine(TeamBlue)

	mustReject(t, CodeIllegalTarget)(g.Move(TeamBlue, grid.East)) // island

	sub.Trail = append(sub.Trail, grid.Cell{Row: 1, Col: 2})
	mustReject(t, CodeIllegalTarget)(g.Move(TeamBlue, grid.North)) // wake

	sub.Mines = append(sub.Mines, grid.Cell{Row: 3, Col: 2})
	mustReject(t, CodeIllegalTarget)(g.Move(TeamBlue, grid.South)) // own mine

	mustReject(t, CodeInvalidAction)(g.Move(TeamRed, grid.North)) // not red's turn

	edge := playingGame(t, testChart(t), grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 7, Col: 7})
	mustReject(t, CodeIllegalTarget)(edge.Move(TeamBlue, grid.North))
	mustReject(t, CodeIllegalTarget)(edge.Move(TeamBlue, grid.West))
}

func TestSurfaceGrantsOpponentBonusTurns(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})

	events := mustApply(t)(g.Surface(TeamBlue))
	if len(events) != 1 || events[0].Kind != EventSurfaceAnnounced {
		t.Fatalf("surface events = %v", eventKinds(events))
	}
	payload := events[0].Payload.(SurfacePayload)
	if payload.Sector != 1 {
		t.Errorf("announced sector = %d, want 1", payload.Sector)
	}
	if payload.Blackout {
		t.Error("voluntary surface flagged as blackout")
	}

	sub := g.Submarine(TeamBlue)
	if !sub.Surfaced || sub.Trail != nil {
		t.Errorf("surfaced=%v trail=%v, want surfaced with wiped wake", sub.Surfaced, sub.Trail)
	}
	if sub.Health != DefaultConfig().StartingHealth {
		t.Errorf("surface cost hull: health = %d", sub.Health)
	}
	if got := g.BonusTurns(TeamRed); got != 3 {
		t.Fatalf("red bonus turns = %d, want 3", got)
	}

	// No heading this turn, so the crew owes nothing and blue may end.
	mustApply(t)(g.EndTurn(TeamBlue))
	if g.CurrentTeam() != TeamRed {
		t.Fatalf("current team = %s, want red", g.CurrentTeam())
	}

	// Red spends bonus turns: each end keeps the floor until they run out.
	for want := 2; want >= 0; want-- {
		mustApply(t)(g.Move(TeamRed, grid.North))
		finishTurn(t, g, TeamRed)
		if got := g.BonusTurns(TeamRed); got != want {
			t.Fatalf("red bonus turns = %d, want %d", got, want)
		}
		if want > 0 && g.CurrentTeam() != TeamRed {
			t.Fatalf("red lost the turn with %d bonus turns left", want)
		}
	}
	if g.CurrentTeam() != TeamBlue {
		t.Fatalf("current team = %s after bonus turns spent, want blue", g.CurrentTeam())
	}
}

func TestDiveRestartsWake(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})

	mustReject(t, CodeInvalidAction)(g.Dive(TeamBlue)) // not surfaced

	mustApply(t)(g.Surface(TeamBlue))
	events := mustApply(t)(g.Dive(TeamBlue))
	if len(events) != 1 || events[0].Kind != EventDiveAnnounced {
		t.Fatalf("dive events = %v", eventKinds(events))
	}
	sub := g.Submarine(TeamBlue)
	if sub.Surfaced {
		t.Error("still surfaced after dive")
	}
	if len(sub.Trail) != 1 || sub.Trail[0] != *sub.Position {
		t.Errorf("trail = %v, want restart at %v", sub.Trail, *sub.Position)
	}
}

func TestBlackoutAutoSurfacesBoxedInBoat(t *testing.T) {
	// Blue starts in a pocket with no legal exit.
	chart := testChart(t,
		grid.Cell{Row: 0, Col: 1},
		grid.Cell{Row: 1, Col: 0},
		grid.Cell{Row: 1, Col: 2},
		grid.Cell{Row: 2, Col: 1},
	)
	g := New(chart, DefaultConfig())
	mustApply(t)(g.Place(TeamBlue, grid.Cell{Row: 1, Col: 1}))
	events := mustApply(t)(g.Place(TeamRed, grid.Cell{Row: 7, Col: 7}))

	for _, kind := range []EventKind{EventBlackoutAnnounced, EventSurfaceAnnounced, EventDiveAnnounced} {
		if !hasEvent(events, kind) {
			t.Errorf("blackout turn missing %s: %v", kind, eventKinds(events))
		}
	}

	sub := g.Submarine(TeamBlue)
	if sub.Surfaced {
		t.Error("boat left surfaced after blackout")
	}
	if sub.Health != DefaultConfig().StartingHealth {
		t.Errorf("blackout cost hull: health = %d", sub.Health)
	}
	if got := g.BonusTurns(TeamRed); got != 3 {
		t.Errorf("red bonus turns = %d, want 3", got)
	}

	// The forced surface consumed the move slot with no heading, so blue
	// can only close the turn.
	mustReject(t, CodeInvalidAction)(g.Move(TeamBlue, grid.North))
	mustApply(t)(g.EndTurn(TeamBlue))
}

func TestStealthMovesStraightAndKeepsHeadingPrivate(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 5, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemStealth)

	events := mustApply(t)(g.Stealth(TeamBlue, grid.East, 3))
	if len(events) != 2 || events[0].Kind != EventStealthAnnounced || events[1].Kind != EventStealthMovedSelf {
		t.Fatalf("stealth events = %v", eventKinds(events))
	}
	if events[0].Scope != ScopeAll {
		t.Errorf("stealth announcement scope = %s, want all", events[0].Scope)
	}
	if got := events[0].Payload.(StealthPayload).Steps; got != 3 {
		t.Errorf("announced steps = %d, want 3", got)
	}

	sub := g.Submarine(TeamBlue)
	if *sub.Position != (grid.Cell{Row: 5, Col: 5}) {
		t.Errorf("position = %v, want (5,5)", *sub.Position)
	}
	if len(sub.Trail) != 4 {
		t.Errorf("trail = %v, want four cells", sub.Trail)
	}
	if gauge := sub.Gauge(SystemStealth); gauge.Charge != 0 {
		t.Errorf("stealth charge = %d after use, want 0", gauge.Charge)
	}

	turn := g.Turn()
	if turn.Direction != nil {
		t.Error("stealth set the public heading")
	}
	if turn.StealthDirection == nil || *turn.StealthDirection != grid.East {
		t.Error("stealth heading not recorded for the acting team")
	}
	if heading := turn.EffectiveDirection(); heading == nil || *heading != grid.East {
		t.Error("crew does not see the stealth heading as its section")
	}
}

func TestStealthValidatesWholePathFirst(t *testing.T) {
	chart := testChart(t, grid.Cell{Row: 5, Col: 4})
	g := playingGame(t, chart, grid.Cell{Row: 5, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemStealth)

	mustReject(t, CodeIllegalTarget)(g.Stealth(TeamBlue, grid.East, 3)) // second step blocked

	sub := g.Submarine(TeamBlue)
	if *sub.Position != (grid.Cell{Row: 5, Col: 2}) {
		t.Errorf("position moved on rejected stealth: %v", *sub.Position)
	}
	if gauge := sub.Gauge(SystemStealth); gauge.Charge != gauge.Max {
		t.Errorf("charge spent on rejected stealth: %d", gauge.Charge)
	}

	mustReject(t, CodeIllegalTarget)(g.Stealth(TeamBlue, grid.West, 5)) // over max steps
}

func TestStealthZeroStepsLeavesNoHeading(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 5, Col: 2}, grid.Cell{Row: 7, Col: 7})
	readyGauge(g, TeamBlue, SystemStealth)

	mustApply(t)(g.Stealth(TeamBlue, grid.East, 0))
	if g.Turn().EffectiveDirection() != nil {
		t.Error("zero-step stealth left a heading")
	}
	// No heading means no crew obligations this turn.
	mustApply(t)(g.EndTurn(TeamBlue))
}

func TestStealthRequiresFullCharge(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 5, Col: 2}, grid.Cell{Row: 7, Col: 7})
	mustReject(t, CodeInsufficientCharge)(g.Stealth(TeamBlue, grid.East, 2))
}

func TestEndTurnWaitsForCrew(t *testing.T) {
	g := playingGame(t, testChart(t), grid.Cell{Row: 2, Col: 2}, grid.Cell{Row: 7, Col: 7})

	mustReject(t, CodeInvalidAction)(g.EndTurn(TeamBlue)) // no move yet

	mustApply(t)(g.Move(TeamBlue, grid.South))
	mustReject(t, CodeInvalidAction)(g.EndTurn(TeamBlue)) // engineer pending

	avail := g.Submarine(TeamBlue).Board.Available(grid.South)
	mustApply(t)(g.EngineerMark(TeamBlue, grid.South, avail[0]))
	mustReject(t, CodeInvalidAction)(g.EndTurn(TeamBlue)) // first mate pending

	mustApply(t)(g.ChargeSystem(TeamBlue, SystemTorpedo))
	events := mustApply(t)(g.EndTurn(TeamBlue))
	if !hasEvent(events, EventTurnEnd) || !hasEvent(events, EventTurnStart) {
		t.Fatalf("end turn events = %v", eventKinds(events))
	}
	if g.CurrentTeam() != TeamRed {
		t.Errorf("current team = %s, want red", g.CurrentTeam())
	}
	if g.TurnNumber() != 2 {
		t.Errorf("turn number = %d, want 2", g.TurnNumber())
	}
}
