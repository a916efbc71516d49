package session

import (
	"errors"
	"testing"

	"admiral-radar/server/internal/bots"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
	"admiral-radar/server/internal/telemetry"
)

func openWater() grid.Settings {
	return grid.Settings{Rows: 10, Cols: 10, SectorWidth: 5, SectorHeight: 5}
}

func newTestSession(t *testing.T, seed int64) (*Registry, *Session) {
	t.Helper()
	r := NewRegistry(nil, telemetry.NopMetrics())
	s, err := r.Create(Options{Settings: openWater(), Seed: seed})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return r, s
}

func seatAllBots(t *testing.T, s *Session) {
	t.Helper()
	for _, team := range game.Teams {
		for _, role := range bots.Roles {
			if err := s.AssignBot(Seat{Team: team, Role: role}); err != nil {
				t.Fatalf("AssignBot(%s/%s): %v", team, role, err)
			}
		}
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r, s := newTestSession(t, 1)

	if got, err := r.Get(s.ID()); err != nil || got != s {
		t.Fatalf("Get(%q) = %v, %v", s.ID(), got, err)
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	if err := r.Destroy(s.ID()); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := r.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after destroy = %v, want ErrSessionNotFound", err)
	}
	if err := r.Destroy(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Destroy = %v, want ErrSessionNotFound", err)
	}
	if _, err := s.Move(game.TeamBlue, grid.North); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("action on destroyed session = %v, want ErrSessionEnded", err)
	}
	if err := s.AssignBot(Seat{Team: game.TeamBlue, Role: bots.RoleCaptain}); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("AssignBot on destroyed session = %v, want ErrSessionEnded", err)
	}
}

func TestSubscribeFiltersByVisibility(t *testing.T) {
	_, s := newTestSession(t, 1)
	if _, err := s.Place(game.TeamBlue, grid.Cell{Row: 2, Col: 2}); err != nil {
		t.Fatalf("place blue: %v", err)
	}
	if _, err := s.Place(game.TeamRed, grid.Cell{Row: 7, Col: 7}); err != nil {
		t.Fatalf("place red: %v", err)
	}

	var redSaw, blueCrewSaw []game.EventKind
	cancelRed := s.Subscribe(Seat{Team: game.TeamRed, Role: bots.RoleCaptain}, func(ev game.Event) {
		redSaw = append(redSaw, ev.Kind)
	})
	defer cancelRed()
	cancelCrew := s.Subscribe(Seat{Team: game.TeamBlue, Role: bots.RoleEngineer}, func(ev game.Event) {
		blueCrewSaw = append(blueCrewSaw, ev.Kind)
	})

	if _, err := s.Move(game.TeamBlue, grid.South); err != nil {
		t.Fatalf("move: %v", err)
	}

	if len(redSaw) != 1 || redSaw[0] != game.EventDirectionAnnounced {
		t.Errorf("red captain saw %v, want only the public heading", redSaw)
	}
	for _, kind := range blueCrewSaw {
		if kind == game.EventMovedSelf {
			t.Error("captain-only event delivered to a crew seat")
		}
	}

	cancelCrew()
	blueCrewSaw = nil
	if _, err := s.EngineerMark(game.TeamBlue, grid.South, 0); err != nil {
		t.Fatalf("engineer mark: %v", err)
	}
	if len(blueCrewSaw) != 0 {
		t.Errorf("cancelled listener still received %v", blueCrewSaw)
	}
}

func TestAssignHumanStopsBotSeat(t *testing.T) {
	_, s := newTestSession(t, 1)
	seatAllBots(t, s)
	if err := s.AssignHuman(Seat{Team: game.TeamBlue, Role: bots.RoleCaptain}); err != nil {
		t.Fatalf("AssignHuman: %v", err)
	}

	if !s.BotStep() {
		t.Fatal("red bot captain did not place")
	}
	if s.BotStep() {
		t.Error("tick acted with only the human placement outstanding")
	}

	v := s.ViewFor("")
	if v.Phase != game.PhasePlacement {
		t.Fatalf("phase = %s, want placement while the human deploys", v.Phase)
	}
	if v.Submarines[game.TeamRed].Position == nil {
		t.Error("red boat not deployed")
	}
	if v.Submarines[game.TeamBlue].Position != nil {
		t.Error("blue boat deployed without its human captain")
	}
}

func TestBotCrewPlaysUnattended(t *testing.T) {
	_, s := newTestSession(t, 42)
	seatAllBots(t, s)

	for i := 0; i < 600 && !s.Finished(); i++ {
		s.BotStep()
	}

	v := s.ViewFor("")
	if v.Phase != game.PhasePlaying && v.Phase != game.PhaseEnded {
		t.Fatalf("phase = %s after 600 ticks", v.Phase)
	}
	if v.TurnNumber < 5 {
		t.Errorf("turn number = %d after 600 ticks, want real progress", v.TurnNumber)
	}
	if v.Phase == game.PhaseEnded && !v.Winner.Valid() {
		t.Errorf("ended game has winner %q", v.Winner)
	}
	for _, team := range game.Teams {
		sub := v.Submarines[team]
		if sub.Health < 0 || sub.Health > game.DefaultConfig().StartingHealth {
			t.Errorf("%s health = %d out of range", team, sub.Health)
		}
		if v.Phase == game.PhasePlaying && sub.Position == nil {
			t.Errorf("%s has no position mid-game", team)
		}
	}
}

func TestCrewMessagesDrainOnce(t *testing.T) {
	_, s := newTestSession(t, 1)
	seat := Seat{Team: game.TeamBlue, Role: bots.RoleCaptain}

	err := s.PostCrewMessage(Seat{Team: game.TeamBlue, Role: bots.RoleRadioOperator}, bots.RoleCaptain,
		bots.Message{Kind: bots.MsgCommentary, Text: "contact fading"})
	if err != nil {
		t.Fatalf("PostCrewMessage: %v", err)
	}

	msgs := s.CrewMessages(seat)
	if len(msgs) != 1 || msgs[0].Text != "contact fading" {
		t.Fatalf("messages = %+v", msgs)
	}
	if again := s.CrewMessages(seat); len(again) != 0 {
		t.Errorf("inbox not drained: %+v", again)
	}
}
