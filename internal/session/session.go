// Package session owns the lifetime of running games: a registry keyed by
// session id, a single-writer mutation boundary around each game, bot seat
// assignment, and the per-session scheduler that paces bot play.
package session

import (
	"context"
	"math/rand"
	"sync"

	"admiral-radar/server/internal/bots"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
	"admiral-radar/server/internal/telemetry"
	"admiral-radar/server/logging"
	"admiral-radar/server/logging/lifecycle"
	"admiral-radar/server/logging/rules"
)

// Seat identifies one acting player slot.
type Seat struct {
	Team game.Team
	Role bots.Role
}

// Crew holds a team's bot seats. A nil field means a human holds the seat.
type Crew struct {
	Captain   *bots.Captain
	FirstMate *bots.FirstMate
	Engineer  *bots.Engineer
	Radio     *bots.RadioOperator
}

// Listener receives dispatched events for one subscribed seat. The session
// filters by the event's visibility scope before delivering; the transport
// never sees an event its seat may not.
type Listener func(ev game.Event)

type listenerEntry struct {
	id   int
	seat Seat
	fn   Listener
}

// Session wraps one game behind a single-writer mutex. Every human entry
// point and every scheduler tick runs the same lock, so at most one
// mutation is in flight at any moment.
type Session struct {
	id      string
	mu      sync.Mutex
	g       *game.Game
	rng     *rand.Rand
	comms   map[game.Team]*bots.TeamComms
	crew    map[game.Team]*Crew
	pub     logging.Publisher
	metrics telemetry.Metrics

	listeners  []listenerEntry
	listenerID int
	closed     bool
	started    bool
}

func newSession(id string, chart *grid.Map, cfg game.Config, rng *rand.Rand, pub logging.Publisher, metrics telemetry.Metrics) *Session {
	s := &Session{
		id:      id,
		g:       game.New(chart, cfg),
		rng:     rng,
		comms:   make(map[game.Team]*bots.TeamComms, len(game.Teams)),
		crew:    make(map[game.Team]*Crew, len(game.Teams)),
		pub:     pub,
		metrics: metrics,
	}
	for _, team := range game.Teams {
		s.comms[team] = bots.NewTeamComms(team)
		s.crew[team] = &Crew{}
	}
	return s
}

// ID returns the registry key of the session.
func (s *Session) ID() string { return s.id }

// AssignBot fills a seat with the matching bot. Seats left empty by humans
// must be filled before placement completes.
func (s *Session) AssignBot(seat Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionEnded
	}
	if !seat.Team.Valid() || !seat.Role.Valid() {
		return &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown seat"}
	}
	crew := s.crew[seat.Team]
	switch seat.Role {
	case bots.RoleCaptain:
		crew.Captain = bots.NewCaptain(seat.Team, s.g.Config(), s.rng)
	case bots.RoleFirstMate:
		crew.FirstMate = bots.NewFirstMate(seat.Team)
	case bots.RoleEngineer:
		crew.Engineer = bots.NewEngineer(seat.Team)
	case bots.RoleRadioOperator:
		crew.Radio = bots.NewRadioOperator(seat.Team)
	}
	return nil
}

// AssignHuman vacates a seat so the scheduler waits on the connected player
// instead of running a bot for it.
func (s *Session) AssignHuman(seat Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionEnded
	}
	if !seat.Team.Valid() || !seat.Role.Valid() {
		return &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown seat"}
	}
	crew := s.crew[seat.Team]
	switch seat.Role {
	case bots.RoleCaptain:
		crew.Captain = nil
	case bots.RoleFirstMate:
		crew.FirstMate = nil
	case bots.RoleEngineer:
		crew.Engineer = nil
	case bots.RoleRadioOperator:
		crew.Radio = nil
	}
	return nil
}

// Subscribe registers a transport listener for one seat and returns the
// function that removes it. Delivery respects the event visibility table.
func (s *Session) Subscribe(seat Seat, fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenerID++
	id := s.listenerID
	s.listeners = append(s.listeners, listenerEntry{id: id, seat: seat, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// ViewFor returns the redacted state for one team.
func (s *Session) ViewFor(team game.Team) game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.ViewFor(team)
}

// CrewMessages drains a seat's team-comms inbox for a human player.
func (s *Session) CrewMessages(seat Seat) []bots.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comms[seat.Team].ReadInbox(seat.Role)
}

// Entry points, one per action kind. Each acquires the session lock, runs
// the rule engine, and dispatches the ordered event list on success.

func (s *Session) Place(team game.Team, cell grid.Cell) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "place", func() ([]game.Event, error) {
		return s.g.Place(team, cell)
	})
}

func (s *Session) Move(team game.Team, dir grid.Direction) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "move", func() ([]game.Event, error) {
		return s.g.Move(team, dir)
	})
}

func (s *Session) Surface(team game.Team) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "surface", func() ([]game.Event, error) {
		return s.g.Surface(team)
	})
}

func (s *Session) Dive(team game.Team) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "dive", func() ([]game.Event, error) {
		return s.g.Dive(team)
	})
}

func (s *Session) Stealth(team game.Team, dir grid.Direction, steps int) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "stealth", func() ([]game.Event, error) {
		return s.g.Stealth(team, dir, steps)
	})
}

func (s *Session) EngineerMark(team game.Team, dir grid.Direction, index int) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleEngineer}, "engineer_mark", func() ([]game.Event, error) {
		return s.g.EngineerMark(team, dir, index)
	})
}

func (s *Session) ChargeSystem(team game.Team, kind game.SystemKind) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleFirstMate}, "charge_system", func() ([]game.Event, error) {
		return s.g.ChargeSystem(team, kind)
	})
}

func (s *Session) FireTorpedo(team game.Team, target grid.Cell) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "fire_torpedo", func() ([]game.Event, error) {
		return s.g.FireTorpedo(team, target)
	})
}

func (s *Session) PlaceMine(team game.Team, target grid.Cell) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "place_mine", func() ([]game.Event, error) {
		return s.g.PlaceMine(team, target)
	})
}

func (s *Session) DetonateMine(team game.Team, index int) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "detonate_mine", func() ([]game.Event, error) {
		return s.g.DetonateMine(team, index)
	})
}

func (s *Session) UseSonar(team game.Team) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "use_sonar", func() ([]game.Event, error) {
		return s.g.UseSonar(team)
	})
}

func (s *Session) RespondSonar(team game.Team, facts [2]game.SonarFact) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "respond_sonar", func() ([]game.Event, error) {
		return s.g.RespondSonar(team, facts)
	})
}

func (s *Session) UseDrone(team game.Team, sector int) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "use_drone", func() ([]game.Event, error) {
		return s.g.UseDrone(team, sector)
	})
}

func (s *Session) EndTurn(team game.Team) ([]game.Event, error) {
	return s.apply(Seat{Team: team, Role: bots.RoleCaptain}, "end_turn", func() ([]game.Event, error) {
		return s.g.EndTurn(team)
	})
}

// PostCrewMessage lets a human seat talk to its own crew, mirroring what
// the bots do among themselves.
func (s *Session) PostCrewMessage(seat Seat, to bots.Role, msg bots.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionEnded
	}
	if !seat.Team.Valid() || !to.Valid() {
		return &game.RuleError{Code: game.CodeInvalidAction, Reason: "unknown seat"}
	}
	s.comms[seat.Team].Post(to, msg)
	return nil
}

func (s *Session) apply(seat Seat, action string, fn func() ([]game.Event, error)) ([]game.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(seat, action, fn)
}

func (s *Session) applyLocked(seat Seat, action string, fn func() ([]game.Event, error)) ([]game.Event, error) {
	if s.closed {
		return nil, ErrSessionEnded
	}
	actor := logging.EntityRef{ID: string(seat.Team) + "/" + string(seat.Role), Kind: logging.EntityKindPlayer}
	turn := uint64(s.g.TurnNumber())

	events, err := fn()
	if err != nil {
		rules.ActionRejected(context.Background(), s.pub, s.id, turn, actor, rules.ActionPayload{
			Action: action,
			Detail: err.Error(),
		})
		s.metrics.Add("actions_rejected", 1)
		return nil, err
	}
	rules.ActionApplied(context.Background(), s.pub, s.id, turn, actor, rules.ActionPayload{
		Action: action,
		Events: len(events),
	})
	s.metrics.Add("actions_applied", 1)
	s.dispatchLocked(events)
	return events, nil
}

// dispatchLocked fans each event out to the transport listeners and the
// team comms relays, honoring the fixed visibility table, and tracks the
// session lifecycle transitions events imply.
func (s *Session) dispatchLocked(events []game.Event) {
	for _, ev := range events {
		for _, team := range game.Teams {
			if ev.VisibleTo(team, true) {
				s.comms[team].Relay(ev)
			}
		}
		for _, entry := range s.listeners {
			if ev.VisibleTo(entry.seat.Team, entry.seat.Role == bots.RoleCaptain) {
				entry.fn(ev)
			}
		}
		switch ev.Kind {
		case game.EventTurnStart:
			s.metrics.Store("turn_number", uint64(s.g.TurnNumber()))
		case game.EventGameOver:
			payload, _ := ev.Payload.(game.GameOverPayload)
			lifecycle.GameEnded(context.Background(), s.pub, s.id, uint64(s.g.TurnNumber()), lifecycle.GameEndedPayload{
				Winner: string(payload.Winner),
				Loser:  string(payload.Loser),
				Turns:  uint64(s.g.TurnNumber()),
			})
			s.metrics.Add("games_ended", 1)
		}
	}
	if !s.started && s.g.Phase() == game.PhasePlaying {
		s.started = true
		lifecycle.GameStarted(context.Background(), s.pub, s.id, string(s.g.CurrentTeam()))
		s.metrics.Add("games_started", 1)
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}
