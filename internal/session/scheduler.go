package session

import (
	"context"
	"time"

	"admiral-radar/server/internal/bots"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/logging"
	"admiral-radar/server/logging/rules"
)

// DefaultTickInterval paces bot play slowly enough to watch.
const DefaultTickInterval = 1200 * time.Millisecond

// Scheduler drives a session's bots: one tick, one rung of the action
// ladder, at most one mutation. Human-held seats turn a tick into a no-op
// until the human acts.
type Scheduler struct {
	session  *Session
	interval time.Duration
}

// NewScheduler builds a scheduler for the session.
func NewScheduler(s *Session, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{session: s, interval: interval}
}

// Run ticks until the stop channel closes or the session finishes.
func (sc *Scheduler) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if sc.session.Finished() {
				return
			}
			sc.session.BotStep()
		}
	}
}

// Finished reports whether the session can no longer act.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.g.Phase() == game.PhaseEnded
}

// BotStep attempts exactly one pending bot action for the current sub-step
// and reports whether anything happened. The ladder runs in priority order:
// placement, sonar response, dive, maneuver, engineer mark, first-mate
// charge, weapon, end turn.
func (s *Session) BotStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	switch s.g.Phase() {
	case game.PhasePlacement:
		return s.botPlacementLocked()
	case game.PhasePlaying:
		return s.botPlayingLocked()
	}
	return false
}

func (s *Session) botPlacementLocked() bool {
	for _, team := range game.Teams {
		if s.g.Placed(team) {
			continue
		}
		captain := s.crew[team].Captain
		if captain == nil {
			continue
		}
		cell := captain.DeployCell(s.g.Chart())
		return s.botApplyLocked(Seat{Team: team, Role: bots.RoleCaptain}, "place", func() ([]game.Event, error) {
			return s.g.Place(team, cell)
		})
	}
	return false
}

func (s *Session) botPlayingLocked() bool {
	team := s.g.CurrentTeam()
	crew := s.crew[team]
	turn := s.g.Turn()
	chart := s.g.Chart()

	// A pending sonar ping blocks everything; the responder acts out of
	// turn.
	if turn.WaitingFor == game.WaitingSonarResponse {
		responder := team.Opponent()
		captain := s.crew[responder].Captain
		if captain == nil {
			return false
		}
		captain.ProcessInbox(s.comms[responder].ReadInbox(bots.RoleCaptain))
		facts := captain.RespondSonar(chart, s.g.ViewFor(responder))
		return s.botApplyLocked(Seat{Team: responder, Role: bots.RoleCaptain}, "respond_sonar", func() ([]game.Event, error) {
			return s.g.RespondSonar(responder, facts)
		})
	}

	if s.g.Submarine(team).Surfaced && !turn.Moved {
		if crew.Captain == nil {
			return false
		}
		return s.botApplyLocked(Seat{Team: team, Role: bots.RoleCaptain}, "dive", func() ([]game.Event, error) {
			return s.g.Dive(team)
		})
	}

	if !turn.Moved {
		if crew.Captain == nil {
			return false
		}
		s.crewBriefingLocked(team)
		action := crew.Captain.DecideManeuver(chart, s.g.ViewFor(team))
		seat := Seat{Team: team, Role: bots.RoleCaptain}
		var acted bool
		switch action.Kind {
		case bots.ActionMove:
			acted = s.botApplyLocked(seat, "move", func() ([]game.Event, error) {
				return s.g.Move(team, action.Direction)
			})
		case bots.ActionSurface:
			acted = s.botApplyLocked(seat, "surface", func() ([]game.Event, error) {
				return s.g.Surface(team)
			})
		case bots.ActionStealth:
			acted = s.botApplyLocked(seat, "stealth", func() ([]game.Event, error) {
				return s.g.Stealth(team, action.Direction, action.Steps)
			})
		default:
			return false
		}
		if acted {
			crew.Captain.BriefCrew(s.comms[team], s.g.ViewFor(team))
		}
		return acted
	}

	heading := turn.EffectiveDirection()

	if heading != nil && !turn.EngineerDone {
		if crew.Engineer == nil {
			return false
		}
		crew.Engineer.ProcessInbox(s.comms[team].ReadInbox(bots.RoleEngineer))
		board := s.g.ViewFor(team).Submarines[team].Board
		index, ok := crew.Engineer.DecideMark(board, *heading)
		if !ok {
			return false
		}
		dir := *heading
		return s.botApplyLocked(Seat{Team: team, Role: bots.RoleEngineer}, "engineer_mark", func() ([]game.Event, error) {
			return s.g.EngineerMark(team, dir, index)
		})
	}

	if heading != nil && !turn.FirstMateDone {
		if crew.FirstMate == nil {
			return false
		}
		crew.FirstMate.ProcessInbox(s.comms[team].ReadInbox(bots.RoleFirstMate))
		systems := s.g.ViewFor(team).Submarines[team].Systems
		kind, ok := crew.FirstMate.DecideCharge(systems)
		if !ok {
			// Every gauge is full; the charge is a capped no-op but the
			// sub-step still has to happen.
			kind = game.SystemTorpedo
		}
		return s.botApplyLocked(Seat{Team: team, Role: bots.RoleFirstMate}, "charge_system", func() ([]game.Event, error) {
			return s.g.ChargeSystem(team, kind)
		})
	}

	if s.g.CanEndTurn(team) != nil || crew.Captain == nil {
		return false
	}

	if !turn.SystemUsed {
		if action, ok := crew.Captain.DecideWeapon(chart, s.g.ViewFor(team)); ok {
			seat := Seat{Team: team, Role: bots.RoleCaptain}
			switch action.Kind {
			case bots.ActionTorpedo:
				return s.botApplyLocked(seat, "fire_torpedo", func() ([]game.Event, error) {
					return s.g.FireTorpedo(team, action.Target)
				})
			case bots.ActionDrone:
				return s.botApplyLocked(seat, "use_drone", func() ([]game.Event, error) {
					return s.g.UseDrone(team, action.Sector)
				})
			case bots.ActionSonar:
				return s.botApplyLocked(seat, "use_sonar", func() ([]game.Event, error) {
					return s.g.UseSonar(team)
				})
			}
		}
	}

	return s.botApplyLocked(Seat{Team: team, Role: bots.RoleCaptain}, "end_turn", func() ([]game.Event, error) {
		return s.g.EndTurn(team)
	})
}

// crewBriefingLocked runs the pre-maneuver comms round: the radio operator
// reports, the first mate and engineer brief the captain, and the captain
// reads it all before deciding.
func (s *Session) crewBriefingLocked(team game.Team) {
	crew := s.crew[team]
	comms := s.comms[team]
	view := s.g.ViewFor(team)

	if crew.Radio != nil {
		crew.Radio.ProcessInbox(comms.ReadInbox(bots.RoleRadioOperator))
		crew.Radio.Report(comms)
	}
	if crew.FirstMate != nil {
		crew.FirstMate.ReportSystems(comms, view.Submarines[team].Systems)
	}
	if crew.Engineer != nil {
		crew.Engineer.Advise(comms, view.Submarines[team].Board)
	}
	if crew.Captain != nil {
		crew.Captain.ProcessInbox(comms.ReadInbox(bots.RoleCaptain))
	}
}

// botApplyLocked submits a bot action. Bots only attempt actions their own
// decision logic validated, so a rejection here is a bot bug: it is logged
// and the tick is consumed rather than crashing or hot-retrying.
func (s *Session) botApplyLocked(seat Seat, action string, fn func() ([]game.Event, error)) bool {
	actor := logging.EntityRef{ID: string(seat.Team) + "/" + string(seat.Role), Kind: logging.EntityKindBot}
	turn := uint64(s.g.TurnNumber())

	events, err := fn()
	if err != nil {
		rules.BotActionFailed(context.Background(), s.pub, s.id, turn, actor, rules.ActionPayload{
			Action: action,
			Detail: err.Error(),
		})
		s.metrics.Add("bot_actions_failed", 1)
		return true
	}
	rules.ActionApplied(context.Background(), s.pub, s.id, turn, actor, rules.ActionPayload{
		Action: action,
		Events: len(events),
	})
	s.metrics.Add("bot_actions_applied", 1)
	s.dispatchLocked(events)
	return true
}
