package game

import (
	"admiral-radar/server/internal/grid"
)

// Game is the authoritative state of one session. It is not safe for
// concurrent use; the session layer serializes every call.
type Game struct {
	cfg     Config
	chart   *grid.Map
	phase   Phase
	subs    map[Team]*Submarine
	current Team
	turn    *TurnState
	bonus   map[Team]int
	turnNum int
	winner  Team
}

// New starts a session in the placement phase. The blue team always opens.
func New(chart *grid.Map, cfg Config) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		cfg:     cfg,
		chart:   chart,
		phase:   PhasePlacement,
		subs:    make(map[Team]*Submarine, len(Teams)),
		current: TeamBlue,
		turn:    newTurnState(),
		bonus:   make(map[Team]int, len(Teams)),
	}
	for _, team := range Teams {
		g.subs[team] = newSubmarine(team, cfg)
	}
	return g
}

func (g *Game) Phase() Phase       { return g.phase }
func (g *Game) CurrentTeam() Team  { return g.current }
func (g *Game) TurnNumber() int    { return g.turnNum }
func (g *Game) Winner() Team       { return g.winner }
func (g *Game) Chart() *grid.Map   { return g.chart }
func (g *Game) Config() Config     { return g.cfg }
func (g *Game) Turn() *TurnState   { return g.turn }
func (g *Game) BonusTurns(t Team) int { return g.bonus[t] }

// Submarine returns the team's boat. Valid teams always have one.
func (g *Game) Submarine(team Team) *Submarine {
	return g.subs[team]
}

// requireActive gates every in-turn handler on phase and turn ownership.
func (g *Game) requireActive(team Team) error {
	switch g.phase {
	case PhasePlacement:
		return invalidActionf("game has not started")
	case PhaseEnded:
		return invalidActionf("game is over")
	}
	if !team.Valid() {
		return invalidActionf("unknown team %q", team)
	}
	if g.current != team {
		return invalidActionf("not %s team's turn", team)
	}
	return nil
}

// requireTurn additionally rejects while a sonar response is pending.
func (g *Game) requireTurn(team Team) error {
	if err := g.requireActive(team); err != nil {
		return err
	}
	if g.turn.WaitingFor != WaitingNone {
		return invalidActionf("waiting for %s", g.turn.WaitingFor)
	}
	return nil
}

// legalMove reports whether one step along the heading is playable: in
// bounds, sea, outside the trail, and clear of the team's own mines.
func (g *Game) legalMove(sub *Submarine, dir grid.Direction) bool {
	target := dir.Step(*sub.Position)
	if !g.chart.IsSea(target) {
		return false
	}
	if sub.InTrail(target) {
		return false
	}
	return !sub.HasMineAt(target)
}

func (g *Game) legalMoves(sub *Submarine) []grid.Direction {
	out := make([]grid.Direction, 0, len(grid.Directions))
	for _, dir := range grid.Directions {
		if g.legalMove(sub, dir) {
			out = append(out, dir)
		}
	}
	return out
}

// beginTurn opens the next team's turn and applies the blackout rule: a
// submerged boat with no legal move is surfaced and dived for its crew.
func (g *Game) beginTurn() []Event {
	g.turnNum++
	g.turn = newTurnState()
	events := []Event{newEvent(EventTurnStart, g.current, TurnPayload{Team: g.current})}

	sub := g.subs[g.current]
	if !sub.Surfaced && len(g.legalMoves(sub)) == 0 {
		events = append(events, newEvent(EventBlackoutAnnounced, g.current, nil))
		events = append(events, g.doSurface(sub, true)...)
		events = append(events, g.doDive(sub)...)
	}
	return events
}

// doSurface applies the shared surface effects: wake and board wiped, sector
// announced, opponent granted bonus turns. The surface consumes the turn's
// move slot.
func (g *Game) doSurface(sub *Submarine, blackout bool) []Event {
	sub.Surfaced = true
	sub.Trail = nil
	sub.Board.Reset()
	g.bonus[sub.Team.Opponent()] += g.cfg.SurfaceBonusTurns

	g.turn.Moved = true
	g.turn.Direction = nil
	g.turn.StealthDirection = nil

	return []Event{newEvent(EventSurfaceAnnounced, sub.Team, SurfacePayload{
		Sector:   g.chart.SectorOf(*sub.Position),
		Health:   sub.Health,
		Blackout: blackout,
	})}
}

// doDive resubmerges the boat; the wake restarts at the current cell.
func (g *Game) doDive(sub *Submarine) []Event {
	sub.Surfaced = false
	sub.Trail = []grid.Cell{*sub.Position}
	return []Event{newEvent(EventDiveAnnounced, sub.Team, nil)}
}

// applyExplosion deals torpedo/mine damage around the target cell to both
// boats, friendly fire included. Direct hits take 2, adjacent cells 1, by
// Manhattan distance.
func (g *Game) applyExplosion(actor Team, target grid.Cell) []Event {
	var events []Event
	for _, team := range Teams {
		sub := g.subs[team]
		if sub.Position == nil {
			continue
		}
		var amount int
		switch grid.Manhattan(target, *sub.Position) {
		case 0:
			amount = 2
		case 1:
			amount = 1
		default:
			continue
		}
		sub.Health -= amount
		cell := target
		events = append(events, newEvent(EventDamage, team, DamagePayload{
			Amount: amount,
			Health: sub.Health,
			Cause:  CauseExplosion,
			Cell:   &cell,
		}))
	}
	if over, ok := g.checkGameOver(actor); ok {
		events = append(events, over)
	}
	return events
}

// checkGameOver settles the session once any hull reaches zero. A mutual
// kill goes to the acting team.
func (g *Game) checkGameOver(actor Team) (Event, bool) {
	if g.phase == PhaseEnded {
		return Event{}, false
	}
	opponent := actor.Opponent()
	var winner, loser Team
	switch {
	case g.subs[opponent].Health <= 0:
		winner, loser = actor, opponent
	case g.subs[actor].Health <= 0:
		winner, loser = opponent, actor
	default:
		return Event{}, false
	}
	g.phase = PhaseEnded
	g.winner = winner
	return newEvent(EventGameOver, winner, GameOverPayload{Winner: winner, Loser: loser}), true
}
