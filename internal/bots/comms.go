// Package bots implements the four crew roles as decision functions over
// role-scoped information. A bot never touches the rule engine directly: it
// reads its team's comms inboxes and the redacted view its seat would see,
// and returns the action it wants submitted.
package bots

import (
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
)

// Role names a crew seat.
type Role string

const (
	RoleCaptain       Role = "captain"
	RoleFirstMate     Role = "first_mate"
	RoleEngineer      Role = "engineer"
	RoleRadioOperator Role = "radio_operator"
)

// Roles lists every seat in a stable order.
var Roles = [4]Role{RoleCaptain, RoleFirstMate, RoleEngineer, RoleRadioOperator}

// Valid reports whether the role names a known seat.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// MessageKind tags an intra-team message.
type MessageKind string

const (
	// Relayed game intel.
	MsgEnemyMoved      MessageKind = "enemy_moved"
	MsgEnemyStealth    MessageKind = "enemy_stealth"
	MsgEnemyMinePlaced MessageKind = "enemy_mine_placed"
	MsgEnemySurfaced   MessageKind = "enemy_surfaced"
	MsgEnemyBlast      MessageKind = "enemy_blast"
	MsgFriendlyBlast   MessageKind = "friendly_blast"
	MsgSonarResult     MessageKind = "sonar_result"
	MsgDroneResult     MessageKind = "drone_result"

	// Role-to-role coordination.
	MsgChargePriority  MessageKind = "charge_priority"
	MsgSystemProtect   MessageKind = "system_protect"
	MsgSystemsReport   MessageKind = "systems_report"
	MsgDirectionAdvice MessageKind = "direction_advice"
	MsgCommentary      MessageKind = "commentary"
)

// DirectionAdvice is the engineer's per-heading recommendation to the
// captain.
type DirectionAdvice struct {
	Direction grid.Direction `json:"direction"`
	Score     int            `json:"score"`
	Reason    string         `json:"reason,omitempty"`
}

// Message is one inbox entry. Only the fields relevant to its kind are set.
type Message struct {
	Kind      MessageKind                          `json:"kind"`
	Direction grid.Direction                       `json:"direction,omitempty"`
	Steps     int                                  `json:"steps,omitempty"`
	Cell      grid.Cell                            `json:"cell,omitzero"`
	Sector    int                                  `json:"sector,omitempty"`
	InSector  bool                                 `json:"inSector,omitempty"`
	Facts     [2]game.SonarFact                    `json:"facts,omitzero"`
	Systems   map[game.SystemKind]game.SystemGauge `json:"systems,omitempty"`
	Priority  []game.SystemKind                    `json:"priority,omitempty"`
	Protect   []game.SystemKind                    `json:"protect,omitempty"`
	Advice    []DirectionAdvice                    `json:"advice,omitempty"`
	Text      string                               `json:"text,omitempty"`
}

// TeamComms is one team's internal mailroom: a per-role inbox that bots
// drain on their tick and humans read through the transport. It is owned by
// the session's single writer and needs no locking of its own.
type TeamComms struct {
	team    game.Team
	inboxes map[Role][]Message
}

// NewTeamComms builds an empty mailroom for the team.
func NewTeamComms(team game.Team) *TeamComms {
	inboxes := make(map[Role][]Message, len(Roles))
	for _, role := range Roles {
		inboxes[role] = nil
	}
	return &TeamComms{team: team, inboxes: inboxes}
}

// Team returns the owning team.
func (tc *TeamComms) Team() game.Team { return tc.team }

// Post appends a message to one seat's inbox.
func (tc *TeamComms) Post(role Role, msg Message) {
	if !role.Valid() {
		return
	}
	tc.inboxes[role] = append(tc.inboxes[role], msg)
}

// ReadInbox drains and returns one seat's pending messages.
func (tc *TeamComms) ReadInbox(role Role) []Message {
	msgs := tc.inboxes[role]
	tc.inboxes[role] = nil
	return msgs
}

// PeekInbox returns pending messages without draining them.
func (tc *TeamComms) PeekInbox(role Role) []Message {
	return append([]Message(nil), tc.inboxes[role]...)
}

// Relay translates one dispatched rule-engine event into this team's
// inboxes. The mapping is a single fixed table: what a human in the seat
// would overhear, nothing more. The caller only relays events the team may
// see, so team-scoped results arriving here are always the team's own.
func (tc *TeamComms) Relay(ev game.Event) {
	fromEnemy := ev.Team != tc.team
	switch ev.Kind {
	case game.EventDirectionAnnounced:
		if !fromEnemy {
			return
		}
		p, ok := ev.Payload.(game.DirectionPayload)
		if !ok {
			return
		}
		dir, ok := grid.ParseDirection(p.Direction)
		if !ok {
			return
		}
		msg := Message{Kind: MsgEnemyMoved, Direction: dir}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)

	case game.EventStealthAnnounced:
		if !fromEnemy {
			return
		}
		p, ok := ev.Payload.(game.StealthPayload)
		if !ok {
			return
		}
		msg := Message{Kind: MsgEnemyStealth, Steps: p.Steps}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)

	case game.EventMineAnnounced:
		if !fromEnemy {
			return
		}
		msg := Message{Kind: MsgEnemyMinePlaced}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)

	case game.EventSurfaceAnnounced:
		if !fromEnemy {
			return
		}
		p, ok := ev.Payload.(game.SurfacePayload)
		if !ok {
			return
		}
		msg := Message{Kind: MsgEnemySurfaced, Sector: p.Sector}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)

	case game.EventTorpedoFired:
		p, ok := ev.Payload.(game.TorpedoPayload)
		if !ok {
			return
		}
		tc.relayBlast(fromEnemy, p.Target)

	case game.EventMineDetonated:
		p, ok := ev.Payload.(game.MineDetonatedPayload)
		if !ok {
			return
		}
		tc.relayBlast(fromEnemy, p.Cell)

	case game.EventSonarResult:
		if fromEnemy {
			return
		}
		p, ok := ev.Payload.(game.SonarResultPayload)
		if !ok {
			return
		}
		msg := Message{Kind: MsgSonarResult, Facts: p.Facts}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)

	case game.EventDroneResult:
		if fromEnemy {
			return
		}
		p, ok := ev.Payload.(game.DroneResultPayload)
		if !ok {
			return
		}
		msg := Message{Kind: MsgDroneResult, Sector: p.Sector, InSector: p.InSector}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)
	}
}

func (tc *TeamComms) relayBlast(fromEnemy bool, cell grid.Cell) {
	if fromEnemy {
		msg := Message{Kind: MsgEnemyBlast, Cell: cell}
		tc.Post(RoleRadioOperator, msg)
		tc.Post(RoleCaptain, msg)
		return
	}
	tc.Post(RoleRadioOperator, Message{Kind: MsgFriendlyBlast, Cell: cell})
}
