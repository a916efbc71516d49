// Package proto defines the websocket wire protocol: the command envelope
// clients send and the message envelopes the server pushes back. Every
// outbound struct carries the protocol version so clients can detect drift.
package proto

import (
	"encoding/json"

	"admiral-radar/server/internal/bots"
	"admiral-radar/server/internal/game"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Client command type identifiers.
const (
	TypePlace        = "place"
	TypeMove         = "move"
	TypeSurface      = "surface"
	TypeDive         = "dive"
	TypeStealth      = "stealth"
	TypeEngineerMark = "engineer_mark"
	TypeChargeSystem = "charge_system"
	TypeFireTorpedo  = "fire_torpedo"
	TypePlaceMine    = "place_mine"
	TypeDetonateMine = "detonate_mine"
	TypeUseSonar     = "use_sonar"
	TypeRespondSonar = "respond_sonar"
	TypeUseDrone     = "use_drone"
	TypeEndTurn      = "end_turn"
	TypeCrewMessage  = "crew_message"
	TypeViewRequest  = "view_request"
)

// Outbound message type identifiers.
const (
	TypeWelcome       = "welcome"
	TypeEvent         = "event"
	TypeView          = "view"
	TypeCommandAck    = "commandAck"
	TypeCommandReject = "commandReject"
	TypeCrewInbox     = "crew_inbox"
)

// Command is the single inbound envelope. Type selects the action; the
// remaining fields are read per type and ignored otherwise. Seq, when
// positive, asks for a commandAck or commandReject echoing it back.
type Command struct {
	Ver       int              `json:"ver,omitempty"`
	Type      string           `json:"type"`
	Seq       uint64           `json:"seq,omitempty"`
	Direction string           `json:"direction,omitempty"`
	Steps     int              `json:"steps,omitempty"`
	Row       int              `json:"row"`
	Col       int              `json:"col"`
	Sector    int              `json:"sector,omitempty"`
	Index     int              `json:"index"`
	System    string           `json:"system,omitempty"`
	Facts     []game.SonarFact `json:"facts,omitempty"`
	To        string           `json:"to,omitempty"`
	Text      string           `json:"text,omitempty"`
}

type welcomeMessage interface {
	ProtoWelcome()
}

// WelcomeV1 is the first frame on a new subscription: the seat the socket
// holds and the redacted view for its team.
type WelcomeV1 struct {
	Ver  int       `json:"ver"`
	Type string    `json:"type"`
	Team game.Team `json:"team"`
	Role bots.Role `json:"role"`
	View game.View `json:"view"`
}

func (WelcomeV1) ProtoWelcome() {}

// EncodeWelcome renders a welcome payload.
func EncodeWelcome(msg welcomeMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// NewWelcome stamps version and type.
func NewWelcome(team game.Team, role bots.Role, view game.View) WelcomeV1 {
	return WelcomeV1{Ver: Version, Type: TypeWelcome, Team: team, Role: role, View: view}
}

type eventMessage interface {
	ProtoEvent()
}

// EventV1 wraps one rule-engine event. The session has already filtered by
// visibility before the transport sees it.
type EventV1 struct {
	Ver   int        `json:"ver"`
	Type  string     `json:"type"`
	Event game.Event `json:"event"`
}

func (EventV1) ProtoEvent() {}

// EncodeEvent renders an event payload.
func EncodeEvent(msg eventMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// NewEvent stamps version and type.
func NewEvent(ev game.Event) EventV1 {
	return EventV1{Ver: Version, Type: TypeEvent, Event: ev}
}

type viewMessage interface {
	ProtoView()
}

// ViewV1 carries a full redacted snapshot, sent on request.
type ViewV1 struct {
	Ver  int       `json:"ver"`
	Type string    `json:"type"`
	View game.View `json:"view"`
}

func (ViewV1) ProtoView() {}

// EncodeView renders a view snapshot payload.
func EncodeView(msg viewMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// NewView stamps version and type.
func NewView(view game.View) ViewV1 {
	return ViewV1{Ver: Version, Type: TypeView, View: view}
}

// CommandAckV1 confirms a sequenced command was applied.
type CommandAckV1 struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Events int    `json:"events,omitempty"`
}

// NewCommandAck stamps version and type.
func NewCommandAck(seq uint64, events int) CommandAckV1 {
	return CommandAckV1{Ver: Version, Type: TypeCommandAck, Seq: seq, Events: events}
}

// CommandRejectV1 reports why a sequenced command was refused. Code carries
// the rule-error taxonomy value when the rule engine rejected it.
type CommandRejectV1 struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason"`
}

// NewCommandReject stamps version and type.
func NewCommandReject(seq uint64, code, reason string) CommandRejectV1 {
	return CommandRejectV1{Ver: Version, Type: TypeCommandReject, Seq: seq, Code: code, Reason: reason}
}

// CrewInboxV1 delivers drained team-comms messages to a human seat.
type CrewInboxV1 struct {
	Ver      int            `json:"ver"`
	Type     string         `json:"type"`
	Messages []bots.Message `json:"messages"`
}

// NewCrewInbox stamps version and type.
func NewCrewInbox(msgs []bots.Message) CrewInboxV1 {
	return CrewInboxV1{Ver: Version, Type: TypeCrewInbox, Messages: msgs}
}
