package game

import (
	"fmt"

	"admiral-radar/server/internal/grid"
)

// EventKind names every observable the rule engine can emit.
type EventKind string

const (
	EventPlaced             EventKind = "placed"
	EventDirectionAnnounced EventKind = "direction_announced"
	EventMovedSelf          EventKind = "moved_self"
	EventSurfaceAnnounced   EventKind = "surface_announced"
	EventBlackoutAnnounced  EventKind = "blackout_announced"
	EventDiveAnnounced      EventKind = "dive_announced"
	EventStealthAnnounced   EventKind = "stealth_announced"
	EventStealthMovedSelf   EventKind = "stealth_moved_self"
	EventEngineerMarked     EventKind = "engineer_marked"
	EventCircuitCleared     EventKind = "circuit_cleared"
	EventDamage             EventKind = "damage"
	EventSystemCharged      EventKind = "system_charged"
	EventTorpedoFired       EventKind = "torpedo_fired"
	EventMinePlaced         EventKind = "mine_placed"
	EventMineAnnounced      EventKind = "mine_announced"
	EventMineDetonated      EventKind = "mine_detonated"
	EventSonarAnnounced     EventKind = "sonar_announced"
	EventSonarPrompt        EventKind = "sonar_prompt"
	EventSonarResult        EventKind = "sonar_result"
	EventDroneAnnounced     EventKind = "drone_announced"
	EventDroneResult        EventKind = "drone_result"
	EventTurnStart          EventKind = "turn_start"
	EventTurnEnd            EventKind = "turn_end"
	EventGameOver           EventKind = "game_over"
)

// Scope is the visibility class of an event.
type Scope string

const (
	// ScopeAll delivers to every participant of the session.
	ScopeAll Scope = "all"
	// ScopeTeam delivers to every member of Event.Team.
	ScopeTeam Scope = "team"
	// ScopeActor delivers only to the activating player (the captain seat)
	// of Event.Team.
	ScopeActor Scope = "actor"
)

// visibilityTable is the single fixed mapping from event kind to scope.
// Every emission goes through newEvent, which consults this table; there is
// no per-call visibility logic anywhere else. Sonar and drone results stay on
// the activating side.
var visibilityTable = map[EventKind]Scope{
	EventPlaced:             ScopeTeam,
	EventDirectionAnnounced: ScopeAll,
	EventMovedSelf:          ScopeActor,
	EventSurfaceAnnounced:   ScopeAll,
	EventBlackoutAnnounced:  ScopeAll,
	EventDiveAnnounced:      ScopeAll,
	EventStealthAnnounced:   ScopeAll,
	EventStealthMovedSelf:   ScopeTeam,
	EventEngineerMarked:     ScopeTeam,
	EventCircuitCleared:     ScopeTeam,
	EventDamage:             ScopeAll,
	EventSystemCharged:      ScopeTeam,
	EventTorpedoFired:       ScopeAll,
	EventMinePlaced:         ScopeTeam,
	EventMineAnnounced:      ScopeAll,
	EventMineDetonated:      ScopeAll,
	EventSonarAnnounced:     ScopeAll,
	EventSonarPrompt:        ScopeActor,
	EventSonarResult:        ScopeTeam,
	EventDroneAnnounced:     ScopeAll,
	EventDroneResult:        ScopeTeam,
	EventTurnStart:          ScopeAll,
	EventTurnEnd:            ScopeAll,
	EventGameOver:           ScopeAll,
}

// Event is the only channel by which the rule engine communicates change.
// Events are immutable once emitted; emission order is causal order within a
// single action.
type Event struct {
	Kind    EventKind `json:"kind"`
	Team    Team      `json:"team,omitempty"`
	Scope   Scope     `json:"-"`
	Payload any       `json:"payload,omitempty"`
}

// newEvent stamps the fixed visibility scope for the kind. An unknown kind is
// a programming error, not a runtime case.
func newEvent(kind EventKind, team Team, payload any) Event {
	scope, ok := visibilityTable[kind]
	if !ok {
		panic(fmt.Sprintf("game: event kind %q missing from visibility table", kind))
	}
	return Event{Kind: kind, Team: team, Scope: scope, Payload: payload}
}

// VisibleTo reports whether a viewer on the given team may observe the event.
// captainSeat marks the activating-player seat for actor-scoped events.
func (e Event) VisibleTo(team Team, captainSeat bool) bool {
	switch e.Scope {
	case ScopeAll:
		return true
	case ScopeTeam:
		return e.Team == team
	case ScopeActor:
		return e.Team == team && captainSeat
	}
	return false
}

// Payload types. Coordinates appear only in team- or actor-scoped payloads
// unless the physical game announces them aloud (torpedo and mine blasts).

type PlacedPayload struct {
	Cell grid.Cell `json:"cell"`
}

type DirectionPayload struct {
	Direction string `json:"direction"`
}

type MovedSelfPayload struct {
	Position  grid.Cell   `json:"position"`
	Trail     []grid.Cell `json:"trail"`
	Direction string      `json:"direction,omitempty"`
}

type SurfacePayload struct {
	Sector   int  `json:"sector"`
	Health   int  `json:"health"`
	Blackout bool `json:"blackout,omitempty"`
}

type StealthPayload struct {
	Steps int `json:"steps"`
}

type EngineerMarkedPayload struct {
	Direction string `json:"direction"`
	Index     int    `json:"index"`
}

type CircuitClearedPayload struct {
	Circuit int `json:"circuit"`
}

type DamagePayload struct {
	Amount int        `json:"amount"`
	Health int        `json:"health"`
	Cause  string     `json:"cause"`
	Cell   *grid.Cell `json:"cell,omitempty"`
}

type SystemChargedPayload struct {
	System SystemKind `json:"system"`
	Charge int        `json:"charge"`
	Max    int        `json:"max"`
	Ready  bool       `json:"ready"`
}

type TorpedoPayload struct {
	Target grid.Cell `json:"target"`
}

type MinePlacedPayload struct {
	Cell  grid.Cell `json:"cell"`
	Count int       `json:"count"`
}

type MineDetonatedPayload struct {
	Cell grid.Cell `json:"cell"`
}

type SonarResultPayload struct {
	Facts [2]SonarFact `json:"facts"`
}

type DronePayload struct {
	Sector int `json:"sector"`
}

type DroneResultPayload struct {
	Sector   int  `json:"sector"`
	InSector bool `json:"inSector"`
}

type TurnPayload struct {
	Team Team `json:"team"`
}

type GameOverPayload struct {
	Winner Team `json:"winner"`
	Loser  Team `json:"loser"`
}

// Damage causes recorded in DamagePayload.Cause.
const (
	CauseExplosion = "explosion"
	CauseSection   = "section_overload"
	CauseRadiation = "radiation_overload"
)
