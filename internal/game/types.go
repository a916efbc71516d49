// Package game is the authoritative rule engine for a single session: it owns
// the submarines, the turn state machine, and every action handler. Handlers
// validate fully before mutating and communicate change only through ordered
// Event lists.
package game

import (
	"admiral-radar/server/internal/engineering"
	"admiral-radar/server/internal/grid"
)

// Team identifies one of the two crews.
type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

// Teams lists both teams in a stable order for deterministic iteration.
var Teams = [2]Team{TeamBlue, TeamRed}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

// Valid reports whether the team is one of the two known crews.
func (t Team) Valid() bool {
	return t == TeamBlue || t == TeamRed
}

// Phase tracks the session lifecycle.
type Phase string

const (
	PhasePlacement Phase = "placement"
	PhasePlaying   Phase = "playing"
	PhaseEnded     Phase = "ended"
)

// SystemKind names a chargeable submarine system.
type SystemKind string

const (
	SystemTorpedo SystemKind = "torpedo"
	SystemMine    SystemKind = "mine"
	SystemSonar   SystemKind = "sonar"
	SystemDrone   SystemKind = "drone"
	SystemStealth SystemKind = "stealth"
)

// SystemKinds lists every system in a stable order.
var SystemKinds = [5]SystemKind{SystemTorpedo, SystemMine, SystemSonar, SystemDrone, SystemStealth}

// Valid reports whether the kind names a known system.
func (k SystemKind) Valid() bool {
	for _, known := range SystemKinds {
		if k == known {
			return true
		}
	}
	return false
}

// SystemGauge is one system's charge against its per-session ceiling.
type SystemGauge struct {
	Charge int `json:"charge"`
	Max    int `json:"max"`
}

// Ready reports whether the system can be activated.
func (g SystemGauge) Ready() bool {
	return g.Charge >= g.Max
}

// Submarine is the full per-team state, owned exclusively by its team and
// mutated only by the rule engine.
type Submarine struct {
	Team     Team
	Position *grid.Cell
	Trail    []grid.Cell
	Health   int
	Mines    []grid.Cell
	Systems  map[SystemKind]*SystemGauge
	Board    *engineering.Board
	Surfaced bool
}

func newSubmarine(team Team, cfg Config) *Submarine {
	systems := make(map[SystemKind]*SystemGauge, len(SystemKinds))
	for _, kind := range SystemKinds {
		systems[kind] = &SystemGauge{Max: cfg.Ceilings[kind]}
	}
	return &Submarine{
		Team:    team,
		Health:  cfg.StartingHealth,
		Systems: systems,
		Board:   engineering.NewBoard(),
	}
}

// InTrail reports whether the cell was visited since the last surface.
func (s *Submarine) InTrail(c grid.Cell) bool {
	for _, visited := range s.Trail {
		if visited == c {
			return true
		}
	}
	return false
}

// HasMineAt reports whether the submarine owns a mine on the cell.
func (s *Submarine) HasMineAt(c grid.Cell) bool {
	for _, mine := range s.Mines {
		if mine == c {
			return true
		}
	}
	return false
}

// Gauge returns the system gauge, which always exists for valid kinds.
func (s *Submarine) Gauge(kind SystemKind) *SystemGauge {
	return s.Systems[kind]
}

// Waiting marks a suspended turn obligation.
type Waiting string

const (
	WaitingNone          Waiting = ""
	WaitingSonarResponse Waiting = "sonar_response"
)

// TurnState tracks the sub-steps of the current turn. Direction is the
// publicly announced heading; StealthDirection is recorded for the acting
// team only and never leaves team scope.
type TurnState struct {
	Moved            bool
	Direction        *grid.Direction
	StealthDirection *grid.Direction
	EngineerDone     bool
	FirstMateDone    bool
	SystemUsed       bool
	WaitingFor       Waiting
}

func newTurnState() *TurnState {
	return &TurnState{}
}

// EffectiveDirection returns the section the engineer and first mate act on:
// the public heading for a normal move, the private one after stealth, nil
// when the turn had no heading (surface, zero-step stealth).
func (ts *TurnState) EffectiveDirection() *grid.Direction {
	if ts.Direction != nil {
		return ts.Direction
	}
	return ts.StealthDirection
}

// SonarFactKind is one of the three claims a sonar response can make.
type SonarFactKind string

const (
	SonarFactRow    SonarFactKind = "row"
	SonarFactCol    SonarFactKind = "col"
	SonarFactSector SonarFactKind = "sector"
)

// Valid reports whether the kind is a known sonar claim.
func (k SonarFactKind) Valid() bool {
	return k == SonarFactRow || k == SonarFactCol || k == SonarFactSector
}

// SonarFact is a single claim about the responder's position. Exactly one of
// the two facts in a response is true; the activator is not told which.
type SonarFact struct {
	Kind  SonarFactKind `json:"kind"`
	Value int           `json:"value"`
}

// Config carries the per-session rule knobs. Ceilings are identical for both
// teams by construction.
type Config struct {
	Ceilings          map[SystemKind]int
	StartingHealth    int
	SurfaceBonusTurns int
	MaxStealthSteps   int
	TorpedoRange      int
}

// DefaultConfig mirrors the standard ruleset.
func DefaultConfig() Config {
	return Config{
		Ceilings: map[SystemKind]int{
			SystemTorpedo: 3,
			SystemMine:    3,
			SystemSonar:   3,
			SystemDrone:   4,
			SystemStealth: 5,
		},
		StartingHealth:    4,
		SurfaceBonusTurns: 3,
		MaxStealthSteps:   4,
		TorpedoRange:      4,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if len(c.Ceilings) == 0 {
		c.Ceilings = d.Ceilings
	}
	if c.StartingHealth <= 0 {
		c.StartingHealth = d.StartingHealth
	}
	if c.SurfaceBonusTurns < 0 {
		c.SurfaceBonusTurns = d.SurfaceBonusTurns
	}
	if c.MaxStealthSteps <= 0 {
		c.MaxStealthSteps = d.MaxStealthSteps
	}
	if c.TorpedoRange <= 0 {
		c.TorpedoRange = d.TorpedoRange
	}
	return c
}
