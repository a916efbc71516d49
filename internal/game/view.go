package game

import (
	"admiral-radar/server/internal/engineering"
	"admiral-radar/server/internal/grid"
)

// View is the per-team serialization of a session. Redaction happens here,
// never in the transport: a team's view carries its own boat in full and
// only the public silhouette of the enemy's.
type View struct {
	Phase       Phase                  `json:"phase"`
	CurrentTeam Team                   `json:"currentTeam"`
	TurnNumber  int                    `json:"turnNumber"`
	Winner      Team                   `json:"winner,omitempty"`
	BonusTurns  int                    `json:"bonusTurns,omitempty"`
	Map         MapView                `json:"map"`
	Turn        TurnView               `json:"turn"`
	Submarines  map[Team]SubmarineView `json:"submarines"`
}

// MapView is the immutable chart definition, identical for both teams.
// Column labels carry the spreadsheet-style callouts clients print next to
// the grid.
type MapView struct {
	Name         string      `json:"name"`
	Rows         int         `json:"rows"`
	Cols         int         `json:"cols"`
	SectorWidth  int         `json:"sectorWidth"`
	SectorHeight int         `json:"sectorHeight"`
	ColumnLabels []string    `json:"columnLabels"`
	Islands      []grid.Cell `json:"islands"`
}

// TurnView exposes the turn sub-step flags. The stealth heading appears only
// in the acting team's own view.
type TurnView struct {
	Moved            bool    `json:"moved"`
	Direction        string  `json:"direction,omitempty"`
	StealthDirection string  `json:"stealthDirection,omitempty"`
	EngineerDone     bool    `json:"engineerDone"`
	FirstMateDone    bool    `json:"firstMateDone"`
	SystemUsed       bool    `json:"systemUsed"`
	WaitingFor       Waiting `json:"waitingFor,omitempty"`
}

// SubmarineView carries a boat's state at the requesting team's clearance.
// Position, trail, mines, gauges, and the engineering board are own-team
// only; health, surfaced state, and mine count are public, and a surfaced
// boat's sector is public by definition.
type SubmarineView struct {
	Team      Team `json:"team"`
	Health    int  `json:"health"`
	Surfaced  bool `json:"surfaced"`
	MineCount int  `json:"mineCount"`
	Sector    int  `json:"sector,omitempty"`

	Position *grid.Cell                    `json:"position,omitempty"`
	Trail    []grid.Cell                   `json:"trail,omitempty"`
	Mines    []grid.Cell                   `json:"mines,omitempty"`
	Systems  map[SystemKind]SystemGauge    `json:"systems,omitempty"`
	Board    map[string][]engineering.Node `json:"board,omitempty"`
}

// ViewFor builds the redacted view for one team. An empty team yields the
// omniscient view used by logs and tests.
func (g *Game) ViewFor(team Team) View {
	v := View{
		Phase:       g.phase,
		CurrentTeam: g.current,
		TurnNumber:  g.turnNum,
		Winner:      g.winner,
		BonusTurns:  g.bonus[team],
		Map: MapView{
			Name:         g.chart.Name,
			Rows:         g.chart.Rows,
			Cols:         g.chart.Cols,
			SectorWidth:  g.chart.SectorWidth,
			SectorHeight: g.chart.SectorHeight,
			ColumnLabels: grid.ColumnLabels(g.chart.Cols),
			Islands:      g.chart.Islands(),
		},
		Turn: TurnView{
			Moved:         g.turn.Moved,
			Direction:     directionLabel(g.turn.Direction),
			EngineerDone:  g.turn.EngineerDone,
			FirstMateDone: g.turn.FirstMateDone,
			SystemUsed:    g.turn.SystemUsed,
			WaitingFor:    g.turn.WaitingFor,
		},
		Submarines: make(map[Team]SubmarineView, len(Teams)),
	}
	if team == "" || team == g.current {
		v.Turn.StealthDirection = directionLabel(g.turn.StealthDirection)
	}
	for _, t := range Teams {
		v.Submarines[t] = g.submarineView(t, team == "" || team == t)
	}
	return v
}

func (g *Game) submarineView(t Team, full bool) SubmarineView {
	sub := g.subs[t]
	view := SubmarineView{
		Team:      t,
		Health:    sub.Health,
		Surfaced:  sub.Surfaced,
		MineCount: len(sub.Mines),
	}
	if sub.Surfaced && sub.Position != nil {
		view.Sector = g.chart.SectorOf(*sub.Position)
	}
	if !full {
		return view
	}
	if sub.Position != nil {
		pos := *sub.Position
		view.Position = &pos
	}
	view.Trail = append([]grid.Cell(nil), sub.Trail...)
	view.Mines = append([]grid.Cell(nil), sub.Mines...)
	view.Systems = make(map[SystemKind]SystemGauge, len(sub.Systems))
	for kind, gauge := range sub.Systems {
		view.Systems[kind] = *gauge
	}
	view.Board = make(map[string][]engineering.Node, len(grid.Directions))
	for _, dir := range grid.Directions {
		view.Board[dir.String()] = sub.Board.Section(dir)
	}
	return view
}
