package bots

import (
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
)

// ActionKind tags a captain decision.
type ActionKind string

const (
	ActionNone    ActionKind = ""
	ActionMove    ActionKind = "move"
	ActionSurface ActionKind = "surface"
	ActionStealth ActionKind = "stealth"
	ActionTorpedo ActionKind = "torpedo"
	ActionDrone   ActionKind = "drone"
	ActionSonar   ActionKind = "sonar"
)

// Action is a captain bot's chosen play, ready to submit to the rule engine.
type Action struct {
	Kind      ActionKind
	Direction grid.Direction
	Steps     int
	Target    grid.Cell
	Sector    int
}

// legalSteps mirrors the rule engine's move legality from view data alone:
// in bounds, sea, outside the wake, and off the team's own mines.
func legalSteps(chart *grid.Map, own game.SubmarineView) []grid.Direction {
	if own.Position == nil {
		return nil
	}
	out := make([]grid.Direction, 0, len(grid.Directions))
	for _, dir := range grid.Directions {
		if legalStep(chart, own, *own.Position, dir, nil) {
			out = append(out, dir)
		}
	}
	return out
}

func legalStep(chart *grid.Map, own game.SubmarineView, from grid.Cell, dir grid.Direction, extra []grid.Cell) bool {
	target := dir.Step(from)
	if !chart.IsSea(target) {
		return false
	}
	for _, visited := range own.Trail {
		if visited == target {
			return false
		}
	}
	for _, mine := range own.Mines {
		if mine == target {
			return false
		}
	}
	for _, visited := range extra {
		if visited == target {
			return false
		}
	}
	return true
}

// futureMoves counts the exits from a cell once it joins the wake, the
// one-step lookahead both movement planners maximize.
func futureMoves(chart *grid.Map, own game.SubmarineView, at grid.Cell, extra []grid.Cell) int {
	count := 0
	for _, dir := range grid.Directions {
		if legalStep(chart, own, at, dir, extra) {
			count++
		}
	}
	return count
}
