package bots

import (
	"fmt"
	"strings"

	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
)

// RadioOperator is a passive listener: it keeps the running log of what the
// enemy boat has revealed and turns it into commentary for the crew. It
// deliberately does not try to solve for candidate positions.
type RadioOperator struct {
	team game.Team

	moveLog        []grid.Direction
	silentRuns     int
	surfaceSectors []int
	enemyBlasts    []grid.Cell
	mineCount      int
	droneScans     []Message
	sonarResults   int
}

// NewRadioOperator seats a radio operator bot.
func NewRadioOperator(team game.Team) *RadioOperator {
	return &RadioOperator{team: team}
}

// ProcessInbox accumulates relayed intel.
func (r *RadioOperator) ProcessInbox(msgs []Message) {
	for _, msg := range msgs {
		switch msg.Kind {
		case MsgEnemyMoved:
			r.moveLog = append(r.moveLog, msg.Direction)
		case MsgEnemyStealth:
			r.silentRuns++
		case MsgEnemySurfaced:
			r.surfaceSectors = append(r.surfaceSectors, msg.Sector)
			// The wake resets on surface, so the course log restarts too.
			r.moveLog = nil
		case MsgEnemyBlast:
			r.enemyBlasts = append(r.enemyBlasts, msg.Cell)
		case MsgEnemyMinePlaced:
			r.mineCount++
		case MsgDroneResult:
			r.droneScans = append(r.droneScans, msg)
		case MsgSonarResult:
			r.sonarResults++
		}
	}
}

// Report posts a commentary line to the captain summarizing the log.
func (r *RadioOperator) Report(comms *TeamComms) string {
	summary := r.summary()
	comms.Post(RoleCaptain, Message{Kind: MsgCommentary, Text: summary})
	return summary
}

func (r *RadioOperator) summary() string {
	var parts []string

	if len(r.moveLog) > 0 {
		labels := make([]string, len(r.moveLog))
		for i, dir := range r.moveLog {
			labels[i] = strings.ToUpper(dir.String()[:1])
		}
		parts = append(parts, fmt.Sprintf("enemy course %s", strings.Join(labels, "-")))
	}
	if r.silentRuns > 0 {
		parts = append(parts, fmt.Sprintf("%d silent runs", r.silentRuns))
	}
	if n := len(r.surfaceSectors); n > 0 {
		parts = append(parts, fmt.Sprintf("last surfaced in sector %d", r.surfaceSectors[n-1]))
	}
	if n := len(r.enemyBlasts); n > 0 {
		last := r.enemyBlasts[n-1]
		parts = append(parts, fmt.Sprintf("%d enemy blasts, last at (%d,%d)", n, last.Row, last.Col))
	}
	if r.mineCount > 0 {
		parts = append(parts, fmt.Sprintf("%d mines laid", r.mineCount))
	}
	for _, scan := range r.droneScans {
		if scan.InSector {
			parts = append(parts, fmt.Sprintf("drone hit in sector %d", scan.Sector))
		}
	}

	if len(parts) == 0 {
		return "no contact with enemy boat"
	}
	return strings.Join(parts, "; ")
}

// MoveLog exposes the accumulated enemy course since its last surface.
func (r *RadioOperator) MoveLog() []grid.Direction {
	return append([]grid.Direction(nil), r.moveLog...)
}
