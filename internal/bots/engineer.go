package bots

import (
	"fmt"

	"admiral-radar/server/internal/engineering"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
)

// systemColors ties each chargeable system to the node color that blocks
// it: weapons run on red, detection on green, stealth on yellow.
var systemColors = map[game.SystemKind]engineering.Color{
	game.SystemTorpedo: engineering.ColorRed,
	game.SystemMine:    engineering.ColorRed,
	game.SystemSonar:   engineering.ColorGreen,
	game.SystemDrone:   engineering.ColorGreen,
	game.SystemStealth: engineering.ColorYellow,
}

// Engineer picks which breaker to trip after each course announcement. It
// sees only its own board plus the captain's protection orders.
type Engineer struct {
	team    game.Team
	protect []game.SystemKind
}

// NewEngineer seats an engineer bot.
func NewEngineer(team game.Team) *Engineer {
	return &Engineer{team: team}
}

// ProcessInbox adopts the latest protection order from the captain.
func (e *Engineer) ProcessInbox(msgs []Message) {
	for _, msg := range msgs {
		if msg.Kind == MsgSystemProtect && len(msg.Protect) > 0 {
			e.protect = append([]game.SystemKind(nil), msg.Protect...)
		}
	}
}

func (e *Engineer) protectedColors() map[engineering.Color]bool {
	out := make(map[engineering.Color]bool, len(e.protect))
	for _, kind := range e.protect {
		if color, ok := systemColors[kind]; ok {
			out[color] = true
		}
	}
	return out
}

// DecideMark chooses the node index to mark in the required section:
// complete a circuit when possible, otherwise avoid protected colors and
// radiation, preferring circuit nodes that build toward a future clear.
func (e *Engineer) DecideMark(board map[string][]engineering.Node, dir grid.Direction) (int, bool) {
	section := board[dir.String()]
	available := make([]int, 0, len(section))
	for i, node := range section {
		if !node.Marked {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return 0, false
	}

	for _, idx := range available {
		if completesCircuit(board, dir, idx) {
			return idx, true
		}
	}

	protected := e.protectedColors()
	safe := filterNodes(section, available, func(n engineering.Node) bool {
		return n.Color != engineering.ColorRadiation && !protected[n.Color]
	})
	if idx, ok := preferCircuit(section, safe); ok {
		return idx, true
	}

	nonRadiation := filterNodes(section, available, func(n engineering.Node) bool {
		return n.Color != engineering.ColorRadiation
	})
	if idx, ok := preferCircuit(section, nonRadiation); ok {
		return idx, true
	}

	return available[0], true
}

// Advise scores each heading for the captain: a circuit about to complete
// is a strong draw, a section with nothing but protected or radiation
// nodes a warning.
func (e *Engineer) Advise(comms *TeamComms, board map[string][]engineering.Node) {
	protected := e.protectedColors()
	var advice []DirectionAdvice

	for _, dir := range grid.Directions {
		section := board[dir.String()]
		available := make([]int, 0, len(section))
		for i, node := range section {
			if !node.Marked {
				available = append(available, i)
			}
		}
		if len(available) == 0 {
			continue
		}

		score := 0
		reason := ""
		for _, idx := range available {
			if completesCircuit(board, dir, idx) {
				score += 10
				reason = fmt.Sprintf("can complete circuit %d", section[idx].Circuit)
				break
			}
		}

		safe := filterNodes(section, available, func(n engineering.Node) bool {
			return n.Color != engineering.ColorRadiation && !protected[n.Color]
		})
		score += len(safe) * 2
		if len(safe) == 0 {
			score -= 5
			reason = "only protected or radiation nodes left"
		} else if reason == "" {
			reason = fmt.Sprintf("%d safe nodes", len(safe))
		}

		if score > 0 {
			advice = append(advice, DirectionAdvice{Direction: dir, Score: score, Reason: reason})
		}
	}

	// Top two by score.
	for i := 0; i < len(advice); i++ {
		for j := i + 1; j < len(advice); j++ {
			if advice[j].Score > advice[i].Score {
				advice[i], advice[j] = advice[j], advice[i]
			}
		}
	}
	if len(advice) > 2 {
		advice = advice[:2]
	}
	if len(advice) > 0 {
		comms.Post(RoleCaptain, Message{Kind: MsgDirectionAdvice, Advice: advice})
	}
}

// completesCircuit reports whether marking (dir, idx) would be the last
// unmarked node of its circuit, judged from view data alone.
func completesCircuit(board map[string][]engineering.Node, dir grid.Direction, idx int) bool {
	section := board[dir.String()]
	if idx < 0 || idx >= len(section) {
		return false
	}
	node := section[idx]
	if node.Circuit == 0 || node.Marked {
		return false
	}
	for _, other := range grid.Directions {
		for i, candidate := range board[other.String()] {
			if candidate.Circuit != node.Circuit {
				continue
			}
			if other == dir && i == idx {
				continue
			}
			if !candidate.Marked {
				return false
			}
		}
	}
	return true
}

func filterNodes(section []engineering.Node, candidates []int, keep func(engineering.Node) bool) []int {
	out := make([]int, 0, len(candidates))
	for _, idx := range candidates {
		if keep(section[idx]) {
			out = append(out, idx)
		}
	}
	return out
}

func preferCircuit(section []engineering.Node, candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	for _, idx := range candidates {
		if section[idx].Circuit != 0 {
			return idx, true
		}
	}
	return candidates[0], true
}
