// Package engineering models the per-submarine engineering board: four
// direction sections of six nodes wired into three cross-cutting circuits.
// Marking nodes is the only mutation; clearing happens through circuit
// completion (free) or overload (hull damage).
package engineering

import (
	"fmt"

	"admiral-radar/server/internal/grid"
)

// Color classifies a node. Radiation nodes never belong to a circuit.
type Color string

const (
	ColorRed       Color = "red"
	ColorGreen     Color = "green"
	ColorYellow    Color = "yellow"
	ColorRadiation Color = "radiation"
)

// NodesPerSection is the fixed length of each direction section.
const NodesPerSection = 6

// Circuits is the number of cross-cutting circuits on the board.
const Circuits = 3

// Node is one breaker on the board. Circuit 0 means the node is not wired
// into any circuit.
type Node struct {
	Color   Color `json:"color"`
	Circuit int   `json:"circuit"`
	Marked  bool  `json:"marked"`
}

// layout is the standard board: every direction carries exactly one node of
// each circuit and exactly one radiation node.
var layout = [4][NodesPerSection]Node{
	grid.North: {
		{Color: ColorRed, Circuit: 1},
		{Color: ColorYellow, Circuit: 2},
		{Color: ColorGreen},
		{Color: ColorYellow, Circuit: 3},
		{Color: ColorGreen},
		{Color: ColorRadiation},
	},
	grid.South: {
		{Color: ColorGreen, Circuit: 1},
		{Color: ColorRed, Circuit: 2},
		{Color: ColorYellow, Circuit: 3},
		{Color: ColorRed},
		{Color: ColorRadiation},
		{Color: ColorYellow},
	},
	grid.East: {
		{Color: ColorYellow, Circuit: 1},
		{Color: ColorGreen, Circuit: 2},
		{Color: ColorRed, Circuit: 3},
		{Color: ColorRadiation},
		{Color: ColorGreen},
		{Color: ColorRed},
	},
	grid.West: {
		{Color: ColorRed, Circuit: 3},
		{Color: ColorYellow, Circuit: 1},
		{Color: ColorGreen, Circuit: 2},
		{Color: ColorGreen},
		{Color: ColorRed},
		{Color: ColorRadiation},
	},
}

func init() {
	if err := validateLayout(); err != nil {
		panic(err)
	}
}

// validateLayout enforces the board invariants: exactly one node per circuit
// and exactly one radiation node in every direction section.
func validateLayout() error {
	for _, dir := range grid.Directions {
		seen := make(map[int]int, Circuits)
		radiation := 0
		for _, node := range layout[dir] {
			if node.Circuit != 0 {
				if node.Circuit < 1 || node.Circuit > Circuits {
					return fmt.Errorf("engineering: section %s references circuit %d", dir, node.Circuit)
				}
				if node.Color == ColorRadiation {
					return fmt.Errorf("engineering: section %s wires radiation into circuit %d", dir, node.Circuit)
				}
				seen[node.Circuit]++
			}
			if node.Color == ColorRadiation {
				radiation++
			}
		}
		for circuit := 1; circuit <= Circuits; circuit++ {
			if seen[circuit] != 1 {
				return fmt.Errorf("engineering: section %s has %d nodes of circuit %d", dir, seen[circuit], circuit)
			}
		}
		if radiation != 1 {
			return fmt.Errorf("engineering: section %s has %d radiation nodes", dir, radiation)
		}
	}
	return nil
}

// Board holds the mutable mark state over the fixed layout.
type Board struct {
	sections [4][NodesPerSection]Node
}

// NewBoard returns a board with every node unmarked.
func NewBoard() *Board {
	b := &Board{}
	b.sections = layout
	return b
}

// Clone copies the board, used to hand bots a role-scoped snapshot.
func (b *Board) Clone() *Board {
	copied := &Board{}
	copied.sections = b.sections
	return copied
}

// Node returns the node at (direction, index).
func (b *Board) Node(dir grid.Direction, index int) (Node, bool) {
	if index < 0 || index >= NodesPerSection {
		return Node{}, false
	}
	return b.sections[dir][index], true
}

// Section returns a copy of one direction section.
func (b *Board) Section(dir grid.Direction) []Node {
	out := make([]Node, NodesPerSection)
	copy(out, b.sections[dir][:])
	return out
}

// Available returns the unmarked node indices of a section.
func (b *Board) Available(dir grid.Direction) []int {
	out := make([]int, 0, NodesPerSection)
	for i, node := range b.sections[dir] {
		if !node.Marked {
			out = append(out, i)
		}
	}
	return out
}

// Reset unmarks every node, as happens when the submarine surfaces.
func (b *Board) Reset() {
	b.sections = layout
}

// MarkResult reports what a single mark triggered. Damage aggregates section
// and radiation overloads; circuit completion never deals damage.
type MarkResult struct {
	CircuitCleared   int
	SectionCleared   bool
	RadiationCleared bool
	Damage           int
}

// Mark marks the node at (direction, index) and applies the clearing rules in
// order: circuit completion first, then radiation overload, then section
// overload. A clear performed by an earlier rule is not re-evaluated.
func (b *Board) Mark(dir grid.Direction, index int) (MarkResult, error) {
	if index < 0 || index >= NodesPerSection {
		return MarkResult{}, fmt.Errorf("engineering: node index %d out of range", index)
	}
	if b.sections[dir][index].Marked {
		return MarkResult{}, fmt.Errorf("engineering: node %s/%d already marked", dir, index)
	}
	b.sections[dir][index].Marked = true

	var res MarkResult

	if circuit := b.sections[dir][index].Circuit; circuit != 0 && b.circuitComplete(circuit) {
		b.clearCircuit(circuit)
		res.CircuitCleared = circuit
	}

	if b.radiationComplete() {
		b.clearRadiation()
		res.RadiationCleared = true
		res.Damage++
	}

	if b.sectionComplete(dir) {
		b.clearSection(dir)
		res.SectionCleared = true
		res.Damage++
	}

	return res, nil
}

// WouldCompleteCircuit reports whether marking (direction, index) would be
// the final mark of its circuit. Used by engineer decision logic.
func (b *Board) WouldCompleteCircuit(dir grid.Direction, index int) bool {
	if index < 0 || index >= NodesPerSection {
		return false
	}
	node := b.sections[dir][index]
	if node.Circuit == 0 || node.Marked {
		return false
	}
	for _, other := range grid.Directions {
		for i, candidate := range b.sections[other] {
			if candidate.Circuit != node.Circuit {
				continue
			}
			if other == dir && i == index {
				continue
			}
			if !candidate.Marked {
				return false
			}
		}
	}
	return true
}

func (b *Board) circuitComplete(circuit int) bool {
	for _, dir := range grid.Directions {
		for _, node := range b.sections[dir] {
			if node.Circuit == circuit && !node.Marked {
				return false
			}
		}
	}
	return true
}

func (b *Board) clearCircuit(circuit int) {
	for _, dir := range grid.Directions {
		for i, node := range b.sections[dir] {
			if node.Circuit == circuit {
				b.sections[dir][i].Marked = false
			}
		}
	}
}

func (b *Board) sectionComplete(dir grid.Direction) bool {
	for _, node := range b.sections[dir] {
		if !node.Marked {
			return false
		}
	}
	return true
}

func (b *Board) clearSection(dir grid.Direction) {
	for i := range b.sections[dir] {
		b.sections[dir][i].Marked = false
	}
}

func (b *Board) radiationComplete() bool {
	for _, dir := range grid.Directions {
		for _, node := range b.sections[dir] {
			if node.Color == ColorRadiation && !node.Marked {
				return false
			}
		}
	}
	return true
}

func (b *Board) clearRadiation() {
	for _, dir := range grid.Directions {
		for i, node := range b.sections[dir] {
			if node.Color == ColorRadiation {
				b.sections[dir][i].Marked = false
			}
		}
	}
}
