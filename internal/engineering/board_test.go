package engineering

import (
	"testing"

	"admiral-radar/server/internal/grid"
)

func radiationIndex(t *testing.T, b *Board, dir grid.Direction) int {
	t.Helper()
	for i, node := range b.Section(dir) {
		if node.Color == ColorRadiation {
			return i
		}
	}
	t.Fatalf("no radiation node in section %s", dir)
	return -1
}

func circuitIndex(t *testing.T, b *Board, dir grid.Direction, circuit int) int {
	t.Helper()
	for i, node := range b.Section(dir) {
		if node.Circuit == circuit {
			return i
		}
	}
	t.Fatalf("no circuit %d node in section %s", circuit, dir)
	return -1
}

func TestLayoutInvariants(t *testing.T) {
	b := NewBoard()
	for _, dir := range grid.Directions {
		section := b.Section(dir)
		if len(section) != NodesPerSection {
			t.Fatalf("section %s has %d nodes, want %d", dir, len(section), NodesPerSection)
		}
		radiation := 0
		perCircuit := make(map[int]int)
		for _, node := range section {
			if node.Marked {
				t.Errorf("section %s starts with a marked node", dir)
			}
			if node.Color == ColorRadiation {
				radiation++
				if node.Circuit != 0 {
					t.Errorf("section %s wires radiation into circuit %d", dir, node.Circuit)
				}
			}
			if node.Circuit != 0 {
				perCircuit[node.Circuit]++
			}
		}
		if radiation != 1 {
			t.Errorf("section %s has %d radiation nodes, want 1", dir, radiation)
		}
		for circuit := 1; circuit <= Circuits; circuit++ {
			if perCircuit[circuit] != 1 {
				t.Errorf("section %s has %d nodes of circuit %d, want 1", dir, perCircuit[circuit], circuit)
			}
		}
	}
}

func TestMarkRejectsBadIndexAndDoubleMark(t *testing.T) {
	b := NewBoard()
	if _, err := b.Mark(grid.North, -1); err == nil {
		t.Error("negative index accepted")
	}
	if _, err := b.Mark(grid.North, NodesPerSection); err == nil {
		t.Error("out-of-range index accepted")
	}
	if _, err := b.Mark(grid.North, 0); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if _, err := b.Mark(grid.North, 0); err == nil {
		t.Error("double mark accepted")
	}
}

func TestCircuitCompletionClearsWithoutDamage(t *testing.T) {
	b := NewBoard()
	indices := make(map[grid.Direction]int, 4)
	for _, dir := range grid.Directions {
		indices[dir] = circuitIndex(t, b, dir, 1)
	}

	var last MarkResult
	for i, dir := range grid.Directions {
		res, err := b.Mark(dir, indices[dir])
		if err != nil {
			t.Fatalf("mark %s/%d: %v", dir, indices[dir], err)
		}
		if i < 3 && res.CircuitCleared != 0 {
			t.Fatalf("circuit cleared after %d marks", i+1)
		}
		last = res
	}

	if last.CircuitCleared != 1 {
		t.Fatalf("CircuitCleared = %d, want 1", last.CircuitCleared)
	}
	if last.Damage != 0 {
		t.Errorf("circuit completion dealt %d damage", last.Damage)
	}
	for _, dir := range grid.Directions {
		if node, _ := b.Node(dir, indices[dir]); node.Marked {
			t.Errorf("circuit node %s/%d still marked after clear", dir, indices[dir])
		}
	}
}

func TestSectionOverloadDealsDamageAndClears(t *testing.T) {
	b := NewBoard()
	var last MarkResult
	for i := 0; i < NodesPerSection; i++ {
		res, err := b.Mark(grid.North, i)
		if err != nil {
			t.Fatalf("mark north/%d: %v", i, err)
		}
		last = res
	}
	if !last.SectionCleared {
		t.Fatal("section overload not reported")
	}
	if last.Damage != 1 {
		t.Errorf("Damage = %d, want 1", last.Damage)
	}
	if got := len(b.Available(grid.North)); got != NodesPerSection {
		t.Errorf("%d nodes available after overload, want %d", got, NodesPerSection)
	}
}

func TestRadiationOverloadDealsDamage(t *testing.T) {
	b := NewBoard()
	var last MarkResult
	for _, dir := range grid.Directions {
		res, err := b.Mark(dir, radiationIndex(t, b, dir))
		if err != nil {
			t.Fatalf("mark radiation %s: %v", dir, err)
		}
		last = res
	}
	if !last.RadiationCleared {
		t.Fatal("radiation overload not reported")
	}
	if last.Damage != 1 {
		t.Errorf("Damage = %d, want 1", last.Damage)
	}
	for _, dir := range grid.Directions {
		if node, _ := b.Node(dir, radiationIndex(t, b, dir)); node.Marked {
			t.Errorf("radiation node in %s still marked after clear", dir)
		}
	}
}

func TestWouldCompleteCircuit(t *testing.T) {
	b := NewBoard()
	for _, dir := range []grid.Direction{grid.North, grid.South, grid.East} {
		if b.WouldCompleteCircuit(dir, circuitIndex(t, b, dir, 2)) {
			t.Fatalf("circuit 2 reported complete too early")
		}
		if _, err := b.Mark(dir, circuitIndex(t, b, dir, 2)); err != nil {
			t.Fatalf("mark: %v", err)
		}
	}
	if !b.WouldCompleteCircuit(grid.West, circuitIndex(t, b, grid.West, 2)) {
		t.Error("final circuit 2 node not reported as completing")
	}
	if b.WouldCompleteCircuit(grid.West, radiationIndex(t, b, grid.West)) {
		t.Error("radiation node reported as completing a circuit")
	}
}

func TestResetRestoresLayout(t *testing.T) {
	b := NewBoard()
	if _, err := b.Mark(grid.East, 0); err != nil {
		t.Fatalf("mark: %v", err)
	}
	b.Reset()
	for _, dir := range grid.Directions {
		if got := len(b.Available(dir)); got != NodesPerSection {
			t.Errorf("section %s has %d available after reset", dir, got)
		}
	}
}
