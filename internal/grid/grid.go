package grid

import "fmt"

// Cell addresses one square of the map, 0-indexed from the north-west corner.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is one of the four cardinal headings a submarine can take.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists all headings in a stable order for deterministic iteration.
var Directions = [4]Direction{North, South, East, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection maps a wire string to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north":
		return North, true
	case "south":
		return South, true
	case "east":
		return East, true
	case "west":
		return West, true
	}
	return North, false
}

// Delta returns the row/col step for one move along the heading.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// Step returns the neighbouring cell one move along the heading.
func (d Direction) Step(c Cell) Cell {
	dr, dc := d.Delta()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Map is the immutable per-session grid definition. Sectors are equal-size
// rectangles; construction fails unless the grid divides evenly.
type Map struct {
	Name         string
	Rows         int
	Cols         int
	SectorWidth  int
	SectorHeight int

	islands map[Cell]struct{}
}

// New validates the dimensions and builds an immutable map.
func New(name string, rows, cols, sectorWidth, sectorHeight int, islands []Cell) (*Map, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid: dimensions must be positive, got %dx%d", rows, cols)
	}
	if sectorWidth <= 0 || sectorHeight <= 0 {
		return nil, fmt.Errorf("grid: sector size must be positive, got %dx%d", sectorWidth, sectorHeight)
	}
	if rows%sectorHeight != 0 {
		return nil, fmt.Errorf("grid: rows %d not divisible by sector height %d", rows, sectorHeight)
	}
	if cols%sectorWidth != 0 {
		return nil, fmt.Errorf("grid: cols %d not divisible by sector width %d", cols, sectorWidth)
	}
	m := &Map{
		Name:         name,
		Rows:         rows,
		Cols:         cols,
		SectorWidth:  sectorWidth,
		SectorHeight: sectorHeight,
		islands:      make(map[Cell]struct{}, len(islands)),
	}
	for _, c := range islands {
		if !m.InBounds(c) {
			return nil, fmt.Errorf("grid: island %v out of bounds", c)
		}
		m.islands[c] = struct{}{}
	}
	return m, nil
}

// InBounds reports whether the cell lies on the grid.
func (m *Map) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < m.Rows && c.Col >= 0 && c.Col < m.Cols
}

// IsSea reports whether the cell is navigable water.
func (m *Map) IsSea(c Cell) bool {
	if !m.InBounds(c) {
		return false
	}
	_, island := m.islands[c]
	return !island
}

// SectorsPerRow returns how many sectors span one row of the grid.
func (m *Map) SectorsPerRow() int {
	return m.Cols / m.SectorWidth
}

// SectorCount returns the total number of sectors.
func (m *Map) SectorCount() int {
	return (m.Rows / m.SectorHeight) * m.SectorsPerRow()
}

// SectorOf returns the 1-indexed, row-major sector containing the cell.
func (m *Map) SectorOf(c Cell) int {
	sr := c.Row / m.SectorHeight
	sc := c.Col / m.SectorWidth
	return sr*m.SectorsPerRow() + sc + 1
}

// SectorCells returns every sea cell in the given 1-indexed sector.
func (m *Map) SectorCells(sector int) []Cell {
	if sector < 1 || sector > m.SectorCount() {
		return nil
	}
	idx := sector - 1
	perRow := m.SectorsPerRow()
	minRow := (idx / perRow) * m.SectorHeight
	minCol := (idx % perRow) * m.SectorWidth
	cells := make([]Cell, 0, m.SectorHeight*m.SectorWidth)
	for dr := 0; dr < m.SectorHeight; dr++ {
		for dc := 0; dc < m.SectorWidth; dc++ {
			c := Cell{Row: minRow + dr, Col: minCol + dc}
			if m.IsSea(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// Adjacent4 returns the in-bounds cardinal neighbours of the cell.
func (m *Map) Adjacent4(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range Directions {
		n := d.Step(c)
		if m.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Islands returns a copy of the impassable cells.
func (m *Map) Islands() []Cell {
	out := make([]Cell, 0, len(m.islands))
	for c := range m.islands {
		out = append(out, c)
	}
	return out
}

// SeaCells returns every navigable cell on the map.
func (m *Map) SeaCells() []Cell {
	out := make([]Cell, 0, m.Rows*m.Cols-len(m.islands))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			cell := Cell{Row: r, Col: c}
			if m.IsSea(cell) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// Manhattan returns the taxicab distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Chebyshev returns the king-move distance between two cells.
func Chebyshev(a, b Cell) int {
	dr := abs(a.Row - b.Row)
	dc := abs(a.Col - b.Col)
	if dr > dc {
		return dr
	}
	return dc
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
