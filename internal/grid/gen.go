package grid

import "math/rand"

// Settings drives map generation for a session.
type Settings struct {
	Name          string
	Rows          int
	Cols          int
	SectorWidth   int
	SectorHeight  int
	NumIslands    int
	MaxIslandSize int
	Islands       []Cell // optional pre-authored layout; skips generation
}

// DefaultSettings matches the standard 15x15 chart with 5x5 sectors.
func DefaultSettings() Settings {
	return Settings{
		Name:          "Standard Chart",
		Rows:          15,
		Cols:          15,
		SectorWidth:   5,
		SectorHeight:  5,
		NumIslands:    12,
		MaxIslandSize: 2,
	}
}

// Generate builds a map from the settings, producing random islands unless a
// layout was supplied. The rng is injected so sessions stay reproducible.
func Generate(s Settings, rng *rand.Rand) (*Map, error) {
	islands := s.Islands
	if len(islands) == 0 && s.NumIslands > 0 {
		islands = generateIslands(s, rng)
	}
	return New(s.Name, s.Rows, s.Cols, s.SectorWidth, s.SectorHeight, islands)
}

// generateIslands scatters island clusters while keeping the outer ring of the
// map clear so no start position begins boxed in.
func generateIslands(s Settings, rng *rand.Rand) []Cell {
	taken := make(map[Cell]struct{})
	count := s.NumIslands
	if cap := s.Rows * s.Cols / 10; count > cap {
		count = cap
	}

	for i := 0; i < count; i++ {
		var seed Cell
		found := false
		for attempt := 0; attempt < 50; attempt++ {
			seed = Cell{Row: 1 + rng.Intn(s.Rows-2), Col: 1 + rng.Intn(s.Cols-2)}
			if _, ok := taken[seed]; !ok {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		size := 1
		if s.MaxIslandSize >= 2 && rng.Float64() < 0.15 {
			size = 2 + rng.Intn(s.MaxIslandSize-1)
		}
		for dr := 0; dr < size; dr++ {
			for dc := 0; dc < size; dc++ {
				c := Cell{Row: seed.Row + dr, Col: seed.Col + dc}
				if c.Row <= 0 || c.Row >= s.Rows-1 || c.Col <= 0 || c.Col >= s.Cols-1 {
					continue
				}
				taken[c] = struct{}{}
			}
		}
	}

	out := make([]Cell, 0, len(taken))
	for c := range taken {
		out = append(out, c)
	}
	return out
}

// ColumnLabels produces spreadsheet-style labels A..Z, AA, AB, ... for the
// coordinate callouts used by clients and bot commentary.
func ColumnLabels(n int) []string {
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i < 26 {
			labels = append(labels, string(rune('A'+i)))
			continue
		}
		labels = append(labels, string(rune('A'+i/26-1))+string(rune('A'+i%26)))
	}
	return labels
}
