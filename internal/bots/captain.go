package bots

import (
	"math/rand"

	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
)

// Captain drives one team's boat. Its enemy knowledge comes exclusively
// from relayed intel: drone hits and overheard surface sectors. It never
// reads the opposing submarine's state.
type Captain struct {
	team game.Team
	cfg  game.Config
	rng  *rand.Rand

	enemySector int          // best known enemy sector, 0 when unknown
	droneEmpty  map[int]bool // sectors a drone confirmed empty
	sonarLog    [][2]game.SonarFact
	advice      []DirectionAdvice
}

// NewCaptain seats a captain bot. The rng is injected so decisions stay
// reproducible under test.
func NewCaptain(team game.Team, cfg game.Config, rng *rand.Rand) *Captain {
	return &Captain{
		team:       team,
		cfg:        cfg,
		rng:        rng,
		droneEmpty: make(map[int]bool),
	}
}

// ProcessInbox folds pending comms into the captain's working picture.
func (c *Captain) ProcessInbox(msgs []Message) {
	for _, msg := range msgs {
		switch msg.Kind {
		case MsgEnemySurfaced:
			c.enemySector = msg.Sector
		case MsgDroneResult:
			if msg.InSector {
				c.enemySector = msg.Sector
			} else {
				c.droneEmpty[msg.Sector] = true
				if c.enemySector == msg.Sector {
					c.enemySector = 0
				}
			}
		case MsgSonarResult:
			c.sonarLog = append(c.sonarLog, msg.Facts)
		case MsgDirectionAdvice:
			c.advice = msg.Advice
		}
	}
}

// DeployCell picks a starting cell in the team's home quadrant: blue in the
// north-west, red in the south-east.
func (c *Captain) DeployCell(chart *grid.Map) grid.Cell {
	var candidates []grid.Cell
	for _, cell := range chart.SeaCells() {
		switch c.team {
		case game.TeamBlue:
			if cell.Row < chart.Rows/2 && cell.Col < chart.Cols/2 {
				candidates = append(candidates, cell)
			}
		default:
			if cell.Row >= chart.Rows/2 && cell.Col >= chart.Cols/2 {
				candidates = append(candidates, cell)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = chart.SeaCells()
	}
	return candidates[c.rng.Intn(len(candidates))]
}

// DecideManeuver picks the turn's opening action. Greedy one-step lookahead
// keeps the boat in open water; a cornered boat runs silent if it can and
// surfaces if it cannot.
func (c *Captain) DecideManeuver(chart *grid.Map, v game.View) Action {
	own := v.Submarines[c.team]
	if own.Position == nil || own.Surfaced {
		return Action{Kind: ActionNone}
	}

	valid := legalSteps(chart, own)
	stealthReady := own.Systems[game.SystemStealth].Ready()

	if len(valid) == 0 {
		if stealthReady {
			if plan, ok := c.planStealth(chart, own); ok {
				return plan
			}
		}
		return Action{Kind: ActionSurface}
	}

	if stealthReady && len(valid) <= 2 {
		if plan, ok := c.planStealth(chart, own); ok && plan.Steps >= 2 {
			return plan
		}
	}

	preferred := make(map[grid.Direction]bool, len(c.advice))
	for _, adv := range c.advice {
		preferred[adv.Direction] = true
	}

	best := valid[0]
	bestScore := -1
	for _, dir := range valid {
		dest := dir.Step(*own.Position)
		score := futureMoves(chart, own, dest, []grid.Cell{dest}) * 10
		if preferred[dir] {
			score += 2
		}
		if score > bestScore {
			bestScore = score
			best = dir
		}
	}
	return Action{Kind: ActionMove, Direction: best}
}

// planStealth searches the four straight-line runs for the longest escape,
// scored by the exits left at the end of the run.
func (c *Captain) planStealth(chart *grid.Map, own game.SubmarineView) (Action, bool) {
	bestScore := -1
	var best Action
	for _, dir := range grid.Directions {
		cursor := *own.Position
		var path []grid.Cell
		for len(path) < c.cfg.MaxStealthSteps {
			if !legalStep(chart, own, cursor, dir, path) {
				break
			}
			cursor = dir.Step(cursor)
			path = append(path, cursor)
		}
		if len(path) == 0 {
			continue
		}
		score := futureMoves(chart, own, cursor, path)*10 + len(path)
		if score > bestScore {
			bestScore = score
			best = Action{Kind: ActionStealth, Direction: dir, Steps: len(path)}
		}
	}
	if bestScore < 0 {
		return Action{}, false
	}
	return best, true
}

// DecideWeapon picks the optional system activation after the crew has
// acted: torpedo at a known sector, drone when blind, sonar as the fallback
// probe.
func (c *Captain) DecideWeapon(chart *grid.Map, v game.View) (Action, bool) {
	own := v.Submarines[c.team]
	if own.Position == nil {
		return Action{}, false
	}

	if own.Systems[game.SystemTorpedo].Ready() && c.enemySector != 0 {
		if target, ok := c.torpedoTarget(chart, *own.Position, c.enemySector); ok {
			return Action{Kind: ActionTorpedo, Target: target}, true
		}
	}

	if own.Systems[game.SystemDrone].Ready() && c.enemySector == 0 {
		return Action{Kind: ActionDrone, Sector: c.pickDroneSector(chart)}, true
	}

	if own.Systems[game.SystemSonar].Ready() {
		return Action{Kind: ActionSonar}, true
	}

	return Action{}, false
}

// torpedoTarget returns the closest in-range sea cell inside the sector.
func (c *Captain) torpedoTarget(chart *grid.Map, from grid.Cell, sector int) (grid.Cell, bool) {
	var best grid.Cell
	bestDist := chart.Rows + chart.Cols
	found := false
	for _, cell := range chart.SectorCells(sector) {
		dist := grid.Manhattan(from, cell)
		if dist < 1 || dist > c.cfg.TorpedoRange {
			continue
		}
		if dist < bestDist {
			bestDist = dist
			best = cell
			found = true
		}
	}
	return best, found
}

// pickDroneSector scans a sector not yet confirmed empty.
func (c *Captain) pickDroneSector(chart *grid.Map) int {
	total := chart.SectorCount()
	options := make([]int, 0, total)
	for s := 1; s <= total; s++ {
		if !c.droneEmpty[s] {
			options = append(options, s)
		}
	}
	if len(options) == 0 {
		return 1 + c.rng.Intn(total)
	}
	return options[c.rng.Intn(len(options))]
}

// RespondSonar answers an enemy ping: two facts of distinct kinds, a coin
// flip deciding which one tells the truth, the other given a random wrong
// value.
func (c *Captain) RespondSonar(chart *grid.Map, v game.View) [2]game.SonarFact {
	pos := *v.Submarines[c.team].Position
	sector := chart.SectorOf(pos)

	kinds := []game.SonarFactKind{game.SonarFactRow, game.SonarFactCol, game.SonarFactSector}
	c.rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

	trueValue := func(kind game.SonarFactKind) int {
		switch kind {
		case game.SonarFactRow:
			return pos.Row
		case game.SonarFactCol:
			return pos.Col
		default:
			return sector
		}
	}
	falseValue := func(kind game.SonarFactKind) int {
		truth := trueValue(kind)
		var limit, floor int
		switch kind {
		case game.SonarFactRow:
			limit, floor = chart.Rows, 0
		case game.SonarFactCol:
			limit, floor = chart.Cols, 0
		default:
			limit, floor = chart.SectorCount()+1, 1
		}
		for attempt := 0; attempt < 32; attempt++ {
			value := floor + c.rng.Intn(limit-floor)
			if value != truth {
				return value
			}
		}
		return floor + (truth+1-floor)%(limit-floor)
	}

	truthFirst := c.rng.Intn(2) == 0
	if truthFirst {
		return [2]game.SonarFact{
			{Kind: kinds[0], Value: trueValue(kinds[0])},
			{Kind: kinds[1], Value: falseValue(kinds[1])},
		}
	}
	return [2]game.SonarFact{
		{Kind: kinds[0], Value: falseValue(kinds[0])},
		{Kind: kinds[1], Value: trueValue(kinds[1])},
	}
}

// BriefCrew posts the captain's standing orders: charge order for the first
// mate and the systems the engineer should keep clear.
func (c *Captain) BriefCrew(comms *TeamComms, v game.View) {
	systems := v.Submarines[c.team].Systems

	var priority []game.SystemKind
	if c.enemySector != 0 {
		priority = []game.SystemKind{game.SystemTorpedo, game.SystemMine, game.SystemDrone, game.SystemSonar, game.SystemStealth}
	} else {
		priority = []game.SystemKind{game.SystemDrone, game.SystemSonar, game.SystemTorpedo, game.SystemMine, game.SystemStealth}
	}
	comms.Post(RoleFirstMate, Message{Kind: MsgChargePriority, Priority: priority})

	var protect []game.SystemKind
	for _, kind := range []game.SystemKind{game.SystemTorpedo, game.SystemDrone, game.SystemSonar, game.SystemMine} {
		gauge := systems[kind]
		if gauge.Max > 0 && gauge.Charge >= gauge.Max-2 {
			protect = append(protect, kind)
		}
	}
	if len(protect) == 0 {
		protect = []game.SystemKind{game.SystemTorpedo}
		if systems[game.SystemDrone].Charge >= systems[game.SystemSonar].Charge {
			protect = append(protect, game.SystemDrone)
		} else {
			protect = append(protect, game.SystemSonar)
		}
	}
	comms.Post(RoleEngineer, Message{Kind: MsgSystemProtect, Protect: protect})
}

// EnemySector exposes the captain's best known enemy sector for reporting.
func (c *Captain) EnemySector() int { return c.enemySector }
