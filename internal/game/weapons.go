package game

import (
	"admiral-radar/server/internal/grid"
)

// requireWeaponSlot enforces the one-system-activation-per-turn rule shared
// by torpedoes, mines, sonar, and drones. The slot is not sequenced against
// the move or crew sub-steps: a charged system may fire at any point of the
// turn before it ends.
func (g *Game) requireWeaponSlot() error {
	if g.turn.SystemUsed {
		return invalidActionf("a system was already used this turn")
	}
	return nil
}

// FireTorpedo detonates at the target cell. The blast is public; damage
// applies to both boats independently, own included.
func (g *Game) FireTorpedo(team Team, target grid.Cell) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if err := g.requireWeaponSlot(); err != nil {
		return nil, err
	}
	sub := g.subs[team]
	gauge := sub.Gauge(SystemTorpedo)
	if !gauge.Ready() {
		return nil, insufficientChargef("torpedo at %d/%d", gauge.Charge, gauge.Max)
	}
	if !g.chart.IsSea(target) {
		return nil, illegalTargetf("torpedo target %v is not open sea", target)
	}
	dist := grid.Manhattan(*sub.Position, target)
	if dist < 1 || dist > g.cfg.TorpedoRange {
		return nil, illegalTargetf("torpedo range is 1 to %d cells, target at %d", g.cfg.TorpedoRange, dist)
	}

	gauge.Charge = 0
	g.turn.SystemUsed = true

	events := []Event{newEvent(EventTorpedoFired, team, TorpedoPayload{Target: target})}
	events = append(events, g.applyExplosion(team, target)...)
	return events, nil
}

// PlaceMine drops a mine on a cardinally adjacent sea cell outside the wake.
// Only the owning team learns the cell; everyone hears the drop.
func (g *Game) PlaceMine(team Team, target grid.Cell) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if err := g.requireWeaponSlot(); err != nil {
		return nil, err
	}
	sub := g.subs[team]
	gauge := sub.Gauge(SystemMine)
	if !gauge.Ready() {
		return nil, insufficientChargef("mine at %d/%d", gauge.Charge, gauge.Max)
	}
	if !g.chart.IsSea(target) {
		return nil, illegalTargetf("mine target %v is not open sea", target)
	}
	if grid.Manhattan(*sub.Position, target) != 1 {
		return nil, illegalTargetf("mine must go on an adjacent cell")
	}
	if sub.InTrail(target) {
		return nil, illegalTargetf("cannot mine a cell in own trail")
	}
	if sub.HasMineAt(target) {
		return nil, illegalTargetf("a mine is already at %v", target)
	}

	gauge.Charge = 0
	g.turn.SystemUsed = true
	sub.Mines = append(sub.Mines, target)

	return []Event{
		newEvent(EventMinePlaced, team, MinePlacedPayload{Cell: target, Count: len(sub.Mines)}),
		newEvent(EventMineAnnounced, team, nil),
	}, nil
}

// DetonateMine triggers the team's mine at the given index. No charge is
// needed; the mine itself was the spend.
func (g *Game) DetonateMine(team Team, index int) ([]Event, error) {
	if err := g.requireTurn(team); err != nil {
		return nil, err
	}
	if err := g.requireWeaponSlot(); err != nil {
		return nil, err
	}
	sub := g.subs[team]
	if index < 0 || index >= len(sub.Mines) {
		return nil, illegalTargetf("no mine at index %d", index)
	}

	cell := sub.Mines[index]
	sub.Mines = append(sub.Mines[:index], sub.Mines[index+1:]...)
	g.turn.SystemUsed = true

	events := []Event{newEvent(EventMineDetonated, team, MineDetonatedPayload{Cell: cell})}
	events = append(events, g.applyExplosion(team, cell)...)
	return events, nil
}
