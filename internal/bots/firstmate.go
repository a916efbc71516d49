package bots

import (
	"admiral-radar/server/internal/game"
)

// defaultChargePriority is the standing order until the captain overrides
// it.
var defaultChargePriority = []game.SystemKind{
	game.SystemTorpedo,
	game.SystemMine,
	game.SystemSonar,
	game.SystemDrone,
	game.SystemStealth,
}

// FirstMate charges systems in the captain's priority order. It sees only
// its own gauges.
type FirstMate struct {
	team     game.Team
	priority []game.SystemKind
}

// NewFirstMate seats a first mate bot.
func NewFirstMate(team game.Team) *FirstMate {
	return &FirstMate{
		team:     team,
		priority: append([]game.SystemKind(nil), defaultChargePriority...),
	}
}

// ProcessInbox adopts the latest charge priority from the captain.
func (f *FirstMate) ProcessInbox(msgs []Message) {
	for _, msg := range msgs {
		if msg.Kind == MsgChargePriority && len(msg.Priority) > 0 {
			f.priority = append([]game.SystemKind(nil), msg.Priority...)
		}
	}
}

// DecideCharge returns the first system below its ceiling in priority
// order, falling back to any uncharged system, and false when every gauge
// is full.
func (f *FirstMate) DecideCharge(systems map[game.SystemKind]game.SystemGauge) (game.SystemKind, bool) {
	for _, kind := range f.priority {
		if gauge, ok := systems[kind]; ok && gauge.Charge < gauge.Max {
			return kind, true
		}
	}
	for _, kind := range game.SystemKinds {
		if gauge, ok := systems[kind]; ok && gauge.Charge < gauge.Max {
			return kind, true
		}
	}
	return "", false
}

// ReportSystems posts the current gauge levels to the captain.
func (f *FirstMate) ReportSystems(comms *TeamComms, systems map[game.SystemKind]game.SystemGauge) {
	report := make(map[game.SystemKind]game.SystemGauge, len(systems))
	for kind, gauge := range systems {
		report[kind] = gauge
	}
	comms.Post(RoleCaptain, Message{Kind: MsgSystemsReport, Systems: report})
}
