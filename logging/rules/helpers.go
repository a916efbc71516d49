package rules

import (
	"context"

	"admiral-radar/server/logging"
)

const (
	// EventActionApplied is emitted after a rule-engine handler mutates state.
	EventActionApplied logging.EventType = "rules.action_applied"
	// EventActionRejected is emitted when a handler refuses an action.
	EventActionRejected logging.EventType = "rules.action_rejected"
	// EventBotActionFailed is emitted when a scheduler-driven bot action is
	// rejected by the rule engine. Bots validate before acting, so this is a
	// bug in the bot, not the player.
	EventBotActionFailed logging.EventType = "rules.bot_action_failed"
)

// ActionPayload names the attempted action and its outcome detail.
type ActionPayload struct {
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
	Events int    `json:"events,omitempty"`
}

// ActionApplied publishes a successful action.
func ActionApplied(ctx context.Context, pub logging.Publisher, sessionID string, turn uint64, actor logging.EntityRef, payload ActionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventActionApplied,
		Session:  sessionID,
		Turn:     turn,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryRules,
		Payload:  payload,
	})
}

// ActionRejected publishes a refused action.
func ActionRejected(ctx context.Context, pub logging.Publisher, sessionID string, turn uint64, actor logging.EntityRef, payload ActionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventActionRejected,
		Session:  sessionID,
		Turn:     turn,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryRules,
		Payload:  payload,
	})
}

// BotActionFailed publishes a scheduler-level bot failure.
func BotActionFailed(ctx context.Context, pub logging.Publisher, sessionID string, turn uint64, actor logging.EntityRef, payload ActionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBotActionFailed,
		Session:  sessionID,
		Turn:     turn,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryBots,
		Payload:  payload,
	})
}
