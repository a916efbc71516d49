package lifecycle

import (
	"context"

	"admiral-radar/server/logging"
)

const (
	// EventSessionCreated is emitted when a game session is registered.
	EventSessionCreated logging.EventType = "lifecycle.session_created"
	// EventSessionDestroyed is emitted when a session is removed from the registry.
	EventSessionDestroyed logging.EventType = "lifecycle.session_destroyed"
	// EventGameStarted is emitted when placement completes and play begins.
	EventGameStarted logging.EventType = "lifecycle.game_started"
	// EventGameEnded is emitted when a submarine is destroyed.
	EventGameEnded logging.EventType = "lifecycle.game_ended"
)

// SessionCreatedPayload captures the map shape chosen for a new session.
type SessionCreatedPayload struct {
	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	Sectors int `json:"sectors"`
}

// GameEndedPayload records the outcome of a finished game.
type GameEndedPayload struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
	Turns  uint64 `json:"turns"`
}

// SessionCreated publishes a session registration event.
func SessionCreated(ctx context.Context, pub logging.Publisher, sessionID string, payload SessionCreatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionCreated,
		Session:  sessionID,
		Actor:    logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySession,
		Payload:  payload,
	})
}

// SessionDestroyed publishes a session teardown event.
func SessionDestroyed(ctx context.Context, pub logging.Publisher, sessionID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSessionDestroyed,
		Session:  sessionID,
		Actor:    logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySession,
	})
}

// GameStarted publishes a placement-complete event.
func GameStarted(ctx context.Context, pub logging.Publisher, sessionID string, firstTeam string) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventGameStarted,
		Session:  sessionID,
		Actor:    logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySession,
	}
	pub.Publish(ctx, event.WithExtra("firstTeam", firstTeam))
}

// GameEnded publishes a terminal game-over event.
func GameEnded(ctx context.Context, pub logging.Publisher, sessionID string, turn uint64, payload GameEndedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGameEnded,
		Session:  sessionID,
		Turn:     turn,
		Actor:    logging.EntityRef{ID: sessionID, Kind: logging.EntityKindSession},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySession,
		Payload:  payload,
	})
}
