// Package server ties the session registry to the schedulers that drive bot
// play. The Hub is the single process-wide owner: transports create, look
// up, and destroy sessions through it.
package server

import (
	"sync"
	"time"

	"admiral-radar/server/internal/bots"
	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/session"
	"admiral-radar/server/internal/telemetry"
	"admiral-radar/server/logging"
)

// HubConfig carries process-level tuning for new sessions.
type HubConfig struct {
	// TickInterval paces each session's bot scheduler.
	TickInterval time.Duration
	Logger       telemetry.Logger
	Metrics      telemetry.Metrics
}

// DefaultHubConfig returns the standard tuning.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		TickInterval: session.DefaultTickInterval,
	}
}

// Hub owns the registry and one scheduler goroutine per live session.
type Hub struct {
	mu       sync.Mutex
	cfg      HubConfig
	registry *session.Registry
	stops    map[string]chan struct{}
	logger   telemetry.Logger
	metrics  telemetry.Metrics
	closed   bool
}

// NewHubWithConfig builds a hub publishing through the given router.
func NewHubWithConfig(cfg HubConfig, pub logging.Publisher) *Hub {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = session.DefaultTickInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Hub{
		cfg:      cfg,
		registry: session.NewRegistry(pub, metrics),
		stops:    make(map[string]chan struct{}),
		logger:   logger,
		metrics:  metrics,
	}
}

// NewHub builds a hub with default tuning.
func NewHub(pub logging.Publisher) *Hub {
	return NewHubWithConfig(DefaultHubConfig(), pub)
}

// CreateSession registers a new game, fills every seat with a bot, and
// starts its scheduler. A zero seed is replaced with the wall clock so two
// unseeded sessions do not share a map. Humans claim seats afterwards
// through the websocket handshake.
func (h *Hub) CreateSession(opts session.Options) (*session.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, session.ErrSessionEnded
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	s, err := h.registry.Create(opts)
	if err != nil {
		return nil, err
	}
	for _, team := range game.Teams {
		for _, role := range bots.Roles {
			if err := s.AssignBot(session.Seat{Team: team, Role: role}); err != nil {
				return nil, err
			}
		}
	}

	stop := make(chan struct{})
	h.stops[s.ID()] = stop
	go session.NewScheduler(s, h.cfg.TickInterval).Run(stop)

	h.logger.Printf("session %s created", s.ID())
	return s, nil
}

// Session looks up a live session by id.
func (h *Hub) Session(id string) (*session.Session, error) {
	return h.registry.Get(id)
}

// DestroySession stops the scheduler and removes the session.
func (h *Hub) DestroySession(id string) error {
	h.mu.Lock()
	if stop, ok := h.stops[id]; ok {
		close(stop)
		delete(h.stops, id)
	}
	h.mu.Unlock()
	return h.registry.Destroy(id)
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	return h.registry.Count()
}

// Shutdown stops every scheduler and destroys every session.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	ids := make([]string, 0, len(h.stops))
	for id, stop := range h.stops {
		close(stop)
		ids = append(ids, id)
	}
	h.stops = make(map[string]chan struct{})
	h.mu.Unlock()

	for _, id := range ids {
		if err := h.registry.Destroy(id); err != nil {
			h.logger.Printf("destroy %s during shutdown: %v", id, err)
		}
	}
}
