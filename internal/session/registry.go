package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"admiral-radar/server/internal/game"
	"admiral-radar/server/internal/grid"
	"admiral-radar/server/internal/telemetry"
	"admiral-radar/server/logging"
	"admiral-radar/server/logging/lifecycle"
)

var (
	// ErrSessionNotFound is returned for lookups of unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionEnded is returned for actions against a destroyed session.
	ErrSessionEnded = errors.New("session ended")
)

// Options configures a new session. Zero values fall back to the standard
// chart and ruleset; the seed makes map generation and bot play
// reproducible.
type Options struct {
	Settings grid.Settings
	Rules    game.Config
	Seed     int64
}

// Registry is the process-wide session table. The registry lock guards only
// the map; mutation of a session happens behind that session's own mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	pub      logging.Publisher
	metrics  telemetry.Metrics
}

// NewRegistry builds an empty registry publishing through the given sinks.
func NewRegistry(pub logging.Publisher, metrics telemetry.Metrics) *Registry {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		pub:      pub,
		metrics:  metrics,
	}
}

// Create generates a map from the options and registers a new session.
func (r *Registry) Create(opts Options) (*Session, error) {
	settings := opts.Settings
	if settings.Rows == 0 {
		settings = grid.DefaultSettings()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	chart, err := grid.Generate(settings, rng)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := newSession(id, chart, opts.Rules, rng, logging.WithSession(r.pub, id), r.metrics)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	lifecycle.SessionCreated(context.Background(), r.pub, id, lifecycle.SessionCreatedPayload{
		Rows:    chart.Rows,
		Cols:    chart.Cols,
		Sectors: chart.SectorCount(),
	})
	r.metrics.Add("sessions_created", 1)
	return s, nil
}

// Get looks up a session by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Destroy removes a session; later actions against it fail with
// ErrSessionEnded.
func (r *Registry) Destroy(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	lifecycle.SessionDestroyed(context.Background(), r.pub, id)
	r.metrics.Add("sessions_destroyed", 1)
	return nil
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
