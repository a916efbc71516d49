package logging

import "sync"

// Metrics is a minimal counter/gauge store shared between the router and
// server components that want to report tallies without a metrics backend.
type Metrics struct {
	mu     sync.RWMutex
	values map[string]uint64
}

func NewMetrics() *Metrics {
	return &Metrics{values: make(map[string]uint64)}
}

func (m *Metrics) TelemetryAdd(key string, delta uint64) {
	if m == nil || key == "" {
		return
	}
	m.mu.Lock()
	m.values[key] += delta
	m.mu.Unlock()
}

func (m *Metrics) TelemetryStore(key string, value uint64) {
	if m == nil || key == "" {
		return
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *Metrics) Snapshot() map[string]uint64 {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := make(map[string]uint64, len(m.values))
	for k, v := range m.values {
		copied[k] = v
	}
	return copied
}
