package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"police_fines/platform/apperr"
	"police_fines/platform/logger"
)

// ErrNotFound is returned for unknown or evicted session ids.
var ErrNotFound = apperr.NotFound("search session not found")

// Factory builds the orchestrator for a new session.
type Factory func(log *logger.Logger) *Orchestrator

// GaugeRecorder receives the live session count.
type GaugeRecorder interface {
	SetActiveSessions(n int)
}

type nopGauge struct{}

func (nopGauge) SetActiveSessions(int) {}

// Registry owns every live orchestrator, keyed by session id, and evicts
// sessions that stay idle longer than the configured TTL.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Orchestrator

	factory Factory
	idleTTL time.Duration
	log     *logger.Logger
	gauge   GaugeRecorder
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory, idleTTL time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*Orchestrator),
		factory:  factory,
		idleTTL:  idleTTL,
		log:      log,
		gauge:    nopGauge{},
		now:      time.Now,
	}
}

// WithGauge sets the recorder for the active session count.
func (r *Registry) WithGauge(g GaugeRecorder) *Registry {
	if g != nil {
		r.gauge = g
	}
	return r
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *Orchestrator) {
	id := uuid.New().String()
	o := r.factory(r.log.WithSessionID(id))

	r.mu.Lock()
	r.sessions[id] = o
	n := len(r.sessions)
	r.mu.Unlock()

	r.gauge.SetActiveSessions(n)
	r.log.Info("search session created", "session_id", id)
	return id, o
}

// Get returns the orchestrator for id.
func (r *Registry) Get(id string) (*Orchestrator, error) {
	r.mu.RLock()
	o, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

// Remove closes and forgets the session. It reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	o, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	o.Close()
	r.gauge.SetActiveSessions(n)
	r.log.Info("search session ended", "session_id", id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL. Sessions with a
// request in flight are kept. It returns the number evicted.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	var evicted []*Orchestrator
	r.mu.Lock()
	for id, o := range r.sessions {
		if o.IsLoading() || o.LastActive().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		evicted = append(evicted, o)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, o := range evicted {
		o.Close()
	}
	if len(evicted) > 0 {
		r.gauge.SetActiveSessions(n)
		r.log.Info("idle search sessions evicted", "count", len(evicted), "remaining", n)
	}
	return len(evicted)
}

// Run sweeps periodically until ctx is done. Sessions stay open afterwards;
// Close ends them once in-flight requests have drained.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close removes and closes every session. Searches still in flight return
// ErrClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Orchestrator)
	r.mu.Unlock()

	for _, o := range sessions {
		o.Close()
	}
	r.gauge.SetActiveSessions(0)
}
