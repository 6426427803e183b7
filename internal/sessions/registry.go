package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/quiz"
)

var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	mu       sync.Mutex
	session  *quiz.Session
	setID    string
	lastUsed time.Time
}

// Registry holds live quiz sessions for the HTTP service. Each session is
// guarded by its own mutex; the map is guarded separately.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry

	idleTTL time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Registry)

// WithIdleTTL makes Sweep drop sessions untouched for longer than ttl.
func WithIdleTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.idleTTL = ttl
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func withNow(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers session under a fresh id. setID records where the
// questions came from and may be empty for inline sets.
func (r *Registry) Create(session *quiz.Session, setID string) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.entries[id] = &entry{session: session, setID: setID, lastUsed: r.now()}
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session_id", id), zap.String("set_id", setID))
	return id
}

// Do runs fn with exclusive access to the session.
func (r *Registry) Do(id string, fn func(session *quiz.Session) error) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = r.now()
	return fn(e.session)
}

// SetID returns the question set a session was created from.
func (r *Registry) SetID(id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return e.setID, nil
}

// Delete drops a session and stops its timer.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	e.session.Timer().Stop()
	e.mu.Unlock()

	r.logger.Debug("session deleted", zap.String("session_id", id))
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Sweep removes idle sessions and returns how many were dropped. It is a
// no-op without an idle TTL.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	var stale []string
	r.mu.RLock()
	for id, e := range r.entries {
		e.mu.Lock()
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}
	r.mu.RUnlock()

	dropped := 0
	for _, id := range stale {
		if err := r.Delete(id); err == nil {
			dropped++
		}
	}
	if dropped > 0 {
		r.logger.Info("idle sessions evicted", zap.Int("count", dropped))
	}
	return dropped
}
