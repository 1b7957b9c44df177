package browse

import (
	"sync"
	"time"

	"github.com/appetiteclub/concierge/internal/catalog"
	"github.com/aquamarinepk/aqm"
	"github.com/google/uuid"
)

// SessionCache maintains the live browsing sessions, indexed by session
// id. Sessions are ephemeral: idle ones are purged rather than persisted.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	store  *catalog.Store
	logger aqm.Logger
}

// NewSessionCache creates a new session cache.
func NewSessionCache(store *catalog.Store, logger aqm.Logger) *SessionCache {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &SessionCache{
		sessions: make(map[uuid.UUID]*Session),
		store:    store,
		logger:   logger,
	}
}

// Create registers a new session bound to the shared catalog store.
func (c *SessionCache) Create() *Session {
	session := NewSession(c.store)

	c.mu.Lock()
	c.sessions[session.ID] = session
	c.mu.Unlock()

	c.logger.Debug("session created", "session_id", session.ID.String())
	return session
}

// Get returns a session by id, or nil if unknown.
func (c *SessionCache) Get(id uuid.UUID) *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions[id]
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (c *SessionCache) Delete(id uuid.UUID) {
	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()
}

// Count reports the number of live sessions.
func (c *SessionCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// PurgeIdle drops sessions inactive for longer than maxIdle and returns
// how many were removed.
func (c *SessionCache) PurgeIdle(maxIdle time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxIdle)

	c.mu.Lock()
	defer c.mu.Unlock()

	purged := 0
	for id, session := range c.sessions {
		if session.LastSeen().Before(cutoff) {
			delete(c.sessions, id)
			purged++
		}
	}

	if purged > 0 {
		c.logger.Infof("Purged %d idle sessions", purged)
	}
	return purged
}
