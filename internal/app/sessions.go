package app

import (
	"context"
	"sync"
	"time"

	"expense-desk/internal/core"

	"github.com/google/uuid"
)

const sessionTTL = 2 * time.Hour

// session is one in-progress draft. The mutex in the owning store serializes
// all access, matching the engine's single-writer model: concurrent edits
// from multiple fields never interleave at sub-field granularity.
type session struct {
	controller *core.DraftController
	lastUsed   time.Time
}

// sessionStore is a thread-safe in-memory store of draft sessions with TTL
// expiry. Drafts abandoned for longer than sessionTTL are evicted.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// create opens a new session and returns its id.
func (s *sessionStore) create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions[id] = &session{
		controller: core.NewDraftController(),
		lastUsed:   time.Now(),
	}
	return id
}

// with runs fn against the session's controller while holding the store
// lock, so every draft operation is serialized. Returns ErrDraftNotFound
// for unknown or expired ids.
func (s *sessionStore) with(id string, fn func(ctl *core.DraftController) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrDraftNotFound
	}
	if time.Since(sess.lastUsed) > sessionTTL {
		delete(s.sessions, id)
		return ErrDraftNotFound
	}
	sess.lastUsed = time.Now()
	return fn(sess.controller)
}

// delete removes a session, typically after a successful submit.
func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// startPurge starts a background goroutine that evicts expired sessions
// every 15 minutes.
func (s *sessionStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				for id, sess := range s.sessions {
					if time.Since(sess.lastUsed) > sessionTTL {
						delete(s.sessions, id)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}
