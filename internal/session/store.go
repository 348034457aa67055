package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Wolfof420Street/Employee-Tracker/internal/models"
)

// Store holds live seat sessions in memory, keyed by the opaque id the
// cookie carries. Seats are shared per administrative unit, so several
// concurrent sessions may point at the same seat; each gets its own id.
type Store struct {
	mu   sync.RWMutex
	data map[string]models.Session
}

func NewStore() *Store {
	return &Store{data: make(map[string]models.Session)}
}

// Create stores the session and returns a new opaque id.
func (s *Store) Create(sess models.Session) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.data[id] = sess
	s.mu.Unlock()
	return id
}

// Get returns the session for id if present and not expired. Expired
// entries are dropped on access; the sweeper handles the rest.
func (s *Store) Get(id string) (models.Session, bool) {
	s.mu.RLock()
	sess, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return models.Session{}, false
	}
	if !sess.Expiry.IsZero() && sess.Expiry.Before(time.Now()) {
		s.mu.Lock()
		delete(s.data, id)
		s.mu.Unlock()
		return models.Session{}, false
	}
	return sess, true
}

// Delete removes a session by id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
}

// StartSweeper periodically removes expired sessions until ctx is done.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now()
				s.mu.Lock()
				for k, v := range s.data {
					if !v.Expiry.IsZero() && v.Expiry.Before(now) {
						delete(s.data, k)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}

// SessionEntry is a snapshot of a single session in the store.
type SessionEntry struct {
	ID      string
	Session models.Session
}

// List returns a snapshot of every live session, for the admin listing.
func (s *Store) List() []SessionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionEntry, 0, len(s.data))
	for k, v := range s.data {
		out = append(out, SessionEntry{ID: k, Session: v})
	}
	return out
}
