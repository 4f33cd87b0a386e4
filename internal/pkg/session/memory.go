package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a map guarded by one RWMutex
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	capacity int
}

// NewMemoryStore creates a MemoryStore holding at most capacity sessions.
// A capacity of zero or less means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		capacity: capacity,
	}
}

// Get returns the session for token or ErrNotFound
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

// Put stores the session. When the store is full, expired sessions are
// dropped first and then the oldest remaining one is evicted.
func (s *MemoryStore) Put(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.Token]; !exists && s.capacity > 0 && len(s.sessions) >= s.capacity {
		s.sweepLocked(session.IssuedAt)
		if len(s.sessions) >= s.capacity {
			s.evictOldestLocked()
		}
	}

	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

// Delete drops the session for token; missing tokens are not an error
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Sweep removes sessions already expired at cutoff
func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(cutoff), nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLocked(cutoff time.Time) int {
	removed := 0
	for token, session := range s.sessions {
		if session.Expired(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) evictOldestLocked() {
	var oldest *Session
	for _, session := range s.sessions {
		if oldest == nil || session.IssuedAt.Before(oldest.IssuedAt) {
			oldest = session
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.Token)
	}
}
