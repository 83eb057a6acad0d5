// Package sessions tracks server-side login sessions referenced by the sid
// claim of issued tokens.
package sessions

import (
	"context"
	"sync"
	"time"
)

// Store records live sessions. Implementations must be safe for concurrent use.
type Store interface {
	Create(ctx context.Context, userID uint, sessionID string, ttl time.Duration) error
	Exists(ctx context.Context, userID uint, sessionID string) (bool, error)
	Revoke(ctx context.Context, userID uint, sessionID string) error
	RevokeUser(ctx context.Context, userID uint) error
}

type entry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Used when Redis is not configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, userID uint, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = entry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, userID uint, sessionID string) (bool, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || e.userID != userID {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Revoke(_ context.Context, userID uint, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[sessionID]; ok && e.userID == userID {
		delete(s.sessions, sessionID)
	}
	return nil
}

func (s *MemoryStore) RevokeUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if e.userID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}
