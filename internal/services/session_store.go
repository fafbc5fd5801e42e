package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

const DefaultSessionTTL = 2 * time.Hour

// ErrSessionConflict means a store gave up on an Update after other writers
// kept changing the session underneath it.
var ErrSessionConflict = errors.New("session changed concurrently")

// SessionStore holds sessions between requests. Implementations return
// copies: a caller mutating a *Session does not change stored state until it
// calls Put or returns from an Update callback.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	// Update applies fn to the current session and stores the result as one
	// compare-and-set step, so writers in other processes cannot interleave.
	// fn may run more than once and must not touch the store. An error from
	// fn aborts the update and is returned as is.
	Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// SessionSweeper is implemented by stores that expire entries themselves
// rather than relying on the backend.
type SessionSweeper interface {
	Sweep(now time.Time) []string
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

type MemorySessionStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	timeNow func() time.Time
}

// NewMemorySessionStore keeps sessions for ttl after their last access.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		timeNow: time.Now,
	}
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	now := m.timeNow()
	if !ok || !now.Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, ErrSessionNotFound
	}
	e.expiresAt = now.Add(m.ttl)
	m.entries[id] = e
	return e.session.Clone(), nil
}

func (m *MemorySessionStore) Put(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return ErrSessionNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.ID] = memoryEntry{session: s.Clone(), expiresAt: m.timeNow().Add(m.ttl)}
	return nil
}

func (m *MemorySessionStore) Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	now := m.timeNow()
	if !ok || !now.Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, ErrSessionNotFound
	}
	s := e.session.Clone()
	if err := fn(s); err != nil {
		return nil, err
	}
	m.entries[id] = memoryEntry{session: s.Clone(), expiresAt: now.Add(m.ttl)}
	return s, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemorySessionStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Sweep drops expired sessions and returns their ids.
func (m *MemorySessionStore) Sweep(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []string
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
			expired = append(expired, id)
		}
	}
	return expired
}
