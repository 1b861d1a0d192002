package session

import (
	"context"
	"sync"
)

// MemoryStore is the redis-less default: a mutex-guarded map. Sessions live
// until replaced or removed by a terminal pipeline state.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (*Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (m *MemoryStore) Put(_ context.Context, chatID int64, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = s
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}
