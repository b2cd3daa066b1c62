package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore хранит сессии в памяти процесса
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // chatID -> Session
}

// NewMemoryStore создаёт пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
	}
}

func (m *MemoryStore) Load(_ context.Context, chatID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, exists := m.sessions[chatID]; exists {
		// Возвращаем копию, чтобы избежать race condition
		return s.Clone(), nil
	}
	return New(chatID), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ChatID] = s.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}

func (m *MemoryStore) ResetIdle(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reset := 0
	for id, s := range m.sessions {
		if !s.UpdatedAt.Before(before) {
			continue
		}
		switch {
		case s.Phone == "":
			delete(m.sessions, id)
			reset++
		case s.HasDialog():
			s.Clear(true)
			reset++
		}
	}
	return reset, nil
}
