package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager сериализует изменения сессий одного чата и сохраняет их в Store
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*chatLock
}

// chatLock блокировка одного чата; refs считает владельца и ожидающих
type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager создаёт менеджер поверх хранилища
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
		locks:  make(map[int64]*chatLock),
	}
}

// acquire захватывает блокировку чата и возвращает функцию освобождения.
// Запись удаляется из карты, когда её больше никто не ждёт.
func (m *Manager) acquire(chatID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[chatID]
	if !ok {
		l = &chatLock{}
		m.locks[chatID] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, chatID)
		}
		m.mu.Unlock()
	}
}

// Do загружает сессию, передаёт её в fn и сохраняет результат.
// Пока fn выполняется, другие вызовы Do для того же чата ждут.
// Если fn вернула ошибку, сессия не сохраняется.
func (m *Manager) Do(ctx context.Context, chatID int64, fn func(*Session) error) error {
	release := m.acquire(chatID)
	defer release()

	s, err := m.store.Load(ctx, chatID)
	if err != nil {
		return err
	}

	if err := fn(s); err != nil {
		return err
	}

	s.ChatID = chatID
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		m.logger.Error("Failed to save session", zap.Int64("chat_id", chatID), zap.Error(err))
		return err
	}
	return nil
}

// Get возвращает копию сессии
func (m *Manager) Get(ctx context.Context, chatID int64) (*Session, error) {
	release := m.acquire(chatID)
	defer release()

	return m.store.Load(ctx, chatID)
}

// Merge добавляет поля формы
func (m *Manager) Merge(ctx context.Context, chatID int64, fields map[string]string) error {
	return m.Do(ctx, chatID, func(s *Session) error {
		s.Merge(fields)
		return nil
	})
}

// Clear сбрасывает сессию; keepPhone сохраняет номер телефона
func (m *Manager) Clear(ctx context.Context, chatID int64, keepPhone bool) error {
	return m.Do(ctx, chatID, func(s *Session) error {
		s.Clear(keepPhone)
		return nil
	})
}

// PushHistory кладёт состояние в стек навигации
func (m *Manager) PushHistory(ctx context.Context, chatID int64, state string) error {
	return m.Do(ctx, chatID, func(s *Session) error {
		s.PushHistory(state)
		return nil
	})
}

// PopHistory снимает последнее состояние со стека навигации
func (m *Manager) PopHistory(ctx context.Context, chatID int64) (string, bool, error) {
	var (
		state string
		ok    bool
	)
	err := m.Do(ctx, chatID, func(s *Session) error {
		state, ok = s.PopHistory()
		return nil
	})
	return state, ok, err
}

// Sweep сбрасывает диалоги, не менявшиеся дольше ttl. Телефон остаётся.
func (m *Manager) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	reset, err := m.store.ResetIdle(ctx, m.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return reset, nil
}
