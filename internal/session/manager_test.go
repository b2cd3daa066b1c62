package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(store, zap.NewNop()), store
}

func TestManager_MergeAndGet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	require.NoError(t, m.Merge(ctx, 5, map[string]string{"first_name": "Іван"}))
	require.NoError(t, m.Merge(ctx, 5, map[string]string{"last_name": "Петренко"}))

	s, err := m.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Іван", s.Field("first_name"))
	assert.Equal(t, "Петренко", s.Field("last_name"))
	assert.False(t, s.UpdatedAt.IsZero())
}

func TestManager_ClearKeepsPhone(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	require.NoError(t, m.Do(ctx, 5, func(s *Session) error {
		s.Phone = "+380501234567"
		s.State = "select_city"
		return nil
	}))
	require.NoError(t, m.Clear(ctx, 5, true))

	s, err := m.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "+380501234567", s.Phone)
	assert.Empty(t, s.State)
}

func TestManager_History(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	require.NoError(t, m.PushHistory(ctx, 1, "select_city"))
	require.NoError(t, m.PushHistory(ctx, 1, "select_parking"))

	state, ok, err := m.PopHistory(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "select_parking", state)

	s, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"select_city"}, s.History)
}

func TestManager_DoErrorDoesNotSave(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager()

	boom := errors.New("boom")
	err := m.Do(ctx, 3, func(s *Session) error {
		s.State = "select_city"
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.sessions)
}

func TestManager_DoDifferentChatsIndependent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	entered := make(chan struct{})
	unblock := make(chan struct{})
	held := make(chan error, 1)
	go func() {
		held <- m.Do(ctx, 1, func(s *Session) error {
			close(entered)
			<-unblock
			return nil
		})
	}()
	<-entered

	// 65 совпадает с 1 по модулю 64
	done := make(chan error, 1)
	go func() {
		done <- m.Do(ctx, 65, func(s *Session) error {
			s.State = "select_city"
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(unblock)
		t.Fatal("chat 65 waited for chat 1")
	}

	close(unblock)
	require.NoError(t, <-held)

	m.mu.Lock()
	assert.Empty(t, m.locks)
	m.mu.Unlock()
}

func TestManager_DoSameChatWaits(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	entered := make(chan struct{})
	unblock := make(chan struct{})
	held := make(chan error, 1)
	go func() {
		held <- m.Do(ctx, 1, func(s *Session) error {
			close(entered)
			<-unblock
			s.State = "first"
			return nil
		})
	}()
	<-entered

	done := make(chan error, 1)
	go func() {
		done <- m.Do(ctx, 1, func(s *Session) error {
			s.History = append(s.History, s.State)
			return nil
		})
	}()

	select {
	case <-done:
		close(unblock)
		t.Fatal("second call ran while the first held the chat")
	case <-time.After(50 * time.Millisecond):
	}

	close(unblock)
	require.NoError(t, <-held)
	require.NoError(t, <-done)

	s, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, s.History)
}

func TestManager_DoSerializesPerChat(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(ctx, 9, func(s *Session) error {
				s.PushHistory("x")
				return nil
			})
		}()
	}
	wg.Wait()

	s, err := m.Get(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, s.History, MaxHistory)

	// счётчик в поле проверяет, что ни одно обновление не потерялось
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(ctx, 10, func(s *Session) error {
				s.Page++
				return nil
			})
		}()
	}
	wg.Wait()

	s, err = m.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, workers, s.Page)
}

func TestManager_SweepKeepsPhone(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	require.NoError(t, m.Do(ctx, 1, func(s *Session) error {
		s.Phone = "+380501234567"
		s.State = "select_spot"
		s.PushHistory("select_city")
		return nil
	}))
	require.NoError(t, m.Merge(ctx, 2, map[string]string{"a": "1"}))

	m.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, m.Merge(ctx, 3, map[string]string{"a": "1"}))

	reset, err := m.Sweep(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, reset)
	assert.Len(t, store.sessions, 2)

	s, err := m.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "+380501234567", s.Phone)
	assert.Empty(t, s.State)
	assert.Empty(t, s.History)

	s, err = m.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "1", s.Field("a"))
}
