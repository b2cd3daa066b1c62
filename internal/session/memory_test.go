package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LoadMissingReturnsFresh(t *testing.T) {
	store := NewMemoryStore()

	s, err := store.Load(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), s.ChatID)
	assert.NotNil(t, s.Fields)
}

func TestMemoryStore_SaveCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New(1)
	s.SetField("k", "v")
	require.NoError(t, store.Save(ctx, s))

	s.SetField("k", "mutated")

	loaded, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "v", loaded.Field("k"))
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, New(1)))
	require.NoError(t, store.Delete(ctx, 1))
	assert.Empty(t, store.sessions)
}

func TestMemoryStore_ResetIdleKeepsPhone(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	old := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	known := New(1)
	known.Phone = "+380501234567"
	known.State = "select_spot"
	known.PushHistory("select_city")
	known.SetField("first_name", "Іван")
	known.UpdatedAt = old
	require.NoError(t, store.Save(ctx, known))

	anonymous := New(2)
	anonymous.State = "reg_first_name"
	anonymous.UpdatedAt = old
	require.NoError(t, store.Save(ctx, anonymous))

	fresh := New(3)
	fresh.State = "select_city"
	fresh.UpdatedAt = old.Add(time.Hour)
	require.NoError(t, store.Save(ctx, fresh))

	reset, err := store.ResetIdle(ctx, old.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, reset)

	s, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "+380501234567", s.Phone)
	assert.False(t, s.HasDialog())

	assert.NotContains(t, store.sessions, int64(2))

	s, err = store.Load(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "select_city", s.State)

	// повторный проход ничего не трогает
	reset, err = store.ResetIdle(ctx, old.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, reset)
}
