package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k1 := Key("/memory-blocks", map[string]string{"agent_id": "a1", "limit": "50"})
	k2 := Key("/memory-blocks", map[string]string{"limit": "50", "agent_id": "a1"})
	k3 := Key("/memory-blocks", map[string]string{"agent_id": "a2", "limit": "50"})

	assert.Equal(t, k1, k2, "parameter order must not matter")
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 64, "SHA-256 hex digest")
}

func TestStore(t *testing.T) {
	store, err := NewStore(t.TempDir(), true, 60)
	require.NoError(t, err)
	require.True(t, store.Enabled())

	key := Key("/agents", nil)

	t.Run("Miss", func(t *testing.T) {
		_, err := store.Get(key)
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("SetGet", func(t *testing.T) {
		require.NoError(t, store.Set(key, json.RawMessage(`{"items":[]}`)))

		entry, err := store.Get(key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[]}`, string(entry.Data))
		assert.False(t, entry.Expired())
		assert.GreaterOrEqual(t, entry.Age(), time.Duration(0))
	})

	t.Run("Count", func(t *testing.T) {
		count, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear())
		count, err := store.Count()
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		assert.ErrorIs(t, store.Set("", nil), ErrEmptyKey)
		_, err := store.Get("")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestStore_Expiry(t *testing.T) {
	// TTL of 0 seconds: entries expire immediately.
	store, err := NewStore(t.TempDir(), true, 0)
	require.NoError(t, err)

	key := Key("/keywords", nil)
	require.NoError(t, store.Set(key, json.RawMessage(`[]`)))

	time.Sleep(10 * time.Millisecond)
	_, err = store.Get(key)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestStore_Disabled(t *testing.T) {
	store, err := NewStore("", false, 60)
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	assert.ErrorIs(t, store.Set("k", nil), ErrDisabled)
	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = store.Count()
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, store.Clear(), ErrDisabled)
}

func TestNewStore_EmptyDirectory(t *testing.T) {
	_, err := NewStore("", true, 60)
	assert.Error(t, err)
}
