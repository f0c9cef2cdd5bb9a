package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		store := NewMemoryStore()

		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("get miss", func(t *testing.T) {
		store := NewMemoryStore()

		_, err := store.Get(ctx, "nope")
		assert.True(t, IsCacheMiss(err))
	})

	t.Run("expired item is evicted on read", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Nanosecond))

		time.Sleep(time.Millisecond)

		_, err := store.Get(ctx, "k")
		assert.True(t, IsCacheMiss(err))
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

		_, err := store.Get(ctx, "k")
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Get(ctx, "k")
		assert.True(t, IsCacheMiss(err))
	})
}
