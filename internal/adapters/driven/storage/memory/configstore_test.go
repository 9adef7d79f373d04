package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Typed(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("storage.dsn", "postgres://db"))
	require.NoError(t, s.Set("reconcile.workers", int64(4)))
	require.NoError(t, s.Set("queue.rate", 2.5))
	require.NoError(t, s.Set("queue.burst", 10))
	require.NoError(t, s.Set("reconcile.folder_usage", true))
	require.NoError(t, s.Set("lock.hosts", []any{"a", 1, "b"}))

	assert.Equal(t, "postgres://db", s.GetString("storage.dsn"))
	assert.Equal(t, 4, s.GetInt("reconcile.workers"))
	assert.Equal(t, 2.5, s.GetFloat("queue.rate"))
	assert.Equal(t, 10.0, s.GetFloat("queue.burst"))
	assert.Equal(t, 2, s.GetInt("queue.rate"))
	assert.True(t, s.GetBool("reconcile.folder_usage"))
	assert.Equal(t, []string{"a", "b"}, s.GetStringSlice("lock.hosts"))
}

func TestConfigStore_MissingAndWrongType(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("n", 1))

	_, ok := s.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, s.GetString("missing"))
	assert.Empty(t, s.GetString("n"))
	assert.Zero(t, s.GetInt("missing"))
	assert.Zero(t, s.GetFloat("missing"))
	assert.False(t, s.GetBool("n"))
	assert.Nil(t, s.GetStringSlice("n"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("k", "v"))
	assert.NoError(t, s.Save())
	assert.NoError(t, s.Load())
	assert.Equal(t, "v", s.GetString("k"))
	assert.Equal(t, ":memory:", s.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	s := NewConfigStore()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key.%d", i)
			_ = s.Set(key, i)
			assert.Equal(t, i, s.GetInt(key))
		}()
	}
	wg.Wait()
}
