package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	values map[string]string
	calls  int
	err    error
}

func (s *countingStore) GetParameter(_ context.Context, name string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.values[name], nil
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore(context.Background(), 0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set("key", "value", time.Minute)

	value, ok := store.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", value)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get("key")
	assert.False(t, ok)

	store.Set("other", "x", time.Minute)
	store.Delete("other")
	_, ok = store.Get("other")
	assert.False(t, ok)
}

func TestCachedParameterStore(t *testing.T) {
	next := &countingStore{values: map[string]string{
		"/earnings-sentiment/dev/alpha-vantage-api-key": "demo",
	}}
	cached := NewCachedParameterStore(next, NewMemoryStore(context.Background(), 0), time.Minute)

	for i := 0; i < 3; i++ {
		value, err := cached.GetParameter(context.Background(), "/earnings-sentiment/dev/alpha-vantage-api-key")
		require.NoError(t, err)
		assert.Equal(t, "demo", value)
	}
	assert.Equal(t, 1, next.calls)

	// empty values are looked up every time
	for i := 0; i < 2; i++ {
		value, err := cached.GetParameter(context.Background(), "/earnings-sentiment/dev/earnings-data-bucket")
		require.NoError(t, err)
		assert.Empty(t, value)
	}
	assert.Equal(t, 3, next.calls)
}

func TestCachedParameterStore_Error(t *testing.T) {
	next := &countingStore{err: errors.New("redis down")}
	cached := NewCachedParameterStore(next, NewMemoryStore(context.Background(), 0), time.Minute)

	_, err := cached.GetParameter(context.Background(), "/p/e/x")
	assert.ErrorContains(t, err, "redis down")
}
