package cache

import (
	"context"
	"sync"
	"time"

	"github.com/johnquangdev/earnings-transcripts/pkg/config"
)

// MemoryStore is an in-memory key-value store with expiration
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store. Expired items are swept every
// cleanupInterval until ctx is done.
func NewMemoryStore(ctx context.Context, cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}

	if cleanupInterval > 0 {
		go store.cleanupExpired(ctx, cleanupInterval)
	}

	return store
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(key string, value string, expiration time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = memoryItem{
		value:      value,
		expireTime: ms.now().Add(expiration),
	}
}

// Get retrieves a value by key. Missing and expired keys report false.
func (ms *MemoryStore) Get(key string) (string, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists || ms.now().After(item.expireTime) {
		return "", false
	}

	return item.value, true
}

// Delete removes a key
func (ms *MemoryStore) Delete(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
}

func (ms *MemoryStore) cleanupExpired(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, item := range ms.items {
				if now.After(item.expireTime) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}

// CachedParameterStore serves parameters from memory for ttl before asking
// the underlying store again. Empty values are not cached so a parameter set
// after startup is picked up on the next lookup.
type CachedParameterStore struct {
	next  config.ParameterStore
	cache *MemoryStore
	ttl   time.Duration
}

var _ config.ParameterStore = (*CachedParameterStore)(nil)

// NewCachedParameterStore wraps next with a memory cache
func NewCachedParameterStore(next config.ParameterStore, cache *MemoryStore, ttl time.Duration) *CachedParameterStore {
	return &CachedParameterStore{next: next, cache: cache, ttl: ttl}
}

// GetParameter implements config.ParameterStore
func (s *CachedParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	if value, ok := s.cache.Get(name); ok {
		return value, nil
	}

	value, err := s.next.GetParameter(ctx, name)
	if err != nil {
		return "", err
	}
	if value != "" {
		s.cache.Set(name, value, s.ttl)
	}
	return value, nil
}
