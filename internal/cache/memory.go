package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/comparia/comparia/internal/model"
)

// Memory holds snapshots in process memory
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a new in-memory store
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	return &Memory{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a snapshot from the store
func (m *Memory) Get(key string) (*model.MarketSnapshot, bool) {
	if val, found := m.cache.Get(key); found {
		if snap, ok := val.(*model.MarketSnapshot); ok {
			return snap, true
		}
	}
	return nil, false
}

// Set stores a snapshot with the given TTL (0 = store default)
func (m *Memory) Set(key string, snap *model.MarketSnapshot, ttl time.Duration) error {
	m.cache.Set(key, snap, ttl)
	return nil
}

// Delete removes a snapshot from the store
func (m *Memory) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}

// Clear removes all snapshots from the store
func (m *Memory) Clear() error {
	m.cache.Flush()
	return nil
}
