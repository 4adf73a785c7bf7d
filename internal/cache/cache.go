// Package cache stores fused market snapshots keyed by canonical query,
// so re-analyzing an unchanged query skips the marketplace entirely.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/comparia/comparia/internal/model"
)

// Store defines the interface for snapshot caching
type Store interface {
	Get(key string) (*model.MarketSnapshot, bool)
	Set(key string, snap *model.MarketSnapshot, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SnapshotKey generates the cache key for one analysis. The valuation
// participates because it shapes the fused insights. Keys are hashed so
// query text never reaches a filename.
func SnapshotKey(query string, valuation int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", query, valuation)))
	return "comparia:v1:" + hex.EncodeToString(hash[:])
}

// New builds a store from configuration: nil when caching is disabled,
// memory-only when no directory is set, layered otherwise.
func New(cfg model.CacheConfig) Store {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemory(cfg.MemoryTTL, 10*time.Minute)
	}
	return NewLayered(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
