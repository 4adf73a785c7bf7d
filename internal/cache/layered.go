package cache

import (
	"time"

	"github.com/comparia/comparia/internal/model"
)

// Layered combines a memory store with a disk store. Reads check memory
// first and promote disk hits; writes land in both.
type Layered struct {
	memory Store
	disk   Store
}

// NewLayered creates a new layered store
func NewLayered(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *Layered {
	return &Layered{
		memory: NewMemory(memoryTTL, 10*time.Minute),
		disk:   NewDisk(diskDir, diskTTL),
	}
}

// Get retrieves a snapshot, checking memory before disk
func (l *Layered) Get(key string) (*model.MarketSnapshot, bool) {
	if snap, found := l.memory.Get(key); found {
		return snap, true
	}

	if snap, found := l.disk.Get(key); found {
		// Promote with the memory store's default TTL.
		_ = l.memory.Set(key, snap, 0)
		return snap, true
	}

	return nil, false
}

// Set stores a snapshot in both layers
func (l *Layered) Set(key string, snap *model.MarketSnapshot, ttl time.Duration) error {
	if err := l.memory.Set(key, snap, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, snap, ttl)
}

// Delete removes a snapshot from both layers
func (l *Layered) Delete(key string) error {
	_ = l.memory.Delete(key)
	_ = l.disk.Delete(key)
	return nil
}

// Clear removes all snapshots from both layers
func (l *Layered) Clear() error {
	_ = l.memory.Clear()
	return l.disk.Clear()
}
