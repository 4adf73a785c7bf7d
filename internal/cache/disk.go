package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/comparia/comparia/internal/model"
)

// Disk persists snapshots as JSON files carrying their own expiry
type Disk struct {
	dir string
	ttl time.Duration
}

// NewDisk creates a new disk store rooted at dir
func NewDisk(dir string, ttl time.Duration) *Disk {
	return &Disk{
		dir: dir,
		ttl: ttl,
	}
}

type diskEntry struct {
	Snapshot  *model.MarketSnapshot `json:"snapshot"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Get retrieves a snapshot from disk
func (d *Disk) Get(key string) (*model.MarketSnapshot, bool) {
	path := d.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.Snapshot == nil || time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}

	return entry.Snapshot, true
}

// Set stores a snapshot on disk with the given TTL (0 = store default)
func (d *Disk) Set(key string, snap *model.MarketSnapshot, ttl time.Duration) error {
	if ttl == 0 {
		ttl = d.ttl
	}

	entry := diskEntry{
		Snapshot:  snap,
		ExpiresAt: time.Now().Add(ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	if err := os.WriteFile(d.path(key), data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	return nil
}

// Delete removes a snapshot from disk
func (d *Disk) Delete(key string) error {
	return os.Remove(d.path(key))
}

// Clear removes all cached files
func (d *Disk) Clear() error {
	return os.RemoveAll(d.dir)
}

// path generates the file path for a cache key
func (d *Disk) path(key string) string {
	return filepath.Join(d.dir, key+".cache")
}
