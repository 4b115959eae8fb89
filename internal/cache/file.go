package cache

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"football-data-collector/internal/logging"
)

// FileCache keeps one <key>.json file per entry under a directory. The
// payload is the raw upstream JSON verbatim; entry validity is decided
// by file modification time against the TTL, not by anything embedded
// in the file.
type FileCache struct {
	dir string

	mu  sync.Mutex
	ttl time.Duration
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string, ttl time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, ttl: ttl}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached payload if the file exists and is younger than
// the TTL.
func (c *FileCache) Get(key string) ([]byte, bool) {
	info, err := os.Stat(c.path(key))
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.TTL() {
		return nil, false
	}

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		logging.WithComponent("cache").WithError(err).Warn("reading cache entry")
		return nil, false
	}
	return data, true
}

// Set writes the payload; a write failure is logged and ignored.
func (c *FileCache) Set(key string, payload []byte) {
	if err := os.WriteFile(c.path(key), payload, 0o644); err != nil {
		logging.WithComponent("cache").WithError(err).Warn("writing cache entry")
	}
}

// TTL returns the current entry lifetime.
func (c *FileCache) TTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl
}

// SetTTL changes the entry lifetime. Callers that want a longer window
// for slow-moving data (leagues) swap the TTL around a fetch.
func (c *FileCache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	c.ttl = ttl
	c.mu.Unlock()
}
