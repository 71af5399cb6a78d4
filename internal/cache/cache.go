// internal/cache/cache.go - Two-tier tile cache
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tileblend/internal"
	"tileblend/internal/config"
	"tileblend/internal/logging"
	"tileblend/internal/tile"
)

// Cache is the two-tier tile store: decoded tiles in memory plus raw
// payloads on disk, with network fetch as the fallback. A single
// reader/writer lock guards both tiers; a load holds it exclusively for
// the whole read-or-fetch-or-insert sequence, while rendering consumers
// share it through Get.
type Cache struct {
	mu   sync.RWMutex
	mem  map[tile.Address]*DecodedTile
	disk map[tile.Address]struct{}

	fetcher tile.Fetcher
	builder *Builder
	dir     string
	ext     string
}

// New creates the cache and scans the persistence directory once to learn
// which addresses already have valid-looking entries on disk. Filenames
// that do not match the key format are skipped silently.
func New(cfg *config.CacheConfig, fetcher tile.Fetcher, builder *Builder) (*Cache, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem,
			fmt.Sprintf("cannot create cache directory %s", cfg.Directory), err)
	}

	c := &Cache{
		mem:     make(map[tile.Address]*DecodedTile),
		disk:    make(map[tile.Address]struct{}),
		fetcher: fetcher,
		builder: builder,
		dir:     cfg.Directory,
		ext:     cfg.Extension,
	}

	entries, err := os.ReadDir(cfg.Directory)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeFileSystem,
			fmt.Sprintf("cannot scan cache directory %s", cfg.Directory), err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), c.ext) {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), c.ext)
		addr, err := tile.ParseCacheKey(stem)
		if err != nil {
			continue
		}
		c.disk[addr] = struct{}{}
	}

	logging.L().Debugf("cache scan found %d persisted tiles in %s", len(c.disk), cfg.Directory)
	return c, nil
}

// Get looks an address up in the in-memory tier only. It never blocks on
// I/O and returns false for tiles not yet loaded.
func (c *Cache) Get(addr tile.Address) (*DecodedTile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	decoded, ok := c.mem[addr]
	return decoded, ok
}

// DiskKnown reports whether the address is believed to have a valid
// persisted entry.
func (c *Cache) DiskKnown(addr tile.Address) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.disk[addr]
	return ok
}

// EnsureLoaded makes the tile available in memory. Idempotent: a memory
// hit returns immediately. A known disk entry is deserialized; if that
// fails the entry is evicted from the known-disk set and the tile is
// re-fetched from the network. Fetch, decode and persistence failures
// propagate to the caller and are not retried here.
func (c *Cache) EnsureLoaded(addr tile.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(addr)
}

// EnsureLoadedBatch applies EnsureLoaded to each address in order. The
// first failure aborts the batch; tiles loaded before the failure stay in
// the cache.
func (c *Cache) EnsureLoadedBatch(addrs []tile.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, addr := range addrs {
		if err := c.load(addr); err != nil {
			return err
		}
	}
	return nil
}

// load runs the full read-cache-or-fetch-or-insert sequence. Callers hold
// the exclusive lock.
func (c *Cache) load(addr tile.Address) error {
	if _, ok := c.mem[addr]; ok {
		return nil
	}

	if _, ok := c.disk[addr]; ok {
		if err := c.loadFromDisk(addr); err == nil {
			return nil
		} else {
			logging.L().WithField("tile", addr.String()).
				Infof("evicting corrupt disk cache entry: %v", err)
			delete(c.disk, addr)
		}
	}

	payload, err := c.fetcher.Fetch(addr)
	if err != nil {
		return err
	}

	decoded, err := c.builder.Build(addr, payload)
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.path(addr), payload, 0o644); err != nil {
		return internal.NewError(internal.ErrorCodeFileSystem,
			fmt.Sprintf("cannot persist tile %s", addr), err)
	}

	c.disk[addr] = struct{}{}
	c.mem[addr] = decoded
	logging.L().Debugf("fetched tile %s (%d bytes)", addr, len(payload))
	return nil
}

// loadFromDisk deserializes a persisted raw payload into memory
func (c *Cache) loadFromDisk(addr tile.Address) error {
	payload, err := os.ReadFile(c.path(addr))
	if err != nil {
		return err
	}
	decoded, err := c.builder.Build(addr, payload)
	if err != nil {
		return err
	}
	c.mem[addr] = decoded
	return nil
}

// path returns the persisted file location for an address
func (c *Cache) path(addr tile.Address) string {
	return filepath.Join(c.dir, addr.CacheKey()+c.ext)
}
