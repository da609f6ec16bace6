package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"route-insight-service/internal/domain"
	"route-insight-service/internal/ports"
)

// AddressCache maps normalized address strings to coordinates. It merges
// the bundled default dataset with a persisted overlay (overlay wins on
// key collision) and serves as the first two geocoding tiers.
// Safe for concurrent use.
type AddressCache struct {
	mu      sync.RWMutex
	entries map[string]domain.Coordinates
	store   ports.OverlayStore
	log     zerolog.Logger
}

func NewAddressCache(store ports.OverlayStore, log zerolog.Logger) *AddressCache {
	return &AddressCache{
		entries: map[string]domain.Coordinates{},
		store:   store,
		log:     log,
	}
}

// Load populates the cache: bundled defaults first, then the persisted
// overlay on top. An unreadable overlay is logged and skipped; the
// bundled defaults are always available.
func (c *AddressCache) Load(ctx context.Context) error {
	defaults, err := bundledEntries()
	if err != nil {
		return fmt.Errorf("load address cache: bundled dataset: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = defaults

	if c.store == nil {
		return nil
	}

	overlay, err := c.store.LoadAll(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("address cache overlay unreadable, using bundled defaults only")
		return nil
	}
	for k, v := range overlay {
		c.entries[k] = v
	}

	return nil
}

// Get returns the coordinates stored under the exact address key.
func (c *AddressCache) Get(address string) (domain.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coords, ok := c.entries[address]
	return coords, ok
}

// FindPartial scans for a case-insensitive partial match: the query must
// contain a cached key's first comma-segment, or the cached key must
// contain the query's first segment. A hit is copied under the queried
// address so later lookups are exact; the copy stays in memory only.
func (c *AddressCache) FindPartial(address string) (domain.Coordinates, bool) {
	queryLower := strings.ToLower(address)
	querySeg := strings.Split(queryLower, ",")[0]

	c.mu.Lock()
	defer c.mu.Unlock()

	for cached, coords := range c.entries {
		cachedLower := strings.ToLower(cached)
		cachedSeg := strings.Split(cachedLower, ",")[0]
		if strings.Contains(queryLower, cachedSeg) || strings.Contains(cachedLower, querySeg) {
			c.entries[address] = coords
			return coords, true
		}
	}

	return domain.Coordinates{}, false
}

// Put upserts an entry and persists the full merged mapping. Persistence
// failure is non-fatal: the in-memory entry stays authoritative for the
// rest of the process lifetime.
func (c *AddressCache) Put(ctx context.Context, address string, coords domain.Coordinates) {
	c.mu.Lock()
	c.entries[address] = coords
	snapshot := make(map[string]domain.Coordinates, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	if c.store == nil {
		return
	}

	if err := c.store.SaveAll(ctx, snapshot); err != nil {
		c.log.Warn().Err(err).Str("address", address).Msg("address cache persist failed")
	}
}

// Snapshot returns the current mapping as pretty-printed JSON in the
// bundled dataset format (address -> [lat, lon]), for operator inspection
// and manual promotion into the bundled defaults.
func (c *AddressCache) Snapshot() ([]byte, error) {
	c.mu.RLock()
	out := make(map[string][2]float64, len(c.entries))
	for k, v := range c.entries {
		out[k] = v.PairList()
	}
	c.mu.RUnlock()

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("snapshot address cache: %w", err)
	}
	return b, nil
}

// Len reports the current number of entries.
func (c *AddressCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
