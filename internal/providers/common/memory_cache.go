package common

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"songfinder/lyricsearch/internal/metrics"
)

const DefaultMemoryCacheEntries = 400

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
	expiresAt time.Time
}

// MemoryCache is the process-local Cache used when Redis is not configured.
// Values are stored JSON-encoded so callers never share memory with the cache.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryCacheEntries
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		metrics.CacheMissesTotal.Inc()
		return false, nil
	}
	if err := json.Unmarshal(entry.data, out); err != nil {
		metrics.CacheMissesTotal.Inc()
		return false, err
	}
	metrics.CacheHitsTotal.Inc()
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{data: data, updatedAt: now, expiresAt: now.Add(ttl)}
	c.trimLocked(now)
	return nil
}

func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// trimLocked drops expired entries, then the least recently written ones
// until the cache fits maxEntries.
func (c *MemoryCache) trimLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type pair struct {
		key       string
		updatedAt time.Time
	}
	items := make([]pair, 0, len(c.entries))
	for key, entry := range c.entries {
		items = append(items, pair{key: key, updatedAt: entry.updatedAt})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].updatedAt.Before(items[j].updatedAt)
	})
	for i := 0; i < len(items)-c.maxEntries; i++ {
		delete(c.entries, items[i].key)
	}
}
