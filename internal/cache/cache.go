// Package cache provides the process-local response cache consulted before
// any network call. Entries expire lazily: an expired entry is treated as
// absent on read, never actively evicted.
package cache

import (
	"sync"
	"time"
)

// Category buckets cached responses by how fast they go stale
type Category string

const (
	CategoryFixtures    Category = "fixtures"
	CategoryTeamStats   Category = "team_stats"
	CategoryLeagueStats Category = "league_stats"
	CategoryTeamInfo    Category = "team_info"
)

// TTL returns the freshness window for a category
func TTL(cat Category) time.Duration {
	switch cat {
	case CategoryFixtures:
		return 5 * time.Minute
	case CategoryTeamStats:
		return time.Hour
	case CategoryLeagueStats:
		return 2 * time.Hour
	case CategoryTeamInfo:
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}

type entry struct {
	value    any
	storedAt time.Time
	category Category
}

// Stats counts cache effectiveness since process start
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	Size   int   `json:"size"`
}

// Cache is a time-bounded key/value store. Pure function of time: no
// background sweeper, no persistence, never shared across processes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stats   Stats

	now func() time.Time
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the stored value when present and fresh. A value stored longer
// ago than the category TTL is a miss even though it was never deleted.
func (c *Cache) Get(key string, cat Category) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= TTL(cat) {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.value, true
}

// Put stores a value, replacing any previous value and timestamp for the key
func (c *Cache) Put(key string, cat Category, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, storedAt: c.now(), category: cat}
	c.stats.Sets++
}

// Stats returns a snapshot of hit/miss counters
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.stats
	s.Size = len(c.entries)
	return s
}
