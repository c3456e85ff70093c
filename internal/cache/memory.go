package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"service-rates/internal/models"
)

type entry struct {
	report  models.AggregateReport
	savedAt time.Time
}

// MemoryCache keeps recently assembled reports in memory so repeated API
// reads do not re-hit the archive. Nothing is ever written to disk.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Key identifies a report by its request shape.
func Key(days int, currencies models.CurrencySet) string {
	return fmt.Sprintf("%d|%s", days, currencies)
}

func (c *MemoryCache) Get(_ context.Context, key string) (models.AggregateReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Since(e.savedAt) > c.ttl {
		return nil, false
	}
	return e.report, true
}

func (c *MemoryCache) Set(_ context.Context, key string, report models.AggregateReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{report: report, savedAt: time.Now()}
}

func (c *MemoryCache) ClearExpired(_ context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if time.Since(e.savedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
