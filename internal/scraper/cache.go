package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

// Fetcher is anything that turns a widget URL into totals
type Fetcher interface {
	FetchTotals(ctx context.Context, rawURL string) totals.Result
}

type cacheEntry struct {
	result   totals.Result
	cachedAt time.Time
}

// Cache keeps successful results per URL for TTL so repeated proxy requests
// don't each hit the widget host. Failures are never cached. Expired entries
// are swept on insert at most once per TTL, so distinct URLs that are never
// requested again do not accumulate.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	entries   map[string]cacheEntry
	lastSweep time.Time
}

// NewCache wraps fetcher with a TTL cache
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// FetchTotals returns a fresh cached result for rawURL or fetches a new one
func (c *Cache) FetchTotals(ctx context.Context, rawURL string) totals.Result {
	if r, ok := c.get(rawURL); ok {
		logger.IncrCounter("scraper.cache_hits")
		return r
	}

	r := c.fetcher.FetchTotals(ctx, rawURL)
	if r.Success {
		c.put(rawURL, r)
	}
	return r
}

func (c *Cache) put(rawURL string, r totals.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > c.ttl {
		if removed := c.cleanExpired(now); removed > 0 {
			logger.Debug("swept expired cache entries", logger.Fields{"removed": removed})
		}
		c.lastSweep = now
	}
	c.entries[rawURL] = cacheEntry{result: r, cachedAt: now}
}

func (c *Cache) get(rawURL string) (totals.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[rawURL]
	if !ok {
		return totals.Result{}, false
	}
	if c.now().Sub(e.cachedAt) > c.ttl {
		delete(c.entries, rawURL)
		return totals.Result{}, false
	}
	return e.result, true
}

// CleanExpired removes expired entries and returns how many were dropped
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleanExpired(c.now())
}

func (c *Cache) cleanExpired(now time.Time) int {
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of cached entries
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
