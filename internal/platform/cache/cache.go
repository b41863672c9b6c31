// Package cache provides a process-wide, TTL-based response cache for
// idempotent read endpoints. Losing every entry is always safe: a miss only
// costs a recompute, never correctness.
package cache

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/grondverzet/machinery-cms/internal/platform/logger"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 60 * time.Second
)

type entry struct {
	payload     []byte
	contentType string
	expiresAt   time.Time
}

// ResponseCache memoizes rendered read responses keyed by normalized
// request signature. Safe for concurrent use.
type ResponseCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	scheduler  *cron.Cron
}

// New builds a cache and starts the background sweep job. Call Stop at
// shutdown to release the scheduler.
func New(defaultTTL, sweepInterval time.Duration) *ResponseCache {
	c := newWithClock(defaultTTL, time.Now)

	c.scheduler = cron.New(cron.WithSeconds())
	spec := fmt.Sprintf("@every %ds", int(sweepInterval.Seconds()))
	_, err := c.scheduler.AddFunc(spec, func() {
		removed := c.Sweep()
		if removed > 0 {
			logger.Info("cache sweep removed %d expired entries", removed)
		}
	})
	if err != nil {
		logger.Error("cache: failed to schedule sweep job", err)
	}
	c.scheduler.Start()
	return c
}

// newWithClock builds a cache without a sweep scheduler, with an injectable
// clock. Tests drive expiry and sweeping by hand.
func newWithClock(defaultTTL time.Duration, now func() time.Time) *ResponseCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &ResponseCache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        now,
	}
}

// Key derives the cache key from a request path and its query parameters.
// Query keys are sorted so that ?a=1&b=2 and ?b=2&a=1 share one entry.
func Key(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// Get returns the live payload for key, or ok=false on a miss or an expired
// entry. Expired entries are left for the sweep.
func (c *ResponseCache) Get(key string) (payload []byte, contentType string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key]
	if !found || !c.now().Before(e.expiresAt) {
		return nil, "", false
	}
	return e.payload, e.contentType, true
}

// Set stores payload under key with an absolute expiry of now+ttl.
// A non-positive ttl falls back to the cache default.
func (c *ResponseCache) Set(key string, payload []byte, contentType string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		payload:     payload,
		contentType: contentType,
		expiresAt:   c.now().Add(ttl),
	}
}

// Invalidate evicts every entry whose key contains pattern and reports how
// many were removed. Deliberately coarse: over-evicting beats stale reads
// after a write.
func (c *ResponseCache) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Flush removes all entries.
func (c *ResponseCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Sweep evicts expired entries and reports how many were removed.
func (c *ResponseCache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired ones included.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns a snapshot of all cache keys, for the admin stats endpoint.
func (c *ResponseCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stop halts the background sweep. Entries stay readable until expiry.
func (c *ResponseCache) Stop() {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
}
