// Package settings provides a small TTL cache over the persisted settings
// row. The cache is an explicit object with an injected clock, owned by the
// composition root, so tests can drive expiry deterministically.
package settings

import (
	"sync"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
)

// Store is the minimal repository view the cache needs.
type Store interface {
	GetSettings() (*game.Settings, error)
}

type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	limit     int
	fetchedAt time.Time
	valid     bool
}

// NewCache wraps store with a TTL cache. A nil now defaults to time.Now.
func NewCache(store Store, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{store: store, ttl: ttl, now: now}
}

// DailyBattleLimit returns the current daily battle limit. Store errors and
// a missing settings row both fall back to the default of 10; errors are
// logged but never propagated, a stale or default limit is always usable.
func (c *Cache) DailyBattleLimit() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.valid && now.Sub(c.fetchedAt) < c.ttl {
		return c.limit
	}

	s, err := c.store.GetSettings()
	if err != nil {
		logging.Error("failed to load settings, using default limit", err, nil)
		if c.valid {
			return c.limit
		}
		return game.DefaultDailyBattleLimit
	}

	limit := game.DefaultDailyBattleLimit
	if s != nil && s.DailyBattleLimit > 0 {
		limit = s.DailyBattleLimit
	}
	c.limit = limit
	c.fetchedAt = now
	c.valid = true
	return limit
}
