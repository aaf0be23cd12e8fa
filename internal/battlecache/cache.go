// Package battlecache caches battle-history views in Redis. The cache is
// strictly best-effort: every failure is logged and swallowed, battles are
// never blocked or failed by cache trouble.
package battlecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/keys"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to the Redis instance at addr.
func New(addr string, ttl time.Duration) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// NewWithClient wraps an existing client (used by tests with miniredis).
func NewWithClient(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetHistory returns the cached battle history for a character, or
// ok=false on miss or any cache error.
func (c *Cache) GetHistory(ctx context.Context, characterID uint) ([]game.BattleRecord, bool) {
	if c == nil {
		return nil, false
	}
	key := keys.HistoryCacheKey(characterID)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Error("battle history cache read failed", err, logging.Fields{"key": key})
		}
		return nil, false
	}
	var recs []game.BattleRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		logging.Error("battle history cache payload corrupt", err, logging.Fields{"key": key})
		return nil, false
	}
	return recs, true
}

// SetHistory stores a character's battle history with the configured TTL.
func (c *Cache) SetHistory(ctx context.Context, characterID uint, recs []game.BattleRecord) {
	if c == nil {
		return
	}
	key := keys.HistoryCacheKey(characterID)
	data, err := json.Marshal(recs)
	if err != nil {
		logging.Error("battle history cache encode failed", err, logging.Fields{"key": key})
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logging.Error("battle history cache write failed", err, logging.Fields{"key": key})
	}
}

// InvalidateHistory drops the cached history view for each character.
// Called fire-and-forget after a battle commits.
func (c *Cache) InvalidateHistory(ctx context.Context, characterIDs ...uint) {
	if c == nil || len(characterIDs) == 0 {
		return
	}
	ks := make([]string, 0, len(characterIDs))
	for _, id := range characterIDs {
		ks = append(ks, keys.HistoryCacheKey(id))
	}
	if err := c.rdb.Del(ctx, ks...).Err(); err != nil {
		logging.Error("battle history cache invalidation failed", err, logging.Fields{"keys": ks})
	}
}
