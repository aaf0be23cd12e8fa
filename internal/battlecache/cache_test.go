package battlecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, time.Minute)
}

func TestHistoryRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	recs := []game.BattleRecord{
		{AttackerID: 1, DefenderID: 2, WinnerID: 1, AttackerEloChange: 16, DefenderEloChange: -16, AIJudgment: "What a roar!"},
	}
	c.SetHistory(ctx, 1, recs)

	got, hit := c.GetHistory(ctx, 1)
	require.True(t, hit, "expected cache hit after set")
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].WinnerID)
	assert.Equal(t, 16, got[0].AttackerEloChange)
}

func TestHistoryMiss(t *testing.T) {
	c := newTestCache(t)

	_, hit := c.GetHistory(context.Background(), 42)
	assert.False(t, hit, "expected miss for unknown character")
}

func TestInvalidateHistory(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.SetHistory(ctx, 1, []game.BattleRecord{{AttackerID: 1, DefenderID: 2}})
	c.SetHistory(ctx, 2, []game.BattleRecord{{AttackerID: 1, DefenderID: 2}})

	c.InvalidateHistory(ctx, 1, 2)

	_, hit1 := c.GetHistory(ctx, 1)
	_, hit2 := c.GetHistory(ctx, 2)
	assert.False(t, hit1, "character 1 history must be dropped")
	assert.False(t, hit2, "character 2 history must be dropped")
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	_, hit := c.GetHistory(ctx, 1)
	assert.False(t, hit)
	c.SetHistory(ctx, 1, nil)
	c.InvalidateHistory(ctx, 1)
}
