package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

type mockStore struct {
	settings *game.Settings
	err      error
	calls    int
}

func (m *mockStore) GetSettings() (*game.Settings, error) {
	m.calls++
	return m.settings, m.err
}

func TestCache_ServesWithinTTL(t *testing.T) {
	store := &mockStore{settings: &game.Settings{DailyBattleLimit: 5}}
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := NewCache(store, time.Minute, clock)

	if got := c.DailyBattleLimit(); got != 5 {
		t.Fatalf("expected limit 5, got %d", got)
	}
	now = now.Add(30 * time.Second)
	if got := c.DailyBattleLimit(); got != 5 {
		t.Fatalf("expected cached limit 5, got %d", got)
	}
	if store.calls != 1 {
		t.Fatalf("expected a single store fetch within the TTL, got %d", store.calls)
	}
}

func TestCache_RefreshesAfterTTL(t *testing.T) {
	store := &mockStore{settings: &game.Settings{DailyBattleLimit: 5}}
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewCache(store, time.Minute, func() time.Time { return now })

	c.DailyBattleLimit()
	store.settings = &game.Settings{DailyBattleLimit: 7}

	now = now.Add(61 * time.Second)
	if got := c.DailyBattleLimit(); got != 7 {
		t.Fatalf("expected refreshed limit 7, got %d", got)
	}
	if store.calls != 2 {
		t.Fatalf("expected a second fetch after expiry, got %d calls", store.calls)
	}
}

func TestCache_DefaultWhenAbsent(t *testing.T) {
	c := NewCache(&mockStore{}, time.Minute, nil)
	if got := c.DailyBattleLimit(); got != game.DefaultDailyBattleLimit {
		t.Fatalf("missing settings row must yield the default, got %d", got)
	}
}

func TestCache_StoreErrorFallsBack(t *testing.T) {
	store := &mockStore{err: errors.New("db locked")}
	c := NewCache(store, time.Minute, nil)
	if got := c.DailyBattleLimit(); got != game.DefaultDailyBattleLimit {
		t.Fatalf("store errors must yield the default, got %d", got)
	}
}

func TestCache_StoreErrorKeepsLastValue(t *testing.T) {
	store := &mockStore{settings: &game.Settings{DailyBattleLimit: 8}}
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewCache(store, time.Minute, func() time.Time { return now })

	c.DailyBattleLimit()
	store.err = errors.New("db locked")
	now = now.Add(2 * time.Minute)

	if got := c.DailyBattleLimit(); got != 8 {
		t.Fatalf("a stale limit beats the default when the store fails, got %d", got)
	}
}
