package api

import (
	"context"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/battlecache"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/config"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/service"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/storage"
)

// Moderator is the boolean pass/fail content check applied to battle text
// before it is stored.
type Moderator interface {
	ModerateText(ctx context.Context, text string) (bool, error)
}

// ArenaHandler groups all HTTP handlers of the battle backend.
type ArenaHandler struct {
	repo      storage.Repository
	battler   *service.Battler
	moderator Moderator
	history   *battlecache.Cache
	catalog   *config.LoadedConfig
}

// NewArenaHandler wires the handler with its collaborators. history may be
// nil when no Redis instance is configured; handlers then skip caching.
func NewArenaHandler(repo storage.Repository, battler *service.Battler, moderator Moderator, history *battlecache.Cache, catalog *config.LoadedConfig) *ArenaHandler {
	return &ArenaHandler{repo: repo, battler: battler, moderator: moderator, history: history, catalog: catalog}
}
