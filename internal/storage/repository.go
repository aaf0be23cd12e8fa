package storage

import (
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

type Repository interface {
	CreateCharacter(c *game.Character) error
	// GetCharacterByID returns the character with catalog stats resolved.
	// Soft-deleted characters are still returned; callers decide whether
	// IsActive matters for their operation.
	GetCharacterByID(id uint) (*game.Character, error)
	GetCharactersByOwner(ownerID string) ([]game.Character, error)
	UpdateBattleText(id uint, text string) error
	// DeactivateCharacter soft-deletes: the row stays for battle history.
	DeactivateCharacter(id uint) error
	// GetLeaderboard returns the top active characters by Elo rating.
	GetLeaderboard(limit int) ([]game.Character, error)

	// ApplyBattleOutcome submits both character updates and the new battle
	// record as a single transaction: readers never observe one side's
	// rating updated without the other, or the record without either.
	ApplyBattleOutcome(attacker, defender game.CharacterDelta, rec *game.BattleRecord, now time.Time) error
	// GetBattleRecords lists battles the character took part in, newest
	// first. Records are append-only; no update or delete path exists.
	GetBattleRecords(characterID uint, limit int) ([]game.BattleRecord, error)

	// GetSettings returns the settings row, or nil when none exists yet.
	GetSettings() (*game.Settings, error)
}
