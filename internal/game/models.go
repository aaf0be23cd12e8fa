package game

import (
	"time"

	"gorm.io/gorm"
)

// Rating constants shared by the engine and the storage layer. Floors are
// enforced when deltas are applied, never earlier.
const (
	InitialBaseScore = 1000
	InitialEloScore  = 1500
	BaseScoreFloor   = 0
	EloScoreFloor    = 1000
)

// BotOwnerID is the sentinel owner for NPC characters. Bots never log in;
// they exist to be challenged without spending the daily limit.
const BotOwnerID = "bot"

// Side identifies one of the two combatants in a battle.
type Side string

const (
	SideAttacker Side = "attacker"
	SideDefender Side = "defender"
)

// Character is one player- or bot-controlled combatant.
type Character struct {
	gorm.Model
	OwnerID     string `json:"owner_id" gorm:"index"`
	IsBot       bool   `json:"is_bot"`
	DisplayName string `json:"display_name" gorm:"size:32"`
	// AnimalName references an entry in the configured animal catalog.
	// The catalog (config file) is the source of truth for combat stats,
	// so stats themselves are never persisted.
	AnimalName string `json:"animal_name" gorm:"index"`
	// BattleText is the short line judged in duels. Owner-editable,
	// 10-100 characters, moderation-checked before it is stored.
	BattleText string `json:"battle_text" gorm:"size:100"`

	BaseScore int `json:"base_score"`
	EloScore  int `json:"elo_score"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`

	// ActiveBattlesToday counts battles this character initiated since its
	// last day boundary; the raw value is only meaningful together with
	// LastBattleReset (see engine.EffectiveBattlesToday).
	ActiveBattlesToday  int       `json:"active_battles_today"`
	TotalActiveBattles  int       `json:"total_active_battles"`
	TotalPassiveBattles int       `json:"total_passive_battles"`
	LastBattleReset     time.Time `json:"last_battle_reset"`

	// IsActive=false marks a soft-deleted character. Battles require both
	// sides active; only explicit admin action removes rows.
	IsActive bool `json:"is_active"`

	// Stats are resolved from the animal catalog at the persistence
	// boundary and intentionally not stored (gorm:"-").
	Stats AnimalStats `json:"stats" gorm:"-"`
}

func (Character) TableName() string { return "characters" }

// CombatPower is the scalar fallback-judge input: the plain sum of the
// four catalog stats.
func (c *Character) CombatPower() int { return c.Stats.CombatPower() }

// BattleRecord is the immutable, append-only account of one resolved
// battle. Score/Elo changes are the applied (post-clamp) deltas.
type BattleRecord struct {
	gorm.Model
	AttackerID uint `json:"attacker_id" gorm:"index"`
	DefenderID uint `json:"defender_id" gorm:"index"`
	WinnerID   uint `json:"winner_id"`

	AttackerScoreChange int `json:"attacker_score_change"`
	DefenderScoreChange int `json:"defender_score_change"`
	AttackerEloChange   int `json:"attacker_elo_change"`
	DefenderEloChange   int `json:"defender_elo_change"`

	AIJudgment  string `json:"ai_judgment" gorm:"size:2048"`
	AIReasoning string `json:"ai_reasoning" gorm:"size:2048"`
}

func (BattleRecord) TableName() string { return "battle_records" }

// CharacterDelta describes the increments one battle applies to a single
// character. The storage layer turns these into SQL increment expressions
// so concurrent battles against the same character never lose updates.
type CharacterDelta struct {
	CharacterID uint

	ScoreDelta int
	EloDelta   int

	WinsDelta   int
	LossesDelta int

	ActiveTodayDelta  int
	TotalActiveDelta  int
	TotalPassiveDelta int

	// ResetDailyCount replaces active_battles_today with ActiveTodayDelta
	// instead of incrementing it (day-boundary rollover).
	ResetDailyCount bool
	// StampBattleReset updates last_battle_reset to the battle time.
	StampBattleReset bool
}

// Settings is the single persisted settings row. Absence means defaults.
type Settings struct {
	gorm.Model
	DailyBattleLimit int `json:"daily_battle_limit"`
}

func (Settings) TableName() string { return "arena_settings" }

// DefaultDailyBattleLimit applies when no settings row exists or the
// stored value is unusable.
const DefaultDailyBattleLimit = 10
