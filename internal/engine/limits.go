package engine

import (
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

// EffectiveBattlesToday evaluates the attacker's daily counter after the
// day-rollover check: a LastBattleReset stamped before today's local day
// boundary means the stored raw counter no longer counts.
func EffectiveBattlesToday(c *game.Character, now time.Time) int {
	if !SameDay(c.LastBattleReset, now) {
		return 0
	}
	return c.ActiveBattlesToday
}

// SameDay reports whether both instants fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// CanInitiateBattle enforces the daily-limit policy. Bot defenders are
// always exempt, so players can keep practicing against NPCs at the cap.
func CanInitiateBattle(attacker *game.Character, defenderIsBot bool, limit int, now time.Time) bool {
	if defenderIsBot {
		return true
	}
	return EffectiveBattlesToday(attacker, now) < limit
}
