package engine

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
)

// Contestant carries the judge-relevant view of one combatant.
type Contestant struct {
	Name        string
	Species     string
	BattleText  string
	CombatPower int
}

// Verdict is the engine's final decision for one battle.
type Verdict struct {
	Winner    game.Side
	Judgment  string
	Reasoning string
}

// AIVerdict is the raw response from the external generative judge, before
// the winner label has been validated.
type AIVerdict struct {
	Winner    string
	Judgment  string
	Reasoning string
}

// JudgeClient is the external generative judge. It may fail (timeout,
// quota, malformed payload); the engine never retries and degrades to the
// deterministic fallback instead.
type JudgeClient interface {
	Judge(ctx context.Context, attacker, defender Contestant) (AIVerdict, error)
}

// Fallback scoring weights: battle text dominates, combat power is a
// minority input. normalizedCombatPower = combatPower / 400 * 100.
const (
	fallbackTextWeight  = 0.8
	fallbackPowerWeight = 0.2
	fallbackTextCap     = 100.0
	combatPowerScale    = 400.0
)

// DefaultCombatPower substitutes for characters whose animal no longer
// resolves in the catalog, so a single corrupt record cannot fail battles.
const DefaultCombatPower = 200

// DecideWinner produces a verdict for the matchup. The AI judge is the
// primary path; any call failure or unusable winner label degrades to the
// deterministic fallback. The returned verdict always names one of the two
// sides, never a draw.
func DecideWinner(ctx context.Context, client JudgeClient, attacker, defender Contestant) Verdict {
	if client != nil {
		v, err := client.Judge(ctx, attacker, defender)
		if err == nil {
			if side, ok := resolveWinnerLabel(v.Winner, attacker, defender); ok {
				return Verdict{Winner: side, Judgment: v.Judgment, Reasoning: v.Reasoning}
			}
			// Successful but malformed response: log the label instead of
			// silently defaulting, then decide deterministically.
			logging.Warn("ai judge returned unrecognized winner label", logging.Fields{"winner": v.Winner})
		} else {
			logging.Error("ai judge unavailable, using fallback", err, nil)
		}
	}
	return fallbackVerdict(attacker, defender)
}

// resolveWinnerLabel maps the AI's free-form winner label onto one of the
// two known sides. Accepts the side keywords or either contestant's name.
func resolveWinnerLabel(label string, attacker, defender Contestant) (game.Side, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	switch s {
	case string(game.SideAttacker):
		return game.SideAttacker, true
	case string(game.SideDefender):
		return game.SideDefender, true
	}
	if s != "" {
		if strings.EqualFold(s, attacker.Name) {
			return game.SideAttacker, true
		}
		if strings.EqualFold(s, defender.Name) {
			return game.SideDefender, true
		}
	}
	return "", false
}

// FallbackScore is the deterministic per-side score used when the AI judge
// is unavailable. Text length is a monotonic quality proxy capped at 100.
func FallbackScore(c Contestant) float64 {
	quality := float64(utf8.RuneCountInString(c.BattleText))
	if quality > fallbackTextCap {
		quality = fallbackTextCap
	}
	power := float64(c.CombatPower) / combatPowerScale * 100
	return fallbackTextWeight*quality + fallbackPowerWeight*power
}

// fallbackVerdict picks the side with the strictly greater fallback score.
// Ties go to the defender. The judgment is a generic flavor message; the
// failure that got us here is never shown to players.
func fallbackVerdict(attacker, defender Contestant) Verdict {
	winner := game.SideDefender
	name := defender.Name
	if FallbackScore(attacker) > FallbackScore(defender) {
		winner = game.SideAttacker
		name = attacker.Name
	}
	return Verdict{
		Winner:    winner,
		Judgment:  fmt.Sprintf("The arena referee watched both battle cries closely and declared %s the winner!", name),
		Reasoning: "Decided by battle cry strength and combat power.",
	}
}
