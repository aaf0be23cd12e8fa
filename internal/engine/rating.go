package engine

import (
	"math"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

// Canonical rating constants. A second deployed variant used 50/-50 for the
// base score; that branch was dropped in favor of the 10/-5 set.
const (
	EloKFactor         = 32
	BaseScoreWinDelta  = 10
	BaseScoreLossDelta = -5
)

// Outcome holds the applied (post-clamp) deltas for one battle.
type Outcome struct {
	Winner game.Side

	AttackerScoreDelta int
	DefenderScoreDelta int
	AttackerEloDelta   int
	DefenderEloDelta   int
}

// EloDeltas computes the unclamped Elo changes for one battle using the
// logistic expectation with K=32. The result is rounded once and negated
// for the loser, so winnerDelta+loserDelta is always zero here; clamping
// happens later, against each character's current rating.
func EloDeltas(winnerRating, loserRating int) (winnerDelta, loserDelta int) {
	expected := 1.0 / (1.0 + math.Pow(10, float64(loserRating-winnerRating)/400.0))
	d := int(math.Round(EloKFactor * (1.0 - expected)))
	return d, -d
}

// ComputeOutcome derives both characters' score and Elo deltas from the
// winner decision. Deltas are clamped so the applied result never takes
// baseScore below 0 or eloScore below 1000.
func ComputeOutcome(attacker, defender *game.Character, winner game.Side) Outcome {
	out := Outcome{Winner: winner}

	aScore, dScore := BaseScoreLossDelta, BaseScoreWinDelta
	if winner == game.SideAttacker {
		aScore, dScore = BaseScoreWinDelta, BaseScoreLossDelta
	}
	out.AttackerScoreDelta = clampDelta(attacker.BaseScore, aScore, game.BaseScoreFloor)
	out.DefenderScoreDelta = clampDelta(defender.BaseScore, dScore, game.BaseScoreFloor)

	var winDelta, lossDelta int
	if winner == game.SideAttacker {
		winDelta, lossDelta = EloDeltas(attacker.EloScore, defender.EloScore)
		out.AttackerEloDelta = clampDelta(attacker.EloScore, winDelta, game.EloScoreFloor)
		out.DefenderEloDelta = clampDelta(defender.EloScore, lossDelta, game.EloScoreFloor)
	} else {
		winDelta, lossDelta = EloDeltas(defender.EloScore, attacker.EloScore)
		out.DefenderEloDelta = clampDelta(defender.EloScore, winDelta, game.EloScoreFloor)
		out.AttackerEloDelta = clampDelta(attacker.EloScore, lossDelta, game.EloScoreFloor)
	}
	return out
}

// clampDelta trims delta so current+delta stays at or above floor.
func clampDelta(current, delta, floor int) int {
	if current+delta < floor {
		return floor - current
	}
	return delta
}
