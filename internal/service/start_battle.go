package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/engine"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrNotOwner          = errors.New("character not owned by caller")
	ErrSelfBattle        = errors.New("a character cannot battle itself")
)

// DailyLimitError reports a daily-limit rejection together with the limit
// that applied, so the API layer can tell players the number and point them
// at bot battles as the unlimited alternative.
type DailyLimitError struct {
	Limit int
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily battle limit of %d reached; battles against bots remain unlimited", e.Limit)
}

// BattleRepo is the minimal repository interface required by StartBattle.
// Using a small interface simplifies testing.
type BattleRepo interface {
	GetCharacterByID(id uint) (*game.Character, error)
	ApplyBattleOutcome(attacker, defender game.CharacterDelta, rec *game.BattleRecord, now time.Time) error
}

// LimitProvider supplies the current daily battle limit (settings cache).
type LimitProvider interface {
	DailyBattleLimit() int
}

// HistoryInvalidator drops cached battle-history views after a battle.
type HistoryInvalidator interface {
	InvalidateHistory(ctx context.Context, characterIDs ...uint)
}

// Battler wires the battle pipeline together. Now is injectable for
// day-boundary tests and defaults to time.Now.
type Battler struct {
	Repo    BattleRepo
	Judge   engine.JudgeClient
	Limits  LimitProvider
	History HistoryInvalidator
	Now     func() time.Time
}

type BattleRequest struct {
	AttackerID uint
	DefenderID uint
	// CallerID is the authenticated subject; the attacker must belong to it.
	CallerID string
}

// BattleResult is the committed outcome, with post-battle snapshots of both
// characters for the response.
type BattleResult struct {
	Record   game.BattleRecord
	Attacker game.Character
	Defender game.Character
	Winner   game.Side
}

// StartBattle runs one battle end to end: load both characters, enforce
// ownership and the daily-limit policy, judge the matchup, compute rating
// deltas and commit everything atomically. A judge failure is recovered via
// the deterministic fallback and never surfaces to the caller; every other
// failure aborts before anything is written.
func (b *Battler) StartBattle(ctx context.Context, req BattleRequest) (*BattleResult, error) {
	if req.AttackerID == req.DefenderID {
		return nil, ErrSelfBattle
	}

	attacker, err := b.loadActive(req.AttackerID)
	if err != nil {
		return nil, err
	}
	defender, err := b.loadActive(req.DefenderID)
	if err != nil {
		return nil, err
	}

	if attacker.OwnerID != req.CallerID {
		return nil, ErrNotOwner
	}

	now := b.now()
	limit := game.DefaultDailyBattleLimit
	if b.Limits != nil {
		limit = b.Limits.DailyBattleLimit()
	}
	if !engine.CanInitiateBattle(attacker, defender.IsBot, limit, now) {
		return nil, &DailyLimitError{Limit: limit}
	}

	verdict := engine.DecideWinner(ctx, b.Judge, contestant(attacker), contestant(defender))
	outcome := engine.ComputeOutcome(attacker, defender, verdict.Winner)

	winnerID := defender.ID
	if verdict.Winner == game.SideAttacker {
		winnerID = attacker.ID
	}

	rec := game.BattleRecord{
		AttackerID:          attacker.ID,
		DefenderID:          defender.ID,
		WinnerID:            winnerID,
		AttackerScoreChange: outcome.AttackerScoreDelta,
		DefenderScoreChange: outcome.DefenderScoreDelta,
		AttackerEloChange:   outcome.AttackerEloDelta,
		DefenderEloChange:   outcome.DefenderEloDelta,
		AIJudgment:          verdict.Judgment,
		AIReasoning:         verdict.Reasoning,
	}

	attackerDelta, defenderDelta := buildDeltas(attacker, defender, outcome, now)
	if err := b.Repo.ApplyBattleOutcome(attackerDelta, defenderDelta, &rec, now); err != nil {
		return nil, fmt.Errorf("failed to persist battle outcome: %w", err)
	}

	logging.Info("battle resolved", logging.Fields{
		constants.LogFieldAttackerID: attacker.ID,
		constants.LogFieldDefenderID: defender.ID,
		constants.LogFieldWinnerID:   winnerID,
	})

	// Best-effort cache invalidation after commit; completion is not
	// awaited and failure never affects the battle result.
	if b.History != nil {
		go func(aID, dID uint) {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			b.History.InvalidateHistory(cctx, aID, dID)
		}(attacker.ID, defender.ID)
	}

	result := &BattleResult{Record: rec, Winner: verdict.Winner}
	result.Attacker = projectAfterBattle(*attacker, attackerDelta, outcome.AttackerScoreDelta, outcome.AttackerEloDelta, now)
	result.Defender = projectAfterBattle(*defender, defenderDelta, outcome.DefenderScoreDelta, outcome.DefenderEloDelta, now)
	return result, nil
}

func (b *Battler) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Battler) loadActive(id uint) (*game.Character, error) {
	c, err := b.Repo.GetCharacterByID(id)
	if err != nil || c == nil {
		return nil, ErrCharacterNotFound
	}
	if !c.IsActive {
		return nil, ErrCharacterNotFound
	}
	return c, nil
}

// contestant builds the judge view of a character. A character whose animal
// no longer resolves in the catalog gets the documented default combat
// power instead of failing the whole battle.
func contestant(c *game.Character) engine.Contestant {
	power := c.CombatPower()
	if power == 0 {
		logging.Warn("character has no catalog stats, using default combat power", logging.Fields{
			constants.LogFieldCharacterID: c.ID,
			constants.LogFieldAnimal:      c.AnimalName,
		})
		power = engine.DefaultCombatPower
	}
	return engine.Contestant{
		Name:        c.DisplayName,
		Species:     c.AnimalName,
		BattleText:  c.BattleText,
		CombatPower: power,
	}
}

// buildDeltas turns the computed outcome into per-character increments.
// The attacker's daily counter is skipped for bot defenders; a rollover
// replaces the stale counter instead of incrementing it.
func buildDeltas(attacker, defender *game.Character, out engine.Outcome, now time.Time) (game.CharacterDelta, game.CharacterDelta) {
	a := game.CharacterDelta{
		CharacterID:      attacker.ID,
		ScoreDelta:       out.AttackerScoreDelta,
		EloDelta:         out.AttackerEloDelta,
		TotalActiveDelta: 1,
		StampBattleReset: true,
	}
	d := game.CharacterDelta{
		CharacterID:       defender.ID,
		ScoreDelta:        out.DefenderScoreDelta,
		EloDelta:          out.DefenderEloDelta,
		TotalPassiveDelta: 1,
	}

	if out.Winner == game.SideAttacker {
		a.WinsDelta, d.LossesDelta = 1, 1
	} else {
		a.LossesDelta, d.WinsDelta = 1, 1
	}

	if !defender.IsBot {
		a.ActiveTodayDelta = 1
	}
	if !engine.SameDay(attacker.LastBattleReset, now) {
		// Stored counter belongs to a previous day: replace, don't add.
		a.ResetDailyCount = true
	}
	return a, d
}

// projectAfterBattle produces the post-battle snapshot returned to the
// caller, mirroring the SQL increments applied by the repository.
func projectAfterBattle(c game.Character, d game.CharacterDelta, scoreDelta, eloDelta int, now time.Time) game.Character {
	c.BaseScore += scoreDelta
	c.EloScore += eloDelta
	c.Wins += d.WinsDelta
	c.Losses += d.LossesDelta
	if d.ResetDailyCount {
		c.ActiveBattlesToday = d.ActiveTodayDelta
	} else {
		c.ActiveBattlesToday += d.ActiveTodayDelta
	}
	c.TotalActiveBattles += d.TotalActiveDelta
	c.TotalPassiveBattles += d.TotalPassiveDelta
	if d.StampBattleReset {
		c.LastBattleReset = now
	}
	return c
}
