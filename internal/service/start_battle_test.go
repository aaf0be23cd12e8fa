package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/engine"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"gorm.io/gorm"
)

func gormModel(id uint) gorm.Model { return gorm.Model{ID: id} }

type mockBattleRepo struct {
	chars map[uint]*game.Character

	applied         bool
	appliedAttacker game.CharacterDelta
	appliedDefender game.CharacterDelta
	savedRecord     *game.BattleRecord
	applyErr        error
}

func (m *mockBattleRepo) GetCharacterByID(id uint) (*game.Character, error) {
	if c, ok := m.chars[id]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func (m *mockBattleRepo) ApplyBattleOutcome(attacker, defender game.CharacterDelta, rec *game.BattleRecord, now time.Time) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = true
	m.appliedAttacker = attacker
	m.appliedDefender = defender
	m.savedRecord = rec
	return nil
}

type stubJudgeClient struct {
	verdict engine.AIVerdict
	err     error
}

func (s *stubJudgeClient) Judge(ctx context.Context, attacker, defender engine.Contestant) (engine.AIVerdict, error) {
	return s.verdict, s.err
}

type fixedLimit int

func (f fixedLimit) DailyBattleLimit() int { return int(f) }

type recordingInvalidator struct {
	done chan []uint
}

func (r *recordingInvalidator) InvalidateHistory(ctx context.Context, ids ...uint) {
	r.done <- ids
}

func testCharacter(id uint, owner string) *game.Character {
	return &game.Character{
		Model:           gormModel(id),
		OwnerID:         owner,
		DisplayName:     "Char" + string(rune('0'+id)),
		AnimalName:      "Lion",
		BattleText:      "I will roar louder than thunder!",
		BaseScore:       1000,
		EloScore:        1500,
		LastBattleReset: time.Now(),
		IsActive:        true,
		Stats:           game.AnimalStats{Power: 80, Defense: 60, Speed: 70, Intelligence: 50},
	}
}

func newTestBattler(repo *mockBattleRepo, judge engine.JudgeClient, limit int) *Battler {
	return &Battler{Repo: repo, Judge: judge, Limits: fixedLimit(limit)}
}

func TestStartBattle_AttackerWins(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	defender := testCharacter(2, "bob@example.com")
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender}}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "attacker", Judgment: "What a roar!", Reasoning: "Louder."}}

	b := newTestBattler(repo, judge, 10)
	res, err := b.StartBattle(context.Background(), BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !repo.applied {
		t.Fatalf("expected battle outcome to be persisted")
	}
	if res.Record.WinnerID != 1 {
		t.Fatalf("expected winner id 1, got %d", res.Record.WinnerID)
	}
	if repo.appliedAttacker.WinsDelta != 1 || repo.appliedDefender.LossesDelta != 1 {
		t.Fatalf("exactly the winner gains a win and the loser a loss")
	}
	if repo.appliedAttacker.LossesDelta != 0 || repo.appliedDefender.WinsDelta != 0 {
		t.Fatalf("no side may gain both a win and a loss")
	}
	if repo.appliedAttacker.ActiveTodayDelta != 1 {
		t.Fatalf("human defender must cost one daily battle, got %d", repo.appliedAttacker.ActiveTodayDelta)
	}
	if repo.appliedDefender.TotalPassiveDelta != 1 || repo.appliedAttacker.TotalActiveDelta != 1 {
		t.Fatalf("lifetime counters must increment unconditionally")
	}
	if res.Attacker.BaseScore != 1010 || res.Defender.BaseScore != 995 {
		t.Fatalf("expected base scores 1010/995, got %d/%d", res.Attacker.BaseScore, res.Defender.BaseScore)
	}
	if res.Attacker.EloScore != 1516 || res.Defender.EloScore != 1484 {
		t.Fatalf("expected Elo 1516/1484, got %d/%d", res.Attacker.EloScore, res.Defender.EloScore)
	}
}

func TestStartBattle_DailyLimit(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	attacker.ActiveBattlesToday = 9
	defender := testCharacter(2, "bob@example.com")
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender}}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "attacker"}}

	b := newTestBattler(repo, judge, 10)
	req := BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"}

	// Ninth battle of the day: allowed, counter reaches the limit.
	res, err := b.StartBattle(context.Background(), req)
	if err != nil {
		t.Fatalf("battle below the limit must be allowed: %v", err)
	}
	if res.Attacker.ActiveBattlesToday != 10 {
		t.Fatalf("expected daily counter 10, got %d", res.Attacker.ActiveBattlesToday)
	}

	// Simulate the committed counter, then the next attempt is rejected.
	attacker.ActiveBattlesToday = 10
	_, err = b.StartBattle(context.Background(), req)
	var limitErr *DailyLimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected DailyLimitError, got %v", err)
	}
	if limitErr.Limit != 10 {
		t.Fatalf("limit error must carry the configured limit, got %d", limitErr.Limit)
	}
	if !strings.Contains(limitErr.Error(), "bots") {
		t.Fatalf("limit error must mention the bot workaround: %q", limitErr.Error())
	}
}

func TestStartBattle_BotDefenderExempt(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	attacker.ActiveBattlesToday = 10
	bot := testCharacter(2, game.BotOwnerID)
	bot.IsBot = true
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: bot}}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "defender"}}

	b := newTestBattler(repo, judge, 10)
	res, err := b.StartBattle(context.Background(), BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"})
	if err != nil {
		t.Fatalf("bot battles must be allowed at the limit: %v", err)
	}
	if repo.appliedAttacker.ActiveTodayDelta != 0 {
		t.Fatalf("bot defender must not cost a daily battle, got delta %d", repo.appliedAttacker.ActiveTodayDelta)
	}
	if res.Attacker.ActiveBattlesToday != 10 {
		t.Fatalf("daily counter must stay at 10, got %d", res.Attacker.ActiveBattlesToday)
	}
	if repo.appliedAttacker.TotalActiveDelta != 1 {
		t.Fatalf("lifetime active counter still increments for bot battles")
	}
}

func TestStartBattle_DayRolloverResetsCounter(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	attacker.ActiveBattlesToday = 9
	attacker.LastBattleReset = time.Now().AddDate(0, 0, -3)
	defender := testCharacter(2, "bob@example.com")
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender}}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "attacker"}}

	b := newTestBattler(repo, judge, 10)
	res, err := b.StartBattle(context.Background(), BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"})
	if err != nil {
		t.Fatalf("stale counter must not block a new day: %v", err)
	}
	if !repo.appliedAttacker.ResetDailyCount {
		t.Fatalf("rollover must replace the stale counter, not increment it")
	}
	if res.Attacker.ActiveBattlesToday != 1 {
		t.Fatalf("expected daily counter 1 after rollover, got %d", res.Attacker.ActiveBattlesToday)
	}
}

func TestStartBattle_JudgeFailureStillSucceeds(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	attacker.BattleText = strings.Repeat("a", 90)
	defender := testCharacter(2, "bob@example.com")
	defender.BattleText = strings.Repeat("b", 15)
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender}}
	judge := &stubJudgeClient{err: errors.New("openai error: 503")}

	b := newTestBattler(repo, judge, 10)
	res, err := b.StartBattle(context.Background(), BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"})
	if err != nil {
		t.Fatalf("judge failure must degrade to fallback, not error: %v", err)
	}
	if res.Winner != game.SideAttacker {
		t.Fatalf("fallback must pick the longer text at equal power, got %s", res.Winner)
	}
	if strings.Contains(res.Record.AIJudgment, "503") {
		t.Fatalf("judge error details must never reach the record")
	}
	if !repo.applied {
		t.Fatalf("fallback outcome must still be persisted")
	}
}

func TestStartBattle_Preconditions(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	defender := testCharacter(2, "bob@example.com")
	retired := testCharacter(3, "carol@example.com")
	retired.IsActive = false
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender, 3: retired}}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "attacker"}}
	b := newTestBattler(repo, judge, 10)

	cases := []struct {
		name string
		req  BattleRequest
		want error
	}{
		{"self battle", BattleRequest{AttackerID: 1, DefenderID: 1, CallerID: "alice@example.com"}, ErrSelfBattle},
		{"missing defender", BattleRequest{AttackerID: 1, DefenderID: 99, CallerID: "alice@example.com"}, ErrCharacterNotFound},
		{"retired defender", BattleRequest{AttackerID: 1, DefenderID: 3, CallerID: "alice@example.com"}, ErrCharacterNotFound},
		{"wrong owner", BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "mallory@example.com"}, ErrNotOwner},
	}
	for _, tc := range cases {
		if _, err := b.StartBattle(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if repo.applied {
			t.Fatalf("%s: failed preconditions must not persist anything", tc.name)
		}
	}
}

func TestStartBattle_PersistFailureSurfaces(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	defender := testCharacter(2, "bob@example.com")
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender}, applyErr: errors.New("disk full")}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "attacker"}}

	b := newTestBattler(repo, judge, 10)
	if _, err := b.StartBattle(context.Background(), BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"}); err == nil {
		t.Fatalf("persistence failure must surface as an error")
	}
}

func TestStartBattle_InvalidatesHistoryAfterCommit(t *testing.T) {
	attacker := testCharacter(1, "alice@example.com")
	defender := testCharacter(2, "bob@example.com")
	repo := &mockBattleRepo{chars: map[uint]*game.Character{1: attacker, 2: defender}}
	judge := &stubJudgeClient{verdict: engine.AIVerdict{Winner: "attacker"}}
	inv := &recordingInvalidator{done: make(chan []uint, 1)}

	b := newTestBattler(repo, judge, 10)
	b.History = inv
	if _, err := b.StartBattle(context.Background(), BattleRequest{AttackerID: 1, DefenderID: 2, CallerID: "alice@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case ids := <-inv.done:
		if len(ids) != 2 {
			t.Fatalf("expected both participants invalidated, got %v", ids)
		}
	case <-time.After(time.Second):
		t.Fatalf("cache invalidation was never dispatched")
	}
}
