package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

type mockCharacterRepo struct {
	created     *game.Character
	chars       map[uint]*game.Character
	updatedText string
	deactivated uint
}

func (m *mockCharacterRepo) CreateCharacter(c *game.Character) error {
	m.created = c
	return nil
}

func (m *mockCharacterRepo) GetCharacterByID(id uint) (*game.Character, error) {
	if c, ok := m.chars[id]; ok {
		return c, nil
	}
	return nil, errors.New("not found")
}

func (m *mockCharacterRepo) UpdateBattleText(id uint, text string) error {
	m.updatedText = text
	return nil
}

func (m *mockCharacterRepo) DeactivateCharacter(id uint) error {
	m.deactivated = id
	return nil
}

type mapCatalog map[string]game.Animal

func (m mapCatalog) AnimalByName(name string) (game.Animal, bool) {
	a, ok := m[name]
	return a, ok
}

var testCatalog = mapCatalog{
	"Lion": {Name: "Lion", Stats: game.AnimalStats{Power: 80, Defense: 60, Speed: 70, Intelligence: 50}},
}

func TestCreateCharacter_Defaults(t *testing.T) {
	repo := &mockCharacterRepo{}
	c, err := CreateCharacter(repo, testCatalog, CreateCharacterRequest{
		OwnerID:     "alice@example.com",
		DisplayName: "Leo the Brave",
		AnimalName:  "Lion",
		BattleText:  "I will roar louder than thunder!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseScore != 1000 || c.EloScore != 1500 {
		t.Fatalf("expected rating defaults 1000/1500, got %d/%d", c.BaseScore, c.EloScore)
	}
	if !c.IsActive || c.IsBot {
		t.Fatalf("new characters must be active non-bots")
	}
	if repo.created == nil {
		t.Fatalf("character was not persisted")
	}
}

func TestCreateCharacter_Validation(t *testing.T) {
	repo := &mockCharacterRepo{}
	base := CreateCharacterRequest{
		OwnerID:     "alice@example.com",
		DisplayName: "Leo",
		AnimalName:  "Lion",
		BattleText:  "I will roar louder than thunder!",
	}

	req := base
	req.AnimalName = "Dragon"
	if _, err := CreateCharacter(repo, testCatalog, req); !errors.Is(err, ErrUnknownAnimal) {
		t.Fatalf("expected ErrUnknownAnimal, got %v", err)
	}

	req = base
	req.BattleText = "too short"
	if _, err := CreateCharacter(repo, testCatalog, req); !errors.Is(err, ErrInvalidBattleText) {
		t.Fatalf("expected ErrInvalidBattleText for short text, got %v", err)
	}

	req = base
	req.BattleText = strings.Repeat("x", 101)
	if _, err := CreateCharacter(repo, testCatalog, req); !errors.Is(err, ErrInvalidBattleText) {
		t.Fatalf("expected ErrInvalidBattleText for long text, got %v", err)
	}

	req = base
	req.DisplayName = strings.Repeat("n", 33)
	if _, err := CreateCharacter(repo, testCatalog, req); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestUpdateBattleText_OwnerOnly(t *testing.T) {
	c := testCharacter(1, "alice@example.com")
	repo := &mockCharacterRepo{chars: map[uint]*game.Character{1: c}}

	if err := UpdateBattleText(repo, 1, "mallory@example.com", "a perfectly fine battle cry"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := UpdateBattleText(repo, 1, "alice@example.com", "a perfectly fine battle cry"); err != nil {
		t.Fatalf("owner update must succeed: %v", err)
	}
	if repo.updatedText != "a perfectly fine battle cry" {
		t.Fatalf("text was not persisted, got %q", repo.updatedText)
	}
}

func TestDeleteCharacter_SoftDeletesOwned(t *testing.T) {
	c := testCharacter(4, "alice@example.com")
	repo := &mockCharacterRepo{chars: map[uint]*game.Character{4: c}}

	if err := DeleteCharacter(repo, 4, "alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deactivated != 4 {
		t.Fatalf("expected character 4 deactivated, got %d", repo.deactivated)
	}

	c.IsActive = false
	if err := DeleteCharacter(repo, 4, "alice@example.com"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("retired characters must read as not found, got %v", err)
	}
}
