package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

var (
	ErrInvalidName       = errors.New("character name must be 1-32 characters")
	ErrUnknownAnimal     = errors.New("unknown animal")
	ErrInvalidBattleText = errors.New("battle text must be 10-100 characters")
)

// CharacterRepo is the repository slice used by character operations.
type CharacterRepo interface {
	CreateCharacter(c *game.Character) error
	GetCharacterByID(id uint) (*game.Character, error)
	UpdateBattleText(id uint, text string) error
	DeactivateCharacter(id uint) error
}

// AnimalCatalog resolves an animal name to its catalog entry.
type AnimalCatalog interface {
	AnimalByName(name string) (game.Animal, bool)
}

type CreateCharacterRequest struct {
	OwnerID     string
	DisplayName string
	AnimalName  string
	BattleText  string
}

// CreateCharacter validates the request and persists a new character with
// the standard rating defaults. Battle text moderation is the caller's
// responsibility and must have passed before this is invoked.
func CreateCharacter(repo CharacterRepo, catalog AnimalCatalog, req CreateCharacterRequest) (*game.Character, error) {
	name := strings.TrimSpace(req.DisplayName)
	if n := utf8.RuneCountInString(name); n < 1 || n > 32 {
		return nil, ErrInvalidName
	}
	animal, ok := catalog.AnimalByName(req.AnimalName)
	if !ok {
		return nil, ErrUnknownAnimal
	}
	if err := ValidateBattleText(req.BattleText); err != nil {
		return nil, err
	}

	c := &game.Character{
		OwnerID:     req.OwnerID,
		DisplayName: name,
		AnimalName:  animal.Name,
		BattleText:  strings.TrimSpace(req.BattleText),
		BaseScore:   game.InitialBaseScore,
		EloScore:    game.InitialEloScore,
		IsActive:    true,
	}
	if err := repo.CreateCharacter(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ValidateBattleText enforces the 10-100 character rule.
func ValidateBattleText(text string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < 10 || n > 100 {
		return ErrInvalidBattleText
	}
	return nil
}

// UpdateBattleText replaces a character's battle text after ownership and
// length checks. Moderation must have passed before this is invoked.
func UpdateBattleText(repo CharacterRepo, characterID uint, callerID, text string) error {
	c, err := repo.GetCharacterByID(characterID)
	if err != nil || c == nil || !c.IsActive {
		return ErrCharacterNotFound
	}
	if c.OwnerID != callerID {
		return ErrNotOwner
	}
	if err := ValidateBattleText(text); err != nil {
		return err
	}
	return repo.UpdateBattleText(characterID, strings.TrimSpace(text))
}

// DeleteCharacter soft-deletes a character owned by the caller. The row is
// kept so past battle records stay resolvable.
func DeleteCharacter(repo CharacterRepo, characterID uint, callerID string) error {
	c, err := repo.GetCharacterByID(characterID)
	if err != nil || c == nil || !c.IsActive {
		return ErrCharacterNotFound
	}
	if c.OwnerID != callerID {
		return ErrNotOwner
	}
	return repo.DeactivateCharacter(characterID)
}
