package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const leaderboardSize = 20

type CreateCharacterPayload struct {
	DisplayName string `json:"display_name"`
	AnimalName  string `json:"animal_name"`
	BattleText  string `json:"battle_text"`
}

type UpdateBattleTextPayload struct {
	BattleText string `json:"battle_text"`
}

// ListAnimals returns the configured animal catalog.
func (h *ArenaHandler) ListAnimals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"animals": h.catalog.Animals})
}

// CreateCharacter creates a character for the session user with the
// standard rating defaults.
func (h *ArenaHandler) CreateCharacter(c *gin.Context) {
	var req CreateCharacterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	if err := service.ValidateBattleText(req.BattleText); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrBattleTextLength})
		return
	}
	if !h.moderateOrAbort(c, req.BattleText) {
		return
	}

	char, err := service.CreateCharacter(h.repo, h.catalog, service.CreateCharacterRequest{
		OwnerID:     currentSubject(c),
		DisplayName: req.DisplayName,
		AnimalName:  req.AnimalName,
		BattleText:  req.BattleText,
	})
	switch {
	case errors.Is(err, service.ErrInvalidName):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNameExceeds})
	case errors.Is(err, service.ErrUnknownAnimal):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownAnimal})
	case errors.Is(err, service.ErrInvalidBattleText):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrBattleTextLength})
	case err != nil:
		logging.Error("character creation failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreate})
	default:
		out, merr := MarshalForContext(c, char)
		if merr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreate})
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// ListMyCharacters returns the session user's active characters.
func (h *ArenaHandler) ListMyCharacters(c *gin.Context) {
	chars, err := h.repo.GetCharactersByOwner(currentSubject(c))
	if err != nil {
		logging.Error("failed to list characters", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetch})
		return
	}
	out, merr := MarshalForContext(c, chars)
	if merr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetch})
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": out})
}

// GetCharacter returns one active character by id.
func (h *ArenaHandler) GetCharacter(c *gin.Context) {
	id, ok := characterIDParam(c)
	if !ok {
		return
	}
	char, err := h.repo.GetCharacterByID(id)
	if err != nil || char == nil || !char.IsActive {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		return
	}
	out, merr := MarshalForContext(c, char)
	if merr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetch})
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateBattleText replaces the battle text of an owned character.
func (h *ArenaHandler) UpdateBattleText(c *gin.Context) {
	id, ok := characterIDParam(c)
	if !ok {
		return
	}
	var req UpdateBattleTextPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if err := service.ValidateBattleText(req.BattleText); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrBattleTextLength})
		return
	}
	if !h.moderateOrAbort(c, req.BattleText) {
		return
	}

	err := service.UpdateBattleText(h.repo, id, currentSubject(c), req.BattleText)
	switch {
	case errors.Is(err, service.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotCharacterOwner})
	case errors.Is(err, service.ErrInvalidBattleText):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrBattleTextLength})
	case err != nil:
		logging.Error("battle text update failed", err, logging.Fields{constants.LogFieldCharacterID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdate})
	default:
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Battle text updated"})
	}
}

// DeleteCharacter soft-deletes an owned character.
func (h *ArenaHandler) DeleteCharacter(c *gin.Context) {
	id, ok := characterIDParam(c)
	if !ok {
		return
	}
	err := service.DeleteCharacter(h.repo, id, currentSubject(c))
	switch {
	case errors.Is(err, service.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotCharacterOwner})
	case err != nil:
		logging.Error("character delete failed", err, logging.Fields{constants.LogFieldCharacterID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedDelete})
	default:
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Character retired"})
	}
}

// ListLeaderboard returns the top characters by Elo rating.
func (h *ArenaHandler) ListLeaderboard(c *gin.Context) {
	chars, err := h.repo.GetLeaderboard(leaderboardSize)
	if err != nil {
		logging.Error("failed to fetch leaderboard", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	out, merr := MarshalForContext(c, chars)
	if merr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}

// moderateOrAbort runs the boolean content check and writes the rejection
// response when the text fails or the moderator is unreachable.
func (h *ArenaHandler) moderateOrAbort(c *gin.Context, text string) bool {
	if h.moderator == nil {
		return true
	}
	ok, err := h.moderator.ModerateText(c.Request.Context(), text)
	if err != nil {
		logging.Error("moderation check failed", err, nil)
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrModerationFailed})
		return false
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrBattleTextRejected})
		return false
	}
	return true
}

func characterIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("characterID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCharacterID})
		return 0, false
	}
	return uint(id), true
}
