package api

import (
	"errors"
	"net/http"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

const historyPageSize = 50

type StartBattlePayload struct {
	AttackerID uint `json:"attacker_id"`
	DefenderID uint `json:"defender_id"`
}

// StartBattle runs one battle. Judge trouble is absorbed inside the
// pipeline, so a 200 here always carries a decided winner.
func (h *ArenaHandler) StartBattle(c *gin.Context) {
	var req StartBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	result, err := h.battler.StartBattle(c.Request.Context(), service.BattleRequest{
		AttackerID: req.AttackerID,
		DefenderID: req.DefenderID,
		CallerID:   currentSubject(c),
	})

	var limitErr *service.DailyLimitError
	switch {
	case errors.Is(err, service.ErrSelfBattle):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrSelfBattle})
	case errors.Is(err, service.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotCharacterOwner})
	case errors.As(err, &limitErr):
		c.JSON(http.StatusTooManyRequests, gin.H{constants.JSONKeyError: limitErr.Error()})
	case err != nil:
		logging.Error("battle failed", err, logging.Fields{
			constants.LogFieldAttackerID: req.AttackerID,
			constants.LogFieldDefenderID: req.DefenderID,
		})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrBattleFailed})
	default:
		out, merr := MarshalForContext(c, result)
		if merr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrBattleFailed})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetBattleHistory lists a character's battles, newest first, serving the
// cached view when one exists.
func (h *ArenaHandler) GetBattleHistory(c *gin.Context) {
	id, ok := characterIDParam(c)
	if !ok {
		return
	}
	char, err := h.repo.GetCharacterByID(id)
	if err != nil || char == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		return
	}

	ctx := c.Request.Context()
	if recs, hit := h.history.GetHistory(ctx, id); hit {
		c.JSON(http.StatusOK, gin.H{"battles": recs, "cached": true})
		return
	}

	recs, err := h.repo.GetBattleRecords(id, historyPageSize)
	if err != nil {
		logging.Error("failed to fetch battle history", err, logging.Fields{constants.LogFieldCharacterID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedHistory})
		return
	}
	h.history.SetHistory(ctx, id, recs)
	c.JSON(http.StatusOK, gin.H{"battles": recs, "cached": false})
}
