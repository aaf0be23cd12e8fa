package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"gorm.io/gorm"
)

var ErrCharacterMissing = errors.New("character not found")

type sqliteRepository struct {
	db *gorm.DB
	// configByName maps lowercase animal name -> catalog definition. The
	// config file is the source of truth for stats, so they are resolved
	// here at the persistence boundary instead of being stored.
	configByName map[string]game.Animal
}

func NewSQLiteRepository(db *gorm.DB, catalog []game.Animal) Repository {
	m := make(map[string]game.Animal, len(catalog))
	for _, a := range catalog {
		m[strings.ToLower(a.Name)] = a
	}
	return &sqliteRepository{db: db, configByName: m}
}

// resolveStats fills the in-memory catalog stats for a loaded character.
// Unknown animals leave zero stats; the engine substitutes a documented
// default combat power rather than failing the battle.
func (r *sqliteRepository) resolveStats(c *game.Character) {
	if conf, ok := r.configByName[strings.ToLower(c.AnimalName)]; ok {
		c.Stats = conf.Stats
	}
}

func (r *sqliteRepository) CreateCharacter(c *game.Character) error {
	if err := r.db.Create(c).Error; err != nil {
		return err
	}
	r.resolveStats(c)
	return nil
}

func (r *sqliteRepository) GetCharacterByID(id uint) (*game.Character, error) {
	var c game.Character
	if err := r.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterMissing
		}
		return nil, err
	}
	r.resolveStats(&c)
	return &c, nil
}

func (r *sqliteRepository) GetCharactersByOwner(ownerID string) ([]game.Character, error) {
	var chars []game.Character
	if err := r.db.Where("owner_id = ? AND is_active = ?", ownerID, true).Order("created_at asc").Find(&chars).Error; err != nil {
		return nil, err
	}
	for i := range chars {
		r.resolveStats(&chars[i])
	}
	return chars, nil
}

func (r *sqliteRepository) UpdateBattleText(id uint, text string) error {
	res := r.db.Model(&game.Character{}).Where("id = ?", id).Update("battle_text", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCharacterMissing
	}
	return nil
}

func (r *sqliteRepository) DeactivateCharacter(id uint) error {
	res := r.db.Model(&game.Character{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCharacterMissing
	}
	return nil
}

func (r *sqliteRepository) GetLeaderboard(limit int) ([]game.Character, error) {
	var chars []game.Character
	if err := r.db.Where("is_active = ?", true).Order("elo_score desc").Limit(limit).Find(&chars).Error; err != nil {
		return nil, err
	}
	for i := range chars {
		r.resolveStats(&chars[i])
	}
	return chars, nil
}

// ApplyBattleOutcome applies both characters' deltas and appends the battle
// record inside one transaction. Numeric fields use SQL increment
// expressions uniformly, so concurrent battles touching the same character
// (two challengers of one defender) never lose counter updates. Floors are
// re-applied in SQL as a final guard against racing clamps.
func (r *sqliteRepository) ApplyBattleOutcome(attacker, defender game.CharacterDelta, rec *game.BattleRecord, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range []game.CharacterDelta{attacker, defender} {
			updates := map[string]interface{}{
				"base_score":            gorm.Expr("MAX(base_score + ?, ?)", d.ScoreDelta, game.BaseScoreFloor),
				"elo_score":             gorm.Expr("MAX(elo_score + ?, ?)", d.EloDelta, game.EloScoreFloor),
				"wins":                  gorm.Expr("wins + ?", d.WinsDelta),
				"losses":                gorm.Expr("losses + ?", d.LossesDelta),
				"total_active_battles":  gorm.Expr("total_active_battles + ?", d.TotalActiveDelta),
				"total_passive_battles": gorm.Expr("total_passive_battles + ?", d.TotalPassiveDelta),
			}
			if d.ResetDailyCount {
				updates["active_battles_today"] = d.ActiveTodayDelta
			} else {
				updates["active_battles_today"] = gorm.Expr("active_battles_today + ?", d.ActiveTodayDelta)
			}
			if d.StampBattleReset {
				updates["last_battle_reset"] = now
			}
			res := tx.Model(&game.Character{}).Where("id = ?", d.CharacterID).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrCharacterMissing
			}
		}
		return tx.Create(rec).Error
	})
}

func (r *sqliteRepository) GetBattleRecords(characterID uint, limit int) ([]game.BattleRecord, error) {
	var recs []game.BattleRecord
	q := r.db.Where("attacker_id = ? OR defender_id = ?", characterID, characterID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) GetSettings() (*game.Settings, error) {
	var s game.Settings
	if err := r.db.First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
