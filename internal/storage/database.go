package storage

import (
	"time"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database, keeps the schema updated via
// AutoMigrate and seeds bot characters plus the settings row on first run.
func OpenAndMigrate(dataSourceName string, catalog []game.Animal, dailyLimit int) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&game.Character{}, &game.BattleRecord{}, &game.Settings{}); err != nil {
		return nil, err
	}

	seedBotCharacters(db, catalog)
	seedSettings(db, dailyLimit)
	return db, nil
}

// seedBotCharacters creates one NPC per catalog animal when none exist yet.
// Bots start with the same rating defaults as players and use the catalog
// battle cry as their battle text.
func seedBotCharacters(db *gorm.DB, catalog []game.Animal) {
	var count int64
	db.Model(&game.Character{}).Where("is_bot = ?", true).Count(&count)
	if count > 0 {
		return
	}
	now := time.Now()
	bots := make([]game.Character, 0, len(catalog))
	for _, a := range catalog {
		cry := a.BattleCry
		if cry == "" {
			cry = "I am " + a.Name + ", champion of the wild arena!"
		}
		bots = append(bots, game.Character{
			OwnerID:         game.BotOwnerID,
			IsBot:           true,
			DisplayName:     a.Name,
			AnimalName:      a.Name,
			BattleText:      cry,
			BaseScore:       game.InitialBaseScore,
			EloScore:        game.InitialEloScore,
			LastBattleReset: now,
			IsActive:        true,
		})
	}
	if len(bots) == 0 {
		return
	}
	if err := db.Create(&bots).Error; err != nil {
		logging.Error("failed to seed bot characters", err, nil)
		return
	}
	logging.Info("seeded bot characters", logging.Fields{"count": len(bots)})
}

// seedSettings writes the configured daily battle limit on first run so it
// can later be changed without redeploying the config file.
func seedSettings(db *gorm.DB, dailyLimit int) {
	var count int64
	db.Model(&game.Settings{}).Count(&count)
	if count > 0 {
		return
	}
	if dailyLimit <= 0 {
		dailyLimit = game.DefaultDailyBattleLimit
	}
	if err := db.Create(&game.Settings{DailyBattleLimit: dailyLimit}).Error; err != nil {
		logging.Error("failed to seed settings", err, nil)
	}
}
