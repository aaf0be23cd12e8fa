package main

import (
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/config"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{"config_path": path, "hint": "create an arena_config.json with an 'animal_list' array of animal objects (name,power,defense,speed,intelligence,battle_cry) and optional keys: server.address, judge_prompt, daily_battle_limit"})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string, cfg *config.LoadedConfig) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, cfg.Animals, cfg.DailyBattleLimit)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db, cfg.Animals)
}
