package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/game"
)

type animalEntry struct {
	Name         string `json:"name"`
	Power        int    `json:"power"`
	Defense      int    `json:"defense"`
	Speed        int    `json:"speed"`
	Intelligence int    `json:"intelligence"`
	BattleCry    string `json:"battle_cry"`
}

type rawConfig struct {
	AnimalList []animalEntry `json:"animal_list"`
	Server     *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Optional prompt template used when asking the AI judge for a verdict.
	// Use the tokens {{attacker_name}}, {{attacker_species}},
	// {{attacker_text}}, {{defender_name}}, {{defender_species}} and
	// {{defender_text}}. If not provided, a sensible default is used.
	JudgePrompt string `json:"judge_prompt"`
	// DailyBattleLimit seeds the persisted settings row on first start.
	DailyBattleLimit int `json:"daily_battle_limit"`
	// SettingsCacheTTLSeconds bounds how long the settings cache may serve
	// a stale daily limit. Defaults to 60.
	SettingsCacheTTLSeconds int `json:"settings_cache_ttl_seconds"`
	// HistoryCacheTTLSeconds bounds cached battle-history views. Defaults
	// to 300.
	HistoryCacheTTLSeconds int `json:"history_cache_ttl_seconds"`
}

// LoadedConfig contains the animal catalog and server tunables.
type LoadedConfig struct {
	Animals             []game.Animal
	ServerAddress       string
	JudgePromptTemplate string
	DailyBattleLimit    int
	SettingsCacheTTL    time.Duration
	HistoryCacheTTL     time.Duration
}

// AnimalByName returns the catalog entry for name (case-insensitive) or
// false when the animal is unknown.
func (c *LoadedConfig) AnimalByName(name string) (game.Animal, bool) {
	for _, a := range c.Animals {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return game.Animal{}, false
}

// LoadConfig reads the configuration file at path. It requires the key
// `animal_list` (snake_case) with at least one valid entry.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	entries := rc.AnimalList
	if len(entries) == 0 {
		return nil, fmt.Errorf("config file %s: animal_list is empty (provide 'animal_list' array)", path)
	}

	out := make([]game.Animal, 0, len(entries))
	nameSet := make(map[string]struct{}, len(entries))
	for _, a := range entries {
		if a.Name == "" {
			return nil, fmt.Errorf("config file %s: animal entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(a.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate animal name '%s'", path, a.Name)
		}
		nameSet[ln] = struct{}{}
		if a.Power < 0 || a.Defense < 0 || a.Speed < 0 || a.Intelligence < 0 {
			return nil, fmt.Errorf("config file %s: animal '%s' has negative stats", path, a.Name)
		}
		if a.BattleCry != "" {
			if n := utf8.RuneCountInString(a.BattleCry); n < 10 || n > 100 {
				return nil, fmt.Errorf("config file %s: animal '%s' battle_cry must be 10-100 characters", path, a.Name)
			}
		}
		out = append(out, game.Animal{
			Name: a.Name,
			Stats: game.AnimalStats{
				Power:        a.Power,
				Defense:      a.Defense,
				Speed:        a.Speed,
				Intelligence: a.Intelligence,
			},
			BattleCry: a.BattleCry,
		})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	dailyLimit := rc.DailyBattleLimit
	if dailyLimit <= 0 {
		dailyLimit = game.DefaultDailyBattleLimit
	}
	settingsTTL := 60 * time.Second
	if rc.SettingsCacheTTLSeconds > 0 {
		settingsTTL = time.Duration(rc.SettingsCacheTTLSeconds) * time.Second
	}
	historyTTL := 300 * time.Second
	if rc.HistoryCacheTTLSeconds > 0 {
		historyTTL = time.Duration(rc.HistoryCacheTTLSeconds) * time.Second
	}

	return &LoadedConfig{
		Animals:             out,
		ServerAddress:       addr,
		JudgePromptTemplate: strings.TrimSpace(rc.JudgePrompt),
		DailyBattleLimit:    dailyLimit,
		SettingsCacheTTL:    settingsTTL,
		HistoryCacheTTL:     historyTTL,
	}, nil
}
