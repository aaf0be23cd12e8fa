package main

import (
	"os"

	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/aijudge"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/api"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/battlecache"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/constants"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/logging"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/service"
	"github.com/jaeho-jang-dr/animal-text-battle-sub000/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret, constants.EnvOpenAIAPIKey})

	// Animal catalog and server tunables. Path may be provided via
	// ARENA_CONFIG or defaults to ./arena_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvArenaConfig)
	if configPath == "" {
		configPath = "./arena_config.json"
	}
	cfg := loadConfigOrExit(configPath)

	// Allow the DB path to be configured via ARENA_DB. Default to a
	// `data/` directory for local development.
	dbPath := os.Getenv(constants.EnvArenaDB)
	if dbPath == "" {
		dbPath = "./data/arena.db"
	}
	repo := createRepositoryOrExit(dbPath, cfg)

	limits := settings.NewCache(repo, cfg.SettingsCacheTTL, nil)
	judge := aijudge.NewClient(cfg.JudgePromptTemplate)

	// Battle-history caching is optional; without REDIS_ADDR the history
	// endpoint reads straight from the database.
	var history *battlecache.Cache
	if addr := os.Getenv(constants.EnvRedisAddr); addr != "" {
		history = battlecache.New(addr, cfg.HistoryCacheTTL)
		logging.Info("battle history cache enabled", logging.Fields{constants.LogFieldAddr: addr})
	}

	battler := &service.Battler{Repo: repo, Judge: judge, Limits: limits}
	if history != nil {
		battler.History = history
	}

	handler := api.NewArenaHandler(repo, battler, judge, history, cfg)
	authHandler := api.NewAuthHandler()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteAnimals, handler.ListAnimals)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteCharacters, handler.CreateCharacter)
		protected.GET(constants.RouteCharacters, handler.ListMyCharacters)
		protected.GET(constants.RouteCharacterByID, handler.GetCharacter)
		protected.PUT(constants.RouteCharacterText, handler.UpdateBattleText)
		protected.DELETE(constants.RouteCharacterByID, handler.DeleteCharacter)
		protected.POST(constants.RouteBattles, handler.StartBattle)
		protected.GET(constants.RouteCharacterBattles, handler.GetBattleHistory)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
