package constants

// Centralized constants for headers, env keys and OpenAI integration.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvOpenAIAPIKey        = "OPENAI_API_KEY"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvArenaConfig         = "ARENA_CONFIG"
	EnvArenaDB             = "ARENA_DB"
	EnvRedisAddr           = "REDIS_ADDR"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI API endpoints and base URL
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"
	OpenAIModerationsPath     = "/v1/moderations"

	// OpenAI model names
	OpenAIChatModel       = "gpt-5-nano"
	OpenAIModerationModel = "omni-moderation-latest"

	// Session / Cookie names
	CookieSessionName = "arena_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteAnimals            = "/animals"
	RouteLeaderboard        = "/leaderboard"
	RouteVersion            = "/version"
	RouteCharacters         = "/characters"
	RouteCharacterByID      = "/characters/:characterID"
	RouteCharacterText      = "/characters/:characterID/battle-text"
	RouteCharacterBattles   = "/characters/:characterID/battles"
	RouteBattles            = "/battles"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrMissingGoogleEnv   = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidCharacterID = "Invalid character ID"
	ErrCharacterNotFound  = "Character not found"
	ErrNotCharacterOwner  = "You do not own this character"
	ErrNameRequired       = "Character name is required"
	ErrNameExceeds        = "Character name exceeds 32 characters"
	ErrUnknownAnimal      = "Unknown animal"
	ErrBattleTextLength   = "Battle text must be 10-100 characters"
	ErrBattleTextRejected = "Battle text was rejected by moderation"
	ErrModerationFailed   = "Could not verify battle text; try again"
	ErrFailedCreate       = "Failed to create character"
	ErrFailedFetch        = "Failed to fetch characters"
	ErrFailedUpdate       = "Failed to update character"
	ErrFailedDelete       = "Failed to delete character"
	ErrFailedLeaderboard  = "Failed to fetch leaderboard"
	ErrFailedHistory      = "Failed to fetch battle history"
	ErrSelfBattle         = "A character cannot battle itself"
	ErrBattleFailed       = "Battle could not be completed"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldCharacterID = "character_id"
	LogFieldAttackerID  = "attacker_id"
	LogFieldDefenderID  = "defender_id"
	LogFieldWinnerID    = "winner_id"
	LogFieldOwnerID     = "owner_id"
	LogFieldAnimal      = "animal"
	LogFieldKey         = "key"
	LogFieldSource      = "source"
	LogFieldAddr        = "addr"
)
