package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/jorgeferrarice/resume-ai-api/internal/logger"
	"github.com/jorgeferrarice/resume-ai-api/internal/utils"
)

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string
	RateLimit      RateLimitConfig

	// Directory holding the persona background context markdown files.
	ContextDir string

	// How often the background conversation reaper runs, and the age
	// after which an idle conversation is reaped.
	CleanupInterval       time.Duration
	ConversationMaxAgeHrs int
}

// Load reads .env (when present) and assembles the runtime configuration.
func Load(log *logger.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded", "error", err)
	}

	return &Config{
		Port:           utils.GetEnv("PORT", "3000", log),
		Env:            utils.GetEnv("APP_ENV", "development", log),
		AllowedOrigins: utils.GetEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"}, log),
		RateLimit: RateLimitConfig{
			Window: time.Duration(utils.GetEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15, log)) * time.Minute,
			Max:    utils.GetEnvAsInt("RATE_LIMIT_MAX", 100, log),
		},
		ContextDir:            utils.GetEnv("CONTEXT_DIR", "lib", log),
		CleanupInterval:       time.Duration(utils.GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 60, log)) * time.Minute,
		ConversationMaxAgeHrs: utils.GetEnvAsInt("CONVERSATION_MAX_AGE_HOURS", 24, log),
	}
}
