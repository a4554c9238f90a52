package app

import (
	"time"

	"github.com/langflix/langflix-backend/internal/platform/logger"
	"github.com/langflix/langflix-backend/internal/utils"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port      string
	LogMode   string
	RedisAddr string
	FeedTTL   time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:      utils.GetEnv("PORT", "8080", log),
		LogMode:   utils.GetEnv("LOG_MODE", "development", log),
		RedisAddr: utils.GetEnv("REDIS_ADDR", "", log),
		FeedTTL:   utils.GetEnvAsDuration("FEED_CACHE_TTL", 5*time.Minute, log),
	}
}
