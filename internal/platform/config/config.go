// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the bot.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	BotToken    string `env:"BOT_TOKEN,required"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Feed fetching
	FeedBaseURL     string        `env:"FEED_BASE_URL" envDefault:"https://news.google.com/rss/search"`
	FeedTimeout     time.Duration `env:"FEED_TIMEOUT" envDefault:"30s"`
	DefaultLocation string        `env:"DEFAULT_LOCATION" envDefault:"US"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	// Recency filter
	RecencyWindow time.Duration `env:"RECENCY_WINDOW" envDefault:"48h"`

	// Clustering
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.5"`
	MaxClusters         int     `env:"MAX_CLUSTERS" envDefault:"10"`

	// Rendering. MessageBudget must stay below the Telegram hard limit of
	// 4096 characters per message.
	MessageBudget       int `env:"MESSAGE_BUDGET" envDefault:"3900"`
	MaxArticlesPerGroup int `env:"MAX_ARTICLES_PER_GROUP" envDefault:"5"`
	MaxSingletons       int `env:"MAX_SINGLETONS" envDefault:"10"`

	// Embeddings (semantic similarity). When no API key is set the
	// pipeline falls back to the lexical engine.
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingRateLimit  int    `env:"EMBEDDING_RATE_LIMIT" envDefault:"5"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	// Daily automatic updates
	DailyUpdateHour   int    `env:"DAILY_UPDATE_HOUR" envDefault:"7"`
	DailyUpdateMinute int    `env:"DAILY_UPDATE_MINUTE" envDefault:"0"`
	Timezone          string `env:"TIMEZONE" envDefault:"UTC"`

	// Database pool
	DBMaxConnections int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections int32         `env:"DB_MIN_CONNECTIONS" envDefault:"1"`
	DBConnLifetime   time.Duration `env:"DB_CONN_LIFETIME" envDefault:"1h"`
}

// Load reads configuration from the environment, consulting a local .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1], got %v", c.SimilarityThreshold)
	}

	if c.MessageBudget <= 0 {
		return fmt.Errorf("message budget must be positive, got %d", c.MessageBudget)
	}

	if c.DailyUpdateHour < 0 || c.DailyUpdateHour > 23 {
		return fmt.Errorf("daily update hour out of range: %d", c.DailyUpdateHour)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	return nil
}

// ScheduleLocation resolves the configured timezone.
func (c *Config) ScheduleLocation() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}
