package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// Ledger settings
	BaseCurrencyCode  string // business base currency; all entries balance in it
	BaseCurrencyScale int    // fixed decimal scale for base amounts
	EntryNumberPrefix string // prefix of generated entry numbers

	// Posting conflict retries
	PostingMaxRetries   int
	PostingRetryBackoff time.Duration

	// Rate limiting, ulule/limiter formatted (e.g. "300-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("BASE_CURRENCY_CODE", "USD")
	viper.SetDefault("BASE_CURRENCY_SCALE", 2)
	viper.SetDefault("ENTRY_NUMBER_PREFIX", "JE")
	viper.SetDefault("POSTING_MAX_RETRIES", 3)
	viper.SetDefault("POSTING_RETRY_BACKOFF", "50ms")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	cfg.BaseCurrencyCode = viper.GetString("BASE_CURRENCY_CODE")
	cfg.BaseCurrencyScale = viper.GetInt("BASE_CURRENCY_SCALE")
	if cfg.BaseCurrencyScale < 0 || cfg.BaseCurrencyScale > 8 {
		log.Printf("Warning: BASE_CURRENCY_SCALE %d out of range. Defaulting to 2.\n", cfg.BaseCurrencyScale)
		cfg.BaseCurrencyScale = 2
	}

	cfg.EntryNumberPrefix = viper.GetString("ENTRY_NUMBER_PREFIX")

	cfg.PostingMaxRetries = viper.GetInt("POSTING_MAX_RETRIES")
	if cfg.PostingMaxRetries < 1 {
		cfg.PostingMaxRetries = 1
	}

	backoffStr := viper.GetString("POSTING_RETRY_BACKOFF")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil {
		backoff = 50 * time.Millisecond
		log.Printf("Warning: Invalid value for POSTING_RETRY_BACKOFF (%q). Defaulting to %s.\n", backoffStr, backoff)
	}
	cfg.PostingRetryBackoff = backoff

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
