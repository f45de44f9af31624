package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string `validate:"omitempty,uri"`
	Port         string `validate:"required,numeric"`
	IsProduction bool
	JWTSecret    string `validate:"required"`

	// External rate provider
	TwelveDataBaseURL string `validate:"required,url"`
	TwelveDataAPIKey  string
	// ProviderBackoffBase is the unit wait after a provider rate-limit
	// response; attempt n waits n * base.
	ProviderBackoffBase time.Duration `validate:"gt=0"`
	// ProviderMaxAttempts bounds in-call retries on rate-limit responses.
	ProviderMaxAttempts int `validate:"gte=1,lte=10"`

	// Job pipeline policy
	JobMaxRetries     int           `validate:"gte=1,lte=20"`
	JobStaleAfter     time.Duration `validate:"gt=0"`
	WorkerConcurrency int           `validate:"gte=1,lte=64"`
	WorkerBatchLimit  int           `validate:"gte=1,lte=500"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("TWELVE_API_BASE_URL", "https://api.twelvedata.com")
	viper.SetDefault("TWELVE_API_KEY", "")
	viper.SetDefault("PROVIDER_BACKOFF_BASE", "61s")
	viper.SetDefault("PROVIDER_MAX_ATTEMPTS", 3)
	viper.SetDefault("JOB_MAX_RETRIES", 5)
	viper.SetDefault("JOB_STALE_AFTER", "30m")
	viper.SetDefault("WORKER_CONCURRENCY", 4)
	viper.SetDefault("WORKER_BATCH_LIMIT", 25)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.TwelveDataBaseURL = viper.GetString("TWELVE_API_BASE_URL")
	cfg.TwelveDataAPIKey = viper.GetString("TWELVE_API_KEY")
	if cfg.TwelveDataAPIKey == "" {
		log.Println("Warning: TWELVE_API_KEY not set. Rate fetching will fail against the live provider.")
	}

	cfg.ProviderBackoffBase = parseDurationOr(viper.GetString("PROVIDER_BACKOFF_BASE"), 61*time.Second, "PROVIDER_BACKOFF_BASE")
	cfg.ProviderMaxAttempts = viper.GetInt("PROVIDER_MAX_ATTEMPTS")
	cfg.JobMaxRetries = viper.GetInt("JOB_MAX_RETRIES")
	cfg.JobStaleAfter = parseDurationOr(viper.GetString("JOB_STALE_AFTER"), 30*time.Minute, "JOB_STALE_AFTER")
	cfg.WorkerConcurrency = viper.GetInt("WORKER_CONCURRENCY")
	cfg.WorkerBatchLimit = viper.GetInt("WORKER_BATCH_LIMIT")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func parseDurationOr(value string, fallback time.Duration, name string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", name, value, fallback)
		return fallback
	}
	return d
}
