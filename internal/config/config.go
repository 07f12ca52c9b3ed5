package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tropicaldog17/folio/internal/db"
)

// Storage backends understood by Load.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Market    MarketConfig
	Scheduler SchedulerConfig
	LogEnv    string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string
}

// StorageConfig selects where the portfolio snapshot lives
type StorageConfig struct {
	Backend  string
	FilePath string
	Database db.Config
}

// MarketConfig configures quote providers
type MarketConfig struct {
	CoinGeckoBaseURL string
	EquityQuoteURL   string
	EquityQuotePath  string
	QuoteTTL         time.Duration
}

// SchedulerConfig configures background jobs
type SchedulerConfig struct {
	Enabled           bool
	RecurringSchedule string
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("QUOTE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", ""),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
			FilePath: getEnv("STORAGE_FILE", "./data/portfolio.json"),
			Database: db.Config{
				Host:       getEnv("DB_HOST", "localhost"),
				Port:       getEnv("DB_PORT", "5433"),
				User:       getEnv("DB_USER", "folio_user"),
				Password:   getEnv("DB_PASSWORD", "folio_password"),
				Name:       getEnv("DB_NAME", "folio"),
				SSLMode:    getEnv("DB_SSL_MODE", "disable"),
				SQLitePath: getEnv("SQLITE_PATH", "./data/portfolio.db"),
			},
		},
		Market: MarketConfig{
			CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
			EquityQuoteURL:   getEnv("EQUITY_QUOTE_URL", ""),
			EquityQuotePath:  getEnv("EQUITY_QUOTE_PATH", "$.price"),
			QuoteTTL:         ttl,
		},
		Scheduler: SchedulerConfig{
			Enabled:           getEnv("SCHEDULER_ENABLED", "true") == "true",
			RecurringSchedule: getEnv("RECURRING_SCHEDULE", "0 0 6 * * *"),
		},
		LogEnv: getEnv("LOG_ENV", os.Getenv("APP_ENV")),
	}

	switch cfg.Storage.Backend {
	case StorageFile, StorageSQLite, StoragePostgres:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend != StorageFile {
		cfg.Storage.Database.Driver = cfg.Storage.Backend
	}

	cfg.Server.Addr = fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
