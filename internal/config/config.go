package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Grid backends
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
)

// Config holds all application configuration
type Config struct {
	// Grid store
	GridBackend           string        `envconfig:"GRID_BACKEND" default:"sheets"`
	SheetsSpreadsheetID   string        `envconfig:"SHEETS_SPREADSHEET_ID"`
	SheetsSheetName       string        `envconfig:"SHEETS_SHEET_NAME" default:"Sheet1"`
	SheetsCredentialsFile string        `envconfig:"SHEETS_CREDENTIALS_FILE" default:"credentials.json"`
	SheetsTimeout         time.Duration `envconfig:"SHEETS_TIMEOUT" default:"30s"`
	SheetsMaxRetries      int           `envconfig:"SHEETS_MAX_RETRIES" default:"3"`
	WorkbookPath          string        `envconfig:"WORKBOOK_PATH" default:"predictions.xlsx"`

	// Sheet template layout. These describe one fixed sheet template and are
	// not derived from the grid.
	SheetIdentityColumn string `envconfig:"SHEET_IDENTITY_COLUMN" default:"B"`
	SheetIdentityRow    int    `envconfig:"SHEET_IDENTITY_FIRST_ROW" default:"2"`
	SheetHeaderColumn   string `envconfig:"SHEET_HEADER_COLUMN" default:"D"`
	SheetHeaderRow      int    `envconfig:"SHEET_HEADER_ROW" default:"1"`
	SheetRowOffset      int    `envconfig:"SHEET_ROW_OFFSET" default:"3"`
	SheetColumnOffset   int    `envconfig:"SHEET_COLUMN_OFFSET" default:"5"`

	// Directories and chat
	DirectoryFile string `envconfig:"DIRECTORY_FILE" default:""`
	ChatName      string `envconfig:"CHAT_NAME" default:"EM 2024 ⚽️"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"scoresheet"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"scoresheet_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	DedupeTTL     time.Duration `envconfig:"DEDUPE_TTL" default:"24h"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Webhook
	IngestionPort  int    `envconfig:"INGESTION_PORT" default:"8080"`
	WebhookEnabled bool   `envconfig:"WEBHOOK_ENABLED" default:"true"`
	WebhookSecret  string `envconfig:"WEBHOOK_SECRET" default:"change_me"`

	// Scheduler
	EnableScheduler      bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialReplayEnabled bool   `envconfig:"INITIAL_REPLAY_ENABLED" default:"true"`
	ReplayCron           string `envconfig:"REPLAY_CRON" default:"*/15 * * * *"`
	ReplayLimit          int    `envconfig:"REPLAY_LIMIT" default:"10"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.GridBackend {
	case BackendSheets:
		if c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the sheets backend")
		}
	case BackendXLSX:
		if c.WorkbookPath == "" {
			return fmt.Errorf("WORKBOOK_PATH is required for the xlsx backend")
		}
	default:
		return fmt.Errorf("GRID_BACKEND must be %q or %q, got %q", BackendSheets, BackendXLSX, c.GridBackend)
	}

	if c.SheetsSheetName == "" {
		return fmt.Errorf("SHEETS_SHEET_NAME is required")
	}

	if c.SheetIdentityRow < 1 || c.SheetHeaderRow < 1 {
		return fmt.Errorf("sheet layout rows must be positive")
	}

	if c.ReplayLimit < 1 {
		return fmt.Errorf("REPLAY_LIMIT must be at least 1")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.WebhookEnabled && c.WebhookSecret == "change_me" && c.AppEnv == "production" {
		return fmt.Errorf("WEBHOOK_SECRET must be changed in production")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
