package config

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/giftswap/internal/client/storage"
	"github.com/dmitrijs2005/giftswap/internal/common"
)

// Config holds runtime settings for the giftswap CLI.
//
// Fields:
//   - DataPath: SQLite database file, or BadgerDB directory for the badger driver.
//   - StorageDriver: "sqlite" or "badger".
//   - HistoryKey: key the list history is stored under.
//   - LogLevel: "debug", "info", "warn" or "error".
type Config struct {
	DataPath      string `json:"data_path" yaml:"data_path" env:"DATA_PATH" validate:"required"`
	StorageDriver string `json:"storage_driver" yaml:"storage_driver" env:"STORAGE_DRIVER" validate:"oneof=sqlite badger"`
	HistoryKey    string `json:"history_key" yaml:"history_key" env:"HISTORY_KEY" validate:"required"`
	LogLevel      string `json:"log_level" yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataPath = "giftswap.db"
	c.StorageDriver = storage.DriverSQLite
	c.HistoryKey = common.HistoryKey
	c.LogLevel = "warn"
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level number.
func (c *Config) SlogLevel() int {
	switch c.LogLevel {
	case "debug":
		return int(slog.LevelDebug)
	case "info":
		return int(slog.LevelInfo)
	case "error":
		return int(slog.LevelError)
	default:
		return int(slog.LevelWarn)
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the config file (if any), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
