// Package config reads server settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Store drivers
const (
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
)

// Config holds the runtime settings.
type Config struct {
	Addr            string        `env:"POSTBOARD_ADDR" envDefault:":3000"`
	Store           string        `env:"POSTBOARD_STORE" envDefault:"sqlite"`
	SQLitePath      string        `env:"POSTBOARD_SQLITE_PATH" envDefault:"data/postboard.db"`
	BadgerPath      string        `env:"POSTBOARD_BADGER_PATH" envDefault:"data/badger"`
	BackupDir       string        `env:"POSTBOARD_BACKUP_DIR" envDefault:"data/backups"`
	CORSOrigins     []string      `env:"POSTBOARD_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"POSTBOARD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads files (default ".env") into the environment without
// overriding variables already set, then parses Config from it. A missing
// default .env is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "load .env")
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("POSTBOARD_SQLITE_PATH is required for the %s store", StoreSQLite)
		}
	case StoreBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("POSTBOARD_BADGER_PATH is required for the %s store", StoreBadger)
		}
	default:
		return fmt.Errorf("unknown store %q: want %s or %s", c.Store, StoreSQLite, StoreBadger)
	}
	if c.Addr == "" {
		return fmt.Errorf("POSTBOARD_ADDR is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("POSTBOARD_SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
