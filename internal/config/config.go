// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/squad-randomizer/internal/logging"
	"github.com/DoyleJ11/squad-randomizer/internal/store"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr           string        `env:"ADDR"            envDefault:":8080"`
	LogLevel       string        `env:"LOG_LEVEL"       envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT"      envDefault:"json"`
	StoreDriver    string        `env:"STORE_DRIVER"    envDefault:"memory"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	S3Bucket       string        `env:"S3_BUCKET"`
	S3Gzip         bool          `env:"S3_GZIP"         envDefault:"true"`
	CatalogFile    string        `env:"CATALOG_FILE"`
	HistoryLimit   int           `env:"HISTORY_LIMIT"   envDefault:"20"`
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"3s"`
	// Seed fixes the random sequence of every lobby; 0 seeds from the clock.
	Seed           int64         `env:"SEED"            envDefault:"0"`
}

// Load reads envFile into the environment when it exists, then parses and
// validates the configuration. Variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		err = multierr.Append(err, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	switch c.StoreDriver {
	case store.DriverMemory:
	case store.DriverPostgres:
		if c.DatabaseURL == "" {
			err = multierr.Append(err, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case store.DriverS3:
		if c.S3Bucket == "" {
			err = multierr.Append(err, errors.New("S3_BUCKET is required for the s3 store"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("STORE_DRIVER must be memory, postgres or s3, got %q", c.StoreDriver))
	}
	if c.HistoryLimit < 1 {
		err = multierr.Append(err, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit))
	}
	if c.Seed < 0 {
		err = multierr.Append(err, fmt.Errorf("SEED must not be negative, got %d", c.Seed))
	}
	if c.PersistTimeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("PERSIST_TIMEOUT must be positive, got %s", c.PersistTimeout))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver:      c.StoreDriver,
		DatabaseURL: c.DatabaseURL,
		S3Bucket:    c.S3Bucket,
		S3Gzip:      c.S3Gzip,
	}
}
