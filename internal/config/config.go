// Package config loads landingcore settings from LANDINGCORE_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"landingcore/internal/blob"
	"landingcore/internal/catalog"
)

// Prefix is prepended to every variable name.
const Prefix = "LANDINGCORE_"

// Config is the complete runtime configuration.
type Config struct {
	Catalog     CatalogConfig `envPrefix:"CATALOG_"`
	Blob        BlobConfig    `envPrefix:"BLOB_"`
	Driver      DriverConfig  `envPrefix:"DRIVER_"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr string        `env:"METRICS_ADDR"`
}

// CatalogConfig selects the master data source.
type CatalogConfig struct {
	Driver catalog.Driver `env:"DRIVER" envDefault:"memory"`
	Path   string         `env:"PATH"`
	DSN    string         `env:"DSN"`
	Seed   uint64         `env:"SEED" envDefault:"20250101"`
}

// Options converts the settings for catalog.Open.
func (c CatalogConfig) Options() catalog.Options {
	return catalog.Options{Driver: c.Driver, Path: c.Path, DSN: c.DSN, Seed: c.Seed}
}

// BlobConfig selects where published previews are written.
type BlobConfig struct {
	Driver blob.Driver   `env:"DRIVER" envDefault:"fs"`
	Root   string        `env:"ROOT" envDefault:"./blobdata"`
	S3     blob.S3Config `envPrefix:"S3_"`
}

// Options converts the settings for blob.Open.
func (c BlobConfig) Options() blob.Config {
	return blob.Config{Driver: c.Driver, FSRoot: c.Root, S3: c.S3}
}

// DriverConfig sets the simulation cadence. Cadences count ticks; zero
// disables the hook.
type DriverConfig struct {
	Interval         time.Duration `env:"INTERVAL" envDefault:"1s"`
	PriceEvery       int           `env:"PRICE_EVERY" envDefault:"30"`
	ReservationEvery int           `env:"RESERVATION_EVERY" envDefault:"45"`
	RefreshEvery     int           `env:"REFRESH_EVERY" envDefault:"60"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom reads vars instead of the process environment. Keys carry the
// LANDINGCORE_ prefix.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (c Config) Validate() error {
	if c.Driver.Interval <= 0 {
		return fmt.Errorf("driver interval must be positive, got %s", c.Driver.Interval)
	}
	if c.Driver.PriceEvery < 0 || c.Driver.ReservationEvery < 0 || c.Driver.RefreshEvery < 0 {
		return fmt.Errorf("driver cadences must not be negative")
	}
	switch c.Catalog.Driver {
	case catalog.DriverMemory, catalog.DriverFile, catalog.DriverSQLite, catalog.DriverPostgres:
	default:
		return fmt.Errorf("unknown catalog driver %q", c.Catalog.Driver)
	}
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("s3 blob driver requires %sBLOB_S3_BUCKET", Prefix)
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	return nil
}
