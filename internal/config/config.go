// Package config holds simulation parameters and their validation.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = fmt.Errorf("invalid configuration")

// Config holds the recognized model parameters. Defaults match the
// slider bounds of the original operator console.
type Config struct {
	// Grid dimensions.
	Width  int `env:"RESERVESIM_WIDTH" envDefault:"20"`
	Height int `env:"RESERVESIM_HEIGHT" envDefault:"20"`

	// Population size, fixed for the whole run.
	InitPeople int `env:"RESERVESIM_INIT_PEOPLE" envDefault:"25"`

	// Savings cutoff above which a person counts as rich.
	RichThreshold int64 `env:"RESERVESIM_RICH_THRESHOLD" envDefault:"10"`

	// Percent of total deposits the bank keeps back from lending.
	ReservePercent int `env:"RESERVESIM_RESERVE_PERCENT" envDefault:"50"`

	// StrictReserve caps loan grants at the bank's lendable capacity.
	// Off by default: the reserve ratio then affects reported statistics only.
	StrictReserve bool `env:"RESERVESIM_STRICT_RESERVE" envDefault:"false"`

	// WealthField seeds initial wallets from a smooth noise field over the
	// grid instead of uniformly, producing spatially clustered starting
	// wealth. Off by default.
	WealthField bool `env:"RESERVESIM_WEALTH_FIELD" envDefault:"false"`

	// Seed for the model's random source. 0 picks a fresh seed per run.
	Seed int64 `env:"RESERVESIM_SEED" envDefault:"0"`

	// Runtime wiring, not model semantics.
	APIPort  int    `env:"RESERVESIM_API_PORT" envDefault:"8080"`
	AdminKey string `env:"RESERVESIM_ADMIN_KEY"`
	DBPath   string `env:"RESERVESIM_DB_PATH" envDefault:"data/reservesim.db"`
}

// Default returns the configuration used when no environment overrides exist.
func Default() Config {
	return Config{
		Width:          20,
		Height:         20,
		InitPeople:     25,
		RichThreshold:  10,
		ReservePercent: 50,
		APIPort:        8080,
		DBPath:         "data/reservesim.db",
	}
}

// FromEnv loads configuration from RESERVESIM_* environment variables and
// validates it.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects parameter values the model cannot be constructed from.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive, got %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.InitPeople < 1 || c.InitPeople > 200 {
		return fmt.Errorf("%w: init_people must be in 1..200, got %d", ErrInvalid, c.InitPeople)
	}
	if c.RichThreshold < 0 {
		return fmt.Errorf("%w: rich_threshold must be non-negative, got %d", ErrInvalid, c.RichThreshold)
	}
	if c.ReservePercent < 0 || c.ReservePercent > 100 {
		return fmt.Errorf("%w: reserve_percent must be in 0..100, got %d", ErrInvalid, c.ReservePercent)
	}
	return nil
}
