// Package config loads run settings from the environment and conflict
// tuning from an optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/talgya/warfront/internal/conflict"
)

// Config holds the batch runner's settings.
type Config struct {
	Seed       uint64     `env:"WARSIM_SEED"        envDefault:"0"` // 0 picks a random seed
	Years      int        `env:"WARSIM_YEARS"       envDefault:"50"`
	Runs       int        `env:"WARSIM_RUNS"        envDefault:"1"`
	Parallel   int        `env:"WARSIM_PARALLEL"`
	Radius     int        `env:"WARSIM_RADIUS"      envDefault:"7"`
	Factions   int        `env:"WARSIM_FACTIONS"    envDefault:"4"`
	StartYear  uint32     `env:"WARSIM_START_YEAR"  envDefault:"1"`
	DBPath     string     `env:"WARSIM_DB_PATH"     envDefault:"warsim.db"`
	ExportDir  string     `env:"WARSIM_EXPORT_DIR"`
	TuningPath string     `env:"WARSIM_TUNING_PATH"`
	LogLevel   slog.Level `env:"WARSIM_LOG_LEVEL"   envDefault:"INFO"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.Parallel <= 0 {
		c.Parallel = runtime.NumCPU()
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the runner cannot use.
func (c Config) Validate() error {
	switch {
	case c.Years <= 0:
		return fmt.Errorf("config: WARSIM_YEARS must be positive, got %d", c.Years)
	case c.Runs <= 0:
		return fmt.Errorf("config: WARSIM_RUNS must be positive, got %d", c.Runs)
	case c.Factions < 2:
		return fmt.Errorf("config: WARSIM_FACTIONS must be at least 2, got %d", c.Factions)
	case c.Radius < 3:
		return fmt.Errorf("config: WARSIM_RADIUS must be at least 3, got %d", c.Radius)
	case c.StartYear == 0:
		return fmt.Errorf("config: WARSIM_START_YEAR must be positive")
	}
	return nil
}

// LoadTuning reads conflict tuning from path over the defaults. Keys absent
// from the file keep their default values. An empty path returns the
// defaults.
func LoadTuning(path string) (conflict.Tuning, error) {
	t := conflict.DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := validateTuning(t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func validateTuning(t conflict.Tuning) error {
	for name, s := range map[string]conflict.Span{
		"loser_casualties":   t.LoserCasualties,
		"winner_casualties":  t.WinnerCasualties,
		"assault_casualties": t.AssaultCasualties,
	} {
		if s.Min < 0 || s.Max > 1 || s.Min > s.Max {
			return fmt.Errorf("%s must satisfy 0 <= min <= max <= 1, got [%v, %v]", name, s.Min, s.Max)
		}
	}
	if t.MaxSupply <= 0 || t.StartingSupply > t.MaxSupply {
		return fmt.Errorf("starting_supply %v must not exceed max_supply %v", t.StartingSupply, t.MaxSupply)
	}
	return nil
}
