package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/warfront/internal/conflict"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Years != 50 || c.Runs != 1 || c.Factions != 4 || c.Radius != 7 || c.DBPath != "warsim.db" {
		t.Errorf("defaults = %+v", c)
	}
	if c.LogLevel != slog.LevelInfo || c.Parallel <= 0 {
		t.Errorf("level = %v parallel = %d", c.LogLevel, c.Parallel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WARSIM_SEED", "1234")
	t.Setenv("WARSIM_YEARS", "12")
	t.Setenv("WARSIM_RUNS", "3")
	t.Setenv("WARSIM_PARALLEL", "2")
	t.Setenv("WARSIM_LOG_LEVEL", "debug")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != 1234 || c.Years != 12 || c.Runs != 3 || c.Parallel != 2 {
		t.Errorf("config = %+v", c)
	}
	if c.LogLevel != slog.LevelDebug {
		t.Errorf("level = %v, want DEBUG", c.LogLevel)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"WARSIM_YEARS", "0"},
		{"WARSIM_RUNS", "-1"},
		{"WARSIM_FACTIONS", "1"},
		{"WARSIM_RADIUS", "2"},
		{"WARSIM_SEED", "not-a-number"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s accepted", tt.key, tt.value)
			}
		})
	}
}

func TestLoadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	yaml := `
declaration_chance: 0.1
min_army: 50
loser_casualties:
  min: 0.3
  max: 0.5
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadTuning(path)
	if err != nil {
		t.Fatal(err)
	}
	want := conflict.DefaultTuning()
	want.DeclarationChance = 0.1
	want.MinArmy = 50
	want.LoserCasualties = conflict.Span{Min: 0.3, Max: 0.5}
	if got != want {
		t.Errorf("tuning = %+v\nwant %+v", got, want)
	}
}

func TestLoadTuningEmptyPath(t *testing.T) {
	got, err := LoadTuning("")
	if err != nil {
		t.Fatal(err)
	}
	if got != conflict.DefaultTuning() {
		t.Error("empty path did not return defaults")
	}
}

func TestLoadTuningInvalid(t *testing.T) {
	tests := []struct {
		name, body string
	}{
		{"inverted span", "winner_casualties: {min: 0.5, max: 0.2}\n"},
		{"supply", "starting_supply: 5\n"},
		{"syntax", "draft_rate: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tuning.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadTuning(path); err == nil {
				t.Error("invalid tuning accepted")
			}
		})
	}
}
