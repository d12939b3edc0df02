package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("embedded default differs from DefaultConfig():\n%+v\n%+v", cfg, DefaultConfig())
	}
}

func TestDefaultFoodMargin(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	want := MarginConfig{Top: 120, Left: 40}
	if cfg.Board.FoodMargin != want {
		t.Errorf("food_margin = %+v, expected %+v", cfg.Board.FoodMargin, want)
	}

	cfg, err = Parse([]byte("board:\n  food_margin:\n    top: 0\n    left: 0\n"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.Board.FoodMargin != (MarginConfig{}) {
		t.Errorf("zeroed food_margin = %+v, expected no band", cfg.Board.FoodMargin)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
board:
  width: 300
  height: 400
  food_margin:
    top: 100
timing:
  tick_interval: 150ms
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if cfg.Board.Width != 300 || cfg.Board.Height != 400 {
		t.Errorf("board = %dx%d, expected 300x400", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Board.CellSize != 20 {
		t.Errorf("cell size should keep its default, got %d", cfg.Board.CellSize)
	}
	if cfg.Board.FoodMargin.Top != 100 {
		t.Errorf("food_margin.top = %d, expected 100", cfg.Board.FoodMargin.Top)
	}
	if cfg.Timing.TickInterval != 150*time.Millisecond {
		t.Errorf("tick_interval = %s, expected 150ms", cfg.Timing.TickInterval)
	}
	if cfg.Server.Address != ":23234" {
		t.Errorf("server address should keep its default, got %q", cfg.Server.Address)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero cell", func(c *Config) { c.Board.CellSize = 0 }, "cell_size"},
		{"negative width", func(c *Config) { c.Board.Width = -1 }, "negative"},
		{"smaller than a cell", func(c *Config) { c.Board.Width = 10 }, "smaller than one cell"},
		{"negative margin", func(c *Config) { c.Board.FoodMargin.Left = -20 }, "food_margin"},
		{"zero tick", func(c *Config) { c.Timing.TickInterval = 0 }, "tick_interval"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, expected nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Validate() = %v, expected error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("board:\n  cell_size: 10\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Board.CellSize != 10 {
		t.Errorf("cell_size = %d, expected 10", cfg.Board.CellSize)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("timing:\n  tick_interval: -1s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of an invalid config should fail")
	}
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/tmp/x.db")
	if err != nil || got != "/tmp/x.db" {
		t.Errorf("absolute path should pass through, got %q, %v", got, err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandHome("~/.snake/replays.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if got != filepath.Join(home, ".snake", "replays.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
}
