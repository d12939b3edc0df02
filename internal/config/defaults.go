package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultConfig returns the hardcoded default configuration. It matches the
// embedded defaults/snake.yaml.
func DefaultConfig() Config {
	return Config{
		Board: BoardConfig{
			Width:    0,
			Height:   0,
			CellSize: 20,
			FoodMargin: MarginConfig{
				Top:  120,
				Left: 40,
			},
		},
		Timing: TimingConfig{
			TickInterval:      100 * time.Millisecond,
			SwipeMinMagnitude: 2,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			DBPath: "~/.snake/replays.db",
			Record: true,
		},
		Server: ServerConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSnakeYAML
}
