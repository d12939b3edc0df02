// Package config provides YAML-based configuration loading for the snake
// game, its terminal front end and the SSH server.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config contains all configuration for tui-snake.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Timing  TimingConfig  `yaml:"timing"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// BoardConfig defines the board geometry in board units.
type BoardConfig struct {
	Width      int          `yaml:"width"`  // 0 = fit terminal
	Height     int          `yaml:"height"` // 0 = fit terminal
	CellSize   int          `yaml:"cell_size"`
	FoodMargin MarginConfig `yaml:"food_margin"`
}

// MarginConfig is a band along each board edge.
type MarginConfig struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// TimingConfig defines the clock and gesture parameters.
type TimingConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`
	SwipeMinMagnitude int           `yaml:"swipe_min_magnitude"`
}

// LogConfig defines logger level and destination.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty = caller decides
}

// StorageConfig defines where finished runs are recorded.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
	Record bool   `yaml:"record"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate checks the configuration for values the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Board.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("board.cell_size must be positive, got %d", c.Board.CellSize))
	}
	if c.Board.Width < 0 || c.Board.Height < 0 {
		errs = append(errs, fmt.Errorf("board size must not be negative, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Board.CellSize > 0 {
		if c.Board.Width > 0 && c.Board.Width < c.Board.CellSize {
			errs = append(errs, fmt.Errorf("board.width %d is smaller than one cell", c.Board.Width))
		}
		if c.Board.Height > 0 && c.Board.Height < c.Board.CellSize {
			errs = append(errs, fmt.Errorf("board.height %d is smaller than one cell", c.Board.Height))
		}
	}
	m := c.Board.FoodMargin
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		errs = append(errs, errors.New("board.food_margin values must not be negative"))
	}
	if c.Timing.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("timing.tick_interval must be positive, got %s", c.Timing.TickInterval))
	}
	if c.Timing.SwipeMinMagnitude < 0 {
		errs = append(errs, errors.New("timing.swipe_min_magnitude must not be negative"))
	}
	if c.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server.idle_timeout must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
