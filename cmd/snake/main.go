// snake is a terminal Snake game with recorded, replayable runs.
//
// Usage:
//
//	snake play              - Play in the terminal
//	snake menu              - Start menu with play and replay browser
//	snake serve             - Start SSH server for remote play
//	snake replays           - List recorded runs
//	snake replay <id>       - Watch or verify a recorded run
//
// Global flags:
//
//	--config <path>     - Set config file (default: ~/.snake/config.yaml)
//	--db <path>         - Set replay database path (default: ~/.snake/replays.db)
//	--log-level <level> - Set log level (debug, info, warn, error)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/logging"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - play and replay Snake in your terminal",
	Long: `Snake is the classic grid game for the terminal. Every finished run is
recorded with its seed and inputs so it can be watched again or verified.

Available commands:
  play     - Play directly
  menu     - Menu with play and the replay browser
  serve    - Start SSH server for remote play
  replays  - List recorded runs
  replay   - Watch or verify one run

Examples:
  snake play
  snake play --seed 42 --width 400 --height 300
  snake serve --ssh :2222
  snake replays --browse
  snake replay 12 --verify`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to replay database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger builds the component logger. Interactive commands pass a nil
// fallback so nothing reaches the terminal unless a log file is configured.
func newLogger(cfg config.Config, fallback io.Writer, prefix string) (*log.Logger, io.Closer) {
	logger, closer, err := logging.New(cfg.Log, fallback, prefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger, closer
}

// openStore opens the replay database. Failure is reported and play
// continues without recording.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open replay database: %v\n", err)
		return nil
	}
	return store
}

// mustOpenStore opens the replay database or exits.
func mustOpenStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening replay database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// runtimeConfig builds the per-session settings from the loaded config.
func runtimeConfig(cfg config.Config, seed int64) core.RuntimeConfig {
	width, height := terminalSize()
	return core.RuntimeConfig{
		ScreenW:      width,
		ScreenH:      height,
		TickInterval: cfg.Timing.TickInterval,
		Seed:         seed,
	}
}

func foodMargin(cfg config.Config) snake.Margin {
	m := cfg.Board.FoodMargin
	return snake.Margin{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
}

// playerName is the name local runs are recorded under.
func playerName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "local"
}

// newGame builds a game and, when recording is enabled and store is set,
// the recorder subscribed to it. The recorder is nil otherwise.
func newGame(cfg config.Config, seed int64, store *storage.Store, logger *log.Logger) (*snake.Game, *replay.Recorder) {
	game := snake.New(snake.Options{
		CellSize:   cfg.Board.CellSize,
		FoodMargin: foodMargin(cfg),
		Seed:       seed,
		Logger:     logger,
	})
	if store == nil || !cfg.Storage.Record {
		return game, nil
	}
	rec := replay.NewRecorder(store, replay.RecorderOptions{
		Player: playerName(),
		Margin: foodMargin(cfg),
		Logger: logger,
	})
	game.Subscribe(rec)
	return game, rec
}

// gameFactory returns a constructor for recorded games. The first game uses
// the configured seed; later ones use a fresh seed each. store may be nil.
func gameFactory(cfg config.Config, rc core.RuntimeConfig, store *storage.Store, logger *log.Logger) func() *snake.Game {
	seed := rc.ResolveSeed()
	return func() *snake.Game {
		game, _ := newGame(cfg, seed, store, logger)
		seed = core.RuntimeConfig{}.ResolveSeed()
		return game
	}
}
