package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Snake with a menu",
	Long: `Start Snake in interactive menu mode.

The menu offers a new game, the replay browser and quit. Leaving a game
or the browser with Esc returns to the menu. Every new game gets a fresh
seed.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Esc/B        - Back to menu
  Q            - Quit

Examples:
  snake menu
  snake menu --db ./replays.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser := newLogger(cfg, nil, "snake")
	defer logCloser.Close()

	store := openStore(cfg)
	var runs tui.RunStore
	if store != nil {
		runs = store
	}

	rc := runtimeConfig(cfg, 0)
	runErr := tui.RunSession(gameFactory(cfg, rc, store, logger), runs, rc, tui.GameOptions{
		BoardWidth:        cfg.Board.Width,
		BoardHeight:       cfg.Board.Height,
		SwipeMinMagnitude: cfg.Timing.SwipeMinMagnitude,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
