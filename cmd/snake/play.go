package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	flagWidth  int
	flagHeight int
	flagSeed   int64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Snake",
	Long: `Start a game of Snake in the terminal.

The board fits the terminal unless --width and --height (board units,
multiples of the cell size) are given. Finished runs are recorded to the
replay database when storage.record is enabled.

Controls:
  Arrows/WASD/HJKL  - Steer
  Mouse drag        - Swipe to steer
  R/Enter           - Restart
  ?                 - Toggle help
  Q/Ctrl+C          - Quit

Examples:
  snake play
  snake play --seed 42
  snake play --width 300 --height 400`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in board units (0 = fit terminal)")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in board units (0 = fit terminal)")
	playCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagWidth > 0 {
		cfg.Board.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Board.Height = flagHeight
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser := newLogger(cfg, nil, "snake")
	defer logCloser.Close()

	var store *storage.Store
	if cfg.Storage.Record {
		store = openStore(cfg)
	}

	rc := runtimeConfig(cfg, flagSeed)
	game, rec := newGame(cfg, rc.ResolveSeed(), store, logger)
	logger.Info("starting game", "seed", game.Seed())

	runErr := tui.Run(game, rc, tui.GameOptions{
		BoardWidth:        cfg.Board.Width,
		BoardHeight:       cfg.Board.Height,
		SwipeMinMagnitude: cfg.Timing.SwipeMinMagnitude,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}

	fmt.Print(lastRunLine(rec))
}

// lastRunLine describes the last finished run, or is empty when nothing
// finished. A run the store rejected has no ID.
func lastRunLine(rec *replay.Recorder) string {
	if rec == nil {
		return ""
	}
	last, ok := rec.Last()
	if !ok {
		return ""
	}
	if last.ID == 0 {
		return fmt.Sprintf("Last run was not saved: %s\n", last.Summary())
	}
	return fmt.Sprintf("Last run #%d: %s\nWatch it with 'snake replay %d'\n", last.ID, last.Summary(), last.ID)
}
