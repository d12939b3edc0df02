package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/replay"
)

var flagVerify bool

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Watch or verify a recorded run",
	Long: `Play a recorded run back in the terminal at the configured tick rate.

With --verify, the run is replayed without a terminal and the outcome is
compared against the recorded score, length, tick count and cause. The
command exits non-zero on a mismatch.

Controls:
  R/Enter   - Restart playback
  Q/Ctrl+C  - Quit

Examples:
  snake replay 12
  snake replay 12 --verify`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Replay headless and check the recorded outcome")
}

func runReplay(_ *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid run id %q\n", args[0])
		os.Exit(1)
	}

	cfg := loadConfig()
	logger, logCloser := newLogger(cfg, os.Stderr, "snake-replay")
	defer logCloser.Close()

	store := mustOpenStore(cfg)
	rec, err := store.Run(id)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "Error: no run with id %d\n", id)
		fmt.Fprintln(os.Stderr, "Run 'snake replays' to see recorded runs.")
		os.Exit(1)
	}

	run, err := replay.FromRecord(*rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagVerify {
		logger.Debug("verifying run", "id", run.ID, "seed", run.Seed, "moves", len(run.Moves))
		if err := replay.Verify(run); err != nil {
			if errors.Is(err, replay.ErrMismatch) {
				fmt.Printf("Run #%d does NOT reproduce: %v\n", run.ID, err)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Printf("Run #%d verified: %s\n", run.ID, run.Summary())
		return
	}

	if err := tui.RunPlayback(run, runtimeConfig(cfg, 0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
