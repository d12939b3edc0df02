package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagLimit  int
	flagBrowse bool
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "List recorded runs",
	Long: `Display the most recent recorded runs, newest first.

With --browse, opens an interactive table where a run can be played
back (Enter) or deleted (X).

Examples:
  snake replays
  snake replays --limit 50
  snake replays --browse`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

func init() {
	replaysCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to list")
	replaysCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive replay browser")
}

func runReplays(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := mustOpenStore(cfg)
	defer store.Close()

	if flagBrowse {
		if err := tui.RunBrowser(store, runtimeConfig(cfg, 0)); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recorded runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to record the first one!")
		return
	}

	fmt.Printf("  %-6s  %-12s  %-6s  %-6s  %-6s  %-5s  %s\n", "ID", "Player", "Score", "Length", "Ticks", "End", "When")
	fmt.Printf("  %-6s  %-12s  %-6s  %-6s  %-6s  %-5s  %s\n", "--", "------", "-----", "------", "-----", "---", "----")
	for _, r := range runs {
		fmt.Printf("  %-6d  %-12s  %-6d  %-6d  %-6d  %-5s  %s\n",
			r.ID, r.Player, r.Score, r.Length, r.Ticks, r.Cause, humanize.Time(r.CreatedAt))
	}
}
