package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stack/internal/games/tower"
	"github.com/vovakirdan/tui-stack/internal/registry"
	"github.com/vovakirdan/tui-stack/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [mode]",
	Short: "List journaled runs",
	Long: `List the most recent runs of a mode (default: stack), newest first.

Every finished run with a score is journaled with its seed, tick rate,
configuration and tap timeline, so it can be replayed exactly.

Examples:
  stack runs
  stack runs stack_classic --limit 5
  stack runs delete 3f2a9c1e`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journaled run",
	Long:  `Delete a run by its ID or any unique ID prefix.`,
	Args:  cobra.ExactArgs(1),
	Run:   runRunsDelete,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.AddCommand(runsDeleteCmd)
}

func runRuns(cmd *cobra.Command, args []string) {
	gameID := tower.IDStack
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'stack list' to see available modes.")
		os.Exit(1)
	}

	store := openStore(true)
	defer store.Close()

	runs, err := store.Runs(gameID, flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Runs - %s\n", gameID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'stack play %s' to journal the first run!\n", gameID)
		return
	}

	fmt.Printf("  %-8s  %-6s  %-6s  %-5s  %-8s  %s\n", "ID", "Score", "Combo", "Taps", "Time", "When")
	fmt.Printf("  %-8s  %-6s  %-6s  %-5s  %-8s  %s\n", "--", "-----", "-----", "----", "----", "----")

	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Printf("  %-8s  %-6d  %-6d  %-5d  %-8s  %s\n",
			id, r.Score, r.MaxCombo, r.TapCount,
			fmt.Sprintf("%.1fs", r.Duration().Seconds()),
			humanize.Time(r.CreatedAt))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Println()
		fmt.Printf("%s runs, %s taps in total\n",
			humanize.Comma(int64(stats.Runs)), humanize.Comma(stats.TotalTaps))
	}
}

func runRunsDelete(_ *cobra.Command, args []string) {
	store := openStore(true)
	defer store.Close()

	if err := store.DeleteRun(args[0]); err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no run matches %q\n", args[0])
		} else {
			fmt.Fprintf(os.Stderr, "Error deleting run: %v\n", err)
		}
		store.Close()
		os.Exit(1)
	}
	fmt.Printf("Deleted run %s\n", args[0])
}
