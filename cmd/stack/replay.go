package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stack/internal/games/tower"
	"github.com/vovakirdan/tui-stack/internal/registry"
	"github.com/vovakirdan/tui-stack/internal/storage"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Verify or watch a journaled run",
	Long: `Rebuild a journaled run from its seed, configuration and tap timeline.

By default the run is re-simulated at full speed and checked against the
recorded score and best combo. With --watch it plays back in the terminal
at its recorded tick rate.

Any unique prefix of the run ID works.

Examples:
  stack replay 3f2a9c1e
  stack replay 3f2a --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Play the run back in the terminal")
}

func runReplay(_ *cobra.Command, args []string) {
	store := openStore(true)
	run, err := store.LoadRun(args[0])
	store.Close()
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no run matches %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'stack runs' to see journaled runs.")
		} else {
			fmt.Fprintf(os.Stderr, "Error loading run: %v\n", err)
		}
		os.Exit(1)
	}

	if flagWatch {
		if err := watchRun(run); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching run: %v\n", err)
			os.Exit(1)
		}
		return
	}

	game, err := registry.Create(run.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	replayer, ok := game.(registry.Replayer)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: mode %q cannot replay runs\n", run.GameID)
		os.Exit(1)
	}

	logger.Info("replaying run", "id", run.ID, "game", run.GameID, "taps", run.TapCount, "ticks", run.Ticks)
	if err := replayer.Replay(run.Recording); err != nil {
		if errors.Is(err, tower.ErrReplayMismatch) {
			fmt.Fprintf(os.Stderr, "Mismatch: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error replaying run: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Run %s verified: score %d, best combo %d, %d taps over %.1fs\n",
		run.ID, run.Score, run.MaxCombo, run.TapCount, run.Duration().Seconds())
}
