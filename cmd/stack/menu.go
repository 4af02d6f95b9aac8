package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stack/internal/platform/tui"
	"github.com/vovakirdan/tui-stack/internal/registry"
	"github.com/vovakirdan/tui-stack/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the title menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a run ends, you return to the menu to play again.
The run journal lets you watch or delete earlier runs.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  stack menu
  stack menu --fps 30
  stack menu --db ./runs.db`,
	Annotations: map[string]string{annotationTUI: "true"},
	Run:         runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore(false)
	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg, flagDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsRuns {
			if !browseRuns(store, cfg.ScreenW, cfg.ScreenH) {
				break
			}
			continue
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed per run unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg, tuiOptions()...); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}

// browseRuns shows the run journal until the user leaves it, playing back
// any run they pick. It returns false when the user quit entirely.
func browseRuns(store *storage.Store, width, height int) bool {
	for {
		res, err := tui.RunRuns(store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return true
		}
		switch {
		case res.Quit:
			return false
		case res.WatchID != "":
			run, err := store.LoadRun(res.WatchID)
			if err == nil {
				err = watchRun(run)
			}
			if err != nil {
				logger.Error("replay failed", "id", res.WatchID, "err", err)
			}
		default:
			return true
		}
	}
}

// watchRun plays a journaled run back in the terminal.
func watchRun(run storage.Run) error {
	game, err := registry.Create(run.GameID)
	if err != nil {
		return err
	}
	return tui.RunReplay(game, run.Recording, runtimeConfig(), tuiOptions()...)
}
