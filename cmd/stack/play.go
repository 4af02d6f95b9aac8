package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stack/internal/games/tower"
	"github.com/vovakirdan/tui-stack/internal/platform/tui"
	"github.com/vovakirdan/tui-stack/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game mode",
	Long: `Start playing the given mode (default: stack).

Controls:
  Space/Enter/Up/Click - Drop the tile
  P                    - Pause
  R                    - Restart (after the tower falls)
  B/Esc                - Back (when paused or over)
  Ctrl+S               - Screenshot to ~/.stack/screenshots
  Q/Ctrl+C             - Quit

Difficulty options:
  easy   - Slow start, speed ramps up as the tower grows
  normal - Default speed and margin
  hard   - Fast start, tighter perfect margin
  zen    - No speed ramp

Finished runs are written to the run journal; see 'stack runs'.

Examples:
  stack play
  stack play stack_classic
  stack play --difficulty hard
  stack play --config ./my-stack.yaml`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationTUI: "true"},
	Run:         runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := tower.IDStack
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'stack list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Continue without storage - the game still works
	store := openStore(false)

	runErr := tui.Run(game, store, runtimeConfig(), tuiOptions()...)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
