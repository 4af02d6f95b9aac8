// stack is a terminal tower-stacking game: drop sliding tiles onto the
// tower, keep what overlaps, lose the rest.
//
// Usage:
//
//	stack list              - List game modes
//	stack play [mode]       - Play a mode (default: stack)
//	stack menu              - Start the title menu
//	stack serve             - Start SSH server for remote play
//	stack runs [mode]       - List journaled runs
//	stack replay <id>       - Verify or watch a journaled run
//	stack config            - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set palette seed
//	--db <path>           - Set journal path (default: ~/.stack/runs.db)
//	--config <path>       - Use a custom stack.yaml
//	--difficulty <name>   - easy, normal, hard or zen
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-stack/internal/config"
	"github.com/vovakirdan/tui-stack/internal/core"
	"github.com/vovakirdan/tui-stack/internal/games/tower"
	"github.com/vovakirdan/tui-stack/internal/platform/tui"
	"github.com/vovakirdan/tui-stack/internal/storage"
	"github.com/vovakirdan/tui-stack/internal/telemetry"
)

// annotationTUI marks commands that own the terminal, so logs go to a file.
const annotationTUI = "tui"

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
	flagTelemetry  bool

	logger            = log.New(io.Discard)
	logFile           *os.File
	telemetryShutdown func(context.Context) error
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stack",
	Short: "Stack - build the tallest tower in your terminal",
	Long: `Stack is a one-button tower game for the terminal.

A tile slides back and forth above the tower. Tap to drop it: whatever
overhangs the tile below is sliced off and falls away, so the footprint
shrinks with every miss. Land inside the margin for a PERFECT; a long
perfect streak grows the footprint back.

Available commands:
  list     - Show game modes
  play     - Play a mode directly
  menu     - Title menu
  serve    - Start SSH server for remote play
  runs     - Browse the run journal
  replay   - Verify or watch a journaled run
  config   - Print the effective configuration

Examples:
  stack play
  stack play stack_classic --difficulty zen
  stack menu
  stack serve --ssh :2222
  stack replay 3f2a9c1e --watch`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Palette seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db",
		config.GetEnv("STACK_DB", "~/.stack/runs.db"), "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom stack.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty",
		config.GetEnv("STACK_DIFFICULTY", ""), "Difficulty preset: easy, normal, hard, zen")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level",
		config.GetEnv("STACK_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.stack/stack.log",
		"Log file for interactive commands")
	rootCmd.PersistentFlags().BoolVar(&flagTelemetry, "telemetry", false,
		"Export run traces over OTLP (also "+telemetry.EnvEnabled+"=1)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads .env, builds the logger, configures the game modes and
// starts telemetry. It runs before every command.
func setup(cmd *cobra.Command, _ []string) error {
	// Not fatal: variables may be set directly
	envErr := godotenv.Load()

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	out := io.Writer(os.Stderr)
	if ownsTerminal(cmd) {
		out = io.Discard
		if f, err := openLogFile(flagLogFile); err == nil {
			logFile = f
			out = f
		}
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "stack",
		Level:           level,
	})
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn(".env not loaded", "err", envErr)
	}

	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	tower.SetConfigPath(flagConfig)
	tower.SetDifficultyPreset(flagDifficulty)
	tower.SetLogger(logger)

	if flagTelemetry || config.EnvEnabled(telemetry.EnvEnabled) {
		shutdown, err := telemetry.Setup(cmd.Context())
		if err != nil {
			logger.Warn("telemetry setup failed, running without traces", "err", err)
		} else {
			telemetryShutdown = shutdown
		}
	}
	return nil
}

// teardown flushes telemetry and closes the log file.
func teardown(cmd *cobra.Command, _ []string) {
	if telemetryShutdown != nil {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "err", err)
		}
	}
	if logFile != nil {
		logFile.Close()
	}
}

// ownsTerminal reports whether cmd runs a full-screen UI.
func ownsTerminal(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationTUI] == "true" {
		return true
	}
	watch, err := cmd.Flags().GetBool("watch")
	return err == nil && watch
}

func openLogFile(path string) (*os.File, error) {
	path = config.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// runtimeConfig sizes the simulation to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the run journal. Interactive commands keep going
// without it; the journal commands need it.
func openStore(required bool) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err == nil {
		return store
	}
	if required {
		fmt.Fprintf(os.Stderr, "Error opening run journal: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Warning: could not open run journal: %v\n", err)
	logger.Warn("run journal unavailable", "path", flagDBPath, "err", err)
	return nil
}

// tuiOptions are the model options shared by every interactive command.
func tuiOptions() []tui.Option {
	return []tui.Option{
		tui.WithLogger(logger),
		tui.WithTracer(telemetry.Tracer("tui")),
	}
}
