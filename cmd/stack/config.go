package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stack/internal/config"
	"github.com/vovakirdan/tui-stack/internal/games/tower"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration a new run would use, as YAML.

The file is looked up in this order: --config, $STACK_CONFIG,
~/.stack/configs/stack.yaml, ./configs/stack.yaml, then the built-in
defaults. The --difficulty preset is applied on top.

Examples:
  stack config
  stack config --difficulty hard
  stack config --defaults > ~/.stack/configs/stack.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults instead")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.GetDefaultYAML())
		return
	}

	cfg, err := config.LoadStack(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if flagDifficulty != "" {
		preset, _ := config.ParsePreset(flagDifficulty) // Validated in setup
		config.ApplyStackPreset(&cfg, preset)
	}

	// Catch values the game would refuse before a run starts
	if _, err := tower.RulesFor(cfg, tower.ModePingPong); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}
	if _, err := tower.RulesFor(cfg, tower.ModeClassic); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid classic config: %v\n", err)
		os.Exit(1)
	}

	data, err := config.MarshalStack(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
