package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getseam/seam/cmd/seam/commands"
	"github.com/getseam/seam/internal/config"
	"github.com/getseam/seam/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile     string
		noColor        bool
		debug          bool
		nonInteractive bool
	)

	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "seam",
		Short: "Inject secrets into configuration templates",
		Long: `seam scans configuration templates for secret placeholders, resolves
them against your secret store, substitutes the values, and caches results
to avoid repeated store round trips.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Path = configFile
			cfg.Logger = logging.New(debug, noColor)
			cfg.NonInteractive = nonInteractive
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "seam.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging and per-token traces")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode")

	rootCmd.AddCommand(
		commands.NewProcessCommand(cfg),
		commands.NewValidateCommand(cfg),
		commands.NewDiffCommand(cfg),
		commands.NewWarmCacheCommand(cfg),
		commands.NewClearCacheCommand(cfg),
		commands.NewSetCommand(cfg),
	)

	return rootCmd.Execute()
}
