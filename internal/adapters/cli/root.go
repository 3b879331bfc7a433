package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colonybot",
		Short: "colonybot - drive a worker colony tick by tick",
		Long: `colonybot runs the colony strategy against a simulated world and
inspects what it stored: unit states, tick logs, the build catalog and the
spawn tiers.

Examples:
  colonybot run --ticks 300
  colonybot run --scenario configs/scenarios/starter.yaml --ticks 50
  colonybot units
  colonybot logs --level ERROR
  colonybot tiers
  colonybot catalog`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: colonybot.yaml in ., ./configs, /etc/colonybot)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewUnitsCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewTiersCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
