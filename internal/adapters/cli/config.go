package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonybot-go/internal/adapters/sim"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage colonybot configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (COLONY_* prefix, DATABASE_URL)
2. Config file (colonybot.yaml)
3. Default values

User preferences (default scenario, last run) are stored in ~/.colonybot/config.json

Examples:
  colonybot config show
  colonybot config set-scenario configs/scenarios/starter.yaml
  colonybot config set-scenario --clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetScenarioCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "colonybot Configuration")
			fmt.Fprintln(out, "=======================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Default Scenario: %s\n", orNotSet(userCfg.DefaultScenario))
			fmt.Fprintf(out, "  Last Run:         %s\n", orNotSet(userCfg.LastRunID))

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
				fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Scenario:         %s\n", orNotSet(cfg.Simulation.Scenario))
			fmt.Fprintf(out, "  Tick Interval:    %s\n", cfg.Simulation.TickInterval)
			fmt.Fprintf(out, "  Max Ticks:        %d\n", cfg.Simulation.MaxTicks)

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)
			fmt.Fprintf(out, "  Persist:          %t\n", cfg.Logging.Persist)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)

			return nil
		},
	}
}

// newConfigSetScenarioCommand creates the config set-scenario subcommand
func newConfigSetScenarioCommand() *cobra.Command {
	var clearScenario bool

	cmd := &cobra.Command{
		Use:   "set-scenario <path>",
		Short: "Set the default scenario file",
		Long: `Set the scenario used by 'colonybot run' when --scenario is not given
and simulation.scenario is not configured. The file is validated first.

Examples:
  colonybot config set-scenario configs/scenarios/starter.yaml
  colonybot config set-scenario --clear`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearScenario && len(args) == 0 {
				return fmt.Errorf("a scenario path or --clear is required")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if clearScenario {
				if err := userConfigHandler.SetDefaultScenario(""); err != nil {
					return fmt.Errorf("failed to clear default scenario: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Default scenario cleared")
				return nil
			}

			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("scenario file not found: %w", err)
			}
			sc, err := sim.LoadScenario(path)
			if err != nil {
				return err
			}

			if err := userConfigHandler.SetDefaultScenario(path); err != nil {
				return fmt.Errorf("failed to set default scenario: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default scenario set to %s (%s)\n", path, sc.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearScenario, "clear", false, "Clear the default scenario")

	return cmd
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
