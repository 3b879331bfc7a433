package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonybot-go/internal/adapters/runner"
	"github.com/andrescamacho/colonybot-go/internal/adapters/sim"
	"github.com/andrescamacho/colonybot-go/internal/application/colony"
	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/config"
)

const defaultRunTicks = 100

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		ticks    int
		scenario string
		runID    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the colony against the simulated world",
		Long: `Run the colony strategy for a number of ticks against the simulated world.

Unit states are stored in the configured database, so a second run against
the same database picks up the units' jobs where the first one left them.
Scenario units without stored state start idle.

Examples:
  colonybot run --ticks 300
  colonybot run --scenario configs/scenarios/starter.yaml
  colonybot run --run-id nightly --ticks 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load user config: %v\n", err)
				userCfg = &config.UserConfig{}
			}

			scenarioPath := resolveScenario(scenario, cfg.Simulation.Scenario, userCfg.DefaultScenario)
			sc, err := runner.LoadScenario(scenarioPath)
			if err != nil {
				return err
			}

			if ticks <= 0 {
				ticks = cfg.Simulation.MaxTicks
			}
			if ticks <= 0 {
				ticks = defaultRunTicks
			}

			app, err := runner.NewApp(cfg, sc, runID, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = app.Context(ctx)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: scenario %q, %d ticks\n", app.RunID, sc.Name, ticks)

			seeded, err := app.Runner(runner.Options{}).Seed(ctx)
			if err != nil {
				return err
			}
			if seeded > 0 {
				fmt.Fprintf(out, "Seeded %d scenario unit(s) with idle state\n", seeded)
			}

			started := time.Now()
			r := app.Runner(runner.Options{
				MaxTicks: ticks,
				OnTick: func(report *colony.TickReport, result sim.AdvanceResult) {
					if verbose {
						printTickLine(cmd, report, result)
					}
				},
			})

			summary, err := r.Run(ctx)
			if err != nil {
				return err
			}

			if err := userConfigHandler.SetLastRunID(app.RunID); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to remember run id: %v\n", err)
			}

			printRunSummary(cmd, summary, started)
			return nil
		},
	}

	cmd.Flags().IntVar(&ticks, "ticks", 0, "Number of ticks to run (default: simulation.max_ticks, or 100)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "Scenario YAML file (default: built-in starter room)")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run id for the tick log (default: scenario name plus a random suffix)")

	return cmd
}

// resolveScenario picks the first non-empty of flag, config and user default
func resolveScenario(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func printTickLine(cmd *cobra.Command, report *colony.TickReport, result sim.AdvanceResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "tick %-6d units=%d skipped=%d spawns=%d assigned=%d failures=%d harvested=%d delivered=%d\n",
		report.Tick,
		report.UnitsSeen,
		report.UnitsSkipped,
		len(report.AcceptedSpawns()),
		report.JobsAssigned,
		report.DriveFailures,
		result.Harvested,
		result.Delivered,
	)
}

func printRunSummary(cmd *cobra.Command, summary *runner.Summary, started time.Time) {
	out := cmd.OutOrStdout()

	status := "completed"
	if summary.Stopped {
		status = "stopped"
	}
	fmt.Fprintf(out, "\nRun %s %s after %s tick(s) in %s\n",
		summary.RunID, status, humanize.Comma(int64(summary.Ticks)), time.Since(started).Round(time.Millisecond))
	fmt.Fprintf(out, "  Units spawned:       %d\n", len(summary.Spawned))
	fmt.Fprintf(out, "  Sites completed:     %d\n", summary.Completed)

	rooms := make([]string, 0, len(summary.LevelUps))
	for room := range summary.LevelUps {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	for _, room := range rooms {
		fmt.Fprintf(out, "  Controller %s:  level %d\n", room, summary.LevelUps[room])
	}

	if report := summary.LastReport; report != nil {
		fmt.Fprintln(out, "  Population at last tick:")
		w := newTable(out)
		for _, b := range catalog.AllProfiles {
			fmt.Fprintf(w, "    %s\t%d\n", b, report.ByBuild[b])
		}
		w.Flush()
	}
}
