package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonybot-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/config"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/database"
)

// NewLogsCommand creates the logs command with subcommands
func NewLogsCommand() *cobra.Command {
	var (
		limit  int
		offset int
		level  string
		since  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Show persisted tick logs of a run",
		Long: `Show the log lines persisted for a run, newest first.

Without a run id the most recent 'colonybot run' is shown. Lines are only
persisted when logging.persist is enabled.

Examples:
  colonybot logs
  colonybot logs 0b5d1c52-... --level ERROR
  colonybot logs --since 10m --limit 200
  colonybot logs runs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			} else {
				userConfigHandler, err := config.NewUserConfigHandler()
				if err != nil {
					return fmt.Errorf("failed to create user config handler: %w", err)
				}
				userCfg, err := userConfigHandler.Load()
				if err != nil {
					return err
				}
				runID = userCfg.LastRunID
			}
			if runID == "" {
				return fmt.Errorf("no run id given and no previous run recorded")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			var levelFilter *string
			if level != "" {
				upper := strings.ToUpper(level)
				levelFilter = &upper
			}
			var sinceFilter *time.Time
			if since > 0 {
				t := time.Now().Add(-since)
				sinceFilter = &t
			}

			repo := persistence.NewGormTickLogRepository(db, nil)
			entries, err := repo.GetLogs(context.Background(), runID, limit, offset, levelFilter, sinceFilter)
			if err != nil {
				return fmt.Errorf("failed to read logs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No log lines for run %s\n", runID)
				return nil
			}

			for _, e := range entries {
				fmt.Fprintf(out, "%s tick=%-6d %-5s %s%s\n",
					e.Timestamp.Format("15:04:05"), e.Tick, e.Level, e.Message, formatMetadata(e.Metadata))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of lines")
	cmd.Flags().IntVar(&offset, "offset", 0, "Lines to skip")
	cmd.Flags().StringVar(&level, "level", "", "Only show one level (DEBUG, INFO, WARN, ERROR)")
	cmd.Flags().DurationVar(&since, "since", 0, "Only show lines newer than this")

	cmd.AddCommand(newLogsRunsCommand())

	return cmd
}

// newLogsRunsCommand creates the logs runs subcommand
func newLogsRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs that have persisted logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			repo := persistence.NewGormTickLogRepository(db, nil)
			runs, err := repo.ListRuns(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			w := newTable(out)
			fmt.Fprintln(w, "RUN ID\tLINES\tLAST TICK")
			fmt.Fprintln(w, "------\t-----\t---------")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\n", r.RunID, humanize.Comma(int64(r.Entries)), r.LastTick)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")

	return cmd
}

// formatMetadata renders metadata as sorted key=value pairs, leaving out
// the tick which is already a column
func formatMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		if k != "tick" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	return b.String()
}
