package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonybot-go/internal/adapters/persistence"
	"github.com/andrescamacho/colonybot-go/internal/infrastructure/database"
)

// NewUnitsCommand creates the units command with subcommands
func NewUnitsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List stored unit states",
		Long: `List the state stored for every unit: build, job, stage and target.

Rows that can no longer be decoded are listed with the decode error; the
colony skips those units until their state is deleted.

Examples:
  colonybot units
  colonybot units delete Worker1_1:Spawn1:0`,
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

			repo := persistence.NewGormUnitStateRepository(db, nil)
			states, err := repo.ListAll(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(states) == 0 {
				fmt.Fprintln(out, "No unit states stored.")
				fmt.Fprintln(out, "\nStart a run with: colonybot run")
				return nil
			}

			w := newTable(out)
			fmt.Fprintln(w, "UNIT\tBUILD\tJOB\tSTAGE\tTARGET\tUPDATED")
			fmt.Fprintln(w, "----\t-----\t---\t-----\t------\t-------")

			for _, s := range states {
				updated := humanize.Time(s.Model.UpdatedAt)
				if s.Err != nil {
					fmt.Fprintf(w, "%s\t%s\t!\t%v\t\t%s\n", s.UnitID, s.Model.Build, s.Err, updated)
					continue
				}
				j := s.State.Job()
				target := string(j.Target().ID())
				if target == "" {
					target = "-"
				}
				stage := j.Stage()
				if stage == "" {
					stage = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.UnitID, s.State.Build(), j.Kind(), stage, target, updated)
			}

			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s unit state(s)\n", humanize.Comma(int64(len(states))))
			return nil
		},
	}

	cmd.AddCommand(newUnitsDeleteCommand())

	return cmd
}

// newUnitsDeleteCommand creates the units delete subcommand
func newUnitsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <unit>...",
		Short: "Delete stored unit states",
		Long: `Delete the stored state of one or more units, for example units that died
or whose state can no longer be decoded. A live unit without state is
skipped by the colony until a state is stored for it again.

Example:
  colonybot units delete Worker1_1:Spawn1:0`,
		Args: cobra.MinimumNArgs(1),
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

			repo := persistence.NewGormUnitStateRepository(db, nil)
			for _, unitID := range args {
				if err := repo.Delete(context.Background(), unitID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted state of %s\n", unitID)
			}
			return nil
		},
	}
}
