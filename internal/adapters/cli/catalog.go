package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colonybot-go/internal/domain/catalog"
	"github.com/andrescamacho/colonybot-go/internal/domain/spawning"
)

// NewCatalogCommand creates the catalog command
func NewCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the worker build profiles",
		Long: `List every build profile with its body, energy cost and carry capacity.

Example:
  colonybot catalog`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "BUILD\tBODY\tPARTS\tCOST\tCARRY")
			fmt.Fprintln(w, "-----\t----\t-----\t----\t-----")

			for _, b := range catalog.AllProfiles {
				parts := b.Parts()
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
					b,
					formatBody(parts.Body()),
					parts.Size(),
					b.Cost(),
					parts.CarryCapacity(),
				)
			}

			return w.Flush()
		},
	}
}

// NewTiersCommand creates the tiers command
func NewTiersCommand() *cobra.Command {
	var (
		level    int
		capacity int
	)

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Show the spawn tier table",
		Long: `Show the spawn tiers in selection order, richest first.

With --level and --capacity, also show which tier a room would use.

Examples:
  colonybot tiers
  colonybot tiers --level 2 --capacity 550`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w := newTable(out)
			fmt.Fprintln(w, "#\tMIN LEVEL\tMAX COST\tRECIPE")
			fmt.Fprintln(w, "-\t---------\t--------\t------")

			for i, tier := range spawning.DefaultTiers.Tiers() {
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\n", i+1, tier.MinLevel, tier.MaxCost, formatRecipe(tier.Recipe))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if cmd.Flags().Changed("level") || cmd.Flags().Changed("capacity") {
				tier, ok := spawning.DefaultTiers.Select(level, capacity)
				if !ok {
					fmt.Fprintf(out, "\nA room at level %d with capacity %d spawns nothing\n", level, capacity)
					return nil
				}
				fmt.Fprintf(out, "\nA room at level %d with capacity %d uses %s (population cap %d)\n",
					level, capacity, tier, spawning.PopulationCap(level))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&level, "level", 0, "Room controller level")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Room energy capacity")

	return cmd
}

func formatBody(body []catalog.PartKind) string {
	names := make([]string, len(body))
	for i, p := range body {
		names[i] = string(p)
	}
	return strings.Join(names, ",")
}

func formatRecipe(r spawning.Recipe) string {
	entries := make([]string, len(r))
	for i, e := range r {
		entries[i] = fmt.Sprintf("%s x%d", e.Build, e.Weight)
	}
	return strings.Join(entries, ", ")
}
