// ABOUTME: Species command lists the care catalog
// ABOUTME: Shows how often each known species needs each kind of care
package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/models"
	"github.com/spf13/cobra"
)

// NewSpeciesCmd creates the species command
func NewSpeciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "species",
		Short: "List species with their own care schedule",
		Long: `List the species in the care catalog and their care intervals.

Plants of any other species get the default schedule.`,
		Args: cobra.NoArgs,
		RunE: runSpecies,
	}

	return cmd
}

func runSpecies(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		species := a.Care.Species()
		if jsonOutput() {
			return printJSON(cmd, species)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SPECIES\tCARE\n")
		fmt.Fprintf(w, "-------\t----\n")
		for _, sp := range species {
			fmt.Fprintf(w, "%s\t%s\n", sp.DisplayName, intervalSummary(sp.Intervals))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d species\n", len(species))
		}
		return nil
	})
}

// intervalSummary renders intervals in task order, e.g. "watering every 7d"
func intervalSummary(intervals map[models.TaskType]int) string {
	var parts []string
	for _, tt := range models.TaskTypes() {
		if days, ok := intervals[tt]; ok {
			parts = append(parts, fmt.Sprintf("%s every %dd", tt, days))
		}
	}
	return strings.Join(parts, ", ")
}
