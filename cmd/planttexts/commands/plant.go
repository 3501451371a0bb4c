// ABOUTME: Plant commands to add plants with a personality and list them
// ABOUTME: Adding a plant also schedules its care tasks
package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	"github.com/spf13/cobra"
)

var (
	plantUser        string
	plantSpecies     string
	plantPersonality string
)

// NewPlantCmd creates the plant command group
func NewPlantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plant",
		Short: "Manage plants",
		Long:  `Add plants to a user and list them.`,
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a plant",
		Long: `Add a plant to a user's account and schedule its care.

Examples:
  planttexts plant add Fernando --user user_123 --species fern --personality sarcastic
  planttexts plant add "Sir Prickles" --user user_123 --species cactus`,
		Args: cobra.ExactArgs(1),
		RunE: runPlantAdd,
	}
	add.Flags().StringVar(&plantUser, "user", "", "Owner user ID (required)")
	add.Flags().StringVar(&plantSpecies, "species", "", "Species, used for the care schedule")
	add.Flags().StringVar(&plantPersonality, "personality", personality.Default.String(), "Personality type")
	_ = add.MarkFlagRequired("user")

	list := &cobra.Command{
		Use:   "list",
		Short: "List a user's plants",
		Long: `List the plants on a user's account.

Examples:
  planttexts plant list --user user_123
  planttexts plant list --user user_123 --format json`,
		Args: cobra.NoArgs,
		RunE: runPlantList,
	}
	list.Flags().StringVar(&plantUser, "user", "", "Owner user ID (required)")
	_ = list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}

func runPlantAdd(cmd *cobra.Command, args []string) error {
	typ, ok := personality.ParseType(plantPersonality)
	if !ok {
		return fmt.Errorf("unknown personality %q (see 'planttexts personalities')", plantPersonality)
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		user, err := a.Storage.GetUser(ctx, plantUser)
		if err != nil {
			return fmt.Errorf("loading user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %s not found", plantUser)
		}

		plant, err := models.NewPlant(user.UserID, args[0], plantSpecies, typ.String())
		if err != nil {
			return err
		}
		tasks, err := a.Care.AddPlant(ctx, plant, time.Now().UTC())
		if err != nil {
			return err
		}
		known := a.Care.KnownSpecies(plant.Species)

		if jsonOutput() {
			return printJSON(cmd, map[string]any{"plant": plant, "care_tasks": tasks, "species_known": known})
		}
		if quiet {
			fmt.Fprintln(cmd.OutOrStdout(), plant.PlantID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s the %s plant (%s), %d care task(s) scheduled\n",
			plant.Name, plant.PersonalityType, plant.PlantID, len(tasks))
		if !known {
			fmt.Fprintln(cmd.OutOrStdout(), "Species not in the care catalog, using the default schedule (see 'planttexts species')")
		}
		return nil
	})
}

func runPlantList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		plants, err := a.Storage.ListPlants(ctx, plantUser)
		if err != nil {
			return fmt.Errorf("listing plants: %w", err)
		}
		if jsonOutput() {
			if plants == nil {
				plants = []models.Plant{}
			}
			return printJSON(cmd, plants)
		}
		if len(plants) == 0 {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "No plants found")
			}
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NAME\tSPECIES\tPERSONALITY\tADDED\tPLANT ID\n")
		fmt.Fprintf(w, "----\t-------\t-----------\t-----\t--------\n")
		for _, p := range plants {
			species := p.Species
			if species == "" {
				species = "(unknown)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				truncate(p.Name, 25), species, p.PersonalityType, formatTime(p.CreatedAt), p.PlantID)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d plant(s)\n", len(plants))
		}
		return nil
	})
}
