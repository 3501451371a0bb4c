// ABOUTME: History command prints a plant's recent conversation
package commands

import (
	"context"
	"fmt"

	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/models"
	"github.com/spf13/cobra"
)

var historyLimit int

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <plant-id>",
		Short: "Show a plant's conversation",
		Long: `Show the most recent messages exchanged with a plant, oldest first.

Examples:
  planttexts history plant_123
  planttexts history plant_123 --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of messages to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		plant, err := a.Storage.GetPlant(ctx, args[0])
		if err != nil {
			return fmt.Errorf("loading plant: %w", err)
		}
		if plant == nil {
			return fmt.Errorf("plant %s not found", args[0])
		}

		turns, err := a.Storage.RecentTurns(ctx, plant.PlantID, historyLimit)
		if err != nil {
			return fmt.Errorf("loading history: %w", err)
		}

		if jsonOutput() {
			if turns == nil {
				turns = []models.ConversationTurn{}
			}
			return printJSON(cmd, turns)
		}
		if len(turns) == 0 {
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "No messages with %s yet\n", plant.Name)
			}
			return nil
		}

		for _, t := range turns {
			who := "you"
			if t.Speaker == models.SpeakerPlant {
				who = plant.Name
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", formatTime(t.Timestamp), who, t.Text)
		}
		return nil
	})
}
