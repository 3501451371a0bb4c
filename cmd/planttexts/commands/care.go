// ABOUTME: Care commands to list, complete and get reminders for care tasks
// ABOUTME: Reminders are written in each plant's personality
package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/care"
	"github.com/harper/plant-texts/internal/models"
	"github.com/spf13/cobra"
)

var (
	carePlant string
	careUser  string
	careAll   bool
)

// NewCareCmd creates the care command group
func NewCareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "care",
		Short: "Manage plant care tasks",
		Long:  `List care tasks, mark them done, and see what your plants are asking for.`,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List care tasks",
		Long: `List a plant's care tasks, or the due tasks across a user's plants.

Examples:
  planttexts care list --plant plant_123
  planttexts care list --plant plant_123 --all
  planttexts care list --user user_123`,
		Args: cobra.NoArgs,
		RunE: runCareList,
	}
	list.Flags().StringVar(&carePlant, "plant", "", "Plant ID")
	list.Flags().StringVar(&careUser, "user", "", "User ID (due tasks only)")
	list.Flags().BoolVar(&careAll, "all", false, "Include completed tasks")
	list.MarkFlagsMutuallyExclusive("plant", "user")
	list.MarkFlagsOneRequired("plant", "user")

	complete := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a care task done",
		Long: `Mark a care task done now and schedule the next one.

Examples:
  planttexts care complete task_123`,
		Args: cobra.ExactArgs(1),
		RunE: runCareComplete,
	}

	remind := &cobra.Command{
		Use:   "remind",
		Short: "Show due reminders in each plant's voice",
		Long: `Show every due task for a user, phrased by the plant that needs it.

Examples:
  planttexts care remind --user user_123`,
		Args: cobra.NoArgs,
		RunE: runCareRemind,
	}
	remind.Flags().StringVar(&careUser, "user", "", "User ID (required)")
	_ = remind.MarkFlagRequired("user")

	cmd.AddCommand(list, complete, remind)
	return cmd
}

func runCareList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		var (
			tasks []models.CareTask
			err   error
		)
		now := time.Now().UTC()
		if carePlant != "" {
			tasks, err = a.Care.ForPlant(ctx, carePlant, careAll)
		} else {
			tasks, err = a.Care.Due(ctx, careUser, now)
		}
		if err != nil {
			return fmt.Errorf("listing care tasks: %w", err)
		}

		if jsonOutput() {
			if tasks == nil {
				tasks = []models.CareTask{}
			}
			return printJSON(cmd, tasks)
		}
		if len(tasks) == 0 {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "No care tasks")
			}
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "TASK\tDUE\tSTATUS\tTASK ID\n")
		for _, t := range tasks {
			status := "open"
			if t.Completed() {
				status = "done " + formatTime(*t.CompletedAt)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.TaskType, formatDue(t.DueAt, now), status, t.TaskID)
		}
		return w.Flush()
	})
}

func runCareComplete(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		next, err := a.Care.Complete(ctx, args[0], time.Now().UTC())
		switch {
		case errors.Is(err, care.ErrTaskNotFound):
			return fmt.Errorf("care task %s not found", args[0])
		case errors.Is(err, care.ErrAlreadyCompleted):
			return fmt.Errorf("care task %s is already completed", args[0])
		case err != nil:
			return err
		}

		if jsonOutput() {
			return printJSON(cmd, map[string]any{"success": true, "next_task": next})
		}
		if quiet {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Done.")
		if next != nil {
			fmt.Fprintf(cmd.OutOrStdout(), " Next %s due %s (%s)", next.TaskType, next.DueAt.Format("2006-01-02"), next.TaskID)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	})
}

func runCareRemind(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		reminders, err := a.Care.Reminders(ctx, careUser, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("building reminders: %w", err)
		}
		if jsonOutput() {
			if reminders == nil {
				reminders = []care.DueReminder{}
			}
			return printJSON(cmd, reminders)
		}
		if len(reminders) == 0 {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing is due. Your plants are (mostly) content.")
			}
			return nil
		}
		for _, r := range reminders {
			fmt.Fprintln(cmd.OutOrStdout(), r.Text)
		}
		return nil
	})
}
