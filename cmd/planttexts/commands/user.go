// ABOUTME: User commands to register and list plant owners
package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/harper/plant-texts/internal/app"
	"github.com/harper/plant-texts/internal/models"
	"github.com/spf13/cobra"
)

var userPhone string

// NewUserCmd creates the user command group
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long:  `Register plant owners and list them.`,
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a user",
		Long: `Register a user who can own plants.

Examples:
  planttexts user add "Ada Lovelace" --phone +15550100`,
		Args: cobra.ExactArgs(1),
		RunE: runUserAdd,
	}
	add.Flags().StringVar(&userPhone, "phone", "", "Phone number for reminders")

	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Long:  `List every registered user.`,
		Args:  cobra.NoArgs,
		RunE:  runUserList,
	}

	cmd.AddCommand(add, list)
	return cmd
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		user, err := models.NewUser(args[0], userPhone)
		if err != nil {
			return err
		}
		if err := a.Storage.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		if jsonOutput() {
			return printJSON(cmd, user)
		}
		if quiet {
			fmt.Fprintln(cmd.OutOrStdout(), user.UserID)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", user.Name, user.UserID)
		return nil
	})
}

func runUserList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		users, err := a.Storage.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}
		if jsonOutput() {
			if users == nil {
				users = []models.User{}
			}
			return printJSON(cmd, users)
		}
		if len(users) == 0 {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found")
			}
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "NAME\tPHONE\tCREATED\tUSER ID\n")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncate(u.Name, 30), u.Phone, formatTime(u.CreatedAt), u.UserID)
		}
		return w.Flush()
	})
}
