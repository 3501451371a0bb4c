// ABOUTME: Chat command sends one message to a plant and prints its reply
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/plant-texts/internal/app"
	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <plant-id> <message>",
		Short: "Send a message to a plant",
		Long: `Send a message to a plant and print its reply.

Replies ending in 🌱 came from a pre-written template because the
language model was disabled or unavailable.

Examples:
  planttexts chat plant_123 "did you need water?"
  planttexts chat plant_123 good morning --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	plantID := args[0]
	message := strings.Join(args[1:], " ")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		reply, err := a.Chat.Chat(ctx, plantID, message)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(cmd, reply)
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply.ResponseText)
		return nil
	})
}
