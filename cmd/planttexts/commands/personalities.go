// ABOUTME: Personalities command lists every plant personality profile
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/plant-texts/internal/app"
	"github.com/spf13/cobra"
)

// NewPersonalitiesCmd creates the personalities command
func NewPersonalitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personalities",
		Short: "List plant personalities",
		Long: `List the personality types a plant can have, with their tone
and a sample phrase.`,
		Args: cobra.NoArgs,
		RunE: runPersonalities,
	}

	return cmd
}

func runPersonalities(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		profiles := a.Resolver.Profiles()
		if jsonOutput() {
			return printJSON(cmd, profiles)
		}

		out := cmd.OutOrStdout()
		for i, p := range profiles {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s (%s)\n", p.DisplayName, p.Type)
			fmt.Fprintf(out, "  tone: %s\n", strings.Join(p.ToneDescriptors, ", "))
			if len(p.SamplePhrases) > 0 {
				fmt.Fprintf(out, "  e.g.  %q\n", p.SamplePhrases[0])
			}
		}
		return nil
	})
}
