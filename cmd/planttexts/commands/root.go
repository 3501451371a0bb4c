// ABOUTME: Root cobra command with global output and verbosity flags
// ABOUTME: Registers every planttexts subcommand
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██████╗ ██╗      █████╗ ███╗   ██╗████████╗
 ██╔══██╗██║     ██╔══██╗████╗  ██║╚══██╔══╝
 ██████╔╝██║     ███████║██╔██╗ ██║   ██║
 ██╔═══╝ ██║     ██╔══██║██║╚██╗██║   ██║
 ██║     ███████╗██║  ██║██║ ╚████║   ██║
 ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═══╝   ╚═╝  texts`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planttexts",
		Short: "Text your plants, and let them text you back",
		Long: banner + `

Plant Texts gives every houseplant a personality. Plants answer your
messages in character (sarcastic, dramatic, cheerful...) and remind you
when they need water, fertilizer or a new pot.

Configuration comes from the environment (or a .env file):
  OPENAI_API_KEY        enables model replies (templates otherwise)
  PLANT_TEXTS_DB        SQLite database path
  REDIS_URL             optional conversation history cache
  EVAL_URL / NATS_URL   optional evaluation logging sinks`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "text":
				return nil
			}
			return fmt.Errorf("invalid --format %q (want auto, json or text)", outputFormat)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json or text")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewServeCmd(),
		NewMCPCmd(),
		NewChatCmd(),
		NewUserCmd(),
		NewPlantCmd(),
		NewHistoryCmd(),
		NewCareCmd(),
		NewPersonalitiesCmd(),
		NewSpeciesCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
