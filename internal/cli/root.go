package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	version := resolvedVersion(deps.Version)

	root := &cobra.Command{
		Use:           "tastescout",
		Short:         "Discover venues matched to your taste profile, weather, and budget.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
				return errVersionShown
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			attachVerboseHTTPTrace(cmd, deps.Venues, deps.WeatherClient, deps.AssistantCreds)
			showVersion, _ := cmd.Flags().GetBool("version")
			if !showVersion {
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
			return errVersionShown
		},
	}
	root.Flags().BoolP("version", "v", false, "Show CLI version and exit.")
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	root.AddCommand(newRecommendCommand(deps))
	root.AddCommand(newWeatherCommand(deps))
	root.AddCommand(newLocationsCommand(deps))
	root.AddCommand(newProfileCommand(deps))
	root.AddCommand(newFeedbackCommand(deps))
	root.AddCommand(newChatCommand(deps))
	root.AddCommand(newStatusCommand(deps))

	return root
}

type verboseHTTPTraceSetter interface {
	SetVerboseOutput(out io.Writer)
}

func attachVerboseHTTPTrace(cmd *cobra.Command, upstreams ...any) {
	if cmd == nil {
		return
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return
	}
	attached := false
	for _, upstream := range upstreams {
		if upstream == nil {
			continue
		}
		setter, ok := upstream.(verboseHTTPTraceSetter)
		if !ok {
			continue
		}
		setter.SetVerboseOutput(cmd.ErrOrStderr())
		attached = true
	}
	if attached {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "[verbose] http trace enabled")
	}
}
