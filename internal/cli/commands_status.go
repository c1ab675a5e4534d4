package cli

import (
	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/service/output"
)

func newStatusCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which upstream services are configured and where profiles are stored.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			venuesReady := hasCredentials(deps.Venues)
			weatherReady := hasCredentials(deps.WeatherClient)
			assistantReady := hasCredentials(deps.AssistantCreds)
			storePath := ""
			if deps.Store != nil {
				storePath = deps.Store.Path()
			}

			data := map[string]any{
				"venues_api":    venuesReady,
				"weather_api":   weatherReady,
				"assistant_api": assistantReady,
				"store_path":    storePath,
				"version":       resolvedVersion(deps.Version),
			}

			if format == output.FormatTable {
				rows := [][]string{
					{"Venues API", configuredLabel(venuesReady)},
					{"Weather API", configuredLabel(weatherReady)},
					{"Assistant API", configuredLabel(assistantReady)},
					{"Profile store", storePath},
					{"Version", resolvedVersion(deps.Version)},
				}
				return writeTable(cmd, output.RenderTable("Status", nil, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, data, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func hasCredentials(checker CredentialChecker) bool {
	return checker != nil && checker.HasCredentials()
}

func configuredLabel(ready bool) string {
	if ready {
		return "configured"
	}
	return "not configured"
}
