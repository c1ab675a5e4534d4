package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/service/output"
)

func newLocationsCommand(deps Dependencies) *cobra.Command {
	locations := &cobra.Command{
		Use:   "locations",
		Short: "List and resolve the supported location names.",
	}
	locations.AddCommand(newLocationsListCommand(deps))
	locations.AddCommand(newLocationsResolveCommand(deps))
	return locations
}

func newLocationsListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all supported locations with coordinates.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			names := deps.Geocoder.SupportedCities()
			cities := make([]map[string]any, 0, len(names))
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				coordinates, err := deps.Geocoder.Resolve(name)
				if err != nil {
					continue
				}
				cities = append(cities, map[string]any{"name": name, "coordinates": coordinates})
				rows = append(rows, []string{name, fmt.Sprintf("%.4f", coordinates.Lat), fmt.Sprintf("%.4f", coordinates.Lng)})
			}

			if format == output.FormatTable {
				return writeTable(cmd, output.RenderTable("Supported locations", []string{"Name", "Lat", "Lng"}, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, map[string]any{"locations": cities}, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newLocationsResolveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var name string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a free-text place name to coordinates and back.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%s", requiredArg("--name"))
			}
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			coordinates, err := deps.Geocoder.Resolve(name)
			if err != nil {
				return emitError(cmd, format, user, flags.Output, "TASTESCOUT_LOCATION_ERROR", err.Error())
			}
			canonical := deps.Geocoder.NameFor(coordinates)

			data := map[string]any{
				"query":       name,
				"name":        canonical,
				"coordinates": coordinates,
			}
			if format == output.FormatTable {
				rows := [][]string{
					{"Query", name},
					{"Resolved", canonical},
					{"Coordinates", fmt.Sprintf("%.4f, %.4f", coordinates.Lat, coordinates.Lng)},
				}
				return writeTable(cmd, output.RenderTable("", nil, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, data, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Place name to resolve.")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}
