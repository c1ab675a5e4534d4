package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/service/output"
	"github.com/feliksas/tastescout-cli/internal/service/weatherctx"
)

func newWeatherCommand(deps Dependencies) *cobra.Command {
	weather := &cobra.Command{
		Use:   "weather",
		Short: "Inspect current conditions and the indoor/outdoor recommendation context.",
	}
	weather.AddCommand(newWeatherCurrentCommand(deps))
	weather.AddCommand(newWeatherForecastCommand(deps))
	return weather
}

func newWeatherCurrentCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var location string

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show current weather and the derived recommendation context for a location.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(location) == "" {
				return fmt.Errorf("%s", requiredArg("--location"))
			}
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			coordinates, err := deps.Geocoder.Resolve(location)
			if err != nil {
				return emitError(cmd, format, user, flags.Output, "TASTESCOUT_LOCATION_ERROR", err.Error())
			}
			reading, err := deps.Weather.CurrentWeather(cmd.Context(), coordinates.Lat, coordinates.Lng)
			if err != nil {
				return emitUpstreamError(cmd, format, user, flags.Output, flags.Verbose, err)
			}
			analysis := weatherctx.Classify(reading)

			data := map[string]any{
				"location":    location,
				"coordinates": coordinates,
				"reading":     reading,
				"analysis":    analysis,
			}

			if format == output.FormatTable {
				rows := [][]string{
					{"Temperature", fmt.Sprintf("%.1f C", reading.Temperature)},
					{"Humidity", fmt.Sprintf("%d%%", reading.Humidity)},
					{"Wind", fmt.Sprintf("%.1f km/h", reading.WindSpeedKMH)},
					{"Rain (1h)", fmt.Sprintf("%.1f mm", reading.RainOneHourMM)},
					{"Condition", reading.Condition},
					{"Context", analysis.Context},
					{"Indoor preferred", yesNo(analysis.IndoorPreferred)},
				}
				return writeTable(cmd, output.RenderTable("Weather: "+location, nil, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, data, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Location name.")
	if err := cmd.MarkFlagRequired("location"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newWeatherForecastCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var location string
	var hours int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show the hourly forecast for a location (capped at 48 hours).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(location) == "" {
				return fmt.Errorf("%s", requiredArg("--location"))
			}
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			coordinates, err := deps.Geocoder.Resolve(location)
			if err != nil {
				return emitError(cmd, format, user, flags.Output, "TASTESCOUT_LOCATION_ERROR", err.Error())
			}
			entries, err := deps.Weather.Forecast(cmd.Context(), coordinates.Lat, coordinates.Lng, hours)
			if err != nil {
				return emitUpstreamError(cmd, format, user, flags.Output, flags.Verbose, err)
			}

			data := map[string]any{
				"location": location,
				"entries":  entries,
			}

			if format == output.FormatTable {
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Time.Format("2006-01-02 15:04"),
						fmt.Sprintf("%.1f C", entry.Temperature),
						entry.Condition,
					})
				}
				return writeTable(cmd, output.RenderTable("Forecast: "+location, []string{"Time", "Temp", "Condition"}, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, data, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Location name.")
	cmd.Flags().IntVar(&hours, "hours", 24, "Forecast hours (max 48).")
	if err := cmd.MarkFlagRequired("location"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}
