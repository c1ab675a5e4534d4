package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/service/output"
	"github.com/feliksas/tastescout-cli/internal/service/recommend"
)

func newRecommendCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var location string
	var category string
	var budget string
	var minRating float64
	var weatherAware bool
	var maxResults int
	var timeOfDay string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get venue recommendations for a location, filtered and ranked by your taste profile.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(location) == "" {
				return fmt.Errorf("%s", requiredArg("--location"))
			}
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if minRating < 0 || minRating > 5 {
				return fmt.Errorf("--min-rating must be between 0 and 5")
			}
			if timeOfDay == "" {
				timeOfDay = domain.TimeOfDay(time.Now())
			}

			filters := domain.Filters{
				Category:     category,
				Budget:       budget,
				MinRating:    minRating,
				WeatherAware: weatherAware,
				MaxResults:   maxResults,
				TimeOfDay:    timeOfDay,
			}.Normalized()

			result := deps.Recommend.GetRecommendations(cmd.Context(), flags.User, location, filters)
			user := userLabel(flags.User)

			if result.Outcome == recommend.OutcomeProviderError {
				return emitError(cmd, format, user, flags.Output,
					"TASTESCOUT_PROVIDER_ERROR",
					"recommendation providers are unavailable; try again later")
			}

			warnings := []string{}
			if result.Outcome == recommend.OutcomeEmpty {
				warnings = append(warnings, "no recommendations available for the active filters")
			}
			if weatherAware && result.Weather == nil {
				warnings = append(warnings, "weather context unavailable; weather filter skipped")
			}

			data := map[string]any{
				"location": location,
				"filters":  filters,
				"stage":    result.Stage,
				"outcome":  result.Outcome,
				"venues":   result.Venues,
			}
			if result.Weather != nil {
				data["weather"] = result.Weather
			}

			if format == output.FormatTable {
				return writeTable(cmd, buildRecommendTable(location, result), flags.Output)
			}
			env := output.BuildEnvelope(user, data, warnings, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Location name, for example \"San Francisco\".")
	cmd.Flags().StringVar(&category, "category", domain.CategoryAll, "Venue category filter, or All.")
	cmd.Flags().StringVar(&budget, "budget", domain.BudgetAny, "Budget filter: $, $$, $$$, $$$$, or Any.")
	cmd.Flags().Float64Var(&minRating, "min-rating", 0, "Minimum venue rating (0-5).")
	cmd.Flags().BoolVar(&weatherAware, "weather-aware", false, "Prefer indoor venues in bad weather.")
	cmd.Flags().IntVar(&maxResults, "max-results", domain.DefaultMaxResults, "Maximum number of venues returned.")
	cmd.Flags().StringVar(&timeOfDay, "time-of-day", "", "Time context: morning, afternoon, evening, night. Defaults from the clock.")
	if err := cmd.MarkFlagRequired("location"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)

	return cmd
}

func buildRecommendTable(location string, result recommend.Result) string {
	if len(result.Venues) == 0 {
		return "No recommendations available for " + location + "."
	}

	title := fmt.Sprintf("Recommendations for %s (%d venues, via %s)", location, len(result.Venues), result.Stage)
	if result.Weather != nil {
		title += fmt.Sprintf("\nWeather: %s (indoor preferred: %s)", result.Weather.Context, yesNo(result.Weather.IndoorPreferred))
	}

	headers := []string{"Name", "Rating", "Price", "Categories", "Address", "Score", "Source"}
	rows := make([][]string, 0, len(result.Venues))
	for _, venue := range result.Venues {
		rows = append(rows, []string{
			venue.Name,
			venue.FormatRating(),
			venue.FormatPriceLevel(),
			venue.FormatCategories(),
			venue.FormatAddress(),
			venue.FormatScore(),
			venue.Source,
		})
	}
	return output.RenderTable(title, headers, rows)
}
