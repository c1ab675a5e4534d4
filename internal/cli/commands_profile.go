package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/service/output"
	"github.com/feliksas/tastescout-cli/internal/store"
)

func newProfileCommand(deps Dependencies) *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Create and manage local taste profiles.",
	}
	profile.AddCommand(newProfileCreateCommand(deps))
	profile.AddCommand(newProfileShowCommand(deps))
	profile.AddCommand(newProfileListCommand(deps))
	profile.AddCommand(newProfileDeleteCommand(deps))
	profile.AddCommand(newProfileStatsCommand(deps))
	return profile
}

func newProfileCreateCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var name string
	var email string
	var interestsCSV string
	var budget string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a taste profile and print its user id.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("%s", requiredArg("--name"))
			}
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}

			createdAt := time.Now().UTC()
			profile := domain.UserProfile{
				UserID:           domain.GenerateUserID(name, email, createdAt),
				Name:             strings.TrimSpace(name),
				Email:            strings.TrimSpace(email),
				Interests:        splitCSV(interestsCSV),
				BudgetPreference: budget,
			}
			if err := deps.Store.SaveProfile(cmd.Context(), profile); err != nil {
				return emitError(cmd, format, userLabel(profile.UserID), flags.Output, "TASTESCOUT_STORE_ERROR", err.Error())
			}

			if format == output.FormatTable {
				return writeTable(cmd, "Profile created: "+profile.UserID, flags.Output)
			}
			env := output.BuildEnvelope(profile.UserID, profile, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name.")
	cmd.Flags().StringVar(&email, "email", "", "Email address (part of the user id seed).")
	cmd.Flags().StringVar(&interestsCSV, "interests", "", "Comma-separated interest tags, for example \"Museums,Coffee Shops\".")
	cmd.Flags().StringVar(&budget, "budget", domain.BudgetAny, "Budget preference: $, $$, $$$, $$$$, or Any.")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newProfileShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one taste profile.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)
			if flags.User == "" {
				return fmt.Errorf("%s", requiredArg("--user"))
			}

			profile, err := deps.Store.LoadProfile(cmd.Context(), flags.User)
			if err != nil {
				return profileStoreError(cmd, format, user, flags.Output, err)
			}

			if format == output.FormatTable {
				rows := [][]string{
					{"User id", profile.UserID},
					{"Name", profile.Name},
					{"Email", profile.Email},
					{"Interests", profile.FormatInterests()},
					{"Budget", profile.BudgetPreference},
					{"Feedback entries", fmt.Sprintf("%d", len(profile.FeedbackHistory))},
					{"Last updated", profile.LastUpdated.Format(time.RFC3339)},
				}
				return writeTable(cmd, output.RenderTable("", nil, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, profile, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newProfileListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all stored taste profiles.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			profiles, err := deps.Store.AllProfiles(cmd.Context())
			if err != nil {
				return emitError(cmd, format, user, flags.Output, "TASTESCOUT_STORE_ERROR", err.Error())
			}

			ids := make([]string, 0, len(profiles))
			for id := range profiles {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			listed := make([]domain.UserProfile, 0, len(ids))
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				profile := profiles[id]
				listed = append(listed, profile)
				rows = append(rows, []string{profile.UserID, profile.Name, profile.FormatInterests(), profile.BudgetPreference})
			}

			if format == output.FormatTable {
				return writeTable(cmd, output.RenderTable("Profiles", []string{"User id", "Name", "Interests", "Budget"}, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, map[string]any{"profiles": listed}, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newProfileDeleteCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a taste profile and its feedback history.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if flags.User == "" {
				return fmt.Errorf("%s", requiredArg("--user"))
			}
			user := userLabel(flags.User)

			if err := deps.Store.DeleteProfile(cmd.Context(), flags.User); err != nil {
				return profileStoreError(cmd, format, user, flags.Output, err)
			}
			if format == output.FormatTable {
				return writeTable(cmd, "Profile deleted: "+flags.User, flags.Output)
			}
			env := output.BuildEnvelope(user, map[string]any{"deleted": flags.User}, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newProfileStatsCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show feedback statistics for a taste profile.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if flags.User == "" {
				return fmt.Errorf("%s", requiredArg("--user"))
			}
			user := userLabel(flags.User)

			stats, err := deps.Store.Statistics(cmd.Context(), flags.User)
			if err != nil {
				return profileStoreError(cmd, format, user, flags.Output, err)
			}

			if format == output.FormatTable {
				rows := [][]string{
					{"Total ratings", fmt.Sprintf("%d", stats.TotalRatings)},
					{"Average rating", fmt.Sprintf("%.2f", stats.AverageRating)},
					{"Favorite venues", strings.Join(stats.FavoriteVenues, ", ")},
				}
				if !stats.LastActivity.IsZero() {
					rows = append(rows, []string{"Last activity", stats.LastActivity.Format(time.RFC3339)})
				}
				return writeTable(cmd, output.RenderTable("Stats: "+flags.User, nil, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, stats, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func profileStoreError(cmd *cobra.Command, format output.Format, user, outputPath string, err error) error {
	code := "TASTESCOUT_STORE_ERROR"
	if errors.Is(err, store.ErrProfileNotFound) {
		code = "TASTESCOUT_PROFILE_NOT_FOUND"
	}
	return emitError(cmd, format, user, outputPath, code, err.Error())
}
