package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/service/output"
)

func newFeedbackCommand(deps Dependencies) *cobra.Command {
	feedback := &cobra.Command{
		Use:   "feedback",
		Short: "Record and inspect venue ratings for a taste profile.",
	}
	feedback.AddCommand(newFeedbackAddCommand(deps))
	feedback.AddCommand(newFeedbackListCommand(deps))
	return feedback
}

func newFeedbackAddCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var venueID string
	var rating int
	var comment string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Rate a venue (1-5) for the active profile.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if flags.User == "" {
				return fmt.Errorf("%s", requiredArg("--user"))
			}
			if venueID == "" {
				return fmt.Errorf("%s", requiredArg("--venue"))
			}
			user := userLabel(flags.User)

			entry := domain.FeedbackEntry{
				VenueID:   venueID,
				Rating:    rating,
				Comment:   comment,
				Timestamp: time.Now().UTC(),
			}
			if err := deps.Store.AddFeedback(cmd.Context(), flags.User, entry); err != nil {
				return profileStoreError(cmd, format, user, flags.Output, err)
			}

			if format == output.FormatTable {
				return writeTable(cmd, fmt.Sprintf("Recorded rating %d for %s", rating, venueID), flags.Output)
			}
			env := output.BuildEnvelope(user, entry, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}

	cmd.Flags().StringVar(&venueID, "venue", "", "Venue id from a recommendation result.")
	cmd.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5.")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional free-text comment.")
	if err := cmd.MarkFlagRequired("venue"); err != nil {
		panic(err)
	}
	if err := cmd.MarkFlagRequired("rating"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newFeedbackListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the feedback history for a taste profile, oldest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			if flags.User == "" {
				return fmt.Errorf("%s", requiredArg("--user"))
			}
			user := userLabel(flags.User)

			profile, err := deps.Store.LoadProfile(cmd.Context(), flags.User)
			if err != nil {
				return profileStoreError(cmd, format, user, flags.Output, err)
			}

			if format == output.FormatTable {
				rows := make([][]string, 0, len(profile.FeedbackHistory))
				for _, entry := range profile.FeedbackHistory {
					rows = append(rows, []string{
						entry.Timestamp.Format("2006-01-02 15:04"),
						entry.VenueID,
						fmt.Sprintf("%d", entry.Rating),
						entry.Comment,
					})
				}
				return writeTable(cmd, output.RenderTable("Feedback: "+flags.User, []string{"Time", "Venue", "Rating", "Comment"}, rows), flags.Output)
			}
			env := output.BuildEnvelope(user, map[string]any{"feedback": profile.FeedbackHistory}, []string{}, nil)
			return writeMachinePayload(cmd, env, format, flags.Output)
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}
