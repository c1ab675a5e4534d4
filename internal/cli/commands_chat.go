package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/gateway/assistant"
	"github.com/feliksas/tastescout-cli/internal/service/output"
)

func newChatCommand(deps Dependencies) *cobra.Command {
	chat := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant about venues and recommendations.",
	}
	chat.AddCommand(newChatAskCommand(deps))
	chat.AddCommand(newChatExplainCommand(deps))
	chat.AddCommand(newChatSuggestCommand(deps))
	return chat
}

func newChatAskCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var message string
	var contextNote string

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask the assistant a single question.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("%s", requiredArg("--message"))
			}
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			// Assistant failures degrade to a canned reply rather than a
			// hard error; the CLI stays usable without it.
			messages := []assistant.Message{{Role: "user", Content: message}}
			return renderAssistantReply(cmd, deps, format, user, flags.Output, messages, contextNote)
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Question to ask the assistant.")
	cmd.Flags().StringVar(&contextNote, "context", "", "Optional context appended to the system prompt, for example current recommendations.")
	if err := cmd.MarkFlagRequired("message"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newChatExplainCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var venueName string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Ask why a venue was recommended, using the active profile as context.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(venueName) == "" {
				return fmt.Errorf("%s", requiredArg("--venue"))
			}
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

			messages, contextNote := assistant.VenueExplanationRequest(venueName, profile)
			return renderAssistantReply(cmd, deps, format, user, flags.Output, messages, contextNote)
		},
	}

	cmd.Flags().StringVar(&venueName, "venue", "", "Venue name from a recommendation result.")
	if err := cmd.MarkFlagRequired("venue"); err != nil {
		panic(err)
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newChatSuggestCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var category string
	var budget string
	var count int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask for filter adjustments given how many recommendations the last run found.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseOutputFormat(flags.Format)
			if err != nil {
				return err
			}
			user := userLabel(flags.User)

			filters := domain.Filters{Category: category, Budget: budget}.Normalized()
			messages, contextNote := assistant.FilterSuggestionRequest(filters, count)
			return renderAssistantReply(cmd, deps, format, user, flags.Output, messages, contextNote)
		},
	}

	cmd.Flags().StringVar(&category, "category", domain.CategoryAll, "Category filter in effect.")
	cmd.Flags().StringVar(&budget, "budget", domain.BudgetAny, "Budget filter in effect.")
	cmd.Flags().IntVar(&count, "count", 0, "How many recommendations the last run produced.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func renderAssistantReply(
	cmd *cobra.Command,
	deps Dependencies,
	format output.Format,
	user string,
	outputPath string,
	messages []assistant.Message,
	contextNote string,
) error {
	reply, err := deps.Assistant.Respond(cmd.Context(), messages, contextNote)

	warnings := []string{}
	if err != nil {
		reply = assistant.FriendlyError(err)
		warnings = append(warnings, "assistant unavailable")
	}

	if format == output.FormatTable {
		return writeTable(cmd, reply, outputPath)
	}
	env := output.BuildEnvelope(user, map[string]any{"reply": reply}, warnings, nil)
	return writeMachinePayload(cmd, env, format, outputPath)
}
