package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

const baseSystemPrompt = `You are an AI assistant integrated into an entertainment recommender application.
You help users discover and explore entertainment venues based on their personalized taste profiles.

Your role is to:
- Help users understand their recommendations
- Answer questions about specific venues
- Provide insights about their taste preferences
- Suggest ways to refine their search filters
- Explain why certain venues were recommended
- Be enthusiastic about entertainment discovery

Guidelines:
- Be conversational, helpful, and enthusiastic
- Keep responses concise but informative (2-3 sentences typically)
- If asked about venues not in the current recommendations, politely redirect to available options
- Focus on actionable advice and insights
- If no recommendations are available, encourage the user to get recommendations first`

// SystemPrompt returns the system message, with the current recommendation
// context appended when present.
func SystemPrompt(contextNote string) string {
	if contextNote == "" {
		return baseSystemPrompt
	}
	return baseSystemPrompt + "\n\nCurrent context:\n" + contextNote
}

// VenueExplanationRequest builds the conversation asking why a venue was
// recommended, with the user profile as context.
func VenueExplanationRequest(venueName string, profile domain.UserProfile) ([]Message, string) {
	messages := []Message{{
		Role:    "user",
		Content: fmt.Sprintf("Why was %s recommended for me based on my preferences?", venueName),
	}}
	return messages, "User preferences: " + marshalContext(profile)
}

// FilterSuggestionRequest builds the conversation asking for filter
// adjustments given the current result count.
func FilterSuggestionRequest(filters domain.Filters, recommendationCount int) ([]Message, string) {
	messages := []Message{{
		Role:    "user",
		Content: "Can you suggest how I might adjust my filters to get better recommendations?",
	}}
	contextNote := fmt.Sprintf("Current filters: %s\nRecommendations found: %d", marshalContext(filters), recommendationCount)
	return messages, contextNote
}

func marshalContext(value any) string {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(payload)
}
