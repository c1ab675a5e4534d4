package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/gateway/assistant"
	"github.com/feliksas/tastescout-cli/internal/gateway/weather"
	"github.com/feliksas/tastescout-cli/internal/service/recommend"
	"github.com/feliksas/tastescout-cli/internal/store"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// Recommender runs the recommendation pipeline.
type Recommender interface {
	GetRecommendations(ctx context.Context, userID, locationName string, filters domain.Filters) recommend.Result
}

// ProfileStore persists user profiles and feedback.
type ProfileStore interface {
	Path() string
	AllProfiles(ctx context.Context) (map[string]domain.UserProfile, error)
	LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	SaveProfile(ctx context.Context, profile domain.UserProfile) error
	DeleteProfile(ctx context.Context, userID string) error
	AddFeedback(ctx context.Context, userID string, entry domain.FeedbackEntry) error
	Statistics(ctx context.Context, userID string) (store.Statistics, error)
}

// Assistant answers free-form questions about recommendations.
type Assistant interface {
	Respond(ctx context.Context, messages []assistant.Message, contextNote string) (string, error)
	HasCredentials() bool
}

// Geocoder resolves place names against the static city table.
type Geocoder interface {
	Resolve(name string) (domain.Coordinates, error)
	NameFor(coordinates domain.Coordinates) string
	SupportedCities() []string
}

// CredentialChecker reports whether a gateway has an API key configured.
type CredentialChecker interface {
	HasCredentials() bool
}

// Dependencies wires runtime services.
type Dependencies struct {
	Recommend Recommender
	Weather   weather.API
	Assistant Assistant
	Geocoder  Geocoder
	Store     ProfileStore
	Version   string

	// Gateways carrying credentials, for the status command and the
	// verbose HTTP trace. Entries may be nil in tests.
	Venues         CredentialChecker
	WeatherClient  CredentialChecker
	AssistantCreds CredentialChecker
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || err == errVersionShown {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}
