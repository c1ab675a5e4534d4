package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/service/recommend"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestRecommendTableOutput(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{
			Venues: []domain.Venue{
				{
					ID:                  "venue-1",
					Name:                "City Museum",
					Source:              "qloo_insights",
					Rating:              floatPtr(4.5),
					Categories:          []string{"museum"},
					Address:             "123 Main St",
					RecommendationScore: 4.5,
				},
			},
			Stage:   recommend.StageInsights,
			Outcome: recommend.OutcomeVenues,
		},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	stdout, _, code := runCLI(t, deps, "recommend", "--location", "San Francisco", "--user", "abc123")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout, "City Museum") {
		t.Fatalf("expected venue name in output, got %q", stdout)
	}
	if !strings.Contains(stdout, "via insights") {
		t.Fatalf("expected producing stage in title, got %q", stdout)
	}
	if recommender.gotUser != "abc123" {
		t.Fatalf("expected user id forwarded, got %q", recommender.gotUser)
	}
	if recommender.gotLocation != "San Francisco" {
		t.Fatalf("expected location forwarded, got %q", recommender.gotLocation)
	}
}

func TestRecommendForwardsFilters(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{Venues: []domain.Venue{}, Stage: recommend.StageNone, Outcome: recommend.OutcomeEmpty},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	_, _, code := runCLI(t, deps,
		"recommend",
		"--location", "Tokyo",
		"--category", "Museums",
		"--budget", "$$",
		"--min-rating", "4",
		"--max-results", "5",
		"--weather-aware",
		"--time-of-day", "evening",
	)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	filters := recommender.gotFilters
	if filters.Category != "Museums" || filters.Budget != "$$" {
		t.Fatalf("unexpected category/budget: %+v", filters)
	}
	if filters.MinRating != 4 || filters.MaxResults != 5 {
		t.Fatalf("unexpected rating/limit: %+v", filters)
	}
	if !filters.WeatherAware || filters.TimeOfDay != "evening" {
		t.Fatalf("unexpected weather/time filters: %+v", filters)
	}
}

func TestRecommendDefaultsTimeOfDayFromClock(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{Venues: []domain.Venue{}, Stage: recommend.StageNone, Outcome: recommend.OutcomeEmpty},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	_, _, code := runCLI(t, deps, "recommend", "--location", "Paris")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if recommender.gotFilters.TimeOfDay == "" {
		t.Fatal("expected time of day default from the clock")
	}
}

func TestRecommendEmptyOutcome(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{Venues: []domain.Venue{}, Stage: recommend.StageNone, Outcome: recommend.OutcomeEmpty},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	stdout, _, code := runCLI(t, deps, "recommend", "--location", "Berlin")
	if code != 0 {
		t.Fatalf("expected exit code 0 for an empty result, got %d", code)
	}
	if !strings.Contains(stdout, "No recommendations available for Berlin.") {
		t.Fatalf("expected empty-result message, got %q", stdout)
	}
}

func TestRecommendProviderErrorExitCode(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{Venues: []domain.Venue{}, Stage: recommend.StageNone, Outcome: recommend.OutcomeProviderError},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	stdout, _, code := runCLI(t, deps, "recommend", "--location", "London")
	if code != 1 {
		t.Fatalf("expected exit code 1 for provider failure, got %d", code)
	}
	if !strings.Contains(stdout, "unavailable") {
		t.Fatalf("expected provider failure message, got %q", stdout)
	}
}

func TestRecommendProviderErrorJSONEnvelope(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{Venues: []domain.Venue{}, Stage: recommend.StageNone, Outcome: recommend.OutcomeProviderError},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	stdout, _, code := runCLI(t, deps, "recommend", "--location", "London", "--format", "json")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	var payload struct {
		Error map[string]any `json:"error"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("unmarshal envelope: %v\n%s", err, stdout)
	}
	if payload.Error["code"] != "TASTESCOUT_PROVIDER_ERROR" {
		t.Fatalf("unexpected error code: %v", payload.Error)
	}
}

func TestRecommendJSONEnvelope(t *testing.T) {
	recommender := &testRecommender{
		result: recommend.Result{
			Venues:  []domain.Venue{{ID: "venue-1", Name: "Blue Bottle", Source: "qloo_search"}},
			Stage:   recommend.StageTextSearch,
			Outcome: recommend.OutcomeVenues,
		},
	}
	deps := Dependencies{Recommend: recommender, Version: "test"}

	stdout, _, code := runCLI(t, deps, "recommend", "--location", "Seattle", "--format", "json")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	var payload struct {
		Meta map[string]any `json:"meta"`
		Data struct {
			Outcome string         `json:"outcome"`
			Stage   string         `json:"stage"`
			Venues  []domain.Venue `json:"venues"`
		} `json:"data"`
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("unmarshal envelope: %v\n%s", err, stdout)
	}
	if payload.Meta["user"] != "anonymous" {
		t.Fatalf("expected anonymous user label, got %v", payload.Meta["user"])
	}
	if payload.Data.Outcome != "venues" || payload.Data.Stage != "text_search" {
		t.Fatalf("unexpected outcome/stage: %+v", payload.Data)
	}
	if len(payload.Data.Venues) != 1 || payload.Data.Venues[0].Name != "Blue Bottle" {
		t.Fatalf("unexpected venues: %+v", payload.Data.Venues)
	}
	if len(payload.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", payload.Warnings)
	}
}

func TestRecommendMinRatingValidation(t *testing.T) {
	deps := Dependencies{Recommend: &testRecommender{}, Version: "test"}
	_, stderr, code := runCLI(t, deps, "recommend", "--location", "Tokyo", "--min-rating", "7")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "--min-rating") {
		t.Fatalf("expected min-rating validation message, got %q", stderr)
	}
}

func TestRecommendRequiresLocation(t *testing.T) {
	deps := Dependencies{Recommend: &testRecommender{}, Version: "test"}
	_, stderr, code := runCLI(t, deps, "recommend")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "location") {
		t.Fatalf("expected missing-location message, got %q", stderr)
	}
}
