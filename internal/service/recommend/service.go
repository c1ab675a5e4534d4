// Package recommend implements the recommendation pipeline: an ordered
// provider fallback chain followed by uniform post-processing (dedupe,
// filters, personalization, ranking, truncation).
package recommend

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/gateway/qloo"
)

// Stage names which fallback step supplied the venues.
type Stage string

const (
	StageInsights   Stage = "insights"
	StageCategories Stage = "categories"
	StageTextSearch Stage = "text_search"
	StageNone       Stage = "none"
)

// Outcome distinguishes "nothing matched" from "providers unreachable".
type Outcome string

const (
	OutcomeVenues Outcome = "venues"
	OutcomeEmpty  Outcome = "empty"
	// OutcomeProviderError is reported only when every stage produced
	// nothing and at least one provider call failed.
	OutcomeProviderError Outcome = "provider_error"
)

// Source tags recorded on venues, per producing stage.
const (
	sourceInsights   = "qloo_insights"
	sourceCategories = "qloo_category"
	sourceTextSearch = "qloo_search"
)

// interestCategories maps declared interests to provider search categories.
var interestCategories = map[string]string{
	"Fine Dining":        "restaurant",
	"Casual Dining":      "restaurant",
	"Bars & Nightlife":   "bar",
	"Coffee Shops":       "coffee",
	"Museums":            "museum",
	"Art Galleries":      "art",
	"Entertainment":      "entertainment",
	"Shopping":           "shopping",
	"Outdoor Activities": "park",
}

// defaultCategories is used when the user has no matching interests.
var defaultCategories = []string{"restaurant", "bar", "entertainment", "museum"}

// Two of the four venue-likeness signals must be present for a generic
// search entity to count as a venue.
const minVenueSignals = 2

// textSearchTargetCount stops the text-search stage once enough pooled
// venue-like results accumulate.
const textSearchTargetCount = 10

// ProfileLoader supplies the user profile for personalization.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error)
}

// WeatherAPI supplies current conditions for the weather filter.
type WeatherAPI interface {
	CurrentWeather(ctx context.Context, lat, lng float64) (domain.WeatherReading, error)
}

// Geocoder resolves a location name to coordinates for the weather call.
type Geocoder interface {
	Resolve(name string) (domain.Coordinates, error)
}

// Classifier derives the indoor-preference analysis from a reading.
type Classifier func(domain.WeatherReading) domain.WeatherAnalysis

// Service orchestrates the fallback chain and post-processing. Calls are
// sequential; a provider failure empties that stage's contribution and the
// chain advances.
type Service struct {
	venues   qloo.API
	weather  WeatherAPI
	geocoder Geocoder
	profiles ProfileLoader
	classify Classifier
	logger   zerolog.Logger
}

// NewService wires the aggregator's collaborators.
func NewService(venues qloo.API, weather WeatherAPI, geocoder Geocoder, profiles ProfileLoader, classify Classifier, logger zerolog.Logger) *Service {
	return &Service{
		venues:   venues,
		weather:  weather,
		geocoder: geocoder,
		profiles: profiles,
		classify: classify,
		logger:   logger,
	}
}

// Result is the pipeline output. Venues is never nil; Outcome tells an empty
// match apart from provider failure.
type Result struct {
	Venues  []domain.Venue          `json:"venues"`
	Stage   Stage                   `json:"stage"`
	Outcome Outcome                 `json:"outcome"`
	Weather *domain.WeatherAnalysis `json:"weather,omitempty"`
}

// GetRecommendations runs the three-stage fallback chain for a user and
// location, then post-processes whichever stage produced venues.
func (s *Service) GetRecommendations(ctx context.Context, userID, locationName string, filters domain.Filters) Result {
	filters = filters.Normalized()
	log := s.logger.With().Str("user_id", userID).Str("location", locationName).Logger()

	var profile *domain.UserProfile
	if s.profiles != nil && userID != "" {
		if loaded, err := s.profiles.LoadProfile(ctx, userID); err != nil {
			log.Debug().Err(err).Msg("no user profile for personalization")
		} else {
			profile = &loaded
		}
	}

	weatherAnalysis := s.weatherContext(ctx, locationName, filters, log)

	providerFailed := false

	// Stage 1: direct insights-by-location. The only call that returns
	// venues already tagged with geographic relevance.
	entities, err := s.venues.InsightsByLocation(ctx, locationName, filters.MaxResults)
	if err != nil {
		providerFailed = true
		log.Warn().Err(err).Msg("insights-by-location failed")
	}
	if len(entities) > 0 {
		log.Info().Int("count", len(entities)).Msg("direct insights supplied venues")
		return s.finish(qloo.Normalize(entities, sourceInsights), StageInsights, filters, weatherAnalysis, profile)
	}

	// Stage 2: category fallback over the generic entity-search endpoint.
	categoryVenues, stageFailed := s.categoryVenues(ctx, profile, filters, log)
	providerFailed = providerFailed || stageFailed
	if len(categoryVenues) > 0 {
		log.Info().Int("count", len(categoryVenues)).Msg("category fallback supplied venues")
		return s.finish(categoryVenues, StageCategories, filters, weatherAnalysis, profile)
	}

	// Stage 3: text-search fallback.
	searchVenues, stageFailed := s.textSearchVenues(ctx, locationName, log)
	providerFailed = providerFailed || stageFailed
	if len(searchVenues) > 0 {
		log.Info().Int("count", len(searchVenues)).Msg("text search supplied venues")
		return s.finish(searchVenues, StageTextSearch, filters, weatherAnalysis, profile)
	}

	outcome := OutcomeEmpty
	if providerFailed {
		outcome = OutcomeProviderError
	}
	log.Warn().Str("outcome", string(outcome)).Msg("all fallback stages returned nothing")
	return Result{Venues: []domain.Venue{}, Stage: StageNone, Outcome: outcome, Weather: weatherAnalysis}
}

// weatherContext resolves coordinates and classifies current weather when
// the request is weather-aware. Any failure disables the weather stage.
func (s *Service) weatherContext(ctx context.Context, locationName string, filters domain.Filters, log zerolog.Logger) *domain.WeatherAnalysis {
	if !filters.WeatherAware || s.weather == nil || s.geocoder == nil || s.classify == nil {
		return nil
	}
	coordinates, err := s.geocoder.Resolve(locationName)
	if err != nil {
		log.Warn().Err(err).Msg("weather disabled: location not supported")
		return nil
	}
	reading, err := s.weather.CurrentWeather(ctx, coordinates.Lat, coordinates.Lng)
	if err != nil {
		log.Warn().Err(err).Msg("weather disabled: current conditions unavailable")
		return nil
	}
	analysis := s.classify(reading)
	log.Debug().
		Bool("indoor_preferred", analysis.IndoorPreferred).
		Str("context", analysis.Context).
		Msg("weather context resolved")
	return &analysis
}

// categoryVenues queries the provider once per category term and keeps
// entities carrying at least two venue-likeness signals.
func (s *Service) categoryVenues(ctx context.Context, profile *domain.UserProfile, filters domain.Filters, log zerolog.Logger) ([]domain.Venue, bool) {
	categories := categoryTerms(profile, filters)
	failed := false

	pooled := make([]qloo.Entity, 0)
	for _, category := range categories {
		entities, err := s.venues.SearchEntities(ctx, category, 0)
		if err != nil {
			failed = true
			log.Warn().Err(err).Str("category", category).Msg("category search failed")
			continue
		}
		for _, entity := range entities {
			if entity.VenueSignals() >= minVenueSignals {
				pooled = append(pooled, entity)
			}
		}
	}
	if len(pooled) == 0 {
		return nil, failed
	}
	return qloo.Normalize(pooled, sourceCategories), failed
}

// categoryTerms derives search categories from declared interests, falling
// back to the default list, and appends the active category filter.
func categoryTerms(profile *domain.UserProfile, filters domain.Filters) []string {
	terms := make([]string, 0, 4)
	seen := map[string]struct{}{}
	appendTerm := func(term string) {
		if _, ok := seen[term]; ok || term == "" {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	if profile != nil {
		for _, interest := range profile.Interests {
			if category, ok := interestCategories[interest]; ok {
				appendTerm(category)
			}
		}
	}
	if len(terms) == 0 {
		for _, category := range defaultCategories {
			appendTerm(category)
		}
	}
	if filters.Category != domain.CategoryAll {
		appendTerm(strings.ToLower(filters.Category))
	}
	return terms
}

// textSearchVenues issues the fixed ordered query list, keeps entities with
// location data, and stops once enough pooled results accumulate.
func (s *Service) textSearchVenues(ctx context.Context, locationName string, log zerolog.Logger) ([]domain.Venue, bool) {
	failed := false
	pooled := make([]domain.Venue, 0, textSearchTargetCount)

	for _, term := range textSearchTerms(locationName) {
		entities, err := s.venues.SearchEntities(ctx, term, textSearchTargetCount)
		if err != nil {
			failed = true
			log.Warn().Err(err).Str("term", term).Msg("text search failed")
			continue
		}
		venueLike := make([]qloo.Entity, 0, len(entities))
		for _, entity := range entities {
			if entity.HasLocationData() {
				venueLike = append(venueLike, entity)
			}
		}
		pooled = append(pooled, qloo.Normalize(venueLike, sourceTextSearch)...)
		if len(pooled) >= textSearchTargetCount {
			break
		}
	}
	return Dedupe(pooled), failed
}

func textSearchTerms(locationName string) []string {
	return []string{
		"restaurant " + locationName,
		"venues " + locationName,
		"places to eat " + locationName,
		"entertainment " + locationName,
		"bars " + locationName,
		"restaurant",
		"venues",
	}
}

// finish runs stage-4 post-processing and classifies the outcome.
func (s *Service) finish(venues []domain.Venue, stage Stage, filters domain.Filters, weatherAnalysis *domain.WeatherAnalysis, profile *domain.UserProfile) Result {
	processed := PostProcess(venues, filters, weatherAnalysis, profile)
	outcome := OutcomeVenues
	if len(processed) == 0 {
		outcome = OutcomeEmpty
	}
	return Result{Venues: processed, Stage: stage, Outcome: outcome, Weather: weatherAnalysis}
}
