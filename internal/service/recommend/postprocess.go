package recommend

import (
	"sort"
	"strings"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

// interestBoost is added to the recommendation score per matched interest.
// Matches stack additively with no cap.
const interestBoost = 0.5

var indoorKeywords = []string{
	"restaurant", "bar", "museum", "theater", "hotel", "shopping", "mall",
	"casino", "spa", "gallery", "library", "cafe", "coffee", "dining",
	"indoor", "inside", "covered", "entertainment", "club", "lounge",
}

var outdoorKeywords = []string{
	"park", "garden", "outdoor", "beach", "trail", "hiking", "camping",
	"zoo", "playground", "sports field", "stadium", "golf", "tennis court",
}

var indoorNameOverrides = []string{"museum", "hotel", "theater", "restaurant", "bar", "cafe"}
var outdoorNameOverrides = []string{"park", "garden", "zoo", "bridge"}

// PostProcess applies the uniform stage-4 sequence: dedupe, budget filter,
// rating filter, weather filter, personalization, rank, truncate.
func PostProcess(venues []domain.Venue, filters domain.Filters, weather *domain.WeatherAnalysis, profile *domain.UserProfile) []domain.Venue {
	processed := Dedupe(venues)

	if filters.Budget != domain.BudgetAny {
		processed = filterByBudget(processed, filters.Budget)
	}
	if filters.MinRating > 0 {
		processed = filterByRating(processed, filters.MinRating)
	}
	if weather != nil && filters.WeatherAware {
		processed = FilterByWeather(processed, *weather)
	}
	if profile != nil && len(profile.Interests) > 0 {
		processed = personalize(processed, profile.Interests)
	}

	// Stable sort keeps input order for equal scores.
	sort.SliceStable(processed, func(i, j int) bool {
		return processed[i].RecommendationScore > processed[j].RecommendationScore
	})

	if len(processed) > filters.MaxResults {
		processed = processed[:filters.MaxResults]
	}
	return processed
}

// Dedupe removes duplicate venues by provider entity id first, then by
// case-insensitive trimmed name, keeping the first occurrence. Running it
// twice yields the same set as running it once.
func Dedupe(venues []domain.Venue) []domain.Venue {
	seenIDs := map[string]struct{}{}
	seenNames := map[string]struct{}{}
	unique := make([]domain.Venue, 0, len(venues))

	for _, venue := range venues {
		id := venue.EntityID
		if id == "" {
			id = venue.ID
		}
		name := venue.DedupeKey()

		if id != "" {
			if _, ok := seenIDs[id]; ok {
				continue
			}
		}
		if name != "" {
			if _, ok := seenNames[name]; ok {
				continue
			}
		}

		if id != "" {
			seenIDs[id] = struct{}{}
		}
		if name != "" {
			seenNames[name] = struct{}{}
		}
		unique = append(unique, venue)
	}
	return unique
}

// filterByBudget drops venues whose price level exceeds the budget's
// maximum. Venues with unknown price are always retained.
func filterByBudget(venues []domain.Venue, budget string) []domain.Venue {
	maxLevel := domain.BudgetLevel(budget)
	kept := make([]domain.Venue, 0, len(venues))
	for _, venue := range venues {
		if venue.PriceLevel != nil && *venue.PriceLevel > maxLevel {
			continue
		}
		kept = append(kept, venue)
	}
	return kept
}

// filterByRating drops venues rated below the minimum; unset rating counts
// as zero.
func filterByRating(venues []domain.Venue, minRating float64) []domain.Venue {
	kept := make([]domain.Venue, 0, len(venues))
	for _, venue := range venues {
		rating := 0.0
		if venue.Rating != nil {
			rating = *venue.Rating
		}
		if rating < minRating {
			continue
		}
		kept = append(kept, venue)
	}
	return kept
}

// FilterByWeather keeps every venue when indoor is not preferred; otherwise
// it keeps venues whose indoor keyword signal is at least the outdoor
// signal. Ties, including the all-zero case, count as indoor.
func FilterByWeather(venues []domain.Venue, weather domain.WeatherAnalysis) []domain.Venue {
	if !weather.IndoorPreferred {
		return venues
	}
	kept := make([]domain.Venue, 0, len(venues))
	for _, venue := range venues {
		indoor, outdoor := venueSignals(venue)
		if indoor >= outdoor {
			venue.WeatherMatch = true
			kept = append(kept, venue)
		}
	}
	return kept
}

// venueSignals scores indoor/outdoor likelihood by keyword search across
// name, description, and categories. Name matches count double, and a small
// list of unmistakable name words forces a strong signal.
func venueSignals(venue domain.Venue) (indoor, outdoor int) {
	name := strings.ToLower(venue.Name)
	description := strings.ToLower(venue.Description)

	for _, keyword := range indoorKeywords {
		if strings.Contains(name, keyword) {
			indoor += 2
		}
		if strings.Contains(description, keyword) {
			indoor++
		}
	}
	for _, keyword := range outdoorKeywords {
		if strings.Contains(name, keyword) {
			outdoor += 2
		}
		if strings.Contains(description, keyword) {
			outdoor++
		}
	}
	for _, category := range venue.Categories {
		lowered := strings.ToLower(category)
		for _, keyword := range indoorKeywords {
			if strings.Contains(lowered, keyword) {
				indoor++
			}
		}
		for _, keyword := range outdoorKeywords {
			if strings.Contains(lowered, keyword) {
				outdoor++
			}
		}
	}

	if containsAny(name, indoorNameOverrides) {
		indoor += 3
	} else if containsAny(name, outdoorNameOverrides) {
		outdoor += 3
	}
	return indoor, outdoor
}

func containsAny(value string, words []string) bool {
	for _, word := range words {
		if strings.Contains(value, word) {
			return true
		}
	}
	return false
}

// personalize adds the interest boost for every declared interest appearing
// in the venue name or a category tag.
func personalize(venues []domain.Venue, interests []string) []domain.Venue {
	for i := range venues {
		name := strings.ToLower(venues[i].Name)
		for _, interest := range interests {
			lowered := strings.ToLower(interest)
			if strings.Contains(name, lowered) || categoryMatches(venues[i].Categories, lowered) {
				venues[i].RecommendationScore += interestBoost
			}
		}
	}
	return venues
}

func categoryMatches(categories []string, interest string) bool {
	for _, category := range categories {
		if strings.Contains(strings.ToLower(category), interest) {
			return true
		}
	}
	return false
}
