package domain

import (
	"strings"
	"time"
)

const (
	// BudgetAny disables budget filtering.
	BudgetAny = "Any"
	// CategoryAll disables category narrowing.
	CategoryAll = "All"
	// DefaultMaxResults bounds the recommendation list when no limit is set.
	DefaultMaxResults = 20
)

var budgetLevels = map[string]int{
	"$":    1,
	"$$":   2,
	"$$$":  3,
	"$$$$": 4,
}

// BudgetLevel maps a budget string to its maximum price level. Unknown
// values map to the most permissive level.
func BudgetLevel(budget string) int {
	if level, ok := budgetLevels[strings.TrimSpace(budget)]; ok {
		return level
	}
	return 4
}

// Filters narrows one recommendation request. Absent or invalid values fall
// back to documented defaults via Normalized.
type Filters struct {
	Category     string  `json:"category,omitempty"`
	Budget       string  `json:"budget,omitempty"`
	MinRating    float64 `json:"min_rating,omitempty"`
	WeatherAware bool    `json:"weather_aware,omitempty"`
	MaxResults   int     `json:"max_results,omitempty"`
	TimeOfDay    string  `json:"time_of_day,omitempty"`
}

// Normalized applies default values for absent or out-of-range fields.
func (f Filters) Normalized() Filters {
	if strings.TrimSpace(f.Category) == "" {
		f.Category = CategoryAll
	}
	if strings.TrimSpace(f.Budget) == "" {
		f.Budget = BudgetAny
	}
	if f.MinRating < 0 {
		f.MinRating = 0
	}
	if f.MaxResults <= 0 {
		f.MaxResults = DefaultMaxResults
	}
	return f
}

// TimeOfDay buckets a clock time into the request time context.
func TimeOfDay(t time.Time) string {
	switch hour := t.Hour(); {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}
