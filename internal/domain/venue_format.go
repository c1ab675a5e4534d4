package domain

import (
	"fmt"
	"strings"
)

func capitalizeWords(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, strings.ToUpper(v[:1])+strings.ToLower(v[1:]))
	}
	return out
}

// FormatRating renders venue rating.
func (v Venue) FormatRating() string {
	if v.Rating == nil {
		return "(No rating)"
	}
	return fmt.Sprintf("%.1f", *v.Rating)
}

// FormatPriceLevel renders price level as dollar signs.
func (v Venue) FormatPriceLevel() string {
	if v.PriceLevel == nil || *v.PriceLevel <= 0 {
		return "-"
	}
	return strings.Repeat("$", *v.PriceLevel)
}

// FormatCategories renders category tags for tables.
func (v Venue) FormatCategories() string {
	if len(v.Categories) == 0 {
		return "-"
	}
	return strings.Join(capitalizeWords(v.Categories), ", ")
}

// FormatScore renders the recommendation score.
func (v Venue) FormatScore() string {
	return fmt.Sprintf("%.2f", v.RecommendationScore)
}

// FormatAddress renders the address with a placeholder fallback.
func (v Venue) FormatAddress() string {
	if strings.TrimSpace(v.Address) == "" {
		return "-"
	}
	return v.Address
}

// FormatCoordinates renders coordinates to four decimal places.
func (v Venue) FormatCoordinates() string {
	return fmt.Sprintf("%.4f, %.4f", v.Coordinates.Lat, v.Coordinates.Lng)
}

// FormatInterests renders profile interests for tables.
func (p UserProfile) FormatInterests() string {
	if len(p.Interests) == 0 {
		return "-"
	}
	return strings.Join(p.Interests, ", ")
}
