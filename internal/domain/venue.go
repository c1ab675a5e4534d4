package domain

import (
	"fmt"
	"strings"
)

// Coordinates identifies a point on earth.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultCoordinates is assigned to venues whose provider payload carries no
// geocode, so map display never sees a missing position. Treat it as a
// placeholder, not a real location.
var DefaultCoordinates = Coordinates{Lat: 37.7749, Lng: -122.4194}

// Venue is the normalized place record produced by provider adapters and
// carried through the recommendation pipeline.
type Venue struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	EntityID    string      `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
	EntityType  string      `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
	Subtype     string      `json:"entity_subtype,omitempty" yaml:"entity_subtype,omitempty"`
	Source      string      `json:"source" yaml:"source"`
	Rating      *float64    `json:"rating,omitempty" yaml:"rating,omitempty"`
	PriceLevel  *int        `json:"price_level,omitempty" yaml:"price_level,omitempty"`
	Categories  []string    `json:"categories,omitempty" yaml:"categories,omitempty"`
	Address     string      `json:"address,omitempty" yaml:"address,omitempty"`
	Phone       string      `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website     string      `json:"website,omitempty" yaml:"website,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Closed      bool        `json:"is_closed,omitempty" yaml:"is_closed,omitempty"`
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`

	// RecommendationScore starts from the provider rating (or a fixed
	// default) and accumulates additive bumps during post-processing. It is
	// used only for final ordering.
	RecommendationScore float64 `json:"recommendation_score" yaml:"recommendation_score"`

	// WeatherMatch is set when the venue passed an active weather filter.
	WeatherMatch bool `json:"weather_match,omitempty" yaml:"weather_match,omitempty"`
}

// DedupeKey returns the case-insensitive trimmed name used for name-based
// deduplication.
func (v Venue) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(v.Name))
}

// NormalizeID normalizes mixed payload id values.
func NormalizeID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if oid, ok := t["$oid"].(string); ok {
			return oid
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}
