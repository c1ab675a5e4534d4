package qloo

import (
	"context"
)

// API describes the Qloo upstream operations used by the recommendation
// pipeline.
type API interface {
	// InsightsByLocation queries v2/insights for place entities tagged with
	// geographic relevance to a named location.
	InsightsByLocation(ctx context.Context, locationName string, limit int) ([]Entity, error)
	// SearchEntities queries the generic entity-search endpoint. Results may
	// include non-venue entities; callers filter by venue-likeness.
	SearchEntities(ctx context.Context, query string, limit int) ([]Entity, error)
}

// Keyword is one tag attached to an entity.
type Keyword struct {
	Name string `json:"name"`
}

// Geocode stores provider-supplied coordinates.
type Geocode struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// EntityProperties stores the nested property block of an entity. Shapes
// vary per endpoint; every field is optional.
type EntityProperties struct {
	Address        string         `json:"address"`
	Phone          string         `json:"phone"`
	Website        string         `json:"website"`
	Description    string         `json:"description"`
	BusinessRating *float64       `json:"business_rating"`
	PriceLevel     *int           `json:"price_level"`
	IsClosed       bool           `json:"is_closed"`
	Keywords       []Keyword      `json:"keywords"`
	Geocode        *Geocode       `json:"geocode"`
	Hours          map[string]any `json:"hours"`
}

// Entity is one raw Qloo record.
type Entity struct {
	EntityID   string           `json:"entity_id"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Subtype    string           `json:"subtype"`
	Popularity float64          `json:"popularity"`
	Properties EntityProperties `json:"properties"`
}

// VenueSignals counts venue-likeness markers: address, geocode, phone, and
// opening hours. Generic entity search mixes in non-venue entities; this
// count is the only way to tell them apart.
func (e Entity) VenueSignals() int {
	signals := 0
	if e.Properties.Address != "" {
		signals++
	}
	if e.Properties.Geocode != nil {
		signals++
	}
	if e.Properties.Phone != "" {
		signals++
	}
	if len(e.Properties.Hours) > 0 {
		signals++
	}
	return signals
}

// HasLocationData reports whether the entity carries an address or geocode.
func (e Entity) HasLocationData() bool {
	return e.Properties.Address != "" || e.Properties.Geocode != nil
}
