package qloo

import (
	"fmt"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

const (
	placeholderVenueName = "Unknown Venue"
	defaultVenueScore    = 3.0
	maxVenueCategories   = 5
)

// Normalize maps raw Qloo entities into the pipeline venue schema. The
// source tag names the provider method that produced the records. Entities
// without a geocode get the default placeholder coordinates so downstream
// map display never sees a missing position.
func Normalize(entities []Entity, source string) []domain.Venue {
	venues := make([]domain.Venue, 0, len(entities))
	for i, entity := range entities {
		venues = append(venues, normalizeEntity(entity, i, source))
	}
	return venues
}

func normalizeEntity(entity Entity, index int, source string) domain.Venue {
	id := domain.NormalizeID(entity.EntityID)
	if id == "" {
		id = fmt.Sprintf("qloo_%d", index)
	}
	name := entity.Name
	if name == "" {
		name = placeholderVenueName
	}

	venue := domain.Venue{
		ID:          id,
		Name:        name,
		EntityID:    entity.EntityID,
		EntityType:  entity.Type,
		Subtype:     entity.Subtype,
		Source:      source,
		Address:     entity.Properties.Address,
		Phone:       entity.Properties.Phone,
		Website:     entity.Properties.Website,
		Description: entity.Properties.Description,
		Closed:      entity.Properties.IsClosed,
		Coordinates: domain.DefaultCoordinates,
	}

	if rating := entity.Properties.BusinessRating; rating != nil {
		value := *rating
		venue.Rating = &value
		venue.RecommendationScore = value
	} else {
		venue.RecommendationScore = defaultVenueScore
	}

	if level := entity.Properties.PriceLevel; level != nil {
		value := *level
		venue.PriceLevel = &value
	}

	for _, keyword := range entity.Properties.Keywords {
		if keyword.Name == "" {
			continue
		}
		venue.Categories = append(venue.Categories, keyword.Name)
		if len(venue.Categories) == maxVenueCategories {
			break
		}
	}

	if geocode := entity.Properties.Geocode; geocode != nil && geocode.Latitude != nil && geocode.Longitude != nil {
		venue.Coordinates = domain.Coordinates{Lat: *geocode.Latitude, Lng: *geocode.Longitude}
	}

	return venue
}
