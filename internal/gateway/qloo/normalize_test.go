package qloo

import (
	"testing"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestNormalizeMapsFullEntity(t *testing.T) {
	lat, lng := 37.7599, -122.4148
	entities := []Entity{
		{
			EntityID: "ent-1",
			Name:     "Tartine Bakery",
			Type:     "urn:entity:place",
			Subtype:  "urn:entity:place:restaurant",
			Properties: EntityProperties{
				Address:        "600 Guerrero St",
				Phone:          "+1 415 000 0000",
				Website:        "https://tartine.test",
				Description:    "Bakery and cafe",
				BusinessRating: floatPtr(4.6),
				PriceLevel:     intPtr(2),
				Keywords: []Keyword{
					{Name: "bakery"}, {Name: "coffee"}, {Name: ""},
					{Name: "pastry"}, {Name: "brunch"}, {Name: "bread"}, {Name: "extra"},
				},
				Geocode: &Geocode{Latitude: &lat, Longitude: &lng},
			},
		},
	}

	venues := Normalize(entities, "qloo_insights")
	if len(venues) != 1 {
		t.Fatalf("expected 1 venue, got %d", len(venues))
	}
	v := venues[0]
	if v.ID != "ent-1" || v.Name != "Tartine Bakery" || v.Source != "qloo_insights" {
		t.Fatalf("unexpected identity fields: %+v", v)
	}
	if v.Rating == nil || *v.Rating != 4.6 {
		t.Fatalf("expected rating 4.6, got %+v", v.Rating)
	}
	if v.RecommendationScore != 4.6 {
		t.Fatalf("expected score seeded from rating, got %v", v.RecommendationScore)
	}
	if v.PriceLevel == nil || *v.PriceLevel != 2 {
		t.Fatalf("expected price level 2, got %+v", v.PriceLevel)
	}
	if len(v.Categories) != 5 {
		t.Fatalf("expected categories capped at 5 with blanks skipped, got %v", v.Categories)
	}
	if v.Coordinates.Lat != lat || v.Coordinates.Lng != lng {
		t.Fatalf("expected geocode coordinates, got %+v", v.Coordinates)
	}
}

func TestNormalizeDefaultsForSparseEntity(t *testing.T) {
	venues := Normalize([]Entity{{}}, "qloo_search")
	if len(venues) != 1 {
		t.Fatalf("expected 1 venue, got %d", len(venues))
	}
	v := venues[0]
	if v.ID != "qloo_0" {
		t.Fatalf("expected synthetic id qloo_0, got %q", v.ID)
	}
	if v.Name != "Unknown Venue" {
		t.Fatalf("expected placeholder name, got %q", v.Name)
	}
	if v.Rating != nil {
		t.Fatalf("expected nil rating, got %+v", v.Rating)
	}
	if v.RecommendationScore != 3.0 {
		t.Fatalf("expected default score 3.0, got %v", v.RecommendationScore)
	}
	if v.Coordinates != domain.DefaultCoordinates {
		t.Fatalf("expected default coordinates, got %+v", v.Coordinates)
	}
}
