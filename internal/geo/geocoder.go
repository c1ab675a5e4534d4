// Package geo resolves free-text place names against a small static city
// table. There is no network lookup: the supported-location set is fixed.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

// ErrNotFound is returned when a place name matches no table entry.
var ErrNotFound = errors.New("location not found")

// nearestNameThreshold bounds the inverse lookup: coordinates farther than
// this (Euclidean degrees) from every table entry render as a custom
// location string instead.
const nearestNameThreshold = 0.1

type cityEntry struct {
	Name        string
	Coordinates domain.Coordinates
}

// cities is ordered: substring fallback matching takes the first hit, so the
// winner for ambiguous inputs is fixed by this order. "SanFrancisco" and
// "San Francisco" are both kept for compatibility with stored profiles.
var cities = []cityEntry{
	{"SanFrancisco", domain.Coordinates{Lat: 37.7749, Lng: -122.4194}},
	{"San Francisco", domain.Coordinates{Lat: 37.7749, Lng: -122.4194}},
	{"New York", domain.Coordinates{Lat: 40.7128, Lng: -74.0060}},
	{"Los Angeles", domain.Coordinates{Lat: 34.0522, Lng: -118.2437}},
	{"Chicago", domain.Coordinates{Lat: 41.8781, Lng: -87.6298}},
	{"Miami", domain.Coordinates{Lat: 25.7617, Lng: -80.1918}},
	{"Seattle", domain.Coordinates{Lat: 47.6062, Lng: -122.3321}},
	{"Boston", domain.Coordinates{Lat: 42.3601, Lng: -71.0589}},
	{"Austin", domain.Coordinates{Lat: 30.2672, Lng: -97.7431}},
	{"Denver", domain.Coordinates{Lat: 39.7392, Lng: -104.9903}},
	{"Portland", domain.Coordinates{Lat: 45.5152, Lng: -122.6784}},
	{"Las Vegas", domain.Coordinates{Lat: 36.1699, Lng: -115.1398}},
	{"Tokyo", domain.Coordinates{Lat: 35.6762, Lng: 139.6503}},
	{"London", domain.Coordinates{Lat: 51.5074, Lng: -0.1278}},
	{"Paris", domain.Coordinates{Lat: 48.8566, Lng: 2.3522}},
	{"Berlin", domain.Coordinates{Lat: 52.5200, Lng: 13.4050}},
	{"Sydney", domain.Coordinates{Lat: -33.8688, Lng: 151.2093}},
	{"Toronto", domain.Coordinates{Lat: 43.6532, Lng: -79.3832}},
	{"Vancouver", domain.Coordinates{Lat: 49.2827, Lng: -123.1207}},
	{"Montreal", domain.Coordinates{Lat: 45.5017, Lng: -73.5673}},
	{"Mexico City", domain.Coordinates{Lat: 19.4326, Lng: -99.1332}},
}

// Geocoder maps place names to coordinates and back.
type Geocoder struct {
	entries []cityEntry
}

// NewGeocoder creates a geocoder over the built-in city table.
func NewGeocoder() *Geocoder {
	return &Geocoder{entries: cities}
}

// Resolve maps a place name to coordinates. Matching order: exact,
// case-insensitive, then substring in either direction; the first table
// entry wins for substring matches.
func (g *Geocoder) Resolve(name string) (domain.Coordinates, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.Coordinates{}, ErrNotFound
	}

	for _, entry := range g.entries {
		if entry.Name == trimmed {
			return entry.Coordinates, nil
		}
	}

	lowered := strings.ToLower(trimmed)
	for _, entry := range g.entries {
		if strings.ToLower(entry.Name) == lowered {
			return entry.Coordinates, nil
		}
	}

	for _, entry := range g.entries {
		candidate := strings.ToLower(entry.Name)
		if strings.Contains(candidate, lowered) || strings.Contains(lowered, candidate) {
			return entry.Coordinates, nil
		}
	}

	return domain.Coordinates{}, fmt.Errorf("%w: %s", ErrNotFound, trimmed)
}

// NameFor returns the nearest known city name for coordinates, by Euclidean
// distance over the table. Coordinates farther than 0.1 degrees from every
// entry render as a formatted custom-location string.
func (g *Geocoder) NameFor(coordinates domain.Coordinates) string {
	minDistance := math.Inf(1)
	closest := ""
	for _, entry := range g.entries {
		distance := math.Hypot(
			coordinates.Lat-entry.Coordinates.Lat,
			coordinates.Lng-entry.Coordinates.Lng,
		)
		if distance < minDistance {
			minDistance = distance
			closest = entry.Name
		}
	}
	if minDistance < nearestNameThreshold {
		return closest
	}
	return fmt.Sprintf("Custom Location (%.4f, %.4f)", coordinates.Lat, coordinates.Lng)
}

// Supports reports whether a place name resolves.
func (g *Geocoder) Supports(name string) bool {
	_, err := g.Resolve(name)
	return err == nil
}

// SupportedCities lists all table entries in table order.
func (g *Geocoder) SupportedCities() []string {
	names := make([]string, 0, len(g.entries))
	for _, entry := range g.entries {
		names = append(names, entry.Name)
	}
	return names
}
