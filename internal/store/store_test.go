package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), "user_profiles.json"))
}

func TestAllProfilesMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	profiles, err := s.AllProfiles(context.Background())
	if err != nil {
		t.Fatalf("all profiles returned error: %v", err)
	}
	if len(profiles) != 0 {
		t.Fatalf("expected empty document, got %d profiles", len(profiles))
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile := domain.UserProfile{
		UserID:           "abc123",
		Name:             "Ada",
		Interests:        []string{"Museums", "Coffee Shops"},
		BudgetPreference: "$$",
	}
	if err := s.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save profile returned error: %v", err)
	}

	loaded, err := s.LoadProfile(ctx, "abc123")
	if err != nil {
		t.Fatalf("load profile returned error: %v", err)
	}
	if loaded.Name != "Ada" || loaded.BudgetPreference != "$$" {
		t.Fatalf("unexpected profile: %+v", loaded)
	}
	if loaded.LastUpdated.IsZero() {
		t.Fatal("expected last_updated to be stamped on save")
	}
	if len(loaded.Interests) != 2 || loaded.Interests[0] != "Museums" {
		t.Fatalf("expected interest insertion order preserved, got %v", loaded.Interests)
	}
}

func TestLoadProfileNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadProfile(context.Background(), "ghost")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveProfile(ctx, domain.UserProfile{UserID: "abc123", Name: "Ada"}); err != nil {
		t.Fatalf("save profile returned error: %v", err)
	}
	if err := s.DeleteProfile(ctx, "abc123"); err != nil {
		t.Fatalf("delete profile returned error: %v", err)
	}
	if _, err := s.LoadProfile(ctx, "abc123"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
	if err := s.DeleteProfile(ctx, "abc123"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound for second delete, got %v", err)
	}
}

func TestAddFeedbackValidatesRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SaveProfile(ctx, domain.UserProfile{UserID: "abc123", Name: "Ada"}); err != nil {
		t.Fatalf("save profile returned error: %v", err)
	}

	err := s.AddFeedback(ctx, "abc123", domain.FeedbackEntry{VenueID: "v1", Rating: 6})
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestFeedbackHistoryCapsAtOneHundredEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SaveProfile(ctx, domain.UserProfile{UserID: "abc123", Name: "Ada"}); err != nil {
		t.Fatalf("save profile returned error: %v", err)
	}

	for i := 1; i <= 101; i++ {
		entry := domain.FeedbackEntry{
			VenueID:   fmt.Sprintf("venue-%d", i),
			Rating:    (i % 5) + 1,
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		}
		if err := s.AddFeedback(ctx, "abc123", entry); err != nil {
			t.Fatalf("add feedback %d returned error: %v", i, err)
		}
	}

	history, err := s.FeedbackHistory(ctx, "abc123")
	if err != nil {
		t.Fatalf("feedback history returned error: %v", err)
	}
	if len(history) != domain.MaxFeedbackEntries {
		t.Fatalf("expected history capped at %d, got %d", domain.MaxFeedbackEntries, len(history))
	}
	if history[0].VenueID != "venue-2" {
		t.Fatalf("expected oldest entry evicted first, head is %q", history[0].VenueID)
	}
	if history[len(history)-1].VenueID != "venue-101" {
		t.Fatalf("expected newest entry retained, tail is %q", history[len(history)-1].VenueID)
	}
}

func TestStatistics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SaveProfile(ctx, domain.UserProfile{UserID: "abc123", Name: "Ada"}); err != nil {
		t.Fatalf("save profile returned error: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []domain.FeedbackEntry{
		{VenueID: "v1", Rating: 5, Timestamp: base},
		{VenueID: "v2", Rating: 2, Timestamp: base.Add(time.Hour)},
		{VenueID: "v1", Rating: 4, Timestamp: base.Add(2 * time.Hour)},
	}
	for _, entry := range entries {
		if err := s.AddFeedback(ctx, "abc123", entry); err != nil {
			t.Fatalf("add feedback returned error: %v", err)
		}
	}

	stats, err := s.Statistics(ctx, "abc123")
	if err != nil {
		t.Fatalf("statistics returned error: %v", err)
	}
	if stats.TotalRatings != 3 {
		t.Fatalf("expected 3 ratings, got %d", stats.TotalRatings)
	}
	if stats.AverageRating != 11.0/3.0 {
		t.Fatalf("unexpected average: %v", stats.AverageRating)
	}
	if !stats.LastActivity.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("unexpected last activity: %v", stats.LastActivity)
	}
	if len(stats.FavoriteVenues) != 1 || stats.FavoriteVenues[0] != "v1" {
		t.Fatalf("expected deduplicated favorites [v1], got %v", stats.FavoriteVenues)
	}
}

func TestStatisticsNoFeedback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SaveProfile(ctx, domain.UserProfile{UserID: "abc123", Name: "Ada"}); err != nil {
		t.Fatalf("save profile returned error: %v", err)
	}
	stats, err := s.Statistics(ctx, "abc123")
	if err != nil {
		t.Fatalf("statistics returned error: %v", err)
	}
	if stats.TotalRatings != 0 {
		t.Fatalf("expected zero ratings, got %d", stats.TotalRatings)
	}
}

func TestAllProfilesRejectsMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_profiles.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s := NewStoreAt(path)
	_, err := s.AllProfiles(context.Background())
	if !errors.Is(err, ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}
}
