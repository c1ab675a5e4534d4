// Package store persists user profiles as a single whole-file JSON document
// keyed by user id. Every mutation is a read-modify-write of the full file;
// concurrent writers race with last-writer-wins semantics, which is an
// accepted limitation of this store.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

const (
	defaultDirName  = ".tastescout"
	defaultFileName = "user_profiles.json"
	envDataPath     = "TASTESCOUT_DATA_PATH"
)

var (
	// ErrProfileNotFound is returned when no profile exists for a user id.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrInvalidData is returned when the data file payload is malformed.
	ErrInvalidData = errors.New("profile data file is invalid")
	// ErrInvalidRating is returned for feedback ratings outside 1-5.
	ErrInvalidRating = errors.New("feedback rating must be between 1 and 5")
)

// Store loads and writes the profile document.
type Store struct {
	path string
	now  func() time.Time
}

// StoreOption applies Store options.
type StoreOption func(*Store)

// WithClock replaces the timestamp source, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store using the env path override or the home-directory
// default.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{now: time.Now}
	if dataPath := os.Getenv(envDataPath); dataPath != "" {
		s.path = dataPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		s.path = filepath.Join(home, defaultDirName, defaultFileName)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewStoreAt creates a store over an explicit file path.
func NewStoreAt(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// AllProfiles reads the full document. A missing file is an empty document,
// not an error.
func (s *Store) AllProfiles(_ context.Context) (map[string]domain.UserProfile, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]domain.UserProfile{}, nil
		}
		return nil, fmt.Errorf("read profile data: %w", err)
	}
	if len(payload) == 0 {
		return map[string]domain.UserProfile{}, nil
	}

	var profiles map[string]domain.UserProfile
	if err := json.Unmarshal(payload, &profiles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if profiles == nil {
		profiles = map[string]domain.UserProfile{}
	}
	return profiles, nil
}

// LoadProfile returns one profile by user id.
func (s *Store) LoadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	profiles, err := s.AllProfiles(ctx)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profile, ok := profiles[userID]
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	return profile, nil
}

// SaveProfile writes a profile, stamping last_updated, and rewrites the
// whole document.
func (s *Store) SaveProfile(ctx context.Context, profile domain.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("%w: user id is empty", ErrInvalidData)
	}
	profiles, err := s.AllProfiles(ctx)
	if err != nil {
		return err
	}
	profile.LastUpdated = s.now().UTC()
	profiles[profile.UserID] = profile
	return s.writeAll(profiles)
}

// DeleteProfile removes a profile by user id.
func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	profiles, err := s.AllProfiles(ctx)
	if err != nil {
		return err
	}
	if _, ok := profiles[userID]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	delete(profiles, userID)
	return s.writeAll(profiles)
}

// AddFeedback appends a feedback entry to the user's history, enforcing the
// 100-entry FIFO cap, and rewrites the profile.
func (s *Store) AddFeedback(ctx context.Context, userID string, entry domain.FeedbackEntry) error {
	if entry.Rating < 1 || entry.Rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, entry.Rating)
	}
	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}
	profile.AppendFeedback(entry)
	return s.SaveProfile(ctx, profile)
}

// FeedbackHistory returns the user's feedback entries, oldest first.
func (s *Store) FeedbackHistory(ctx context.Context, userID string) ([]domain.FeedbackEntry, error) {
	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.FeedbackHistory, nil
}

// Statistics summarizes a user's feedback activity.
type Statistics struct {
	TotalRatings   int       `json:"total_ratings"`
	AverageRating  float64   `json:"average_rating,omitempty"`
	LastActivity   time.Time `json:"last_activity,omitempty"`
	FavoriteVenues []string  `json:"favorite_venues,omitempty"`
}

// Statistics computes rating count, average, last activity, and favorite
// venues (rated 4 or higher, deduplicated).
func (s *Store) Statistics(ctx context.Context, userID string) (Statistics, error) {
	profile, err := s.LoadProfile(ctx, userID)
	if err != nil {
		return Statistics{}, err
	}
	history := profile.FeedbackHistory
	if len(history) == 0 {
		return Statistics{}, nil
	}

	stats := Statistics{
		TotalRatings:   len(history),
		FavoriteVenues: profile.FavoriteVenues(),
	}
	sum := 0
	for _, entry := range history {
		sum += entry.Rating
		if entry.Timestamp.After(stats.LastActivity) {
			stats.LastActivity = entry.Timestamp
		}
	}
	stats.AverageRating = float64(sum) / float64(len(history))
	return stats, nil
}

func (s *Store) writeAll(profiles map[string]domain.UserProfile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	payload, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile data: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write profile data: %w", err)
	}
	return nil
}
