package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// MaxFeedbackEntries caps feedback history per user; oldest entries are
// dropped first.
const MaxFeedbackEntries = 100

// FeedbackEntry stores a single venue rating from a user.
type FeedbackEntry struct {
	VenueID   string    `json:"venue_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile stores one user's taste profile and feedback history.
type UserProfile struct {
	UserID           string          `json:"user_id"`
	Name             string          `json:"name"`
	Email            string          `json:"email,omitempty"`
	Interests        []string        `json:"interests,omitempty"`
	BudgetPreference string          `json:"budget_preference,omitempty"`
	FeedbackHistory  []FeedbackEntry `json:"feedback_history,omitempty"`
	LastUpdated      time.Time       `json:"last_updated"`
}

// GenerateUserID derives a stable short id from name, email, and creation
// date. Collisions are accepted, not mitigated.
func GenerateUserID(name, email string, createdAt time.Time) string {
	seed := fmt.Sprintf("%s_%s_%s",
		strings.ToLower(name),
		strings.ToLower(email),
		createdAt.Format("2006-01-02"),
	)
	sum := md5.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])[:12]
}

// AppendFeedback adds an entry and enforces the history cap, dropping the
// oldest entries first.
func (p *UserProfile) AppendFeedback(entry FeedbackEntry) {
	p.FeedbackHistory = append(p.FeedbackHistory, entry)
	if len(p.FeedbackHistory) > MaxFeedbackEntries {
		p.FeedbackHistory = p.FeedbackHistory[len(p.FeedbackHistory)-MaxFeedbackEntries:]
	}
}

// FavoriteVenues returns unique venue ids the user rated 4 or higher, in
// first-rated order.
func (p UserProfile) FavoriteVenues() []string {
	seen := map[string]struct{}{}
	favorites := make([]string, 0)
	for _, entry := range p.FeedbackHistory {
		if entry.Rating < 4 {
			continue
		}
		if _, ok := seen[entry.VenueID]; ok {
			continue
		}
		seen[entry.VenueID] = struct{}{}
		favorites = append(favorites, entry.VenueID)
	}
	return favorites
}
