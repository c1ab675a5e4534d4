package weather

import (
	"fmt"
	"strings"
)

const maxErrorBodyPreview = 400

// UpstreamRequestError carries HTTP context for failed upstream calls. The
// URL field never includes the query string, so the API key cannot leak.
type UpstreamRequestError struct {
	URL        string
	StatusCode int
	Body       string
	Cause      error
}

func (e *UpstreamRequestError) Error() string {
	parts := []string{ErrUpstream.Error()}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if url := strings.TrimSpace(e.URL); url != "" {
		parts = append(parts, "GET "+url)
	}
	if body := strings.Join(strings.Fields(e.Body), " "); body != "" {
		if len(body) > maxErrorBodyPreview {
			body = body[:maxErrorBodyPreview] + "..."
		}
		parts = append(parts, fmt.Sprintf("body=%q", body))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, "; ")
}

func (e *UpstreamRequestError) Unwrap() error {
	return ErrUpstream
}
