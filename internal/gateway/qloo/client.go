package qloo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultInsightsAPIURL = "https://hackathon.api.qloo.com/v2/insights/"
	defaultSearchAPIURL   = "https://hackathon.api.qloo.com/search"

	placeEntityFilter   = "urn:entity:place"
	defaultResultsLimit = 20
)

// ErrUpstream indicates Qloo API failure.
var ErrUpstream = errors.New("error when trying to get response from qloo api")

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints stores upstream endpoint urls.
type Endpoints struct {
	Insights string
	Search   string
}

// Client queries Qloo public endpoints with static API-key auth.
type Client struct {
	httpClient     HTTPClient
	endpoints      Endpoints
	apiKey         string
	minRequestGap  time.Duration
	requestWindowM sync.Mutex
	nextRequestAt  time.Time
	verboseOutput  io.Writer
	verboseOutputM sync.RWMutex
	logger         zerolog.Logger
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints replaces default endpoint set.
func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// WithAPIKey sets the X-Api-Key header value.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(apiKey)
	}
}

// WithRequestMinInterval limits request burst by enforcing minimum delay
// between upstream calls.
func WithRequestMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval < 0 {
			interval = 0
		}
		c.minRequestGap = interval
	}
}

// WithVerboseOutput enables per-request trace output for upstream HTTP calls.
func WithVerboseOutput(out io.Writer) Option {
	return func(c *Client) {
		c.SetVerboseOutput(out)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a production Qloo gateway client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoints: Endpoints{
			Insights: defaultInsightsAPIURL,
			Search:   defaultSearchAPIURL,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredentials reports whether an API key is configured.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// SetVerboseOutput sets destination for verbose HTTP request trace lines.
func (c *Client) SetVerboseOutput(out io.Writer) {
	c.verboseOutputM.Lock()
	c.verboseOutput = out
	c.verboseOutputM.Unlock()
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{
		"accept": "application/json",
	}
	if c.apiKey != "" {
		headers["X-Api-Key"] = c.apiKey
	}
	return headers
}

// InsightsByLocation queries v2/insights for place entities near a named
// location. The location query strips spaces, matching the upstream contract
// for this endpoint.
func (c *Client) InsightsByLocation(ctx context.Context, locationName string, limit int) ([]Entity, error) {
	if limit <= 0 {
		limit = defaultResultsLimit
	}
	params := url.Values{}
	params.Set("filter.type", placeEntityFilter)
	params.Set("filter.location.query", strings.ReplaceAll(strings.TrimSpace(locationName), " ", ""))
	params.Set("take", strconv.Itoa(limit))

	payload, err := c.doJSONRequest(ctx, http.MethodGet, c.endpoints.Insights, params)
	if err != nil {
		return nil, err
	}

	results, ok := payload["results"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing results", ErrUpstream)
	}
	rawEntities, ok := results["entities"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing entities", ErrUpstream)
	}
	return c.decodeEntities(rawEntities), nil
}

// SearchEntities queries the generic entity-search endpoint.
func (c *Client) SearchEntities(ctx context.Context, query string, limit int) ([]Entity, error) {
	if limit <= 0 {
		limit = defaultResultsLimit
	}
	params := url.Values{}
	params.Set("query", strings.ToLower(strings.TrimSpace(query)))
	params.Set("limit", strconv.Itoa(limit))

	payload, err := c.doJSONRequest(ctx, http.MethodGet, c.endpoints.Search, params)
	if err != nil {
		return nil, err
	}

	rawResults, ok := payload["results"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing results", ErrUpstream)
	}
	return c.decodeEntities(rawResults), nil
}

// decodeEntities maps raw payload entries to entities, skipping malformed
// ones so a single bad record never empties a response.
func (c *Client) decodeEntities(raw []any) []Entity {
	entities := make([]Entity, 0, len(raw))
	for i, value := range raw {
		entity, err := decodeAny[Entity](value)
		if err != nil {
			c.logger.Warn().Err(err).Int("index", i).Msg("skipping malformed qloo entity")
			continue
		}
		entities = append(entities, entity)
	}
	return entities
}

func (c *Client) doJSONRequest(ctx context.Context, method, rawURL string, params url.Values) (map[string]any, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers() {
		req.Header.Set(k, v)
	}
	if err := c.waitForRequestSlot(ctx); err != nil {
		return nil, err
	}

	startedAt := time.Now()
	c.tracef("[http] -> %s %s", method, rawURL)

	res, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErr := &UpstreamRequestError{Method: method, URL: rawURL, Cause: err}
		c.traceRequestDone(method, rawURL, 0, 0, startedAt, upstreamErr)
		return nil, upstreamErr
	}
	defer func() {
		_ = res.Body.Close()
	}()

	rawResponse, err := io.ReadAll(res.Body)
	if err != nil {
		upstreamErr := &UpstreamRequestError{
			Method:     method,
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Cause:      fmt.Errorf("read response body: %w", err),
		}
		c.traceRequestDone(method, rawURL, res.StatusCode, 0, startedAt, upstreamErr)
		return nil, upstreamErr
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		upstreamErr := &UpstreamRequestError{
			Method:     method,
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
		}
		c.traceRequestDone(method, rawURL, res.StatusCode, len(rawResponse), startedAt, upstreamErr)
		c.logAuthFailure(res.StatusCode)
		return nil, upstreamErr
	}

	c.logRateLimit(res.Header)

	if len(rawResponse) == 0 {
		c.traceRequestDone(method, rawURL, res.StatusCode, 0, startedAt, nil)
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(rawResponse, &payload); err != nil {
		upstreamErr := &UpstreamRequestError{
			Method:     method,
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
			Cause:      fmt.Errorf("decode response body: %w", err),
		}
		c.traceRequestDone(method, rawURL, res.StatusCode, len(rawResponse), startedAt, upstreamErr)
		return nil, upstreamErr
	}

	c.traceRequestDone(method, rawURL, res.StatusCode, len(rawResponse), startedAt, nil)
	return payload, nil
}

// logAuthFailure records auth failures with the status code only; the key
// itself is never logged.
func (c *Client) logAuthFailure(statusCode int) {
	switch statusCode {
	case http.StatusUnauthorized:
		c.logger.Error().Int("status", statusCode).Msg("qloo authentication failed: unauthorized")
	case http.StatusForbidden:
		c.logger.Error().Int("status", statusCode).Msg("qloo authentication failed: key valid but insufficient permissions")
	}
}

func (c *Client) logRateLimit(header http.Header) {
	remaining := header.Get("X-RateLimit-Remaining-Month")
	if remaining == "" {
		return
	}
	c.logger.Debug().
		Str("remaining", remaining).
		Str("limit", header.Get("X-RateLimit-Limit-Month")).
		Msg("qloo monthly rate limit")
}

func (c *Client) traceRequestDone(method, rawURL string, statusCode int, responseBytes int, startedAt time.Time, reqErr error) {
	duration := time.Since(startedAt).Round(time.Millisecond)
	if reqErr != nil {
		c.tracef("[http] <- %s %s error=%v duration=%s", method, rawURL, reqErr, duration)
		return
	}
	c.tracef("[http] <- %s %s status=%d duration=%s bytes=%d", method, rawURL, statusCode, duration, responseBytes)
}

func (c *Client) waitForRequestSlot(ctx context.Context) error {
	interval := c.minRequestGap
	if interval <= 0 {
		return nil
	}
	for {
		c.requestWindowM.Lock()
		wait := time.Until(c.nextRequestAt)
		if wait <= 0 {
			c.nextRequestAt = time.Now().Add(interval)
			c.requestWindowM.Unlock()
			return nil
		}
		c.requestWindowM.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) tracef(format string, args ...any) {
	c.verboseOutputM.RLock()
	out := c.verboseOutput
	c.verboseOutputM.RUnlock()
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, format+"\n", args...)
}

func decodeAny[T any](value any) (T, error) {
	var out T
	payload, err := json.Marshal(value)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, err
	}
	return out, nil
}
