// Package assistant wraps the chat-completion provider behind one method.
// Provider errors map to fixed user-facing strings so credentials and raw
// provider detail never reach the end user.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultEndpoint    = "https://api.anthropic.com/v1/messages"
	defaultModel       = "claude-3-haiku-20240307"
	defaultMaxTokens   = 1000
	defaultTemperature = 0.7
)

// ErrUpstream indicates chat provider failure.
var ErrUpstream = errors.New("error when trying to get response from assistant api")

// Fixed user-facing strings for provider failures.
const (
	MessageNoResponse   = "I apologize, but I couldn't generate a response. Please try again."
	MessageAccessDenied = "I don't have access to the AI service. Please check your credentials and permissions."
	MessageBusy         = "The AI service is currently busy. Please try again in a moment."
	MessageTrouble      = "I'm having trouble connecting to the AI service. Please try again later."
	MessageConnection   = "There was a connection issue. Please check your configuration."
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// API describes the chat operation the CLI uses.
type API interface {
	// Respond sends the conversation plus an optional context note and
	// returns the generated text.
	Respond(ctx context.Context, messages []Message, contextNote string) (string, error)
}

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts chat requests with static API-key auth.
type Client struct {
	httpClient     HTTPClient
	endpoint       string
	apiKey         string
	model          string
	maxTokens      int
	temperature    float64
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

// WithEndpoint replaces the default chat endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithAPIKey sets the x-api-key header value.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithModel replaces the default model id.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a production chat gateway client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		endpoint:    defaultEndpoint,
		model:       defaultModel,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		logger:      zerolog.Nop(),
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

type chatRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []Message `json:"messages"`
}

type chatResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Respond sends the conversation to the provider and returns the first
// generated content block. Roles other than user/assistant are dropped.
func (c *Client) Respond(ctx context.Context, messages []Message, contextNote string) (string, error) {
	body := chatRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      SystemPrompt(contextNote),
		Messages:    filterMessages(messages),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	startedAt := time.Now()
	c.tracef("[http] -> POST %s", c.endpoint)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.tracef("[http] <- POST %s error=%v", c.endpoint, err)
		return "", &UpstreamRequestError{URL: c.endpoint, Cause: err}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &UpstreamRequestError{URL: c.endpoint, StatusCode: res.StatusCode, Cause: fmt.Errorf("read response body: %w", err)}
	}

	c.tracef("[http] <- POST %s status=%d duration=%s", c.endpoint, res.StatusCode, time.Since(startedAt).Round(time.Millisecond))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Error().Int("status", res.StatusCode).Msg("assistant request failed")
		return "", &UpstreamRequestError{URL: c.endpoint, StatusCode: res.StatusCode, Body: string(raw)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &UpstreamRequestError{URL: c.endpoint, StatusCode: res.StatusCode, Cause: fmt.Errorf("decode response body: %w", err)}
	}
	if len(decoded.Content) == 0 || decoded.Content[0].Text == "" {
		return MessageNoResponse, nil
	}
	return decoded.Content[0].Text, nil
}

func filterMessages(messages []Message) []Message {
	filtered := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role != "user" && msg.Role != "assistant" {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}

// FriendlyError maps a provider error to one of the fixed user-facing
// strings by inspecting the status code.
func FriendlyError(err error) string {
	var upstreamErr *UpstreamRequestError
	if !errors.As(err, &upstreamErr) {
		return MessageTrouble
	}
	switch {
	case upstreamErr.StatusCode == http.StatusForbidden || upstreamErr.StatusCode == http.StatusUnauthorized:
		return MessageAccessDenied
	case upstreamErr.StatusCode == http.StatusTooManyRequests:
		return MessageBusy
	case upstreamErr.StatusCode > 0:
		return MessageTrouble
	default:
		return MessageConnection
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
