// Package weather wraps the OpenWeather current-conditions and forecast
// endpoints behind a small client with metric-unit normalization.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feliksas/tastescout-cli/internal/domain"
)

const (
	defaultBaseURL   = "https://api.openweathermap.org/data/2.5"
	maxForecastHours = 48

	// Neutral defaults for fields the provider payload omits.
	defaultTemperature = 20.0
	defaultHumidity    = 50

	metersPerSecondToKMH = 3.6
)

// ErrUpstream indicates weather API failure.
var ErrUpstream = errors.New("error when trying to get response from weather api")

// API describes the weather operations the recommendation pipeline uses.
type API interface {
	// CurrentWeather returns current conditions for a coordinate pair in
	// metric units.
	CurrentWeather(ctx context.Context, lat, lng float64) (domain.WeatherReading, error)
	// Forecast returns hourly forecast entries, capped at 48 hours.
	Forecast(ctx context.Context, lat, lng float64, hours int) ([]ForecastEntry, error)
}

// ForecastEntry is one hourly forecast data point.
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Condition   string    `json:"condition"`
}

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries OpenWeather with static API-key query auth.
type Client struct {
	httpClient     HTTPClient
	baseURL        string
	apiKey         string
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

// WithBaseURL replaces the default API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithAPIKey sets the appid query parameter value.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a production weather gateway client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		logger:     zerolog.Nop(),
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

type currentPayload struct {
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour *float64 `json:"1h"`
	} `json:"rain"`
}

// CurrentWeather fetches current conditions. Missing payload fields default
// to neutral values instead of failing the reading.
func (c *Client) CurrentWeather(ctx context.Context, lat, lng float64) (domain.WeatherReading, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("units", "metric")

	raw, err := c.doRequest(ctx, c.baseURL+"/weather", params)
	if err != nil {
		return domain.WeatherReading{}, err
	}

	var payload currentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("%w: decode current weather: %v", ErrUpstream, err)
	}

	reading := domain.WeatherReading{
		Temperature: defaultTemperature,
		Humidity:    defaultHumidity,
	}
	if payload.Main.Temp != nil {
		reading.Temperature = *payload.Main.Temp
	}
	if payload.Main.Humidity != nil {
		reading.Humidity = *payload.Main.Humidity
	}
	if payload.Wind.Speed != nil {
		reading.WindSpeedKMH = *payload.Wind.Speed * metersPerSecondToKMH
	}
	if payload.Rain.OneHour != nil {
		reading.RainOneHourMM = *payload.Rain.OneHour
	}
	if len(payload.Weather) > 0 {
		reading.Condition = payload.Weather[0].Main
	}
	return reading, nil
}

type forecastPayload struct {
	List []struct {
		DT   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast fetches the hourly forecast. The hour count is capped at the free
// tier maximum of 48.
func (c *Client) Forecast(ctx context.Context, lat, lng float64, hours int) ([]ForecastEntry, error) {
	if hours <= 0 || hours > maxForecastHours {
		hours = maxForecastHours
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("units", "metric")
	params.Set("cnt", strconv.Itoa(hours))

	raw, err := c.doRequest(ctx, c.baseURL+"/forecast", params)
	if err != nil {
		return nil, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode forecast: %v", ErrUpstream, err)
	}

	entries := make([]ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		entry := ForecastEntry{
			Time:        time.Unix(item.DT, 0).UTC(),
			Temperature: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			entry.Condition = item.Weather[0].Main
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if c.apiKey != "" {
		params.Set("appid", c.apiKey)
	}
	requestURL := rawURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	startedAt := time.Now()
	c.tracef("[http] -> GET %s", rawURL)

	res, err := c.httpClient.Do(req)
	if err != nil {
		upstreamErr := &UpstreamRequestError{URL: rawURL, Cause: err}
		c.tracef("[http] <- GET %s error=%v duration=%s", rawURL, upstreamErr, time.Since(startedAt).Round(time.Millisecond))
		return nil, upstreamErr
	}
	defer func() {
		_ = res.Body.Close()
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &UpstreamRequestError{URL: rawURL, StatusCode: res.StatusCode, Cause: fmt.Errorf("read response body: %w", err)}
	}

	c.tracef("[http] <- GET %s status=%d duration=%s bytes=%d", rawURL, res.StatusCode, time.Since(startedAt).Round(time.Millisecond), len(raw))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if res.StatusCode == http.StatusUnauthorized {
			c.logger.Error().Int("status", res.StatusCode).Msg("weather authentication failed: unauthorized")
		}
		return nil, &UpstreamRequestError{URL: rawURL, StatusCode: res.StatusCode, Body: string(raw)}
	}
	return raw, nil
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
