package cli

import (
	"context"

	"github.com/feliksas/tastescout-cli/internal/domain"
	"github.com/feliksas/tastescout-cli/internal/gateway/assistant"
	"github.com/feliksas/tastescout-cli/internal/gateway/weather"
	"github.com/feliksas/tastescout-cli/internal/service/recommend"
)

type testRecommender struct {
	result recommend.Result

	gotUser     string
	gotLocation string
	gotFilters  domain.Filters
}

func (m *testRecommender) GetRecommendations(_ context.Context, userID, locationName string, filters domain.Filters) recommend.Result {
	m.gotUser = userID
	m.gotLocation = locationName
	m.gotFilters = filters
	return m.result
}

type testWeatherAPI struct {
	reading domain.WeatherReading
	entries []weather.ForecastEntry
	err     error

	gotHours int
}

func (m *testWeatherAPI) CurrentWeather(context.Context, float64, float64) (domain.WeatherReading, error) {
	return m.reading, m.err
}

func (m *testWeatherAPI) Forecast(_ context.Context, _, _ float64, hours int) ([]weather.ForecastEntry, error) {
	m.gotHours = hours
	return m.entries, m.err
}

type testAssistant struct {
	reply       string
	err         error
	credentials bool

	gotMessages []assistant.Message
	gotContext  string
}

func (m *testAssistant) Respond(_ context.Context, messages []assistant.Message, contextNote string) (string, error) {
	m.gotMessages = messages
	m.gotContext = contextNote
	return m.reply, m.err
}

func (m *testAssistant) HasCredentials() bool {
	return m.credentials
}

type testCredentials struct {
	configured bool
}

func (m *testCredentials) HasCredentials() bool {
	return m.configured
}
