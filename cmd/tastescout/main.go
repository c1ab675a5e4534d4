package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/feliksas/tastescout-cli/internal/cli"
	assistantgateway "github.com/feliksas/tastescout-cli/internal/gateway/assistant"
	qloogateway "github.com/feliksas/tastescout-cli/internal/gateway/qloo"
	weathergateway "github.com/feliksas/tastescout-cli/internal/gateway/weather"
	"github.com/feliksas/tastescout-cli/internal/geo"
	"github.com/feliksas/tastescout-cli/internal/logging"
	"github.com/feliksas/tastescout-cli/internal/service/recommend"
	"github.com/feliksas/tastescout-cli/internal/service/weatherctx"
	"github.com/feliksas/tastescout-cli/internal/store"
)

var version = "dev"

const (
	defaultHTTPMinInterval = 220 * time.Millisecond
	httpMinIntervalEnv     = "TASTESCOUT_HTTP_MIN_INTERVAL_MS"
)

func main() {
	logger := logging.FromEnv()

	profiles, err := store.NewStore()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	venues := qloogateway.NewClient(
		qloogateway.WithAPIKey(os.Getenv("QLOO_API_KEY")),
		qloogateway.WithRequestMinInterval(resolveRequestMinInterval()),
		qloogateway.WithLogger(logger),
	)
	weatherClient := weathergateway.NewClient(
		weathergateway.WithAPIKey(os.Getenv("OPENWEATHER_API_KEY")),
		weathergateway.WithLogger(logger),
	)
	assistantOpts := []assistantgateway.Option{
		assistantgateway.WithAPIKey(os.Getenv("ASSISTANT_API_KEY")),
		assistantgateway.WithLogger(logger),
	}
	if model := strings.TrimSpace(os.Getenv("ASSISTANT_MODEL")); model != "" {
		assistantOpts = append(assistantOpts, assistantgateway.WithModel(model))
	}
	assistantClient := assistantgateway.NewClient(assistantOpts...)
	geocoder := geo.NewGeocoder()

	deps := cli.Dependencies{
		Recommend: recommend.NewService(venues, weatherClient, geocoder, profiles, weatherctx.Classify, logger),
		Weather:   weatherClient,
		Assistant: assistantClient,
		Geocoder:  geocoder,
		Store:     profiles,
		Version:   version,

		Venues:         venues,
		WeatherClient:  weatherClient,
		AssistantCreds: assistantClient,
	}

	exitCode := cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

func resolveRequestMinInterval() time.Duration {
	raw := strings.TrimSpace(os.Getenv(httpMinIntervalEnv))
	if raw == "" {
		return defaultHTTPMinInterval
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return defaultHTTPMinInterval
	}
	return time.Duration(ms) * time.Millisecond
}
