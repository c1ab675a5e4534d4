package qloo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type captureHTTPClient struct {
	request      *http.Request
	statusCode   int
	responseBody string
	doErr        error
	doCalls      int
}

func (c *captureHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.doCalls++
	c.request = req
	if c.doErr != nil {
		return nil, c.doErr
	}
	statusCode := c.statusCode
	if statusCode == 0 {
		statusCode = 200
	}
	responseBody := c.responseBody
	if strings.TrimSpace(responseBody) == "" {
		responseBody = `{"results":{"entities":[]}}`
	}
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(responseBody)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestInsightsByLocationSetsFiltersAndAPIKeyHeader(t *testing.T) {
	httpClient := &captureHTTPClient{}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithAPIKey("secret-key"),
		WithEndpoints(Endpoints{
			Insights: "https://example.test/v2/insights/",
		}),
	)

	_, err := client.InsightsByLocation(context.Background(), "San Francisco", 0)
	if err != nil {
		t.Fatalf("insights by location returned error: %v", err)
	}
	if httpClient.request == nil {
		t.Fatal("expected request to be captured")
	}
	if got := httpClient.request.Method; got != http.MethodGet {
		t.Fatalf("expected GET request, got %s", got)
	}
	if got := httpClient.request.Header.Get("X-Api-Key"); got != "secret-key" {
		t.Fatalf("expected X-Api-Key header, got %q", got)
	}
	if got := httpClient.request.Header.Get("accept"); got != "application/json" {
		t.Fatalf("expected accept header application/json, got %q", got)
	}
	values := httpClient.request.URL.Query()
	if got := values.Get("filter.type"); got != "urn:entity:place" {
		t.Fatalf("expected place entity filter, got %q", got)
	}
	if got := values.Get("filter.location.query"); got != "SanFrancisco" {
		t.Fatalf("expected space-stripped location query, got %q", got)
	}
}

func TestInsightsByLocationDecodesEntities(t *testing.T) {
	httpClient := &captureHTTPClient{
		responseBody: `{"results":{"entities":[
			{"entity_id":"abc","name":"Tartine","properties":{"address":"600 Guerrero St","business_rating":4.6}},
			{"entity_id":"def","name":"Zeitgeist"}
		]}}`,
	}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithEndpoints(Endpoints{Insights: "https://example.test/v2/insights/"}),
	)

	entities, err := client.InsightsByLocation(context.Background(), "San Francisco", 0)
	if err != nil {
		t.Fatalf("insights by location returned error: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0].EntityID != "abc" || entities[0].Name != "Tartine" {
		t.Fatalf("unexpected first entity: %+v", entities[0])
	}
	if entities[0].Properties.BusinessRating == nil || *entities[0].Properties.BusinessRating != 4.6 {
		t.Fatalf("expected business rating 4.6, got %+v", entities[0].Properties.BusinessRating)
	}
}

func TestInsightsByLocationRejectsMissingResults(t *testing.T) {
	httpClient := &captureHTTPClient{responseBody: `{"unexpected":true}`}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithEndpoints(Endpoints{Insights: "https://example.test/v2/insights/"}),
	)

	_, err := client.InsightsByLocation(context.Background(), "San Francisco", 0)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected upstream error for malformed payload, got %v", err)
	}
}

func TestSearchEntitiesLowercasesQueryAndSetsLimit(t *testing.T) {
	httpClient := &captureHTTPClient{responseBody: `{"results":[]}`}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithEndpoints(Endpoints{Search: "https://example.test/search"}),
	)

	_, err := client.SearchEntities(context.Background(), " Restaurant Chicago ", 15)
	if err != nil {
		t.Fatalf("search entities returned error: %v", err)
	}
	if httpClient.request == nil {
		t.Fatal("expected request to be captured")
	}
	values := httpClient.request.URL.Query()
	if got := values.Get("query"); got != "restaurant chicago" {
		t.Fatalf("expected lowercased trimmed query, got %q", got)
	}
	if got := values.Get("limit"); got != "15" {
		t.Fatalf("expected limit 15, got %q", got)
	}
}

func TestSearchEntitiesDefaultsLimit(t *testing.T) {
	httpClient := &captureHTTPClient{responseBody: `{"results":[]}`}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithEndpoints(Endpoints{Search: "https://example.test/search"}),
	)

	if _, err := client.SearchEntities(context.Background(), "venues", 0); err != nil {
		t.Fatalf("search entities returned error: %v", err)
	}
	if got := httpClient.request.URL.Query().Get("limit"); got != "20" {
		t.Fatalf("expected default limit 20, got %q", got)
	}
}

func TestSearchEntitiesSkipsMalformedRecords(t *testing.T) {
	httpClient := &captureHTTPClient{
		responseBody: `{"results":[
			{"entity_id":"ok-1","name":"City Museum"},
			"not-an-object",
			{"entity_id":"ok-2","name":"Blue Bottle"}
		]}`,
	}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithEndpoints(Endpoints{Search: "https://example.test/search"}),
	)

	entities, err := client.SearchEntities(context.Background(), "museum", 10)
	if err != nil {
		t.Fatalf("search entities returned error: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("expected malformed record to be skipped, got %d entities", len(entities))
	}
	if entities[0].EntityID != "ok-1" || entities[1].EntityID != "ok-2" {
		t.Fatalf("unexpected entities after skip: %+v", entities)
	}
}

func TestUpstreamStatusErrorWrapsSentinel(t *testing.T) {
	httpClient := &captureHTTPClient{
		statusCode:   http.StatusForbidden,
		responseBody: `{"error":"forbidden"}`,
	}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithEndpoints(Endpoints{Insights: "https://example.test/v2/insights/"}),
	)

	_, err := client.InsightsByLocation(context.Background(), "Tokyo", 0)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected error to wrap upstream sentinel, got %v", err)
	}
	var upstreamErr *UpstreamRequestError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamRequestError, got %T", err)
	}
	if upstreamErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", upstreamErr.StatusCode)
	}
	if !strings.Contains(upstreamErr.Body, "forbidden") {
		t.Fatalf("expected body preview in error, got %q", upstreamErr.Body)
	}
}

func TestVerboseTraceLogsRequestAndResponse(t *testing.T) {
	httpClient := &captureHTTPClient{}
	trace := &bytes.Buffer{}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithVerboseOutput(trace),
		WithEndpoints(Endpoints{Insights: "https://example.test/v2/insights/"}),
	)

	_, err := client.InsightsByLocation(context.Background(), "Tokyo", 0)
	if err != nil {
		t.Fatalf("insights by location returned error: %v", err)
	}

	out := trace.String()
	if !strings.Contains(out, "[http] -> GET https://example.test/v2/insights/") {
		t.Fatalf("expected request trace line, got:\n%s", out)
	}
	if !strings.Contains(out, "status=200") {
		t.Fatalf("expected response trace line with status, got:\n%s", out)
	}
}

func TestVerboseTraceLogsTransportErrors(t *testing.T) {
	httpClient := &captureHTTPClient{doErr: errors.New("network down")}
	trace := &bytes.Buffer{}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithVerboseOutput(trace),
		WithEndpoints(Endpoints{Search: "https://example.test/search"}),
	)

	_, err := client.SearchEntities(context.Background(), "bars", 5)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(trace.String(), "error=") {
		t.Fatalf("expected error trace line, got:\n%s", trace.String())
	}
}

func TestRequestMinIntervalHonorsContextDeadline(t *testing.T) {
	httpClient := &captureHTTPClient{}
	client := NewClient(
		WithHTTPClient(httpClient),
		WithRequestMinInterval(time.Hour),
		WithEndpoints(Endpoints{Insights: "https://example.test/v2/insights/"}),
	)

	if _, err := client.InsightsByLocation(context.Background(), "Paris", 0); err != nil {
		t.Fatalf("insights by location returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := client.InsightsByLocation(ctx, "Paris", 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline exceeded, got %v", err)
	}
	if httpClient.doCalls != 1 {
		t.Fatalf("expected limiter to block second outbound call, got %d calls", httpClient.doCalls)
	}
}

func TestHasCredentials(t *testing.T) {
	if NewClient().HasCredentials() {
		t.Fatal("expected no credentials by default")
	}
	if !NewClient(WithAPIKey(" key ")).HasCredentials() {
		t.Fatal("expected credentials after WithAPIKey")
	}
}
