package fred

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
)

type obs struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// fakeFRED serves /series/observations from a fixed map of series.
func fakeFRED(t *testing.T, series map[string][]obs) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")

		if q.Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error_code": 400, "error_message": "Bad Request. The value for variable api_key is not registered."})
			return
		}
		if q.Get("file_type") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		id := q.Get("series_id")
		data, ok := series[id]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error_code": 400, "error_message": "Bad Request. The series does not exist."})
			return
		}

		switch r.URL.Path {
		case "/series/observations":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"observation_start": q.Get("observation_start"),
				"observation_end":   q.Get("observation_end"),
				"observations":      data,
			})
		case "/series":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"seriess": []map[string]string{{"id": id, "title": "Gross Domestic Product", "frequency": "Quarterly"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Options{APIKey: "test-key", BaseURL: srv.URL})
}

func TestFetchSeriesParsesObservations(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{
		"GDP": {{"2020-01-01", "21481.367"}, {"2020-04-01", "."}, {"2020-07-01", "21170.252"}},
	})
	c := newTestClient(srv)

	s, err := c.FetchSeries(context.Background(), "GDP", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), s.Dates[0])
	assert.InDelta(t, 21481.367, s.Values[0], 1e-9)
	assert.True(t, math.IsNaN(s.Values[1]), "'.' is a missing observation")
}

func TestFetchSeriesUnknownSeries(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{})
	c := newTestClient(srv)

	_, err := c.FetchSeries(context.Background(), "NOPE", time.Time{}, time.Time{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NOPE", apiErr.SeriesID)
	assert.True(t, apiErr.NotFound())
	assert.Contains(t, apiErr.Error(), "series does not exist")
}

func TestFetchSeriesBadKey(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{"GDP": {{"2020-01-01", "1"}}})
	c := New(Options{APIKey: "wrong", BaseURL: srv.URL})

	_, err := c.FetchSeries(context.Background(), "GDP", time.Time{}, time.Time{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestMissingAPIKeyShortCircuits(t *testing.T) {
	srv, calls := fakeFRED(t, map[string][]obs{})
	c := New(Options{BaseURL: srv.URL})

	assert.False(t, c.HasAPIKey())
	_, err := c.FetchSeries(context.Background(), "GDP", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Zero(t, calls.Load())
}

func TestFetchBatchOuterJoins(t *testing.T) {
	srv, calls := fakeFRED(t, map[string][]obs{
		"GDP":      {{"2020-01-01", "100"}, {"2020-04-01", "110"}},
		"FEDFUNDS": {{"2020-01-01", "1.5"}, {"2020-02-01", "1.6"}, {"2020-03-01", "0.6"}, {"2020-04-01", "0.05"}},
	})
	c := newTestClient(srv)

	tbl, err := c.FetchBatch(context.Background(), []string{"GDP", "FEDFUNDS"}, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.NoError(t, tbl.Validate())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"GDP", "FEDFUNDS"}, tbl.Columns)
	assert.Equal(t, 4, tbl.Len())

	gdp, err := tbl.Column("GDP")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(gdp[1]))
	assert.Equal(t, 110.0, gdp[3])
}

func TestFetchBatchFailsWhole(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{
		"GDP": {{"2020-01-01", "100"}},
	})
	c := newTestClient(srv)

	tbl, err := c.FetchBatch(context.Background(), []string{"GDP", "MISSING"}, time.Time{}, time.Time{})
	assert.Nil(t, tbl)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "MISSING", apiErr.SeriesID)
}

func TestFetchSeriesHonoursContext(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{"GDP": {{"2020-01-01", "1"}}})
	c := newTestClient(srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchSeries(ctx, "GDP", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestInfoAndPing(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{"GDP": {}})
	c := newTestClient(srv)

	info, err := c.Info(context.Background(), "GDP")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly", info.Frequency)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNewFromConfig(t *testing.T) {
	srv, _ := fakeFRED(t, map[string][]obs{"GDP": {{"2020-01-01", "1"}}})
	c := NewFromConfig(config.FREDConfig{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		TimeoutSec:      5,
		RateLimitPerMin: 120,
	}, nil)

	s, err := c.FetchSeries(context.Background(), "GDP", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 5.25, parseValue("5.25"))
	assert.Equal(t, -1.5, parseValue("-1.5"))
	assert.True(t, math.IsNaN(parseValue(".")))
	assert.True(t, math.IsNaN(parseValue("")))
	assert.True(t, math.IsNaN(parseValue("n/a")))
}

func TestAPIErrorMessage(t *testing.T) {
	e := &APIError{SeriesID: "GDP", StatusCode: 429}
	assert.True(t, e.RateLimited())
	assert.Equal(t, "fred GDP: HTTP 429", e.Error())
}
