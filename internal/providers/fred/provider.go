// Package fred implements the client for FRED (Federal Reserve Economic Data).
//
// Requires a free API key from https://fred.stlouisfed.org/docs/api/api_key.html
// Rate limit: 120 requests/minute.
// Docs: https://fred.stlouisfed.org/docs/api/fred/
package fred

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

const (
	// DefaultBaseURL is the public FRED API root.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	dateLayout = "2006-01-02"
)

// ErrMissingAPIKey is returned before any request when no API key is configured.
var ErrMissingAPIKey = errors.New("fred: API key not configured (set FRED_API_KEY)")

// Options configures a Client.
type Options struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration // zero keeps the resty default
	RateLimitPerMin int           // zero disables client-side limiting
	MaxRetries      int
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// Client fetches series observations from the FRED API.
type Client struct {
	rc      *resty.Client
	limiter *rate.Limiter
	apiKey  string
	logger  *slog.Logger
}

// New creates a FRED client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json").
		SetQueryParam("file_type", "json")
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.MaxRetries > 0 {
		rc.SetRetryCount(opts.MaxRetries).
			SetRetryWaitTime(500 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
			})
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimitPerMin > 0 {
		burst := opts.RateLimitPerMin / 12
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60), burst)
	}

	return &Client{
		rc:      rc,
		limiter: limiter,
		apiKey:  opts.APIKey,
		logger:  opts.Logger,
	}
}

// NewFromConfig creates a client from the fred config section.
func NewFromConfig(cfg config.FREDConfig, logger *slog.Logger) *Client {
	return New(Options{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		MaxRetries:      cfg.MaxRetries,
		Logger:          logger,
	})
}

// HasAPIKey reports whether an API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// FetchSeries returns the observations of one series within [start, end].
// A zero end means "through the latest observation". Missing observations
// are kept as NaN.
func (c *Client) FetchSeries(ctx context.Context, seriesID string, start, end time.Time) (timeseries.Series, error) {
	params := map[string]string{"series_id": seriesID}
	if !start.IsZero() {
		params["observation_start"] = start.Format(dateLayout)
	}
	if !end.IsZero() {
		params["observation_end"] = end.Format(dateLayout)
	}

	var resp observationsResponse
	if err := c.get(ctx, "/series/observations", seriesID, params, &resp); err != nil {
		return timeseries.Series{}, err
	}

	s := timeseries.Series{
		Dates:  make([]time.Time, 0, len(resp.Observations)),
		Values: make([]float64, 0, len(resp.Observations)),
	}
	for _, o := range resp.Observations {
		d, err := parseFredDate(o.Date)
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("fred %s: bad observation date %q: %w", seriesID, o.Date, err)
		}
		s.Dates = append(s.Dates, d)
		s.Values = append(s.Values, parseValue(o.Value))
	}

	c.logger.DebugContext(ctx, "fred series fetched", "series", seriesID, "observations", s.Len())
	return s, nil
}

// FetchBatch fetches all series concurrently and outer-joins them on date.
// Columns are named by series ID in the order given. Any failure fails the
// whole batch.
func (c *Client) FetchBatch(ctx context.Context, seriesIDs []string, start, end time.Time) (*timeseries.Table, error) {
	results := make([]timeseries.Series, len(seriesIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range seriesIDs {
		g.Go(func() error {
			s, err := c.FetchSeries(gctx, id, start, end)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]timeseries.Series, len(seriesIDs))
	for i, id := range seriesIDs {
		byID[id] = results[i]
	}
	return timeseries.OuterJoin(byID, seriesIDs)
}

// Info returns the metadata of one series.
func (c *Client) Info(ctx context.Context, seriesID string) (*SeriesInfo, error) {
	var resp seriesResponse
	if err := c.get(ctx, "/series", seriesID, map[string]string{"series_id": seriesID}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Seriess) == 0 {
		return nil, &APIError{SeriesID: seriesID, StatusCode: http.StatusNotFound, Message: "series not found"}
	}
	return &resp.Seriess[0], nil
}

// Ping checks connectivity to the FRED API.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Info(ctx, "GDP"); err != nil {
		return fmt.Errorf("fred ping: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, seriesID string, params map[string]string, dest any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("fred %s: %w", seriesID, err)
	}

	var apiErr errorPayload
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParams(params).
		SetResult(dest).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("fred %s: %w", seriesID, err)
	}
	if resp.IsError() {
		status := resp.StatusCode()
		if apiErr.ErrorCode != 0 {
			status = apiErr.ErrorCode
		}
		return &APIError{SeriesID: seriesID, StatusCode: status, Message: apiErr.ErrorMessage}
	}
	return nil
}
