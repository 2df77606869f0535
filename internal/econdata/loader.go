package econdata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Ross-123/US-Economic-Dashboard/internal/infra"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// DefaultTTL is how long a loaded table is served before refetching.
const DefaultTTL = 24 * time.Hour

// Source fetches several series in one batched call and returns them
// outer-joined on date, one column per series ID.
type Source interface {
	FetchBatch(ctx context.Context, seriesIDs []string, start, end time.Time) (*timeseries.Table, error)
}

// Options configures a Loader.
type Options struct {
	Start   time.Time     // first observation date requested; default 1970-01-01
	TTL     time.Duration // default DefaultTTL
	Metrics *infra.Metrics
	Logger  *slog.Logger
	Now     func() time.Time
}

// Loader produces the observation table and memoizes it for the TTL.
type Loader struct {
	source  Source
	start   time.Time
	memo    *infra.Memo[*timeseries.Table]
	metrics *infra.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewLoader creates a Loader reading from source.
func NewLoader(source Source, opts Options) *Loader {
	if opts.Start.IsZero() {
		opts.Start = utils.Date(1970, time.January, 1)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	l := &Loader{
		source:  source,
		start:   opts.Start,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		tracer:  otel.Tracer(infra.TracerName),
		now:     opts.Now,
	}
	l.memo = infra.NewMemo(opts.TTL, l.fetch)
	l.memo.SetClock(opts.Now)
	return l
}

// LoadEconomicData returns the cleaned observation table, fetching it from the
// source when the cache is empty or expired. Any series failure fails the
// whole load and nothing is cached.
func (l *Loader) LoadEconomicData(ctx context.Context) (*timeseries.Table, error) {
	tbl, cached, err := l.memo.Get(ctx)
	if l.metrics != nil {
		outcome := "miss"
		if cached {
			outcome = "hit"
		}
		l.metrics.CacheLookups.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

// Invalidate drops the cached table so the next load refetches.
func (l *Loader) Invalidate() {
	l.memo.Invalidate()
	l.logger.Info("observation table cache invalidated")
}

func (l *Loader) fetch(ctx context.Context) (*timeseries.Table, error) {
	ctx, span := l.tracer.Start(ctx, "econdata.load",
		trace.WithAttributes(attribute.StringSlice("fred.series", SeriesIDs())))
	defer span.End()

	began := time.Now()
	end := l.now()
	l.logger.InfoContext(ctx, "fetching observation table",
		"series", SeriesIDs(),
		"start", utils.FormatDate(l.start),
		"end", utils.FormatDate(end),
	)

	tbl, err := l.fetchAndClean(ctx, end)
	if l.metrics != nil {
		l.metrics.FetchDuration.Observe(time.Since(began).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if l.metrics != nil {
			l.metrics.FetchTotal.WithLabelValues("error").Inc()
		}
		l.logger.ErrorContext(ctx, "observation table load failed", "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("table.rows", tbl.Len()))
	if l.metrics != nil {
		l.metrics.FetchTotal.WithLabelValues("ok").Inc()
	}
	l.logger.InfoContext(ctx, "observation table loaded",
		"rows", tbl.Len(),
		"duration", time.Since(began).Round(time.Millisecond),
	)
	return tbl, nil
}

func (l *Loader) fetchAndClean(ctx context.Context, end time.Time) (*timeseries.Table, error) {
	raw, err := l.source.FetchBatch(ctx, SeriesIDs(), l.start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	tbl, err := Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("clean series: %w", err)
	}
	return tbl, nil
}

// Status describes the cache state for health checks and the UI banner.
type Status struct {
	Loaded     bool      `json:"loaded"`
	FetchedAt  time.Time `json:"fetched_at,omitzero"`
	ExpiresAt  time.Time `json:"expires_at,omitzero"`
	Rows       int       `json:"rows"`
	FirstDate  string    `json:"first_date,omitempty"`
	LatestDate string    `json:"latest_date,omitempty"`
	Banner     string    `json:"banner,omitempty"`
	TTL        string    `json:"ttl"`
}

// Status reports the cached table without triggering a load.
func (l *Loader) Status() Status {
	st := Status{TTL: l.memo.TTL().String()}
	entry, ok := l.memo.Peek()
	if !ok {
		return st
	}
	st.Loaded = true
	st.FetchedAt = entry.FetchedAt
	st.ExpiresAt = entry.ExpiresAt
	st.Rows = entry.Value.Len()
	if first, ok := entry.Value.FirstDate(); ok {
		st.FirstDate = utils.FormatDate(first)
	}
	if last, ok := entry.Value.LastDate(); ok {
		st.LatestDate = utils.FormatDate(last)
		st.Banner = Banner(last)
	}
	return st
}

// Banner is the "data loaded through" line shown above the chart.
func Banner(latest time.Time) string {
	return "Data loaded through " + utils.FormatMonthYear(latest)
}
