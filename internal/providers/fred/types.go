package fred

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// --- FRED Observations ---

type observationsResponse struct {
	RealtimeStart    string        `json:"realtime_start"`
	RealtimeEnd      string        `json:"realtime_end"`
	ObservationStart string        `json:"observation_start"`
	ObservationEnd   string        `json:"observation_end"`
	Units            string        `json:"units"`
	OutputType       int           `json:"output_type"`
	FileType         string        `json:"file_type"`
	OrderBy          string        `json:"order_by"`
	SortOrder        string        `json:"sort_order"`
	Count            int           `json:"count"`
	Offset           int           `json:"offset"`
	Limit            int           `json:"limit"`
	Observations     []observation `json:"observations"`
}

type observation struct {
	RealtimeStart string `json:"realtime_start"`
	RealtimeEnd   string `json:"realtime_end"`
	Date          string `json:"date"`
	Value         string `json:"value"`
}

// --- FRED Series metadata ---

type seriesResponse struct {
	Seriess []SeriesInfo `json:"seriess"`
}

// SeriesInfo is the metadata FRED publishes for a series.
type SeriesInfo struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	ObservationStart   string `json:"observation_start"`
	ObservationEnd     string `json:"observation_end"`
	Frequency          string `json:"frequency"`
	Units              string `json:"units"`
	SeasonalAdjustment string `json:"seasonal_adjustment"`
	LastUpdated        string `json:"last_updated"`
}

// --- FRED errors ---

// errorPayload is the body FRED returns alongside a non-2xx status.
type errorPayload struct {
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// APIError is returned when FRED answers with an error status or payload.
type APIError struct {
	SeriesID   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fred %s: HTTP %d", e.SeriesID, e.StatusCode)
	}
	return fmt.Sprintf("fred %s: HTTP %d: %s", e.SeriesID, e.StatusCode, e.Message)
}

// NotFound reports whether FRED rejected the series identifier.
func (e *APIError) NotFound() bool {
	return e.StatusCode == 400 || e.StatusCode == 404
}

// RateLimited reports whether FRED throttled the request.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == 429
}

// parseFredDate parses a FRED observation date (YYYY-MM-DD) as UTC midnight.
func parseFredDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseValue converts a FRED observation value. FRED encodes a missing
// observation as "."; that and any other non-numeric value become NaN.
func parseValue(s string) float64 {
	if s == "" || s == "." {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
