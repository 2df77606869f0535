package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/chart"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/metrics"
	"github.com/Ross-123/US-Economic-Dashboard/internal/report"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// exportBaseName names downloaded export files.
const exportBaseName = "us-economic-indicators"

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status           string          `json:"status"`
	Time             string          `json:"time"`
	Data             econdata.Status `json:"data"`
	WSClients        int             `json:"ws_clients"`
	ActiveAnimations int             `json:"active_animations"`
}

// handleHealth reports liveness without triggering a FRED load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, HealthResponse{
		Status:           "ok",
		Time:             s.now().UTC().Format(time.RFC3339),
		Data:             s.data.Status(),
		WSClients:        s.wsHub.ClientCount(),
		ActiveAnimations: s.sessions.len(),
	})
}

// handleDashboard renders the HTML page. A failed load still renders the page,
// with the error banner in place of the chart data.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tbl, err := s.data.LoadEconomicData(r.Context())
	status := http.StatusOK
	if err != nil {
		s.logger.ErrorContext(r.Context(), "load economic data", "error", err)
		status = http.StatusBadGateway
	}

	page, rerr := report.GenerateHTML(report.BuildDashboard(tbl, err, report.DashboardOptions{
		DefaultSpeed: s.cfg.Animation.DefaultSpeed,
		Now:          s.now(),
	}))
	if rerr != nil {
		s.logger.ErrorContext(r.Context(), "render dashboard", "error", rerr)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	w.Write([]byte(page)) //nolint:errcheck
}

// handleData returns the observation table.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	writeOK(w, r, tbl)
}

// handleRefresh drops the cached table and reloads it from FRED.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.data.Invalidate()
	if _, ok := s.loadTable(w, r); !ok {
		return
	}
	st := s.data.Status()
	s.wsHub.Broadcast(WSMessage{Type: "data_refreshed", Data: st})
	writeOK(w, r, st)
}

// handleChart returns the chart spec, truncated at ?cutoff= when given.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	cutoff, err := dateParam(r, "cutoff", false)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	writeOK(w, r, chart.Render(tbl, cutoff))
}

// handleChartSVG returns a static SVG rendering of the chart.
func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	cutoff, err := dateParam(r, "cutoff", false)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(chart.SVG(chart.Render(tbl, cutoff), chart.DefaultSVGConfig()))) //nolint:errcheck
}

// handleYearRangeMetrics returns the metrics of the last row in ?from=..?to=.
func (s *Server) handleYearRangeMetrics(w http.ResponseWriter, r *http.Request) {
	maxYear := s.now().Year()
	from, err := yearParam(r, "from", metrics.MinYear)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	to, err := yearParam(r, "to", maxYear)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := metrics.ValidateYearRange(from, to, maxYear); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	writeOK(w, r, metrics.ForYearRange(tbl, from, to))
}

// handleAsOfMetrics returns the metrics of the last row on or before ?date=.
func (s *Server) handleAsOfMetrics(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", true)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	writeOK(w, r, metrics.AsOf(tbl, *date))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, tbl); err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	serveAttachment(w, "text/csv; charset=utf-8", exportBaseName+".csv", buf.Bytes())
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.loadTable(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, tbl); err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	serveAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		exportBaseName+".xlsx", buf.Bytes())
}

func serveAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

// ============================================================
// Query parameters
// ============================================================

// dateParam parses a YYYY-MM-DD query parameter. A missing optional
// parameter yields nil.
func dateParam(r *http.Request, name string, required bool) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return nil, fmt.Errorf("%s is required (YYYY-MM-DD)", name)
		}
		return nil, nil
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, raw)
	}
	return &t, nil
}

// yearParam parses an integer year query parameter, defaulting to def.
func yearParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a year", name, raw)
	}
	return y, nil
}
