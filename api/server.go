// Package api provides the HTTP server for the economic dashboard.
//
// It serves the dashboard page, JSON endpoints for the observation table,
// chart specs and metric snapshots, spreadsheet exports, and WebSocket
// streaming of chart animations.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/Ross-123/US-Economic-Dashboard/internal/animation"
	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/infra"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/web"
)

// DataService loads the cached observation table. *econdata.Loader satisfies it.
type DataService interface {
	LoadEconomicData(ctx context.Context) (*timeseries.Table, error)
	Invalidate()
	Status() econdata.Status
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Metrics *infra.Metrics   // nil disables /metrics
	Logger  *slog.Logger     // default slog.Default()
	Now     func() time.Time // default time.Now
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	data     DataService
	metrics  *infra.Metrics
	logger   *slog.Logger
	now      func() time.Time
	validate *validator.Validate
	wsHub    *WSHub
	sessions *sessionStore
	anim     animation.Options
	started  sync.Once
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, data DataService, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	anim := animation.OptionsFromConfig(cfg.Animation)
	anim.Metrics = opts.Metrics
	anim.Logger = opts.Logger

	srv := &Server{
		cfg:      cfg,
		data:     data,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		validate: newValidator(),
		wsHub:    NewWSHub(),
		sessions: newSessionStore(),
		anim:     anim,
	}

	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP lets the server be mounted directly as a handler. Start must be
// called first or WebSocket clients block waiting for the hub.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the WebSocket hub until ctx is done, then cancels any running
// animation sessions. Calls after the first are no-ops.
func (s *Server) Start(ctx context.Context) {
	s.started.Do(func() {
		go s.wsHub.Run(ctx)
		go func() {
			<-ctx.Done()
			s.sessions.cancelAll()
		}()
	})
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	s.Start(hubCtx)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	s.logger.Info("shutting down server")
	s.sessions.cancelAll()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// Dashboard page and its assets
	r.Get("/", s.handleDashboard)
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler()))

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.API.RateLimitRPS > 0 {
			r.Use(NewRateLimiter(s.cfg.API.RateLimitRPS, s.cfg.API.RateLimitBurst, s.logger).Handler)
		}

		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// Observation table
		r.Get("/data", s.handleData)
		r.Post("/refresh", s.handleRefresh)

		// Chart
		r.Get("/chart", s.handleChart)
		r.Get("/chart.svg", s.handleChartSVG)

		// Metrics panels
		r.Get("/metrics", s.handleYearRangeMetrics)
		r.Get("/metrics/asof", s.handleAsOfMetrics)

		// Export
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)

		// Animation
		r.Post("/animations", s.handleCreateAnimation)
		r.Get("/animations/{id}", s.handleGetAnimation)
		r.Delete("/animations/{id}", s.handleCancelAnimation)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Get("/config/keys", s.handleGetConfigKeys)

		// WebSocket frame stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// staticHandler serves the embedded script and stylesheet.
func staticHandler() http.Handler {
	fileServer := http.FileServerFS(web.StaticFS())
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request through slog and counts it in m
// by route pattern when m is set.
func requestLogger(logger *slog.Logger, m *infra.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			if m != nil {
				route := "unmatched"
				if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
			}
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// ============================================================
// Response helpers
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeOK(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// loadTable loads the observation table, answering 502 on failure.
// ok is false when the response has already been written.
func (s *Server) loadTable(w http.ResponseWriter, r *http.Request) (*timeseries.Table, bool) {
	tbl, err := s.data.LoadEconomicData(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "load economic data", "error", err)
		writeError(w, r, http.StatusBadGateway, "failed to load economic data: "+err.Error())
		return nil, false
	}
	return tbl, true
}
