// Configuration endpoints.

package api

import (
	"net/http"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
)

// ConfigResponse is the JSON view returned by GET /api/v1/config.
// The FRED API key is reported through /config/keys only, masked.
type ConfigResponse struct {
	FRED struct {
		BaseURL         string `json:"base_url"`
		StartDate       string `json:"start_date"`
		TimeoutSec      int    `json:"timeout_sec"`
		RateLimitPerMin int    `json:"rate_limit_per_min"`
		MaxRetries      int    `json:"max_retries"`
	} `json:"fred"`
	Animation struct {
		DefaultSpeed      int `json:"default_speed"`
		BaseDelayMS       int `json:"base_delay_ms"`
		MaxFramesPerSpeed int `json:"max_frames_per_speed"`
	} `json:"animation"`
	CacheTTL string   `json:"cache_ttl"`
	CORS     []string `json:"cors_origins"`
}

// handleGetConfig returns the running configuration without secrets.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	var resp ConfigResponse
	resp.FRED.BaseURL = s.cfg.FRED.BaseURL
	resp.FRED.StartDate = s.cfg.FRED.StartDate
	resp.FRED.TimeoutSec = s.cfg.FRED.TimeoutSec
	resp.FRED.RateLimitPerMin = s.cfg.FRED.RateLimitPerMin
	resp.FRED.MaxRetries = s.cfg.FRED.MaxRetries
	resp.CacheTTL = s.cfg.Cache.TTL().String()
	resp.Animation.DefaultSpeed = s.cfg.Animation.DefaultSpeed
	resp.Animation.BaseDelayMS = s.cfg.Animation.BaseDelayMS
	resp.Animation.MaxFramesPerSpeed = s.cfg.Animation.MaxFramesPerSpeed
	resp.CORS = s.cfg.API.CORSOrigins

	writeOK(w, r, resp)
}

// handleGetConfigKeys returns the status of all sensitive API keys.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	writeOK(w, r, config.CheckAPIKeys(s.cfg))
}
