// Package api exposes the prediction engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/geraldgg/helioselene/internal/auth"
	"github.com/geraldgg/helioselene/internal/health"
	"github.com/geraldgg/helioselene/internal/metrics"
	"github.com/geraldgg/helioselene/internal/ratelimit"
	"github.com/geraldgg/helioselene/internal/transits"
)

// maxBodyBytes bounds request bodies; a transit request is a few hundred
// bytes.
const maxBodyBytes = 64 << 10

// Server is the HTTP boundary around the transit prediction engine.
type Server struct {
	addr      string
	logger    *slog.Logger
	authCfg   auth.Config
	limiter   *ratelimit.IPLimiter
	maxWindow time.Duration

	srv *http.Server
}

// NewServer assembles the server. maxWindow caps the scan window length per
// request; zero or negative selects 30 days.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, limiter *ratelimit.IPLimiter, maxWindow time.Duration) *Server {
	if maxWindow <= 0 {
		maxWindow = 30 * 24 * time.Hour
	}
	s := &Server{
		addr:      addr,
		logger:    logger,
		authCfg:   authCfg,
		limiter:   limiter,
		maxWindow: maxWindow,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // long scans
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler builds the full middleware chain and routes. Exposed separately so
// tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/api/v1/transits", s.handleTransits)

	var h http.Handler = mux
	h = auth.Middleware(s.authCfg)(h)
	if s.limiter != nil {
		h = s.limiter.Middleware(s.logger)(h)
	}
	h = s.loggingMiddleware(h)
	h = metrics.Middleware(h)
	return h
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start).String(),
		)
	})
}

// transitRequest is the JSON request body of POST /api/v1/transits.
// Times are Unix epoch seconds, UTC.
type transitRequest struct {
	TLELine1   string  `json:"tle_line1"`
	TLELine2   string  `json:"tle_line2"`
	Satellite  string  `json:"satellite"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AltitudeM  float64 `json:"altitude_m"`
	StartEpoch int64   `json:"start_epoch"`
	EndEpoch   int64   `json:"end_epoch"`

	// Optional tuning. NearMarginArcmin zero selects the default;
	// MaxDistanceKm nil selects the default and zero disables the
	// reachable classification.
	NearMarginArcmin float64  `json:"near_margin_arcmin,omitempty"`
	MaxDistanceKm    *float64 `json:"max_distance_km,omitempty"`
}

func (s *Server) handleTransits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Latitude < -90 || req.Latitude > 90 {
		writeError(w, http.StatusBadRequest, "latitude out of range")
		return
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		writeError(w, http.StatusBadRequest, "longitude out of range")
		return
	}
	start := time.Unix(req.StartEpoch, 0).UTC()
	end := time.Unix(req.EndEpoch, 0).UTC()
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "end_epoch must be after start_epoch")
		return
	}
	if end.Sub(start) > s.maxWindow {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("window exceeds maximum of %s", s.maxWindow))
		return
	}

	cfg := transits.DefaultConfig()
	if req.NearMarginArcmin > 0 {
		cfg.NearMarginDeg = req.NearMarginArcmin / 60.0
	}
	if req.MaxDistanceKm != nil {
		cfg.MaxDistanceKm = *req.MaxDistanceKm
	}

	events := transits.Predict(r.Context(), transits.Request{
		Line1:         req.TLELine1,
		Line2:         req.TLELine2,
		SatelliteName: req.Satellite,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		AltitudeM:     req.AltitudeM,
		Start:         start,
		End:           end,
		Config:        cfg,
	}, s.logger)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
