package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geraldgg/helioselene/internal/auth"
	"github.com/geraldgg/helioselene/internal/ratelimit"
	"github.com/geraldgg/helioselene/internal/transits"
)

const (
	issLine1 = "1 25544U 98067A   25278.49802050  .00011384  00000+0  20935-3 0  9990"
	issLine2 = "2 25544  51.6327 120.3420 0000884 206.2421 153.8523 15.49697304532279"
)

func testServer(authCfg auth.Config) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer("127.0.0.1:0", logger, authCfg, nil, 30*24*time.Hour)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	h := testServer(auth.Config{}).Handler()
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := testServer(auth.Config{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "helioselene_") {
		t.Error("metrics output missing helioselene_ series")
	}
}

func TestTransitsRejectsMalformedRequests(t *testing.T) {
	h := testServer(auth.Config{}).Handler()

	cases := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"unknown field", `{"bogus_field": 1}`},
		{"latitude out of range", `{"tle_line1":"x","tle_line2":"y","latitude":95,"longitude":0,"start_epoch":1759622400,"end_epoch":1759626000}`},
		{"longitude out of range", `{"tle_line1":"x","tle_line2":"y","latitude":0,"longitude":200,"start_epoch":1759622400,"end_epoch":1759626000}`},
		{"inverted window", `{"tle_line1":"x","tle_line2":"y","latitude":0,"longitude":0,"start_epoch":1759626000,"end_epoch":1759622400}`},
		{"oversized window", `{"tle_line1":"x","tle_line2":"y","latitude":0,"longitude":0,"start_epoch":1759622400,"end_epoch":1999999999}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/v1/transits", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got %d, want 400; body: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTransitsMethodNotAllowed(t *testing.T) {
	h := testServer(auth.Config{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transits", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET = %d, want 405", rec.Code)
	}
}

// An unusable TLE is not a client error at this boundary: the engine returns
// an empty event list and the request succeeds.
func TestTransitsGarbageTLEReturnsEmptyList(t *testing.T) {
	h := testServer(auth.Config{}).Handler()
	body := `{"tle_line1":"garbage","tle_line2":"garbage","latitude":48.8566,"longitude":2.3522,"start_epoch":1759622400,"end_epoch":1759626000}`
	rec := postJSON(t, h, "/api/v1/transits", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var events []transits.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("response is not an event array: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events from garbage elements", len(events))
	}
}

func TestTransitsShortRealScan(t *testing.T) {
	h := testServer(auth.Config{}).Handler()
	// One hour near the element epoch. Usually eventless; the point is a
	// well-formed 200 array either way.
	body := `{"tle_line1":"` + issLine1 + `","tle_line2":"` + issLine2 + `","satellite":"ISS (ZARYA)","latitude":48.8566,"longitude":2.3522,"altitude_m":35,"start_epoch":1759622400,"end_epoch":1759626000}`
	rec := postJSON(t, h, "/api/v1/transits", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var events []transits.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("response is not an event array: %v", err)
	}
	for i, ev := range events {
		if ev.Body != "Sun" && ev.Body != "Moon" {
			t.Errorf("event %d body = %q", i, ev.Body)
		}
	}
}

func TestAuthEnforcement(t *testing.T) {
	h := testServer(auth.Config{Enabled: true, Token: "sekrit"}).Handler()
	body := `{"tle_line1":"x","tle_line2":"y","latitude":0,"longitude":0,"start_epoch":1759622400,"end_epoch":1759626000}`

	rec := postJSON(t, h, "/api/v1/transits", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transits", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: got %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/transits", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer sekrit")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("valid token rejected: %d", rec.Code)
	}

	// Probes stay public with auth enabled.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz with auth enabled: got %d, want 200", rec.Code)
	}
}

func TestRateLimitedHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := ratelimit.NewIPLimiter(ratelimit.Config{RPS: 1, Burst: 1})
	s := NewServer("127.0.0.1:0", logger, auth.Config{}, limiter, time.Hour)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transits", nil)
	req.RemoteAddr = "7.7.7.7:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusTooManyRequests {
		t.Fatalf("first request limited")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", rec.Code)
	}
}
