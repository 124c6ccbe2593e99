package transits

import (
	"context"
	"log/slog"
	"time"

	"github.com/geraldgg/helioselene/internal/metrics"
	"github.com/geraldgg/helioselene/internal/propagation"
	"github.com/geraldgg/helioselene/internal/transform"
)

// Request describes one prediction scan: the satellite's orbital elements,
// the observer's geodetic position and the UTC window to search.
type Request struct {
	Line1         string
	Line2         string
	SatelliteName string

	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	AltitudeM float64 // meters above the ellipsoid

	Start time.Time
	End   time.Time

	Config Config
}

// Predict finds every Sun and Moon crossing event in the request window,
// ordered by instant. It never fails the caller: an unusable TLE or an
// empty window yields an empty slice, and per-sample propagation errors are
// skipped. The returned slice is always non-nil.
func Predict(ctx context.Context, req Request, logger *slog.Logger) []Event {
	if logger == nil {
		logger = slog.Default()
	}

	if !req.End.After(req.Start) {
		return []Event{}
	}

	prop, err := propagation.NewSGP4FromTLE(req.Line1, req.Line2)
	if err != nil {
		logger.Warn("rejecting unusable orbital elements",
			"satellite", req.SatelliteName,
			"error", err,
		)
		return []Event{}
	}

	obs := transform.NewObserverPosition(req.Latitude, req.Longitude, req.AltitudeM)
	events := FindEvents(ctx, prop, req.SatelliteName, obs, req.Start, req.End, req.Config, logger)
	if events == nil {
		events = []Event{}
	}
	return events
}

// FindEvents runs the scan against an already-built propagator. Predict is
// the usual entry point; this one exists so callers can substitute their own
// Propagator.
func FindEvents(ctx context.Context, prop propagation.Propagator, satName string, obs transform.ObserverPosition, start, end time.Time, cfg Config, logger *slog.Logger) []Event {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.normalized()

	f := &finder{
		prop:    prop,
		obs:     obs,
		cfg:     cfg,
		satName: satName,
		logger:  logger,
	}

	scanStart := time.Now()
	events := f.findAll(ctx, start.UTC(), end.UTC())
	metrics.RecordScan(time.Since(scanStart))

	logger.Info("scan complete",
		"satellite", satName,
		"window_start", start.UTC().Format(time.RFC3339),
		"window_end", end.UTC().Format(time.RFC3339),
		"events", len(events),
		"elapsed", time.Since(scanStart).String(),
	)
	return events
}
