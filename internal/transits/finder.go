package transits

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/geraldgg/helioselene/internal/ephemeris"
	"github.com/geraldgg/helioselene/internal/metrics"
	"github.com/geraldgg/helioselene/internal/propagation"
	"github.com/geraldgg/helioselene/internal/transform"
)

// finder runs one prediction scan. All fields are read-only during the scan;
// pass intervals are independent units of work.
type finder struct {
	prop    propagation.Propagator
	obs     transform.ObserverPosition
	cfg     Config
	satName string
	logger  *slog.Logger
}

// passInterval is a half-open time range [start, end) during which the
// satellite stays above the minimum elevation.
type passInterval struct {
	start, end time.Time
}

// findAll locates every event in [start, end). Pass intervals do not
// interact, so they are refined concurrently and the merged result is
// re-sorted by instant to keep the ordering contract.
func (f *finder) findAll(ctx context.Context, start, end time.Time) []Event {
	intervals := f.passIntervals(ctx, start, end)
	if len(intervals) == 0 {
		return nil
	}
	f.logger.Debug("pass intervals detected",
		"satellite", f.satName,
		"count", len(intervals),
		"min_altitude_deg", f.cfg.MinAltitudeDeg,
	)

	results := make([][]Event, len(intervals))
	sem := make(chan struct{}, f.cfg.Workers)
	var wg sync.WaitGroup

	for i, iv := range intervals {
		wg.Add(1)
		go func(idx int, iv passInterval) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			results[idx] = f.scanInterval(ctx, iv)
		}(i, iv)
	}
	wg.Wait()

	var events []Event
	for _, r := range results {
		events = append(events, r...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events
}

// passIntervals scans [start, end) at the coarse step and returns the
// contiguous ranges where satellite altitude is at or above the minimum.
// A propagation failure at a single instant is logged and treated as
// below-horizon; it never aborts the scan.
func (f *finder) passIntervals(ctx context.Context, start, end time.Time) []passInterval {
	var intervals []passInterval
	var passStart time.Time
	inPass := false

	for t := start; t.Before(end); t = t.Add(f.cfg.CoarseStep) {
		if ctx.Err() != nil {
			break
		}

		above := false
		alt, err := f.satAltitudeAt(t)
		if err != nil {
			metrics.RecordPropagationError()
			f.logger.Debug("skipping instant", "time", t.UTC().Format(time.RFC3339), "error", err)
		} else {
			above = alt >= f.cfg.MinAltitudeDeg
		}

		if above && !inPass {
			passStart = t
			inPass = true
		}
		if !above && inPass {
			intervals = append(intervals, passInterval{start: passStart, end: t})
			inPass = false
		}
	}
	if inPass {
		intervals = append(intervals, passInterval{start: passStart, end: end})
	}
	return intervals
}

// scanInterval walks one pass interval for both bodies independently. When a
// coarse sample falls inside the candidate prefilter, the approach is
// refined and classified; whether or not an event is emitted, scanning
// resumes at the refined closest approach plus the cooldown so the same
// approach is not detected twice.
func (f *finder) scanInterval(ctx context.Context, iv passInterval) []Event {
	var events []Event

	for _, body := range ephemeris.Bodies {
		// Refined minimum of the last handled approach. A refinement
		// window wider than the cooldown can re-find it from later
		// coarse instants; one approach yields one event.
		var lastMin time.Time

		for t := iv.start; t.Before(iv.end); {
			if ctx.Err() != nil {
				return events
			}

			s, err := f.sampleAt(t, body)
			if err != nil {
				metrics.RecordPropagationError()
				f.logger.Debug("skipping instant", "body", body.String(), "time", t.UTC().Format(time.RFC3339), "error", err)
				t = t.Add(f.cfg.CoarseStep)
				continue
			}

			// Below minimum elevation or body under the horizon: a
			// normal filtering condition, not an error.
			if s.satAltDeg < f.cfg.MinAltitudeDeg || s.bodyAltDeg < 0 {
				t = t.Add(f.cfg.CoarseStep)
				continue
			}

			radius := body.AngularRadiusDeg(s.bodyDistKm)
			if s.sepDeg > radius+f.cfg.NearMarginDeg+f.cfg.SafetyBufferDeg {
				t = t.Add(f.cfg.CoarseStep)
				continue
			}

			best, tMin, ok := f.refine(t, body)
			if !ok {
				// No valid sample in the whole refinement window:
				// drop the candidate and move on.
				t = t.Add(f.cfg.CoarseStep)
				continue
			}

			if !lastMin.IsZero() && tMin.Sub(lastMin) < f.cfg.Cooldown {
				t = t.Add(f.cfg.CoarseStep)
				continue
			}
			lastMin = tMin

			if ev, emitted := f.classifyAndMeasure(best, tMin, body); emitted {
				events = append(events, ev)
				metrics.RecordEvent(string(ev.Kind), ev.Body)
				f.logger.Info("event found",
					"kind", string(ev.Kind),
					"body", ev.Body,
					"time", tMin.UTC().Format(time.RFC3339),
					"separation_arcmin", ev.SeparationArcmin,
				)
			}
			// Emit or discard, the cooldown applies either way. The
			// refined minimum can precede the cursor, so the jump
			// must never move it backwards or hold it in place.
			next := tMin.Add(f.cfg.Cooldown)
			if !next.After(t) {
				next = t.Add(f.cfg.CoarseStep)
			}
			t = next
		}
	}
	return events
}

// refine samples densely over the symmetric window around tCenter and
// returns the sample with the smallest separation — the true local minimum
// at the fine-step resolution. ok is false when every instant in the window
// failed to propagate.
func (f *finder) refine(tCenter time.Time, body ephemeris.Body) (sample, time.Time, bool) {
	n := int(f.cfg.RefineWindow / f.cfg.FineStep)

	var best sample
	var tMin time.Time
	found := false

	for i := -n; i <= n; i++ {
		t := tCenter.Add(time.Duration(i) * f.cfg.FineStep)
		s, err := f.sampleAt(t, body)
		if err != nil {
			continue
		}
		if !found || s.sepDeg < best.sepDeg {
			best = s
			tMin = t
			found = true
		}
	}
	return best, tMin, found
}

// classifyAndMeasure applies the classification policy at the refined
// minimum and, for emitted events, measures apparent motion and builds the
// event record.
func (f *finder) classifyAndMeasure(best sample, tMin time.Time, body ephemeris.Body) (Event, bool) {
	radius := body.AngularRadiusDeg(best.bodyDistKm)
	kind := classify(best.sepDeg, radius, best.satRangeKm, best.bodyAltDeg, best.satAltDeg, f.cfg)
	if kind == "" {
		return Event{}, false
	}

	m := f.measure(tMin, body)
	duration := transitDuration(best.sepDeg, radius, m.speedDegPerS)

	angSizeArcsec := 0.0
	if best.satRangeKm > 0 {
		sizeKm := f.cfg.SatelliteSizeM / 1000.0
		angSizeArcsec = sizeKm / best.satRangeKm * (180.0 / math.Pi) * 3600.0
	}

	return Event{
		Time:                 tMin,
		Body:                 body.String(),
		SeparationArcmin:     best.sepDeg * 60.0,
		TargetRadiusArcmin:   radius * 60.0,
		Kind:                 kind,
		SatAltDeg:            best.satAltDeg,
		SatAzDeg:             best.satAzDeg,
		TargetAltDeg:         best.bodyAltDeg,
		Satellite:            f.satName,
		SpeedDegPerS:         m.speedDegPerS,
		SpeedArcminPerS:      m.speedDegPerS * 60.0,
		VelocityAltDegPerS:   m.altRateDegPerS,
		VelocityAzDegPerS:    m.azRateDegPerS,
		MotionDirectionDeg:   m.directionDeg,
		DurationS:            duration,
		SatAngularSizeArcsec: angSizeArcsec,
		SatDistanceKm:        best.satRangeKm,
	}, true
}

// classify applies the classification policy at a refined minimum.
// Returns "" when the candidate should be discarded. Every kind requires the
// body above the horizon and the satellite above the pass minimum.
func classify(sepDeg, radiusDeg, rangeKm, bodyAltDeg, satAltDeg float64, cfg Config) Kind {
	if bodyAltDeg < 0 || satAltDeg < cfg.MinAltitudeDeg {
		return ""
	}
	if sepDeg <= radiusDeg {
		return KindTransit
	}
	if sepDeg <= radiusDeg+cfg.NearMarginDeg {
		return KindNear
	}
	// Lateral ground offset to bring the line of sight into alignment,
	// small-angle: offset ≈ separation(rad) × range.
	if cfg.MaxDistanceKm > 0 && rangeKm > 0 {
		requiredKm := sepDeg * math.Pi / 180.0 * rangeKm
		if requiredKm <= cfg.MaxDistanceKm {
			return KindReachable
		}
	}
	return ""
}

// motion holds the apparent-motion descriptors measured at closest approach.
type motion struct {
	speedDegPerS   float64
	altRateDegPerS float64
	azRateDegPerS  float64
	directionDeg   float64
}

// measure estimates the satellite's apparent angular motion at tMin with
// centered finite differences over ±FineStep. The total speed comes from the
// separation between the two sampled topocentric directions; the component
// rates come from the altitude and azimuth differences. If either sample
// fails, everything is reported as zero.
func (f *finder) measure(tMin time.Time, body ephemeris.Body) motion {
	h := f.cfg.FineStep.Seconds()

	sm, errM := f.sampleAt(tMin.Add(-f.cfg.FineStep), body)
	sp, errP := f.sampleAt(tMin.Add(f.cfg.FineStep), body)
	if errM != nil || errP != nil {
		return motion{}
	}

	altRate := (sp.satAltDeg - sm.satAltDeg) / (2 * h)

	// Wrap-safe azimuth difference: a crossing of the 0/360 seam must not
	// read as a full-circle sweep.
	dAz := sp.satAzDeg - sm.satAzDeg
	if dAz > 180 {
		dAz -= 360
	} else if dAz < -180 {
		dAz += 360
	}
	azRate := dAz / (2 * h)

	// Total speed from the angle between the two apparent directions.
	vm := unitFromAltAz(sm.satAltDeg, sm.satAzDeg)
	vp := unitFromAltAz(sp.satAltDeg, sp.satAzDeg)
	speed := transform.AngularSeparationDeg(vm, vp) / (2 * h)

	// Bearing of motion: 0 = toward zenith/north, 90 = east, clockwise.
	direction := math.Atan2(azRate, altRate) * 180.0 / math.Pi
	if direction < 0 {
		direction += 360.0
	}

	return motion{
		speedDegPerS:   speed,
		altRateDegPerS: altRate,
		azRateDegPerS:  azRate,
		directionDeg:   direction,
	}
}

// unitFromAltAz builds a local-horizon unit vector from altitude and azimuth
// in degrees.
func unitFromAltAz(altDeg, azDeg float64) transform.Vec3 {
	alt := altDeg * math.Pi / 180.0
	az := azDeg * math.Pi / 180.0
	return transform.Vec3{
		X: math.Cos(alt) * math.Cos(az),
		Y: math.Cos(alt) * math.Sin(az),
		Z: math.Sin(alt),
	}
}

// transitDuration models the body as a circle of radiusDeg crossed by a
// straight chord at perpendicular offset sepDeg: the half-chord is
// sqrt(r²−d²) and the crossing takes 2·halfChord/speed seconds. Zero when
// there is no physical crossing or the speed is degenerate.
func transitDuration(sepDeg, radiusDeg, speedDegPerS float64) float64 {
	if speedDegPerS <= 0 || sepDeg >= radiusDeg {
		return 0
	}
	halfChord := math.Sqrt(radiusDeg*radiusDeg - sepDeg*sepDeg)
	return 2 * halfChord / speedDegPerS
}
