// Package transits implements the search engine that locates satellite
// transits, near misses, and reachable events against the Sun and Moon for a
// fixed ground observer.
//
// The search is a coarse-to-fine temporal minimization of angular separation:
// a coarse scan finds pass intervals where the satellite is above a minimum
// elevation, a liberal prefilter marks close-approach candidates inside each
// pass, and a dense refinement around each candidate locates the true local
// minimum before classification.
package transits

import (
	"runtime"
	"time"
)

// Config holds the tunable parameters of a transit scan. The zero value of a
// field selects its default; use DefaultConfig for the complete default set.
type Config struct {
	// CoarseStep is the stride of the initial scan over the whole window.
	CoarseStep time.Duration
	// FineStep is the stride of refinement sampling and the half-step of
	// the centered differences used for motion measurement.
	FineStep time.Duration
	// RefineWindow is the half-width of the symmetric refinement window
	// around a coarse candidate.
	RefineWindow time.Duration
	// MinAltitudeDeg is the satellite elevation that opens a pass interval.
	MinAltitudeDeg float64
	// NearMarginDeg is the margin beyond the disc radius classified "near".
	NearMarginDeg float64
	// SafetyBufferDeg widens the coarse candidate prefilter beyond
	// radius + near margin so a coarse sample cannot step over a minimum.
	SafetyBufferDeg float64
	// MaxDistanceKm is the maximum practical travel distance for the
	// "reachable" classification. Zero or negative disables it.
	MaxDistanceKm float64
	// Cooldown is how far the scan cursor jumps past a refined closest
	// approach, so one pass is not detected twice.
	Cooldown time.Duration
	// SatelliteSizeM is the satellite's largest linear dimension, used for
	// its reported angular size. Defaults to the ISS truss span.
	SatelliteSizeM float64
	// Workers bounds the number of pass intervals refined concurrently.
	Workers int
}

// DefaultConfig returns the standard scan parameters.
func DefaultConfig() Config {
	return Config{
		CoarseStep:      20 * time.Second,
		FineStep:        time.Second,
		RefineWindow:    60 * time.Second,
		MinAltitudeDeg:  5.0,
		NearMarginDeg:   0.5,
		SafetyBufferDeg: 2.0,
		MaxDistanceKm:   35.0,
		Cooldown:        300 * time.Second,
		SatelliteSizeM:  108.0,
		Workers:         runtime.NumCPU(),
	}
}

// normalized fills unset fields with their defaults. MaxDistanceKm is kept
// as given: zero means the reachable classification is disabled.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c == (Config{}) {
		return def
	}
	if c.CoarseStep <= 0 {
		c.CoarseStep = def.CoarseStep
	}
	if c.FineStep <= 0 {
		c.FineStep = def.FineStep
	}
	if c.RefineWindow <= 0 {
		c.RefineWindow = def.RefineWindow
	}
	if c.MinAltitudeDeg <= 0 {
		c.MinAltitudeDeg = def.MinAltitudeDeg
	}
	if c.NearMarginDeg <= 0 {
		c.NearMarginDeg = def.NearMarginDeg
	}
	if c.SafetyBufferDeg <= 0 {
		c.SafetyBufferDeg = def.SafetyBufferDeg
	}
	if c.MaxDistanceKm < 0 {
		c.MaxDistanceKm = 0
	}
	if c.Cooldown <= 0 {
		c.Cooldown = def.Cooldown
	}
	if c.SatelliteSizeM <= 0 {
		c.SatelliteSizeM = def.SatelliteSizeM
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	return c
}
