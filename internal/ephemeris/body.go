// Package ephemeris provides low-precision closed-form positions for the Sun
// and Moon in the pseudo-inertial frame used for satellite propagation.
//
// The series are truncated Meeus-style approximations, accurate to roughly
// the arcminute level — enough for sub-arcminute transit separation decisions
// against discs half a degree wide, and deliberately far from
// ephemeris-publication precision. The Moon's distance is always taken from
// the model rather than a mean value: the 356k–406k km perigee/apogee swing
// changes the apparent disc radius by more than the near-miss margin.
package ephemeris

import (
	"math"

	"github.com/geraldgg/helioselene/internal/transform"
)

// Physical constants (km).
const (
	SunRadiusKm  = 696340.0
	MoonRadiusKm = 1737.4
	AUKm         = 149597870.7
)

// Body identifies a target celestial body.
type Body int

const (
	Sun Body = iota
	Moon
)

// Bodies lists every body the engine evaluates, in evaluation order.
var Bodies = [...]Body{Sun, Moon}

func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Moon:
		return "Moon"
	}
	return "unknown"
}

// RadiusKm returns the body's physical radius.
func (b Body) RadiusKm() float64 {
	if b == Sun {
		return SunRadiusKm
	}
	return MoonRadiusKm
}

// PositionTEME returns the body's geocentric position at the given Julian
// date, in the same pseudo-inertial frame as satellite positions (km).
func (b Body) PositionTEME(jd float64) transform.TEMEVector {
	if b == Sun {
		return SunPositionTEME(jd)
	}
	return MoonPositionTEME(jd)
}

// AngularRadiusDeg returns the apparent angular radius (degrees) of the body
// seen from distKm away: asin(R/d). The argument is clamped so a degenerate
// distance cannot produce NaN.
func (b Body) AngularRadiusDeg(distKm float64) float64 {
	ratio := b.RadiusKm() / distKm
	if ratio > 1 {
		ratio = 1
	}
	return math.Asin(ratio) * 180.0 / math.Pi
}
