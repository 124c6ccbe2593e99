package propagation

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/geraldgg/helioselene/internal/transform"
)

// go-satellite's Propagate() takes Satellite by value, so SGP4 error codes
// set during propagation are not visible to the caller. Failures are instead
// detected by checking the output for NaN/Inf and unreasonable position
// magnitudes.

// SGP4Propagator wraps the go-satellite SGP4 model for one element set.
// Immutable after construction; safe for concurrent use.
type SGP4Propagator struct {
	sat satellite.Satellite
}

// NewSGP4FromTLE initializes an SGP4 propagator from two-line element text.
// Returns an error if the lines are malformed or the model rejects them —
// the only call-level failure mode of a prediction.
//
// Pre-validates line format before handing off to the library, because
// go-satellite calls log.Fatal on unparsable input (which would kill the
// process).
func NewSGP4FromTLE(line1, line2 string) (*SGP4Propagator, error) {
	line1 = strings.TrimRight(line1, "\r\n ")
	line2 = strings.TrimRight(line2, "\r\n ")
	if err := validateTLELines(line1, line2); err != nil {
		return nil, fmt.Errorf("invalid TLE: %w", err)
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed: code=%d %s", sat.Error, sat.ErrorStr)
	}
	return &SGP4Propagator{sat: sat}, nil
}

// validateTLELines performs basic format validation on TLE lines.
func validateTLELines(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got %q", line2[0])
	}
	return nil
}

// PositionTEME computes the satellite's geocentric TEME position (km) at t.
func (p *SGP4Propagator) PositionTEME(t time.Time) (transform.TEMEVector, error) {
	t = t.UTC()
	pos, _ := satellite.Propagate(p.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return transform.TEMEVector{}, &PropagationError{At: t, Reason: "output is NaN/Inf"}
	}

	// Sanity check: anything outside ~LEO..super-GEO means the model has
	// diverged (decayed or degenerate orbit).
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return transform.TEMEVector{}, &PropagationError{
			At:     t,
			Reason: fmt.Sprintf("unreasonable position magnitude %.1f km", mag),
		}
	}

	return transform.TEMEVector{Vec3: transform.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}}, nil
}
