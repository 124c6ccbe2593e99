// Package propagation adapts an orbital propagator to the transit engine.
//
// The engine depends only on the Propagator capability interface so the real
// SGP4 model can be swapped for a deterministic fake in tests of the search
// and refinement logic.
package propagation

import (
	"fmt"
	"time"

	"github.com/geraldgg/helioselene/internal/transform"
)

// Propagator produces a satellite's geocentric position in the
// pseudo-inertial TEME frame at a given instant.
type Propagator interface {
	PositionTEME(t time.Time) (transform.TEMEVector, error)
}

// PropagationError reports that the underlying orbital model could not
// produce a usable position for a specific instant. Callers treat it as
// "no sample available" and keep scanning, never as a fatal condition.
type PropagationError struct {
	At     time.Time
	Reason string
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagation failed at %s: %s", e.At.UTC().Format(time.RFC3339), e.Reason)
}
