package transits

import "time"

// Kind classifies a detected event.
type Kind string

const (
	// KindTransit: the satellite's apparent position falls within the
	// body's apparent disc at closest approach.
	KindTransit Kind = "transit"
	// KindNear: closest approach outside the disc but within the
	// configured near margin.
	KindNear Kind = "near"
	// KindReachable: the satellite misses from here, but the line of
	// sight would align from a location within the maximum travel
	// distance.
	KindReachable Kind = "reachable"
)

// Event is the immutable record of one detected transit/near/reachable
// event. The field set is a versioned schema for downstream consumers; any
// change to it is a compatibility break.
type Event struct {
	// Time is the instant of closest approach (UTC).
	Time time.Time `json:"time_utc"`
	// Body is "Sun" or "Moon".
	Body string `json:"body"`
	// SeparationArcmin is the minimum angular separation in arcminutes.
	SeparationArcmin float64 `json:"separation_arcmin"`
	// TargetRadiusArcmin is the body's apparent angular radius in arcminutes.
	TargetRadiusArcmin float64 `json:"target_radius_arcmin"`
	// Kind is the classification at closest approach.
	Kind Kind `json:"kind"`
	// SatAltDeg and SatAzDeg give the satellite's position at closest
	// approach, degrees.
	SatAltDeg float64 `json:"sat_alt_deg"`
	SatAzDeg  float64 `json:"sat_az_deg"`
	// TargetAltDeg is the body's altitude at closest approach, degrees.
	TargetAltDeg float64 `json:"target_alt_deg"`
	// Satellite is the display name of the satellite.
	Satellite string `json:"satellite"`
	// SpeedDegPerS is the satellite's apparent angular speed, deg/s.
	SpeedDegPerS    float64 `json:"speed_deg_per_s"`
	SpeedArcminPerS float64 `json:"speed_arcmin_per_s"`
	// VelocityAltDegPerS / VelocityAzDegPerS are the centered-difference
	// altitude and azimuth rates, deg/s.
	VelocityAltDegPerS float64 `json:"velocity_alt_deg_per_s"`
	VelocityAzDegPerS  float64 `json:"velocity_az_deg_per_s"`
	// MotionDirectionDeg is the bearing of apparent motion, degrees
	// clockwise from up, in [0, 360).
	MotionDirectionDeg float64 `json:"motion_direction_deg"`
	// DurationS is the chord-crossing duration in seconds; zero for
	// near and reachable events.
	DurationS float64 `json:"duration_s"`
	// SatAngularSizeArcsec is the satellite's own angular size, arcseconds.
	SatAngularSizeArcsec float64 `json:"sat_angular_size_arcsec"`
	// SatDistanceKm is the observer-to-satellite range in kilometers.
	SatDistanceKm float64 `json:"sat_distance_km"`
}
