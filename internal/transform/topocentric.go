package transform

import "math"

// WGS-84 ellipsoid parameters.
const (
	wgs84AKm = 6378.137              // semi-major axis (km)
	wgs84F   = 1.0 / 298.257223563   // flattening
	wgs84E2  = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// ObserverPosition holds a ground observer's location in both geodetic and
// Earth-fixed form. The ECEF position and the lat/lon in radians are computed
// once so they can be reused across the many frame rotations of a scan.
// Immutable for the duration of a prediction call.
type ObserverPosition struct {
	LatRad, LonRad float64
	AltM           float64
	ECEF           ECEFVector // km
}

// NewObserverPosition creates an ObserverPosition from geodetic coordinates.
// Latitude and longitude are in degrees (longitude of any magnitude is
// wrapped by the trigonometry), altitude in meters above the WGS-84 ellipsoid.
func NewObserverPosition(latDeg, lonDeg, altM float64) ObserverPosition {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// Radius of curvature in the prime vertical.
	n := wgs84AKm / math.Sqrt(1-wgs84E2*sinLat*sinLat)
	altKm := altM / 1000.0

	return ObserverPosition{
		LatRad: lat,
		LonRad: lon,
		AltM:   altM,
		ECEF: ECEFVector{Vec3{
			X: (n + altKm) * cosLat * cosLon,
			Y: (n + altKm) * cosLat * sinLon,
			Z: (n*(1-wgs84E2) + altKm) * sinLat,
		}},
	}
}

// ToSEZ projects an observer-relative ECEF vector into this observer's
// topocentric basis.
func (o ObserverPosition) ToSEZ(v ECEFVector) SEZVector {
	return ECEFToSEZ(v, o.LatRad, o.LonRad)
}
