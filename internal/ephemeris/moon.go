package ephemeris

import (
	"math"

	"github.com/geraldgg/helioselene/internal/transform"
)

// MoonPositionTEME returns the Moon's geocentric position (km) at the given
// Julian date.
//
// Truncated lunar series over ecliptic longitude, latitude, and distance,
// built from the five fundamental arguments (mean longitude L', mean
// elongation D, solar mean anomaly M, lunar mean anomaly M', argument of
// latitude F), then rotated to equatorial components by the obliquity.
// The distance terms matter: they drive the apparent disc radius.
func MoonPositionTEME(jd float64) transform.TEMEVector {
	t := (jd - j2000) / 36525.0

	lPrime := (218.316 + 481267.881*t) * degToRad
	d := (297.850 + 445267.115*t) * degToRad
	m := (357.529 + 35999.050*t) * degToRad
	mPrime := (134.963 + 477198.868*t) * degToRad
	f := (93.272 + 483202.018*t) * degToRad

	// Ecliptic longitude (rad).
	lambda := lPrime +
		6.289*degToRad*math.Sin(mPrime) +
		1.274*degToRad*math.Sin(2*d-mPrime) +
		0.658*degToRad*math.Sin(2*d) +
		0.214*degToRad*math.Sin(2*mPrime) -
		0.186*degToRad*math.Sin(m)

	// Ecliptic latitude (rad).
	beta := 5.128*degToRad*math.Sin(f) +
		0.280*degToRad*math.Sin(mPrime+f)

	// Distance (km).
	r := 385000.0 - 20905.0*math.Cos(mPrime) -
		3699.0*math.Cos(2*d-mPrime) -
		2956.0*math.Cos(2*d) -
		570.0*math.Cos(2*mPrime)

	eps := (23.439291 - 0.0130042*t) * degToRad

	sinBeta, cosBeta := math.Sincos(beta)
	sinLambda, cosLambda := math.Sincos(lambda)
	sinEps, cosEps := math.Sincos(eps)

	return transform.TEMEVector{Vec3: transform.Vec3{
		X: r * cosBeta * cosLambda,
		Y: r * (cosBeta*sinLambda*cosEps - sinBeta*sinEps),
		Z: r * (cosBeta*sinLambda*sinEps + sinBeta*cosEps),
	}}
}
