package ephemeris

import (
	"math"

	"github.com/geraldgg/helioselene/internal/transform"
)

const (
	j2000    = 2451545.0
	degToRad = math.Pi / 180.0
)

// SunPositionTEME returns the Sun's geocentric position (km) at the given
// Julian date.
//
// Low-precision solar model: mean longitude plus the equation of center give
// the ecliptic longitude, the mean anomaly gives the distance in AU, and the
// obliquity of the ecliptic rotates the result to equatorial components.
//
//	L = 280.460 + 0.9856474 d        (mean longitude, deg)
//	g = 357.528 + 0.9856003 d        (mean anomaly, deg)
//	λ = L + 1.915 sin g + 0.020 sin 2g
//	r = 1.00014 − 0.01671 cos g − 0.00014 cos 2g   (AU)
//	ε = 23.439 − 4.0e-7 d            (obliquity, deg)
func SunPositionTEME(jd float64) transform.TEMEVector {
	d := jd - j2000

	l := math.Mod(280.460+0.9856474*d, 360.0)
	g := math.Mod(357.528+0.9856003*d, 360.0) * degToRad
	lambda := (l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)) * degToRad
	r := 1.00014 - 0.01671*math.Cos(g) - 0.00014*math.Cos(2*g)
	epsilon := (23.439 - 0.0000004*d) * degToRad

	sinLambda := math.Sin(lambda)
	return transform.TEMEVector{Vec3: transform.Vec3{
		X: r * math.Cos(lambda) * AUKm,
		Y: r * sinLambda * math.Cos(epsilon) * AUKm,
		Z: r * sinLambda * math.Sin(epsilon) * AUKm,
	}}
}
