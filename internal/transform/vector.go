// Package transform provides the coordinate frames and vector math used by
// the transit engine.
//
// Three frames appear, and frame identity is carried in the type system so a
// vector can never silently cross frames:
//
//   - TEME: pseudo-inertial True Equator Mean Equinox frame. SGP4 outputs
//     satellite positions here, and the Sun/Moon approximators produce their
//     positions in the same frame family (TEME vs. J2000 differences are far
//     below the arcminute precision this engine targets).
//   - ECEF: Earth-Centered Earth-Fixed, co-rotating with the Earth.
//   - SEZ: topocentric South-East-Zenith decomposition for a ground observer.
//
// TEME↔ECEF is a rigid rotation about the polar axis by the Greenwich mean
// sidereal angle. All vectors are in kilometers.
//
// Reference: Vallado, "Fundamentals of Astrodynamics and Applications", Ch. 3-4.
package transform

import "math"

// Vec3 is a plain 3D vector in kilometers.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Dot returns the scalar product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean magnitude of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// TEMEVector is a position in the pseudo-inertial TEME frame (km).
type TEMEVector struct {
	Vec3
}

// ECEFVector is a position in the Earth-fixed co-rotating frame (km).
type ECEFVector struct {
	Vec3
}

// SEZVector is an observer-relative topocentric vector (km):
// X = South, Y = East, Z = Zenith.
type SEZVector struct {
	Vec3
}

// Sub returns the TEME vector v - o. Both operands stay in the same frame.
func (v TEMEVector) Sub(o TEMEVector) TEMEVector {
	return TEMEVector{v.Vec3.Sub(o.Vec3)}
}

// RotateZ rotates v about the polar (Z) axis by theta radians.
// The inverse rotation is RotateZ(-theta, v). Preserves the vector norm.
func RotateZ(theta float64, v Vec3) Vec3 {
	s, c := math.Sincos(theta)
	return Vec3{
		X: c*v.X - s*v.Y,
		Y: s*v.X + c*v.Y,
		Z: v.Z,
	}
}

// ECEFToTEME rotates an Earth-fixed vector into the pseudo-inertial frame
// using the Greenwich mean sidereal angle gmst (radians).
func ECEFToTEME(v ECEFVector, gmst float64) TEMEVector {
	return TEMEVector{RotateZ(gmst, v.Vec3)}
}

// TEMEToECEF rotates a pseudo-inertial vector into the Earth-fixed frame.
// Inverse of ECEFToTEME for the same gmst.
func TEMEToECEF(v TEMEVector, gmst float64) ECEFVector {
	return ECEFVector{RotateZ(-gmst, v.Vec3)}
}

// ECEFToSEZ projects an observer-relative ECEF vector into the observer's
// local South-East-Zenith basis. latRad/lonRad are the observer's geodetic
// latitude and longitude in radians.
func ECEFToSEZ(v ECEFVector, latRad, lonRad float64) SEZVector {
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)

	return SEZVector{Vec3{
		X: sinLat*cosLon*v.X + sinLat*sinLon*v.Y - cosLat*v.Z,
		Y: -sinLon*v.X + cosLon*v.Y,
		Z: cosLat*cosLon*v.X + cosLat*sinLon*v.Y + sinLat*v.Z,
	}}
}

// AltAz extracts altitude and azimuth (degrees) from a topocentric vector.
// Altitude is the angle above the horizon. Azimuth is measured clockwise
// from north and normalized to [0, 360).
func AltAz(v SEZVector) (altDeg, azDeg float64) {
	r := v.Norm()
	altDeg = math.Asin(v.Z/r) * 180.0 / math.Pi

	// In SEZ, north is -X, so az = atan2(East, North) = atan2(Y, -X).
	azDeg = math.Atan2(v.Y, -v.X) * 180.0 / math.Pi
	if azDeg < 0 {
		azDeg += 360.0
	}
	return altDeg, azDeg
}

// AngularSeparationDeg returns the angle between two direction vectors in
// degrees, always in [0, 180]. Both vectors must be expressed in the same
// frame. The normalized dot product is clamped to [-1, 1] before the
// arccosine to guard against floating-point overshoot.
func AngularSeparationDeg(a, b Vec3) float64 {
	denom := a.Norm() * b.Norm()
	cos := a.Dot(b) / denom
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180.0 / math.Pi
}
