package transits

import (
	"time"

	"github.com/geraldgg/helioselene/internal/ephemeris"
	"github.com/geraldgg/helioselene/internal/transform"
)

// sample holds the derived geometry at one instant for one body. Samples are
// ephemeral: recomputed at every instant, never cached.
type sample struct {
	sepDeg float64 // angular separation satellite-body

	satAltDeg  float64
	satAzDeg   float64
	bodyAltDeg float64

	satRangeKm float64
	bodyDistKm float64
}

// sampleAt computes the full geometric sample for one body at instant t.
// A propagation failure is returned to the caller, which skips the instant.
func (f *finder) sampleAt(t time.Time, body ephemeris.Body) (sample, error) {
	satTEME, err := f.prop.PositionTEME(t)
	if err != nil {
		return sample{}, err
	}

	jd := transform.JulianDate(t)
	gmst := transform.GMST(t)

	obsTEME := transform.ECEFToTEME(f.obs.ECEF, gmst)
	satTopo := satTEME.Sub(obsTEME)
	bodyTopo := body.PositionTEME(jd).Sub(obsTEME)

	// Altitude/azimuth come from the observer's local frame: rotate both
	// relative vectors back to Earth-fixed and project to SEZ.
	satSEZ := f.obs.ToSEZ(transform.TEMEToECEF(satTopo, gmst))
	bodySEZ := f.obs.ToSEZ(transform.TEMEToECEF(bodyTopo, gmst))

	satAlt, satAz := transform.AltAz(satSEZ)
	bodyAlt, _ := transform.AltAz(bodySEZ)

	return sample{
		sepDeg:     transform.AngularSeparationDeg(satTopo.Vec3, bodyTopo.Vec3),
		satAltDeg:  satAlt,
		satAzDeg:   satAz,
		bodyAltDeg: bodyAlt,
		satRangeKm: satTopo.Norm(),
		bodyDistKm: bodyTopo.Norm(),
	}, nil
}

// satAltitudeAt computes only the satellite's altitude above the observer's
// horizon at t. Cheaper than sampleAt; used by the pass-interval scan.
func (f *finder) satAltitudeAt(t time.Time) (float64, error) {
	satTEME, err := f.prop.PositionTEME(t)
	if err != nil {
		return 0, err
	}

	gmst := transform.GMST(t)
	obsTEME := transform.ECEFToTEME(f.obs.ECEF, gmst)
	topo := satTEME.Sub(obsTEME)

	sez := f.obs.ToSEZ(transform.TEMEToECEF(topo, gmst))
	alt, _ := transform.AltAz(sez)
	return alt, nil
}
