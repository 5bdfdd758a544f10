package heron

import (
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

/* Delegation to the go-satellite SGP4 implementation. The drag-aware model
and the Earth-fixed rotation both live there; this file only adapts units
(go-satellite works in kilometres, everything here is metres). */

const kmToM = 1000.0

// SGP4State propagates a record to the given wall-clock time with the SGP4
// model and returns the inertial position and velocity in metres and metres
// per second.
func SGP4State(t TLE, at time.Time) (R, V []float64) {
	line1, line2 := t.Lines()
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()
	pos, vel := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	R = []float64{pos.X * kmToM, pos.Y * kmToM, pos.Z * kmToM}
	V = []float64{vel.X * kmToM, vel.Y * kmToM, vel.Z * kmToM}
	return R, V
}

// GMST returns the Greenwich mean sidereal time angle (radians) at the given
// wall-clock time.
func GMST(at time.Time) float64 {
	at = at.UTC()
	year, month, day := at.Date()
	hour, min, sec := at.Clock()
	return satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))
}

// ECIToECEF rotates an inertial position (metres) to the Earth-fixed frame at
// the given time. The rotation is delegated to go-satellite; velocities need
// the full transport term and stay out of scope here.
func ECIToECEF(R []float64, at time.Time) []float64 {
	p := satellite.ECIToECEF(satellite.Vector3{X: R[0] / kmToM, Y: R[1] / kmToM, Z: R[2] / kmToM}, GMST(at))
	return []float64{p.X * kmToM, p.Y * kmToM, p.Z * kmToM}
}

// ECEFToECI rotates an Earth-fixed position (metres) to the inertial frame at
// the given time.
func ECEFToECI(R []float64, at time.Time) []float64 {
	p := satellite.ECIToECEF(satellite.Vector3{X: R[0] / kmToM, Y: R[1] / kmToM, Z: R[2] / kmToM}, -GMST(at))
	return []float64{p.X * kmToM, p.Y * kmToM, p.Z * kmToM}
}
