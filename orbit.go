package heron

import (
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e4                          // 20 km

	// Degeneracy guards for the classical-elements recovery: below these the
	// perigee direction or the node line is not defined.
	circularε   = 1e-9
	equatorialε = 1e-9

	// Kepler solver bounds. The iteration cap is a correctness bound, not a
	// responsiveness mechanism.
	keplerMaxIter = 100
	keplerε       = 1e-12
)

// Orbit defines an orbit via its classical Keplerian elements: semi-major
// axis in metres, eccentricity, and inclination, RAAN, argument of perigee
// and mean anomaly in radians. The value is immutable after construction and
// every derived quantity is recomputed per call, so concurrent use needs no
// coordination.
type Orbit struct {
	a, e, i, Ω, ω, M float64
	Origin           CelestialObject // Orbit origin
}

// NewOrbit creates an orbit from the six classical elements (angles in
// radians, semi-major axis in metres).
func NewOrbit(a, e, i, Ω, ω, M float64, c CelestialObject) (Orbit, error) {
	if a <= 0 {
		return Orbit{}, DomainError{"semi-major axis", a, "a > 0 (bound orbit)"}
	}
	if e < 0 || e >= 1 {
		return Orbit{}, DomainError{"eccentricity", e, "0 <= e < 1 (elliptical orbit)"}
	}
	return Orbit{a, e, i, Ω, ω, M, c}, nil
}

// NewOrbitFromRV recovers the orbital elements from the inertial radius and
// velocity vectors (metres, metres per second). From Vallado's RV2COE, page
// 113, with the mean anomaly taken through the eccentric anomaly. The
// recovery assumes a bound, non-circular, non-equatorial orbit; anything else
// returns a DomainError naming the violated precondition rather than NaN
// elements.
func NewOrbitFromRV(R, V []float64, c CelestialObject) (Orbit, error) {
	hVec := cross(R, V)
	h := norm(hVec)
	r := norm(R)
	v := norm(V)
	ξ := (v*v)/2 - c.μ/r
	if ξ >= 0 {
		return Orbit{}, DomainError{"specific energy", ξ, "ξ < 0 (bound orbit)"}
	}
	a := -c.μ / (2 * ξ)
	eVec := make([]float64, 3)
	rv := dot(R, V)
	for k := 0; k < 3; k++ {
		eVec[k] = ((v*v-c.μ/r)*R[k] - rv*V[k]) / c.μ
	}
	e := norm(eVec)
	if e >= 1 {
		return Orbit{}, DomainError{"eccentricity", e, "e < 1 (parabolic and hyperbolic orbits not supported)"}
	}
	if e < circularε {
		return Orbit{}, DomainError{"eccentricity", e, "e > 0 (perigee undefined on a circular orbit)"}
	}
	nVec := cross([]float64{0, 0, 1}, hVec)
	n := norm(nVec)
	i := math.Acos(hVec[2] / h)
	if n/h < equatorialε {
		return Orbit{}, DomainError{"inclination", i, "i not near 0 or π (node line undefined on an equatorial orbit)"}
	}
	Ω := math.Acos(clampCos(nVec[0] / n))
	if nVec[1] < 0 {
		Ω = 2*math.Pi - Ω
	}
	ω := math.Acos(clampCos(dot(nVec, eVec) / (n * e)))
	if eVec[2] < 0 {
		ω = 2*math.Pi - ω
	}
	E := math.Acos(clampCos((1 - r/a) / e))
	if rv < 0 {
		E = 2*math.Pi - E
	}
	M := E - e*math.Sin(E)
	// Fix rounding errors.
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	M = math.Mod(M, 2*math.Pi)
	return Orbit{a, e, i, Ω, ω, M, c}, nil
}

// clampCos truncates approximation errors which push a cosine slightly out of
// [-1, 1] and would turn math.Acos into a NaN factory.
func clampCos(c float64) float64 {
	if absc := math.Abs(c); absc > 1 && floats.EqualWithinAbs(absc, 1, 1e-12) {
		return sign(c)
	}
	return c
}

// Elements returns the six classical elements, angles modulo 2π.
func (o Orbit) Elements() (a, e, i, Ω, ω, M float64) {
	return o.a, o.e, posMod2Pi(o.i), posMod2Pi(o.Ω), posMod2Pi(o.ω), posMod2Pi(o.M)
}

func posMod2Pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x
}

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	return -o.Origin.μ / (2 * o.a)
}

// SemiParameter returns the semi-latus rectum.
func (o Orbit) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// Apoapsis returns the apoapsis radius.
func (o Orbit) Apoapsis() float64 {
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis radius.
func (o Orbit) Periapsis() float64 {
	return o.a * (1 - o.e)
}

// Period returns the period of this orbit.
func (o Orbit) Period() time.Duration {
	// The time package does not trivially handle fractions of a second, so let's
	// compute this in a convoluted way...
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.Origin.μ)
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration
}

// MeanMotion returns the mean motion in revolutions per day.
func (o Orbit) MeanMotion() float64 {
	T := 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.Origin.μ)
	return 86400 / T
}

// EccentricAnomaly solves Kepler's equation M = E - e·sin(E) for the
// eccentric anomaly. The initial guess is refined with Halley's method
// (cubic convergence) for at most keplerMaxIter iterations; exhausting the
// bound is a ConvergenceError, never a silently unconverged value.
func (o Orbit) EccentricAnomaly() (float64, error) {
	if o.e < 0 || o.e >= 1 {
		return 0, DomainError{"eccentricity", o.e, "0 <= e < 1 (elliptical orbit)"}
	}
	sinM := math.Sin(o.M)
	E := o.M + o.e*sinM/(1-math.Sin(o.M+o.e)+sinM)
	var Δ float64
	for iter := 0; iter < keplerMaxIter; iter++ {
		f := E - o.e*math.Sin(E) - o.M
		fʹ := 1 - o.e*math.Cos(E)
		fʺ := o.e * math.Sin(E)
		Δ = -2 * f * fʹ / (2*fʹ*fʹ - f*fʺ)
		E += Δ
		if math.Abs(Δ) < keplerε {
			return E, nil
		}
	}
	return 0, ConvergenceError{keplerMaxIter, Δ}
}

// TrueAnomaly returns ν from the mean anomaly, through the eccentric anomaly.
func (o Orbit) TrueAnomaly() (float64, error) {
	E, err := o.EccentricAnomaly()
	if err != nil {
		return 0, err
	}
	return 2 * math.Atan(math.Sqrt((1+o.e)/(1-o.e))*math.Tan(E/2)), nil
}

// RV computes the inertial radius and velocity vectors at the current mean
// anomaly: position and velocity in the perifocal plane from the angular
// momentum relations, then a 3-1-3 rotation to the inertial frame. The only
// failure mode is the Kepler solver's.
func (o Orbit) RV() (R, V []float64, err error) {
	ν, err := o.TrueAnomaly()
	if err != nil {
		return nil, nil, err
	}
	sinν, cosν := math.Sincos(ν)
	p := o.SemiParameter()
	r := p / (1 + o.e*cosν)

	R = PQW2ECI(o.i, o.ω, o.Ω, []float64{r * cosν, r * sinν, 0})
	V = PQW2ECI(o.i, o.ω, o.Ω, []float64{-math.Sqrt(o.Origin.μ/p) * sinν,
		math.Sqrt(o.Origin.μ/p) * (o.e + cosν), 0})
	return R, V, nil
}

// String implements the stringer interface (hence the value receiver).
func (o Orbit) String() string {
	return fmt.Sprintf("a=%.1f e=%.6f i=%.3f Ω=%.3f ω=%.3f M=%.3f", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.M))
}

// Equals returns whether two orbits are identical, with the reason when not.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if !o.Origin.Equals(o1.Origin) {
		return false, fmt.Errorf("different origin")
	}
	if !floats.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, fmt.Errorf("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, fmt.Errorf("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, fmt.Errorf("inclination invalid")
	}
	if !floats.EqualWithinAbs(posMod2Pi(o.Ω), posMod2Pi(o1.Ω), angleε) {
		return false, fmt.Errorf("RAAN invalid")
	}
	if !floats.EqualWithinAbs(posMod2Pi(o.ω), posMod2Pi(o1.ω), angleε) {
		return false, fmt.Errorf("argument of perigee invalid")
	}
	if !floats.EqualWithinAbs(posMod2Pi(o.M), posMod2Pi(o1.M), angleε) {
		return false, fmt.Errorf("mean anomaly invalid")
	}
	return true, nil
}
