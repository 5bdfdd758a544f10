package heron

import "fmt"

// CelestialObject defines the central body of an orbit. Everything is in
// metres: the two-line element sets this package deals in describe
// Earth-orbiting objects, but the gravitational parameter is injected through
// the body rather than read from a hidden global.
type CelestialObject struct {
	Name   string
	Radius float64 // m
	μ      float64 // m³/s²
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c CelestialObject) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch name {
	case "Earth", "earth":
		return Earth, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined body '%s'", name)
	}
}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378136.3, 3.986004418e14}
